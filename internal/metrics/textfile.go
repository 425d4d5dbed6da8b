package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// WriteTextfile сохраняет метрики в формате textfile-коллектора node_exporter.
// Пустой path — выгрузка отключена.
func WriteTextfile(path string, gatherer prometheus.Gatherer) error {
	if path == "" {
		return nil
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	if err := prometheus.WriteToTextfile(path, gatherer); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
}
