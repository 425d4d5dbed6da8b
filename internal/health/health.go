package health

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// Status представляет статус компонента
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
)

// Check представляет результат проверки компонента
type Check struct {
	Name       string `json:"name"`
	Status     Status `json:"status"`
	Message    string `json:"message,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

// Report — сводный результат самопроверки
type Report struct {
	Status    Status           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Checks    map[string]Check `json:"checks,omitempty"`
	Version   string           `json:"version,omitempty"`
}

// Healthy сообщает, можно ли работать кассе.
func (r Report) Healthy() bool {
	return r.Status != StatusUnhealthy
}

// WriteJSON печатает отчёт в w.
func (r Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// Checker интерфейс для проверки здоровья компонента
type Checker interface {
	Check() Check
}

// Registry хранит зарегистрированные проверки
type Registry struct {
	mu       sync.RWMutex
	checkers map[string]Checker
	version  string
}

// NewRegistry создаёт пустой набор проверок
func NewRegistry(version string) *Registry {
	return &Registry{
		checkers: make(map[string]Checker),
		version:  version,
	}
}

// RegisterChecker регистрирует проверку компонента
func (r *Registry) RegisterChecker(name string, checker Checker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers[name] = checker
}

// Run выполняет все проверки по порядку имён
func (r *Registry) Run() Report {
	r.mu.RLock()
	names := make([]string, 0, len(r.checkers))
	checkers := make(map[string]Checker, len(r.checkers))
	for k, v := range r.checkers {
		names = append(names, k)
		checkers[k] = v
	}
	r.mu.RUnlock()
	sort.Strings(names)

	checks := make(map[string]Check, len(names))
	overallStatus := StatusHealthy
	for _, name := range names {
		check := checkers[name].Check()
		checks[name] = check

		if check.Status == StatusUnhealthy {
			overallStatus = StatusUnhealthy
		} else if check.Status == StatusDegraded && overallStatus == StatusHealthy {
			overallStatus = StatusDegraded
		}
	}

	return Report{
		Status:    overallStatus,
		Timestamp: time.Now(),
		Checks:    checks,
		Version:   r.version,
	}
}

// SimpleChecker простая проверка с функцией
type SimpleChecker struct {
	name    string
	checkFn func() error
}

// NewSimpleChecker создаёт простую проверку
func NewSimpleChecker(name string, checkFn func() error) *SimpleChecker {
	return &SimpleChecker{
		name:    name,
		checkFn: checkFn,
	}
}

// Check выполняет проверку
func (c *SimpleChecker) Check() Check {
	start := time.Now()
	err := c.checkFn()
	duration := time.Since(start)

	if err != nil {
		return Check{
			Name:       c.name,
			Status:     StatusUnhealthy,
			Message:    err.Error(),
			DurationMs: duration.Milliseconds(),
		}
	}

	return Check{
		Name:       c.name,
		Status:     StatusHealthy,
		DurationMs: duration.Milliseconds(),
	}
}

// DirWritable проверяет, что в dir можно создать файл.
// Отсутствующий каталог создаётся, как и при записи счёта.
func DirWritable(dir string) func() error {
	return func() error {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
		probe, err := os.CreateTemp(dir, ".cafebill-probe-*")
		if err != nil {
			return fmt.Errorf("write to %s: %w", dir, err)
		}
		name := probe.Name()
		return errors.Join(probe.Close(), os.Remove(filepath.Clean(name)))
	}
}
