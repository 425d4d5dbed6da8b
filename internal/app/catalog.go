package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vladislavdragonenkov/cafebill/internal/domain"
	"github.com/vladislavdragonenkov/cafebill/internal/invoice"
)

// catalogFile — формат YAML-файла меню.
type catalogFile struct {
	Items []domain.CatalogEntry `yaml:"items"`
}

// LoadCatalog возвращает меню из path или встроенное меню, если path пуст.
func LoadCatalog(path string) (*domain.Catalog, error) {
	if path == "" {
		return domain.DefaultCatalog(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	defer f.Close()

	catalog, err := ReadCatalog(f)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return catalog, nil
}

// ReadCatalog разбирает YAML-меню и проверяет его инварианты.
func ReadCatalog(r io.Reader) (*domain.Catalog, error) {
	var file catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", domain.ErrInvalidCatalog)
		}
		return nil, fmt.Errorf("%w: decode yaml: %w", domain.ErrInvalidCatalog, err)
	}
	return domain.NewCatalog(file.Items)
}

// WriteCatalog сериализует меню в YAML того же формата, что читает ReadCatalog.
func WriteCatalog(w io.Writer, catalog *domain.Catalog) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(catalogFile{Items: catalog.Entries()}); err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	return enc.Close()
}

// CheckPDFText перечисляет названия меню и подписи счёта, которые PDF выведет с потерями.
func CheckPDFText(catalog *domain.Catalog, style invoice.Style) error {
	var lossy []string
	check := func(text string) {
		if len(invoice.PDFUnsupported(text)) > 0 {
			lossy = append(lossy, strconv.Quote(text))
		}
	}
	check(style.CafeName)
	check(style.PDFCurrency)
	check(style.Farewell)
	for _, entry := range catalog.Entries() {
		check(entry.Name)
		for _, size := range entry.Sizes {
			check(size.Label)
		}
	}
	if len(lossy) == 0 {
		return nil
	}
	return fmt.Errorf("pdf invoices cannot render %s: characters outside cp1252", strings.Join(lossy, ", "))
}
