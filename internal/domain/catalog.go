package domain

import (
	"fmt"
	"strings"
)

// SizePrice — цена одного размера позиции в целых рупиях.
type SizePrice struct {
	Label string `yaml:"label"`
	Price int64  `yaml:"price"`
}

// CatalogEntry описывает позицию меню и её размеры в порядке объявления.
type CatalogEntry struct {
	Name  string      `yaml:"name"`
	Sizes []SizePrice `yaml:"sizes"`
}

// Catalog — неизменяемая таблица цен «позиция → размер → цена».
type Catalog struct {
	items  []string
	sizes  map[string][]string
	prices map[string]map[string]int64
}

// NewCatalog строит меню и проверяет его инварианты.
func NewCatalog(entries []CatalogEntry) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no items", ErrInvalidCatalog)
	}

	c := &Catalog{
		items:  make([]string, 0, len(entries)),
		sizes:  make(map[string][]string, len(entries)),
		prices: make(map[string]map[string]int64, len(entries)),
	}
	for _, entry := range entries {
		if strings.TrimSpace(entry.Name) == "" {
			return nil, fmt.Errorf("%w: empty item name", ErrInvalidCatalog)
		}
		if _, dup := c.prices[entry.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate item %q", ErrInvalidCatalog, entry.Name)
		}
		if len(entry.Sizes) == 0 {
			return nil, fmt.Errorf("%w: item %q has no sizes", ErrInvalidCatalog, entry.Name)
		}

		prices := make(map[string]int64, len(entry.Sizes))
		labels := make([]string, 0, len(entry.Sizes))
		for _, size := range entry.Sizes {
			if strings.TrimSpace(size.Label) == "" {
				return nil, fmt.Errorf("%w: item %q has an empty size label", ErrInvalidCatalog, entry.Name)
			}
			if _, dup := prices[size.Label]; dup {
				return nil, fmt.Errorf("%w: item %q has duplicate size %q", ErrInvalidCatalog, entry.Name, size.Label)
			}
			if size.Price < 0 {
				return nil, fmt.Errorf("%w: item %q size %q has negative price", ErrInvalidCatalog, entry.Name, size.Label)
			}
			prices[size.Label] = size.Price
			labels = append(labels, size.Label)
		}

		c.items = append(c.items, entry.Name)
		c.sizes[entry.Name] = labels
		c.prices[entry.Name] = prices
	}
	return c, nil
}

// DefaultCatalog возвращает меню кафе «I am Groot Café».
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultCatalogEntries())
	if err != nil {
		panic(fmt.Sprintf("default catalog: %v", err))
	}
	return c
}

// DefaultCatalogEntries возвращает исходные позиции меню.
func DefaultCatalogEntries() []CatalogEntry {
	return []CatalogEntry{
		{Name: "Tea", Sizes: []SizePrice{{"Small", 70}, {"Medium", 100}, {"Large", 130}}},
		{Name: "Green Tea", Sizes: []SizePrice{{"Small", 80}, {"Medium", 110}, {"Large", 150}}},
		{Name: "Ice Latte", Sizes: []SizePrice{{"Small", 100}, {"Medium", 120}, {"Large", 160}}},
		{Name: "Espresso", Sizes: []SizePrice{{"Small", 70}, {"Medium", 100}, {"Large", 120}}},
	}
}

// PriceOf возвращает цену размера позиции или ErrNotFound.
func (c *Catalog) PriceOf(item, size string) (int64, error) {
	sizes, ok := c.prices[item]
	if !ok {
		return 0, fmt.Errorf("%w: item %q", ErrNotFound, item)
	}
	price, ok := sizes[size]
	if !ok {
		return 0, fmt.Errorf("%w: size %q for item %q", ErrNotFound, size, item)
	}
	return price, nil
}

// SizesFor возвращает размеры позиции в порядке объявления.
func (c *Catalog) SizesFor(item string) ([]string, error) {
	labels, ok := c.sizes[item]
	if !ok {
		return nil, fmt.Errorf("%w: item %q", ErrNotFound, item)
	}
	result := make([]string, len(labels))
	copy(result, labels)
	return result, nil
}

// Items возвращает названия позиций в порядке объявления.
func (c *Catalog) Items() []string {
	result := make([]string, len(c.items))
	copy(result, c.items)
	return result
}

// Resolve находит точное название позиции без учёта регистра и лишних пробелов.
func (c *Catalog) Resolve(name string) (string, error) {
	wanted := normalizeName(name)
	for _, item := range c.items {
		if normalizeName(item) == wanted {
			return item, nil
		}
	}
	return "", fmt.Errorf("%w: item %q", ErrNotFound, name)
}

// ResolveSize находит точную метку размера позиции без учёта регистра.
func (c *Catalog) ResolveSize(item, size string) (string, error) {
	labels, ok := c.sizes[item]
	if !ok {
		return "", fmt.Errorf("%w: item %q", ErrNotFound, item)
	}
	wanted := normalizeName(size)
	for _, label := range labels {
		if normalizeName(label) == wanted {
			return label, nil
		}
	}
	return "", fmt.Errorf("%w: size %q for item %q", ErrNotFound, size, item)
}

// Entries возвращает копию меню в исходном виде (для печати и сериализации).
func (c *Catalog) Entries() []CatalogEntry {
	result := make([]CatalogEntry, 0, len(c.items))
	for _, item := range c.items {
		entry := CatalogEntry{Name: item, Sizes: make([]SizePrice, 0, len(c.sizes[item]))}
		for _, label := range c.sizes[item] {
			entry.Sizes = append(entry.Sizes, SizePrice{Label: label, Price: c.prices[item][label]})
		}
		result = append(result, entry)
	}
	return result
}

func normalizeName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
