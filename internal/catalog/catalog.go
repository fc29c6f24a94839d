// Package catalog is the read-only product list the storefront rents out.
package catalog

import (
	_ "embed"
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type Category string

const (
	CategoryCostume   Category = "costume"
	CategoryDress     Category = "dress"
	CategorySuit      Category = "suit"
	CategoryAccessory Category = "accessory"

	// CategoryAll is the listing filter that matches every product.
	CategoryAll Category = "all"
)

var categories = []Category{CategoryCostume, CategoryDress, CategorySuit, CategoryAccessory}

func Categories() []Category { return append([]Category(nil), categories...) }

func (c Category) Valid() bool {
	for _, k := range categories {
		if c == k {
			return true
		}
	}
	return false
}

type Measurements struct {
	Bust   string `json:"bust,omitempty" yaml:"bust"`
	Waist  string `json:"waist,omitempty" yaml:"waist"`
	Hip    string `json:"hip,omitempty" yaml:"hip"`
	Length string `json:"length,omitempty" yaml:"length"`
}

type Product struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Category     Category        `json:"category"`
	Description  string          `json:"description"`
	DailyPrice   decimal.Decimal `json:"daily_price"`
	Sizes        []string        `json:"sizes"`
	Colors       []string        `json:"colors"`
	Measurements *Measurements   `json:"measurements,omitempty"`
	Stock        int             `json:"stock"`
}

func (p Product) HasSize(s string) bool  { return contains(p.Sizes, s) }
func (p Product) HasColor(c string) bool { return contains(p.Colors, c) }

func contains(xs []string, v string) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

// Store holds the products in definition order. It is never mutated after
// construction, so it is safe for concurrent readers.
type Store struct {
	products []Product
	byID     map[string]int
}

//go:embed products.yaml
var seedYAML []byte

type seedProduct struct {
	ID           string        `yaml:"id"`
	Name         string        `yaml:"name"`
	Category     Category      `yaml:"category"`
	Description  string        `yaml:"description"`
	DailyPrice   string        `yaml:"daily_price"`
	Sizes        []string      `yaml:"sizes"`
	Colors       []string      `yaml:"colors"`
	Measurements *Measurements `yaml:"measurements"`
	Stock        int           `yaml:"stock"`
}

// Default returns the embedded seed catalog.
func Default() *Store {
	s, err := Parse(seedYAML)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded seed: %v", err))
	}
	return s
}

// Parse builds a Store from YAML, rejecting records that would break the
// booking rules (duplicate ids, unknown category, negative price or stock,
// empty size/colour options).
func Parse(b []byte) (*Store, error) {
	var raw []seedProduct
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	s := &Store{products: make([]Product, 0, len(raw)), byID: make(map[string]int, len(raw))}
	for _, r := range raw {
		if r.ID == "" {
			return nil, fmt.Errorf("product without id")
		}
		if _, dup := s.byID[r.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %s", r.ID)
		}
		if !r.Category.Valid() {
			return nil, fmt.Errorf("product %s: unknown category %q", r.ID, r.Category)
		}
		price, err := decimal.NewFromString(r.DailyPrice)
		if err != nil {
			return nil, fmt.Errorf("product %s: daily_price: %w", r.ID, err)
		}
		if price.IsNegative() || r.Stock < 0 {
			return nil, fmt.Errorf("product %s: negative price or stock", r.ID)
		}
		if len(r.Sizes) == 0 || len(r.Colors) == 0 {
			return nil, fmt.Errorf("product %s: sizes and colors are required", r.ID)
		}
		s.byID[r.ID] = len(s.products)
		s.products = append(s.products, Product{
			ID:           r.ID,
			Name:         r.Name,
			Category:     r.Category,
			Description:  r.Description,
			DailyPrice:   price,
			Sizes:        r.Sizes,
			Colors:       r.Colors,
			Measurements: r.Measurements,
			Stock:        r.Stock,
		})
	}
	return s, nil
}

func (s *Store) GetByID(id string) (Product, bool) {
	i, ok := s.byID[id]
	if !ok {
		return Product{}, false
	}
	return clone(s.products[i]), true
}

// ListByCategory returns every product for CategoryAll, otherwise only the
// matching ones. Unknown categories yield an empty list.
func (s *Store) ListByCategory(c Category) []Product {
	out := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		if c == CategoryAll || p.Category == c {
			out = append(out, clone(p))
		}
	}
	return out
}

// clone keeps callers from aliasing the catalog's slices.
func clone(p Product) Product {
	p.Sizes = append([]string(nil), p.Sizes...)
	p.Colors = append([]string(nil), p.Colors...)
	if p.Measurements != nil {
		m := *p.Measurements
		p.Measurements = &m
	}
	return p
}
