// Package menu holds the protein catalog and the pricing rules shared by the
// order form and the submission handler.
package menu

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Errors returned while building a catalog.
var (
	ErrNoOptions      = errors.New("catalog has no protein options")
	ErrDuplicateValue = errors.New("duplicate protein value")
	ErrEmptyValue     = errors.New("protein value is required")
	ErrNegativePrice  = errors.New("price must be >= 0")
)

// Option is a single protein entry on the menu.
type Option struct {
	Value    string
	Label    string
	Price    decimal.Decimal
	Keywords []string
}

// Catalog is the immutable menu. Build it once at startup and share the pointer.
type Catalog struct {
	currency  string
	basePrice decimal.Decimal
	options   []Option
	byValue   map[string]int
}

type catalogFile struct {
	Currency  string       `yaml:"currency"`
	BasePrice int64        `yaml:"base_price"`
	Proteins  []optionFile `yaml:"proteins"`
}

type optionFile struct {
	Value    string `yaml:"value"`
	Label    string `yaml:"label"`
	Price    int64  `yaml:"price"`
	Keywords string `yaml:"keywords"` // CSV like "lobster,tail"
}

// Default parses the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(catalogYAML)
}

// MustDefault is Default for program start-up and tests.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(fmt.Sprintf("menu: embedded catalog: %v", err))
	}
	return c
}

// Parse builds a catalog from YAML.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	opts := make([]Option, len(f.Proteins))
	for i, p := range f.Proteins {
		opts[i] = Option{
			Value:    p.Value,
			Label:    p.Label,
			Price:    decimal.NewFromInt(p.Price),
			Keywords: splitKeywords(p.Keywords),
		}
	}

	currency := f.Currency
	if currency == "" {
		currency = "$"
	}
	return New(currency, decimal.NewFromInt(f.BasePrice), opts)
}

// New validates the options and returns a catalog that owns a copy of them.
func New(currency string, basePrice decimal.Decimal, options []Option) (*Catalog, error) {
	if len(options) == 0 {
		return nil, ErrNoOptions
	}
	if basePrice.IsNegative() {
		return nil, fmt.Errorf("base price: %w", ErrNegativePrice)
	}

	c := &Catalog{
		currency:  currency,
		basePrice: basePrice,
		options:   make([]Option, len(options)),
		byValue:   make(map[string]int, len(options)),
	}
	for i, o := range options {
		if o.Value == "" {
			return nil, fmt.Errorf("option[%d]: %w", i, ErrEmptyValue)
		}
		if o.Price.IsNegative() {
			return nil, fmt.Errorf("option %q: %w", o.Value, ErrNegativePrice)
		}
		if _, dup := c.byValue[o.Value]; dup {
			return nil, fmt.Errorf("option %q: %w", o.Value, ErrDuplicateValue)
		}
		if o.Label == "" {
			o.Label = o.Value
		}
		o.Keywords = append([]string(nil), o.Keywords...)
		c.options[i] = o
		c.byValue[o.Value] = i
	}
	return c, nil
}

// BasePrice is the per-guest price before surcharges.
func (c *Catalog) BasePrice() decimal.Decimal { return c.basePrice }

// Currency is the symbol used when formatting amounts.
func (c *Catalog) Currency() string { return c.currency }

// Options returns the menu in display order. The slice is a copy.
func (c *Catalog) Options() []Option {
	out := make([]Option, len(c.options))
	copy(out, c.options)
	return out
}

// Lookup resolves a protein value key.
func (c *Catalog) Lookup(value string) (Option, bool) {
	i, ok := c.byValue[value]
	if !ok {
		return Option{}, false
	}
	return c.options[i], true
}

// Format renders an amount the way the ledger and UI show it, e.g. "$70".
func (c *Catalog) Format(amount decimal.Decimal) string {
	return c.currency + amount.String()
}

func splitKeywords(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
