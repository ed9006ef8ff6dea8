// Package currency holds the static registry of currencies the ledger knows
// about and the pair of base currencies every conversion is anchored to.
package currency

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Rhymond/go-money"
)

var (
	ErrUnknownCurrency     = errors.New("unknown currency")
	ErrIdenticalBaseCodes  = errors.New("base currencies must differ")
	ErrMissingBaseCurrency = errors.New("base currency is required")
)

var defaultCodes = []string{
	"UAH", "PLN", "USD", "EUR", "GBP", "CHF", "CZK", "HUF",
	"RON", "SEK", "NOK", "DKK", "CAD", "JPY", "TRY", "GEL",
}

// Catalog is immutable after construction and safe for concurrent use.
type Catalog struct {
	codes     map[string]struct{}
	byNumeric map[int]string
}

// NewCatalog returns the default catalog.
func NewCatalog() *Catalog {
	return NewCatalogFrom(defaultCodes)
}

// NewCatalogFrom builds a catalog from the given codes. Codes are upper-cased.
// ISO 4217 numeric codes, which bank statements carry, come from go-money's
// registry; a code it does not know is still accepted but has no numeric form.
func NewCatalogFrom(codes []string) *Catalog {
	c := &Catalog{
		codes:     make(map[string]struct{}, len(codes)),
		byNumeric: make(map[int]string, len(codes)),
	}
	for _, code := range codes {
		code = strings.ToUpper(code)
		c.codes[code] = struct{}{}
		if numeric, ok := numericCode(code); ok {
			c.byNumeric[numeric] = code
		}
	}
	return c
}

func numericCode(code string) (int, bool) {
	cur := money.GetCurrency(code)
	if cur == nil || cur.NumericCode == "" {
		return 0, false
	}
	numeric, err := strconv.Atoi(cur.NumericCode)
	if err != nil || numeric == 0 {
		return 0, false
	}
	return numeric, true
}

// SymbolFor returns the display symbol for code, or code itself when no
// symbol is known.
func (c *Catalog) SymbolFor(code string) string {
	cur := money.GetCurrency(strings.ToUpper(code))
	if cur == nil || cur.Grapheme == "" {
		return code
	}
	return cur.Grapheme
}

func (c *Catalog) Known(code string) bool {
	_, ok := c.codes[strings.ToUpper(code)]
	return ok
}

func (c *Catalog) KnownCodes() map[string]struct{} {
	codes := make(map[string]struct{}, len(c.codes))
	for code := range c.codes {
		codes[code] = struct{}{}
	}
	return codes
}

// Codes returns the known codes sorted alphabetically.
func (c *Catalog) Codes() []string {
	codes := make([]string, 0, len(c.codes))
	for code := range c.codes {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// CodeForNumeric resolves an ISO 4217 numeric code.
func (c *Catalog) CodeForNumeric(numeric int) (string, bool) {
	code, ok := c.byNumeric[numeric]
	return code, ok
}

// BaseCurrencies is the pair of currencies the ledger normalizes around.
// First is the currency primary amounts are recorded in; Second is the
// currency synthesized secondary amounts are stored in.
type BaseCurrencies struct {
	First  string
	Second string
}

// Validate checks both codes are present, known and distinct.
func (b BaseCurrencies) Validate(c *Catalog) error {
	if b.First == "" || b.Second == "" {
		return ErrMissingBaseCurrency
	}
	if !c.Known(b.First) {
		return fmt.Errorf("%w: %s", ErrUnknownCurrency, b.First)
	}
	if !c.Known(b.Second) {
		return fmt.Errorf("%w: %s", ErrUnknownCurrency, b.Second)
	}
	if strings.EqualFold(b.First, b.Second) {
		return ErrIdenticalBaseCodes
	}
	return nil
}
