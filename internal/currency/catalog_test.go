package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalog_SymbolFor(t *testing.T) {
	c := NewCatalog()

	assert.Equal(t, "$", c.SymbolFor("USD"))
	assert.Equal(t, "€", c.SymbolFor("eur"))
	assert.Equal(t, "XYZ", c.SymbolFor("XYZ"), "unknown code falls back to itself")
}

func TestCatalog_KnownCodes(t *testing.T) {
	c := NewCatalogFrom([]string{"uah", "PLN"})

	assert.Equal(t, map[string]struct{}{"UAH": {}, "PLN": {}}, c.KnownCodes())
	assert.Equal(t, []string{"PLN", "UAH"}, c.Codes())
	assert.True(t, c.Known("uah"))
	assert.False(t, c.Known("USD"))
}

func TestCatalog_CodeForNumeric(t *testing.T) {
	c := NewCatalog()

	code, ok := c.CodeForNumeric(980)
	assert.True(t, ok)
	assert.Equal(t, "UAH", code)

	_, ok = c.CodeForNumeric(1)
	assert.False(t, ok)

	// Every default code resolves back from its go-money numeric code.
	for _, want := range c.Codes() {
		numeric, known := numericCode(want)
		if assert.True(t, known, want) {
			got, ok := c.CodeForNumeric(numeric)
			assert.True(t, ok, want)
			assert.Equal(t, want, got)
		}
	}
}

func TestCatalog_CodeForNumericLimitedToCatalog(t *testing.T) {
	c := NewCatalogFrom([]string{"uah", "XYZ"})

	code, ok := c.CodeForNumeric(980)
	assert.True(t, ok)
	assert.Equal(t, "UAH", code)

	// PLN has an ISO numeric code but is not in this catalog.
	_, ok = c.CodeForNumeric(985)
	assert.False(t, ok)
	assert.True(t, c.Known("XYZ"))
}

func TestBaseCurrencies_Validate(t *testing.T) {
	c := NewCatalog()

	assert.NoError(t, BaseCurrencies{First: "UAH", Second: "PLN"}.Validate(c))
	assert.ErrorIs(t, BaseCurrencies{First: "UAH"}.Validate(c), ErrMissingBaseCurrency)
	assert.ErrorIs(t, BaseCurrencies{First: "UAH", Second: "XXX"}.Validate(c), ErrUnknownCurrency)
	assert.ErrorIs(t, BaseCurrencies{First: "UAH", Second: "uah"}.Validate(c), ErrIdenticalBaseCodes)
}
