package coercer

import (
	"strings"

	"ndtdash/domain/dataset"

	"github.com/shopspring/decimal"
)

// TypeCoercer turns raw spreadsheet cell text into typed dataset values
type TypeCoercer struct {
	config CoercionConfig
}

// CoercionConfig defines the coercion rules
type CoercionConfig struct {
	DecimalComma        bool `json:"decimal_comma"`         // accept "1,5" and "1.234,5"
	KeepLeadingZeros    bool `json:"keep_leading_zeros"`    // "007" stays text
	TrimStrings         bool `json:"trim_strings"`          // trim surrounding whitespace
	ParenthesesNegative bool `json:"parentheses_negative"` // "(12)" reads as -12
}

// DefaultCoercionConfig returns sensible defaults for Brazilian spreadsheets
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		DecimalComma:        true,
		KeepLeadingZeros:    true,
		TrimStrings:         true,
		ParenthesesNegative: true,
	}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	return &TypeCoercer{config: config}
}

// CoerceCell converts untyped cell text. Blank cells are null, numeric text
// becomes a number, anything else stays text.
func (c *TypeCoercer) CoerceCell(raw string) dataset.Value {
	if c.config.TrimStrings {
		raw = strings.TrimSpace(raw)
	}
	if raw == "" {
		return dataset.Null()
	}
	if num, ok := c.ParseNumber(raw); ok {
		return dataset.Number(num)
	}
	return dataset.Text(raw)
}

// CoerceText keeps a cell the spreadsheet stored as text, only mapping blanks to null
func (c *TypeCoercer) CoerceText(raw string) dataset.Value {
	if c.config.TrimStrings {
		raw = strings.TrimSpace(raw)
	}
	if raw == "" {
		return dataset.Null()
	}
	return dataset.Text(raw)
}

// ParseNumber parses numeric text, accepting thousands separators and, when
// configured, a decimal comma.
func (c *TypeCoercer) ParseNumber(raw string) (float64, bool) {
	cleanVal := strings.TrimSpace(raw)
	if cleanVal == "" {
		return 0, false
	}

	isNegative := false
	if c.config.ParenthesesNegative && strings.HasPrefix(cleanVal, "(") && strings.HasSuffix(cleanVal, ")") {
		cleanVal = strings.TrimSuffix(strings.TrimPrefix(cleanVal, "("), ")")
		isNegative = true
	}

	if c.config.KeepLeadingZeros && hasLeadingZero(cleanVal) {
		return 0, false
	}

	hasComma := strings.Contains(cleanVal, ",")
	hasPeriod := strings.Contains(cleanVal, ".")

	switch {
	case hasComma && hasPeriod:
		// the separator appearing last is the decimal one
		if strings.LastIndex(cleanVal, ",") > strings.LastIndex(cleanVal, ".") {
			cleanVal = strings.ReplaceAll(cleanVal, ".", "")
			cleanVal = strings.ReplaceAll(cleanVal, ",", ".")
		} else {
			cleanVal = strings.ReplaceAll(cleanVal, ",", "")
		}
	case hasComma:
		if c.config.DecimalComma && strings.Count(cleanVal, ",") == 1 {
			cleanVal = strings.ReplaceAll(cleanVal, ",", ".")
		} else {
			cleanVal = strings.ReplaceAll(cleanVal, ",", "")
		}
	case strings.Count(cleanVal, ".") > 1:
		cleanVal = strings.ReplaceAll(cleanVal, ".", "")
	}

	d, err := decimal.NewFromString(cleanVal)
	if err != nil {
		return 0, false
	}
	if isNegative {
		d = d.Neg()
	}
	return d.InexactFloat64(), true
}

// hasLeadingZero reports identifiers such as "007" or "0123"; "0", "0.5"
// and "0,5" are ordinary numbers.
func hasLeadingZero(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if len(s) < 2 || s[0] != '0' {
		return false
	}
	return s[1] >= '0' && s[1] <= '9'
}
