package dataset

import (
	"math"
	"strconv"
)

// ValueKind tags the variant held by a Value
type ValueKind int

const (
	KindNull ValueKind = iota
	KindNumber
	KindText
)

// Value is a single cell: null, a number or text
type Value struct {
	kind ValueKind
	num  float64
	text string
}

// Null returns the absent value
func Null() Value { return Value{} }

// Number wraps a numeric cell
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Text wraps a textual cell
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Kind returns the variant
func (v Value) Kind() ValueKind { return v.kind }

// IsNull reports whether the cell is absent
func (v Value) IsNull() bool { return v.kind == KindNull }

// String coerces the cell to text. Integral numbers print without a
// fraction so 10 and "10" select the same filter option.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindText:
		return v.text
	default:
		return ""
	}
}

// Float returns the numeric value; null, non-numeric text and NaN/Inf are 0
func (v Value) Float() float64 {
	switch v.kind {
	case KindNumber:
		if isFinite(v.num) {
			return v.num
		}
	case KindText:
		if f, ok := ParseNumber(v.text); ok {
			return f
		}
	}
	return 0
}

// ParseNumber parses s as a finite float. "NaN" and "Inf" spellings are
// rejected.
func ParseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || !isFinite(f) {
		return 0, false
	}
	return f, true
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
