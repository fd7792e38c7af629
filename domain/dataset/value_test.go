package dataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueString(t *testing.T) {
	tests := []struct {
		name     string
		value    Value
		expected string
	}{
		{"null", Null(), ""},
		{"integral number", Number(10), "10"},
		{"fractional number", Number(2.5), "2.5"},
		{"text", Text("P-101"), "P-101"},
		{"large integral", Number(123456789), "123456789"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.value.String())
		})
	}
}

func TestValueFloat(t *testing.T) {
	assert.Equal(t, 0.0, Null().Float())
	assert.Equal(t, 4.0, Number(4).Float())
	assert.Equal(t, 3.5, Text("3.5").Float())
	assert.Equal(t, 0.0, Text("n/a").Float())
	assert.Equal(t, 0.0, Text("NaN").Float())
	assert.Equal(t, 0.0, Text("inf").Float())
	assert.Equal(t, 0.0, Text("-Infinity").Float())
	assert.Equal(t, 0.0, Number(math.Inf(1)).Float())

	_, ok := ParseNumber("NaN")
	assert.False(t, ok)
	f, ok := ParseNumber("2.5")
	assert.True(t, ok)
	assert.Equal(t, 2.5, f)
}

func TestRowGetMissingIsNull(t *testing.T) {
	row := Row{"TAG": Text("A")}
	assert.True(t, row.Get("US").IsNull())
	assert.Equal(t, "A", row.Get("TAG").String())
}

func TestTableDeriveKeepsHeader(t *testing.T) {
	table := &Table{Name: "planned", Columns: []string{"TAG", "US"}, Rows: []Row{{"TAG": Text("A")}, {"TAG": Text("B")}}}
	derived := table.Derive(table.Rows[:1])

	assert.Equal(t, "planned", derived.Name)
	assert.Equal(t, []string{"TAG", "US"}, derived.Columns)
	assert.Equal(t, 1, derived.Len())
	assert.Equal(t, 2, table.Len())
	assert.True(t, table.HasColumn("US"))
	assert.False(t, table.HasColumn("UN"))
}
