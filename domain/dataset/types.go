package dataset

import (
	"ndtdash/domain/core"
)

// Logical source identifiers
const (
	SourcePlanned  = "planned"
	SourceExecuted = "executed"
)

// Row maps canonical column names to cell values. A column that is not
// present reads as Null.
type Row map[string]Value

// Get returns the value for column, Null when absent
func (r Row) Get(column string) Value {
	if v, ok := r[column]; ok {
		return v
	}
	return Null()
}

// Table is an ordered sequence of rows with an ordered column list.
// Tables are not mutated after load; derived tables share row maps.
type Table struct {
	Name    string
	Columns []string
	Rows    []Row
}

// NewTable creates an empty table with the given columns
func NewTable(name string, columns []string) *Table {
	return &Table{Name: name, Columns: columns}
}

// Len returns the number of rows
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// HasColumn reports whether column is part of the header
func (t *Table) HasColumn(column string) bool {
	for _, c := range t.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// Derive returns a table with the same name and columns holding rows
func (t *Table) Derive(rows []Row) *Table {
	return &Table{Name: t.Name, Columns: t.Columns, Rows: rows}
}

// SourceInfo describes where a table came from
type SourceInfo struct {
	Name        string    `json:"name"`
	Path        string    `json:"path"`
	Sheet       string    `json:"sheet,omitempty"`
	Rows        int       `json:"rows"`
	Columns     int       `json:"columns"`
	Fingerprint core.Hash `json:"fingerprint"`
}

// Pair is the immutable planned/executed couple produced by one load
type Pair struct {
	LoadID   core.ID
	LoadedAt core.Timestamp
	Planned  *Table
	Executed *Table
	Sources  []SourceInfo
}

// LoadInfo summarises a loaded pair without exposing its tables
type LoadInfo struct {
	LoadID   core.ID        `json:"load_id"`
	LoadedAt core.Timestamp `json:"-"`
	Loaded   string         `json:"loaded_at"`
	Sources  []SourceInfo   `json:"sources"`
}

// Info returns the load summary of the pair
func (p *Pair) Info() LoadInfo {
	return LoadInfo{
		LoadID:   p.LoadID,
		LoadedAt: p.LoadedAt,
		Loaded:   p.LoadedAt.Format(),
		Sources:  p.Sources,
	}
}
