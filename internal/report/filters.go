package report

import (
	"sort"
	"strings"

	"ndtdash/domain/dataset"
)

// Selection holds the allowed values per filter column. A column absent from
// the selection means "every candidate value"; a column present with no
// values matches nothing.
type Selection map[string][]string

// Has reports whether column carries an explicit choice
func (s Selection) Has(column string) bool {
	_, ok := s[column]
	return ok
}

// Options holds the candidate values offered for each filter column
type Options map[string][]string

// DistinctValues returns the sorted unique non-null values of column, coerced
// to text. The UN column never offers ExcludedUnit.
func DistinctValues(t *dataset.Table, column string) []string {
	seen := make(map[string]bool)
	values := []string{}
	for _, row := range t.Rows {
		v := row.Get(column)
		if v.IsNull() {
			continue
		}
		s := v.String()
		if column == ColumnUN && s == ExcludedUnit {
			continue
		}
		if !seen[s] {
			seen[s] = true
			values = append(values, s)
		}
	}
	sort.Strings(values)
	return values
}

// FilterOptions derives the candidate values of the five filters from planned
func FilterOptions(planned *dataset.Table) Options {
	opts := make(Options, len(FilterFields))
	for _, f := range FilterFields {
		opts[f.Column] = DistinctValues(planned, f.Column)
	}
	return opts
}

// Resolve fills every filter column absent from s with its candidates
func (s Selection) Resolve(opts Options) Selection {
	resolved := make(Selection, len(FilterFields))
	for _, f := range FilterFields {
		if values, ok := s[f.Column]; ok {
			resolved[f.Column] = values
		} else {
			resolved[f.Column] = opts[f.Column]
		}
	}
	return resolved
}

// ApplyFilters keeps the planned rows whose five filter fields are each in
// the selection (AND across fields, IN within one). Absent fields default to
// all candidates, so rows with a null filter field never match.
func ApplyFilters(planned *dataset.Table, sel Selection) *dataset.Table {
	resolved := sel.Resolve(FilterOptions(planned))

	sets := make(map[string]map[string]bool, len(resolved))
	for column, values := range resolved {
		set := make(map[string]bool, len(values))
		for _, v := range values {
			set[v] = true
		}
		sets[column] = set
	}

	rows := make([]dataset.Row, 0, planned.Len())
	for _, row := range planned.Rows {
		pass := true
		for _, f := range FilterFields {
			v := row.Get(f.Column)
			if v.IsNull() || !sets[f.Column][v.String()] {
				pass = false
				break
			}
		}
		if pass {
			rows = append(rows, row)
		}
	}
	return planned.Derive(rows)
}

// RestrictExecuted keeps the executed rows whose TAG appears among the
// filtered planned rows. Rows are kept whole; nothing is joined in.
func RestrictExecuted(executed, filteredPlanned *dataset.Table) *dataset.Table {
	tags := make(map[string]bool, filteredPlanned.Len())
	for _, row := range filteredPlanned.Rows {
		if v := row.Get(ColumnTag); !v.IsNull() {
			tags[v.String()] = true
		}
	}

	rows := make([]dataset.Row, 0, len(tags))
	for _, row := range executed.Rows {
		v := row.Get(ColumnTag)
		if !v.IsNull() && tags[v.String()] {
			rows = append(rows, row)
		}
	}
	return executed.Derive(rows)
}

// ParseSelection builds a selection from request values keyed by filter
// param or column name. A key that is present with only blank values is an
// empty selection; a key that is absent keeps the default.
func ParseSelection(values map[string][]string) Selection {
	sel := Selection{}
	for key, raw := range values {
		field, ok := fieldFor(key)
		if !ok {
			continue
		}
		chosen := sel[field.Column]
		if chosen == nil {
			chosen = []string{}
		}
		for _, v := range raw {
			if v = strings.TrimSpace(v); v != "" {
				chosen = append(chosen, v)
			}
		}
		sel[field.Column] = chosen
	}
	return sel
}

func fieldFor(key string) (FilterField, bool) {
	for _, f := range FilterFields {
		if strings.EqualFold(key, f.Param) || strings.EqualFold(key, f.Column) {
			return f, true
		}
	}
	return FilterField{}, false
}
