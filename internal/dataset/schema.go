package dataset

import (
	stderrors "errors"
	"fmt"
	"strings"

	"ndtdash/domain/core"
	domainDataset "ndtdash/domain/dataset"
	"ndtdash/internal/errors"
)

// Schema lists the canonical columns each source must carry
type Schema struct {
	Planned  []string
	Executed []string
}

// SchemaError names the columns a table lacks after normalization
type SchemaError struct {
	Table   string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s dataset is missing columns: %s", e.Table, strings.Join(e.Missing, ", "))
}

func (e *SchemaError) Unwrap() error {
	return core.ErrSchemaMismatch
}

// MissingColumns returns the expected columns absent from t, in expected order
func MissingColumns(t *domainDataset.Table, expected []string) []string {
	var missing []string
	seen := make(map[string]bool, len(expected))
	for _, col := range expected {
		if seen[col] {
			continue
		}
		seen[col] = true
		if !t.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	return missing
}

// ValidateSchema checks both tables of pair against schema and reports every
// missing column at once.
func ValidateSchema(pair *domainDataset.Pair, schema Schema) error {
	var errs []error
	if missing := MissingColumns(pair.Planned, schema.Planned); len(missing) > 0 {
		errs = append(errs, &SchemaError{Table: domainDataset.SourcePlanned, Missing: missing})
	}
	if missing := MissingColumns(pair.Executed, schema.Executed); len(missing) > 0 {
		errs = append(errs, &SchemaError{Table: domainDataset.SourceExecuted, Missing: missing})
	}
	if len(errs) == 0 {
		return nil
	}
	return errors.SchemaMismatch(stderrors.Join(errs...))
}

// SchemaErrors extracts every SchemaError carried by err
func SchemaErrors(err error) []*SchemaError {
	var out []*SchemaError
	var walk func(error)
	walk = func(e error) {
		if e == nil {
			return
		}
		if se, ok := e.(*SchemaError); ok {
			out = append(out, se)
			return
		}
		switch u := e.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range u.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			walk(u.Unwrap())
		}
	}
	walk(err)
	return out
}
