package dataset

import (
	"strings"
	"unicode"

	domainDataset "ndtdash/domain/dataset"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeColumn folds a column label to its canonical form: NFKD
// decomposition, non-ASCII runes dropped, upper-cased, trimmed, and
// spaces replaced with underscores. "  Nota ZR " becomes "NOTA_ZR".
func NormalizeColumn(label string) string {
	// transform chains keep state, so one is built per call
	fold := transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	})))
	folded, _, err := transform.String(fold, label)
	if err != nil {
		folded = asciiOnly(norm.NFKD.String(label))
	}
	return strings.ReplaceAll(strings.TrimSpace(strings.ToUpper(folded)), " ", "_")
}

func asciiOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r <= unicode.MaxASCII {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeTable returns a copy of t whose header and row keys use canonical
// column names. When two labels fold to the same name the later column wins.
func NormalizeTable(t *domainDataset.Table) *domainDataset.Table {
	if t == nil {
		return nil
	}

	rename := make(map[string]string, len(t.Columns))
	seen := make(map[string]bool, len(t.Columns))
	columns := make([]string, 0, len(t.Columns))
	for _, col := range t.Columns {
		canonical := NormalizeColumn(col)
		rename[col] = canonical
		if !seen[canonical] {
			seen[canonical] = true
			columns = append(columns, canonical)
		}
	}

	rows := make([]domainDataset.Row, len(t.Rows))
	for i, row := range t.Rows {
		out := make(domainDataset.Row, len(row))
		for _, col := range t.Columns {
			if v, ok := row[col]; ok {
				out[rename[col]] = v
			}
		}
		rows[i] = out
	}

	return &domainDataset.Table{Name: t.Name, Columns: columns, Rows: rows}
}
