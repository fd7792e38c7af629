package report

import (
	"sort"

	"ndtdash/domain/dataset"
)

// MatrixRow is one distinct (UN, TAG, NOTA_ZR, SERVICO) combination
type MatrixRow struct {
	UN      string `json:"un"`
	Tag     string `json:"tag"`
	NotaZR  string `json:"nota_zr"`
	Servico string `json:"servico"`
}

// MatrixHeaders returns the column headers of the service matrix
func MatrixHeaders() []string {
	return []string{ColumnUN, ColumnTag, ColumnNotaZR, ColumnServico}
}

// Values returns the row cells in header order
func (m MatrixRow) Values() []string {
	return []string{m.UN, m.Tag, m.NotaZR, m.Servico}
}

// ServiceMatrix lists the distinct service combinations of planned ordered
// by UN then TAG. Numeric values compare numerically.
func ServiceMatrix(planned *dataset.Table) []MatrixRow {
	seen := make(map[MatrixRow]bool)
	rows := []MatrixRow{}
	if planned == nil {
		return rows
	}
	for _, r := range planned.Rows {
		m := MatrixRow{
			UN:      r.Get(ColumnUN).String(),
			Tag:     r.Get(ColumnTag).String(),
			NotaZR:  r.Get(ColumnNotaZR).String(),
			Servico: r.Get(ColumnServico).String(),
		}
		if seen[m] {
			continue
		}
		seen[m] = true
		rows = append(rows, m)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if c := compareCells(rows[i].UN, rows[j].UN); c != 0 {
			return c < 0
		}
		return compareCells(rows[i].Tag, rows[j].Tag) < 0
	})
	return rows
}

// compareCells orders numbers before text, numbers by value and text
// lexically
func compareCells(a, b string) int {
	fa, okA := dataset.ParseNumber(a)
	fb, okB := dataset.ParseNumber(b)
	switch {
	case okA && okB:
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	case okA:
		return -1
	case okB:
		return 1
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
