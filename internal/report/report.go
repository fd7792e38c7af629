package report

import (
	"strconv"

	"github.com/montanaflynn/stats"

	"ndtdash/domain/dataset"
)

// Report is everything the three views render for one selection
type Report struct {
	Load      dataset.LoadInfo `json:"load"`
	Options   Options          `json:"options"`
	Selection Selection        `json:"selection"`

	PlannedRows       int `json:"planned_rows"`
	ExecutedRows      int `json:"executed_rows"`
	TotalPlannedRows  int `json:"total_planned_rows"`
	TotalExecutedRows int `json:"total_executed_rows"`

	Kinds    Totals      `json:"kinds"`
	Total    KindTotals  `json:"total"`
	Physical Physical    `json:"physical"`
	Matrix   []MatrixRow `json:"matrix"`
}

// Build runs filter, restrict, aggregate and matrix over a loaded pair. The
// returned selection is the effective one, with defaults filled in.
func Build(pair *dataset.Pair, kinds []TestKind, sel Selection) *Report {
	opts := FilterOptions(pair.Planned)
	effective := sel.Resolve(opts)

	planned := ApplyFilters(pair.Planned, effective)
	executed := RestrictExecuted(pair.Executed, planned)
	totals := Aggregate(kinds, planned, executed)

	return &Report{
		Load:              pair.Info(),
		Options:           opts,
		Selection:         effective,
		PlannedRows:       planned.Len(),
		ExecutedRows:      executed.Len(),
		TotalPlannedRows:  pair.Planned.Len(),
		TotalExecutedRows: pair.Executed.Len(),
		Kinds:             totals,
		Total:             GrandTotal(totals),
		Physical:          PhysicalConditions(planned, executed),
		Matrix:            ServiceMatrix(planned),
	}
}

// IsSelected reports whether value is part of the effective selection
func (r *Report) IsSelected(column, value string) bool {
	for _, v := range r.Selection[column] {
		if v == value {
			return true
		}
	}
	return false
}

// Kind returns the totals at index i
func (r *Report) Kind(i int) (KindTotals, bool) {
	if i < 0 || i >= len(r.Kinds) {
		return KindTotals{}, false
	}
	return r.Kinds[i], true
}

// FormatQuantity renders integral quantities without a fraction and the rest
// with at most two decimals
func FormatQuantity(f float64) string {
	if rounded, err := stats.Round(f, 2); err == nil {
		f = rounded
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
