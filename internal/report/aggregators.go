package report

import (
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"

	"ndtdash/domain/dataset"
)

// KindTotals is the planned and executed volume of one test kind
type KindTotals struct {
	Label    string  `json:"label"`
	Planned  float64 `json:"planned"`
	Executed float64 `json:"executed"`
}

// CompletionPct returns executed as a percentage of planned, rounded to one
// decimal place. Zero planned volume reports 0.
func (k KindTotals) CompletionPct() float64 {
	if k.Planned == 0 {
		return 0
	}
	pct, err := stats.Round(k.Executed/k.Planned*100, 1)
	if err != nil {
		return 0
	}
	return pct
}

// Pending returns the planned volume not yet executed, never negative
func (k KindTotals) Pending() float64 {
	if k.Executed >= k.Planned {
		return 0
	}
	return k.Planned - k.Executed
}

// SumColumn adds up column over t, counting null and non-numeric cells as 0
func SumColumn(t *dataset.Table, column string) float64 {
	if t.Len() == 0 {
		return 0
	}
	values := make([]float64, 0, t.Len())
	for _, row := range t.Rows {
		values = append(values, row.Get(column).Float())
	}
	return floats.Sum(values)
}

// CountPositive counts the rows of t whose column is strictly positive
func CountPositive(t *dataset.Table, column string) int {
	count := 0
	if t == nil {
		return count
	}
	for _, row := range t.Rows {
		if row.Get(column).Float() > 0 {
			count++
		}
	}
	return count
}

// Totals is the ordered per-kind result of Aggregate
type Totals []KindTotals

// Map indexes the totals by kind label
func (t Totals) Map() map[string]KindTotals {
	m := make(map[string]KindTotals, len(t))
	for _, k := range t {
		m[k.Label] = k
	}
	return m
}

// Aggregate sums every test kind over the filtered tables, keeping kind order
func Aggregate(kinds []TestKind, planned, executed *dataset.Table) Totals {
	totals := make(Totals, 0, len(kinds))
	for _, k := range kinds {
		totals = append(totals, KindTotals{
			Label:    k.Label,
			Planned:  SumColumn(planned, k.PlannedColumn),
			Executed: SumColumn(executed, k.ExecutedColumn),
		})
	}
	return totals
}

// GrandTotal adds every kind into a single overall total
func GrandTotal(totals Totals) KindTotals {
	planned := make([]float64, len(totals))
	executed := make([]float64, len(totals))
	for i, t := range totals {
		planned[i] = t.Planned
		executed[i] = t.Executed
	}
	return KindTotals{
		Label:    "Total",
		Planned:  floats.Sum(planned),
		Executed: floats.Sum(executed),
	}
}

// Metric is a planned/executed pair for one physical condition
type Metric struct {
	Label    string  `json:"label"`
	Planned  float64 `json:"planned"`
	Executed float64 `json:"executed"`
}

// Physical groups the three physical condition metrics. Retubing counts rows
// with a positive quantity instead of summing it.
type Physical struct {
	BeamReplacement Metric `json:"beam_replacement"`
	Machining       Metric `json:"machining"`
	Retubing        Metric `json:"retubing"`
}

// Metrics returns the metrics in display order
func (p Physical) Metrics() []Metric {
	return []Metric{p.BeamReplacement, p.Machining, p.Retubing}
}

// PhysicalConditions computes beam replacement, machining and retubing
func PhysicalConditions(planned, executed *dataset.Table) Physical {
	return Physical{
		BeamReplacement: Metric{
			Label:    "Substituição do Feixe",
			Planned:  SumColumn(planned, ColumnBeamPlanned),
			Executed: SumColumn(executed, ColumnBeamExecuted),
		},
		Machining: Metric{
			Label:    "Usinagem",
			Planned:  SumColumn(planned, ColumnMachiningPlanned),
			Executed: SumColumn(executed, ColumnMachiningExec),
		},
		Retubing: Metric{
			Label:    "Retubagem",
			Planned:  float64(CountPositive(planned, ColumnRetubePlanned)),
			Executed: float64(CountPositive(executed, ColumnRetubeExecuted)),
		},
	}
}
