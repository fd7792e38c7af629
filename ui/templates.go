package ui

import (
	"html/template"
	"io/fs"
	"net/url"

	"ndtdash/internal/report"
)

// Page identifiers, also used as navigation paths
const (
	pageSummary    = "resumo"
	pageDetail     = "detalhamento"
	pageConditions = "condicoes"
)

type navItem struct {
	Page  string
	Title string
}

var navigation = []navItem{
	{Page: pageSummary, Title: "Resumo END"},
	{Page: pageDetail, Title: "Detalhamento END"},
	{Page: pageConditions, Title: "Condições Físicas"},
}

func pageTitle(page string) string {
	for _, n := range navigation {
		if n.Page == page {
			return n.Title
		}
	}
	return "Acompanhamento END"
}

// kindCard is one test kind together with its chart index
type kindCard struct {
	Index  int
	Totals report.KindTotals
}

// pageData is handed to every page template
type pageData struct {
	Page       string
	Title      string
	Navigation []navItem
	Fields     []report.FilterField
	Report     *report.Report
	Query      template.URL
	Flash      string
	Return     string
	HasEvents  bool

	Cards    [][]kindCard
	Error    string
	Failures []failure
	Body     template.HTML
}

// failure names one missing-column problem on the error page
type failure struct {
	Table   string
	Missing []string
}

func parseTemplates(files fs.FS) (*template.Template, error) {
	funcMap := template.FuncMap{
		"qty": report.FormatQuantity,
		"pct": func(k report.KindTotals) string {
			return report.FormatQuantity(k.CompletionPct()) + "%"
		},
		"selected": func(r *report.Report, column, value string) bool {
			return r != nil && r.IsSelected(column, value)
		},
		"options": func(r *report.Report, column string) []string {
			if r == nil {
				return nil
			}
			return r.Options[column]
		},
	}
	return template.New("").Funcs(funcMap).ParseFS(files, "ui/templates/*.html")
}

// selectionQuery encodes the explicit part of sel so links and charts see
// the same selection as the page
func selectionQuery(sel report.Selection) string {
	values := url.Values{}
	for _, f := range report.FilterFields {
		chosen, ok := sel[f.Column]
		if !ok {
			continue
		}
		if len(chosen) == 0 {
			values.Add(f.Param, "")
			continue
		}
		for _, v := range chosen {
			values.Add(f.Param, v)
		}
	}
	return values.Encode()
}

// cardRows splits kinds into rows of three, the last row holding the rest
func cardRows(kinds report.Totals) [][]kindCard {
	var rows [][]kindCard
	for i, k := range kinds {
		if i%3 == 0 {
			rows = append(rows, nil)
		}
		rows[len(rows)-1] = append(rows[len(rows)-1], kindCard{Index: i, Totals: k})
	}
	return rows
}
