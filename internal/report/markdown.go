package report

import (
	"bytes"
	"fmt"
	"strings"
)

// Markdown renders the report as a printable Markdown document
func (r *Report) Markdown() []byte {
	var b bytes.Buffer

	b.WriteString("# Acompanhamento END\n\n")
	fmt.Fprintf(&b, "Carga `%s` em %s. ", r.Load.LoadID.Short(), r.Load.Loaded)
	fmt.Fprintf(&b, "Linhas filtradas: %d de %d planejadas, %d de %d realizadas.\n\n",
		r.PlannedRows, r.TotalPlannedRows, r.ExecutedRows, r.TotalExecutedRows)

	b.WriteString("## Filtros\n\n")
	for _, f := range FilterFields {
		values := r.Selection[f.Column]
		switch {
		case len(values) == len(r.Options[f.Column]):
			fmt.Fprintf(&b, "- **%s**: todos\n", f.Label)
		case len(values) == 0:
			fmt.Fprintf(&b, "- **%s**: nenhum\n", f.Label)
		default:
			fmt.Fprintf(&b, "- **%s**: %s\n", f.Label, escapeCell(strings.Join(values, ", ")))
		}
	}

	b.WriteString("\n## Resumo END\n\n")
	b.WriteString("| Ensaio | Planejado | Realizado | Pendente | % |\n|---|---:|---:|---:|---:|\n")
	for _, k := range r.Kinds {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n", escapeCell(k.Label),
			FormatQuantity(k.Planned), FormatQuantity(k.Executed), FormatQuantity(k.Pending()), FormatQuantity(k.CompletionPct()))
	}
	fmt.Fprintf(&b, "| **%s** | **%s** | **%s** | **%s** | **%s** |\n", r.Total.Label,
		FormatQuantity(r.Total.Planned), FormatQuantity(r.Total.Executed), FormatQuantity(r.Total.Pending()),
		FormatQuantity(r.Total.CompletionPct()))

	b.WriteString("\n## Condições Físicas\n\n")
	b.WriteString("| Condição | Planejado | Realizado |\n|---|---:|---:|\n")
	for _, m := range r.Physical.Metrics() {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", m.Label, FormatQuantity(m.Planned), FormatQuantity(m.Executed))
	}

	b.WriteString("\n## Matriz END\n\n")
	if len(r.Matrix) == 0 {
		b.WriteString("Nenhum serviço para os filtros selecionados.\n")
		return b.Bytes()
	}
	b.WriteString("| " + strings.Join(MatrixHeaders(), " | ") + " |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, m := range r.Matrix {
		cells := m.Values()
		for i := range cells {
			cells[i] = escapeCell(cells[i])
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	return b.Bytes()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
