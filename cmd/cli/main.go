package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"ndtdash/adapters/excel"
	"ndtdash/domain/core"
	"ndtdash/internal/config"
	"ndtdash/internal/container"
	internalDataset "ndtdash/internal/dataset"
	"ndtdash/internal/report"

	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "ndtdash-cli",
		Short:        "Inspect the NDT planned/executed spreadsheets from the terminal",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newReportCmd(),
		newOptionsCmd(),
		newValidateCmd(),
		newExportCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// selectionFlags registers one repeatable flag per filter
type selectionFlags struct {
	values map[string]*[]string
}

func addSelectionFlags(cmd *cobra.Command) *selectionFlags {
	sf := &selectionFlags{values: make(map[string]*[]string)}
	for _, f := range report.FilterFields {
		var v []string
		name := strings.ReplaceAll(f.Param, "_", "-")
		cmd.Flags().StringArrayVar(&v, name, nil, "Filter by "+f.Label+" (repeatable; empty selects nothing)")
		sf.values[name] = &v
	}
	return sf
}

// selection keeps only the flags the user set, so unset filters mean "all".
// Each occurrence is one value; commas belong to the value.
func (sf *selectionFlags) selection(cmd *cobra.Command) report.Selection {
	raw := make(map[string][]string)
	for name, v := range sf.values {
		if !cmd.Flags().Changed(name) {
			continue
		}
		values := []string{}
		for _, value := range *v {
			if value != "" {
				values = append(values, value)
			}
		}
		raw[strings.ReplaceAll(name, "-", "_")] = values
	}
	return report.ParseSelection(raw)
}

func newContainer() (*container.Container, error) {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return container.New(cfg)
}

// withSpinner shows a spinner on stderr while fn runs
func withSpinner(description string, fn func() error) error {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = bar.Add(1)
			}
		}
	}()

	err := fn()
	close(done)
	_ = bar.Finish()
	return err
}

func loadReport(ctx context.Context, sel report.Selection) (*report.Report, error) {
	c, err := newContainer()
	if err != nil {
		return nil, err
	}
	var rep *report.Report
	err = withSpinner("Carregando planilhas", func() error {
		var err error
		rep, err = c.Service.Report(ctx, sel)
		return err
	})
	return rep, err
}

func newReportCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print kind totals, physical conditions and the service matrix",
		Long: `Load both spreadsheets, apply the filters and print the report.

Filters left unset select every value. Passing a filter with an empty value
(--tipo "") selects nothing.

Example: ndtdash-cli report --un 10 --un 20 --format markdown`,
		Args: cobra.NoArgs,
	}
	sf := addSelectionFlags(cmd)
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text|json|markdown")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		switch format {
		case "text", "json", "markdown":
		default:
			return fmt.Errorf("unknown format %q (use text, json or markdown)", format)
		}

		rep, err := loadReport(cmd.Context(), sf.selection(cmd))
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		switch format {
		case "json":
			return writeJSON(out, rep)
		case "markdown":
			_, err := out.Write(rep.Markdown())
			return err
		}
		return writeText(out, rep)
	}
	return cmd
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeText(w io.Writer, rep *report.Report) error {
	fmt.Fprintf(w, "Carga %s em %s\n", rep.Load.LoadID.Short(), rep.Load.Loaded)
	fmt.Fprintf(w, "Planejado: %d de %d linhas · Realizado: %d de %d linhas\n\n",
		rep.PlannedRows, rep.TotalPlannedRows, rep.ExecutedRows, rep.TotalExecutedRows)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ENSAIO\tPLANEJADO\tREALIZADO\t%")
	for _, k := range append(rep.Kinds, rep.Total) {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", k.Label,
			report.FormatQuantity(k.Planned), report.FormatQuantity(k.Executed), report.FormatQuantity(k.CompletionPct()))
	}
	fmt.Fprintln(tw, "\t\t\t")
	fmt.Fprintln(tw, "CONDIÇÃO\tPLANEJADO\tREALIZADO\t")
	for _, m := range rep.Physical.Metrics() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t\n", m.Label, report.FormatQuantity(m.Planned), report.FormatQuantity(m.Executed))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w, "\nMatriz END")
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(report.MatrixHeaders(), "\t"))
	for _, m := range rep.Matrix {
		fmt.Fprintln(tw, strings.Join(m.Values(), "\t"))
	}
	return tw.Flush()
}

func newOptionsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "options",
		Short: "List the candidate values of the five filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newContainer()
			if err != nil {
				return err
			}
			var opts report.Options
			err = withSpinner("Carregando planilhas", func() error {
				var err error
				opts, err = c.Service.Options(cmd.Context())
				return err
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, opts)
			}
			for _, f := range report.FilterFields {
				fmt.Fprintf(out, "%s (--%s): %s\n", f.Label, strings.ReplaceAll(f.Param, "_", "-"),
					strings.Join(opts[f.Column], ", "))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load both spreadsheets and check the required columns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newContainer()
			if err != nil {
				return err
			}
			err = withSpinner("Validando planilhas", func() error {
				_, err := c.Cache.Get(cmd.Context())
				return err
			})

			out := cmd.OutOrStdout()
			if err != nil {
				return explainFailure(out, err)
			}

			info, _ := c.Cache.Loaded()
			for _, s := range info.Sources {
				fmt.Fprintf(out, "%s: %s (%d linhas, %d colunas, %s)\n",
					s.Name, s.Path, s.Rows, s.Columns, s.Fingerprint.Short())
			}
			fmt.Fprintln(out, "OK")
			return nil
		},
	}
}

// explainFailure prints what the operator can fix for a failed load
func explainFailure(out io.Writer, err error) error {
	switch {
	case core.IsSchemaError(err):
		for _, f := range internalDataset.SchemaErrors(err) {
			fmt.Fprintf(out, "%s: faltam %s\n", f.Table, strings.Join(f.Missing, ", "))
		}
		return fmt.Errorf("schema validation failed")
	case core.IsLoadError(err):
		fmt.Fprintln(out, "planilha indisponível; confira os caminhos configurados")
	}
	return err
}

func newExportCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the filtered service matrix to an xlsx workbook",
		Args:  cobra.NoArgs,
	}
	sf := addSelectionFlags(cmd)
	cmd.Flags().StringVar(&outPath, "out", "matriz_end.xlsx", "Output workbook path")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		rep, err := loadReport(cmd.Context(), sf.selection(cmd))
		if err != nil {
			return err
		}

		rows := make([][]interface{}, 0, len(rep.Matrix))
		for _, m := range rep.Matrix {
			row := []interface{}{}
			for _, v := range m.Values() {
				row = append(row, v)
			}
			rows = append(rows, row)
		}

		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", outPath, err)
		}
		defer f.Close()
		if err := excel.WriteWorkbook(f, "Matriz END", report.MatrixHeaders(), rows); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d linhas gravadas em %s\n", len(rows), outPath)
		return nil
	}
	return cmd
}
