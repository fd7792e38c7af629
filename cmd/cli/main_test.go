package main

import (
	"bytes"
	stderrors "errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ndtdash/domain/core"
	"ndtdash/domain/dataset"
	internalDataset "ndtdash/internal/dataset"
	"ndtdash/internal/errors"
	"ndtdash/internal/report"
)

func TestSelectionFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "x", RunE: func(*cobra.Command, []string) error { return nil }}
	sf := addSelectionFlags(cmd)
	cmd.SetArgs([]string{"--un", "10", "--un", "20", "--nota-zr", ""})
	require.NoError(t, cmd.Execute())

	sel := sf.selection(cmd)

	assert.Equal(t, []string{"10", "20"}, sel[report.ColumnUN])
	assert.True(t, sel.Has(report.ColumnNotaZR))
	assert.Empty(t, sel[report.ColumnNotaZR])
	assert.False(t, sel.Has(report.ColumnTipo))
}

func TestSelectionFlagsKeepCommas(t *testing.T) {
	cmd := &cobra.Command{Use: "x", RunE: func(*cobra.Command, []string) error { return nil }}
	sf := addSelectionFlags(cmd)
	cmd.SetArgs([]string{"--servico", "Limpeza, inspeção", "--servico", "Troca", "--tipo", ""})
	require.NoError(t, cmd.Execute())

	sel := sf.selection(cmd)

	assert.Equal(t, []string{"Limpeza, inspeção", "Troca"}, sel[report.ColumnServico])
	assert.True(t, sel.Has(report.ColumnTipo))
	assert.Empty(t, sel[report.ColumnTipo])
}

func TestExplainFailure(t *testing.T) {
	var buf bytes.Buffer
	schemaErr := errors.SchemaMismatch(&internalDataset.SchemaError{Table: "executed", Missing: []string{"US_REAL"}})
	err := explainFailure(&buf, schemaErr)
	require.Error(t, err)
	assert.Equal(t, "executed: faltam US_REAL\n", buf.String())

	buf.Reset()
	loadErr := errors.LoadFailed("planned", core.NewSourceNotFoundError("XLSX file", "p.xlsx"))
	err = explainFailure(&buf, loadErr)
	assert.Same(t, loadErr, err)
	assert.Contains(t, buf.String(), "planilha indisponível")

	buf.Reset()
	plain := stderrors.New("boom")
	assert.Equal(t, plain, explainFailure(&buf, plain))
	assert.Empty(t, buf.String())
}

func TestWriteText(t *testing.T) {
	planned := dataset.NewTable(dataset.SourcePlanned, nil)
	planned.Rows = []dataset.Row{{
		"UN": dataset.Text("10"), "TIPO": dataset.Text("CASCO"), "TAG": dataset.Text("A"),
		"NOTA_ZR": dataset.Text("1"), "SERVICO": dataset.Text("LIMPEZA"), "ME": dataset.Number(5),
	}}
	pair := &dataset.Pair{LoadID: core.NewID(), LoadedAt: core.Now(), Planned: planned,
		Executed: dataset.NewTable(dataset.SourceExecuted, nil)}
	rep := report.Build(pair, []report.TestKind{{Label: "ME", PlannedColumn: "ME", ExecutedColumn: "ME_REAL"}}, nil)

	var buf bytes.Buffer
	require.NoError(t, writeText(&buf, rep))

	out := buf.String()
	assert.Contains(t, out, "ENSAIO")
	assert.Contains(t, out, "Retubagem")
	assert.Regexp(t, `ME\s+5\s+0\s+0`, out)
	assert.Regexp(t, `10\s+A\s+1\s+LIMPEZA`, out)
}
