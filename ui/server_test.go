package ui

import (
	"bytes"
	"context"
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"ndtdash/app"
	"ndtdash/domain/core"
	"ndtdash/domain/dataset"
	"ndtdash/internal"
	internalDataset "ndtdash/internal/dataset"
	"ndtdash/internal/errors"
	"ndtdash/internal/report"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) Load(ctx context.Context) (*dataset.Pair, error) {
	args := m.Called(ctx)
	pair, _ := args.Get(0).(*dataset.Pair)
	return pair, args.Error(1)
}

func plannedRow(un, tag, nota string, me float64) dataset.Row {
	return dataset.Row{
		"UN": dataset.Text(un), "TIPO": dataset.Text("CASCO"), "TAG": dataset.Text(tag),
		"NOTA_ZR": dataset.Text(nota), "SERVICO": dataset.Text("LIMPEZA"),
		"ME": dataset.Number(me), "SUBST_FEIXE": dataset.Number(1), "RETUB": dataset.Number(2),
	}
}

func fixturePair() *dataset.Pair {
	planned := dataset.NewTable(dataset.SourcePlanned, nil)
	planned.Rows = []dataset.Row{
		plannedRow("10", "P-<1>", "1001", 5),
		plannedRow("20", "P-2", "1002", 3),
		plannedRow("82", "P-82", "1003", 100),
	}
	executed := dataset.NewTable(dataset.SourceExecuted, nil)
	executed.Rows = []dataset.Row{
		{"TAG": dataset.Text("P-<1>"), "ME_REAL": dataset.Number(4), "RETUB_REAL": dataset.Number(1)},
		{"TAG": dataset.Text("P-9"), "ME_REAL": dataset.Number(9)},
	}
	return &dataset.Pair{LoadID: core.NewID(), LoadedAt: core.Now(), Planned: planned, Executed: executed}
}

func kinds() []report.TestKind {
	return []report.TestKind{
		{Label: "ME", PlannedColumn: "ME", ExecutedColumn: "ME_REAL"},
		{Label: "LP", PlannedColumn: "LP", ExecutedColumn: "LP_REAL"},
		{Label: "US", PlannedColumn: "US", ExecutedColumn: "US_REAL"},
		{Label: "PM", PlannedColumn: "PM", ExecutedColumn: "PM_REAL"},
	}
}

func newTestServer(t *testing.T, source *mockSource) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := internal.NewLogger(internal.LogLevelError)
	svc := app.NewReportService(internalDataset.NewCache(source, nil, logger), kinds(), logger)
	srv, err := NewServer(svc, os.DirFS(".."), Options{}, logger)
	require.NoError(t, err)
	return srv.Handler()
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func loadedServer(t *testing.T) (http.Handler, *mockSource) {
	source := new(mockSource)
	source.On("Load", mock.Anything).Return(fixturePair(), nil)
	return newTestServer(t, source), source
}

func TestIndexRedirects(t *testing.T) {
	h, _ := loadedServer(t)

	rec := get(h, "/?un=10")

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/resumo?un=10", rec.Header().Get("Location"))
}

func TestSummaryView(t *testing.T) {
	h, _ := loadedServer(t)

	rec := get(h, "/resumo")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Resumo END")
	assert.Contains(t, body, "UNIDADE REPLAN")
	assert.Contains(t, body, `<option value="10" selected>10</option>`)
	assert.NotContains(t, body, `<option value="82"`)
	assert.Contains(t, body, "<td>P-&lt;1&gt;</td>")
	assert.Contains(t, body, "/charts/summary.svg")
	assert.Contains(t, body, "🔄 Atualizar dados")
}

func TestSummaryView_FiltersApplied(t *testing.T) {
	h, _ := loadedServer(t)

	rec := get(h, "/resumo?un=&un=20")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<option value="20" selected>20</option>`)
	assert.Contains(t, body, `<option value="10">10</option>`)
	assert.Contains(t, body, "/charts/summary.svg?un=20")
	assert.NotContains(t, body, "<td>P-&lt;1&gt;</td>")
}

func TestSummaryView_EmptySelection(t *testing.T) {
	h, _ := loadedServer(t)

	rec := get(h, "/resumo?tipo=")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Nenhum serviço para os filtros selecionados.")
}

func TestDetailView(t *testing.T) {
	h, _ := loadedServer(t)

	rec := get(h, "/detalhamento")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Equal(t, 2, strings.Count(body, `class="chart-row"`))
	assert.Contains(t, body, "/charts/kind/3.svg")
}

func TestConditionsView(t *testing.T) {
	h, _ := loadedServer(t)

	rec := get(h, "/condicoes")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Substituição do Feixe")
	assert.Contains(t, body, "Retubagem")
	assert.Contains(t, body, "Matriz END")
}

func TestCharts(t *testing.T) {
	h, _ := loadedServer(t)

	rec := get(h, "/charts/summary.svg")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<svg")

	rec = get(h, "/charts/kind/1.svg")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sem dados")

	assert.Equal(t, http.StatusNotFound, get(h, "/charts/kind/9.svg").Code)
	assert.Equal(t, http.StatusBadRequest, get(h, "/charts/kind/x.svg").Code)
}

func TestExports(t *testing.T) {
	h, _ := loadedServer(t)

	rec := get(h, "/export/matrix.csv?un=10")
	require.Equal(t, http.StatusOK, rec.Code)
	r := csv.NewReader(strings.NewReader(strings.TrimPrefix(rec.Body.String(), "\ufeff")))
	r.Comma = ';'
	records, err := r.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"UN", "TAG", "NOTA_ZR", "SERVICO"}, {"10", "P-<1>", "1001", "LIMPEZA"}}, records)

	rec = get(h, "/export/matrix.xlsx")
	require.Equal(t, http.StatusOK, rec.Code)
	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Matriz END")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"20", "P-2", "1002", "LIMPEZA"}, rows[2])
}

func TestPrint(t *testing.T) {
	h, _ := loadedServer(t)

	rec := get(h, "/print")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<h1")
	assert.Contains(t, body, "<table>")
	assert.NotContains(t, body, "<1>")
}

func TestRefresh(t *testing.T) {
	h, source := loadedServer(t)
	get(h, "/resumo")

	rec := httptest.NewRecorder()
	form := url.Values{"return": {"/condicoes?un=10"}}
	req := httptest.NewRequest(http.MethodPost, "/refresh", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/condicoes?atualizado=1&un=10", rec.Header().Get("Location"))
	source.AssertNumberOfCalls(t, "Load", 2)

	page := get(h, "/condicoes?un=10&atualizado=1")
	assert.Contains(t, page.Body.String(), "Dados atualizados com sucesso!")
}

func TestSafeReturn(t *testing.T) {
	assert.Equal(t, "/resumo?atualizado=1", safeReturn(""))
	assert.Equal(t, "/resumo?atualizado=1", safeReturn("https://evil.example/x"))
	assert.Equal(t, "/resumo?atualizado=1", safeReturn("//evil.example"))
	assert.Equal(t, "/detalhamento?atualizado=1&tipo=", safeReturn("/detalhamento?tipo="))
}

func TestLoadFailureRendersErrorPage(t *testing.T) {
	source := new(mockSource)
	schemaErr := errors.SchemaMismatch(&internalDataset.SchemaError{Table: dataset.SourcePlanned, Missing: []string{"RETUB"}})
	source.On("Load", mock.Anything).Return(nil, schemaErr)
	h := newTestServer(t, source)

	rec := get(h, "/resumo")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Colunas ausentes")
	assert.Contains(t, body, "<code>RETUB</code>")
	assert.Contains(t, body, "🔄 Atualizar dados")

	assert.Equal(t, http.StatusServiceUnavailable, get(h, "/charts/summary.svg").Code)
}

func TestSelectionQuery(t *testing.T) {
	q := selectionQuery(report.Selection{report.ColumnTag: {"A", "B"}, report.ColumnTipo: {}})
	assert.Equal(t, "tag=A&tag=B&tipo=", q)
	assert.Empty(t, selectionQuery(report.Selection{}))
}

func TestCardRows(t *testing.T) {
	rows := cardRows(make(report.Totals, 7))
	require.Len(t, rows, 3)
	assert.Len(t, rows[0], 3)
	assert.Len(t, rows[1], 3)
	assert.Len(t, rows[2], 1)
	assert.Equal(t, 6, rows[2][0].Index)
}
