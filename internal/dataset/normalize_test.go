package dataset

import (
	"testing"
	"unicode"

	domainDataset "ndtdash/domain/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeColumn(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Substituição", "SUBSTITUICAO"},
		{"  Nota ZR ", "NOTA_ZR"},
		{"Serviço", "SERVICO"},
		{"UN", "UN"},
		{"subst feixe real", "SUBST_FEIXE_REAL"},
		{"Réplica Metalográfica", "REPLICA_METALOGRAFICA"},
		{"", ""},
		{"   ", ""},
		{"ﬁltro", "FILTRO"}, // compatibility ligature decomposes under NFKD
		{"Quant  CP", "QUANT__CP"},
		{"日本", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeColumn(tt.input))
		})
	}
}

func TestNormalizeColumnIdempotent(t *testing.T) {
	inputs := []string{"Substituição", "  Nota ZR ", "Usinagem Real", "ção\tX", "Ünïcödé Ñame", " TAG ", "a b c", ""}
	for _, in := range inputs {
		once := NormalizeColumn(in)
		assert.Equal(t, once, NormalizeColumn(once), "input %q", in)
	}
}

func TestNormalizeColumnProducesUpperASCII(t *testing.T) {
	out := NormalizeColumn("Condições Físicas – Retubagem")
	for _, r := range out {
		assert.LessOrEqual(t, r, rune(unicode.MaxASCII))
		assert.False(t, unicode.IsLower(r), "lowercase rune %q in %q", r, out)
	}
	assert.Equal(t, "CONDICOES_FISICAS__RETUBAGEM", out)
}

func TestNormalizeTable(t *testing.T) {
	raw := &domainDataset.Table{
		Name:    domainDataset.SourcePlanned,
		Columns: []string{"Tag", "Nota ZR", "Serviço"},
		Rows: []domainDataset.Row{
			{"Tag": domainDataset.Text("P-1"), "Nota ZR": domainDataset.Number(7), "Serviço": domainDataset.Text("END")},
			{"Tag": domainDataset.Text("P-2")},
		},
	}

	normalized := NormalizeTable(raw)
	require.NotNil(t, normalized)

	assert.Equal(t, []string{"TAG", "NOTA_ZR", "SERVICO"}, normalized.Columns)
	assert.Equal(t, "P-1", normalized.Rows[0].Get("TAG").String())
	assert.Equal(t, "7", normalized.Rows[0].Get("NOTA_ZR").String())
	assert.True(t, normalized.Rows[1].Get("SERVICO").IsNull())
	// source table untouched
	assert.Equal(t, "Nota ZR", raw.Columns[1])
	assert.Nil(t, NormalizeTable(nil))
}

func TestNormalizeTableCollidingLabels(t *testing.T) {
	raw := &domainDataset.Table{
		Columns: []string{"Serviço", "SERVICO"},
		Rows:    []domainDataset.Row{{"Serviço": domainDataset.Text("a"), "SERVICO": domainDataset.Text("b")}},
	}

	normalized := NormalizeTable(raw)
	assert.Equal(t, []string{"SERVICO"}, normalized.Columns)
	assert.Equal(t, "b", normalized.Rows[0].Get("SERVICO").String())
}
