package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKinds(t *testing.T) {
	kinds := DefaultKinds()

	require.Len(t, kinds, 7)
	assert.Equal(t, "ME", kinds[0].Label)
	assert.Equal(t, TestKind{Label: "IRIS", PlannedColumn: "QUANT_IRIS", ExecutedColumn: "IRIS_REAL"}, kinds[4])
	assert.Equal(t, kinds[5].PlannedColumn, kinds[5].ExecutedColumn)
}

func TestParseKinds(t *testing.T) {
	kinds, err := ParseKinds([]byte(`
kinds:
  - label: US
    planned: US
    executed: US Real
  - label: Réplica
    planned: Réplica metalográfica
    executed: replica metalografica
`))

	require.NoError(t, err)
	assert.Equal(t, []TestKind{
		{Label: "US", PlannedColumn: "US", ExecutedColumn: "US_REAL"},
		{Label: "Réplica", PlannedColumn: "REPLICA_METALOGRAFICA", ExecutedColumn: "REPLICA_METALOGRAFICA"},
	}, kinds)
}

func TestParseKinds_Invalid(t *testing.T) {
	cases := map[string]string{
		"empty":     "kinds: []",
		"missing":   "kinds:\n  - label: US\n    planned: US\n",
		"duplicate": "kinds:\n  - {label: US, planned: US, executed: US_REAL}\n  - {label: US, planned: X, executed: Y}\n",
		"unknown":   "kinds:\n  - {label: US, planned: US, executed: US_REAL, weight: 2}\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseKinds([]byte(content))
			assert.Error(t, err)
		})
	}
}

func TestLoadKinds(t *testing.T) {
	kinds, err := LoadKinds("")
	require.NoError(t, err)
	assert.Equal(t, DefaultKinds(), kinds)

	path := filepath.Join(t.TempDir(), "kinds.yaml")
	require.NoError(t, os.WriteFile(path, []byte("kinds:\n  - {label: ME, planned: me, executed: me real}\n"), 0o600))
	kinds, err = LoadKinds(path)
	require.NoError(t, err)
	assert.Equal(t, []TestKind{{Label: "ME", PlannedColumn: "ME", ExecutedColumn: "ME_REAL"}}, kinds)

	_, err = LoadKinds(filepath.Join(t.TempDir(), "none.yaml"))
	assert.Error(t, err)
}

func TestRequiredSchema(t *testing.T) {
	schema := RequiredSchema(DefaultKinds())

	assert.Equal(t, []string{"UN", "TIPO", "TAG", "NOTA_ZR", "SERVICO", "ME"}, schema.Planned[:6])
	assert.Contains(t, schema.Planned, "RETUB")
	assert.Contains(t, schema.Executed, "CP_REAL")
	assert.Contains(t, schema.Executed, "SUBST_FEIXE_REAL")
	assert.Equal(t, "TAG", schema.Executed[0])
	assert.Len(t, schema.Planned, 5+7+3)
	assert.Len(t, schema.Executed, 1+7+3)
}
