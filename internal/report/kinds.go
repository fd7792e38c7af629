package report

import (
	"fmt"
	"os"

	"ndtdash/domain/core"
	internalDataset "ndtdash/internal/dataset"

	"sigs.k8s.io/yaml"
)

// Canonical column names the pipeline reads directly
const (
	ColumnUN      = "UN"
	ColumnTipo    = "TIPO"
	ColumnTag     = "TAG"
	ColumnNotaZR  = "NOTA_ZR"
	ColumnServico = "SERVICO"

	ColumnBeamPlanned      = "SUBST_FEIXE"
	ColumnBeamExecuted     = "SUBST_FEIXE_REAL"
	ColumnMachiningPlanned = "USINAGEM"
	ColumnMachiningExec    = "USINAGEM_REAL"
	ColumnRetubePlanned    = "RETUB"
	ColumnRetubeExecuted   = "RETUB_REAL"
)

// ExcludedUnit is never offered as a UN filter option
const ExcludedUnit = "82"

// FilterField describes one of the five categorical filters
type FilterField struct {
	Column string `json:"column"`
	Label  string `json:"label"`
	Param  string `json:"param"`
}

// FilterFields lists the filters in sidebar order
var FilterFields = []FilterField{
	{Column: ColumnUN, Label: "UNIDADE REPLAN", Param: "un"},
	{Column: ColumnTipo, Label: "Tipo de Permutador", Param: "tipo"},
	{Column: ColumnTag, Label: "TAG PERMUTADOR", Param: "tag"},
	{Column: ColumnNotaZR, Label: "NOTA ZR", Param: "nota_zr"},
	{Column: ColumnServico, Label: "SERVIÇO", Param: "servico"},
}

// TestKind maps a non-destructive test label onto its planned and executed
// quantity columns
type TestKind struct {
	Label          string `json:"label"`
	PlannedColumn  string `json:"planned"`
	ExecutedColumn string `json:"executed"`
}

// DefaultKinds returns the standard test kind mapping in display order
func DefaultKinds() []TestKind {
	return []TestKind{
		{Label: "ME", PlannedColumn: "ME", ExecutedColumn: "ME_REAL"},
		{Label: "LP", PlannedColumn: "LP", ExecutedColumn: "LP_REAL"},
		{Label: "US", PlannedColumn: "US", ExecutedColumn: "US_REAL"},
		{Label: "PM", PlannedColumn: "PM", ExecutedColumn: "PM_REAL"},
		{Label: "IRIS", PlannedColumn: "QUANT_IRIS", ExecutedColumn: "IRIS_REAL"},
		{Label: "Réplica", PlannedColumn: "REPLICA_METALOGRAFICA", ExecutedColumn: "REPLICA_METALOGRAFICA"},
		{Label: "Corrente Parasita", PlannedColumn: "QUANT_CP", ExecutedColumn: "CP_REAL"},
	}
}

type kindsFile struct {
	Kinds []TestKind `json:"kinds"`
}

// LoadKinds reads a YAML test kind mapping. Column names may be written the
// way they appear in the spreadsheet; they are normalized on load. An empty
// path returns DefaultKinds.
func LoadKinds(path string) ([]TestKind, error) {
	if path == "" {
		return DefaultKinds(), nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read kinds file: %w", err)
	}
	return ParseKinds(content)
}

// ParseKinds parses and validates a YAML test kind mapping
func ParseKinds(content []byte) ([]TestKind, error) {
	var file kindsFile
	if err := yaml.UnmarshalStrict(content, &file); err != nil {
		return nil, fmt.Errorf("invalid kinds file: %w", err)
	}
	if len(file.Kinds) == 0 {
		return nil, fmt.Errorf("%w: kinds file defines no kinds", core.ErrUnknownKind)
	}

	seen := make(map[string]bool, len(file.Kinds))
	kinds := make([]TestKind, 0, len(file.Kinds))
	for i, k := range file.Kinds {
		if k.Label == "" || k.PlannedColumn == "" || k.ExecutedColumn == "" {
			return nil, fmt.Errorf("kind #%d needs label, planned and executed", i+1)
		}
		if seen[k.Label] {
			return nil, fmt.Errorf("duplicate kind label %q", k.Label)
		}
		seen[k.Label] = true
		kinds = append(kinds, TestKind{
			Label:          k.Label,
			PlannedColumn:  internalDataset.NormalizeColumn(k.PlannedColumn),
			ExecutedColumn: internalDataset.NormalizeColumn(k.ExecutedColumn),
		})
	}
	return kinds, nil
}

// RequiredSchema lists the columns each table must carry for kinds
func RequiredSchema(kinds []TestKind) internalDataset.Schema {
	schema := internalDataset.Schema{}
	for _, f := range FilterFields {
		schema.Planned = append(schema.Planned, f.Column)
	}
	schema.Executed = append(schema.Executed, ColumnTag)
	for _, k := range kinds {
		schema.Planned = append(schema.Planned, k.PlannedColumn)
		schema.Executed = append(schema.Executed, k.ExecutedColumn)
	}
	schema.Planned = append(schema.Planned, ColumnBeamPlanned, ColumnMachiningPlanned, ColumnRetubePlanned)
	schema.Executed = append(schema.Executed, ColumnBeamExecuted, ColumnMachiningExec, ColumnRetubeExecuted)
	return schema
}
