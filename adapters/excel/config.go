package excel

import (
	"ndtdash/adapters/datareadiness/coercer"
)

// SourceFile locates one logical dataset on disk
type SourceFile struct {
	Path  string `json:"path"`
	Sheet string `json:"sheet"` // empty selects the first sheet
}

// ExcelConfig holds configuration for the planned/executed spreadsheet pair
type ExcelConfig struct {
	Planned        SourceFile             `json:"planned"`
	Executed       SourceFile             `json:"executed"`
	CoercionConfig coercer.CoercionConfig `json:"coercion_config"`
}

// DefaultExcelConfig returns the conventional dados/ locations
func DefaultExcelConfig() ExcelConfig {
	return ExcelConfig{
		Planned:        SourceFile{Path: "dados/dados.planejado.xlsx"},
		Executed:       SourceFile{Path: "dados/dados.realizado.xlsx"},
		CoercionConfig: coercer.DefaultCoercionConfig(),
	}
}
