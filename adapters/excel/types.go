package excel

// RawRowData represents a row of raw cell text keyed by header
type RawRowData map[string]string

// ExcelData represents the complete sheet as read from disk, before typing
type ExcelData struct {
	Sheet   string            // sheet the rows came from, empty for CSV
	Headers []string          // Column headers
	Rows    []RawRowData      // Data rows
	Textual []map[string]bool // cells the workbook stores as text, per row
}
