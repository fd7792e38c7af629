package excel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ndtdash/adapters/datareadiness/coercer"
	"ndtdash/domain/core"
	"ndtdash/domain/dataset"
	"ndtdash/internal"

	"github.com/xuri/excelize/v2"
)

// DataReader handles reading Excel and CSV files
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	sheet    string
	coercer  *coercer.TypeCoercer
	logger   *internal.Logger

	content []byte
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(filePath, sheet string, c *coercer.TypeCoercer) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	if c == nil {
		c = coercer.NewTypeCoercer(coercer.DefaultCoercionConfig())
	}
	return &DataReader{filePath: filePath, fileType: fileType, sheet: sheet, coercer: c, logger: internal.DefaultLogger}
}

// ReadData reads raw cell text from the Excel or CSV file
func (r *DataReader) ReadData() (*ExcelData, error) {
	r.logger.Debug("[DataReader] Starting to read %s file: %s", r.fileType, r.filePath)

	content, err := os.ReadFile(r.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, core.NewSourceNotFoundError(r.kind(), r.filePath)
		}
		return nil, core.NewSourceUnreadableError(r.kind(), r.filePath, err)
	}
	r.content = content

	switch r.fileType {
	case "csv":
		return r.readCSVData()
	default:
		return r.readExcelData()
	}
}

func (r *DataReader) kind() string {
	return strings.ToUpper(r.fileType) + " file"
}

// Fingerprint returns the sha256 of the bytes last read
func (r *DataReader) Fingerprint() core.Hash {
	if r.content == nil {
		return ""
	}
	return core.NewHash(r.content)
}

// readExcelData reads the configured sheet (or the first one) into structured format
func (r *DataReader) readExcelData() (*ExcelData, error) {
	startTime := time.Now()
	f, err := excelize.OpenReader(bytes.NewReader(r.content))
	if err != nil {
		return nil, core.NewSourceUnreadableError(r.kind(), r.filePath, err)
	}
	defer f.Close()

	sheet := r.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook %s has no sheets: %w", r.filePath, core.ErrEmptySource)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, core.NewSourceUnreadableError(r.kind(), r.filePath+"#"+sheet, err)
	}
	r.logger.Debug("[DataReader] Sheet %s read in %.2fms (%d rows)", sheet, float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	data, err := r.processRows(rows)
	if err != nil {
		return nil, err
	}
	data.Sheet = sheet

	// Cell types decide whether "0123" is an identifier or a number
	for i, row := range data.Rows {
		textual := make(map[string]bool)
		for j, header := range data.Headers {
			if _, ok := row[header]; !ok {
				continue
			}
			cellRef, err := excelize.CoordinatesToCellName(j+1, data.rowNumbers[i])
			if err != nil {
				continue
			}
			cellType, err := f.GetCellType(sheet, cellRef)
			if err != nil {
				continue
			}
			if cellType == excelize.CellTypeSharedString || cellType == excelize.CellTypeInlineString {
				textual[header] = true
			}
		}
		data.Textual = append(data.Textual, textual)
	}

	return data.ExcelData, nil
}

// readCSVData reads CSV data into structured format
func (r *DataReader) readCSVData() (*ExcelData, error) {
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(r.content, []byte("\xef\xbb\xbf"))))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, core.NewSourceUnreadableError(r.kind(), r.filePath, err)
	}

	data, err := r.processRows(rows)
	if err != nil {
		return nil, err
	}
	return data.ExcelData, nil
}

type numberedData struct {
	*ExcelData
	rowNumbers []int // 1-based sheet row of each data row
}

// processRows converts raw string rows into ExcelData format
func (r *DataReader) processRows(rows [][]string) (*numberedData, error) {
	if len(rows) == 0 || isBlankRow(rows[0]) {
		return nil, fmt.Errorf("%s has no header row: %w", r.filePath, core.ErrEmptySource)
	}

	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(header)
		if headers[i] == "" {
			headers[i] = fmt.Sprintf("Unnamed: %d", i)
		}
	}

	data := &numberedData{ExcelData: &ExcelData{Headers: headers}}
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if isBlankRow(row) {
			continue
		}

		rowData := make(RawRowData)
		for j, cell := range row {
			if j < len(headers) {
				rowData[headers[j]] = cell
			}
		}
		data.Rows = append(data.Rows, rowData)
		data.rowNumbers = append(data.rowNumbers, i+1)
	}

	r.logger.Debug("[DataReader] %s file processed (%d columns, %d rows)",
		strings.ToUpper(r.fileType), len(headers), len(data.Rows))
	return data, nil
}

// ReadTable reads the file and types every cell into a dataset table
func (r *DataReader) ReadTable(name string) (*dataset.Table, error) {
	data, err := r.ReadData()
	if err != nil {
		return nil, err
	}
	return r.ToTable(name, data), nil
}

// ToTable types raw sheet data. Cells the workbook stores as text stay text;
// everything else goes through numeric coercion.
func (r *DataReader) ToTable(name string, data *ExcelData) *dataset.Table {
	table := dataset.NewTable(name, dedupeHeaders(data.Headers))
	table.Rows = make([]dataset.Row, 0, len(data.Rows))
	for i, raw := range data.Rows {
		var textual map[string]bool
		if i < len(data.Textual) {
			textual = data.Textual[i]
		}
		row := make(dataset.Row, len(raw))
		for header, cell := range raw {
			var v dataset.Value
			if textual[header] {
				v = r.coercer.CoerceText(cell)
			} else {
				v = r.coercer.CoerceCell(cell)
			}
			if !v.IsNull() {
				row[header] = v
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func dedupeHeaders(headers []string) []string {
	seen := make(map[string]bool, len(headers))
	out := make([]string, 0, len(headers))
	for _, h := range headers {
		if !seen[h] {
			seen[h] = true
			out = append(out, h)
		}
	}
	return out
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
