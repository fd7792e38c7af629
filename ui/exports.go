package ui

import (
	"bytes"
	"encoding/csv"
	"net/http"

	"github.com/gin-gonic/gin"

	"ndtdash/adapters/excel"
	"ndtdash/internal/report"
)

const (
	matrixSheet  = "Matriz END"
	xlsxMIMEType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// handleExportXLSX downloads the filtered service matrix as a workbook
func (s *Server) handleExportXLSX(c *gin.Context) {
	rep, _, ok := s.buildReport(c, pageSummary)
	if !ok {
		return
	}

	rows := make([][]interface{}, 0, len(rep.Matrix))
	for _, m := range rep.Matrix {
		cells := m.Values()
		row := make([]interface{}, len(cells))
		for i, v := range cells {
			row[i] = v
		}
		rows = append(rows, row)
	}

	var buf bytes.Buffer
	if err := excel.WriteWorkbook(&buf, matrixSheet, report.MatrixHeaders(), rows); err != nil {
		s.logger.Error("[Export] xlsx failed: %v", err)
		c.String(http.StatusInternalServerError, "export failed")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="matriz_end.xlsx"`)
	c.Data(http.StatusOK, xlsxMIMEType, buf.Bytes())
}

// handleExportCSV downloads the filtered service matrix as UTF-8 CSV
func (s *Server) handleExportCSV(c *gin.Context) {
	rep, _, ok := s.buildReport(c, pageSummary)
	if !ok {
		return
	}

	var buf bytes.Buffer
	buf.WriteString("\ufeff")
	w := csv.NewWriter(&buf)
	w.Comma = ';'
	records := [][]string{report.MatrixHeaders()}
	for _, m := range rep.Matrix {
		records = append(records, m.Values())
	}
	if err := w.WriteAll(records); err != nil {
		s.logger.Error("[Export] csv failed: %v", err)
		c.String(http.StatusInternalServerError, "export failed")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="matriz_end.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
