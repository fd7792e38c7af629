package ui

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"ndtdash/internal/errors"
	"ndtdash/internal/report"
)

var (
	plannedColor  = drawing.ColorFromHex("1f4e79")
	executedColor = drawing.ColorFromHex("2e9d5b")
)

const chartSize = 360

func sliceStyle(color drawing.Color) chart.Style {
	return chart.Style{
		FillColor:   color,
		StrokeColor: drawing.ColorWhite,
		StrokeWidth: 2,
		FontColor:   drawing.ColorWhite,
	}
}

// renderDonut draws planned against executed as an SVG donut. Charts with
// nothing to show get a placeholder, go-chart refuses all-zero values.
func renderDonut(w io.Writer, title string, planned, executed float64) error {
	if planned < 0 {
		planned = 0
	}
	if executed < 0 {
		executed = 0
	}
	if planned+executed == 0 {
		_, err := io.WriteString(w, emptyChartSVG(title))
		return err
	}

	var values []chart.Value
	if planned > 0 {
		values = append(values, chart.Value{
			Value: planned,
			Label: "Planejado " + report.FormatQuantity(planned),
			Style: sliceStyle(plannedColor),
		})
	}
	if executed > 0 {
		values = append(values, chart.Value{
			Value: executed,
			Label: "Realizado " + report.FormatQuantity(executed),
			Style: sliceStyle(executedColor),
		})
	}

	donut := chart.DonutChart{
		Title:  title,
		Width:  chartSize,
		Height: chartSize,
		Values: values,
	}
	return donut.Render(chart.SVG, w)
}

func emptyChartSVG(title string) string {
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%[1]d" height="%[1]d" viewBox="0 0 %[1]d %[1]d">`+
		`<circle cx="%[2]d" cy="%[2]d" r="%[3]d" fill="none" stroke="#d0d5dd" stroke-width="40"/>`+
		`<text x="%[2]d" y="28" text-anchor="middle" font-family="sans-serif" font-size="16">%[4]s</text>`+
		`<text x="%[2]d" y="%[2]d" text-anchor="middle" font-family="sans-serif" font-size="14" fill="#667085">Sem dados</text>`+
		`</svg>`, chartSize, chartSize/2, chartSize/3, template.HTMLEscapeString(title))
}

func (s *Server) writeSVG(c *gin.Context, title string, planned, executed float64) {
	var buf bytes.Buffer
	if err := renderDonut(&buf, title, planned, executed); err != nil {
		s.logger.Error("[Charts] failed to render %q: %v", title, err)
		c.String(http.StatusInternalServerError, "chart rendering failed")
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/svg+xml", buf.Bytes())
}

func (s *Server) chartError(c *gin.Context, err error) {
	c.String(errors.HTTPStatus(err), err.Error())
}

// handleSummaryChart draws total planned against total executed
func (s *Server) handleSummaryChart(c *gin.Context) {
	rep, _, ok := s.buildReport(c, pageSummary)
	if !ok {
		return
	}
	s.writeSVG(c, "Planejado x Realizado", rep.Total.Planned, rep.Total.Executed)
}

// handleKindChart draws one test kind, addressed by its position
func (s *Server) handleKindChart(c *gin.Context) {
	index, err := strconv.Atoi(strings.TrimSuffix(c.Param("index"), ".svg"))
	if err != nil {
		s.chartError(c, errors.InvalidInput("invalid chart index"))
		return
	}
	rep, _, ok := s.buildReport(c, pageDetail)
	if !ok {
		return
	}
	kind, ok := rep.Kind(index)
	if !ok {
		s.chartError(c, errors.NotFound("test kind"))
		return
	}
	s.writeSVG(c, kind.Label, kind.Planned, kind.Executed)
}
