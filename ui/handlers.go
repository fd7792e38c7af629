package ui

import (
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	internalDataset "ndtdash/internal/dataset"
	"ndtdash/internal/errors"
	"ndtdash/internal/report"
)

const refreshedFlash = "Dados atualizados com sucesso!"

// handleIndex redirects to the summary view, keeping the selection
func (s *Server) handleIndex(c *gin.Context) {
	target := "/" + pageSummary
	if q := c.Request.URL.RawQuery; q != "" {
		target += "?" + q
	}
	c.Redirect(http.StatusFound, target)
}

func (s *Server) handleSummary(c *gin.Context) { s.renderView(c, pageSummary) }

func (s *Server) handleDetail(c *gin.Context) { s.renderView(c, pageDetail) }

func (s *Server) handleConditions(c *gin.Context) { s.renderView(c, pageConditions) }

func (s *Server) selection(c *gin.Context) report.Selection {
	return report.ParseSelection(c.Request.URL.Query())
}

// buildReport computes the report for the request selection, rendering the
// error page itself when the datasets cannot be loaded
func (s *Server) buildReport(c *gin.Context, page string) (*report.Report, report.Selection, bool) {
	sel := s.selection(c)
	rep, err := s.service.Report(c.Request.Context(), sel)
	if err != nil {
		s.renderError(c, page, err)
		return nil, nil, false
	}
	return rep, sel, true
}

func (s *Server) renderView(c *gin.Context, page string) {
	rep, sel, ok := s.buildReport(c, page)
	if !ok {
		return
	}

	data := s.newPageData(c, page, sel)
	data.Report = rep
	if page == pageDetail {
		data.Cards = cardRows(rep.Kinds)
	}
	c.HTML(http.StatusOK, page+".html", data)
}

func (s *Server) newPageData(c *gin.Context, page string, sel report.Selection) pageData {
	query := selectionQuery(sel)
	data := pageData{
		Page:       page,
		Title:      pageTitle(page),
		Navigation: navigation,
		Fields:     report.FilterFields,
		Query:      template.URL(query),
		Return:     "/" + page,
		HasEvents:  s.hub != nil,
	}
	if query != "" {
		data.Return += "?" + query
	}
	if c.Query("atualizado") == "1" {
		data.Flash = refreshedFlash
	}
	return data
}

func (s *Server) renderError(c *gin.Context, page string, err error) {
	status := errors.HTTPStatus(err)
	s.logger.Error("[Server] %s: %v", c.Request.URL.Path, err)

	data := s.newPageData(c, page, report.Selection{})
	data.Title = "Erro ao carregar dados"
	data.Error = err.Error()
	for _, se := range internalDataset.SchemaErrors(err) {
		data.Failures = append(data.Failures, failure{Table: se.Table, Missing: se.Missing})
	}
	c.HTML(status, "error.html", data)
}

// handleRefresh drops the cached datasets, reloads them and sends the user
// back to the page they came from
func (s *Server) handleRefresh(c *gin.Context) {
	target := safeReturn(c.PostForm("return"))
	if _, err := s.service.Refresh(c.Request.Context()); err != nil {
		s.renderError(c, pageSummary, err)
		return
	}
	c.Redirect(http.StatusSeeOther, target)
}

// safeReturn keeps redirects on this site and marks them as refreshed
func safeReturn(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(u.Path, "//") {
		u = &url.URL{Path: "/" + pageSummary}
	}
	q := u.Query()
	q.Set("atualizado", "1")
	u.RawQuery = q.Encode()
	u.Fragment = ""
	return u.String()
}

// handlePrint renders the report as a printable page through Markdown
func (s *Server) handlePrint(c *gin.Context) {
	rep, sel, ok := s.buildReport(c, pageSummary)
	if !ok {
		return
	}

	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags | mdhtml.SkipHTML})
	body := markdown.ToHTML(rep.Markdown(), p, renderer)

	data := s.newPageData(c, pageSummary, sel)
	data.Title = "Relatório END"
	data.Report = rep
	data.Body = template.HTML(body)
	c.HTML(http.StatusOK, "print.html", data)
}
