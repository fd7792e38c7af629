package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"

	"ndtdash/app"
	"ndtdash/domain/dataset"
	"ndtdash/internal"
	"ndtdash/internal/errors"
	"ndtdash/internal/report"
)

// Prefix is where the JSON API is mounted
const Prefix = "/api/v1"

// Reporter is the report surface the API exposes
type Reporter interface {
	Report(ctx context.Context, sel report.Selection) (*report.Report, error)
	Options(ctx context.Context) (report.Options, error)
	Refresh(ctx context.Context) (dataset.LoadInfo, error)
	Status() app.Status
}

// Handler serves the dashboard data as JSON
type Handler struct {
	reporter Reporter
	logger   *internal.Logger
}

// NewHandler creates an API handler over reporter
func NewHandler(reporter Reporter, logger *internal.Logger) *Handler {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Handler{reporter: reporter, logger: logger}
}

// Routes returns the API routes relative to Prefix
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/status", h.handleStatus)
	r.Get("/options", h.handleOptions)
	r.Get("/report", h.handleReport)
	r.Post("/refresh", h.handleRefresh)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.writeError(w, errors.NotFound("route "+r.URL.Path))
	})
	return r
}

// NewRouter returns a root router with the API mounted under Prefix. When
// logRequests is set chi's request logger is installed.
func NewRouter(h *Handler, logRequests bool) http.Handler {
	r := chi.NewRouter()
	if logRequests {
		r.Use(middleware.Logger)
	}
	r.Mount(Prefix, h.Routes())
	return r
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.reporter.Status())
}

func (h *Handler) handleOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.reporter.Options(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	fields := make([]optionField, 0, len(report.FilterFields))
	for _, f := range report.FilterFields {
		fields = append(fields, optionField{FilterField: f, Values: opts[f.Column]})
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"filters": fields})
}

type optionField struct {
	report.FilterField
	Values []string `json:"values"`
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	sel := report.ParseSelection(r.URL.Query())
	rep, err := h.reporter.Report(r.Context(), sel)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, newReportResponse(rep))
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	info, err := h.reporter.Refresh(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Dados atualizados com sucesso!",
		"load":    info,
	})
}

type kindResponse struct {
	report.KindTotals
	CompletionPct float64 `json:"completion_pct"`
}

type reportResponse struct {
	Load              dataset.LoadInfo   `json:"load"`
	Options           report.Options     `json:"options"`
	Selection         report.Selection   `json:"selection"`
	PlannedRows       int                `json:"planned_rows"`
	ExecutedRows      int                `json:"executed_rows"`
	TotalPlannedRows  int                `json:"total_planned_rows"`
	TotalExecutedRows int                `json:"total_executed_rows"`
	Kinds             []kindResponse     `json:"kinds"`
	Total             kindResponse       `json:"total"`
	Physical          report.Physical    `json:"physical"`
	Matrix            []report.MatrixRow `json:"matrix"`
}

func newReportResponse(r *report.Report) reportResponse {
	kinds := make([]kindResponse, 0, len(r.Kinds))
	for _, k := range r.Kinds {
		kinds = append(kinds, kindResponse{KindTotals: k, CompletionPct: k.CompletionPct()})
	}
	return reportResponse{
		Load:              r.Load,
		Options:           r.Options,
		Selection:         r.Selection,
		PlannedRows:       r.PlannedRows,
		ExecutedRows:      r.ExecutedRows,
		TotalPlannedRows:  r.TotalPlannedRows,
		TotalExecutedRows: r.TotalExecutedRows,
		Kinds:             kinds,
		Total:             kindResponse{KindTotals: r.Total, CompletionPct: r.Total.CompletionPct()},
		Physical:          r.Physical,
		Matrix:            r.Matrix,
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("[API] failed to encode response: %v", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("[API] %v", err)
	}
	h.writeJSON(w, status, map[string]string{
		"error": err.Error(),
		"code":  errors.GetCode(err),
	})
}
