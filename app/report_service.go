package app

import (
	"context"
	"fmt"

	"ndtdash/domain/dataset"
	"ndtdash/internal"
	internalDataset "ndtdash/internal/dataset"
	"ndtdash/internal/report"
)

// ReportService serves reports over the cached planned/executed pair
type ReportService struct {
	cache  *internalDataset.Cache
	kinds  []report.TestKind
	logger *internal.Logger

	listeners []func(dataset.LoadInfo)
}

// Status summarises the cache state
type Status struct {
	Loaded bool              `json:"loaded"`
	Load   *dataset.LoadInfo `json:"load,omitempty"`
	Kinds  []report.TestKind `json:"kinds"`
	Loads  int               `json:"loads"`
}

// NewReportService creates a report service over cache for kinds
func NewReportService(cache *internalDataset.Cache, kinds []report.TestKind, logger *internal.Logger) *ReportService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &ReportService{cache: cache, kinds: kinds, logger: logger}
}

// OnRefresh registers fn to run after every successful refresh. Listeners
// must be registered before the service is shared.
func (s *ReportService) OnRefresh(fn func(dataset.LoadInfo)) {
	s.listeners = append(s.listeners, fn)
}

// Kinds returns the configured test kinds in display order
func (s *ReportService) Kinds() []report.TestKind {
	return s.kinds
}

// Report builds the report for sel, loading the datasets on first use
func (s *ReportService) Report(ctx context.Context, sel report.Selection) (*report.Report, error) {
	pair, err := s.cache.Get(ctx)
	if err != nil {
		return nil, err
	}
	r := report.Build(pair, s.kinds, sel)
	s.logger.Debug("[ReportService] report built: %d/%d planned rows, %d/%d executed rows",
		r.PlannedRows, r.TotalPlannedRows, r.ExecutedRows, r.TotalExecutedRows)
	return r, nil
}

// Options returns the filter candidates of the loaded planned table
func (s *ReportService) Options(ctx context.Context) (report.Options, error) {
	pair, err := s.cache.Get(ctx)
	if err != nil {
		return nil, err
	}
	return report.FilterOptions(pair.Planned), nil
}

// Refresh drops the cached pair and reloads it immediately
func (s *ReportService) Refresh(ctx context.Context) (dataset.LoadInfo, error) {
	s.logger.Info("[ReportService] refresh requested")
	pair, err := s.cache.Refresh(ctx)
	if err != nil {
		return dataset.LoadInfo{}, fmt.Errorf("refresh failed: %w", err)
	}
	info := pair.Info()
	for _, fn := range s.listeners {
		fn(info)
	}
	return info, nil
}

// Status reports whether data is loaded without triggering a load
func (s *ReportService) Status() Status {
	status := Status{Kinds: s.kinds, Loads: s.cache.LoadCount()}
	if info, ok := s.cache.Loaded(); ok {
		status.Loaded = true
		status.Load = &info
	}
	return status
}
