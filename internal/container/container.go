package container

import (
	"fmt"

	"ndtdash/adapters/excel"
	"ndtdash/app"
	"ndtdash/internal"
	"ndtdash/internal/api"
	"ndtdash/internal/config"
	internalDataset "ndtdash/internal/dataset"
	"ndtdash/internal/errors"
	"ndtdash/internal/report"
	"ndtdash/ports"
)

// Container holds the application dependencies shared by every binary
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	Kinds   []report.TestKind
	Source  ports.DatasetSource
	Cache   *internalDataset.Cache
	Service *app.ReportService

	// Hub is created lazily by EventHub; CLI runs never need it
	Hub *api.EventHub
}

// New wires the spreadsheet source, cache and report service from cfg. No
// data is read until the first report is requested.
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	logger := internal.NewLoggerWithOptions(internal.LogOptions{
		Level:  internal.ParseLogLevel(cfg.Logging.Level),
		File:   cfg.Logging.File,
		Format: cfg.Logging.Format,
	})

	kinds, err := report.LoadKinds(cfg.Data.KindsFile)
	if err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}

	excelConfig := excel.DefaultExcelConfig()
	excelConfig.Planned = excel.SourceFile{Path: cfg.Data.PlannedFile, Sheet: cfg.Data.PlannedSheet}
	excelConfig.Executed = excel.SourceFile{Path: cfg.Data.ExecutedFile, Sheet: cfg.Data.ExecutedSheet}

	source := excel.NewSource(excelConfig, logger)
	schema := report.RequiredSchema(kinds)
	cache := internalDataset.NewCache(source, &schema, logger)

	logger.Debug("[Container] %d test kinds, planned=%s executed=%s",
		len(kinds), cfg.Data.PlannedFile, cfg.Data.ExecutedFile)

	return &Container{
		Config:  cfg,
		Logger:  logger,
		Kinds:   kinds,
		Source:  source,
		Cache:   cache,
		Service: app.NewReportService(cache, kinds, logger),
	}, nil
}

// EventHub returns the load event hub, creating it on first use and
// subscribing it to refreshes
func (c *Container) EventHub() *api.EventHub {
	if c.Hub == nil {
		c.Hub = api.NewEventHub(c.Logger)
		c.Service.OnRefresh(c.Hub.NotifyLoad)
	}
	return c.Hub
}

// APIHandler returns the JSON API handler
func (c *Container) APIHandler() *api.Handler {
	return api.NewHandler(c.Service, c.Logger)
}
