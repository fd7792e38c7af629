package excel

import (
	"context"

	"ndtdash/adapters/datareadiness/coercer"
	"ndtdash/domain/core"
	"ndtdash/domain/dataset"
	"ndtdash/internal"
	internalDataset "ndtdash/internal/dataset"
	"ndtdash/internal/errors"

	"golang.org/x/sync/errgroup"
)

// Source loads the planned and executed spreadsheets as one normalized pair
type Source struct {
	config  ExcelConfig
	coercer *coercer.TypeCoercer
	logger  *internal.Logger
}

// NewSource creates a spreadsheet-backed dataset source
func NewSource(config ExcelConfig, logger *internal.Logger) *Source {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Source{
		config:  config,
		coercer: coercer.NewTypeCoercer(config.CoercionConfig),
		logger:  logger,
	}
}

// Load reads both files concurrently and normalizes their column names
func (s *Source) Load(ctx context.Context) (*dataset.Pair, error) {
	var planned, executed *dataset.Table
	var plannedInfo, executedInfo dataset.SourceInfo

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		planned, plannedInfo, err = s.readSource(ctx, dataset.SourcePlanned, s.config.Planned)
		return err
	})
	g.Go(func() error {
		var err error
		executed, executedInfo, err = s.readSource(ctx, dataset.SourceExecuted, s.config.Executed)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	pair := &dataset.Pair{
		LoadID:   core.NewID(),
		LoadedAt: core.Now(),
		Planned:  planned,
		Executed: executed,
		Sources:  []dataset.SourceInfo{plannedInfo, executedInfo},
	}
	s.logger.Info("[Source] load %s: planned %d rows from %s, executed %d rows from %s",
		pair.LoadID.Short(), planned.Len(), plannedInfo.Path, executed.Len(), executedInfo.Path)
	return pair, nil
}

func (s *Source) readSource(ctx context.Context, name string, file SourceFile) (*dataset.Table, dataset.SourceInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, dataset.SourceInfo{}, errors.LoadFailed(name, err)
	}

	reader := NewDataReader(file.Path, file.Sheet, s.coercer)
	reader.logger = s.logger
	data, err := reader.ReadData()
	if err != nil {
		return nil, dataset.SourceInfo{}, errors.LoadFailed(name, err)
	}

	table := internalDataset.NormalizeTable(reader.ToTable(name, data))
	info := dataset.SourceInfo{
		Name:        name,
		Path:        file.Path,
		Sheet:       data.Sheet,
		Rows:        table.Len(),
		Columns:     len(table.Columns),
		Fingerprint: reader.Fingerprint(),
	}
	return table, info, nil
}
