package ports

import (
	"context"

	"ndtdash/domain/dataset"
)

// DatasetSource loads the planned and executed tables with normalized
// column names. Implementations must fail rather than return empty tables
// when a source is missing or malformed.
type DatasetSource interface {
	Load(ctx context.Context) (*dataset.Pair, error)
}
