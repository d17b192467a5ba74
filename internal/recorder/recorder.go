package recorder

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"FinanceHarvester/internal/model"
)

// ErrNoConnection is returned by recorders without an open store.
var ErrNoConnection = errors.New("no database connection")

// Recorder persists company records, one table per present kind.
type Recorder interface {
	// SaveCompany replaces the tables of rec's present kinds and commits once.
	SaveCompany(ctx context.Context, rec *model.CompanyRecord) error
	// WriteTable replaces a single named table.
	WriteTable(ctx context.Context, name string, t model.Table) error
	Close() error
}

// Save persists rec and reports success. Errors are logged, never returned.
func Save(ctx context.Context, r Recorder, rec *model.CompanyRecord, logger *zap.Logger) bool {
	if logger == nil {
		logger = zap.NewNop()
	}
	log := logger.With(zap.String("symbol", rec.Symbol))
	if err := r.SaveCompany(ctx, rec); err != nil {
		if errors.Is(err, ErrNoConnection) {
			log.Warn("no database connection, skipping save")
		} else {
			log.Error("error saving data to database", zap.Error(err))
		}
		return false
	}
	return true
}
