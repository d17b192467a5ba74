package recorder

import (
	"context"

	"FinanceHarvester/internal/model"
)

// NoopRecorder is used when the store could not be opened.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) SaveCompany(_ context.Context, _ *model.CompanyRecord) error {
	return ErrNoConnection
}

func (n *NoopRecorder) WriteTable(_ context.Context, _ string, _ model.Table) error {
	return ErrNoConnection
}

func (n *NoopRecorder) Close() error { return nil }

// Connected reports whether r writes to a real store.
func Connected(r Recorder) bool {
	if r == nil {
		return false
	}
	_, noop := r.(*NoopRecorder)
	return !noop
}
