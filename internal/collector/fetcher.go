package collector

import (
	"context"

	"FinanceHarvester/internal/model"
)

// StatementFetcher retrieves one quarterly financial statement.
type StatementFetcher interface {
	FetchStatement(ctx context.Context, symbol string, kind model.TableKind) (*model.Statement, error)
}

// PriceFetcher retrieves the full daily price history.
type PriceFetcher interface {
	FetchPriceHistory(ctx context.Context, symbol string) (*model.PriceHistory, error)
}

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	StatementFetcher
	PriceFetcher
	Name() string
}
