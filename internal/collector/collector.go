package collector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"FinanceHarvester/internal/filter"
	"FinanceHarvester/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// A nil entry means the fetch fails.
type MockFetcher struct {
	mu         sync.Mutex
	Statements map[string]map[model.TableKind]*model.Statement
	Prices     map[string]*model.PriceHistory
	Calls      []string
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchStatement(_ context.Context, symbol string, kind model.TableKind) (*model.Statement, error) {
	m.record(symbol + "/" + string(kind))
	if s := m.Statements[symbol][kind]; s != nil {
		return s, nil
	}
	return nil, fmt.Errorf("mock: no %s for %s", kind, symbol)
}

func (m *MockFetcher) FetchPriceHistory(_ context.Context, symbol string) (*model.PriceHistory, error) {
	m.record(symbol + "/" + string(model.HistoricalData))
	if p := m.Prices[symbol]; p != nil {
		return p, nil
	}
	return nil, fmt.Errorf("mock: no prices for %s", symbol)
}

func (m *MockFetcher) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, call)
}

// MockStatement builds a statement with one row per (asOfDate, periodType) pair.
func MockStatement(symbol string, kind model.TableKind, rows ...[2]string) *model.Statement {
	s := model.NewStatement(symbol, kind)
	for i, r := range rows {
		s.Rows = append(s.Rows, model.StatementRow{
			AsOfDate:     r[0],
			PeriodType:   r[1],
			CurrencyCode: "USD",
			Values:       map[string]float64{"Value": float64(i + 1)},
		})
	}
	return s
}

// MockPrices builds a price history with one bar per date.
func MockPrices(symbol string, dates ...string) *model.PriceHistory {
	p := &model.PriceHistory{Symbol: symbol}
	for i, d := range dates {
		t, err := time.Parse(model.DateLayout, d)
		if err != nil {
			continue
		}
		c := 100 * (1 + float64(i)*0.01)
		p.Bars = append(p.Bars, model.OHLCV{
			Time:     t,
			Open:     c * 0.999,
			High:     c * 1.005,
			Low:      c * 0.995,
			Close:    c,
			AdjClose: c,
			Volume:   1000000,
		})
	}
	return p
}

// Collector composes the statement and price fetches for one symbol.
type Collector struct {
	Statements StatementFetcher
	Prices     PriceFetcher
	Logger     *zap.Logger
}

// NewCollector creates a new Collector.
func NewCollector(statements StatementFetcher, prices PriceFetcher, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{Statements: statements, Prices: prices, Logger: logger}
}

// Collect fetches and filters every table of symbol over rng.
// Fetch failures and empty results become missing tables; Collect never fails.
func (c *Collector) Collect(ctx context.Context, symbol string, rng model.DateRange) *model.CompanyRecord {
	log := c.Logger.With(zap.String("symbol", symbol))
	rec := &model.CompanyRecord{Symbol: symbol, Valid: true, Range: rng}

	startYear, endYear, yearErr := rng.Years()
	if yearErr != nil {
		log.Error("invalid date range, record marked invalid", zap.Stringer("range", rng), zap.Error(yearErr))
		rec.Valid = false
	}

	log.Info("fetching all data")
	for _, kind := range model.StatementKinds {
		fetched := c.fetchStatement(ctx, log, symbol, kind)
		if yearErr != nil {
			if fetched.IsPresent() {
				fetched = model.Missing[*model.Statement](model.ErrInvalidRange)
			}
			rec.SetStatement(kind, fetched)
			continue
		}
		filtered := filter.StatementResult(fetched, startYear, endYear)
		if fetched.IsPresent() && !filtered.IsPresent() {
			log.Warn("no rows in range",
				zap.String("kind", string(kind)),
				zap.String("start_year", startYear),
				zap.String("end_year", endYear))
		}
		rec.SetStatement(kind, filtered)
	}

	prices := c.fetchPrices(ctx, log, symbol)
	if err := rng.Validate(); err != nil {
		if yearErr == nil {
			log.Warn("invalid date range for price filter, record marked invalid", zap.Stringer("range", rng), zap.Error(err))
			rec.Valid = false
		}
		if prices.IsPresent() {
			prices = model.Missing[*model.PriceHistory](model.ErrInvalidRange)
		}
		rec.HistoricalData = prices
	} else {
		filtered := filter.PriceResult(prices, rng.Start, rng.End)
		if prices.IsPresent() && !filtered.IsPresent() {
			log.Warn("no rows in range", zap.String("kind", string(model.HistoricalData)), zap.Stringer("range", rng))
		}
		rec.HistoricalData = filtered
	}

	if rec.Present() {
		log.Info("data available",
			zap.Bool("income_statement", rec.IncomeStatement.IsPresent()),
			zap.Bool("balance_sheet", rec.BalanceSheet.IsPresent()),
			zap.Bool("cash_flow", rec.CashFlow.IsPresent()),
			zap.Bool("historical_data", rec.HistoricalData.IsPresent()))
	} else {
		log.Warn("no data available")
	}
	return rec
}

func (c *Collector) fetchStatement(ctx context.Context, log *zap.Logger, symbol string, kind model.TableKind) model.Maybe[*model.Statement] {
	log.Debug("fetching statement", zap.String("kind", string(kind)))
	s, err := c.Statements.FetchStatement(ctx, symbol, kind)
	if err != nil {
		log.Error("fetch statement failed", zap.String("kind", string(kind)), zap.Error(err))
		return model.Missing[*model.Statement](fmt.Errorf("%w: %s: %v", model.ErrFetchFailed, kind, err))
	}
	if s == nil || s.Len() == 0 {
		return model.Missing[*model.Statement](model.ErrNoRows)
	}
	return model.Present(s)
}

func (c *Collector) fetchPrices(ctx context.Context, log *zap.Logger, symbol string) model.Maybe[*model.PriceHistory] {
	log.Debug("fetching price history")
	p, err := c.Prices.FetchPriceHistory(ctx, symbol)
	if err != nil {
		log.Error("fetch price history failed", zap.Error(err))
		return model.Missing[*model.PriceHistory](fmt.Errorf("%w: %s: %v", model.ErrFetchFailed, model.HistoricalData, err))
	}
	if p == nil || p.Len() == 0 {
		return model.Missing[*model.PriceHistory](model.ErrNoRows)
	}
	return model.Present(p)
}
