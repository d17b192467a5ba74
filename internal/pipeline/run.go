package pipeline

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"FinanceHarvester/internal/collector"
	"FinanceHarvester/internal/config"
	"FinanceHarvester/internal/export"
	"FinanceHarvester/internal/model"
	"FinanceHarvester/internal/recorder"
	"FinanceHarvester/internal/symbols"
)

// Request carries the per-run options that override the configuration.
type Request struct {
	Symbols []string // overrides the symbols file when non-empty
	Start   string
	End     string
	Exclude []string // added to the configured exclusions
}

// DateRange resolves the run's date range. End defaults to today.
func (r Request) DateRange(cfg *config.Config, now time.Time) model.DateRange {
	rng := model.DateRange{Start: cfg.Pipeline.Start, End: cfg.Pipeline.End}
	if r.Start != "" {
		rng.Start = r.Start
	}
	if r.End != "" {
		rng.End = r.End
	}
	if rng.End == "" {
		rng.End = now.Format(model.DateLayout)
	}
	return rng
}

// OpenRecorder connects to the configured store. A failure degrades to
// a NoopRecorder so the run still fetches every symbol.
func OpenRecorder(cfg *config.Config, logger *zap.Logger) recorder.Recorder {
	var (
		rec *recorder.SQLRecorder
		err error
	)
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		rec, err = recorder.NewPostgresRecorder(cfg.Database.PostgresDSN, logger)
	default:
		rec, err = recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, logger)
	}
	if err != nil {
		logger.Error("error connecting to database, continuing without persistence", zap.Error(err))
		return recorder.NewNoopRecorder()
	}
	return rec
}

// NewCollector builds the collector for the configured providers.
func NewCollector(cfg *config.Config, logger *zap.Logger) *collector.Collector {
	yahoo := collector.NewYahooFetcher(cfg.Proxy)
	if cfg.DataSource.ChartURL != "" {
		yahoo.ChartURL = cfg.DataSource.ChartURL
	}
	if cfg.DataSource.TimeseriesURL != "" {
		yahoo.TimeseriesURL = cfg.DataSource.TimeseriesURL
	}

	var prices collector.PriceFetcher = yahoo
	if cfg.DataSource.PriceProvider == config.ProviderFinanceGo {
		prices = collector.NewFinanceGoFetcher()
	}
	logger.Info("data sources configured",
		zap.String("statements", yahoo.Name()),
		zap.String("prices", cfg.DataSource.PriceProvider))
	return collector.NewCollector(yahoo, prices, logger)
}

// RunOnce performs a full run: connect, load symbols, process every
// symbol, export closing prices, close.
func RunOnce(ctx context.Context, cfg *config.Config, req Request, logger *zap.Logger) *Summary {
	rec := OpenRecorder(cfg, logger)
	defer func() {
		if err := rec.Close(); err != nil {
			logger.Error("close database", zap.Error(err))
		}
	}()

	col := NewCollector(cfg, logger)
	syms := LoadSymbols(cfg, req, logger)
	exclude := append(append([]string{}, cfg.Pipeline.Exclude...), req.Exclude...)

	d := NewDriver(col, req.DateRange(cfg, time.Now()), exclude, cfg.Pipeline.Delay, logger)
	sum := d.Run(ctx, rec, syms)

	ExportClosingPrices(ctx, cfg, rec, syms, d.Records(), logger)
	return sum
}

// LoadSymbols resolves the symbol list for req.
func LoadSymbols(cfg *config.Config, req Request, logger *zap.Logger) []string {
	var columns []string
	if cfg.Pipeline.SymbolColumn != "" {
		columns = []string{cfg.Pipeline.SymbolColumn}
	}
	return symbols.Load(req.Symbols, cfg.Pipeline.SymbolsFile, logger, columns...)
}

// ExportClosingPrices writes the closing-price matrix of records to the
// configured CSV file and table. Failures are logged. The export runs
// to completion even when ctx is already cancelled.
func ExportClosingPrices(ctx context.Context, cfg *config.Config, rec recorder.Recorder, syms []string, records map[string]*model.CompanyRecord, logger *zap.Logger) {
	ctx = context.WithoutCancel(ctx)
	if cfg.Export.ClosingPricesCSV == "" && cfg.Export.ClosingPricesTable == "" {
		return
	}
	cp := export.BuildClosingPrices(syms, records)
	if cp.Empty() {
		logger.Info("no closing price data available")
		return
	}

	if path := cfg.Export.ClosingPricesCSV; path != "" {
		switch err := cp.WriteCSV(path); {
		case err == nil:
			logger.Info("closing prices saved", zap.String("path", path),
				zap.Int("dates", len(cp.Dates)), zap.Int("symbols", len(cp.Symbols)))
		case errors.Is(err, export.ErrExists):
			logger.Info("closing prices file already exists, skipping save", zap.String("path", path))
		default:
			logger.Error("write closing prices", zap.String("path", path), zap.Error(err))
		}
	}

	if table := cfg.Export.ClosingPricesTable; table != "" && recorder.Connected(rec) {
		if err := rec.WriteTable(ctx, table, cp); err != nil {
			logger.Error("save closing prices table", zap.String("table", table), zap.Error(err))
			return
		}
		logger.Info("closing prices table saved", zap.String("table", table))
	}
}
