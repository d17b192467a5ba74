package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"FinanceHarvester/internal/collector"
	"FinanceHarvester/internal/model"
	"FinanceHarvester/internal/recorder"
)

// Driver runs the collect-and-persist loop over a symbol list.
type Driver struct {
	Collector *collector.Collector
	Range     model.DateRange
	// Exclude lists symbols that are skipped without fetching.
	Exclude map[string]struct{}
	// Delay is waited after every symbol.
	Delay  time.Duration
	Logger *zap.Logger

	records map[string]*model.CompanyRecord
}

// NewDriver creates a driver for rng. exclude may be nil.
func NewDriver(col *collector.Collector, rng model.DateRange, exclude []string, delay time.Duration, logger *zap.Logger) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}
	ex := make(map[string]struct{}, len(exclude))
	for _, s := range exclude {
		ex[s] = struct{}{}
	}
	return &Driver{
		Collector: col,
		Range:     rng,
		Exclude:   ex,
		Delay:     delay,
		Logger:    logger,
	}
}

// Records returns the records collected by the last Run, keyed by symbol.
func (d *Driver) Records() map[string]*model.CompanyRecord {
	return d.records
}

// Run processes symbols in order and persists every present record
// through rec. Per-symbol failures never stop the loop. Cancelling ctx
// stops the run after the current symbol.
func (d *Driver) Run(ctx context.Context, rec recorder.Recorder, symbols []string) *Summary {
	runID := uuid.NewString()
	log := d.Logger.With(zap.String("run_id", runID))
	sum := newSummary(runID, d.Range, len(symbols))
	d.records = make(map[string]*model.CompanyRecord, len(symbols))

	log.Info("starting run", zap.Int("symbols", len(symbols)), zap.Stringer("range", d.Range))
	for i, sym := range symbols {
		if ctx.Err() != nil {
			sum.Cancelled = true
			log.Warn("run cancelled", zap.Int("remaining", len(symbols)-i))
			break
		}
		d.process(ctx, log, rec, sym, i+1, len(symbols), sum)
		d.wait(ctx)
	}

	sum.Duration = time.Since(sum.Started)
	log.Info("run finished",
		zap.Int("present", sum.Present),
		zap.Int("absent", sum.Absent),
		zap.Int("excluded", sum.Excluded),
		zap.Int("saved", sum.Saved),
		zap.Int("save_failed", sum.SaveFailed),
		zap.Int("save_skipped", sum.SaveSkipped),
		zap.Duration("duration", sum.Duration))
	return sum
}

func (d *Driver) process(ctx context.Context, log *zap.Logger, rec recorder.Recorder, sym string, n, total int, sum *Summary) {
	log = log.With(zap.String("symbol", sym))
	if _, skip := d.Exclude[sym]; skip {
		log.Info("skipping excluded symbol")
		sum.Excluded++
		return
	}

	log.Info("processing symbol", zap.Int("n", n), zap.Int("of", total))
	company := d.Collector.Collect(ctx, sym, d.Range)
	d.records[sym] = company
	sum.add(company)

	if !company.AllData().IsPresent() {
		log.Warn("no data available, nothing to save")
		return
	}

	if !recorder.Connected(rec) {
		log.Warn("no database connection, skipping save")
		sum.SaveSkipped++
		return
	}

	log.Info("saving data to database")
	if recorder.Save(ctx, rec, company, log) {
		log.Info("data saved successfully")
		sum.Saved++
	} else {
		log.Error("failed to save data")
		sum.SaveFailed++
	}
}

func (d *Driver) wait(ctx context.Context) {
	if d.Delay <= 0 {
		return
	}
	t := time.NewTimer(d.Delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
