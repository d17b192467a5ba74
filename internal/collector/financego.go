package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/shopspring/decimal"

	"FinanceHarvester/internal/model"
)

// FinanceGoFetcher implements PriceFetcher on top of the finance-go chart client.
type FinanceGoFetcher struct {
	// Location dates the bars. Defaults to UTC.
	Location *time.Location
	Now      func() time.Time
}

// NewFinanceGoFetcher creates a price fetcher backed by finance-go.
func NewFinanceGoFetcher() *FinanceGoFetcher {
	return &FinanceGoFetcher{Location: time.UTC, Now: time.Now}
}

func (f *FinanceGoFetcher) Name() string { return "finance-go" }

// FetchPriceHistory requests daily bars from 1970-01-01 to today.
func (f *FinanceGoFetcher) FetchPriceHistory(ctx context.Context, symbol string) (*model.PriceHistory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	loc := f.Location
	if loc == nil {
		loc = time.UTC
	}
	end := f.Now().AddDate(0, 0, 1)
	params := &chart.Params{
		Symbol:   symbol,
		Interval: datetime.OneDay,
		Start:    &datetime.Datetime{Year: 1970, Month: 1, Day: 1},
		End:      &datetime.Datetime{Year: end.Year(), Month: int(end.Month()), Day: end.Day()},
	}

	history := &model.PriceHistory{Symbol: symbol}
	iter := chart.Get(params)
	for iter.Next() {
		bar := iter.Bar()
		c := decimalFloat(bar.Close)
		if c == 0 {
			continue
		}
		t := time.Unix(int64(bar.Timestamp), 0).In(loc)
		history.Bars = append(history.Bars, model.OHLCV{
			Time:     time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc),
			Open:     decimalFloat(bar.Open),
			High:     decimalFloat(bar.High),
			Low:      decimalFloat(bar.Low),
			Close:    c,
			AdjClose: decimalFloat(bar.AdjClose),
			Volume:   int64(bar.Volume),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("finance-go chart: %w", err)
	}
	if len(history.Bars) == 0 {
		return nil, fmt.Errorf("finance-go: no data returned")
	}
	return history, nil
}

func decimalFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
