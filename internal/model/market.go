package model

import "time"

// OHLCV represents a single daily bar as reported, without adjustment.
type OHLCV struct {
	Time      time.Time // session start in the exchange time zone
	Open      float64
	High      float64
	Low       float64
	Close     float64
	AdjClose  float64
	Volume    int64
	Dividends float64 // cash dividend paid on this day, 0 if none
	Splits    float64 // split ratio effective this day (2 for 2:1), 0 if none
}

// Date returns the trading date of the bar as YYYY-MM-DD.
func (b OHLCV) Date() string {
	return b.Time.Format(DateLayout)
}

// Adjusted returns the bar with Open, High, Low and Close scaled by
// AdjClose/Close so that Close equals AdjClose. A bar without both
// prices is returned unchanged.
func (b OHLCV) Adjusted() OHLCV {
	if b.Close == 0 || b.AdjClose == 0 {
		return b
	}
	f := b.AdjClose / b.Close
	b.Open *= f
	b.High *= f
	b.Low *= f
	b.Close = b.AdjClose
	return b
}

// PriceHistory is the daily price series of one symbol, oldest bar first.
type PriceHistory struct {
	Symbol string
	Bars   []OHLCV
}

func (p *PriceHistory) Kind() TableKind { return HistoricalData }

func (p *PriceHistory) Len() int { return len(p.Bars) }

// Columns lists the persisted columns. Date is the bar index written as a column.
// Prices are split and dividend adjusted, so there is no separate Adj Close.
func (p *PriceHistory) Columns() []Column {
	return []Column{
		{Name: "Date", Type: ColumnText},
		{Name: "Open", Type: ColumnReal},
		{Name: "High", Type: ColumnReal},
		{Name: "Low", Type: ColumnReal},
		{Name: "Close", Type: ColumnReal},
		{Name: "Volume", Type: ColumnInteger},
		{Name: "Dividends", Type: ColumnReal},
		{Name: "Stock Splits", Type: ColumnReal},
	}
}

func (p *PriceHistory) Records() [][]any {
	out := make([][]any, len(p.Bars))
	for i, raw := range p.Bars {
		b := raw.Adjusted()
		out[i] = []any{
			b.Time.Format(TimestampLayout),
			b.Open, b.High, b.Low, b.Close,
			b.Volume,
			b.Dividends, b.Splits,
		}
	}
	return out
}
