package filter

import (
	"FinanceHarvester/internal/model"
)

// Statement keeps the quarterly rows of s whose as-of date falls within
// [startYear-01-01, endYear-12-31]. The input is not modified.
func Statement(s *model.Statement, startYear, endYear string) model.Maybe[*model.Statement] {
	if s == nil {
		return model.Missing[*model.Statement](model.ErrNoRows)
	}
	lo := startYear + "-01-01"
	hi := endYear + "-12-31"

	out := model.NewStatement(s.Symbol, s.Kind())
	for _, r := range s.Rows {
		if r.AsOfDate < lo || r.AsOfDate > hi {
			continue
		}
		if r.PeriodType != model.PeriodQuarterly {
			continue
		}
		out.Rows = append(out.Rows, r)
	}
	if len(out.Rows) == 0 {
		return model.Missing[*model.Statement](model.ErrNoRows)
	}
	return model.Present(out)
}

// StatementResult applies Statement to a present value and passes a missing one through.
func StatementResult(m model.Maybe[*model.Statement], startYear, endYear string) model.Maybe[*model.Statement] {
	s, ok := m.Get()
	if !ok {
		return m
	}
	return Statement(s, startYear, endYear)
}

// Prices keeps the bars of p whose trading date d satisfies start <= d <= end.
// Bounds are YYYY-MM-DD and compared at day precision.
func Prices(p *model.PriceHistory, start, end string) model.Maybe[*model.PriceHistory] {
	if p == nil {
		return model.Missing[*model.PriceHistory](model.ErrNoRows)
	}
	out := &model.PriceHistory{Symbol: p.Symbol}
	for _, b := range p.Bars {
		d := b.Date()
		if d < start || d > end {
			continue
		}
		out.Bars = append(out.Bars, b)
	}
	if len(out.Bars) == 0 {
		return model.Missing[*model.PriceHistory](model.ErrNoRows)
	}
	return model.Present(out)
}

// PriceResult applies Prices to a present value and passes a missing one through.
func PriceResult(m model.Maybe[*model.PriceHistory], start, end string) model.Maybe[*model.PriceHistory] {
	p, ok := m.Get()
	if !ok {
		return m
	}
	return Prices(p, start, end)
}
