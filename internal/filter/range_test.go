package filter

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"FinanceHarvester/internal/model"
)

func statement(rows ...model.StatementRow) *model.Statement {
	s := model.NewStatement("AAA", model.IncomeStatement)
	s.Rows = rows
	return s
}

func row(asOf, period string) model.StatementRow {
	return model.StatementRow{
		AsOfDate:     asOf,
		PeriodType:   period,
		CurrencyCode: "USD",
		Values:       map[string]float64{"TotalRevenue": 100},
	}
}

func bars(dates ...string) *model.PriceHistory {
	p := &model.PriceHistory{Symbol: "AAA"}
	for i, d := range dates {
		t, err := time.Parse(model.DateLayout, d)
		if err != nil {
			panic(err)
		}
		p.Bars = append(p.Bars, model.OHLCV{Time: t, Close: float64(i + 1)})
	}
	return p
}

func dates(p *model.PriceHistory) []string {
	var out []string
	for _, b := range p.Bars {
		out = append(out, b.Date())
	}
	return out
}

func TestStatement_YearBounds(t *testing.T) {
	s := statement(
		row("2020-12-31", "3M"),
		row("2021-06-30", "3M"),
		row("2022-01-01", "3M"),
	)
	got, ok := Statement(s, "2021", "2021").Get()
	if !ok {
		t.Fatal("expected present statement")
	}
	if len(got.Rows) != 1 || got.Rows[0].AsOfDate != "2021-06-30" {
		t.Errorf("unexpected rows: %+v", got.Rows)
	}
}

func TestStatement_YearBoundsInclusive(t *testing.T) {
	s := statement(
		row("2021-01-01", "3M"),
		row("2021-12-31", "3M"),
	)
	got, ok := Statement(s, "2021", "2021").Get()
	if !ok || len(got.Rows) != 2 {
		t.Fatalf("expected both boundary rows, got %v", got)
	}
}

func TestStatement_OnlyQuarterly(t *testing.T) {
	s := statement(
		row("2021-03-31", "3M"),
		row("2021-06-30", "6M"),
		row("2021-12-31", "12M"),
		row("2021-09-30", "3M"),
	)
	got, ok := Statement(s, "2000", "2100").Get()
	if !ok {
		t.Fatal("expected present statement")
	}
	for _, r := range got.Rows {
		if r.PeriodType != "3M" {
			t.Errorf("non-quarterly row kept: %+v", r)
		}
	}
	if len(got.Rows) != 2 {
		t.Errorf("expected 2 rows, got %d", len(got.Rows))
	}
}

func TestStatement_EmptyIsMissing(t *testing.T) {
	s := statement(row("2019-03-31", "3M"), row("2021-12-31", "12M"))
	m := Statement(s, "2021", "2021")
	if m.IsPresent() {
		t.Fatal("expected missing")
	}
	if !errors.Is(m.Reason(), model.ErrNoRows) {
		t.Errorf("expected ErrNoRows, got %v", m.Reason())
	}
}

func TestStatement_Idempotent(t *testing.T) {
	s := statement(
		row("2019-03-31", "3M"),
		row("2020-03-31", "3M"),
		row("2020-12-31", "12M"),
		row("2021-06-30", "3M"),
		row("2023-03-31", "3M"),
	)
	once, ok := Statement(s, "2020", "2021").Get()
	if !ok {
		t.Fatal("expected present statement")
	}
	twice, ok := Statement(once, "2020", "2021").Get()
	if !ok {
		t.Fatal("expected present statement after second pass")
	}
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("filter is not idempotent:\n%+v\n%+v", once, twice)
	}
}

func TestStatement_DoesNotMutateInput(t *testing.T) {
	s := statement(row("2019-03-31", "3M"), row("2021-03-31", "3M"))
	Statement(s, "2021", "2021")
	if len(s.Rows) != 2 {
		t.Errorf("input modified: %d rows", len(s.Rows))
	}
}

func TestStatementResult_PassesMissingThrough(t *testing.T) {
	in := model.Missing[*model.Statement](model.ErrFetchFailed)
	out := StatementResult(in, "2020", "2021")
	if !errors.Is(out.Reason(), model.ErrFetchFailed) {
		t.Errorf("expected ErrFetchFailed, got %v", out.Reason())
	}
}

func TestPrices_BoundariesIncluded(t *testing.T) {
	p := bars("2020-12-31", "2021-01-01", "2021-06-15", "2021-12-31", "2022-01-03")
	got, ok := Prices(p, "2021-01-01", "2021-12-31").Get()
	if !ok {
		t.Fatal("expected present price history")
	}
	want := []string{"2021-01-01", "2021-06-15", "2021-12-31"}
	if !reflect.DeepEqual(dates(got), want) {
		t.Errorf("got %v, want %v", dates(got), want)
	}
}

func TestPrices_DayPrecision(t *testing.T) {
	p := bars("2021-03-01", "2021-03-02", "2021-03-03")
	got, ok := Prices(p, "2021-03-02", "2021-03-02").Get()
	if !ok || len(got.Bars) != 1 || got.Bars[0].Date() != "2021-03-02" {
		t.Errorf("expected single bar on 2021-03-02, got %v", got)
	}
}

func TestPrices_EmptyIsMissing(t *testing.T) {
	p := bars("2019-01-02")
	m := Prices(p, "2021-01-01", "2021-12-31")
	if m.IsPresent() || !errors.Is(m.Reason(), model.ErrNoRows) {
		t.Errorf("expected missing with ErrNoRows, got %v", m.Reason())
	}
}

func TestPrices_ExchangeLocalDate(t *testing.T) {
	// 2021-01-04 00:00 in Istanbul is still 2021-01-03 in UTC.
	ist := time.FixedZone("TRT", 3*3600)
	p := &model.PriceHistory{Bars: []model.OHLCV{{Time: time.Date(2021, 1, 4, 0, 0, 0, 0, ist)}}}
	if !Prices(p, "2021-01-04", "2021-01-04").IsPresent() {
		t.Error("expected bar to be dated in its own time zone")
	}
}
