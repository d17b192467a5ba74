package model

import (
	"errors"
	"testing"
	"time"
)

func TestDateRange_Years(t *testing.T) {
	tests := []struct {
		start, end string
		wantStart  string
		wantEnd    string
		wantErr    bool
	}{
		{"2020-01-01", "2024-07-20", "2020", "2024", false},
		{"2021", "2021", "2021", "2021", false},
		{"20-01-01", "2024-01-01", "", "", true},
		{"2020-01-01", "", "", "", true},
		{"abcd-01-01", "2024-01-01", "", "", true},
	}
	for _, tt := range tests {
		s, e, err := DateRange{Start: tt.start, End: tt.end}.Years()
		if (err != nil) != tt.wantErr {
			t.Errorf("Years(%q, %q) error = %v, wantErr %v", tt.start, tt.end, err, tt.wantErr)
			continue
		}
		if err != nil {
			if !errors.Is(err, ErrInvalidRange) {
				t.Errorf("expected ErrInvalidRange, got %v", err)
			}
			continue
		}
		if s != tt.wantStart || e != tt.wantEnd {
			t.Errorf("Years(%q, %q) = %s, %s", tt.start, tt.end, s, e)
		}
	}
}

func TestDateRange_Validate(t *testing.T) {
	if err := (DateRange{Start: "2020-01-01", End: "2020-12-31"}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := (DateRange{Start: "2020-01-01", End: "2020-13-01"}).Validate(); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange, got %v", err)
	}
}

func TestCompanyRecord_AbsentWhenAllMissing(t *testing.T) {
	rec := &CompanyRecord{Symbol: "BBB"}
	if rec.Present() {
		t.Error("zero record should be absent")
	}
	if rec.AllData().IsPresent() {
		t.Error("AllData should be missing for an absent record")
	}
	if len(rec.Tables()) != 0 {
		t.Error("absent record has no tables")
	}
}

func TestCompanyRecord_AllData(t *testing.T) {
	p := &PriceHistory{Symbol: "AAA", Bars: []OHLCV{{Time: time.Now(), Close: 1}}}
	rec := &CompanyRecord{
		Symbol:          "AAA",
		IncomeStatement: Missing[*Statement](ErrFetchFailed),
		HistoricalData:  Present(p),
	}
	all, ok := rec.AllData().Get()
	if !ok {
		t.Fatal("expected present data")
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 kinds, got %d", len(all))
	}
	if !all[HistoricalData].IsPresent() {
		t.Error("historical data should be present")
	}
	if !errors.Is(all[IncomeStatement].Reason(), ErrFetchFailed) {
		t.Errorf("income statement reason = %v", all[IncomeStatement].Reason())
	}
	if !errors.Is(all[CashFlow].Reason(), ErrNotFetched) {
		t.Errorf("cash flow reason = %v", all[CashFlow].Reason())
	}
	tables := rec.Tables()
	if len(tables) != 1 || tables[0].Kind() != HistoricalData {
		t.Errorf("unexpected tables: %v", tables)
	}
}

func TestStatement_ColumnsAndRecords(t *testing.T) {
	s := NewStatement("AAA", CashFlow)
	s.Rows = []StatementRow{
		{AsOfDate: "2021-03-31", PeriodType: "3M", CurrencyCode: "USD", Values: map[string]float64{"FreeCashFlow": 5, "CapitalExpenditure": -2}},
		{AsOfDate: "2021-06-30", PeriodType: "3M", CurrencyCode: "USD", Values: map[string]float64{"FreeCashFlow": 6}},
	}
	cols := s.Columns()
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	want := []string{"asOfDate", "periodType", "currencyCode", "CapitalExpenditure", "FreeCashFlow"}
	if len(names) != len(want) {
		t.Fatalf("columns = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("column %d = %s, want %s", i, names[i], want[i])
		}
	}
	recs := s.Records()
	if recs[1][3] != nil {
		t.Errorf("missing value should be nil, got %v", recs[1][3])
	}
	if recs[0][4] != 5.0 {
		t.Errorf("FreeCashFlow = %v", recs[0][4])
	}
}

func TestTableName(t *testing.T) {
	if got := TableName("AKBNK.IS", IncomeStatement); got != "AKBNK.IS_income_statement" {
		t.Errorf("TableName = %s", got)
	}
}

func TestOHLCV_Adjusted(t *testing.T) {
	b := OHLCV{Open: 10, High: 12, Low: 8, Close: 10, AdjClose: 5, Volume: 100}
	a := b.Adjusted()
	if a.Open != 5 || a.High != 6 || a.Low != 4 || a.Close != 5 {
		t.Errorf("adjusted = %+v", a)
	}
	if a.Volume != 100 {
		t.Errorf("volume changed: %d", a.Volume)
	}
	if b.Close != 10 {
		t.Error("Adjusted mutated the receiver")
	}

	raw := OHLCV{Open: 10, Close: 10}
	if got := raw.Adjusted(); got != raw {
		t.Errorf("bar without adj close changed: %+v", got)
	}
}
