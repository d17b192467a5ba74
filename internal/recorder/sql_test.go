package recorder

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"FinanceHarvester/internal/model"
)

func openTestRecorder(t *testing.T, path string) *SQLRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(path, nil)
	if err != nil {
		t.Fatalf("open recorder: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func priceHistory(symbol string, dates ...string) *model.PriceHistory {
	p := &model.PriceHistory{Symbol: symbol}
	for i, d := range dates {
		ts, _ := time.Parse(model.DateLayout, d)
		p.Bars = append(p.Bars, model.OHLCV{Time: ts, Open: 1, High: 2, Low: 0.5, Close: float64(i + 1), AdjClose: float64(i + 1), Volume: 100})
	}
	return p
}

func quarterly(symbol string, kind model.TableKind, dates ...string) *model.Statement {
	s := model.NewStatement(symbol, kind)
	for _, d := range dates {
		s.Rows = append(s.Rows, model.StatementRow{AsOfDate: d, PeriodType: "3M", CurrencyCode: "TRY", Values: map[string]float64{"TotalRevenue": 10}})
	}
	return s
}

func countRows(t *testing.T, r *SQLRecorder, table string) int {
	t.Helper()
	var n int
	if err := r.DB().QueryRow(`SELECT COUNT(*) FROM ` + quoteIdent(table)).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func TestSaveCompany_OnlyHistoricalData(t *testing.T) {
	ctx := context.Background()
	r := openTestRecorder(t, filepath.Join(t.TempDir(), "test.db"))

	rec := &model.CompanyRecord{
		Symbol:         "AKBNK.IS",
		HistoricalData: model.Present(priceHistory("AKBNK.IS", "2021-01-04", "2021-01-05")),
	}
	if !Save(ctx, r, rec, nil) {
		t.Fatal("save failed")
	}

	tables, err := r.Tables(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(tables, []string{"AKBNK.IS_historical_data"}) {
		t.Fatalf("tables = %v", tables)
	}

	var date string
	var closePrice float64
	err = r.DB().QueryRow(`SELECT "Date", "Close" FROM "AKBNK.IS_historical_data" ORDER BY "Date" LIMIT 1`).Scan(&date, &closePrice)
	if err != nil {
		t.Fatalf("query date column: %v", err)
	}
	if date != "2021-01-04 00:00:00+00:00" || closePrice != 1 {
		t.Errorf("first row = %s, %v", date, closePrice)
	}
}

func TestSaveCompany_AllKinds(t *testing.T) {
	ctx := context.Background()
	r := openTestRecorder(t, filepath.Join(t.TempDir(), "test.db"))

	rec := &model.CompanyRecord{
		Symbol:          "AAA",
		IncomeStatement: model.Present(quarterly("AAA", model.IncomeStatement, "2021-03-31", "2021-06-30")),
		BalanceSheet:    model.Present(quarterly("AAA", model.BalanceSheet, "2021-03-31")),
		CashFlow:        model.Missing[*model.Statement](model.ErrFetchFailed),
		HistoricalData:  model.Present(priceHistory("AAA", "2021-01-04")),
	}
	if err := r.SaveCompany(ctx, rec); err != nil {
		t.Fatalf("save: %v", err)
	}
	tables, _ := r.Tables(ctx)
	want := []string{"AAA_balance_sheet", "AAA_historical_data", "AAA_income_statement"}
	if !reflect.DeepEqual(tables, want) {
		t.Fatalf("tables = %v, want %v", tables, want)
	}
	if n := countRows(t, r, "AAA_income_statement"); n != 2 {
		t.Errorf("income rows = %d", n)
	}

	// Statement tables carry no index column.
	rows, err := r.DB().Query(`SELECT * FROM "AAA_income_statement" LIMIT 1`)
	if err != nil {
		t.Fatal(err)
	}
	cols, _ := rows.Columns()
	rows.Close()
	if !reflect.DeepEqual(cols, []string{"asOfDate", "periodType", "currencyCode", "TotalRevenue"}) {
		t.Errorf("columns = %v", cols)
	}
}

func TestSaveCompany_ReplacesTables(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")
	r := openTestRecorder(t, path)

	first := &model.CompanyRecord{Symbol: "AAA", HistoricalData: model.Present(priceHistory("AAA", "2021-01-04", "2021-01-05", "2021-01-06"))}
	second := &model.CompanyRecord{Symbol: "AAA", HistoricalData: model.Present(priceHistory("AAA", "2022-01-03"))}
	if err := r.SaveCompany(ctx, first); err != nil {
		t.Fatal(err)
	}
	if err := r.SaveCompany(ctx, second); err != nil {
		t.Fatal(err)
	}
	if n := countRows(t, r, "AAA_historical_data"); n != 1 {
		t.Errorf("expected replace semantics, got %d rows", n)
	}
}

// brokenTable holds a value no driver can bind.
type brokenTable struct{}

func (brokenTable) Kind() model.TableKind   { return model.CashFlow }
func (brokenTable) Len() int                { return 1 }
func (brokenTable) Columns() []model.Column { return []model.Column{{Name: "a", Type: model.ColumnText}} }
func (brokenTable) Records() [][]any        { return [][]any{{make(chan int)}} }

func TestWriteTable_FailureRollsBack(t *testing.T) {
	ctx := context.Background()
	r := openTestRecorder(t, filepath.Join(t.TempDir(), "test.db"))

	good := priceHistory("AAA", "2021-01-04")
	if err := r.WriteTable(ctx, "stock_data", good); err != nil {
		t.Fatal(err)
	}
	if err := r.WriteTable(ctx, "stock_data", brokenTable{}); err == nil {
		t.Fatal("expected insert error")
	}
	if n := countRows(t, r, "stock_data"); n != 1 {
		t.Errorf("failed write was committed: %d rows", n)
	}

	// The connection is still usable.
	rec := &model.CompanyRecord{Symbol: "BBB", HistoricalData: model.Present(priceHistory("BBB", "2021-01-04"))}
	if !Save(ctx, r, rec, nil) {
		t.Error("save after failure should succeed")
	}
}

func TestNoopRecorder(t *testing.T) {
	rec := &model.CompanyRecord{Symbol: "AAA", HistoricalData: model.Present(priceHistory("AAA", "2021-01-04"))}
	n := NewNoopRecorder()
	if err := n.SaveCompany(context.Background(), rec); !errors.Is(err, ErrNoConnection) {
		t.Errorf("err = %v", err)
	}
	if Save(context.Background(), n, rec, nil) {
		t.Error("noop save should report false")
	}
}

func TestQuoteIdent(t *testing.T) {
	if got := quoteIdent(`A"B`); got != `"A""B"` {
		t.Errorf("quoteIdent = %s", got)
	}
}
