package model

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04:05-07:00"
)

// DateRange is an inclusive pair of YYYY-MM-DD dates. Start <= End is not checked.
type DateRange struct {
	Start string
	End   string
}

// Years returns the leading year component of each bound.
func (r DateRange) Years() (startYear, endYear string, err error) {
	startYear, err = leadingYear(r.Start)
	if err != nil {
		return "", "", fmt.Errorf("start %q: %w", r.Start, err)
	}
	endYear, err = leadingYear(r.End)
	if err != nil {
		return "", "", fmt.Errorf("end %q: %w", r.End, err)
	}
	return startYear, endYear, nil
}

// Validate checks that both bounds are calendar dates.
func (r DateRange) Validate() error {
	if _, err := time.Parse(DateLayout, r.Start); err != nil {
		return fmt.Errorf("%w: start %q", ErrInvalidRange, r.Start)
	}
	if _, err := time.Parse(DateLayout, r.End); err != nil {
		return fmt.Errorf("%w: end %q", ErrInvalidRange, r.End)
	}
	return nil
}

func (r DateRange) String() string { return r.Start + ".." + r.End }

func leadingYear(date string) (string, error) {
	year, _, _ := strings.Cut(date, "-")
	if len(year) != 4 {
		return "", ErrInvalidRange
	}
	for _, c := range year {
		if c < '0' || c > '9' {
			return "", ErrInvalidRange
		}
	}
	return year, nil
}

// CompanyRecord is everything fetched for one symbol over one date range.
type CompanyRecord struct {
	Symbol string
	// Valid is false when the date range could not be split into years.
	Valid bool
	Range DateRange

	IncomeStatement Maybe[*Statement]
	BalanceSheet    Maybe[*Statement]
	CashFlow        Maybe[*Statement]
	HistoricalData  Maybe[*PriceHistory]
}

// Table returns the table of the given kind.
func (r *CompanyRecord) Table(kind TableKind) Maybe[Table] {
	switch kind {
	case IncomeStatement:
		return asTable(r.IncomeStatement)
	case BalanceSheet:
		return asTable(r.BalanceSheet)
	case CashFlow:
		return asTable(r.CashFlow)
	case HistoricalData:
		return asTable(r.HistoricalData)
	}
	return Missing[Table](fmt.Errorf("unknown table kind %q", kind))
}

// SetStatement stores a statement result under its kind.
func (r *CompanyRecord) SetStatement(kind TableKind, m Maybe[*Statement]) {
	switch kind {
	case IncomeStatement:
		r.IncomeStatement = m
	case BalanceSheet:
		r.BalanceSheet = m
	case CashFlow:
		r.CashFlow = m
	}
}

// Present reports whether at least one table is available.
func (r *CompanyRecord) Present() bool {
	return r.IncomeStatement.IsPresent() ||
		r.BalanceSheet.IsPresent() ||
		r.CashFlow.IsPresent() ||
		r.HistoricalData.IsPresent()
}

// AllData maps every kind to its possibly missing table, or is missing
// as a whole when no table is available.
func (r *CompanyRecord) AllData() Maybe[map[TableKind]Maybe[Table]] {
	if !r.Present() {
		return Missing[map[TableKind]Maybe[Table]](ErrNoRows)
	}
	all := make(map[TableKind]Maybe[Table], len(AllKinds))
	for _, k := range AllKinds {
		all[k] = r.Table(k)
	}
	return Present(all)
}

// Tables lists the present tables in AllKinds order.
func (r *CompanyRecord) Tables() []Table {
	var out []Table
	for _, k := range AllKinds {
		if t, ok := r.Table(k).Get(); ok {
			out = append(out, t)
		}
	}
	return out
}

func asTable[T Table](m Maybe[T]) Maybe[Table] {
	if v, ok := m.Get(); ok {
		return Present[Table](v)
	}
	return Missing[Table](m.Reason())
}
