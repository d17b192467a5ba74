package model

import "sort"

// PeriodQuarterly is the provider's period type for quarterly reports.
const PeriodQuarterly = "3M"

// StatementRow is one reporting period of a financial statement.
type StatementRow struct {
	AsOfDate     string // fiscal period end, YYYY-MM-DD
	PeriodType   string // "3M", "12M", "TTM"
	CurrencyCode string
	Values       map[string]float64
}

// Statement is a financial statement of one kind for one symbol,
// ordered by AsOfDate.
type Statement struct {
	Symbol string
	Type   TableKind
	Rows   []StatementRow
}

// NewStatement creates an empty statement of the given kind.
func NewStatement(symbol string, kind TableKind) *Statement {
	return &Statement{Symbol: symbol, Type: kind}
}

func (s *Statement) Kind() TableKind { return s.Type }

func (s *Statement) Len() int { return len(s.Rows) }

// Fields returns the sorted union of value names across all rows.
func (s *Statement) Fields() []string {
	seen := make(map[string]struct{})
	for _, r := range s.Rows {
		for k := range r.Values {
			seen[k] = struct{}{}
		}
	}
	fields := make([]string, 0, len(seen))
	for k := range seen {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return fields
}

// Columns lists the persisted columns. Statements carry no index column.
func (s *Statement) Columns() []Column {
	cols := []Column{
		{Name: "asOfDate", Type: ColumnText},
		{Name: "periodType", Type: ColumnText},
		{Name: "currencyCode", Type: ColumnText},
	}
	for _, f := range s.Fields() {
		cols = append(cols, Column{Name: f, Type: ColumnReal})
	}
	return cols
}

// Records returns one value slice per row, aligned with Columns.
// Values absent from a row are nil.
func (s *Statement) Records() [][]any {
	fields := s.Fields()
	out := make([][]any, len(s.Rows))
	for i, r := range s.Rows {
		rec := make([]any, 0, 3+len(fields))
		rec = append(rec, r.AsOfDate, r.PeriodType, r.CurrencyCode)
		for _, f := range fields {
			if v, ok := r.Values[f]; ok {
				rec = append(rec, v)
			} else {
				rec = append(rec, nil)
			}
		}
		out[i] = rec
	}
	return out
}
