package model

// TableKind names one of the four tables kept per symbol.
type TableKind string

const (
	IncomeStatement TableKind = "income_statement"
	BalanceSheet    TableKind = "balance_sheet"
	CashFlow        TableKind = "cash_flow"
	HistoricalData  TableKind = "historical_data"
)

// StatementKinds are the quarterly financial statements.
var StatementKinds = []TableKind{IncomeStatement, BalanceSheet, CashFlow}

// AllKinds is every table kind in persistence order.
var AllKinds = []TableKind{IncomeStatement, BalanceSheet, CashFlow, HistoricalData}

// TableName returns the store table name for a symbol's table of the given kind.
func TableName(symbol string, kind TableKind) string {
	return symbol + "_" + string(kind)
}

// ColumnType is the storage affinity of a column.
type ColumnType int

const (
	ColumnText ColumnType = iota
	ColumnReal
	ColumnInteger
)

// Column describes one persisted column.
type Column struct {
	Name string
	Type ColumnType
}

// Table is a fetched table that can be written to the store.
type Table interface {
	Kind() TableKind
	Len() int
	Columns() []Column
	Records() [][]any
}

var (
	_ Table = (*Statement)(nil)
	_ Table = (*PriceHistory)(nil)
)
