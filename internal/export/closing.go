package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"

	"FinanceHarvester/internal/model"
)

// Kind is the table kind of the closing-price matrix.
const Kind model.TableKind = "closing_prices"

// ClosingPrices is a date x symbol matrix of closing prices.
type ClosingPrices struct {
	Symbols []string
	Dates   []string
	// Close[date][symbol]
	Close map[string]map[string]float64
}

// BuildClosingPrices collects the adjusted closing prices of every record with
// price data, keeping the order of symbols. Dates are sorted ascending.
func BuildClosingPrices(symbols []string, records map[string]*model.CompanyRecord) *ClosingPrices {
	cp := &ClosingPrices{Close: make(map[string]map[string]float64)}
	seen := make(map[string]bool)
	for _, sym := range symbols {
		if seen[sym] {
			continue
		}
		rec, ok := records[sym]
		if !ok {
			continue
		}
		p, ok := rec.HistoricalData.Get()
		if !ok {
			continue
		}
		seen[sym] = true
		cp.Symbols = append(cp.Symbols, sym)
		for _, b := range p.Bars {
			d := b.Date()
			row, ok := cp.Close[d]
			if !ok {
				row = make(map[string]float64)
				cp.Close[d] = row
				cp.Dates = append(cp.Dates, d)
			}
			row[sym] = b.Adjusted().Close
		}
	}
	sort.Strings(cp.Dates)
	return cp
}

func (c *ClosingPrices) Kind() model.TableKind { return Kind }

func (c *ClosingPrices) Len() int { return len(c.Dates) }

func (c *ClosingPrices) Empty() bool { return len(c.Symbols) == 0 || len(c.Dates) == 0 }

func (c *ClosingPrices) Columns() []model.Column {
	cols := []model.Column{{Name: "Date", Type: model.ColumnText}}
	for _, s := range c.Symbols {
		cols = append(cols, model.Column{Name: s, Type: model.ColumnReal})
	}
	return cols
}

func (c *ClosingPrices) Records() [][]any {
	out := make([][]any, len(c.Dates))
	for i, d := range c.Dates {
		rec := make([]any, 0, len(c.Symbols)+1)
		rec = append(rec, d)
		for _, s := range c.Symbols {
			if v, ok := c.Close[d][s]; ok {
				rec = append(rec, v)
			} else {
				rec = append(rec, nil)
			}
		}
		out[i] = rec
	}
	return out
}

// ErrExists is returned by WriteCSV when the target file is already present.
var ErrExists = errors.New("file already exists")

// WriteCSV writes the matrix to path. An existing file is left untouched.
func (c *ClosingPrices) WriteCSV(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%s: %w", path, ErrExists)
		}
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := append([]string{"Date"}, c.Symbols...)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, d := range c.Dates {
		row := make([]string, 0, len(c.Symbols)+1)
		row = append(row, d)
		for _, s := range c.Symbols {
			if v, ok := c.Close[d][s]; ok {
				row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
			} else {
				row = append(row, "")
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}
