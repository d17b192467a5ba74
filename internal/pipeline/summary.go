package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"FinanceHarvester/internal/model"
)

// Summary tallies the outcome of one run.
type Summary struct {
	RunID    string
	Range    model.DateRange
	Started  time.Time
	Duration time.Duration

	Total    int // symbols in the input list
	Excluded int
	Present  int // records with at least one table
	Absent   int

	Saved       int
	SaveFailed  int
	SaveSkipped int // no connection

	// Tables counts present tables per kind; Missing counts the rest.
	Tables  map[model.TableKind]int
	Missing map[model.TableKind]int

	Cancelled bool
}

func newSummary(runID string, rng model.DateRange, total int) *Summary {
	return &Summary{
		RunID:   runID,
		Range:   rng,
		Started: time.Now(),
		Total:   total,
		Tables:  make(map[model.TableKind]int),
		Missing: make(map[model.TableKind]int),
	}
}

func (s *Summary) add(rec *model.CompanyRecord) {
	for _, k := range model.AllKinds {
		if rec.Table(k).IsPresent() {
			s.Tables[k]++
		} else {
			s.Missing[k]++
		}
	}
	if rec.Present() {
		s.Present++
	} else {
		s.Absent++
	}
}

// Print writes the human-readable download summary.
func (s *Summary) Print(w io.Writer) {
	fmt.Fprintf(w, "\nDownload Summary (%s, %s):\n", s.Range, s.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "Symbols:    %s (%s excluded)\n", humanize.Comma(int64(s.Total)), humanize.Comma(int64(s.Excluded)))
	fmt.Fprintf(w, "Successful: %s\n", humanize.Comma(int64(s.Present)))
	fmt.Fprintf(w, "Failed:     %s\n", humanize.Comma(int64(s.Absent)))
	for _, k := range model.AllKinds {
		fmt.Fprintf(w, "  %-17s %s ok, %s missing\n", k, humanize.Comma(int64(s.Tables[k])), humanize.Comma(int64(s.Missing[k])))
	}
	fmt.Fprintf(w, "Saved:      %s (%s failed, %s skipped)\n",
		humanize.Comma(int64(s.Saved)), humanize.Comma(int64(s.SaveFailed)), humanize.Comma(int64(s.SaveSkipped)))
	if s.Cancelled {
		fmt.Fprintln(w, "Run cancelled before the symbol list was exhausted.")
	}
}
