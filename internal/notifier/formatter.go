package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"FinanceHarvester/internal/model"
	"FinanceHarvester/internal/pipeline"
)

// FormatRunSummary formats a run summary into a Telegram message.
func FormatRunSummary(sum *pipeline.Summary) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>FinanceHarvester run</b> | %s\n\n", sum.Started.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Range: %s\n", html.EscapeString(sum.Range.String())))
	b.WriteString(fmt.Sprintf("Symbols: %s (%s excluded)\n", humanize.Comma(int64(sum.Total)), humanize.Comma(int64(sum.Excluded))))
	b.WriteString(fmt.Sprintf("With data: %s | Without: %s\n\n", humanize.Comma(int64(sum.Present)), humanize.Comma(int64(sum.Absent))))

	b.WriteString("📈 <b>Tables:</b>\n")
	for _, k := range model.AllKinds {
		b.WriteString(fmt.Sprintf("  %s: %s ok, %s missing\n", k,
			humanize.Comma(int64(sum.Tables[k])), humanize.Comma(int64(sum.Missing[k]))))
	}

	b.WriteString(fmt.Sprintf("\n💾 Saved: %s", humanize.Comma(int64(sum.Saved))))
	if sum.SaveFailed > 0 {
		b.WriteString(fmt.Sprintf(" | failed: %s", humanize.Comma(int64(sum.SaveFailed))))
	}
	if sum.SaveSkipped > 0 {
		b.WriteString(fmt.Sprintf(" | skipped (no database): %s", humanize.Comma(int64(sum.SaveSkipped))))
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("⏱ Took %s\n", sum.Duration.Round(time.Second)))

	if sum.Cancelled {
		b.WriteString("\n⚠️ Run cancelled before all symbols were processed\n")
	}
	return b.String()
}

// FormatStatus describes the scheduler state for the /status command.
func FormatStatus(running bool, last *pipeline.Summary, next time.Time) string {
	var b strings.Builder
	b.WriteString("📦 <b>Harvester status</b>\n\n")
	if running {
		b.WriteString("A run is in progress\n")
	} else {
		b.WriteString("Idle\n")
	}
	if last != nil {
		b.WriteString(fmt.Sprintf("Last run: %s (%s)\n", humanize.Time(last.Started), html.EscapeString(last.RunID)))
		b.WriteString(fmt.Sprintf("Last result: %s saved, %s without data\n",
			humanize.Comma(int64(last.Saved)), humanize.Comma(int64(last.Absent))))
	} else {
		b.WriteString("No run since start\n")
	}
	if !next.IsZero() {
		b.WriteString(fmt.Sprintf("Next run: %s\n", next.Format("2006-01-02 15:04")))
	}
	return b.String()
}
