package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
)

// TextFormatter writes aligned tables for a terminal.
type TextFormatter struct{}

// Format writes the formatted report to w.
func (f *TextFormatter) Format(w io.Writer, r *Report) error {
	res := r.Result
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if len(res.Records) == 0 {
		_, _ = fmt.Fprintf(tw, "No resources idle for %s or more.\n",
			english.Plural(res.ThresholdDays, "day", ""))
	} else {
		_, _ = fmt.Fprintln(tw, "CATEGORY\tID\tIDLE\tLAST ACTIVITY")
		for _, rec := range res.Records {
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
				rec.Category,
				rec.ID,
				english.Plural(rec.IdleDays, "day", ""),
				humanize.RelTime(rec.ReferenceTime, r.Now, "ago", "from now"),
			)
		}
	}

	if len(res.Skipped) > 0 {
		_, _ = fmt.Fprintln(tw)
		_, _ = fmt.Fprintln(tw, "SKIPPED\tID\tREASON")
		for _, s := range res.Skipped {
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Category, s.ID, s.Reason)
		}
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\n%s\n", summary(r))
	return err
}

func summary(r *Report) string {
	res := r.Result
	found := english.Plural(res.Unused.Len(), "unused resource", "")
	where := res.Provider
	if res.Region != "" {
		where += "/" + res.Region
	}

	line := fmt.Sprintf("%s: %s (threshold %s)", where, found,
		english.Plural(res.ThresholdDays, "day", ""))
	if r.Mode == "sweep" {
		line += fmt.Sprintf(", %s deleted", humanize.Comma(int64(res.Deleted)))
	}
	if res.Error != nil {
		line += fmt.Sprintf(", failed: %v", res.Error)
	}
	return line
}

var _ Formatter = (*TextFormatter)(nil)
