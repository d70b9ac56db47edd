package sim

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/cwbudde/algo-pulse/stats/summary"
)

// WriteReport prints one aligned row per outcome: traces, energy mean and
// resolution, timestamp spread, CFD time spread and total wall time.
func WriteReport(w io.Writer, outcomes []Outcome) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "JOB\tTRACES\tENERGY\tRES\tTS STD\tCFD STD\tTIME\tERROR")
	for _, o := range outcomes {
		s := o.Stats
		errText := "-"
		if o.Err != nil {
			errText = o.Err.Error()
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%v\t%s\n",
			o.Job,
			s.Traces,
			number(s.Energy, s.Energy.Mean, "%.2f"),
			number(s.Energy, s.Energy.Resolution*100, "%.3f%%"),
			number(s.Timestamp, s.Timestamp.Std, "%.3f"),
			number(s.CFDTime, s.CFDTime.Std, "%.4f"),
			s.Timing.Total().Round(time.Microsecond),
			errText,
		)
	}
	return tw.Flush()
}

// number formats v, or "-" when s holds no values.
func number(s summary.Summary, v float64, format string) string {
	if s.Count == 0 {
		return "-"
	}
	return fmt.Sprintf(format, v)
}
