package report

import (
	"fmt"
	"strings"
	"time"

	"hv1/chansey/defs"
)

const spanFormat = "Jan 02, 2006"

// RenderText lays the report out as plain text for clinician review.
func RenderText(rep *defs.Report) string {
	var b strings.Builder
	rule := strings.Repeat("=", 60)
	thin := strings.Repeat("-", 60)

	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "WEARABLE HEALTH SUMMARY REPORT")
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b)

	fmt.Fprintf(&b, "Patient email: %s\n", rep.Metadata.PatientEmail)
	fmt.Fprintf(&b, "Report date: %s\n", rep.Metadata.ReportDate)
	fmt.Fprintln(&b)

	dp := rep.Metadata.DataPeriod
	fmt.Fprintf(&b, "%d Days values: %s - %s (%d days)\n",
		dp.Days, spanDay(dp.Start), spanDay(dp.End), dp.Days)
	if ref := rep.Metadata.ReferenceRange; ref.Days > 0 {
		fmt.Fprintf(&b, "Reference Range: %s - %s (%d days)\n",
			spanDay(ref.Start), spanDay(ref.End), ref.Days)
	}

	fmt.Fprintln(&b)
	fmt.Fprintln(&b, thin)
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "FLAGGED METRICS")
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "Total flagged metrics: %d\n", rep.TotalFlagged)
	for _, category := range []string{"Sleep", "Cardiovascular", "Activity"} {
		if n := rep.FlaggedByCategory[category]; n > 0 {
			fmt.Fprintf(&b, "  %s: %d\n", category, n)
		}
	}
	fmt.Fprintln(&b)

	renderTable(&b, "Sleep", rep.Summary.SleepTable)
	renderTable(&b, "Cardiovascular", rep.Summary.CardiovascularTable)
	renderTable(&b, "Activity", rep.Summary.ActivityTable)

	fmt.Fprintln(&b, thin)
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "SLEEP DEBT")
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "Total sleep debt: %.2f hours\n", rep.SleepDebt.Hours)
	fmt.Fprintf(&b, "Target sleep: %.2f hours/night\n", rep.SleepDebt.Target)
	status := "Normal"
	if rep.SleepDebt.Flagged {
		status = "FLAGGED"
	}
	fmt.Fprintf(&b, "Status: %s\n", status)
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, thin)
	fmt.Fprintf(&b, "Overall Health Score: %.1f/100\n", rep.HealthScore)
	fmt.Fprintln(&b, rule)

	return b.String()
}

func renderTable(b *strings.Builder, title string, rows []defs.DoctorSummaryRow) {
	if len(rows) == 0 {
		return
	}
	fmt.Fprintf(b, "%s\n", title)
	for _, r := range rows {
		line := fmt.Sprintf("  %-28s %-18s %s", r.Metric, r.Value, r.ReferenceRange)
		if r.Flag != "" {
			line += "  [" + r.Flag + "]"
		}
		fmt.Fprintln(b, strings.TrimRight(line, " "))
	}
	fmt.Fprintln(b)
}

func spanDay(day string) string {
	t, err := time.Parse(defs.DayFormat, day)
	if err != nil {
		return day
	}
	return t.Format(spanFormat)
}
