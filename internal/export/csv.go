// Package export renders stored reports as the CSV download the dashboard
// offers. The column set and quoting rule are fixed: twelve columns, the
// summary wrapped in double quotes with embedded quotes doubled, empty
// strings for absent coordinates. encoding/csv is deliberately not used
// here; it quotes any field as needed, and downstream consumers of this
// export depend on the exact bytes this layout produces.
package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"ladangwatch/pkg/types"
)

var header = []string{
	"Report ID",
	"Unit",
	"Region",
	"Category",
	"Incident Date",
	"Incident Time",
	"Loss Estimation (kg)",
	"Supervisor Phone",
	"Latitude",
	"Longitude",
	"Summary",
	"Created At",
}

// CSV renders the reports in the given order. It performs no sorting and
// no filtering; callers pass in exactly the rows the viewer may see.
func CSV(reports []*types.Report) string {
	rows := make([]string, 0, len(reports)+1)
	rows = append(rows, strings.Join(header, ","))

	for _, report := range reports {
		fields := []string{
			report.ID,
			string(report.Unit),
			string(report.Region),
			string(report.Category),
			report.IncidentDate,
			report.IncidentTime,
			formatFloat(report.LossEstimationKg),
			report.SupervisorPhone,
			formatCoordinate(report.Latitude),
			formatCoordinate(report.Longitude),
			quoteSummary(report.Summary),
			report.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		rows = append(rows, strings.Join(fields, ","))
	}

	return strings.Join(rows, "\n")
}

// Filename is the download name for an export generated at t.
func Filename(t time.Time) string {
	return fmt.Sprintf("security-reports-%s.csv", t.Format("2006-01-02"))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatCoordinate(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func quoteSummary(summary string) string {
	return `"` + strings.ReplaceAll(summary, `"`, `""`) + `"`
}
