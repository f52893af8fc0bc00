package schedule

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

var csvHeader = []string{"Employee", "Date", "Start", "End", "Hours", "Cost", "Notes"}

// ExportCSV writes one row per shift, semicolon-delimited with decimal
// commas, the format the payroll consultant's spreadsheet expects.
func ExportCSV(w io.Writer, shifts []Shift) error {
	writer := csv.NewWriter(w)
	writer.Comma = ';'

	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, shift := range shifts {
		hours := Hours(shift.Start, shift.End)
		cost := hours * shift.Employee.HourlyRate
		record := []string{
			strings.TrimSpace(shift.Employee.FirstName + " " + shift.Employee.LastName),
			shift.Start.Format(dayFormat),
			shift.Start.Format("15:04"),
			shift.End.Format("15:04"),
			decimalComma(hours),
			decimalComma(cost),
			shift.Note,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func ExportFileName(month time.Time) string {
	return fmt.Sprintf("turni_%s.csv", month.Format("2006-01"))
}

func decimalComma(value float64) string {
	return strings.ReplaceAll(strconv.FormatFloat(value, 'f', 2, 64), ".", ",")
}
