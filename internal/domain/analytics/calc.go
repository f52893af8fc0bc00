package analytics

import (
	"sort"
	"time"

	"turno/internal/domain/leave"
	"turno/internal/domain/schedule"
	"turno/internal/domain/timeclock"
)

// Half an hour of drift between plan and punches is tolerated before an
// employee is flagged.
const varianceToleranceHours = 0.5

type EmployeeStat struct {
	EmployeeID    string  `json:"employeeId"`
	Name          string  `json:"name"`
	HourlyRate    float64 `json:"hourlyRate"`
	PlannedHours  float64 `json:"plannedHours"`
	ActualHours   float64 `json:"actualHours"`
	VarianceHours float64 `json:"varianceHours"`
	OverTolerance bool    `json:"overTolerance"`
	ActualCost    float64 `json:"actualCost"`
	LeaveDays     int     `json:"leaveDays"`
}

type Report struct {
	Month            string         `json:"month"`
	PlannedCost      float64        `json:"plannedCost"`
	ActualCost       float64        `json:"actualCost"`
	Variance         float64        `json:"variance"`
	Revenue          float64        `json:"revenue,omitempty"`
	LaborCostPercent float64        `json:"laborCostPercent,omitempty"`
	Employees        []EmployeeStat `json:"employees"`
}

// BuildReport compares the planned schedule against the punched hours
// for one month. Only published shifts count as planned, and only
// entries with a clock-out count as actual; drafts and open punches
// carry no cost yet. Approved leave overlapping the month is reported
// per employee as context for the variance. Revenue, when known, yields
// the labor cost percentage. rates maps employee IDs to hourly rates,
// covering employees who punched without having any planned shift.
func BuildReport(month time.Time, shifts []schedule.Shift, entries []timeclock.Entry, leaves []leave.Request, rates map[string]float64, revenue float64, now time.Time) Report {
	stats := make(map[string]*EmployeeStat)

	stat := func(id, name string, rate float64) *EmployeeStat {
		s, ok := stats[id]
		if !ok {
			s = &EmployeeStat{EmployeeID: id, Name: name, HourlyRate: rate}
			stats[id] = s
		}
		if s.Name == "" {
			s.Name = name
		}
		if s.HourlyRate == 0 {
			s.HourlyRate = rate
		}
		return s
	}

	report := Report{Month: month.Format("2006-01")}
	for _, sh := range shifts {
		if !sh.Published {
			continue
		}
		hours := schedule.Hours(sh.Start, sh.End)
		name := sh.Employee.FirstName + " " + sh.Employee.LastName
		s := stat(sh.EmployeeID, name, sh.Employee.HourlyRate)
		s.PlannedHours += hours
		report.PlannedCost += hours * sh.Employee.HourlyRate
	}
	for _, e := range entries {
		if e.ClockOut == nil {
			continue
		}
		s := stat(e.EmployeeID, e.EmployeeName, rates[e.EmployeeID])
		s.ActualHours += timeclock.ActualHours(e, now)
	}

	monthStart := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	monthEnd := monthStart.AddDate(0, 1, -1)
	for _, r := range leaves {
		from, to := r.StartDate, r.EndDate
		if from.Before(monthStart) {
			from = monthStart
		}
		if to.After(monthEnd) {
			to = monthEnd
		}
		if to.Before(from) {
			continue
		}
		s := stat(r.EmployeeID, r.EmployeeName, rates[r.EmployeeID])
		s.LeaveDays += leave.Days(from, to)
	}

	for _, s := range stats {
		s.VarianceHours = s.ActualHours - s.PlannedHours
		s.OverTolerance = s.VarianceHours > varianceToleranceHours
		s.ActualCost = s.ActualHours * s.HourlyRate
		report.ActualCost += s.ActualCost
		report.Employees = append(report.Employees, *s)
	}
	sort.Slice(report.Employees, func(i, j int) bool {
		return report.Employees[i].ActualHours > report.Employees[j].ActualHours
	})

	report.Variance = report.ActualCost - report.PlannedCost
	if revenue > 0 {
		report.Revenue = revenue
		report.LaborCostPercent = report.ActualCost / revenue * 100
	}
	return report
}
