package timeclock

import "time"

const (
	ActionClockIn  = "clock_in"
	ActionClockOut = "clock_out"
)

type Entry struct {
	ID         string     `json:"id"`
	EmployeeID string     `json:"employeeId"`
	ClockIn    time.Time  `json:"clockIn"`
	ClockOut   *time.Time `json:"clockOut,omitempty"`
	BreakStart *time.Time `json:"breakStart,omitempty"`
	BreakEnd   *time.Time `json:"breakEnd,omitempty"`
	AutoClosed bool       `json:"autoClosed"`
	CreatedAt  time.Time  `json:"createdAt"`

	EmployeeName string `json:"employeeName,omitempty"`
}

// Log is a punch audit record, optionally carrying the device position
// when the venue requires it.
type Log struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employeeId"`
	ActionType string    `json:"actionType"`
	Latitude   *float64  `json:"latitude,omitempty"`
	Longitude  *float64  `json:"longitude,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`

	EmployeeName string `json:"employeeName,omitempty"`
}
