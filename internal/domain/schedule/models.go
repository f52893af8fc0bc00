package schedule

import "time"

const (
	ViewWeek  = "week"
	ViewMonth = "month"
)

const (
	WarningDoubleBooked = "double_booked"
	WarningOnLeave      = "on_leave"
	WarningMinor        = "minor"
)

type Shift struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employeeId"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Note       string    `json:"note"`
	Published  bool      `json:"published"`
	CreatedAt  time.Time `json:"createdAt"`

	Employee ShiftEmployee `json:"employee"`
	Warnings []string      `json:"warnings,omitempty"`
}

type ShiftEmployee struct {
	FirstName       string     `json:"firstName"`
	LastName        string     `json:"lastName"`
	RoleLabel       string     `json:"roleLabel,omitempty"`
	HourlyRate      float64    `json:"hourlyRate"`
	BirthDate       *time.Time `json:"birthDate,omitempty"`
	DepartmentID    string     `json:"departmentId,omitempty"`
	DepartmentName  string     `json:"departmentName,omitempty"`
	DepartmentColor string     `json:"departmentColor,omitempty"`
	AvatarURL       string     `json:"avatarUrl,omitempty"`
}

// LeaveInterval is the slice of an approved leave request the grid needs
// for warning computation.
type LeaveInterval struct {
	EmployeeID string
	Start      time.Time
	End        time.Time
}

type Day struct {
	Date   string  `json:"date"`
	Shifts []Shift `json:"shifts"`
}

type ClosurePeriod struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
}

type View struct {
	From             string          `json:"from"`
	To               string          `json:"to"`
	Days             []Day           `json:"days"`
	PlannedHours     float64         `json:"plannedHours"`
	PlannedCost      float64         `json:"plannedCost"`
	UnpublishedCount int             `json:"unpublishedCount"`
	Periods          []ClosurePeriod `json:"periods,omitempty"`
}

type Template struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type Swap struct {
	ID          string    `json:"id"`
	ShiftID     string    `json:"shiftId"`
	RequesterID string    `json:"requesterId"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`

	ShiftStart    time.Time `json:"shiftStart,omitempty"`
	ShiftEnd      time.Time `json:"shiftEnd,omitempty"`
	RequesterName string    `json:"requesterName,omitempty"`
}

type Availability struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employeeId"`
	Date       time.Time `json:"date"`
	Reason     string    `json:"reason"`
	CreatedAt  time.Time `json:"createdAt"`
}

const (
	SwapPending  = "pending"
	SwapAccepted = "accepted"
	SwapDeclined = "declined"
)
