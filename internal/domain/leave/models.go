package leave

import "time"

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const (
	ReasonFerie    = "Ferie"
	ReasonPermesso = "Permesso"
	ReasonMalattia = "Malattia"
)

const (
	ScopePending = "pending"
	ScopeActive  = "active"
	ScopeHistory = "history"
)

type Request struct {
	ID         string     `json:"id"`
	EmployeeID string     `json:"employeeId"`
	Reason     string     `json:"reason"`
	StartDate  time.Time  `json:"startDate"`
	EndDate    time.Time  `json:"endDate"`
	IsAllDay   bool       `json:"isAllDay"`
	StartTime  string     `json:"startTime,omitempty"`
	EndTime    string     `json:"endTime,omitempty"`
	Note       string     `json:"note,omitempty"`
	Status     string     `json:"status"`
	DecidedBy  *string    `json:"decidedBy,omitempty"`
	DecidedAt  *time.Time `json:"decidedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`

	EmployeeName    string `json:"employeeName,omitempty"`
	DepartmentName  string `json:"departmentName,omitempty"`
	DepartmentColor string `json:"departmentColor,omitempty"`
}
