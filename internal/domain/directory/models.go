package directory

import "time"

type Employee struct {
	ID                  string     `json:"id"`
	FirstName           string     `json:"firstName"`
	LastName            string     `json:"lastName"`
	Username            string     `json:"username"`
	Role                string     `json:"role"`
	RoleLabel           string     `json:"roleLabel,omitempty"`
	DepartmentID        *string    `json:"departmentId,omitempty"`
	DepartmentName      string     `json:"departmentName,omitempty"`
	DepartmentColor     string     `json:"departmentColor,omitempty"`
	BirthDate           *time.Time `json:"birthDate,omitempty"`
	HourlyRate          float64    `json:"hourlyRate"`
	HourlyRateNet       float64    `json:"hourlyRateNet"`
	ContractHoursWeekly float64    `json:"contractHoursWeekly"`
	ContractType        string     `json:"contractType,omitempty"`
	AvatarURL           string     `json:"avatarUrl,omitempty"`
	NeedsPasswordReset  bool       `json:"needsPasswordReset"`
	LastLogin           *time.Time `json:"lastLogin,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
}

type Department struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type CompanyRole struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	DepartmentID string `json:"departmentId"`
}

type Settings struct {
	OpeningTime            string  `json:"openingTime"`
	ClosingTime            string  `json:"closingTime"`
	RequireGeolocation     bool    `json:"requireGeolocation"`
	EnableTimeClock        bool    `json:"enableTimeClock"`
	EnableChat             bool    `json:"enableChat"`
	DefaultBreakMinutes    int     `json:"defaultBreakMinutes"`
	LaborCostTargetPercent float64 `json:"laborCostTargetPercent"`
}

const (
	PeriodOpening = "opening"
	PeriodClosing = "closing"
)

type CompanyPeriod struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
}
