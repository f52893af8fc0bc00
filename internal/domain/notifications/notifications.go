package notifications

import (
	"context"
	"time"
)

const (
	TypeInfo    = "info"
	TypeSuccess = "success"
	TypeError   = "error"
)

type Notification struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employeeId"`
	Message    string    `json:"message"`
	Type       string    `json:"type"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Mailer delivers a plain-text email. Implementations must treat
// delivery as best effort.
type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}
