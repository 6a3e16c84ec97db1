package events

import (
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventComplaintCreated       EventType = "complaint_created"
	EventComplaintStatusChanged EventType = "complaint_status_changed"
	EventPasswordResetRequested EventType = "password_reset_requested"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ComplaintCreatedPayload payload.
type ComplaintCreatedPayload struct {
	ComplaintID   string                   `json:"complaint_id"`
	Title         string                   `json:"title"`
	Description   string                   `json:"description"`
	Category      domain.ComplaintCategory `json:"category"`
	Priority      domain.ComplaintPriority `json:"priority"`
	UserName      string                   `json:"user_name"`
	UserEmail     string                   `json:"user_email"`
	DateSubmitted time.Time                `json:"date_submitted"`
}

// ComplaintStatusChangedPayload payload.
type ComplaintStatusChangedPayload struct {
	ComplaintID string                   `json:"complaint_id"`
	Title       string                   `json:"title"`
	Category    domain.ComplaintCategory `json:"category"`
	Priority    domain.ComplaintPriority `json:"priority"`
	OldStatus   domain.ComplaintStatus   `json:"old_status"`
	NewStatus   domain.ComplaintStatus   `json:"new_status"`
	UserName    string                   `json:"user_name"`
	UserEmail   string                   `json:"user_email"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

// PasswordResetRequestedPayload payload.
type PasswordResetRequestedPayload struct {
	UserName  string    `json:"user_name"`
	UserEmail string    `json:"user_email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
