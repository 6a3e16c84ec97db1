package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/policy"
	"github.com/spec-kit/complaint-service/internal/repository"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// ComplaintService coordinates complaint workflows.
type ComplaintService struct {
	complaints  repository.ComplaintRepository
	transitions *policy.Transitions
	dispatcher  events.Dispatcher
}

// ComplaintDependencies bundles requirements for the complaint service.
type ComplaintDependencies struct {
	ComplaintRepo repository.ComplaintRepository
	Transitions   *policy.Transitions
	Dispatcher    events.Dispatcher
}

// ComplaintCreateInput describes the client-controllable complaint fields.
// Status is deliberately absent: new complaints are always Pending.
type ComplaintCreateInput struct {
	Title       string
	Description string
	Category    domain.ComplaintCategory
	Priority    domain.ComplaintPriority
}

// NewComplaintService constructs the service.
func NewComplaintService(deps ComplaintDependencies) *ComplaintService {
	return &ComplaintService{
		complaints:  deps.ComplaintRepo,
		transitions: deps.Transitions,
		dispatcher:  deps.Dispatcher,
	}
}

// Create stores a new complaint for the identity. Owner fields come from the
// verified token claims, never from the request body.
func (s *ComplaintService) Create(ctx context.Context, identity domain.Identity, input ComplaintCreateInput) (*domain.Complaint, error) {
	complaint := &domain.Complaint{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Priority:    input.Priority,
		Status:      domain.ComplaintStatusPending,
		UserID:      identity.UserID,
		UserEmail:   identity.Email,
		UserName:    identity.Name,
	}
	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, err
	}

	s.publish(events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventComplaintCreated,
		Timestamp: time.Now(),
		Payload: events.ComplaintCreatedPayload{
			ComplaintID:   complaint.ID,
			Title:         complaint.Title,
			Description:   complaint.Description,
			Category:      complaint.Category,
			Priority:      complaint.Priority,
			UserName:      complaint.UserName,
			UserEmail:     complaint.UserEmail,
			DateSubmitted: complaint.DateSubmitted,
		},
	})
	return complaint, nil
}

// List returns complaints visible to the identity: admins see everything,
// everyone else only their own records. Ordered newest first.
func (s *ComplaintService) List(ctx context.Context, identity domain.Identity) ([]domain.Complaint, error) {
	if identity.IsAdmin() {
		return s.complaints.ListAll(ctx)
	}
	return s.complaints.ListByUser(ctx, identity.UserID)
}

// UpdateStatus moves a complaint to the requested status. Role enforcement
// happens at the API boundary; this method enforces the transition table and
// record existence.
func (s *ComplaintService) UpdateStatus(ctx context.Context, id string, status domain.ComplaintStatus) (*domain.Complaint, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NewNotFound("Complaint")
	}

	current, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("Complaint")
		}
		return nil, err
	}

	if !s.transitions.Allowed(current.Status, status) {
		return nil, apperrors.NewValidationError("Status transition not allowed")
	}

	updated, err := s.complaints.UpdateStatus(ctx, id, status)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("Complaint")
		}
		return nil, err
	}

	s.publish(events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventComplaintStatusChanged,
		Timestamp: time.Now(),
		Payload: events.ComplaintStatusChangedPayload{
			ComplaintID: updated.ID,
			Title:       updated.Title,
			Category:    updated.Category,
			Priority:    updated.Priority,
			OldStatus:   current.Status,
			NewStatus:   updated.Status,
			UserName:    updated.UserName,
			UserEmail:   updated.UserEmail,
			UpdatedAt:   updated.UpdatedAt,
		},
	})
	return updated, nil
}

// Delete removes a complaint.
func (s *ComplaintService) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.NewNotFound("Complaint")
	}
	if err := s.complaints.Delete(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("Complaint")
		}
		return err
	}
	return nil
}

// publish dispatches an event after the primary mutation commits, detached
// from the request context so notification latency never reaches the caller.
func (s *ComplaintService) publish(event events.Event) {
	if s.dispatcher == nil {
		return
	}
	go func() {
		_ = s.dispatcher.Publish(context.Background(), event)
	}()
}
