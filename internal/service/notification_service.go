package service

import (
	"context"
	"fmt"
	"html"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/config"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/mail"
)

// NotificationService emits best-effort emails for domain events. Every send
// is independent and every failure is logged and swallowed: the triggering
// operation has already committed and must return success regardless.
type NotificationService struct {
	dispatcher events.Dispatcher
	mailer     mail.Mailer
	logger     *zap.Logger
	adminEmail string
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, mailer mail.Mailer, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		mailer:     mailer,
		logger:     logger,
		adminEmail: cfg.AdminEmail,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventComplaintCreated, n.handleComplaintCreated)
	n.dispatcher.Subscribe(events.EventComplaintStatusChanged, n.handleComplaintStatusChanged)
	n.dispatcher.Subscribe(events.EventPasswordResetRequested, n.handlePasswordResetRequested)
}

func (n *NotificationService) handleComplaintCreated(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ComplaintCreatedPayload)
	if !ok {
		n.logger.Warn("unexpected payload for complaint_created", zap.String("event_id", event.ID))
		return nil
	}

	subject := fmt.Sprintf("New Complaint Submitted: %s", payload.Title)
	body := fmt.Sprintf(`
        <h2>New Complaint Submitted</h2>
        <p><strong>Title:</strong> %s</p>
        <p><strong>Category:</strong> %s</p>
        <p><strong>Priority:</strong> %s</p>
        <p><strong>Submitted by:</strong> %s (%s)</p>
        <p><strong>Description:</strong></p>
        <p>%s</p>
        <p><strong>Date Submitted:</strong> %s</p>`,
		html.EscapeString(payload.Title),
		payload.Category,
		payload.Priority,
		html.EscapeString(payload.UserName),
		html.EscapeString(payload.UserEmail),
		html.EscapeString(payload.Description),
		payload.DateSubmitted.Format(time.RFC1123))

	n.send(n.adminEmail, subject, body, event)
	return nil
}

func (n *NotificationService) handleComplaintStatusChanged(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ComplaintStatusChangedPayload)
	if !ok {
		n.logger.Warn("unexpected payload for complaint_status_changed", zap.String("event_id", event.ID))
		return nil
	}

	adminSubject := fmt.Sprintf("Complaint Status Updated: %s", payload.Title)
	adminBody := fmt.Sprintf(`
        <h2>Complaint Status Updated</h2>
        <p><strong>Title:</strong> %s</p>
        <p><strong>New Status:</strong> %s</p>
        <p><strong>Category:</strong> %s</p>
        <p><strong>Priority:</strong> %s</p>
        <p><strong>Submitted by:</strong> %s (%s)</p>
        <p><strong>Date Updated:</strong> %s</p>`,
		html.EscapeString(payload.Title),
		payload.NewStatus,
		payload.Category,
		payload.Priority,
		html.EscapeString(payload.UserName),
		html.EscapeString(payload.UserEmail),
		payload.UpdatedAt.Format(time.RFC1123))

	ownerSubject := fmt.Sprintf("Your Complaint Status Updated: %s", payload.Title)
	ownerBody := fmt.Sprintf(`
        <h2>Your Complaint Status Has Been Updated</h2>
        <p>Dear %s,</p>
        <p>Your complaint has been updated with a new status.</p>
        <p><strong>Title:</strong> %s</p>
        <p><strong>New Status:</strong> %s</p>
        <p><strong>Date Updated:</strong> %s</p>
        <p>Thank you for your patience.</p>`,
		html.EscapeString(payload.UserName),
		html.EscapeString(payload.Title),
		payload.NewStatus,
		payload.UpdatedAt.Format(time.RFC1123))

	// Independent sends: a failing admin email must not block the owner's.
	n.send(n.adminEmail, adminSubject, adminBody, event)
	n.send(payload.UserEmail, ownerSubject, ownerBody, event)
	return nil
}

func (n *NotificationService) handlePasswordResetRequested(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PasswordResetRequestedPayload)
	if !ok {
		n.logger.Warn("unexpected payload for password_reset_requested", zap.String("event_id", event.ID))
		return nil
	}

	subject := "Password Reset Requested"
	body := fmt.Sprintf(`
        <h2>Password Reset Requested</h2>
        <p>Dear %s,</p>
        <p>Use the token below to reset your password. It expires at %s.</p>
        <p><strong>Token:</strong> %s</p>
        <p>If you did not request this, you can ignore this email.</p>`,
		html.EscapeString(payload.UserName),
		payload.ExpiresAt.Format(time.RFC1123),
		payload.Token)

	n.send(payload.UserEmail, subject, body, event)
	return nil
}

func (n *NotificationService) send(to, subject, body string, event events.Event) {
	if err := n.mailer.Send(to, subject, body); err != nil {
		n.logger.Error("failed to send notification email",
			zap.String("to", to),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		return
	}
	n.logger.Info("notification email sent",
		zap.String("to", to),
		zap.String("event_type", string(event.Type)))
}
