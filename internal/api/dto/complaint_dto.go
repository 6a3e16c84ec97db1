package dto

import (
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// CreateComplaintRequest payload. A client-supplied status field is simply not
// read: new complaints always start Pending.
type CreateComplaintRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
}

// UpdateComplaintRequest payload for admin status updates.
type UpdateComplaintRequest struct {
	Status string `json:"status"`
}

// ComplaintResponse mirrors the stored complaint document.
type ComplaintResponse struct {
	ID            string                   `json:"id"`
	Title         string                   `json:"title"`
	Description   string                   `json:"description"`
	Category      domain.ComplaintCategory `json:"category"`
	Priority      domain.ComplaintPriority `json:"priority"`
	Status        domain.ComplaintStatus   `json:"status"`
	DateSubmitted time.Time                `json:"dateSubmitted"`
	UserID        string                   `json:"userId"`
	UserEmail     string                   `json:"userEmail"`
	UserName      string                   `json:"userName"`
	CreatedAt     time.Time                `json:"createdAt"`
	UpdatedAt     time.Time                `json:"updatedAt"`
}

// NewComplaintResponse maps a domain complaint to its wire representation.
func NewComplaintResponse(complaint *domain.Complaint) ComplaintResponse {
	return ComplaintResponse{
		ID:            complaint.ID,
		Title:         complaint.Title,
		Description:   complaint.Description,
		Category:      complaint.Category,
		Priority:      complaint.Priority,
		Status:        complaint.Status,
		DateSubmitted: complaint.DateSubmitted,
		UserID:        complaint.UserID,
		UserEmail:     complaint.UserEmail,
		UserName:      complaint.UserName,
		CreatedAt:     complaint.CreatedAt,
		UpdatedAt:     complaint.UpdatedAt,
	}
}
