package domain

import "time"

// ComplaintStatus enumerates lifecycle states for complaints.
type ComplaintStatus string

const (
	ComplaintStatusPending    ComplaintStatus = "Pending"
	ComplaintStatusInProgress ComplaintStatus = "In Progress"
	ComplaintStatusResolved   ComplaintStatus = "Resolved"
)

// Valid reports whether the status is one of the enumerated values.
func (s ComplaintStatus) Valid() bool {
	switch s {
	case ComplaintStatusPending, ComplaintStatusInProgress, ComplaintStatusResolved:
		return true
	}
	return false
}

// ComplaintCategory enumerates the business areas a complaint can target.
type ComplaintCategory string

const (
	ComplaintCategoryProduct   ComplaintCategory = "Product"
	ComplaintCategoryService   ComplaintCategory = "Service"
	ComplaintCategorySupport   ComplaintCategory = "Support"
	ComplaintCategoryBilling   ComplaintCategory = "Billing"
	ComplaintCategoryTechnical ComplaintCategory = "Technical"
)

// Valid reports whether the category is one of the enumerated values.
func (c ComplaintCategory) Valid() bool {
	switch c {
	case ComplaintCategoryProduct, ComplaintCategoryService, ComplaintCategorySupport,
		ComplaintCategoryBilling, ComplaintCategoryTechnical:
		return true
	}
	return false
}

// ComplaintPriority enumerates urgency levels.
type ComplaintPriority string

const (
	ComplaintPriorityLow    ComplaintPriority = "Low"
	ComplaintPriorityMedium ComplaintPriority = "Medium"
	ComplaintPriorityHigh   ComplaintPriority = "High"
)

// Valid reports whether the priority is one of the enumerated values.
func (p ComplaintPriority) Valid() bool {
	switch p {
	case ComplaintPriorityLow, ComplaintPriorityMedium, ComplaintPriorityHigh:
		return true
	}
	return false
}

// Complaint is the aggregate for submitted complaints. The User* fields are a
// denormalized copy of the submitter identity taken at creation time and never
// revalidated against the live user record.
type Complaint struct {
	ID            string
	Title         string
	Description   string
	Category      ComplaintCategory
	Priority      ComplaintPriority
	Status        ComplaintStatus
	DateSubmitted time.Time
	UserID        string
	UserEmail     string
	UserName      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
