package course

import (
	"time"

	"github.com/google/uuid"

	"verve/models"
)

const (
	SubscriptionActive    = "active"
	SubscriptionExpired   = "expired"
	SubscriptionCancelled = "cancelled"
	SubscriptionSuspended = "suspended"
)

// Subscription is a paid grant of access to one course.
type Subscription struct {
	models.Base
	UserID           uuid.UUID  `json:"userId" gorm:"type:uuid;index:idx_subscription_user_course;not null"`
	CourseID         uuid.UUID  `json:"courseId" gorm:"type:uuid;index:idx_subscription_user_course;not null"`
	SubscriptionType string     `json:"subscriptionType" gorm:"not null"` // oneTime, monthly, yearly, lifetime, teamLicense
	StartDate        time.Time  `json:"startDate"`
	EndDate          *time.Time `json:"endDate" gorm:"index:idx_subscription_status_end"` // nil for lifetime
	Status           string     `json:"status" gorm:"default:'active';index:idx_subscription_status_end"`
	TransactionID    string     `json:"transactionId"`
	AmountPaid       float64    `json:"amountPaid"`
	Currency         string     `json:"currency" gorm:"default:'USD'"`
	PaymentMethod    string     `json:"paymentMethod"`
}

// ValidAt reports whether the subscription grants access at t.
func (s *Subscription) ValidAt(t time.Time) bool {
	if s.Status != SubscriptionActive {
		return false
	}
	return s.EndDate == nil || s.EndDate.After(t)
}
