package courseService

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"verve/apierr"
	"verve/models"
	courseModels "verve/models/course"
)

// Viewer is the identity attached by the auth middleware. A zero ID means anonymous.
type Viewer struct {
	ID   uuid.UUID
	Role string
}

func (v Viewer) Authenticated() bool { return v.ID != uuid.Nil }

func (v Viewer) IsAdmin() bool { return v.Role == models.RoleAdmin }

// Grant names the reason access was given.
type Grant string

const (
	GrantNone         Grant = ""
	GrantFree         Grant = "free"
	GrantAdmin        Grant = "admin"
	GrantCreator      Grant = "creator"
	GrantSubscription Grant = "subscription"
)

// AccessChecker decides course access on every request; nothing is cached.
type AccessChecker struct {
	db  *gorm.DB
	now func() time.Time
}

func NewAccessChecker(db *gorm.DB) *AccessChecker {
	return &AccessChecker{db: db, now: time.Now}
}

// Check returns the grant for the viewer, or an Unauthorized/Forbidden error.
func (a *AccessChecker) Check(ctx context.Context, viewer Viewer, course *courseModels.Course) (Grant, error) {
	if course.IsFreeAccess() {
		return GrantFree, nil
	}
	if !viewer.Authenticated() {
		return GrantNone, apierr.Unauthorized("Please log in to access this course.")
	}
	if viewer.IsAdmin() {
		return GrantAdmin, nil
	}
	if course.CreatedBy != nil && *course.CreatedBy == viewer.ID {
		return GrantCreator, nil
	}

	ok, err := a.HasActiveSubscription(ctx, viewer.ID, course.ID)
	if err != nil {
		return GrantNone, err
	}
	if ok {
		return GrantSubscription, nil
	}
	return GrantNone, apierr.Forbidden("This course requires an active subscription.")
}

// HasActiveSubscription reports whether an active, unexpired subscription covers the pair.
func (a *AccessChecker) HasActiveSubscription(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	var count int64
	err := a.db.WithContext(ctx).Model(&courseModels.Subscription{}).
		Where("user_id = ? AND course_id = ? AND status = ?", userID, courseID, courseModels.SubscriptionActive).
		Where("end_date IS NULL OR end_date > ?", a.now()).
		Count(&count).Error
	if err != nil {
		return false, apierr.Internal("Failed to verify course access.", err)
	}
	return count > 0, nil
}
