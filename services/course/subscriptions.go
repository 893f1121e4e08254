package courseService

import (
	"context"
	"time"

	"gorm.io/gorm"

	"verve/apierr"
	"verve/logger"
	courseModels "verve/models/course"
)

// SubscriptionJobs holds the externally triggered subscription maintenance.
type SubscriptionJobs struct {
	db  *gorm.DB
	now func() time.Time
}

func NewSubscriptionJobs(db *gorm.DB) *SubscriptionJobs {
	return &SubscriptionJobs{db: db, now: time.Now}
}

// ExpireDue marks active subscriptions whose end date has passed as expired. Running it
// twice is harmless; the second run matches nothing.
func (j *SubscriptionJobs) ExpireDue(ctx context.Context) (int64, error) {
	now := j.now()
	res := j.db.WithContext(ctx).Model(&courseModels.Subscription{}).
		Where("status = ? AND end_date IS NOT NULL AND end_date <= ?", courseModels.SubscriptionActive, now).
		UpdateColumns(map[string]interface{}{
			"status":     courseModels.SubscriptionExpired,
			"updated_at": now,
		})
	if res.Error != nil {
		return 0, apierr.Internal("Failed to expire subscriptions.", res.Error)
	}
	logger.L().Info("expired subscriptions", "count", res.RowsAffected)
	return res.RowsAffected, nil
}
