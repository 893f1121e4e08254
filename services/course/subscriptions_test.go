package courseService

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	courseModels "verve/models/course"
)

func TestExpireDue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	subs := []courseModels.Subscription{
		{Status: courseModels.SubscriptionActive, EndDate: &past},
		{Status: courseModels.SubscriptionActive, EndDate: &future},
		{Status: courseModels.SubscriptionActive},
		{Status: courseModels.SubscriptionCancelled, EndDate: &past},
	}
	for i := range subs {
		subs[i].UserID = uuid.New()
		subs[i].CourseID = uuid.New()
		subs[i].SubscriptionType = "monthly"
		subs[i].StartDate = now.Add(-48 * time.Hour)
		require.NoError(t, f.db.Create(&subs[i]).Error)
	}

	f.svc.Subscriptions.now = func() time.Time { return now }
	expired, err := f.svc.Subscriptions.ExpireDue(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), expired)

	statusOf := func(id uuid.UUID) string {
		var stored courseModels.Subscription
		require.NoError(t, f.db.First(&stored, "id = ?", id).Error)
		return stored.Status
	}
	assert.Equal(t, courseModels.SubscriptionExpired, statusOf(subs[0].ID))
	assert.Equal(t, courseModels.SubscriptionActive, statusOf(subs[1].ID))
	assert.Equal(t, courseModels.SubscriptionActive, statusOf(subs[2].ID))
	assert.Equal(t, courseModels.SubscriptionCancelled, statusOf(subs[3].ID))

	expired, err = f.svc.Subscriptions.ExpireDue(ctx)
	require.NoError(t, err)
	assert.Zero(t, expired, "a second run matches nothing")
}
