package courseService

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verve/apierr"
	"verve/models"
	courseModels "verve/models/course"
)

func TestAccessCheck(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	learner := f.user(t, "learner")
	creator := f.user(t, "creator")
	admin := f.admin(t)

	free := f.course(t, twoLessonCourse("Free Course"))

	premiumIn := twoLessonCourse("Premium Course")
	premiumIn.Tier = courseModels.TierPremium
	premiumIn.AccessType = courseModels.AccessSubscription
	premium, err := f.svc.Catalog.Create(ctx, creator.ID, premiumIn)
	require.NoError(t, err)

	grant, err := f.svc.Access.Check(ctx, Viewer{}, free)
	require.NoError(t, err)
	assert.Equal(t, GrantFree, grant)

	_, err = f.svc.Access.Check(ctx, Viewer{}, premium)
	assert.True(t, apierr.Is(err, apierr.KindUnauthorized))

	learnerView := Viewer{ID: learner.ID, Role: models.RoleUser}
	_, err = f.svc.Access.Check(ctx, learnerView, premium)
	assert.True(t, apierr.Is(err, apierr.KindForbidden))

	// enrollment alone grants nothing
	_, _, err = f.svc.Enrollments.Enroll(ctx, learner.ID, premium.ID)
	require.NoError(t, err)
	_, err = f.svc.Access.Check(ctx, learnerView, premium)
	assert.True(t, apierr.Is(err, apierr.KindForbidden))

	grant, err = f.svc.Access.Check(ctx, Viewer{ID: admin.ID, Role: models.RoleAdmin}, premium)
	require.NoError(t, err)
	assert.Equal(t, GrantAdmin, grant)

	grant, err = f.svc.Access.Check(ctx, Viewer{ID: creator.ID, Role: models.RoleUser}, premium)
	require.NoError(t, err)
	assert.Equal(t, GrantCreator, grant)

	end := time.Now().Add(24 * time.Hour)
	sub := courseModels.Subscription{
		UserID:           learner.ID,
		CourseID:         premium.ID,
		SubscriptionType: "monthly",
		StartDate:        time.Now(),
		EndDate:          &end,
		Status:           courseModels.SubscriptionActive,
	}
	require.NoError(t, f.db.Create(&sub).Error)

	grant, err = f.svc.Access.Check(ctx, learnerView, premium)
	require.NoError(t, err)
	assert.Equal(t, GrantSubscription, grant)

	// access is recomputed, so the grant ends with the subscription
	f.svc.Access.now = func() time.Time { return end.Add(time.Minute) }
	_, err = f.svc.Access.Check(ctx, learnerView, premium)
	assert.True(t, apierr.Is(err, apierr.KindForbidden))
}

func TestAccessLifetimeAndCancelledSubscriptions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	course := uuid.New()
	lifetime := f.user(t, "lifetime")
	cancelled := f.user(t, "cancelled")

	require.NoError(t, f.db.Create(&courseModels.Subscription{
		UserID: lifetime.ID, CourseID: course, SubscriptionType: "lifetime",
		StartDate: time.Now(), Status: courseModels.SubscriptionActive,
	}).Error)
	require.NoError(t, f.db.Create(&courseModels.Subscription{
		UserID: cancelled.ID, CourseID: course, SubscriptionType: "monthly",
		StartDate: time.Now(), Status: courseModels.SubscriptionCancelled,
	}).Error)

	ok, err := f.svc.Access.HasActiveSubscription(ctx, lifetime.ID, course)
	require.NoError(t, err)
	assert.True(t, ok, "no end date never expires")

	ok, err = f.svc.Access.HasActiveSubscription(ctx, cancelled.ID, course)
	require.NoError(t, err)
	assert.False(t, ok)
}
