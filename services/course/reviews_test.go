package courseService

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verve/apierr"
	"verve/models"
	courseModels "verve/models/course"
)

func review(rating int) ReviewInput {
	return ReviewInput{Rating: rating, Title: "Solid course", Comment: "Clear lessons and a fair exam."}
}

func TestReviewRequiresEnrollment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	course := f.course(t, twoLessonCourse("Reviewed"))
	u := f.user(t, "stranger")

	_, err := f.svc.Reviews.Create(ctx, u.ID, course, review(5))
	require.Error(t, err)
	assert.True(t, apierr.Is(err, apierr.KindForbidden))

	// progress without an enrollment row still counts
	_, err = f.svc.CompleteLesson(ctx, u.ID, course, course.Lessons()[1].ID.String(), 0)
	require.NoError(t, err)
	created, err := f.svc.Reviews.Create(ctx, u.ID, course, review(4))
	require.NoError(t, err)
	assert.Equal(t, 4, created.Rating)
	assert.Equal(t, course.ID, created.CourseID)
}

func TestDuplicateReviewConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	course := f.course(t, twoLessonCourse("Once"))
	u := f.user(t, "learner")
	_, _, err := f.svc.Enrollments.Enroll(ctx, u.ID, course.ID)
	require.NoError(t, err)

	_, err = f.svc.Reviews.Create(ctx, u.ID, course, review(5))
	require.NoError(t, err)
	_, err = f.svc.Reviews.Create(ctx, u.ID, course, review(1))
	require.Error(t, err)
	assert.True(t, apierr.Is(err, apierr.KindConflict))

	var count int64
	require.NoError(t, f.db.Model(&courseModels.Review{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestReviewRejectsOutOfRangeRating(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	course := f.course(t, twoLessonCourse("Range"))
	u := f.user(t, "learner")
	_, _, err := f.svc.Enrollments.Enroll(ctx, u.ID, course.ID)
	require.NoError(t, err)

	_, err = f.svc.Reviews.Create(ctx, u.ID, course, review(6))
	require.Error(t, err)
	assert.True(t, apierr.Is(err, apierr.KindValidation))
}

func TestReviewListStatsAndOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	course := f.course(t, twoLessonCourse("Popular"))
	other := f.course(t, twoLessonCourse("Other"))

	ratings := []int{5, 3, 4}
	base := time.Now().Add(-time.Hour)
	for i, r := range ratings {
		u := f.user(t, "learner")
		_, _, err := f.svc.Enrollments.Enroll(ctx, u.ID, course.ID)
		require.NoError(t, err)
		created, err := f.svc.Reviews.Create(ctx, u.ID, course, review(r))
		require.NoError(t, err)
		require.NoError(t, f.db.Model(created).UpdateColumn("created_at", base.Add(time.Duration(i)*time.Minute)).Error)
	}
	u := f.user(t, "elsewhere")
	_, _, err := f.svc.Enrollments.Enroll(ctx, u.ID, other.ID)
	require.NoError(t, err)
	_, err = f.svc.Reviews.Create(ctx, u.ID, other, review(1))
	require.NoError(t, err)

	page, err := f.svc.Reviews.List(ctx, course.ID, ReviewQuery{Page: 1, Limit: 2, SortBy: "recent"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Stats.TotalReviews)
	assert.Equal(t, 4.0, page.Stats.AvgRating)
	assert.Equal(t, int64(1), page.Stats.FiveStars)
	assert.Equal(t, int64(1), page.Stats.FourStars)
	assert.Equal(t, int64(1), page.Stats.ThreeStars)
	assert.Equal(t, int64(0), page.Stats.OneStar)
	assert.Equal(t, Pagination{Total: 3, Page: 1, Limit: 2, Pages: 2}, page.Pagination)
	require.Len(t, page.Reviews, 2)
	assert.Equal(t, 4, page.Reviews[0].Rating, "newest first")
	assert.Equal(t, "learner", page.Reviews[0].UserName)

	page, err = f.svc.Reviews.List(ctx, course.ID, ReviewQuery{Page: 1, Limit: 10, SortBy: "rating"})
	require.NoError(t, err)
	require.Len(t, page.Reviews, 3)
	assert.Equal(t, []int{5, 4, 3}, []int{page.Reviews[0].Rating, page.Reviews[1].Rating, page.Reviews[2].Rating})

	empty, err := f.svc.Reviews.List(ctx, f.course(t, twoLessonCourse("Quiet")).ID, ReviewQuery{})
	require.NoError(t, err)
	assert.Empty(t, empty.Reviews)
	assert.Equal(t, 0.0, empty.Stats.AvgRating)
}

func TestReviewUpdateAndDeleteOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	course := f.course(t, twoLessonCourse("Owned"))
	author := f.user(t, "author")
	other := f.user(t, "other")
	admin := f.admin(t)
	_, _, err := f.svc.Enrollments.Enroll(ctx, author.ID, course.ID)
	require.NoError(t, err)
	created, err := f.svc.Reviews.Create(ctx, author.ID, course, review(3))
	require.NoError(t, err)
	id := created.ID.String()

	rating := 5
	_, err = f.svc.Reviews.Update(ctx, Viewer{ID: other.ID}, id, ReviewUpdate{Rating: &rating})
	assert.True(t, apierr.Is(err, apierr.KindForbidden))

	comment := "  Better on a second pass.  "
	updated, err := f.svc.Reviews.Update(ctx, Viewer{ID: author.ID}, id, ReviewUpdate{Rating: &rating, Comment: &comment})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)
	assert.Equal(t, "Better on a second pass.", updated.Comment)
	assert.Equal(t, "Solid course", updated.Title)

	_, err = f.svc.Reviews.Update(ctx, Viewer{ID: author.ID}, "not-a-uuid", ReviewUpdate{Rating: &rating})
	assert.True(t, apierr.Is(err, apierr.KindNotFound))

	err = f.svc.Reviews.Delete(ctx, Viewer{ID: other.ID}, id)
	assert.True(t, apierr.Is(err, apierr.KindForbidden))
	require.NoError(t, f.svc.Reviews.Delete(ctx, Viewer{ID: admin.ID, Role: models.RoleAdmin}, id))
	err = f.svc.Reviews.Delete(ctx, Viewer{ID: author.ID}, id)
	assert.True(t, apierr.Is(err, apierr.KindNotFound))

	// removal frees the slot for a new review
	_, err = f.svc.Reviews.Create(ctx, author.ID, course, review(4))
	require.NoError(t, err)
}

func TestCourseDeleteRemovesReviews(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	course := f.course(t, twoLessonCourse("Doomed"))
	u := f.user(t, "learner")
	_, _, err := f.svc.Enrollments.Enroll(ctx, u.ID, course.ID)
	require.NoError(t, err)
	_, err = f.svc.Reviews.Create(ctx, u.ID, course, review(2))
	require.NoError(t, err)

	require.NoError(t, f.svc.Catalog.Delete(ctx, course.ID.String()))

	var count int64
	require.NoError(t, f.db.Model(&courseModels.Review{}).Count(&count).Error)
	assert.Zero(t, count)
}
