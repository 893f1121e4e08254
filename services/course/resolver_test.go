package courseService

import (
	"context"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	course := f.course(t, twoLessonCourse("Intro to Networking"))
	require.Equal(t, "intro-to-networking", course.Slug)

	for _, identifier := range []string{
		course.ID.String(),
		"intro-to-networking",
		"Intro to Networking",
		url.PathEscape("Intro to Networking"),
	} {
		got, err := f.svc.Resolver.Resolve(ctx, identifier)
		require.NoError(t, err, identifier)
		assert.Equal(t, course.ID, got.ID, identifier)
		require.Len(t, got.Modules, 1)
		assert.Len(t, got.Modules[0].Lessons, 2, "content tree is preloaded")
	}
}

func TestResolveMisses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.course(t, twoLessonCourse("Intro to Networking"))

	for _, identifier := range []string{"", "   ", uuid.NewString(), "intro", "intro to networking"} {
		_, err := f.svc.Resolver.Resolve(ctx, identifier)
		assert.ErrorIs(t, err, ErrCourseNotFound, "identifier %q", identifier)
	}
}

func TestResolvePrefersSlugOverTitle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// the second course's title equals the first course's slug
	first := f.course(t, twoLessonCourse("Go Basics"))
	f.course(t, twoLessonCourse("go-basics"))

	got, err := f.svc.Resolver.Resolve(ctx, "go-basics")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
}

func TestResolveLessonOrder(t *testing.T) {
	f := newFixture(t)
	in := twoLessonCourse("Ordering")
	in.Modules[0].Lessons[0].Order = 2
	in.Modules[0].Lessons[1].Order = 1
	course := f.course(t, in)

	lessons := course.Lessons()
	require.Len(t, lessons, 2)
	assert.Equal(t, "Lesson B", lessons[0].Title)
	assert.Equal(t, "Lesson A", lessons[1].Title)
}
