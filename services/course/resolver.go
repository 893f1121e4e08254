package courseService

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"verve/apierr"
	courseModels "verve/models/course"
)

var ErrCourseNotFound = apierr.NotFound("Course not found.")

// Resolver finds a course by id, then slug, then exact title.
type Resolver struct {
	db *gorm.DB
}

func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

// Resolve returns the first match in priority order id > slug > title.
// Historical links may carry a URL-encoded title, so the identifier is decoded first.
func (r *Resolver) Resolve(ctx context.Context, identifier string) (*courseModels.Course, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, ErrCourseNotFound
	}

	if id, err := uuid.Parse(identifier); err == nil {
		course, err := r.findBy(ctx, "id = ?", id)
		if err != nil || course != nil {
			return course, err
		}
	}

	decoded := identifier
	if d, err := url.PathUnescape(identifier); err == nil {
		decoded = d
	}

	course, err := r.findBy(ctx, "slug = ?", decoded)
	if err != nil || course != nil {
		return course, err
	}
	course, err = r.findBy(ctx, "title = ?", decoded)
	if err != nil || course != nil {
		return course, err
	}
	return nil, ErrCourseNotFound
}

// ByID loads a course by primary key with its content tree.
func (r *Resolver) ByID(ctx context.Context, id uuid.UUID) (*courseModels.Course, error) {
	course, err := r.findBy(ctx, "id = ?", id)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}
	return course, nil
}

// findBy returns (nil, nil) on a miss so callers can fall through to the next tier.
func (r *Resolver) findBy(ctx context.Context, query string, arg interface{}) (*courseModels.Course, error) {
	var course courseModels.Course
	err := withContent(r.db.WithContext(ctx)).Where(query, arg).Order("created_at asc").First(&course).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apierr.Internal("Unable to fetch course. Please try again later.", err)
	}
	return &course, nil
}

// withContent preloads modules and lessons in display order.
func withContent(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Modules", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("order_index asc, created_at asc")
		}).
		Preload("Modules.Lessons", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("order_index asc, created_at asc")
		})
}
