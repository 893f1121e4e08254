package courseService

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"verve/apierr"
	courseModels "verve/models/course"
)

// EnrollmentLedger records which users are enrolled in which courses. It does not
// enforce payment; routes call it after access has been confirmed.
type EnrollmentLedger struct {
	db  *gorm.DB
	now func() time.Time
}

func NewEnrollmentLedger(db *gorm.DB) *EnrollmentLedger {
	return &EnrollmentLedger{db: db, now: time.Now}
}

// Enroll is idempotent. It reports whether a new enrollment was recorded; an existing one
// only gets its lastAccessed refreshed. The progress record is created alongside.
func (l *EnrollmentLedger) Enroll(ctx context.Context, userID, courseID uuid.UUID) (*courseModels.Enrollment, bool, error) {
	now := l.now()
	created := false
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		enrollment := courseModels.Enrollment{
			UserID:       userID,
			CourseID:     courseID,
			EnrolledAt:   now,
			LastAccessed: now,
		}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
			DoNothing: true,
		}).Create(&enrollment)
		if res.Error != nil {
			return res.Error
		}
		created = res.RowsAffected > 0

		if created {
			if err := tx.Model(&courseModels.Course{}).
				Where("id = ?", courseID).
				UpdateColumn("enrollment_count", gorm.Expr("enrollment_count + ?", 1)).Error; err != nil {
				return err
			}
		} else if err := tx.Model(&courseModels.Enrollment{}).
			Where("user_id = ? AND course_id = ?", userID, courseID).
			UpdateColumn("last_accessed", now).Error; err != nil {
			return err
		}

		_, err := ensureProgress(tx, userID, courseID, now)
		return err
	})
	if err != nil {
		return nil, false, apierr.Internal("Failed to enroll in course. Please try again.", err)
	}

	enrollment, err := l.Get(ctx, userID, courseID)
	if err != nil {
		return nil, false, err
	}
	return enrollment, created, nil
}

func (l *EnrollmentLedger) Get(ctx context.Context, userID, courseID uuid.UUID) (*courseModels.Enrollment, error) {
	var enrollment courseModels.Enrollment
	res := l.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Limit(1).
		Find(&enrollment)
	if res.Error != nil {
		return nil, apierr.Internal("Failed to fetch enrollment.", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apierr.NotFound("Not enrolled in this course.")
	}
	return &enrollment, nil
}

func (l *EnrollmentLedger) IsEnrolled(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	var count int64
	if err := l.db.WithContext(ctx).Model(&courseModels.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error; err != nil {
		return false, apierr.Internal("Failed to fetch enrollment.", err)
	}
	return count > 0, nil
}

// ListForUser returns the user's enrollments, most recent first.
func (l *EnrollmentLedger) ListForUser(ctx context.Context, userID uuid.UUID) ([]courseModels.Enrollment, error) {
	enrollments := []courseModels.Enrollment{}
	if err := l.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("enrolled_at desc").
		Find(&enrollments).Error; err != nil {
		return nil, apierr.Internal("Failed to fetch enrollments.", err)
	}
	return enrollments, nil
}

// Touch refreshes lastAccessed on an existing enrollment; a missing one is ignored.
func (l *EnrollmentLedger) Touch(ctx context.Context, userID, courseID uuid.UUID) error {
	if err := l.db.WithContext(ctx).Model(&courseModels.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		UpdateColumn("last_accessed", l.now()).Error; err != nil {
		return apierr.Internal("Failed to update enrollment.", err)
	}
	return nil
}
