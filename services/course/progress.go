package courseService

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"verve/apierr"
	courseModels "verve/models/course"
)

var ErrProgressNotFound = apierr.NotFound("Progress not found.")

// keepHigherScore is the conflict assignment that makes quiz scores monotonic.
var keepHigherScore = gorm.Expr(
	"CASE WHEN excluded.quiz_score > completed_lessons.quiz_score " +
		"THEN excluded.quiz_score ELSE completed_lessons.quiz_score END",
)

// ProgressStore persists per-user, per-course progress. Every write is a single
// transaction built on conflict clauses, so concurrent submissions cannot duplicate a
// lesson entry or lose a higher score.
type ProgressStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewProgressStore(db *gorm.DB) *ProgressStore {
	return &ProgressStore{db: db, now: time.Now}
}

// Ensure creates the progress record for the pair if it does not exist yet.
func (s *ProgressStore) Ensure(ctx context.Context, userID, courseID uuid.UUID) (*courseModels.Progress, error) {
	if _, err := ensureProgress(s.db.WithContext(ctx), userID, courseID, s.now()); err != nil {
		return nil, apierr.Internal("Failed to create progress.", err)
	}
	return s.Get(ctx, userID, courseID)
}

// RecordLessonCompletion appends the lesson when absent, otherwise raises the stored
// quiz score only if the new one is strictly higher. lastAccessed is always refreshed.
func (s *ProgressStore) RecordLessonCompletion(ctx context.Context, userID, courseID, lessonID uuid.UUID, quizScore int) (*courseModels.Progress, error) {
	now := s.now()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		progressID, err := ensureProgress(tx, userID, courseID, now)
		if err != nil {
			return err
		}

		entry := courseModels.CompletedLesson{
			ProgressID:  progressID,
			LessonID:    lessonID,
			CompletedAt: now,
			QuizScore:   quizScore,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "progress_id"}, {Name: "lesson_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"quiz_score": keepHigherScore}),
		}).Create(&entry).Error; err != nil {
			return err
		}

		return tx.Model(&courseModels.Progress{}).
			Where("id = ?", progressID).
			UpdateColumn("last_accessed", now).Error
	})
	if err != nil {
		return nil, apierr.Internal("Failed to complete lesson. Please try again.", err)
	}
	return s.Get(ctx, userID, courseID)
}

// RecordExamAttempt appends an attempt; finalExamScore and finalExamPassed always
// mirror the latest attempt, not the best one.
func (s *ProgressStore) RecordExamAttempt(ctx context.Context, userID, courseID uuid.UUID, score int, passed bool) (*courseModels.Progress, error) {
	now := s.now()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		progressID, err := ensureProgress(tx, userID, courseID, now)
		if err != nil {
			return err
		}

		attempt := courseModels.ExamAttempt{
			ProgressID:  progressID,
			Score:       score,
			AttemptDate: now,
			Passed:      passed,
		}
		if err := tx.Create(&attempt).Error; err != nil {
			return err
		}

		return tx.Model(&courseModels.Progress{}).
			Where("id = ?", progressID).
			UpdateColumns(map[string]interface{}{
				"final_exam_score":  score,
				"final_exam_passed": passed,
				"last_accessed":     now,
			}).Error
	})
	if err != nil {
		return nil, apierr.Internal("Failed to record exam attempt. Please try again.", err)
	}
	return s.Get(ctx, userID, courseID)
}

// Get loads the progress with completed lessons and attempts in chronological order.
func (s *ProgressStore) Get(ctx context.Context, userID, courseID uuid.UUID) (*courseModels.Progress, error) {
	var progress courseModels.Progress
	err := s.db.WithContext(ctx).
		Preload("CompletedLessons", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("completed_at asc, id asc")
		}).
		Preload("ExamAttempts", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("attempt_date asc, id asc")
		}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProgressNotFound
	}
	if err != nil {
		return nil, apierr.Internal("Unable to fetch progress. Please try again.", err)
	}
	return &progress, nil
}

// Find is Get that reports a missing record as (nil, nil).
func (s *ProgressStore) Find(ctx context.Context, userID, courseID uuid.UUID) (*courseModels.Progress, error) {
	progress, err := s.Get(ctx, userID, courseID)
	if errors.Is(err, ErrProgressNotFound) {
		return nil, nil
	}
	return progress, err
}

// ensureProgress inserts the pair if absent and returns the record id.
func ensureProgress(tx *gorm.DB, userID, courseID uuid.UUID, now time.Time) (uuid.UUID, error) {
	progress := courseModels.Progress{
		UserID:       userID,
		CourseID:     courseID,
		EnrolledAt:   now,
		LastAccessed: now,
	}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoNothing: true,
	}).Create(&progress).Error; err != nil {
		return uuid.Nil, err
	}

	var existing courseModels.Progress
	if err := tx.Select("id").
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&existing).Error; err != nil {
		return uuid.Nil, err
	}
	return existing.ID, nil
}

// AttemptHistory summarizes final exam attempts.
type AttemptHistory struct {
	Attempts      []courseModels.ExamAttempt `json:"attempts"`
	TotalAttempts int                        `json:"totalAttempts"`
	BestScore     int                        `json:"bestScore"`
	HasPassed     bool                       `json:"hasPassed"`
	PassingScore  int                        `json:"passingScore"`
}

func SummarizeAttempts(progress *courseModels.Progress, passingScore int) AttemptHistory {
	history := AttemptHistory{Attempts: []courseModels.ExamAttempt{}, PassingScore: passingScore}
	if progress == nil {
		return history
	}
	history.Attempts = progress.ExamAttempts
	history.TotalAttempts = len(progress.ExamAttempts)
	for _, a := range progress.ExamAttempts {
		if a.Score > history.BestScore {
			history.BestScore = a.Score
		}
		if a.Passed {
			history.HasPassed = true
		}
	}
	return history
}
