package course

import (
	"time"

	"github.com/google/uuid"

	"verve/models"
)

// Progress is the per-user, per-course record of lesson completion and exam attempts.
type Progress struct {
	models.Base
	UserID           uuid.UUID         `json:"userId" gorm:"type:uuid;uniqueIndex:idx_progress_user_course;not null"`
	CourseID         uuid.UUID         `json:"courseId" gorm:"type:uuid;uniqueIndex:idx_progress_user_course;not null"`
	CompletedLessons []CompletedLesson `json:"completedLessons" gorm:"foreignKey:ProgressID;constraint:OnDelete:CASCADE"`
	FinalExamScore   *int              `json:"finalExamScore"`
	FinalExamPassed  *bool             `json:"finalExamPassed"`
	ExamAttempts     []ExamAttempt     `json:"examAttempts" gorm:"foreignKey:ProgressID;constraint:OnDelete:CASCADE"`
	EnrolledAt       time.Time         `json:"enrolledAt"`
	LastAccessed     time.Time         `json:"lastAccessed"`
}

// CompletedLesson holds at most one row per (progress, lesson).
type CompletedLesson struct {
	models.Base
	ProgressID  uuid.UUID `json:"-" gorm:"type:uuid;uniqueIndex:idx_completed_progress_lesson;not null"`
	LessonID    uuid.UUID `json:"lessonId" gorm:"type:uuid;uniqueIndex:idx_completed_progress_lesson;not null"`
	CompletedAt time.Time `json:"completedAt"`
	QuizScore   int       `json:"quizScore" gorm:"default:0"`
}

// ExamAttempt is appended for every final exam submission.
type ExamAttempt struct {
	models.Base
	ProgressID  uuid.UUID `json:"-" gorm:"type:uuid;index;not null"`
	Score       int       `json:"score"`
	AttemptDate time.Time `json:"attemptDate"`
	Passed      bool      `json:"passed"`
}

// CompletedSet returns the ids of completed lessons.
func (p *Progress) CompletedSet() map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(p.CompletedLessons))
	for _, cl := range p.CompletedLessons {
		set[cl.LessonID] = struct{}{}
	}
	return set
}

// Covers reports whether every lesson of the course appears in the completed set.
// Entries for lessons no longer in the course are ignored.
func (p *Progress) Covers(c *Course) bool {
	ids := c.LessonIDs()
	if len(ids) == 0 {
		return false
	}
	done := p.CompletedSet()
	for id := range ids {
		if _, ok := done[id]; !ok {
			return false
		}
	}
	return true
}

// HasPassedExam reports whether the latest exam attempt passed.
func (p *Progress) HasPassedExam() bool {
	return p.FinalExamPassed != nil && *p.FinalExamPassed
}
