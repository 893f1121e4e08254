package course

import (
	"time"

	"github.com/google/uuid"

	"verve/models"
)

// Enrollment is bookkeeping only; it never grants access to a paid course by itself.
type Enrollment struct {
	models.Base
	UserID       uuid.UUID `json:"userId" gorm:"type:uuid;uniqueIndex:idx_enrollment_user_course;not null"`
	CourseID     uuid.UUID `json:"courseId" gorm:"type:uuid;uniqueIndex:idx_enrollment_user_course;not null"`
	EnrolledAt   time.Time `json:"enrolledAt"`
	LastAccessed time.Time `json:"lastAccessed"`
}
