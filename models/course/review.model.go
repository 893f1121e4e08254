package course

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"verve/models"
)

const (
	MaxReviewTitle   = 100
	MaxReviewComment = 1000
)

// Review is a learner's rating of a course. A user reviews a course at most once.
type Review struct {
	models.Base
	CourseID uuid.UUID `json:"courseId" gorm:"type:uuid;uniqueIndex:idx_review_user_course;index:idx_review_course_rating;not null"`
	UserID   uuid.UUID `json:"userId" gorm:"type:uuid;uniqueIndex:idx_review_user_course;not null"`
	Rating   int       `json:"rating" gorm:"not null;index:idx_review_course_rating;check:rating >= 1 AND rating <= 5"`
	Title    string    `json:"title" gorm:"not null"`
	Comment  string    `json:"comment" gorm:"type:text;not null"`

	// Associations - only loaded for listings
	User *models.User `json:"-" gorm:"foreignKey:UserID"`
}

func (r *Review) Validate() error {
	if r.Rating < 1 || r.Rating > 5 {
		return errors.New("rating must be between 1 and 5")
	}
	if strings.TrimSpace(r.Title) == "" || strings.TrimSpace(r.Comment) == "" {
		return errors.New("title and comment are required")
	}
	if utf8.RuneCountInString(r.Title) > MaxReviewTitle {
		return errors.New("title must be at most 100 characters")
	}
	if utf8.RuneCountInString(r.Comment) > MaxReviewComment {
		return errors.New("comment must be at most 1000 characters")
	}
	return nil
}
