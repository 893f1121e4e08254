package course

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"verve/models"
)

// Lesson ids are stable once created; progress records reference them.
type Lesson struct {
	models.Base
	ModuleID       uuid.UUID                         `json:"moduleId" gorm:"type:uuid;index;not null"`
	CourseID       uuid.UUID                         `json:"courseId" gorm:"type:uuid;index;not null"`
	Title          string                            `json:"title" gorm:"not null"`
	ContentURL     string                            `json:"contentUrl"`
	Content        string                            `json:"content,omitempty" gorm:"type:text"`
	ContentFileKey string                            `json:"-"`
	VideoURL       string                            `json:"videoUrl"`
	VideoType      string                            `json:"videoType" gorm:"default:'custom'"`
	VideoDuration  int                               `json:"videoDuration"` // seconds
	Order          int                               `json:"order" gorm:"column:order_index;default:0"`
	Quiz           datatypes.JSONSlice[QuizQuestion] `json:"quiz"`
}

func (l *Lesson) Validate() error {
	if strings.TrimSpace(l.Title) == "" {
		return errors.New("lesson title is required")
	}
	switch l.VideoType {
	case "", "youtube", "vimeo", "custom":
	default:
		return errors.New("lesson videoType must be youtube, vimeo or custom")
	}
	for i, q := range l.Quiz {
		if err := q.Validate(); err != nil {
			return errors.New("lesson " + l.Title + " question " + itoa(i) + ": " + err.Error())
		}
	}
	return nil
}
