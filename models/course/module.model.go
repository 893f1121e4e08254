package course

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"verve/models"
)

// Module represents a section within a course. Order is display order only.
type Module struct {
	models.Base
	CourseID    uuid.UUID `json:"courseId" gorm:"type:uuid;index;not null"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description"`
	Order       int       `json:"order" gorm:"column:order_index;default:0"`
	Lessons     []Lesson  `json:"lessons" gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE"`
}

func (m *Module) Validate() error {
	if strings.TrimSpace(m.Title) == "" {
		return errors.New("module title is required")
	}
	for _, l := range m.Lessons {
		if err := l.Validate(); err != nil {
			return err
		}
	}
	return nil
}
