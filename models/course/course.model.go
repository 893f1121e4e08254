package course

import (
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"verve/models"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"

	TierFree       = "free"
	TierPremium    = "premium"
	TierEnterprise = "enterprise"

	AccessPublic       = "public"
	AccessPremium      = "premium"
	AccessSubscription = "subscription"

	DefaultPassingScore = 70
)

// Course is a structured collection of modules and lessons with an optional final exam.
type Course struct {
	models.Base
	Title            string     `json:"title" gorm:"not null"`
	Slug             string     `json:"slug" gorm:"uniqueIndex"`
	Description      string     `json:"description"`
	ImageURL         string     `json:"imageUrl"`
	ImageFileKey     string     `json:"-"`
	Status           string     `json:"status" gorm:"default:'draft'"`
	Tier             string     `json:"tier" gorm:"default:'free'"`
	AccessType       string     `json:"accessType" gorm:"default:'public'"`
	CreatedBy        *uuid.UUID `json:"createdBy" gorm:"type:uuid"`
	Modules          []Module   `json:"modules" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
	FinalExam        FinalExam  `json:"finalExam" gorm:"embedded;embeddedPrefix:final_exam_"`
	EnrollmentCount  int        `json:"enrollmentCount" gorm:"default:0"`
	CertificateCount int        `json:"certificateCount" gorm:"default:0"`
}

// FinalExam is embedded in the course row; its questions live in a JSON column.
type FinalExam struct {
	Questions    datatypes.JSONSlice[QuizQuestion] `json:"questions"`
	PassingScore int                               `json:"passingScore" gorm:"default:70"`
	Duration     int                               `json:"duration"` // minutes
	IsEnabled    bool                              `json:"isEnabled" gorm:"default:false"`
}

// Threshold is the configured passing score, falling back to the default.
func (e FinalExam) Threshold() int {
	if e.PassingScore <= 0 {
		return DefaultPassingScore
	}
	return e.PassingScore
}

// Active reports whether the exam gates certification.
func (e FinalExam) Active() bool {
	return e.IsEnabled && len(e.Questions) > 0
}

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases the title and collapses every run of non-alphanumerics into a dash.
func Slugify(title string) string {
	s := slugInvalid.ReplaceAllString(strings.ToLower(strings.TrimSpace(title)), "-")
	return strings.Trim(s, "-")
}

// Lessons returns every lesson across all modules in module order.
func (c *Course) Lessons() []Lesson {
	var out []Lesson
	for _, m := range c.Modules {
		out = append(out, m.Lessons...)
	}
	return out
}

// LessonIDs returns the set of lesson ids in the course.
func (c *Course) LessonIDs() map[uuid.UUID]struct{} {
	ids := make(map[uuid.UUID]struct{})
	for _, m := range c.Modules {
		for _, l := range m.Lessons {
			ids[l.ID] = struct{}{}
		}
	}
	return ids
}

// FindLesson looks a lesson up by id across modules.
func (c *Course) FindLesson(id uuid.UUID) (*Lesson, bool) {
	for i := range c.Modules {
		for j := range c.Modules[i].Lessons {
			if c.Modules[i].Lessons[j].ID == id {
				return &c.Modules[i].Lessons[j], true
			}
		}
	}
	return nil, false
}

// IsFreeAccess reports whether anyone may open the course.
func (c *Course) IsFreeAccess() bool {
	return c.Tier == TierFree && c.AccessType == AccessPublic
}

// Validate replaces declarative schema validators with explicit checks.
func (c *Course) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return errors.New("course title is required")
	}
	switch c.Status {
	case "", StatusDraft, StatusPublished:
	default:
		return errors.New("status must be draft or published")
	}
	switch c.Tier {
	case "", TierFree, TierPremium, TierEnterprise:
	default:
		return errors.New("tier must be free, premium or enterprise")
	}
	switch c.AccessType {
	case "", AccessPublic, AccessPremium, AccessSubscription:
	default:
		return errors.New("accessType must be public, premium or subscription")
	}
	if c.FinalExam.PassingScore < 0 || c.FinalExam.PassingScore > 100 {
		return errors.New("final exam passing score must be between 0 and 100")
	}
	for i, q := range c.FinalExam.Questions {
		if err := q.Validate(); err != nil {
			return errors.New("final exam question " + itoa(i) + ": " + err.Error())
		}
	}
	for _, m := range c.Modules {
		if err := m.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// BeforeSave fills defaults and validates the course row.
func (c *Course) BeforeSave(tx *gorm.DB) error {
	if c.Slug == "" {
		c.Slug = Slugify(c.Title)
	}
	if c.Status == "" {
		c.Status = StatusDraft
	}
	if c.Tier == "" {
		c.Tier = TierFree
	}
	if c.AccessType == "" {
		c.AccessType = AccessPublic
	}
	if c.FinalExam.PassingScore == 0 {
		c.FinalExam.PassingScore = DefaultPassingScore
	}
	return c.Validate()
}
