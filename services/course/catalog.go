package courseService

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"verve/apierr"
	"verve/logger"
	courseModels "verve/models/course"
)

// slug allocation races are retried this many times
const maxSlugAttempts = 3

// ObjectStore is the binary asset collaborator.
type ObjectStore interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// Upload is a file received from a multipart request.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

type LessonInput struct {
	ID            string                      `json:"id,omitempty" validate:"omitempty,uuid"`
	Title         string                      `json:"title" validate:"required"`
	Content       string                      `json:"content"`
	ContentURL    string                      `json:"contentUrl" validate:"omitempty,url"`
	VideoURL      string                      `json:"videoUrl" validate:"omitempty,url"`
	VideoType     string                      `json:"videoType" validate:"omitempty,oneof=youtube vimeo custom"`
	VideoDuration int                         `json:"videoDuration" validate:"gte=0"`
	Order         int                         `json:"order"`
	Quiz          []courseModels.QuizQuestion `json:"quiz" validate:"dive"`
}

type ModuleInput struct {
	ID          string        `json:"id,omitempty" validate:"omitempty,uuid"`
	Title       string        `json:"title" validate:"required"`
	Description string        `json:"description"`
	Order       int           `json:"order"`
	Lessons     []LessonInput `json:"lessons" validate:"dive"`
}

type FinalExamInput struct {
	Questions    []courseModels.QuizQuestion `json:"questions" validate:"dive"`
	PassingScore int                         `json:"passingScore" validate:"gte=0,lte=100"`
	Duration     int                         `json:"duration" validate:"gte=0"`
	IsEnabled    bool                        `json:"isEnabled"`
}

type CourseInput struct {
	Title       string          `json:"title" validate:"required"`
	Description string          `json:"description"`
	Status      string          `json:"status" validate:"omitempty,oneof=draft published"`
	Tier        string          `json:"tier" validate:"omitempty,oneof=free premium enterprise"`
	AccessType  string          `json:"accessType" validate:"omitempty,oneof=public premium subscription"`
	Modules     []ModuleInput   `json:"modules" validate:"dive"`
	FinalExam   *FinalExamInput `json:"finalExam"`
}

// CourseUpdate carries only the fields to change; nil leaves a field untouched.
type CourseUpdate struct {
	Title       *string         `json:"title" validate:"omitempty,min=1"`
	Description *string         `json:"description"`
	Status      *string         `json:"status" validate:"omitempty,oneof=draft published"`
	Tier        *string         `json:"tier" validate:"omitempty,oneof=free premium enterprise"`
	AccessType  *string         `json:"accessType" validate:"omitempty,oneof=public premium subscription"`
	Modules     *[]ModuleInput  `json:"modules" validate:"omitempty,dive"`
	FinalExam   *FinalExamInput `json:"finalExam"`
}

// Catalog holds the admin writes over course content.
type Catalog struct {
	db       *gorm.DB
	resolver *Resolver
	store    ObjectStore
	now      func() time.Time
}

func NewCatalog(db *gorm.DB, resolver *Resolver, store ObjectStore) *Catalog {
	return &Catalog{db: db, resolver: resolver, store: store, now: time.Now}
}

// List returns every course with its content tree, optionally filtered by status.
func (c *Catalog) List(ctx context.Context, status string) ([]courseModels.Course, error) {
	courses := []courseModels.Course{}
	q := withContent(c.db.WithContext(ctx)).Order("created_at desc")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Find(&courses).Error; err != nil {
		return nil, apierr.Internal("Unable to fetch courses. Please try again later.", err)
	}
	return courses, nil
}

// Create stores a course with its nested content. The slug is made unique at write time.
func (c *Catalog) Create(ctx context.Context, creator uuid.UUID, in CourseInput) (*courseModels.Course, error) {
	course := courseModels.Course{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Status:      in.Status,
		Tier:        in.Tier,
		AccessType:  in.AccessType,
	}
	course.ID = uuid.New()
	if creator != uuid.Nil {
		course.CreatedBy = &creator
	}
	if in.FinalExam != nil {
		course.FinalExam = finalExamFrom(*in.FinalExam)
	}

	modules, err := buildModules(course.ID, in.Modules, nil)
	if err != nil {
		return nil, err
	}
	course.Modules = modules
	if err := course.Validate(); err != nil {
		return nil, apierr.Validation(err.Error())
	}

	base := courseModels.Slugify(course.Title)
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		err = c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			slug, err := uniqueSlug(tx, base)
			if err != nil {
				return err
			}
			course.Slug = slug
			if err := tx.Omit(clause.Associations).Create(&course).Error; err != nil {
				return err
			}
			return insertContent(tx, course.Modules)
		})
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
	}
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierr.Conflict("A course with this slug already exists.")
		}
		return nil, apierr.Internal("Failed to create course. Please check your input and try again.", err)
	}
	return c.resolver.ByID(ctx, course.ID)
}

// Update applies the given fields. A modules list replaces the whole content tree, but
// lessons that carry an existing id keep it along with their uploaded content.
func (c *Catalog) Update(ctx context.Context, identifier string, in CourseUpdate) (*courseModels.Course, error) {
	course, err := c.resolver.Resolve(ctx, identifier)
	if err != nil {
		return nil, err
	}

	next := *course
	columns := map[string]interface{}{"updated_at": c.now()}
	if in.Title != nil {
		next.Title = strings.TrimSpace(*in.Title)
		columns["title"] = next.Title
	}
	if in.Description != nil {
		next.Description = *in.Description
		columns["description"] = next.Description
	}
	if in.Status != nil {
		next.Status = *in.Status
		columns["status"] = next.Status
	}
	if in.Tier != nil {
		next.Tier = *in.Tier
		columns["tier"] = next.Tier
	}
	if in.AccessType != nil {
		next.AccessType = *in.AccessType
		columns["access_type"] = next.AccessType
	}
	if in.FinalExam != nil {
		next.FinalExam = finalExamFrom(*in.FinalExam)
		columns["final_exam_questions"] = next.FinalExam.Questions
		columns["final_exam_passing_score"] = next.FinalExam.PassingScore
		columns["final_exam_duration"] = next.FinalExam.Duration
		columns["final_exam_is_enabled"] = next.FinalExam.IsEnabled
	}

	var modules []courseModels.Module
	if in.Modules != nil {
		modules, err = buildModules(course.ID, *in.Modules, course.Modules)
		if err != nil {
			return nil, err
		}
		next.Modules = modules
	}
	if err := next.Validate(); err != nil {
		return nil, apierr.Validation(err.Error())
	}

	err = c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&courseModels.Course{}).
			Where("id = ?", course.ID).
			UpdateColumns(columns).Error; err != nil {
			return err
		}
		if in.Modules == nil {
			return nil
		}
		if err := tx.Where("course_id = ?", course.ID).Delete(&courseModels.Lesson{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", course.ID).Delete(&courseModels.Module{}).Error; err != nil {
			return err
		}
		return insertContent(tx, modules)
	})
	if err != nil {
		return nil, apierr.Internal("Failed to update course. Please try again.", err)
	}

	if in.Modules != nil {
		kept := make(map[string]struct{})
		for _, m := range modules {
			for _, l := range m.Lessons {
				kept[l.ContentFileKey] = struct{}{}
			}
		}
		var orphaned []string
		for _, l := range course.Lessons() {
			if _, ok := kept[l.ContentFileKey]; !ok && l.ContentFileKey != "" {
				orphaned = append(orphaned, l.ContentFileKey)
			}
		}
		c.deleteObjects(ctx, orphaned...)
	}
	return c.resolver.ByID(ctx, course.ID)
}

// Delete removes the course, its content and learner state except issued certificates,
// then its stored assets.
func (c *Catalog) Delete(ctx context.Context, identifier string) error {
	course, err := c.resolver.Resolve(ctx, identifier)
	if err != nil {
		return err
	}

	err = c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		progressIDs := tx.Model(&courseModels.Progress{}).Select("id").Where("course_id = ?", course.ID)
		steps := []func() error{
			func() error {
				return tx.Where("progress_id IN (?)", progressIDs).Delete(&courseModels.CompletedLesson{}).Error
			},
			func() error {
				return tx.Where("progress_id IN (?)", progressIDs).Delete(&courseModels.ExamAttempt{}).Error
			},
			func() error { return tx.Where("course_id = ?", course.ID).Delete(&courseModels.Progress{}).Error },
			func() error { return tx.Where("course_id = ?", course.ID).Delete(&courseModels.Enrollment{}).Error },
			func() error { return tx.Where("course_id = ?", course.ID).Delete(&courseModels.Review{}).Error },
			func() error { return tx.Where("course_id = ?", course.ID).Delete(&courseModels.Lesson{}).Error },
			func() error { return tx.Where("course_id = ?", course.ID).Delete(&courseModels.Module{}).Error },
			func() error { return tx.Where("id = ?", course.ID).Delete(&courseModels.Course{}).Error },
		}
		for _, step := range steps {
			if err := step(); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return apierr.Internal("Failed to delete course. Please try again.", err)
	}

	keys := []string{course.ImageFileKey}
	for _, l := range course.Lessons() {
		keys = append(keys, l.ContentFileKey)
	}
	c.deleteObjects(ctx, keys...)
	return nil
}

// SetImage uploads a new course image and deletes the one it replaces.
func (c *Catalog) SetImage(ctx context.Context, identifier string, file Upload) (*courseModels.Course, error) {
	course, err := c.resolver.Resolve(ctx, identifier)
	if err != nil {
		return nil, err
	}

	key, url, err := c.upload(ctx, "courses/images", file)
	if err != nil {
		return nil, apierr.Validation("Failed to upload course image. Please try again.")
	}

	if err := c.db.WithContext(ctx).Model(&courseModels.Course{}).
		Where("id = ?", course.ID).
		UpdateColumns(map[string]interface{}{
			"image_url":      url,
			"image_file_key": key,
			"updated_at":     c.now(),
		}).Error; err != nil {
		c.deleteObjects(ctx, key)
		return nil, apierr.Internal("Failed to update course image.", err)
	}
	c.deleteObjects(ctx, course.ImageFileKey)

	course.ImageURL = url
	course.ImageFileKey = key
	return course, nil
}

// SetLessonContent uploads a lesson's content file, clearing inline content.
func (c *Catalog) SetLessonContent(ctx context.Context, identifier, lessonID string, file Upload) (string, error) {
	course, err := c.resolver.Resolve(ctx, identifier)
	if err != nil {
		return "", err
	}
	lesson, err := LessonOf(course, lessonID)
	if err != nil {
		return "", err
	}

	key, url, err := c.upload(ctx, "courses/lessons", file)
	if err != nil {
		return "", apierr.Validation("Failed to upload lesson content. Please try again.")
	}

	if err := c.db.WithContext(ctx).Model(&courseModels.Lesson{}).
		Where("id = ?", lesson.ID).
		UpdateColumns(map[string]interface{}{
			"content_url":      url,
			"content_file_key": key,
			"content":          "",
			"updated_at":       c.now(),
		}).Error; err != nil {
		c.deleteObjects(ctx, key)
		return "", apierr.Internal("Failed to upload lesson content. Please try again.", err)
	}
	c.deleteObjects(ctx, lesson.ContentFileKey)
	return url, nil
}

// LessonOf finds a lesson of the course by id.
func LessonOf(course *courseModels.Course, lessonID string) (*courseModels.Lesson, error) {
	id, err := uuid.Parse(strings.TrimSpace(lessonID))
	if err != nil {
		return nil, ErrLessonNotFound
	}
	lesson, ok := course.FindLesson(id)
	if !ok {
		return nil, ErrLessonNotFound
	}
	return lesson, nil
}

var ErrLessonNotFound = apierr.NotFound("Lesson not found in this course.")

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func (c *Catalog) upload(ctx context.Context, folder string, file Upload) (string, string, error) {
	if c.store == nil {
		return "", "", errors.New("object storage is not configured")
	}
	name := unsafeFileChars.ReplaceAllString(filepath.Base(file.Filename), "_")
	key := fmt.Sprintf("%s/%d-%s", folder, c.now().UnixMilli(), name)
	url, err := c.store.Upload(ctx, key, file.Body, file.ContentType)
	if err != nil {
		logger.L().Error("object upload failed", "key", key, "error", err)
		return "", "", err
	}
	return key, url, nil
}

// deleteObjects is best effort; failures are logged and never surface to the caller.
func (c *Catalog) deleteObjects(ctx context.Context, keys ...string) {
	if c.store == nil {
		return
	}
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := c.store.Delete(ctx, key); err != nil {
			logger.L().Warn("object delete failed", "key", key, "error", err)
		}
	}
}

// uniqueSlug returns base, or base-N for the smallest N >= 2 not yet taken.
func uniqueSlug(tx *gorm.DB, base string) (string, error) {
	if base == "" {
		base = "course"
	}
	var taken []string
	if err := tx.Model(&courseModels.Course{}).
		Where("slug = ? OR slug LIKE ?", base, base+"-%").
		Pluck("slug", &taken).Error; err != nil {
		return "", err
	}
	used := make(map[string]struct{}, len(taken))
	for _, s := range taken {
		used[s] = struct{}{}
	}
	if _, ok := used[base]; !ok {
		return base, nil
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d", base, n)
		if _, ok := used[candidate]; !ok {
			return candidate, nil
		}
	}
}

func finalExamFrom(in FinalExamInput) courseModels.FinalExam {
	exam := courseModels.FinalExam{
		Questions:    in.Questions,
		PassingScore: in.PassingScore,
		Duration:     in.Duration,
		IsEnabled:    in.IsEnabled,
	}
	if exam.PassingScore == 0 {
		exam.PassingScore = courseModels.DefaultPassingScore
	}
	if exam.Questions == nil {
		exam.Questions = []courseModels.QuizQuestion{}
	}
	return exam
}

// buildModules turns input into rows with ids assigned up front. A module or lesson may
// only carry an id that already belongs to this course; such lessons keep their uploaded
// content.
func buildModules(courseID uuid.UUID, in []ModuleInput, previous []courseModels.Module) ([]courseModels.Module, error) {
	priorModules := make(map[uuid.UUID]struct{}, len(previous))
	prior := make(map[uuid.UUID]courseModels.Lesson)
	for _, m := range previous {
		priorModules[m.ID] = struct{}{}
		for _, l := range m.Lessons {
			prior[l.ID] = l
		}
	}
	seenModules := make(map[uuid.UUID]struct{})
	seen := make(map[uuid.UUID]struct{})

	modules := make([]courseModels.Module, 0, len(in))
	for mi, m := range in {
		module := courseModels.Module{
			CourseID:    courseID,
			Title:       strings.TrimSpace(m.Title),
			Description: m.Description,
			Order:       m.Order,
		}
		module.ID = uuid.New()
		if m.ID != "" {
			id, err := uuid.Parse(m.ID)
			if err != nil {
				return nil, apierr.Validation(fmt.Sprintf("modules[%d].id is not a valid id", mi))
			}
			if _, ok := priorModules[id]; !ok {
				return nil, apierr.Validation(fmt.Sprintf("modules[%d].id does not belong to this course", mi))
			}
			if _, dup := seenModules[id]; dup {
				return nil, apierr.Validation(fmt.Sprintf("module id %s appears more than once", id))
			}
			module.ID = id
		}
		seenModules[module.ID] = struct{}{}
		if module.Order == 0 {
			module.Order = mi + 1
		}

		for li, l := range m.Lessons {
			lesson := courseModels.Lesson{
				ModuleID:      module.ID,
				CourseID:      courseID,
				Title:         strings.TrimSpace(l.Title),
				Content:       l.Content,
				ContentURL:    l.ContentURL,
				VideoURL:      l.VideoURL,
				VideoType:     l.VideoType,
				VideoDuration: l.VideoDuration,
				Order:         l.Order,
				Quiz:          l.Quiz,
			}
			lesson.ID = uuid.New()
			if l.ID != "" {
				id, err := uuid.Parse(l.ID)
				if err != nil {
					return nil, apierr.Validation(fmt.Sprintf("modules[%d].lessons[%d].id is not a valid id", mi, li))
				}
				old, ok := prior[id]
				if !ok {
					return nil, apierr.Validation(fmt.Sprintf("modules[%d].lessons[%d].id does not belong to this course", mi, li))
				}
				lesson.ID = id
				if lesson.ContentURL == "" {
					lesson.ContentURL = old.ContentURL
				}
				lesson.ContentFileKey = old.ContentFileKey
			}
			if _, dup := seen[lesson.ID]; dup {
				return nil, apierr.Validation(fmt.Sprintf("lesson id %s appears more than once", lesson.ID))
			}
			seen[lesson.ID] = struct{}{}
			if lesson.VideoType == "" {
				lesson.VideoType = "custom"
			}
			if lesson.Order == 0 {
				lesson.Order = li + 1
			}
			if lesson.Quiz == nil {
				lesson.Quiz = []courseModels.QuizQuestion{}
			}
			module.Lessons = append(module.Lessons, lesson)
		}
		modules = append(modules, module)
	}
	return modules, nil
}

// insertContent writes modules and lessons as plain inserts so an id clash is an error
// rather than an association upsert.
func insertContent(tx *gorm.DB, modules []courseModels.Module) error {
	if len(modules) == 0 {
		return nil
	}
	if err := tx.Omit(clause.Associations).Create(&modules).Error; err != nil {
		return err
	}
	var lessons []courseModels.Lesson
	for _, m := range modules {
		lessons = append(lessons, m.Lessons...)
	}
	if len(lessons) == 0 {
		return nil
	}
	return tx.Omit(clause.Associations).Create(&lessons).Error
}

// PublicCourse returns a copy safe to show learners: quiz and exam answer keys are
// removed, and in summary form inline lesson content is dropped as well.
func PublicCourse(course courseModels.Course, summary bool) courseModels.Course {
	out := course
	out.FinalExam.Questions = publicQuestions(course.FinalExam.Questions)
	out.Modules = make([]courseModels.Module, len(course.Modules))
	for i, m := range course.Modules {
		module := m
		module.Lessons = make([]courseModels.Lesson, len(m.Lessons))
		for j, l := range m.Lessons {
			lesson := l
			lesson.Quiz = publicQuestions(l.Quiz)
			if summary {
				lesson.Content = ""
			}
			module.Lessons[j] = lesson
		}
		out.Modules[i] = module
	}
	return out
}

func publicQuestions(questions []courseModels.QuizQuestion) []courseModels.QuizQuestion {
	out := make([]courseModels.QuizQuestion, len(questions))
	for i, q := range questions {
		out[i] = q.Public()
	}
	return out
}
