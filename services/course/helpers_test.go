package courseService

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"verve/database"
	"verve/models"
	courseModels "verve/models/course"
)

type sentMail struct {
	To, Subject, HTML, Text string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(_ context.Context, to, subject, html, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, HTML: html, Text: text})
	return m.err
}

func (m *fakeMailer) Sent() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMail(nil), m.sent...)
}

type fakeStore struct {
	mu      sync.Mutex
	objects map[string]string
	deleted []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string]string)}
}

func (s *fakeStore) Upload(_ context.Context, key string, body io.Reader, _ string) (string, error) {
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = string(b)
	return "https://cdn.test/" + key, nil
}

func (s *fakeStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

type fixture struct {
	db     *gorm.DB
	svc    *Service
	mailer *fakeMailer
	store  *fakeStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.OpenInMemory("svc_" + uuid.NewString())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	mailer := &fakeMailer{}
	store := newFakeStore()
	return &fixture{
		db:     db,
		svc:    New(db, mailer, store, "https://verve.test"),
		mailer: mailer,
		store:  store,
	}
}

func (f *fixture) user(t *testing.T, name string) models.User {
	t.Helper()
	u := models.User{
		Email:    fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8]),
		Password: "hashed",
		Name:     name,
	}
	require.NoError(t, f.db.Create(&u).Error)
	return u
}

func (f *fixture) admin(t *testing.T) models.User {
	t.Helper()
	u := models.User{
		Email:    fmt.Sprintf("admin-%s@example.com", uuid.NewString()[:8]),
		Password: "hashed",
		Name:     "Admin",
		Role:     models.RoleAdmin,
	}
	require.NoError(t, f.db.Create(&u).Error)
	return u
}

func (f *fixture) course(t *testing.T, in CourseInput) *courseModels.Course {
	t.Helper()
	course, err := f.svc.Catalog.Create(context.Background(), uuid.Nil, in)
	require.NoError(t, err)
	return course
}

func quiz(answers ...string) []courseModels.QuizQuestion {
	out := make([]courseModels.QuizQuestion, len(answers))
	for i, a := range answers {
		out[i] = courseModels.QuizQuestion{
			Question:      fmt.Sprintf("Question %d", i+1),
			Options:       []string{"A", "B", "C", "D"},
			CorrectAnswer: a,
			Explanation:   "because",
		}
	}
	return out
}

// twoLessonCourse is a free public course with lessons A and B and no final exam.
func twoLessonCourse(title string) CourseInput {
	return CourseInput{
		Title:  title,
		Status: courseModels.StatusPublished,
		Modules: []ModuleInput{{
			Title: "Basics",
			Lessons: []LessonInput{
				{Title: "Lesson A", Content: "inline A", Quiz: quiz("A", "B")},
				{Title: "Lesson B", Content: "inline B"},
			},
		}},
	}
}

// examCourse adds an enabled twenty question final exam answered "A" throughout.
func examCourse(title string) CourseInput {
	in := twoLessonCourse(title)
	answers := make([]string, 20)
	for i := range answers {
		answers[i] = "A"
	}
	in.FinalExam = &FinalExamInput{Questions: quiz(answers...), PassingScore: 70, IsEnabled: true}
	return in
}

// correctAnswers answers the first n exam questions correctly and the rest wrong.
func correctAnswers(n, total int) map[int]string {
	out := make(map[int]string, total)
	for i := 0; i < total; i++ {
		if i < n {
			out[i] = "A"
		} else {
			out[i] = "D"
		}
	}
	return out
}

func lessonIDs(c *courseModels.Course) []string {
	var ids []string
	for _, l := range c.Lessons() {
		ids = append(ids, l.ID.String())
	}
	return ids
}

func uuidOf(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	require.NoError(t, err)
	return id
}
