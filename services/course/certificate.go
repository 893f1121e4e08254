package courseService

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"math/big"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"verve/apierr"
	"verve/logger"
	"verve/models"
	courseModels "verve/models/course"
	"verve/utils"
)

var ErrCertificateNotFound = apierr.NotFound("Certificate not found. Complete the course to earn a certificate.")

// number collisions are retried this many times before giving up
const maxNumberAttempts = 5

const base36 = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewCertificateNumber returns VA-{unix millis}-{9 random base36 chars}.
func NewCertificateNumber(t time.Time) string {
	suffix := make([]byte, 9)
	max := big.NewInt(int64(len(base36)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand does not fail on supported platforms
			panic(err)
		}
		suffix[i] = base36[n.Int64()]
	}
	return fmt.Sprintf("VA-%d-%s", t.UnixMilli(), suffix)
}

// Mailer is the notification collaborator used for completion emails.
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// Completion is the outcome of checking a progress record against its course.
type Completion struct {
	Complete   bool
	Path       string
	TotalScore int
	QuizScores map[string]int
}

// EvaluateCompletion decides whether the progress completes the course. A course with an
// active final exam is complete once the latest attempt passed and is scored by that
// attempt; otherwise every lesson must be completed and the score is the rounded mean of
// the recorded lesson quiz scores.
func EvaluateCompletion(course *courseModels.Course, progress *courseModels.Progress) Completion {
	if course == nil || progress == nil {
		return Completion{}
	}

	scores := make(map[string]int, len(progress.CompletedLessons))
	sum := 0
	for _, cl := range progress.CompletedLessons {
		scores[cl.LessonID.String()] = cl.QuizScore
		sum += cl.QuizScore
	}

	if course.FinalExam.Active() {
		if !progress.HasPassedExam() {
			return Completion{}
		}
		total := 0
		if progress.FinalExamScore != nil {
			total = *progress.FinalExamScore
		}
		return Completion{Complete: true, Path: courseModels.CompletionExam, TotalScore: total, QuizScores: scores}
	}

	if !progress.Covers(course) {
		return Completion{}
	}
	total := 0
	if n := len(progress.CompletedLessons); n > 0 {
		total = int(math.Round(float64(sum) / float64(n)))
	}
	return Completion{Complete: true, Path: courseModels.CompletionLessons, TotalScore: total, QuizScores: scores}
}

// CertificateIssuer creates at most one certificate per (user, course). The unique index on
// the pair is the idempotency signal; a duplicate-key failure is resolved by reading the
// winner back.
type CertificateIssuer struct {
	db          *gorm.DB
	mailer      Mailer
	frontendURL string
	now         func() time.Time
	newNumber   func(time.Time) string
	pending     sync.WaitGroup
}

func NewCertificateIssuer(db *gorm.DB, mailer Mailer, frontendURL string) *CertificateIssuer {
	return &CertificateIssuer{
		db:          db,
		mailer:      mailer,
		frontendURL: frontendURL,
		now:         time.Now,
		newNumber:   NewCertificateNumber,
	}
}

// IssueIfComplete returns the certificate for the pair when the course is complete, and
// whether this call created it. An incomplete course yields (nil, false, nil).
func (i *CertificateIssuer) IssueIfComplete(ctx context.Context, userID uuid.UUID, course *courseModels.Course, progress *courseModels.Progress) (*courseModels.Certificate, bool, error) {
	completion := EvaluateCompletion(course, progress)
	if !completion.Complete {
		return nil, false, nil
	}

	existing, err := i.Find(ctx, userID, course.ID)
	if err != nil || existing != nil {
		return existing, false, err
	}

	var user models.User
	if err := i.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, apierr.NotFound("User not found.")
		}
		return nil, false, apierr.Internal("Failed to issue certificate.", err)
	}

	now := i.now()
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		cert := courseModels.Certificate{
			UserID:            userID,
			CourseID:          course.ID,
			CourseTitle:       course.Title,
			UserName:          user.DisplayName("User"),
			CompletionDate:    now,
			CompletionPath:    completion.Path,
			CertificateNumber: i.newNumber(now),
			QuizScores:        datatypes.NewJSONType(completion.QuizScores),
			TotalQuizScore:    completion.TotalScore,
			IssuedBy:          courseModels.DefaultIssuer,
		}

		err := i.db.WithContext(ctx).Create(&cert).Error
		if err == nil {
			i.afterIssue(ctx, &user, &cert)
			return &cert, true, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, false, apierr.Internal("Failed to issue certificate.", err)
		}

		existing, err := i.Find(ctx, userID, course.ID)
		if err != nil {
			return nil, false, err
		}
		if existing != nil {
			return existing, false, nil
		}
		logger.L().Warn("certificate number collision, retrying",
			"number", cert.CertificateNumber, "attempt", attempt+1)
	}
	return nil, false, apierr.Internal("Failed to issue certificate.", errors.New("certificate number space exhausted"))
}

func (i *CertificateIssuer) afterIssue(ctx context.Context, user *models.User, cert *courseModels.Certificate) {
	if err := i.db.WithContext(ctx).Model(&courseModels.Course{}).
		Where("id = ?", cert.CourseID).
		UpdateColumn("certificate_count", gorm.Expr("certificate_count + ?", 1)).Error; err != nil {
		logger.L().Warn("failed to bump certificate count", "courseId", cert.CourseID, "error", err)
	}

	if i.mailer == nil || user.Email == "" {
		return
	}

	name := user.DisplayName("Learner")
	link := i.frontendURL + "/v/my-certificates"
	html := utils.CourseCompletionEmail(name, cert.CourseTitle, cert.CertificateNumber, link)
	text := utils.CourseCompletionText(name, cert.CourseTitle, cert.CertificateNumber, link)
	subject := fmt.Sprintf("Congratulations! You've Completed %q - Verve Hub", cert.CourseTitle)

	mailCtx := context.WithoutCancel(ctx)
	i.pending.Add(1)
	go func(to string) {
		defer i.pending.Done()
		if err := i.mailer.Send(mailCtx, to, subject, html, text); err != nil {
			logger.L().Error("failed to send completion email",
				"to", to, "course", cert.CourseTitle, "certificate", cert.CertificateNumber, "error", err)
			return
		}
		logger.L().Info("completion email sent", "to", to, "course", cert.CourseTitle)
	}(user.Email)
}

// Wait blocks until queued completion emails have been attempted.
func (i *CertificateIssuer) Wait() {
	i.pending.Wait()
}

// Find returns the certificate for the pair, or (nil, nil) when none exists.
func (i *CertificateIssuer) Find(ctx context.Context, userID, courseID uuid.UUID) (*courseModels.Certificate, error) {
	var cert courseModels.Certificate
	err := i.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&cert).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apierr.Internal("Unable to fetch certificate. Please try again.", err)
	}
	return &cert, nil
}

// Get is Find with a missing certificate reported as NotFound.
func (i *CertificateIssuer) Get(ctx context.Context, userID, courseID uuid.UUID) (*courseModels.Certificate, error) {
	cert, err := i.Find(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if cert == nil {
		return nil, ErrCertificateNotFound
	}
	return cert, nil
}

// MarkDownloaded sets the download flags, the only mutable part of a certificate.
func (i *CertificateIssuer) MarkDownloaded(ctx context.Context, userID, courseID uuid.UUID) (*courseModels.Certificate, error) {
	cert, err := i.Get(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	now := i.now()
	if err := i.db.WithContext(ctx).Model(&courseModels.Certificate{}).
		Where("id = ?", cert.ID).
		UpdateColumns(map[string]interface{}{
			"is_downloaded": true,
			"downloaded_at": now,
		}).Error; err != nil {
		return nil, apierr.Internal("Failed to update certificate.", err)
	}
	cert.IsDownloaded = true
	cert.DownloadedAt = &now
	return cert, nil
}

// ListForUser returns the user's certificates, newest first.
func (i *CertificateIssuer) ListForUser(ctx context.Context, userID uuid.UUID) ([]courseModels.Certificate, error) {
	certs := []courseModels.Certificate{}
	if err := i.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("completion_date desc").
		Find(&certs).Error; err != nil {
		return nil, apierr.Internal("Failed to fetch certificates.", err)
	}
	return certs, nil
}
