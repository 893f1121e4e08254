package courseService

import (
	"context"

	"github.com/google/uuid"

	"verve/apierr"
	courseModels "verve/models/course"
)

var ErrExamUnavailable = apierr.NotFound("Final exam not available for this course.")

// LessonCompletion is the outcome of marking a lesson complete.
type LessonCompletion struct {
	Progress          *courseModels.Progress    `json:"progress"`
	IsCourseComplete  bool                      `json:"isCourseComplete"`
	Certificate       *courseModels.Certificate `json:"certificate"`
	CertificateIssued bool                      `json:"certificateIssued"`
	FinalExamPending  bool                      `json:"finalExamPending"`
}

// CompleteLesson records the lesson and issues the certificate once the course is complete.
func (s *Service) CompleteLesson(ctx context.Context, userID uuid.UUID, course *courseModels.Course, lessonID string, quizScore int) (*LessonCompletion, error) {
	lesson, err := LessonOf(course, lessonID)
	if err != nil {
		return nil, err
	}
	if quizScore < 0 || quizScore > 100 {
		return nil, apierr.Validation("quizScore must be between 0 and 100.")
	}

	progress, err := s.Progress.RecordLessonCompletion(ctx, userID, course.ID, lesson.ID, quizScore)
	if err != nil {
		return nil, err
	}
	if err := s.Enrollments.Touch(ctx, userID, course.ID); err != nil {
		return nil, err
	}

	out := &LessonCompletion{Progress: progress, IsCourseComplete: progress.Covers(course)}
	if !out.IsCourseComplete {
		return out, nil
	}
	// with an active final exam the certificate is issued by the exam instead
	if course.FinalExam.Active() && !progress.HasPassedExam() {
		// an earlier pass may already have earned it
		existing, err := s.Certificates.Find(ctx, userID, course.ID)
		if err != nil {
			return nil, err
		}
		out.Certificate = existing
		out.FinalExamPending = existing == nil
		return out, nil
	}
	out.Certificate, out.CertificateIssued, err = s.Certificates.IssueIfComplete(ctx, userID, course, progress)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// QuizSubmission is a graded lesson quiz. Lesson quizzes only grade; completion is
// recorded separately.
type QuizSubmission struct {
	*GradeResult
	Passed       bool `json:"passed"`
	PassingScore int  `json:"passingScore"`
}

func (s *Service) SubmitLessonQuiz(course *courseModels.Course, lessonID string, answers map[int]string) (*QuizSubmission, error) {
	lesson, err := LessonOf(course, lessonID)
	if err != nil {
		return nil, err
	}
	graded, err := Grade(lesson.Quiz, answers)
	if err != nil {
		return nil, err
	}
	return &QuizSubmission{
		GradeResult:  graded,
		Passed:       graded.Score >= courseModels.DefaultPassingScore,
		PassingScore: courseModels.DefaultPassingScore,
	}, nil
}

// ExamSubmission is a graded final exam and the state it left behind.
type ExamSubmission struct {
	*GradeResult
	Passed            bool                      `json:"passed"`
	PassingScore      int                       `json:"passingScore"`
	Progress          *courseModels.Progress    `json:"progress"`
	Certificate       *courseModels.Certificate `json:"certificate"`
	CertificateIssued bool                      `json:"certificateIssued"`
}

// SubmitExam grades the final exam, appends the attempt and issues the certificate on a
// pass. A later pass never reissues or rescores an existing certificate.
func (s *Service) SubmitExam(ctx context.Context, userID uuid.UUID, course *courseModels.Course, answers map[int]string) (*ExamSubmission, error) {
	exam := course.FinalExam
	if !exam.IsEnabled {
		return nil, ErrExamUnavailable
	}
	graded, err := Grade(exam.Questions, answers)
	if err != nil {
		return nil, err
	}

	threshold := exam.Threshold()
	passed := graded.Score >= threshold
	progress, err := s.Progress.RecordExamAttempt(ctx, userID, course.ID, graded.Score, passed)
	if err != nil {
		return nil, err
	}

	out := &ExamSubmission{
		GradeResult:  graded,
		Passed:       passed,
		PassingScore: threshold,
		Progress:     progress,
	}
	if !passed {
		return out, nil
	}
	out.Certificate, out.CertificateIssued, err = s.Certificates.IssueIfComplete(ctx, userID, course, progress)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ExamAttempts summarizes the user's final exam history for the course.
func (s *Service) ExamAttempts(ctx context.Context, userID uuid.UUID, course *courseModels.Course) (AttemptHistory, error) {
	progress, err := s.Progress.Find(ctx, userID, course.ID)
	if err != nil {
		return AttemptHistory{}, err
	}
	return SummarizeAttempts(progress, course.FinalExam.Threshold()), nil
}
