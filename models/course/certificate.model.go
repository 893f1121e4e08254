package course

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"verve/models"
)

const (
	CompletionLessons = "lessons"
	CompletionExam    = "exam"
)

// Certificate is immutable once created apart from the download flags.
// The (user, course) pair and the certificate number are both unique.
type Certificate struct {
	models.Base
	UserID            uuid.UUID                          `json:"userId" gorm:"type:uuid;uniqueIndex:idx_certificate_user_course;not null"`
	CourseID          uuid.UUID                          `json:"courseId" gorm:"type:uuid;uniqueIndex:idx_certificate_user_course;not null"`
	CourseTitle       string                             `json:"courseTitle" gorm:"not null"`
	UserName          string                             `json:"userName" gorm:"not null"`
	CompletionDate    time.Time                          `json:"completionDate"`
	CompletionPath    string                             `json:"completionPath"`
	CertificateNumber string                             `json:"certificateNumber" gorm:"uniqueIndex;not null"`
	CertificateURL    string                             `json:"certificateUrl"`
	BadgeImage        string                             `json:"badgeImage"`
	QuizScores        datatypes.JSONType[map[string]int] `json:"quizScores"`
	TotalQuizScore    int                                `json:"totalQuizScore"`
	IssuedBy          IssuedBy                           `json:"issuedBy" gorm:"embedded;embeddedPrefix:issued_by_"`
	IsDownloaded      bool                               `json:"isDownloaded" gorm:"default:false"`
	DownloadedAt      *time.Time                         `json:"downloadedAt"`
}

type IssuedBy struct {
	Organization string `json:"organization" gorm:"default:'Verve Academy'"`
	Signature    string `json:"signature" gorm:"default:'Verve Academy Team'"`
}

// DefaultIssuer is stamped on every certificate the platform issues.
var DefaultIssuer = IssuedBy{Organization: "Verve Academy", Signature: "Verve Academy Team"}
