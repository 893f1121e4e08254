package courseService

import (
	"gorm.io/gorm"
)

// Service bundles the course components over one database handle.
type Service struct {
	Resolver      *Resolver
	Progress      *ProgressStore
	Certificates  *CertificateIssuer
	Enrollments   *EnrollmentLedger
	Access        *AccessChecker
	Catalog       *Catalog
	Subscriptions *SubscriptionJobs
	Reviews       *ReviewBook
}

func New(db *gorm.DB, mailer Mailer, store ObjectStore, frontendURL string) *Service {
	resolver := NewResolver(db)
	return &Service{
		Resolver:      resolver,
		Progress:      NewProgressStore(db),
		Certificates:  NewCertificateIssuer(db, mailer, frontendURL),
		Enrollments:   NewEnrollmentLedger(db),
		Access:        NewAccessChecker(db),
		Catalog:       NewCatalog(db, resolver, store),
		Subscriptions: NewSubscriptionJobs(db),
		Reviews:       NewReviewBook(db),
	}
}
