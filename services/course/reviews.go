package courseService

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"verve/apierr"
	courseModels "verve/models/course"
)

var (
	ErrReviewNotFound  = apierr.NotFound("Review not found.")
	ErrDuplicateReview = apierr.Conflict("You already have a review for this course.")
	ErrReviewNotOwned  = apierr.Forbidden("You can only change your own reviews.")
	errReviewNeedsSeat = apierr.Forbidden("You must be enrolled in this course to review it.")
)

type ReviewInput struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Title   string `json:"title" validate:"required,max=100"`
	Comment string `json:"comment" validate:"required,max=1000"`
}

type ReviewUpdate struct {
	Rating  *int    `json:"rating" validate:"omitempty,gte=1,lte=5"`
	Title   *string `json:"title" validate:"omitempty,min=1,max=100"`
	Comment *string `json:"comment" validate:"omitempty,min=1,max=1000"`
}

type ReviewQuery struct {
	Page   int    `query:"page" json:"page" validate:"gte=1"`
	Limit  int    `query:"limit" json:"limit" validate:"gte=1,lte=50"`
	SortBy string `query:"sortBy" json:"sortBy" validate:"omitempty,oneof=recent rating"`
}

// ReviewView is a review with the reviewer's display name.
type ReviewView struct {
	courseModels.Review
	UserName string `json:"userName"`
}

type RatingStats struct {
	AvgRating    float64 `json:"avgRating"`
	TotalReviews int64   `json:"totalReviews"`
	FiveStars    int64   `json:"fiveStars"`
	FourStars    int64   `json:"fourStars"`
	ThreeStars   int64   `json:"threeStars"`
	TwoStars     int64   `json:"twoStars"`
	OneStar      int64   `json:"oneStar"`
}

type ReviewPage struct {
	Reviews    []ReviewView `json:"reviews"`
	Stats      RatingStats  `json:"stats"`
	Pagination Pagination   `json:"pagination"`
}

type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

// ReviewBook stores course reviews, one per (user, course).
type ReviewBook struct {
	db *gorm.DB
}

func NewReviewBook(db *gorm.DB) *ReviewBook {
	return &ReviewBook{db: db}
}

// Create requires the user to be enrolled or to have progress in the course. A second
// review of the same course is a Conflict, decided by the unique index.
func (b *ReviewBook) Create(ctx context.Context, userID uuid.UUID, course *courseModels.Course, in ReviewInput) (*courseModels.Review, error) {
	db := b.db.WithContext(ctx)

	var seats int64
	if err := db.Model(&courseModels.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, course.ID).
		Count(&seats).Error; err != nil {
		return nil, apierr.Internal("Failed to create review.", err)
	}
	if seats == 0 {
		if err := db.Model(&courseModels.Progress{}).
			Where("user_id = ? AND course_id = ?", userID, course.ID).
			Count(&seats).Error; err != nil {
			return nil, apierr.Internal("Failed to create review.", err)
		}
	}
	if seats == 0 {
		return nil, errReviewNeedsSeat
	}

	review := courseModels.Review{
		CourseID: course.ID,
		UserID:   userID,
		Rating:   in.Rating,
		Title:    strings.TrimSpace(in.Title),
		Comment:  strings.TrimSpace(in.Comment),
	}
	if err := review.Validate(); err != nil {
		return nil, apierr.Validation(err.Error())
	}
	if err := db.Omit(clause.Associations).Create(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateReview
		}
		return nil, apierr.Internal("Failed to create review.", err)
	}
	return &review, nil
}

// Update edits the viewer's own review.
func (b *ReviewBook) Update(ctx context.Context, viewer Viewer, reviewID string, in ReviewUpdate) (*courseModels.Review, error) {
	review, err := b.get(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.UserID != viewer.ID {
		return nil, ErrReviewNotOwned
	}

	columns := map[string]interface{}{}
	if in.Rating != nil {
		review.Rating = *in.Rating
		columns["rating"] = review.Rating
	}
	if in.Title != nil {
		review.Title = strings.TrimSpace(*in.Title)
		columns["title"] = review.Title
	}
	if in.Comment != nil {
		review.Comment = strings.TrimSpace(*in.Comment)
		columns["comment"] = review.Comment
	}
	if len(columns) == 0 {
		return review, nil
	}
	if err := review.Validate(); err != nil {
		return nil, apierr.Validation(err.Error())
	}
	if err := b.db.WithContext(ctx).Model(&courseModels.Review{}).
		Where("id = ?", review.ID).
		Updates(columns).Error; err != nil {
		return nil, apierr.Internal("Failed to update review.", err)
	}
	return b.get(ctx, reviewID)
}

// Delete removes a review. Admins may remove anyone's; the author may then review again.
func (b *ReviewBook) Delete(ctx context.Context, viewer Viewer, reviewID string) error {
	review, err := b.get(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.UserID != viewer.ID && !viewer.IsAdmin() {
		return ErrReviewNotOwned
	}
	if err := b.db.WithContext(ctx).Where("id = ?", review.ID).Delete(&courseModels.Review{}).Error; err != nil {
		return apierr.Internal("Failed to delete review.", err)
	}
	return nil
}

// List returns one page of a course's reviews with rating stats over all of them.
func (b *ReviewBook) List(ctx context.Context, courseID uuid.UUID, q ReviewQuery) (*ReviewPage, error) {
	db := b.db.WithContext(ctx)
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 10
	}

	stats, err := b.stats(ctx, courseID)
	if err != nil {
		return nil, err
	}

	order := "created_at desc"
	if q.SortBy == "rating" {
		order = "rating desc, created_at desc"
	}
	var reviews []courseModels.Review
	if err := db.Where("course_id = ?", courseID).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "username")
		}).
		Order(order).
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Find(&reviews).Error; err != nil {
		return nil, apierr.Internal("Failed to fetch reviews.", err)
	}

	views := make([]ReviewView, 0, len(reviews))
	for _, r := range reviews {
		view := ReviewView{Review: r, UserName: "Anonymous"}
		if r.User != nil {
			view.UserName = r.User.DisplayName("Anonymous")
		}
		views = append(views, view)
	}

	return &ReviewPage{
		Reviews: views,
		Stats:   stats,
		Pagination: Pagination{
			Total: stats.TotalReviews,
			Page:  q.Page,
			Limit: q.Limit,
			Pages: int(math.Ceil(float64(stats.TotalReviews) / float64(q.Limit))),
		},
	}, nil
}

func (b *ReviewBook) stats(ctx context.Context, courseID uuid.UUID) (RatingStats, error) {
	var rows []struct {
		Rating int
		Total  int64
	}
	if err := b.db.WithContext(ctx).Model(&courseModels.Review{}).
		Select("rating, count(*) as total").
		Where("course_id = ?", courseID).
		Group("rating").
		Scan(&rows).Error; err != nil {
		return RatingStats{}, apierr.Internal("Failed to fetch reviews.", err)
	}

	var stats RatingStats
	sum := 0.0
	for _, row := range rows {
		stats.TotalReviews += row.Total
		sum += float64(row.Rating) * float64(row.Total)
		switch row.Rating {
		case 5:
			stats.FiveStars = row.Total
		case 4:
			stats.FourStars = row.Total
		case 3:
			stats.ThreeStars = row.Total
		case 2:
			stats.TwoStars = row.Total
		case 1:
			stats.OneStar = row.Total
		}
	}
	if stats.TotalReviews > 0 {
		stats.AvgRating = math.Round(sum/float64(stats.TotalReviews)*10) / 10
	}
	return stats, nil
}

func (b *ReviewBook) get(ctx context.Context, reviewID string) (*courseModels.Review, error) {
	id, err := uuid.Parse(strings.TrimSpace(reviewID))
	if err != nil {
		return nil, ErrReviewNotFound
	}
	var review courseModels.Review
	res := b.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&review)
	if res.Error != nil {
		return nil, apierr.Internal("Failed to fetch review.", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrReviewNotFound
	}
	return &review, nil
}
