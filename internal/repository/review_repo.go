package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/hooplab/courtside/internal/model"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *model.CourtReview) error
	FindByCourt(ctx context.Context, courtID uuid.UUID) ([]*model.CourtReview, error)
	CountByCourt(ctx context.Context, courtID uuid.UUID) (int64, error)
	AverageRating(ctx context.Context, courtID uuid.UUID) (float64, error)
	WithTx(tx *gorm.DB) ReviewRepository
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) WithTx(tx *gorm.DB) ReviewRepository {
	return &reviewRepository{db: tx}
}

func (r *reviewRepository) Create(ctx context.Context, review *model.CourtReview) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepository) FindByCourt(ctx context.Context, courtID uuid.UUID) ([]*model.CourtReview, error) {
	var reviews []*model.CourtReview
	err := r.db.WithContext(ctx).
		Preload("ReviewedBy").
		Where("court_id = ?", courtID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

func (r *reviewRepository) CountByCourt(ctx context.Context, courtID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.CourtReview{}).
		Where("court_id = ?", courtID).
		Count(&count).Error
	return count, err
}

// AverageRating recounts from raw review rows. Returns 0 when the court has
// no reviews yet.
func (r *reviewRepository) AverageRating(ctx context.Context, courtID uuid.UUID) (float64, error) {
	var avg *float64
	err := r.db.WithContext(ctx).
		Model(&model.CourtReview{}).
		Where("court_id = ?", courtID).
		Select("AVG(rating)").
		Scan(&avg).Error
	if err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}
