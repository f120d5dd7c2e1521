package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/hooplab/courtside/internal/model"
	"gorm.io/gorm"
)

type FollowingRepository interface {
	Create(ctx context.Context, courtID, followerID uuid.UUID) error
	Delete(ctx context.Context, courtID, followerID uuid.UUID) (bool, error)
	Exists(ctx context.Context, courtID, followerID uuid.UUID) (bool, error)
	CountByCourt(ctx context.Context, courtID uuid.UUID) (int64, error)
	WithTx(tx *gorm.DB) FollowingRepository
}

type followingRepository struct {
	db *gorm.DB
}

func NewFollowingRepository(db *gorm.DB) FollowingRepository {
	return &followingRepository{db: db}
}

func (r *followingRepository) WithTx(tx *gorm.DB) FollowingRepository {
	return &followingRepository{db: tx}
}

func (r *followingRepository) Create(ctx context.Context, courtID, followerID uuid.UUID) error {
	following := model.CourtFollowing{
		CourtID:    courtID,
		FollowerID: followerID,
	}
	return r.db.WithContext(ctx).Create(&following).Error
}

// Delete removes the following row and reports whether one actually existed.
func (r *followingRepository) Delete(ctx context.Context, courtID, followerID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("court_id = ? AND follower_id = ?", courtID, followerID).
		Delete(&model.CourtFollowing{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *followingRepository) Exists(ctx context.Context, courtID, followerID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.CourtFollowing{}).
		Where("court_id = ? AND follower_id = ?", courtID, followerID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *followingRepository) CountByCourt(ctx context.Context, courtID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.CourtFollowing{}).
		Where("court_id = ?", courtID).
		Count(&count).Error
	return count, err
}
