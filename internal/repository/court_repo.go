package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/hooplab/courtside/internal/model"
	"gorm.io/gorm"
)

type CourtRepository interface {
	Create(ctx context.Context, court *model.Court) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Court, error)
	FindAll(ctx context.Context) ([]*model.Court, error)
	Search(ctx context.Context, query string) ([]*model.Court, error)
	Update(ctx context.Context, court *model.Court) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.CourtStatus) error
	SetPrimaryPhoto(ctx context.Context, courtID, photoID uuid.UUID) error
	ClearPrimaryPhoto(ctx context.Context, courtID uuid.UUID) error
	UpdateRating(ctx context.Context, courtID uuid.UUID, rating float64) error
	WithTx(tx *gorm.DB) CourtRepository
}

type courtRepository struct {
	db *gorm.DB
}

func NewCourtRepository(db *gorm.DB) CourtRepository {
	return &courtRepository{db: db}
}

func (r *courtRepository) WithTx(tx *gorm.DB) CourtRepository {
	return &courtRepository{db: tx}
}

func (r *courtRepository) Create(ctx context.Context, court *model.Court) error {
	return r.db.WithContext(ctx).Create(court).Error
}

func (r *courtRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Court, error) {
	var court model.Court
	if err := r.db.WithContext(ctx).
		Preload("PrimaryPhoto").
		Preload("Owner").
		Where("id = ?", id).
		First(&court).Error; err != nil {
		return nil, err
	}
	return &court, nil
}

func (r *courtRepository) FindAll(ctx context.Context) ([]*model.Court, error) {
	var courts []*model.Court
	err := r.db.WithContext(ctx).
		Preload("PrimaryPhoto").
		Preload("Owner").
		Where("status <> ?", model.CourtStatusDeleted).
		Order("created_at DESC").
		Find(&courts).Error
	return courts, err
}

// Search is the database fallback when the search index is unavailable.
func (r *courtRepository) Search(ctx context.Context, query string) ([]*model.Court, error) {
	var courts []*model.Court
	like := "%" + strings.ToLower(query) + "%"
	err := r.db.WithContext(ctx).
		Preload("PrimaryPhoto").
		Where("status <> ?", model.CourtStatusDeleted).
		Where("LOWER(name) LIKE ? OR LOWER(address) LIKE ?", like, like).
		Order("created_at DESC").
		Find(&courts).Error
	return courts, err
}

func (r *courtRepository) Update(ctx context.Context, court *model.Court) error {
	return r.db.WithContext(ctx).Save(court).Error
}

func (r *courtRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.CourtStatus) error {
	return r.db.WithContext(ctx).Model(&model.Court{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *courtRepository) SetPrimaryPhoto(ctx context.Context, courtID, photoID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Court{}).
		Where("id = ?", courtID).
		Update("primary_photo_id", photoID).Error
}

func (r *courtRepository) ClearPrimaryPhoto(ctx context.Context, courtID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Court{}).
		Where("id = ?", courtID).
		Update("primary_photo_id", nil).Error
}

func (r *courtRepository) UpdateRating(ctx context.Context, courtID uuid.UUID, rating float64) error {
	return r.db.WithContext(ctx).Model(&model.Court{}).
		Where("id = ?", courtID).
		Update("rating", rating).Error
}
