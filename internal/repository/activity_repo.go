package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/hooplab/courtside/internal/model"
	"gorm.io/gorm"
)

type ActivityRepository interface {
	Create(ctx context.Context, activity *model.Activity) error
	FindByCourt(ctx context.Context, courtID uuid.UUID) ([]*model.Activity, error)
	FindByActor(ctx context.Context, actorID uuid.UUID) ([]*model.Activity, error)
}

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(ctx context.Context, activity *model.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

func (r *activityRepository) FindByCourt(ctx context.Context, courtID uuid.UUID) ([]*model.Activity, error) {
	var activities []*model.Activity
	err := r.db.WithContext(ctx).
		Where("court_id = ?", courtID).
		Order("created_at DESC").
		Find(&activities).Error
	return activities, err
}

func (r *activityRepository) FindByActor(ctx context.Context, actorID uuid.UUID) ([]*model.Activity, error) {
	var activities []*model.Activity
	err := r.db.WithContext(ctx).
		Where("actor_id = ?", actorID).
		Order("created_at DESC").
		Find(&activities).Error
	return activities, err
}
