package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hooplab/courtside/internal/model"
	"gorm.io/gorm"
)

// BookingRepository is read-only towards the booking subsystem except for
// MarkReviewed, the one flag this service owns.
type BookingRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	FindByCourt(ctx context.Context, courtID uuid.UUID) ([]*model.Booking, error)
	// FindMostRecentEligible returns the latest-ended approved, fully
	// elapsed, unreviewed booking of the court by the given user, or
	// gorm.ErrRecordNotFound when none exists.
	FindMostRecentEligible(ctx context.Context, userID, courtID uuid.UUID, now time.Time) (*model.Booking, error)
	MarkReviewed(ctx context.Context, id uuid.UUID) error
	WithTx(tx *gorm.DB) BookingRepository
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) WithTx(tx *gorm.DB) BookingRepository {
	return &bookingRepository{db: tx}
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	var booking model.Booking
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByCourt(ctx context.Context, courtID uuid.UUID) ([]*model.Booking, error) {
	var bookings []*model.Booking
	err := r.db.WithContext(ctx).
		Where("court_id = ?", courtID).
		Order("start DESC").
		Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepository) FindMostRecentEligible(ctx context.Context, userID, courtID uuid.UUID, now time.Time) (*model.Booking, error) {
	var booking model.Booking
	err := r.db.WithContext(ctx).
		Where("court_id = ? AND booked_by_id = ?", courtID, userID).
		Where("status = ? AND has_reviewed = ?", model.BookingStatusApproved, false).
		Where("\"end\" < ?", now).
		// Bookings ending at the same instant tie-break on id, which is
		// insertion-ordered for uuid v7.
		Order("\"end\" DESC, id ASC").
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) MarkReviewed(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Booking{}).
		Where("id = ?", id).
		Update("has_reviewed", true).Error
}
