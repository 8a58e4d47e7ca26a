package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotel-booking/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Booking, error)
	FindByRoom(ctx context.Context, roomID uint) ([]models.Booking, error)
	FindByUser(ctx context.Context, userID uint) ([]models.Booking, error)
	FindAll(ctx context.Context) ([]models.Booking, error)
	FindOverlapping(ctx context.Context, roomID uint, checkIn, checkOut time.Time, excludeID uint) ([]models.Booking, error)
	CountOverlapping(ctx context.Context, roomID uint, checkIn, checkOut time.Time) (int64, error)
	// CreateIfAvailable inserts the booking only if its room exists and has no
	// overlapping booking, atomically with respect to other creators.
	CreateIfAvailable(ctx context.Context, booking *models.Booking) error
	Update(ctx context.Context, id uint, booking *models.Booking) (bool, error)
	Delete(ctx context.Context, id uint) (bool, error)
}

type gormBookingRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewBookingRepository(db *gorm.DB, timeout time.Duration) BookingRepository {
	return &gormBookingRepository{db: db, timeout: timeout}
}

// overlapping matches bookings of roomID whose stay intersects the half-open
// range [checkIn, checkOut). Touching boundaries do not match.
func overlapping(roomID uint, checkIn, checkOut time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("room_id = ? AND check_in_date < ? AND check_out_date > ?",
			roomID, models.NewDate(checkOut), models.NewDate(checkIn))
	}
}

func (r *gormBookingRepository) FindByID(ctx context.Context, id uint) (*models.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var booking models.Booking
	if err := r.db.WithContext(ctx).First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find booking %d: %w", id, err)
	}
	return &booking, nil
}

func (r *gormBookingRepository) FindByRoom(ctx context.Context, roomID uint) ([]models.Booking, error) {
	return r.find(ctx, "list bookings by room", func(db *gorm.DB) *gorm.DB {
		return db.Where("room_id = ?", roomID)
	})
}

func (r *gormBookingRepository) FindByUser(ctx context.Context, userID uint) ([]models.Booking, error) {
	return r.find(ctx, "list bookings by user", func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	})
}

func (r *gormBookingRepository) FindAll(ctx context.Context) ([]models.Booking, error) {
	return r.find(ctx, "list bookings")
}

func (r *gormBookingRepository) find(ctx context.Context, op string, scopes ...func(*gorm.DB) *gorm.DB) ([]models.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	bookings := []models.Booking{}
	if err := r.db.WithContext(ctx).Scopes(scopes...).Order("id ASC").Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return bookings, nil
}

func (r *gormBookingRepository) FindOverlapping(ctx context.Context, roomID uint, checkIn, checkOut time.Time, excludeID uint) ([]models.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	bookings := []models.Booking{}
	err := r.db.WithContext(ctx).
		Scopes(overlapping(roomID, checkIn, checkOut)).
		Where("id <> ?", excludeID).
		Order("id ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("list overlapping bookings for room %d: %w", roomID, err)
	}
	return bookings, nil
}

func (r *gormBookingRepository) CountOverlapping(ctx context.Context, roomID uint, checkIn, checkOut time.Time) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Scopes(overlapping(roomID, checkIn, checkOut)).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count overlapping bookings for room %d: %w", roomID, err)
	}
	return count, nil
}

// CreateIfAvailable serializes creators of the same room on the room's row
// lock. The overlap count is the first non-locking read of the transaction,
// so it sees every booking committed before the lock was granted.
func (r *gormBookingRepository) CreateIfAvailable(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&room, booking.RoomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomNotFound
			}
			return fmt.Errorf("lock room %d: %w", booking.RoomID, err)
		}

		var conflicts int64
		if err := tx.Model(&models.Booking{}).
			Scopes(overlapping(booking.RoomID, booking.CheckIn(), booking.CheckOut())).
			Count(&conflicts).Error; err != nil {
			return fmt.Errorf("count overlapping bookings for room %d: %w", booking.RoomID, err)
		}
		if conflicts > 0 {
			return ErrRoomUnavailable
		}

		if err := tx.Create(booking).Error; err != nil {
			return fmt.Errorf("insert booking: %w", err)
		}
		return nil
	})
}

func (r *gormBookingRepository) Update(ctx context.Context, id uint, booking *models.Booking) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	result := r.db.WithContext(ctx).Model(&models.Booking{}).Where("id = ?", id).Updates(map[string]any{
		"user_id":        booking.UserID,
		"room_id":        booking.RoomID,
		"check_in_date":  booking.CheckInDate,
		"check_out_date": booking.CheckOutDate,
	})
	if result.Error != nil {
		return false, fmt.Errorf("update booking %d: %w", id, result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *gormBookingRepository) Delete(ctx context.Context, id uint) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	result := r.db.WithContext(ctx).Delete(&models.Booking{}, id)
	if result.Error != nil {
		return false, fmt.Errorf("delete booking %d: %w", id, result.Error)
	}
	return result.RowsAffected > 0, nil
}
