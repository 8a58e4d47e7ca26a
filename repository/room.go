package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotel-booking/models"

	"gorm.io/gorm"
)

type RoomRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Room, error)
	// FindByIDWithDeleted also returns soft-deleted rooms.
	FindByIDWithDeleted(ctx context.Context, id uint) (*models.Room, error)
	FindAll(ctx context.Context) ([]models.Room, error)
	FindAvailable(ctx context.Context, checkIn, checkOut time.Time) ([]models.Room, error)
	Create(ctx context.Context, room *models.Room) error
	Update(ctx context.Context, id uint, changes map[string]any) (bool, error)
	Delete(ctx context.Context, id uint) (bool, error)
}

type gormRoomRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewRoomRepository(db *gorm.DB, timeout time.Duration) RoomRepository {
	return &gormRoomRepository{db: db, timeout: timeout}
}

func (r *gormRoomRepository) FindByID(ctx context.Context, id uint) (*models.Room, error) {
	return r.findByID(ctx, r.db, id)
}

func (r *gormRoomRepository) FindByIDWithDeleted(ctx context.Context, id uint) (*models.Room, error) {
	return r.findByID(ctx, r.db.Unscoped(), id)
}

func (r *gormRoomRepository) findByID(ctx context.Context, db *gorm.DB, id uint) (*models.Room, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var room models.Room
	if err := db.WithContext(ctx).First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find room %d: %w", id, err)
	}
	return &room, nil
}

func (r *gormRoomRepository) FindAll(ctx context.Context) ([]models.Room, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	rooms := []models.Room{}
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

// FindAvailable returns every room without a booking overlapping
// [checkIn, checkOut), ordered by id.
func (r *gormRoomRepository) FindAvailable(ctx context.Context, checkIn, checkOut time.Time) ([]models.Room, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	db := r.db.WithContext(ctx)
	booked := db.Model(&models.Booking{}).
		Select("room_id").
		Where("check_in_date < ? AND check_out_date > ?", models.NewDate(checkOut), models.NewDate(checkIn))

	rooms := []models.Room{}
	if err := db.Where("id NOT IN (?)", booked).Order("id ASC").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("list available rooms: %w", err)
	}
	return rooms, nil
}

func (r *gormRoomRepository) Create(ctx context.Context, room *models.Room) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.db.WithContext(ctx).Create(room).Error; err != nil {
		return fmt.Errorf("create room: %w", err)
	}
	return nil
}

func (r *gormRoomRepository) Update(ctx context.Context, id uint, changes map[string]any) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	result := r.db.WithContext(ctx).Model(&models.Room{}).Where("id = ?", id).Updates(changes)
	if result.Error != nil {
		return false, fmt.Errorf("update room %d: %w", id, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Delete soft-deletes the room. Bookings that reference it are left in place.
func (r *gormRoomRepository) Delete(ctx context.Context, id uint) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	result := r.db.WithContext(ctx).Delete(&models.Room{}, id)
	if result.Error != nil {
		return false, fmt.Errorf("delete room %d: %w", id, result.Error)
	}
	return result.RowsAffected > 0, nil
}
