package services

import (
	"context"
	"errors"
	"time"

	"hotel-booking/apperrors"
	"hotel-booking/logger"
	"hotel-booking/models"
	"hotel-booking/repository"
	"hotel-booking/validation"
)

// BookingService decides whether a room may be booked for a date range and
// which rooms are free for one. Stays are half-open: [checkIn, checkOut).
type BookingService struct {
	bookings repository.BookingRepository
	rooms    repository.RoomRepository
	users    repository.UserRepository
	log      *logger.Logger
}

func NewBookingService(
	bookings repository.BookingRepository,
	rooms repository.RoomRepository,
	users repository.UserRepository,
	log *logger.Logger,
) *BookingService {
	return &BookingService{bookings: bookings, rooms: rooms, users: users, log: log}
}

// Overlaps reports whether stays [aIn, aOut) and [bIn, bOut) share a night.
// A stay ending on the day another begins does not overlap it.
func Overlaps(aIn, aOut, bIn, bOut time.Time) bool {
	return aIn.Before(bOut) && aOut.After(bIn)
}

// CheckAvailability reports whether no booking of roomID overlaps
// [checkIn, checkOut). Date ordering is not validated; an empty or inverted
// range overlaps nothing.
func (s *BookingService) CheckAvailability(ctx context.Context, roomID uint, checkIn, checkOut time.Time) (bool, error) {
	count, err := s.bookings.CountOverlapping(ctx, roomID, models.TruncateDate(checkIn), models.TruncateDate(checkOut))
	if err != nil {
		return false, storageFailure("Failed to check room availability", err)
	}
	return count == 0, nil
}

func (s *BookingService) CreateBooking(ctx context.Context, userID, roomID uint, checkIn, checkOut time.Time) (*models.Booking, error) {
	if err := validateStay(userID, roomID, checkIn, checkOut); err != nil {
		return nil, err
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	booking := &models.Booking{
		UserID:       userID,
		RoomID:       roomID,
		CheckInDate:  models.NewDate(checkIn),
		CheckOutDate: models.NewDate(checkOut),
	}

	if err := s.bookings.CreateIfAvailable(ctx, booking); err != nil {
		switch {
		case errors.Is(err, repository.ErrRoomNotFound):
			return nil, apperrors.NotFoundWithID("Room", roomID)
		case errors.Is(err, repository.ErrRoomUnavailable):
			s.log.Info("Booking rejected, room unavailable",
				"room_id", roomID,
				"user_id", userID,
				"check_in", models.FormatDate(booking.CheckIn()),
				"check_out", models.FormatDate(booking.CheckOut()),
			)
			return nil, apperrors.RoomUnavailable(roomID)
		default:
			s.log.Error("Failed to create booking", "room_id", roomID, "error", err)
			return nil, storageFailure("Failed to create booking", err)
		}
	}

	s.log.Info("Booking created",
		"id", booking.ID,
		"room_id", roomID,
		"user_id", userID,
		"check_in", models.FormatDate(booking.CheckIn()),
		"check_out", models.FormatDate(booking.CheckOut()),
	)
	return booking, nil
}

// GetAvailableRooms returns every room with no booking overlapping
// [checkIn, checkOut), ordered by id.
func (s *BookingService) GetAvailableRooms(ctx context.Context, checkIn, checkOut time.Time) ([]models.Room, error) {
	rooms, err := s.rooms.FindAvailable(ctx, models.TruncateDate(checkIn), models.TruncateDate(checkOut))
	if err != nil {
		return nil, storageFailure("Failed to list available rooms", err)
	}
	return rooms, nil
}

// UpdateBooking replaces every field of a booking. Availability is not
// enforced: administrators may place overlapping stays. Overlaps are logged.
// It returns false when the booking does not exist.
func (s *BookingService) UpdateBooking(ctx context.Context, id, userID, roomID uint, checkIn, checkOut time.Time) (bool, error) {
	if err := validateStay(userID, roomID, checkIn, checkOut); err != nil {
		return false, err
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return false, err
	}
	if err := s.requireRoom(ctx, roomID); err != nil {
		return false, err
	}

	in, out := models.TruncateDate(checkIn), models.TruncateDate(checkOut)
	updated, err := s.bookings.Update(ctx, id, &models.Booking{
		UserID:       userID,
		RoomID:       roomID,
		CheckInDate:  models.NewDate(in),
		CheckOutDate: models.NewDate(out),
	})
	if err != nil {
		return false, storageFailure("Failed to update booking", err)
	}
	if !updated {
		return false, nil
	}

	s.warnOverlaps(ctx, id, roomID, in, out)
	s.log.Info("Booking updated", "id", id, "room_id", roomID, "user_id", userID)
	return true, nil
}

func (s *BookingService) warnOverlaps(ctx context.Context, id, roomID uint, checkIn, checkOut time.Time) {
	others, err := s.bookings.FindOverlapping(ctx, roomID, checkIn, checkOut, id)
	if err != nil {
		s.log.Warn("Could not check updated booking for overlaps", "id", id, "error", err)
		return
	}
	for _, other := range others {
		s.log.Warn("Updated booking overlaps an existing booking",
			"id", id,
			"overlapping_id", other.ID,
			"room_id", roomID,
			"check_in", models.FormatDate(checkIn),
			"check_out", models.FormatDate(checkOut),
		)
	}
}

// DeleteBooking returns false when the booking does not exist.
func (s *BookingService) DeleteBooking(ctx context.Context, id uint) (bool, error) {
	deleted, err := s.bookings.Delete(ctx, id)
	if err != nil {
		return false, storageFailure("Failed to delete booking", err)
	}
	if deleted {
		s.log.Info("Booking deleted", "id", id)
	}
	return deleted, nil
}

func (s *BookingService) GetBooking(ctx context.Context, id uint) (*models.Booking, error) {
	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		return nil, storageFailure("Failed to retrieve booking", err)
	}
	return booking, nil
}

func (s *BookingService) ListUserBookings(ctx context.Context, userID uint) ([]models.Booking, error) {
	bookings, err := s.bookings.FindByUser(ctx, userID)
	if err != nil {
		return nil, storageFailure("Failed to list bookings", err)
	}
	return bookings, nil
}

func (s *BookingService) ListAllBookings(ctx context.Context) ([]models.Booking, error) {
	bookings, err := s.bookings.FindAll(ctx)
	if err != nil {
		return nil, storageFailure("Failed to list bookings", err)
	}
	return bookings, nil
}

// ListRoomBookings also serves deleted rooms, whose bookings are kept.
func (s *BookingService) ListRoomBookings(ctx context.Context, roomID uint) ([]models.Booking, error) {
	if _, err := s.rooms.FindByIDWithDeleted(ctx, roomID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Room", roomID)
		}
		return nil, storageFailure("Failed to retrieve room", err)
	}

	bookings, err := s.bookings.FindByRoom(ctx, roomID)
	if err != nil {
		return nil, storageFailure("Failed to list bookings", err)
	}
	return bookings, nil
}

func (s *BookingService) requireUser(ctx context.Context, userID uint) error {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFoundWithID("User", userID)
		}
		return storageFailure("Failed to retrieve user", err)
	}
	return nil
}

func (s *BookingService) requireRoom(ctx context.Context, roomID uint) error {
	if _, err := s.rooms.FindByID(ctx, roomID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFoundWithID("Room", roomID)
		}
		return storageFailure("Failed to retrieve room", err)
	}
	return nil
}

func validateStay(userID, roomID uint, checkIn, checkOut time.Time) error {
	var fields validation.FieldErrors
	if userID == 0 {
		fields = append(fields, validation.FieldError{Field: "userId", Message: "userId is required"})
	}
	if roomID == 0 {
		fields = append(fields, validation.FieldError{Field: "roomId", Message: "roomId is required"})
	}
	if !models.TruncateDate(checkIn).Before(models.TruncateDate(checkOut)) {
		fields = append(fields, validation.FieldError{Field: "checkOutDate", Message: "checkOutDate must be after checkInDate"})
	}
	if len(fields) > 0 {
		return apperrors.Validation("Invalid booking", map[string]any{"fields": fields})
	}
	return nil
}

func storageFailure(message string, err error) *apperrors.AppError {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.StorageFailure(message+": storage timed out", err)
	}
	return apperrors.StorageFailure(message, err)
}
