package services

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"hotel-booking/apperrors"
	"hotel-booking/logger"
	"hotel-booking/models"
	"hotel-booking/repository"
	"hotel-booking/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBookingService(t *testing.T) (*BookingService, *fakeBookingRepository, *fakeRoomRepository) {
	t.Helper()
	bookings, rooms := newFakeRepositories()
	users := newFakeUserRepository()
	users.seed(1, 2, 3)
	return NewBookingService(bookings, rooms, users, logger.Discard()), bookings, rooms
}

func day(t *testing.T, value string) time.Time {
	t.Helper()
	return testutil.Date(t, value)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name      string
		aIn, aOut string
		bIn, bOut string
		want      bool
	}{
		{"touching end", "2024-01-10", "2024-01-12", "2024-01-12", "2024-01-15", false},
		{"touching start", "2024-01-15", "2024-01-17", "2024-01-12", "2024-01-15", false},
		{"partial", "2024-01-11", "2024-01-13", "2024-01-12", "2024-01-15", true},
		{"identical", "2024-01-12", "2024-01-15", "2024-01-12", "2024-01-15", true},
		{"nested", "2024-01-13", "2024-01-14", "2024-01-12", "2024-01-15", true},
		{"disjoint", "2024-02-01", "2024-02-03", "2024-01-12", "2024-01-15", false},
		{"empty range", "2024-01-13", "2024-01-13", "2024-01-12", "2024-01-15", true},
		{"inverted range", "2024-01-15", "2024-01-12", "2024-01-12", "2024-01-15", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlaps(day(t, tt.aIn), day(t, tt.aOut), day(t, tt.bIn), day(t, tt.bOut))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckAvailabilityWithoutBookings(t *testing.T) {
	svc, _, rooms := newBookingService(t)
	room := rooms.add(models.Room{Number: "101"})

	ok, err := svc.CheckAvailability(context.Background(), room.ID, day(t, "2024-01-10"), day(t, "2024-01-12"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.CheckAvailability(context.Background(), room.ID, day(t, "2024-01-12"), day(t, "2024-01-10"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCreateBookingThenCheckAvailability(t *testing.T) {
	svc, _, rooms := newBookingService(t)
	ctx := context.Background()
	room := rooms.add(models.Room{Number: "101"})

	booking, err := svc.CreateBooking(ctx, 1, room.ID, day(t, "2024-01-12"), day(t, "2024-01-15"))
	require.NoError(t, err)
	assert.NotZero(t, booking.ID)
	assert.Equal(t, uint(1), booking.UserID)
	assert.Equal(t, room.ID, booking.RoomID)

	tests := []struct {
		in, out string
		want    bool
	}{
		{"2024-01-12", "2024-01-15", false},
		{"2024-01-11", "2024-01-13", false},
		{"2024-01-14", "2024-01-20", false},
		{"2024-01-10", "2024-01-12", true},
		{"2024-01-15", "2024-01-18", true},
	}
	for _, tt := range tests {
		ok, err := svc.CheckAvailability(ctx, room.ID, day(t, tt.in), day(t, tt.out))
		require.NoError(t, err)
		assert.Equal(t, tt.want, ok, "[%s, %s)", tt.in, tt.out)
	}
}

func TestCreateBookingConflict(t *testing.T) {
	svc, bookings, rooms := newBookingService(t)
	ctx := context.Background()
	rooms.add(models.Room{ID: 7, Number: "7"})
	bookings.add(models.Booking{UserID: 2, RoomID: 7,
		CheckInDate: models.NewDate(day(t, "2024-03-01")), CheckOutDate: models.NewDate(day(t, "2024-03-05"))})

	_, err := svc.CreateBooking(ctx, 1, 7, day(t, "2024-03-03"), day(t, "2024-03-06"))
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))
	assert.Equal(t, 400, apperrors.AsAppError(err).StatusCode())

	all, err := svc.ListRoomBookings(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCreateBookingValidation(t *testing.T) {
	svc, _, rooms := newBookingService(t)
	room := rooms.add(models.Room{Number: "101"})

	tests := []struct {
		name    string
		userID  uint
		roomID  uint
		in, out string
	}{
		{"same day", 1, room.ID, "2024-01-10", "2024-01-10"},
		{"inverted", 1, room.ID, "2024-01-12", "2024-01-10"},
		{"missing user", 0, room.ID, "2024-01-10", "2024-01-12"},
		{"missing room", 1, 0, "2024-01-10", "2024-01-12"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateBooking(context.Background(), tt.userID, tt.roomID, day(t, tt.in), day(t, tt.out))
			assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation), "got %v", err)
		})
	}
}

func TestCreateBookingUnknownRoom(t *testing.T) {
	svc, _, _ := newBookingService(t)

	_, err := svc.CreateBooking(context.Background(), 1, 42, day(t, "2024-01-10"), day(t, "2024-01-12"))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestCreateBookingUnknownUser(t *testing.T) {
	svc, bookings, rooms := newBookingService(t)
	room := rooms.add(models.Room{Number: "101"})

	_, err := svc.CreateBooking(context.Background(), 4242, room.ID, day(t, "2024-01-10"), day(t, "2024-01-12"))
	require.Error(t, err)
	appErr := apperrors.AsAppError(err)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
	assert.Equal(t, "User not found", appErr.Message)

	all, err := bookings.FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestStorageErrorsPropagate(t *testing.T) {
	svc, bookings, rooms := newBookingService(t)
	ctx := context.Background()
	bookings.err = context.DeadlineExceeded
	rooms.err = errors.New("connection refused")

	_, err := svc.CheckAvailability(ctx, 1, day(t, "2024-01-10"), day(t, "2024-01-12"))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeStorageFailure))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, apperrors.AsAppError(err).Message, "timed out")

	_, err = svc.CreateBooking(ctx, 1, 1, day(t, "2024-01-10"), day(t, "2024-01-12"))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeStorageFailure))

	_, err = svc.GetAvailableRooms(ctx, day(t, "2024-01-10"), day(t, "2024-01-12"))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeStorageFailure))

	_, err = svc.DeleteBooking(ctx, 1)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeStorageFailure))
}

func TestGetAvailableRooms(t *testing.T) {
	svc, _, rooms := newBookingService(t)
	ctx := context.Background()
	a := rooms.add(models.Room{Number: "101"})
	b := rooms.add(models.Room{Number: "102"})

	_, err := svc.CreateBooking(ctx, 1, a.ID, day(t, "2024-01-12"), day(t, "2024-01-15"))
	require.NoError(t, err)

	first, err := svc.GetAvailableRooms(ctx, day(t, "2024-01-11"), day(t, "2024-01-13"))
	require.NoError(t, err)
	second, err := svc.GetAvailableRooms(ctx, day(t, "2024-01-11"), day(t, "2024-01-13"))
	require.NoError(t, err)
	assert.Equal(t, first, second)
	require.Len(t, first, 1)
	assert.Equal(t, b.ID, first[0].ID)

	turnover, err := svc.GetAvailableRooms(ctx, day(t, "2024-01-15"), day(t, "2024-01-16"))
	require.NoError(t, err)
	assert.Len(t, turnover, 2)
}

func TestUpdateBookingBypassesAvailability(t *testing.T) {
	bookings, rooms := newFakeRepositories()
	users := newFakeUserRepository()
	users.seed(1, 2)
	var logs bytes.Buffer
	svc := NewBookingService(bookings, rooms, users, logger.New(logger.Config{Output: &logs, Level: logger.WARN}))
	ctx := context.Background()
	room := rooms.add(models.Room{Number: "101"})

	first, err := svc.CreateBooking(ctx, 1, room.ID, day(t, "2024-01-01"), day(t, "2024-01-05"))
	require.NoError(t, err)
	second, err := svc.CreateBooking(ctx, 2, room.ID, day(t, "2024-01-10"), day(t, "2024-01-12"))
	require.NoError(t, err)

	updated, err := svc.UpdateBooking(ctx, second.ID, 2, room.ID, day(t, "2024-01-03"), day(t, "2024-01-06"))
	require.NoError(t, err)
	assert.True(t, updated)

	stored, err := svc.GetBooking(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-03", models.FormatDate(stored.CheckIn()))
	assert.Contains(t, logs.String(), "Updated booking overlaps an existing booking")
	assert.Contains(t, logs.String(), `"overlapping_id":`+itoa(first.ID))
}

func TestUpdateBookingMissingAndInvalid(t *testing.T) {
	svc, _, rooms := newBookingService(t)
	ctx := context.Background()
	room := rooms.add(models.Room{Number: "101"})

	updated, err := svc.UpdateBooking(ctx, 999, 1, room.ID, day(t, "2024-01-01"), day(t, "2024-01-02"))
	require.NoError(t, err)
	assert.False(t, updated)

	_, err = svc.UpdateBooking(ctx, 1, 1, room.ID, day(t, "2024-01-02"), day(t, "2024-01-01"))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}

func TestUpdateBookingRequiresUserAndRoom(t *testing.T) {
	svc, _, rooms := newBookingService(t)
	ctx := context.Background()
	room := rooms.add(models.Room{Number: "101"})
	gone := rooms.add(models.Room{Number: "102"})
	_, err := rooms.Delete(ctx, gone.ID)
	require.NoError(t, err)

	booking, err := svc.CreateBooking(ctx, 1, room.ID, day(t, "2024-01-01"), day(t, "2024-01-03"))
	require.NoError(t, err)

	tests := []struct {
		name     string
		userID   uint
		roomID   uint
		resource string
	}{
		{"unknown user", 4242, room.ID, "User"},
		{"unknown room", 1, 9999, "Room"},
		{"deleted room", 1, gone.ID, "Room"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated, err := svc.UpdateBooking(ctx, booking.ID, tt.userID, tt.roomID, day(t, "2024-01-05"), day(t, "2024-01-07"))
			assert.False(t, updated)
			appErr := apperrors.AsAppError(err)
			assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
			assert.Equal(t, tt.resource+" not found", appErr.Message)
		})
	}

	stored, err := svc.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(1), stored.UserID)
	assert.Equal(t, room.ID, stored.RoomID)
	assert.Equal(t, "2024-01-01", models.FormatDate(stored.CheckIn()))
}

func TestListRoomBookingsKeepsDeletedRooms(t *testing.T) {
	svc, _, rooms := newBookingService(t)
	ctx := context.Background()
	room := rooms.add(models.Room{Number: "101"})

	_, err := svc.CreateBooking(ctx, 1, room.ID, day(t, "2024-01-01"), day(t, "2024-01-03"))
	require.NoError(t, err)
	_, err = rooms.Delete(ctx, room.ID)
	require.NoError(t, err)

	bookings, err := svc.ListRoomBookings(ctx, room.ID)
	require.NoError(t, err)
	assert.Len(t, bookings, 1)
}

func TestDeleteBooking(t *testing.T) {
	svc, _, rooms := newBookingService(t)
	ctx := context.Background()
	room := rooms.add(models.Room{Number: "101"})

	deleted, err := svc.DeleteBooking(ctx, 999)
	require.NoError(t, err)
	assert.False(t, deleted)

	booking, err := svc.CreateBooking(ctx, 1, room.ID, day(t, "2024-01-01"), day(t, "2024-01-02"))
	require.NoError(t, err)

	deleted, err = svc.DeleteBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = svc.GetBooking(ctx, booking.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestListBookings(t *testing.T) {
	svc, _, rooms := newBookingService(t)
	ctx := context.Background()
	room := rooms.add(models.Room{Number: "101"})

	_, err := svc.CreateBooking(ctx, 1, room.ID, day(t, "2024-01-01"), day(t, "2024-01-02"))
	require.NoError(t, err)
	_, err = svc.CreateBooking(ctx, 2, room.ID, day(t, "2024-01-02"), day(t, "2024-01-03"))
	require.NoError(t, err)

	mine, err := svc.ListUserBookings(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	all, err := svc.ListAllBookings(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.ListRoomBookings(ctx, 404)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestCreateBookingConcurrentOnStore(t *testing.T) {
	db := testutil.NewDB(t)
	room := testutil.CreateRoom(t, db, "801", 150)
	svc := NewBookingService(
		repository.NewBookingRepository(db, 5*time.Second),
		repository.NewRoomRepository(db, 5*time.Second),
		repository.NewUserRepository(db, 5*time.Second),
		logger.Discard(),
	)
	checkIn, checkOut := day(t, "2024-09-01"), day(t, "2024-09-04")

	const callers = 4
	for i := 1; i <= callers; i++ {
		testutil.CreateUser(t, db, "guest"+itoa(uint(i)))
	}
	errs := make([]error, callers)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = svc.CreateBooking(context.Background(), uint(i+1), room.ID, checkIn, checkOut)
		}(i)
	}
	close(start)
	wg.Wait()

	var ok, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case apperrors.HasCode(err, apperrors.CodeConflict):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, callers-1, conflicts)

	available, err := svc.CheckAvailability(context.Background(), room.ID, checkIn, checkOut)
	require.NoError(t, err)
	assert.False(t, available)
}
