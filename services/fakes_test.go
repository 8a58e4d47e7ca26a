package services

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"hotel-booking/models"
	"hotel-booking/repository"
)

// ────────────────────────────────────────────────
// In-memory repositories for service tests
// ────────────────────────────────────────────────

type fakeRoomRepository struct {
	mu       sync.Mutex
	rooms    map[uint]*models.Room
	deleted  map[uint]bool
	nextID   uint
	bookings *fakeBookingRepository
	err      error
}

func newFakeRoomRepository() *fakeRoomRepository {
	return &fakeRoomRepository{rooms: map[uint]*models.Room{}, deleted: map[uint]bool{}, nextID: 1}
}

func (r *fakeRoomRepository) add(room models.Room) *models.Room {
	r.mu.Lock()
	defer r.mu.Unlock()
	if room.ID == 0 {
		room.ID = r.nextID
	}
	if room.ID >= r.nextID {
		r.nextID = room.ID + 1
	}
	r.rooms[room.ID] = &room
	return &room
}

func (r *fakeRoomRepository) FindByID(ctx context.Context, id uint) (*models.Room, error) {
	return r.find(id, false)
}

func (r *fakeRoomRepository) FindByIDWithDeleted(ctx context.Context, id uint) (*models.Room, error) {
	return r.find(id, true)
}

func (r *fakeRoomRepository) find(id uint, withDeleted bool) (*models.Room, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[id]
	if !ok || (r.deleted[id] && !withDeleted) {
		return nil, repository.ErrNotFound
	}
	copied := *room
	return &copied, nil
}

func (r *fakeRoomRepository) FindAll(ctx context.Context) ([]models.Room, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	rooms := make([]models.Room, 0, len(r.rooms))
	for id, room := range r.rooms {
		if !r.deleted[id] {
			rooms = append(rooms, *room)
		}
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })
	return rooms, nil
}

func (r *fakeRoomRepository) FindAvailable(ctx context.Context, checkIn, checkOut time.Time) ([]models.Room, error) {
	all, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	available := []models.Room{}
	for _, room := range all {
		n, _ := r.bookings.CountOverlapping(ctx, room.ID, checkIn, checkOut)
		if n == 0 {
			available = append(available, room)
		}
	}
	return available, nil
}

func (r *fakeRoomRepository) Create(ctx context.Context, room *models.Room) error {
	if r.err != nil {
		return r.err
	}
	*room = *r.add(*room)
	return nil
}

func (r *fakeRoomRepository) Update(ctx context.Context, id uint, changes map[string]any) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[id]
	if !ok || r.deleted[id] {
		return false, nil
	}
	for column, value := range changes {
		switch column {
		case "type":
			room.Type = value.(string)
		case "number":
			room.Number = value.(string)
		case "price":
			room.Price = value.(float64)
		case "description":
			room.Description = value.(string)
		case "image_url":
			if value == nil {
				room.ImageURL = nil
			} else {
				url := value.(string)
				room.ImageURL = &url
			}
		}
	}
	return true, nil
}

func (r *fakeRoomRepository) Delete(ctx context.Context, id uint) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[id]; !ok || r.deleted[id] {
		return false, nil
	}
	r.deleted[id] = true
	return true, nil
}

type fakeBookingRepository struct {
	mu       sync.Mutex
	bookings map[uint]*models.Booking
	nextID   uint
	rooms    *fakeRoomRepository
	err      error
}

func newFakeRepositories() (*fakeBookingRepository, *fakeRoomRepository) {
	rooms := newFakeRoomRepository()
	bookings := &fakeBookingRepository{bookings: map[uint]*models.Booking{}, nextID: 1, rooms: rooms}
	rooms.bookings = bookings
	return bookings, rooms
}

func (r *fakeBookingRepository) add(b models.Booking) *models.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	b.ID = r.nextID
	r.nextID++
	r.bookings[b.ID] = &b
	return &b
}

func (r *fakeBookingRepository) list(match func(*models.Booking) bool) []models.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Booking{}
	for _, b := range r.bookings {
		if match(b) {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *fakeBookingRepository) overlapping(roomID uint, checkIn, checkOut time.Time, excludeID uint) []models.Booking {
	return r.list(func(b *models.Booking) bool {
		return b.RoomID == roomID && b.ID != excludeID && Overlaps(b.CheckIn(), b.CheckOut(), checkIn, checkOut)
	})
}

func (r *fakeBookingRepository) FindByID(ctx context.Context, id uint) (*models.Booking, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *fakeBookingRepository) FindByRoom(ctx context.Context, roomID uint) ([]models.Booking, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.list(func(b *models.Booking) bool { return b.RoomID == roomID }), nil
}

func (r *fakeBookingRepository) FindByUser(ctx context.Context, userID uint) ([]models.Booking, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.list(func(b *models.Booking) bool { return b.UserID == userID }), nil
}

func (r *fakeBookingRepository) FindAll(ctx context.Context) ([]models.Booking, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.list(func(*models.Booking) bool { return true }), nil
}

func (r *fakeBookingRepository) FindOverlapping(ctx context.Context, roomID uint, checkIn, checkOut time.Time, excludeID uint) ([]models.Booking, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.overlapping(roomID, checkIn, checkOut, excludeID), nil
}

func (r *fakeBookingRepository) CountOverlapping(ctx context.Context, roomID uint, checkIn, checkOut time.Time) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	return int64(len(r.overlapping(roomID, checkIn, checkOut, 0))), nil
}

func (r *fakeBookingRepository) CreateIfAvailable(ctx context.Context, booking *models.Booking) error {
	if r.err != nil {
		return r.err
	}
	if _, err := r.rooms.FindByID(ctx, booking.RoomID); err != nil {
		return repository.ErrRoomNotFound
	}
	if len(r.overlapping(booking.RoomID, booking.CheckIn(), booking.CheckOut(), 0)) > 0 {
		return repository.ErrRoomUnavailable
	}
	*booking = *r.add(*booking)
	return nil
}

func (r *fakeBookingRepository) Update(ctx context.Context, id uint, booking *models.Booking) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.bookings[id]
	if !ok {
		return false, nil
	}
	existing.UserID = booking.UserID
	existing.RoomID = booking.RoomID
	existing.CheckInDate = booking.CheckInDate
	existing.CheckOutDate = booking.CheckOutDate
	return true, nil
}

func (r *fakeBookingRepository) Delete(ctx context.Context, id uint) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[id]; !ok {
		return false, nil
	}
	delete(r.bookings, id)
	return true, nil
}

type fakeUserRepository struct {
	mu     sync.Mutex
	users  map[string]*models.User
	nextID uint
	err    error
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: map[string]*models.User{}, nextID: 1}
}

func (r *fakeUserRepository) seed(ids ...uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		username := "guest" + itoa(id)
		r.users[username] = &models.User{ID: id, Username: username, Role: models.RoleUser}
		if id >= r.nextID {
			r.nextID = id + 1
		}
	}
}

func (r *fakeUserRepository) Create(ctx context.Context, user *models.User) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.Username]; ok {
		return repository.ErrDuplicateKey
	}
	user.ID = r.nextID
	r.nextID++
	copied := *user
	r.users[user.Username] = &copied
	return nil
}

func (r *fakeUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
