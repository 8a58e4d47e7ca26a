// Package testutil builds in-memory databases and fixtures for tests.
package testutil

import (
	"testing"
	"time"

	"hotel-booking/config"
	"hotel-booking/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDB opens a migrated in-memory SQLite database. The pool is capped at a
// single connection so every session sees the same database and
// transactions run one after another.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	return db
}

// Date parses YYYY-MM-DD or fails the test.
func Date(t testing.TB, value string) time.Time {
	t.Helper()
	d, err := models.ParseDate(value)
	require.NoError(t, err)
	return d
}

func CreateRoom(t testing.TB, db *gorm.DB, number string, price float64) *models.Room {
	t.Helper()
	room := &models.Room{
		Type:        "Standard",
		Number:      number,
		Price:       price,
		Description: "Room " + number,
	}
	require.NoError(t, db.Create(room).Error)
	return room
}

// CreateUser stores a user with a placeholder password hash.
func CreateUser(t testing.TB, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Password: "x", Role: models.RoleUser}
	require.NoError(t, db.Create(user).Error)
	return user
}

func CreateBooking(t testing.TB, db *gorm.DB, userID, roomID uint, checkIn, checkOut string) *models.Booking {
	t.Helper()
	booking := &models.Booking{
		UserID:       userID,
		RoomID:       roomID,
		CheckInDate:  models.NewDate(Date(t, checkIn)),
		CheckOutDate: models.NewDate(Date(t, checkOut)),
	}
	require.NoError(t, db.Create(booking).Error)
	return booking
}
