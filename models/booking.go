package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Booking occupies its room for [CheckInDate, CheckOutDate); the guest leaves
// on CheckOutDate so another stay may begin that day.
type Booking struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       uint           `gorm:"column:user_id;not null;index" json:"userId"`
	RoomID       uint           `gorm:"column:room_id;not null;index:idx_bookings_room_range,priority:1" json:"roomId"`
	CheckInDate  datatypes.Date `gorm:"column:check_in_date;not null;index:idx_bookings_room_range,priority:2" json:"checkInDate"`
	CheckOutDate datatypes.Date `gorm:"column:check_out_date;not null;index:idx_bookings_room_range,priority:3" json:"checkOutDate"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

func (b Booking) CheckIn() time.Time {
	return time.Time(b.CheckInDate)
}

func (b Booking) CheckOut() time.Time {
	return time.Time(b.CheckOutDate)
}

func (b Booking) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID           uint      `json:"id"`
		UserID       uint      `json:"userId"`
		RoomID       uint      `json:"roomId"`
		CheckInDate  string    `json:"checkInDate"`
		CheckOutDate string    `json:"checkOutDate"`
		CreatedAt    time.Time `json:"createdAt"`
		UpdatedAt    time.Time `json:"updatedAt"`
	}{
		ID:           b.ID,
		UserID:       b.UserID,
		RoomID:       b.RoomID,
		CheckInDate:  FormatDate(b.CheckIn()),
		CheckOutDate: FormatDate(b.CheckOut()),
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	})
}
