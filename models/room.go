package models

import (
	"time"

	"gorm.io/gorm"
)

type Room struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Type        string         `gorm:"size:100;not null" json:"type"`
	Number      string         `gorm:"size:50;not null;index" json:"number"`
	Price       float64        `gorm:"not null;default:0" json:"price"`
	Description string         `gorm:"type:text" json:"description"`
	ImageURL    *string        `gorm:"column:image_url;size:512" json:"imageUrl"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// RoomUpdatableColumns maps the JSON keys an admin may patch to their columns.
var RoomUpdatableColumns = map[string]string{
	"type":        "type",
	"number":      "number",
	"price":       "price",
	"description": "description",
	"imageUrl":    "image_url",
}
