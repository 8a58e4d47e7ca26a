package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"hotel-booking/apperrors"
	"hotel-booking/logger"
	"hotel-booking/models"
	"hotel-booking/repository"
	"hotel-booking/validation"
)

type RoomService struct {
	rooms repository.RoomRepository
	log   *logger.Logger
}

func NewRoomService(rooms repository.RoomRepository, log *logger.Logger) *RoomService {
	return &RoomService{rooms: rooms, log: log}
}

func (s *RoomService) List(ctx context.Context) ([]models.Room, error) {
	rooms, err := s.rooms.FindAll(ctx)
	if err != nil {
		return nil, storageFailure("Failed to list rooms", err)
	}
	return rooms, nil
}

func (s *RoomService) Get(ctx context.Context, id uint) (*models.Room, error) {
	room, err := s.rooms.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Room", id)
		}
		return nil, storageFailure("Failed to retrieve room", err)
	}
	return room, nil
}

func (s *RoomService) Create(ctx context.Context, room *models.Room) error {
	room.ID = 0
	room.Type = strings.TrimSpace(room.Type)
	room.Number = strings.TrimSpace(room.Number)
	if room.ImageURL != nil && strings.TrimSpace(*room.ImageURL) == "" {
		room.ImageURL = nil
	}

	var fields validation.FieldErrors
	if room.Type == "" {
		fields = append(fields, validation.FieldError{Field: "type", Message: "type is required"})
	}
	if room.Number == "" {
		fields = append(fields, validation.FieldError{Field: "number", Message: "number is required"})
	}
	if room.Price < 0 {
		fields = append(fields, validation.FieldError{Field: "price", Message: "price must be greater than or equal to 0"})
	}
	if len(fields) > 0 {
		return apperrors.Validation("Invalid room", map[string]any{"fields": fields})
	}

	if err := s.rooms.Create(ctx, room); err != nil {
		s.log.Error("Failed to create room", "number", room.Number, "error", err)
		return storageFailure("Failed to create room", err)
	}

	s.log.Info("Room created", "id", room.ID, "number", room.Number, "type", room.Type)
	return nil
}

// Update applies a partial change set keyed by the room's JSON field names.
func (s *RoomService) Update(ctx context.Context, id uint, changes map[string]any) (*models.Room, error) {
	columns, err := roomColumns(changes)
	if err != nil {
		return nil, err
	}

	updated, err := s.rooms.Update(ctx, id, columns)
	if err != nil {
		return nil, storageFailure("Failed to update room", err)
	}
	if !updated {
		return nil, apperrors.NotFoundWithID("Room", id)
	}

	s.log.Info("Room updated", "id", id, "fields", sortedKeys(changes))
	return s.Get(ctx, id)
}

// Delete soft-deletes the room. Its bookings are kept.
func (s *RoomService) Delete(ctx context.Context, id uint) error {
	deleted, err := s.rooms.Delete(ctx, id)
	if err != nil {
		return storageFailure("Failed to delete room", err)
	}
	if !deleted {
		return apperrors.NotFoundWithID("Room", id)
	}

	s.log.Info("Room deleted", "id", id)
	return nil
}

func roomColumns(changes map[string]any) (map[string]any, error) {
	if len(changes) == 0 {
		return nil, apperrors.InvalidInput("No fields to update")
	}

	columns := make(map[string]any, len(changes))
	var fields validation.FieldErrors
	for _, key := range sortedKeys(changes) {
		column, ok := models.RoomUpdatableColumns[key]
		if !ok {
			fields = append(fields, validation.FieldError{Field: key, Message: fmt.Sprintf("%s cannot be updated", key)})
			continue
		}

		value, msg := roomValue(key, changes[key])
		if msg != "" {
			fields = append(fields, validation.FieldError{Field: key, Message: msg})
			continue
		}
		columns[column] = value
	}

	if len(fields) > 0 {
		return nil, apperrors.Validation("Invalid room update", map[string]any{"fields": fields})
	}
	return columns, nil
}

func roomValue(key string, raw any) (any, string) {
	switch key {
	case "price":
		price, ok := raw.(float64)
		if !ok {
			return nil, "price must be a number"
		}
		if price < 0 {
			return nil, "price must be greater than or equal to 0"
		}
		return price, ""
	case "imageUrl":
		if raw == nil {
			return nil, ""
		}
		url, ok := raw.(string)
		if !ok {
			return nil, "imageUrl must be a string"
		}
		if url = strings.TrimSpace(url); url == "" {
			return nil, ""
		}
		return url, ""
	case "description":
		text, ok := raw.(string)
		if !ok {
			return nil, "description must be a string"
		}
		return text, ""
	default:
		text, ok := raw.(string)
		if !ok || strings.TrimSpace(text) == "" {
			return nil, fmt.Sprintf("%s must be a non-empty string", key)
		}
		return strings.TrimSpace(text), ""
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
