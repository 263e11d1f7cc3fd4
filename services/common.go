package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hostel-backend/models"
	"hostel-backend/repositories"
)

// lookupErr turns a repository miss into the domain NotFound error and wraps
// anything else as an infrastructure failure.
func lookupErr(err error, resource, id string) error {
	if err == nil || models.KindOf(err) != 0 {
		return err
	}
	if errors.Is(err, repositories.ErrNotFound) {
		return models.NotFound(resource, id)
	}
	return fmt.Errorf("load %s %s: %w", strings.ToLower(resource), id, err)
}

func found[T any](v T, err error, resource, id string) (T, error) {
	if err != nil {
		var zero T
		return zero, lookupErr(err, resource, id)
	}
	return v, nil
}

// persist passes domain errors through and wraps the rest.
func persist(err error, what string) error {
	if err == nil || models.KindOf(err) != 0 {
		return err
	}
	return fmt.Errorf("save %s: %w", what, err)
}

// checkOccupancy rejects a capacity below the guest count of any active
// reservation on the room.
func checkOccupancy(ctx context.Context, tx repositories.Store, room *models.Room, maxOccupancy int) error {
	reservations, err := tx.Reservations().FindByRoom(ctx, room.ID())
	if err != nil {
		return fmt.Errorf("load room reservations: %w", err)
	}
	for _, r := range reservations {
		if r.IsActive() && r.GuestCount() > maxOccupancy {
			return models.BusinessRule("capacity exceeded: room %d has reservation %s with %d guests, room type allows %d",
				room.RoomNumber(), r.Code(), r.GuestCount(), maxOccupancy)
		}
	}
	return nil
}
