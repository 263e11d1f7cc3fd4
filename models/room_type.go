package models

import (
	"strings"

	"github.com/google/uuid"
)

// RoomType is a capacity and pricing class shared by rooms.
type RoomType struct {
	id           string
	name         string
	description  string
	maxOccupancy int
	basePrice    float64
}

func NewRoomType(name, description string, maxOccupancy int, basePrice float64) (*RoomType, error) {
	rt := &RoomType{id: uuid.NewString()}
	if err := rt.UpdateDetails(name, description, maxOccupancy); err != nil {
		return nil, err
	}
	if err := rt.UpdatePricing(basePrice); err != nil {
		return nil, err
	}
	return rt, nil
}

func HydrateRoomType(id, name, description string, maxOccupancy int, basePrice float64) *RoomType {
	return &RoomType{
		id:           id,
		name:         name,
		description:  description,
		maxOccupancy: maxOccupancy,
		basePrice:    basePrice,
	}
}

func (rt *RoomType) UpdatePricing(basePrice float64) error {
	if basePrice <= 0 {
		return Validation("base price must be positive")
	}
	rt.basePrice = basePrice
	return nil
}

func (rt *RoomType) UpdateDetails(name, description string, maxOccupancy int) error {
	if strings.TrimSpace(name) == "" {
		return Validation("room type name is required")
	}
	if maxOccupancy <= 0 {
		return Validation("max occupancy must be positive")
	}
	rt.name = strings.TrimSpace(name)
	rt.description = description
	rt.maxOccupancy = maxOccupancy
	return nil
}

func (rt *RoomType) ID() string          { return rt.id }
func (rt *RoomType) Name() string        { return rt.name }
func (rt *RoomType) Description() string { return rt.description }
func (rt *RoomType) MaxOccupancy() int   { return rt.maxOccupancy }
func (rt *RoomType) BasePrice() float64  { return rt.basePrice }
