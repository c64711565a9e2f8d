package models

import (
	"time"

	"github.com/google/uuid"
)

type UnitType string

const (
	UnitApartment UnitType = "Apartment"
	UnitOffice    UnitType = "Office"
	UnitGarden    UnitType = "Garden"
	UnitParking   UnitType = "Parking"
)

// Unit represents an individually owned or rented space inside a
// specific building on a property.
type Unit struct {
	ID               uuid.UUID `json:"id"`
	PropertyID       uuid.UUID `json:"property_id"`
	BuildingID       uuid.UUID `json:"building_id"`
	UnitNumber       string    `json:"unit_number"`
	Type             UnitType  `json:"type"`
	Floor            int       `json:"floor"`
	Entrance         string    `json:"entrance"`
	Size             float64   `json:"size"`
	CoOwnershipShare float64   `json:"co_ownership_share"`
	ConstructionYear int       `json:"construction_year"`
	Rooms            int       `json:"rooms"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
