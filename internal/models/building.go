package models

import (
	"time"

	"github.com/google/uuid"
)

// Building is one addressable structure inside a property. A property
// always owns at least one building.
type Building struct {
	ID          uuid.UUID `json:"id"`
	PropertyID  uuid.UUID `json:"property_id"`
	Street      string    `json:"street"`
	HouseNumber string    `json:"house_number"`
	City        string    `json:"city"`
	PostalCode  string    `json:"postal_code"`
	Country     string    `json:"country"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
