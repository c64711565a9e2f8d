package dtos

import (
	"time"

	"github.com/google/uuid"

	"github.com/hauswerk/property-service/internal/models"
)

/*──────────────────────────────────────────────────────────
  Create shapes – no identities, nothing persisted yet
──────────────────────────────────────────────────────────*/

type CreateUnitRequest struct {
	UnitNumber       string          `json:"unit_number"`
	Type             models.UnitType `json:"type"`
	Floor            int             `json:"floor"`
	Entrance         string          `json:"entrance,omitempty"`
	Size             float64         `json:"size"`
	CoOwnershipShare float64         `json:"co_ownership_share"`
	ConstructionYear int             `json:"construction_year"`
	Rooms            int             `json:"rooms"`
}

type CreateBuildingRequest struct {
	Street      string              `json:"street"`
	HouseNumber string              `json:"house_number"`
	City        string              `json:"city"`
	PostalCode  string              `json:"postal_code"`
	Country     string              `json:"country"`
	Units       []CreateUnitRequest `json:"units"`
}

type CreatePropertyRequest struct {
	ManagementType      models.ManagementType   `json:"management_type"`
	Name                string                  `json:"name"`
	PropertyManager     string                  `json:"property_manager"`
	Accountant          string                  `json:"accountant"`
	DeclarationFileName string                  `json:"declaration_file_name"`
	Buildings           []CreateBuildingRequest `json:"buildings"`
}

// Payload converts the create shape into the identity-carrying payload
// shape, with every identity absent.
func (r CreatePropertyRequest) Payload() PropertyPayload {
	p := PropertyPayload{
		ManagementType:      r.ManagementType,
		Name:                r.Name,
		PropertyManager:     r.PropertyManager,
		Accountant:          r.Accountant,
		DeclarationFileName: r.DeclarationFileName,
		Buildings:           make([]BuildingPayload, 0, len(r.Buildings)),
	}
	for _, b := range r.Buildings {
		bp := BuildingPayload{
			Street:      b.Street,
			HouseNumber: b.HouseNumber,
			City:        b.City,
			PostalCode:  b.PostalCode,
			Country:     b.Country,
			Units:       make([]UnitPayload, 0, len(b.Units)),
		}
		for _, u := range b.Units {
			bp.Units = append(bp.Units, UnitPayload{
				UnitNumber:       u.UnitNumber,
				Type:             u.Type,
				Floor:            u.Floor,
				Entrance:         u.Entrance,
				Size:             u.Size,
				CoOwnershipShare: u.CoOwnershipShare,
				ConstructionYear: u.ConstructionYear,
				Rooms:            u.Rooms,
			})
		}
		p.Buildings = append(p.Buildings, bp)
	}
	return p
}

/*──────────────────────────────────────────────────────────
  Update shapes – identities optional; a present identity
  means "this row already exists in storage"
──────────────────────────────────────────────────────────*/

type UnitPayload struct {
	ID               *uuid.UUID      `json:"id,omitempty"`
	UnitNumber       string          `json:"unit_number"`
	Type             models.UnitType `json:"type"`
	Floor            int             `json:"floor"`
	Entrance         string          `json:"entrance,omitempty"`
	Size             float64         `json:"size"`
	CoOwnershipShare float64         `json:"co_ownership_share"`
	ConstructionYear int             `json:"construction_year"`
	Rooms            int             `json:"rooms"`
}

type BuildingPayload struct {
	ID          *uuid.UUID    `json:"id,omitempty"`
	Street      string        `json:"street"`
	HouseNumber string        `json:"house_number"`
	City        string        `json:"city"`
	PostalCode  string        `json:"postal_code"`
	Country     string        `json:"country"`
	Units       []UnitPayload `json:"units"`
}

type PropertyPayload struct {
	ManagementType      models.ManagementType `json:"management_type"`
	Name                string                `json:"name"`
	PropertyManager     string                `json:"property_manager"`
	Accountant          string                `json:"accountant"`
	DeclarationFileName string                `json:"declaration_file_name"`
	Buildings           []BuildingPayload     `json:"buildings"`
}

/*──────────────────────────────────────────────────────────
  Response shapes – nested property tree as persisted
──────────────────────────────────────────────────────────*/

type UnitResponse struct {
	ID               uuid.UUID       `json:"id"`
	UnitNumber       string          `json:"unit_number"`
	Type             models.UnitType `json:"type"`
	Floor            int             `json:"floor"`
	Entrance         string          `json:"entrance,omitempty"`
	Size             float64         `json:"size"`
	CoOwnershipShare float64         `json:"co_ownership_share"`
	ConstructionYear int             `json:"construction_year"`
	Rooms            int             `json:"rooms"`
}

type BuildingResponse struct {
	ID          uuid.UUID      `json:"id"`
	Street      string         `json:"street"`
	HouseNumber string         `json:"house_number"`
	City        string         `json:"city"`
	PostalCode  string         `json:"postal_code"`
	Country     string         `json:"country"`
	Units       []UnitResponse `json:"units"`
}

type PropertyResponse struct {
	ID                  uuid.UUID             `json:"id"`
	ManagementType      models.ManagementType `json:"management_type"`
	Name                string                `json:"name"`
	PropertyManager     string                `json:"property_manager"`
	Accountant          string                `json:"accountant"`
	DeclarationFileName string                `json:"declaration_file_name"`
	Buildings           []BuildingResponse    `json:"buildings"`
	CreatedAt           time.Time             `json:"created_at"`
}

func NewUnitResponse(u *models.Unit) UnitResponse {
	return UnitResponse{
		ID:               u.ID,
		UnitNumber:       u.UnitNumber,
		Type:             u.Type,
		Floor:            u.Floor,
		Entrance:         u.Entrance,
		Size:             u.Size,
		CoOwnershipShare: u.CoOwnershipShare,
		ConstructionYear: u.ConstructionYear,
		Rooms:            u.Rooms,
	}
}

func NewBuildingResponse(b *models.Building, units []*models.Unit) BuildingResponse {
	out := BuildingResponse{
		ID:          b.ID,
		Street:      b.Street,
		HouseNumber: b.HouseNumber,
		City:        b.City,
		PostalCode:  b.PostalCode,
		Country:     b.Country,
		Units:       make([]UnitResponse, 0, len(units)),
	}
	for _, u := range units {
		out.Units = append(out.Units, NewUnitResponse(u))
	}
	return out
}

func NewPropertyResponse(
	p *models.Property,
	buildings []*models.Building,
	unitsByBuilding map[uuid.UUID][]*models.Unit,
) PropertyResponse {
	out := PropertyResponse{
		ID:                  p.ID,
		ManagementType:      p.ManagementType,
		Name:                p.Name,
		PropertyManager:     p.PropertyManager,
		Accountant:          p.Accountant,
		DeclarationFileName: p.DeclarationFileName,
		Buildings:           make([]BuildingResponse, 0, len(buildings)),
		CreatedAt:           p.CreatedAt,
	}
	for _, b := range buildings {
		out.Buildings = append(out.Buildings, NewBuildingResponse(b, unitsByBuilding[b.ID]))
	}
	return out
}

/*──────────────────────────────────────────────────────────
  Upload / extraction request-response envelopes
──────────────────────────────────────────────────────────*/

type UploadFileResponse struct {
	Message  string `json:"message"`
	Filename string `json:"filename"`
}

type ExtractRequest struct {
	Filename string `json:"filename" validate:"required,min=1"`
}

type ExtractResponse struct {
	Message string            `json:"message"`
	Data    ExtractedProperty `json:"data"`
}
