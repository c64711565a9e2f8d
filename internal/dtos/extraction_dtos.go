package dtos

import "github.com/hauswerk/property-service/internal/models"

// Extracted* mirror the JSON the document parser model is instructed to
// return. Every field is a pointer: the extraction is best-effort and
// anything the model could not determine simply stays absent. The JSON
// keys match the prompt schema, not the service's own wire format.

type ExtractedUnit struct {
	UnitNumber       *string          `json:"unitNumber"`
	Type             *models.UnitType `json:"type"`
	Floor            *int             `json:"floor"`
	Entrance         *string          `json:"entrance"`
	Size             *float64         `json:"size"`
	CoOwnershipShare *float64         `json:"coOwnershipShare"`
	ConstructionYear *int             `json:"constructionYear"`
	Rooms            *int             `json:"rooms"`
}

type ExtractedBuilding struct {
	Street      *string         `json:"street"`
	HouseNumber *string         `json:"houseNumber"`
	City        *string         `json:"city"`
	PostalCode  *string         `json:"postalCode"`
	Country     *string         `json:"country"`
	Units       []ExtractedUnit `json:"units"`
}

type ExtractedProperty struct {
	ManagementType  *models.ManagementType `json:"managementType"`
	Name            *string                `json:"name"`
	PropertyManager *string                `json:"propertyManager"`
	Accountant      *string                `json:"accountant"`
	Buildings       []ExtractedBuilding    `json:"buildings"`
}
