package models

import (
	"time"

	"github.com/google/uuid"
)

// ManagementType distinguishes condominium associations (WEG) from
// rental portfolios (MV).
type ManagementType string

const (
	ManagementWEG ManagementType = "WEG"
	ManagementMV  ManagementType = "MV"
)

type Property struct {
	ID                  uuid.UUID      `json:"id"`
	ManagementType      ManagementType `json:"management_type"`
	Name                string         `json:"name"`
	PropertyManager     string         `json:"property_manager"`
	Accountant          string         `json:"accountant"`
	DeclarationFileName string         `json:"declaration_file_name"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}
