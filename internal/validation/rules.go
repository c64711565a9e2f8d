// Package validation holds the pure predicates that gate wizard-step
// progression client-side and reject malformed submissions server-side.
// Every predicate has a companion Explain* returning the ordered list of
// human-readable labels for the fields that failed.
package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/hauswerk/property-service/internal/constants"
	"github.com/hauswerk/property-service/internal/dtos"
	"github.com/hauswerk/property-service/internal/models"
)

// Error is the ValidationFailure carried from the validators to the
// transport layer. Fields preserves label order.
type Error struct {
	Fields []string
}

func (e *Error) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

// notBlank reports whether s still has content after trimming, so that
// whitespace-only input counts as empty.
func notBlank(s string) bool {
	return strings.TrimSpace(s) != ""
}

func validManagementType(t models.ManagementType) bool {
	return t == models.ManagementWEG || t == models.ManagementMV
}

func validUnitType(t models.UnitType) bool {
	switch t {
	case models.UnitApartment, models.UnitOffice, models.UnitGarden, models.UnitParking:
		return true
	}
	return false
}

/*──────────────────────────── step 1: general info ───────────────────────────*/

func ExplainGeneralInfo(p dtos.PropertyPayload) []string {
	var failed []string
	if !validManagementType(p.ManagementType) {
		failed = append(failed, "Management type")
	}
	if !notBlank(p.Name) {
		failed = append(failed, "Name")
	}
	if !notBlank(p.PropertyManager) {
		failed = append(failed, "Property manager")
	}
	if !notBlank(p.Accountant) {
		failed = append(failed, "Accountant")
	}
	if !notBlank(p.DeclarationFileName) {
		failed = append(failed, "Declaration document")
	}
	return failed
}

func ValidateGeneralInfo(p dtos.PropertyPayload) bool {
	return len(ExplainGeneralInfo(p)) == 0
}

/*──────────────────────────── step 2: building addresses ─────────────────────*/

// explainBuildingAddress lists the blank address fields of one building,
// qualified with its 1-based position.
func explainBuildingAddress(idx int, b dtos.BuildingPayload) []string {
	var failed []string
	label := func(field string) string {
		return fmt.Sprintf("Building %d: %s", idx+1, field)
	}
	if !notBlank(b.Street) {
		failed = append(failed, label("Street"))
	}
	if !notBlank(b.HouseNumber) {
		failed = append(failed, label("House number"))
	}
	if !notBlank(b.City) {
		failed = append(failed, label("City"))
	}
	if !notBlank(b.PostalCode) {
		failed = append(failed, label("Postal code"))
	}
	if !notBlank(b.Country) {
		failed = append(failed, label("Country"))
	}
	return failed
}

// ExplainBuildingAddresses gates step 2. It does not require units to
// exist yet, only that every building has a complete address.
func ExplainBuildingAddresses(p dtos.PropertyPayload) []string {
	if len(p.Buildings) == 0 {
		return []string{"At least one building is required"}
	}
	var failed []string
	for i, b := range p.Buildings {
		failed = append(failed, explainBuildingAddress(i, b)...)
	}
	return failed
}

func ValidateBuildingAddresses(p dtos.PropertyPayload) bool {
	return len(ExplainBuildingAddresses(p)) == 0
}

/*──────────────────────────── step 3: units ──────────────────────────────────*/

// explainUnit lists the invalid fields of one unit, qualified with its
// building's and its own 1-based positions. Size must be strictly
// positive; the same bound applies in every validation path.
func explainUnit(bIdx, uIdx int, u dtos.UnitPayload) []string {
	var failed []string
	label := func(field string) string {
		return fmt.Sprintf("Building %d, Unit %d: %s", bIdx+1, uIdx+1, field)
	}
	if !notBlank(u.UnitNumber) {
		failed = append(failed, label("Unit number"))
	}
	if !validUnitType(u.Type) {
		failed = append(failed, label("Type"))
	}
	if u.Size <= 0 {
		failed = append(failed, label("Size"))
	}
	if u.CoOwnershipShare <= 0 || u.CoOwnershipShare > 1 {
		failed = append(failed, label("Co-ownership share"))
	}
	if u.ConstructionYear < constants.MinConstructionYear || u.ConstructionYear > time.Now().Year() {
		failed = append(failed, label("Construction year"))
	}
	if u.Rooms < 0 {
		failed = append(failed, label("Rooms"))
	}
	return failed
}

func ValidateUnit(u dtos.UnitPayload) bool {
	return len(explainUnit(0, 0, u)) == 0
}

func ExplainUnitsStep(p dtos.PropertyPayload) []string {
	if len(p.Buildings) == 0 {
		return []string{"At least one building is required"}
	}
	var failed []string
	for i, b := range p.Buildings {
		if len(b.Units) == 0 {
			failed = append(failed, fmt.Sprintf("Building %d: At least one unit is required", i+1))
			continue
		}
		for j, u := range b.Units {
			failed = append(failed, explainUnit(i, j, u)...)
		}
	}
	return failed
}

func ValidateUnitsStep(p dtos.PropertyPayload) bool {
	return len(ExplainUnitsStep(p)) == 0
}

/*──────────────────────────── full payload ───────────────────────────────────*/

// ExplainFullPayload is the authoritative gate for submission. Label
// order: general-info fields, then buildings in array order with each
// building's address fields followed by its units.
func ExplainFullPayload(p dtos.PropertyPayload) []string {
	failed := ExplainGeneralInfo(p)
	if len(p.Buildings) == 0 {
		return append(failed, "At least one building is required")
	}
	for i, b := range p.Buildings {
		failed = append(failed, explainBuildingAddress(i, b)...)
		if len(b.Units) == 0 {
			failed = append(failed, fmt.Sprintf("Building %d: At least one unit is required", i+1))
			continue
		}
		for j, u := range b.Units {
			failed = append(failed, explainUnit(i, j, u)...)
		}
	}
	return failed
}

func ValidateFullPayload(p dtos.PropertyPayload) bool {
	return len(ExplainFullPayload(p)) == 0
}
