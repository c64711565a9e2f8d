// Package wizard holds the in-memory draft of a property payload while
// the multi-step creation/edit dialog is open. One Wizard instance is
// constructed per dialog session and threaded through the mutation
// calls explicitly; there is no shared global store. Every mutation is
// a synchronous replace of in-memory state.
package wizard

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hauswerk/property-service/internal/dtos"
	"github.com/hauswerk/property-service/internal/models"
	"github.com/hauswerk/property-service/internal/validation"
)

type Step int

const (
	StepGeneralInfo Step = iota
	StepBuildingData
	StepUnits
)

/*──────────────────────────── draft shapes ───────────────────────────*/

// Unit is the draft of one unit row. A non-nil ID means the row already
// exists in storage (edit mode).
type Unit struct {
	ID               *uuid.UUID
	UnitNumber       string
	Type             models.UnitType
	Floor            int
	Entrance         string
	Size             float64
	CoOwnershipShare float64
	ConstructionYear int
	Rooms            int
}

// Building is the draft of one building. LocalKey identifies the row in
// the UI only; it is never persisted and never confused with the
// storage identity carried in ID.
type Building struct {
	LocalKey    string
	ID          *uuid.UUID
	Street      string
	HouseNumber string
	City        string
	PostalCode  string
	Country     string
	Units       []Unit
}

/*──────────────────────────── field selectors ────────────────────────*/

type GeneralField string

const (
	FieldManagementType      GeneralField = "management_type"
	FieldName                GeneralField = "name"
	FieldPropertyManager     GeneralField = "property_manager"
	FieldAccountant          GeneralField = "accountant"
	FieldDeclarationFileName GeneralField = "declaration_file_name"
)

type BuildingField string

const (
	FieldStreet      BuildingField = "street"
	FieldHouseNumber BuildingField = "house_number"
	FieldCity        BuildingField = "city"
	FieldPostalCode  BuildingField = "postal_code"
	FieldCountry     BuildingField = "country"
)

type UnitField string

const (
	FieldUnitNumber       UnitField = "unit_number"
	FieldUnitType         UnitField = "type"
	FieldFloor            UnitField = "floor"
	FieldEntrance         UnitField = "entrance"
	FieldSize             UnitField = "size"
	FieldCoOwnershipShare UnitField = "co_ownership_share"
	FieldConstructionYear UnitField = "construction_year"
	FieldRooms            UnitField = "rooms"
)

/*──────────────────────────── wizard ─────────────────────────────────*/

type Wizard struct {
	step             Step
	selectedBuilding int
	editingID        *uuid.UUID

	managementType      models.ManagementType
	name                string
	propertyManager     string
	accountant          string
	declarationFileName string
	buildings           []Building

	nextLocalKey int
}

func New() *Wizard {
	return &Wizard{}
}

/*──────────── navigation ────────────*/

func (w *Wizard) Step() Step              { return w.step }
func (w *Wizard) SetStep(s Step)          { w.step = s }
func (w *Wizard) SelectedBuilding() int   { return w.selectedBuilding }
func (w *Wizard) SetSelectedBuilding(i int) { w.selectedBuilding = i }

// EditingID is the identity of the property being edited, nil in
// create mode.
func (w *Wizard) EditingID() *uuid.UUID { return w.editingID }

func (w *Wizard) BuildingCount() int { return len(w.buildings) }

// BuildingAt returns a copy of the draft building at i.
func (w *Wizard) BuildingAt(i int) (Building, error) {
	if i < 0 || i >= len(w.buildings) {
		return Building{}, fmt.Errorf("building index %d out of range", i)
	}
	b := w.buildings[i]
	b.Units = append([]Unit(nil), b.Units...)
	return b, nil
}

// UnitAt returns a copy of the draft unit at (b, u).
func (w *Wizard) UnitAt(b, u int) (Unit, error) {
	if b < 0 || b >= len(w.buildings) {
		return Unit{}, fmt.Errorf("building index %d out of range", b)
	}
	if u < 0 || u >= len(w.buildings[b].Units) {
		return Unit{}, fmt.Errorf("unit index %d out of range", u)
	}
	return w.buildings[b].Units[u], nil
}

/*──────────── general info ────────────*/

func (w *Wizard) UpdateGeneralField(field GeneralField, value string) error {
	switch field {
	case FieldManagementType:
		w.managementType = models.ManagementType(value)
	case FieldName:
		w.name = value
	case FieldPropertyManager:
		w.propertyManager = value
	case FieldAccountant:
		w.accountant = value
	case FieldDeclarationFileName:
		w.declarationFileName = value
	default:
		return fmt.Errorf("unknown general field %q", field)
	}
	return nil
}

/*──────────── buildings ────────────*/

func (w *Wizard) newLocalKey() string {
	w.nextLocalKey++
	return fmt.Sprintf("b-%d", w.nextLocalKey)
}

// AddBuilding appends a building with all-empty address fields and no
// units yet.
func (w *Wizard) AddBuilding() {
	w.buildings = append(w.buildings, Building{LocalKey: w.newLocalKey()})
}

func (w *Wizard) UpdateBuildingField(i int, field BuildingField, value string) error {
	if i < 0 || i >= len(w.buildings) {
		return fmt.Errorf("building index %d out of range", i)
	}
	b := &w.buildings[i]
	switch field {
	case FieldStreet:
		b.Street = value
	case FieldHouseNumber:
		b.HouseNumber = value
	case FieldCity:
		b.City = value
	case FieldPostalCode:
		b.PostalCode = value
	case FieldCountry:
		b.Country = value
	default:
		return fmt.Errorf("unknown building field %q", field)
	}
	return nil
}

// DeleteBuilding removes the building at i. When the removed index is
// at or before the currently selected building, the selection is
// clamped to the last remaining index so the units step never points
// past the end of the slice.
func (w *Wizard) DeleteBuilding(i int) error {
	if i < 0 || i >= len(w.buildings) {
		return fmt.Errorf("building index %d out of range", i)
	}
	w.buildings = append(w.buildings[:i], w.buildings[i+1:]...)
	if i <= w.selectedBuilding || w.selectedBuilding >= len(w.buildings) {
		w.selectedBuilding = len(w.buildings) - 1
		if w.selectedBuilding < 0 {
			w.selectedBuilding = 0
		}
	}
	return nil
}

/*──────────── units ────────────*/

func defaultUnit() Unit {
	return Unit{
		Type:             models.UnitApartment,
		ConstructionYear: time.Now().Year(),
	}
}

func (w *Wizard) AddUnit(building int) error {
	return w.AddUnits(building, 1)
}

func (w *Wizard) AddUnits(building, count int) error {
	if building < 0 || building >= len(w.buildings) {
		return fmt.Errorf("building index %d out of range", building)
	}
	if count < 1 {
		return fmt.Errorf("unit count must be positive, got %d", count)
	}
	b := &w.buildings[building]
	for i := 0; i < count; i++ {
		b.Units = append(b.Units, defaultUnit())
	}
	return nil
}

func (w *Wizard) UpdateUnitField(building, unit int, field UnitField, value any) error {
	if building < 0 || building >= len(w.buildings) {
		return fmt.Errorf("building index %d out of range", building)
	}
	if unit < 0 || unit >= len(w.buildings[building].Units) {
		return fmt.Errorf("unit index %d out of range", unit)
	}
	u := &w.buildings[building].Units[unit]
	switch field {
	case FieldUnitNumber:
		s, err := coerceString(value)
		if err != nil {
			return err
		}
		u.UnitNumber = s
	case FieldUnitType:
		s, err := coerceString(value)
		if err != nil {
			return err
		}
		u.Type = models.UnitType(s)
	case FieldFloor:
		n, err := coerceInt(value, 0)
		if err != nil {
			return err
		}
		u.Floor = n
	case FieldEntrance:
		s, err := coerceString(value)
		if err != nil {
			return err
		}
		u.Entrance = s
	case FieldSize:
		f, err := coerceFloat(value)
		if err != nil {
			return err
		}
		u.Size = f
	case FieldCoOwnershipShare:
		f, err := coerceFloat(value)
		if err != nil {
			return err
		}
		u.CoOwnershipShare = f
	case FieldConstructionYear:
		n, err := coerceInt(value, time.Now().Year())
		if err != nil {
			return err
		}
		u.ConstructionYear = n
	case FieldRooms:
		n, err := coerceInt(value, 0)
		if err != nil {
			return err
		}
		u.Rooms = n
	default:
		return fmt.Errorf("unknown unit field %q", field)
	}
	return nil
}

// DuplicateUnit appends a copy of the unit at (building, unit) with the
// storage identity stripped and the unit number cleared; all other
// fields are copied verbatim.
func (w *Wizard) DuplicateUnit(building, unit int) error {
	if building < 0 || building >= len(w.buildings) {
		return fmt.Errorf("building index %d out of range", building)
	}
	b := &w.buildings[building]
	if unit < 0 || unit >= len(b.Units) {
		return fmt.Errorf("unit index %d out of range", unit)
	}
	copied := b.Units[unit]
	copied.ID = nil
	copied.UnitNumber = ""
	b.Units = append(b.Units, copied)
	return nil
}

func (w *Wizard) DeleteUnit(building, unit int) error {
	if building < 0 || building >= len(w.buildings) {
		return fmt.Errorf("building index %d out of range", building)
	}
	b := &w.buildings[building]
	if unit < 0 || unit >= len(b.Units) {
		return fmt.Errorf("unit index %d out of range", unit)
	}
	b.Units = append(b.Units[:unit], b.Units[unit+1:]...)
	return nil
}

/*──────────── lifecycle ────────────*/

// LoadExisting switches the wizard into edit mode, rewriting the draft
// from a persisted property. Storage identities of existing buildings
// and units are preserved so the update endpoint can later recognize
// them as already-existing rows.
func (w *Wizard) LoadExisting(p dtos.PropertyResponse) {
	w.Reset()
	id := p.ID
	w.editingID = &id
	w.managementType = p.ManagementType
	w.name = p.Name
	w.propertyManager = p.PropertyManager
	w.accountant = p.Accountant
	w.declarationFileName = p.DeclarationFileName
	for _, b := range p.Buildings {
		bid := b.ID
		draft := Building{
			LocalKey:    w.newLocalKey(),
			ID:          &bid,
			Street:      b.Street,
			HouseNumber: b.HouseNumber,
			City:        b.City,
			PostalCode:  b.PostalCode,
			Country:     b.Country,
			Units:       make([]Unit, 0, len(b.Units)),
		}
		for _, u := range b.Units {
			uid := u.ID
			draft.Units = append(draft.Units, Unit{
				ID:               &uid,
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
		w.buildings = append(w.buildings, draft)
	}
}

// Reset restores create mode and the empty draft.
func (w *Wizard) Reset() {
	*w = Wizard{}
}

/*──────────── extraction merge ────────────*/

// MergeExtracted folds a best-effort extraction result into the draft
// field by field. Absent fields never overwrite what the user already
// entered, and absent numerics are coerced to the same defaults used
// when adding units by hand.
func (w *Wizard) MergeExtracted(data dtos.ExtractedProperty) {
	if data.ManagementType != nil {
		w.managementType = *data.ManagementType
	}
	if data.Name != nil {
		w.name = *data.Name
	}
	if data.PropertyManager != nil {
		w.propertyManager = *data.PropertyManager
	}
	if data.Accountant != nil {
		w.accountant = *data.Accountant
	}
	if len(data.Buildings) == 0 {
		return
	}
	buildings := make([]Building, 0, len(data.Buildings))
	for _, eb := range data.Buildings {
		b := Building{LocalKey: w.newLocalKey()}
		b.Street = strDefault(eb.Street)
		b.HouseNumber = strDefault(eb.HouseNumber)
		b.City = strDefault(eb.City)
		b.PostalCode = strDefault(eb.PostalCode)
		b.Country = strDefault(eb.Country)
		for _, eu := range eb.Units {
			u := defaultUnit()
			u.UnitNumber = strDefault(eu.UnitNumber)
			if eu.Type != nil {
				u.Type = *eu.Type
			}
			if eu.Floor != nil {
				u.Floor = *eu.Floor
			}
			u.Entrance = strDefault(eu.Entrance)
			if eu.Size != nil {
				u.Size = *eu.Size
			}
			if eu.CoOwnershipShare != nil {
				u.CoOwnershipShare = *eu.CoOwnershipShare
			}
			if eu.ConstructionYear != nil {
				u.ConstructionYear = *eu.ConstructionYear
			}
			if eu.Rooms != nil {
				u.Rooms = *eu.Rooms
			}
			b.Units = append(b.Units, u)
		}
		buildings = append(buildings, b)
	}
	w.buildings = buildings
	if w.selectedBuilding >= len(w.buildings) {
		w.selectedBuilding = len(w.buildings) - 1
	}
}

/*──────────── validation + export ────────────*/

// CurrentStepValid answers whether the active step may be advanced.
func (w *Wizard) CurrentStepValid() bool {
	p := w.ExportPayload()
	switch w.step {
	case StepGeneralInfo:
		return validation.ValidateGeneralInfo(p)
	case StepBuildingData:
		return validation.ValidateBuildingAddresses(p)
	case StepUnits:
		return validation.ValidateUnitsStep(p)
	}
	return false
}

// ExportPayload renders the draft as the wire payload, dropping the
// UI-only local keys. Numeric fields are always concrete values here;
// null coercion happened at data-entry time.
func (w *Wizard) ExportPayload() dtos.PropertyPayload {
	p := dtos.PropertyPayload{
		ManagementType:      w.managementType,
		Name:                w.name,
		PropertyManager:     w.propertyManager,
		Accountant:          w.accountant,
		DeclarationFileName: w.declarationFileName,
		Buildings:           make([]dtos.BuildingPayload, 0, len(w.buildings)),
	}
	for _, b := range w.buildings {
		bp := dtos.BuildingPayload{
			ID:          b.ID,
			Street:      b.Street,
			HouseNumber: b.HouseNumber,
			City:        b.City,
			PostalCode:  b.PostalCode,
			Country:     b.Country,
			Units:       make([]dtos.UnitPayload, 0, len(b.Units)),
		}
		for _, u := range b.Units {
			bp.Units = append(bp.Units, dtos.UnitPayload{
				ID:               u.ID,
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

/*──────────── coercion helpers ────────────*/

func strDefault(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func coerceString(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("expected string, got %T", v)
	}
	return s, nil
}

func coerceInt(v any, def int) (int, error) {
	switch n := v.(type) {
	case nil:
		return def, nil
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	}
	return 0, fmt.Errorf("expected integer, got %T", v)
}

func coerceFloat(v any) (float64, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	}
	return 0, fmt.Errorf("expected number, got %T", v)
}
