package wizard

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hauswerk/property-service/internal/dtos"
	"github.com/hauswerk/property-service/internal/models"
)

func newWizardWithBuildings(t *testing.T, n int) *Wizard {
	t.Helper()
	w := New()
	for i := 0; i < n; i++ {
		w.AddBuilding()
	}
	return w
}

func TestAddBuilding_EmptyFieldsAndLocalKey(t *testing.T) {
	w := newWizardWithBuildings(t, 2)

	b0, err := w.BuildingAt(0)
	require.NoError(t, err)
	b1, err := w.BuildingAt(1)
	require.NoError(t, err)

	assert.Empty(t, b0.Street)
	assert.Empty(t, b0.Country)
	assert.Nil(t, b0.ID)
	assert.NotEmpty(t, b0.LocalKey)
	assert.NotEqual(t, b0.LocalKey, b1.LocalKey)
}

func TestDeleteBuilding_ClampsSelection(t *testing.T) {
	// Deleting the selected last building moves selection to the new
	// last index.
	w := newWizardWithBuildings(t, 3)
	w.SetSelectedBuilding(2)
	require.NoError(t, w.DeleteBuilding(2))
	assert.Equal(t, 1, w.SelectedBuilding())

	// Deleting an earlier building also clamps to length-1.
	w = newWizardWithBuildings(t, 3)
	w.SetSelectedBuilding(2)
	require.NoError(t, w.DeleteBuilding(0))
	assert.Equal(t, 1, w.SelectedBuilding())
}

func TestDeleteBuilding_LastBuildingSelectsZero(t *testing.T) {
	w := newWizardWithBuildings(t, 1)
	require.NoError(t, w.DeleteBuilding(0))
	assert.Equal(t, 0, w.SelectedBuilding())
	assert.Equal(t, 0, w.BuildingCount())
}

func TestDeleteBuilding_OutOfRange(t *testing.T) {
	w := newWizardWithBuildings(t, 1)
	assert.Error(t, w.DeleteBuilding(1))
	assert.Error(t, w.DeleteBuilding(-1))
}

func TestAddUnits_Defaults(t *testing.T) {
	w := newWizardWithBuildings(t, 1)
	require.NoError(t, w.AddUnits(0, 3))

	b, err := w.BuildingAt(0)
	require.NoError(t, err)
	require.Len(t, b.Units, 3)

	u := b.Units[0]
	assert.Equal(t, models.UnitApartment, u.Type)
	assert.Equal(t, 0, u.Floor)
	assert.Equal(t, float64(0), u.Size)
	assert.Equal(t, float64(0), u.CoOwnershipShare)
	assert.Equal(t, time.Now().Year(), u.ConstructionYear)
	assert.Equal(t, 0, u.Rooms)
	assert.Empty(t, u.Entrance)
	assert.Nil(t, u.ID)
}

func TestAddUnits_InvalidCount(t *testing.T) {
	w := newWizardWithBuildings(t, 1)
	assert.Error(t, w.AddUnits(0, 0))
	assert.Error(t, w.AddUnits(5, 1))
}

func TestDuplicateUnit(t *testing.T) {
	w := newWizardWithBuildings(t, 1)
	require.NoError(t, w.AddUnit(0))
	require.NoError(t, w.UpdateUnitField(0, 0, FieldUnitNumber, "A1"))
	require.NoError(t, w.UpdateUnitField(0, 0, FieldSize, 50.0))
	require.NoError(t, w.UpdateUnitField(0, 0, FieldRooms, 2))

	require.NoError(t, w.DuplicateUnit(0, 0))

	b, err := w.BuildingAt(0)
	require.NoError(t, err)
	require.Len(t, b.Units, 2)

	// Original unchanged.
	assert.Equal(t, "A1", b.Units[0].UnitNumber)
	assert.Equal(t, float64(50), b.Units[0].Size)

	// Copy appended with identity stripped and unit number cleared.
	dup := b.Units[1]
	assert.Empty(t, dup.UnitNumber)
	assert.Nil(t, dup.ID)
	assert.Equal(t, float64(50), dup.Size)
	assert.Equal(t, 2, dup.Rooms)
}

func TestUpdateUnitField_NullNumericCoercion(t *testing.T) {
	w := newWizardWithBuildings(t, 1)
	require.NoError(t, w.AddUnit(0))

	require.NoError(t, w.UpdateUnitField(0, 0, FieldSize, nil))
	require.NoError(t, w.UpdateUnitField(0, 0, FieldConstructionYear, nil))
	require.NoError(t, w.UpdateUnitField(0, 0, FieldRooms, nil))

	u, err := w.UnitAt(0, 0)
	require.NoError(t, err)
	assert.Equal(t, float64(0), u.Size)
	assert.Equal(t, time.Now().Year(), u.ConstructionYear)
	assert.Equal(t, 0, u.Rooms)
}

func TestUpdateUnitField_TypeMismatch(t *testing.T) {
	w := newWizardWithBuildings(t, 1)
	require.NoError(t, w.AddUnit(0))

	assert.Error(t, w.UpdateUnitField(0, 0, FieldSize, "fifty"))
	assert.Error(t, w.UpdateUnitField(0, 0, FieldUnitNumber, 7))
	assert.Error(t, w.UpdateUnitField(0, 0, UnitField("bogus"), "x"))
}

func TestDeleteUnit(t *testing.T) {
	w := newWizardWithBuildings(t, 1)
	require.NoError(t, w.AddUnits(0, 2))
	require.NoError(t, w.UpdateUnitField(0, 1, FieldUnitNumber, "keep"))

	require.NoError(t, w.DeleteUnit(0, 0))

	b, _ := w.BuildingAt(0)
	require.Len(t, b.Units, 1)
	assert.Equal(t, "keep", b.Units[0].UnitNumber)
}

func existingProperty() dtos.PropertyResponse {
	return dtos.PropertyResponse{
		ID:                  uuid.New(),
		ManagementType:      models.ManagementWEG,
		Name:                "Altbau am Park",
		PropertyManager:     "PM",
		Accountant:          "ACC",
		DeclarationFileName: "decl.pdf",
		Buildings: []dtos.BuildingResponse{{
			ID: uuid.New(), Street: "Main", HouseNumber: "1", City: "C", PostalCode: "0", Country: "DE",
			Units: []dtos.UnitResponse{{
				ID: uuid.New(), UnitNumber: "A1", Type: models.UnitApartment,
				Size: 50, CoOwnershipShare: 0.1, ConstructionYear: 2000, Rooms: 2,
			}},
		}},
	}
}

func TestLoadExisting_PreservesIdentities(t *testing.T) {
	w := New()
	w.SetStep(StepUnits)
	w.SetSelectedBuilding(4)

	prop := existingProperty()
	w.LoadExisting(prop)

	assert.Equal(t, StepGeneralInfo, w.Step())
	assert.Equal(t, 0, w.SelectedBuilding())
	require.NotNil(t, w.EditingID())
	assert.Equal(t, prop.ID, *w.EditingID())

	payload := w.ExportPayload()
	require.Len(t, payload.Buildings, 1)
	require.NotNil(t, payload.Buildings[0].ID)
	assert.Equal(t, prop.Buildings[0].ID, *payload.Buildings[0].ID)
	require.Len(t, payload.Buildings[0].Units, 1)
	require.NotNil(t, payload.Buildings[0].Units[0].ID)
	assert.Equal(t, prop.Buildings[0].Units[0].ID, *payload.Buildings[0].Units[0].ID)
}

func TestReset_ClearsEditModeAndDraft(t *testing.T) {
	w := New()
	w.LoadExisting(existingProperty())
	w.SetStep(StepUnits)

	w.Reset()

	assert.Nil(t, w.EditingID())
	assert.Equal(t, StepGeneralInfo, w.Step())
	assert.Equal(t, 0, w.BuildingCount())
	assert.False(t, w.CurrentStepValid())
}

func TestCurrentStepValid_PerStep(t *testing.T) {
	w := New()
	assert.False(t, w.CurrentStepValid())

	require.NoError(t, w.UpdateGeneralField(FieldManagementType, "WEG"))
	require.NoError(t, w.UpdateGeneralField(FieldName, "Test"))
	require.NoError(t, w.UpdateGeneralField(FieldPropertyManager, "A"))
	require.NoError(t, w.UpdateGeneralField(FieldAccountant, "B"))
	require.NoError(t, w.UpdateGeneralField(FieldDeclarationFileName, "x.pdf"))
	assert.True(t, w.CurrentStepValid())

	w.SetStep(StepBuildingData)
	assert.False(t, w.CurrentStepValid())

	w.AddBuilding()
	require.NoError(t, w.UpdateBuildingField(0, FieldStreet, "Main"))
	require.NoError(t, w.UpdateBuildingField(0, FieldHouseNumber, "1"))
	require.NoError(t, w.UpdateBuildingField(0, FieldCity, "C"))
	require.NoError(t, w.UpdateBuildingField(0, FieldPostalCode, "00000"))
	require.NoError(t, w.UpdateBuildingField(0, FieldCountry, "DE"))
	assert.True(t, w.CurrentStepValid())

	w.SetStep(StepUnits)
	assert.False(t, w.CurrentStepValid())

	require.NoError(t, w.AddUnit(0))
	require.NoError(t, w.UpdateUnitField(0, 0, FieldUnitNumber, "A1"))
	require.NoError(t, w.UpdateUnitField(0, 0, FieldSize, 50.0))
	require.NoError(t, w.UpdateUnitField(0, 0, FieldCoOwnershipShare, 0.1))
	assert.True(t, w.CurrentStepValid())
}

func TestMergeExtracted_FieldByField(t *testing.T) {
	w := New()
	require.NoError(t, w.UpdateGeneralField(FieldName, "User entered"))
	require.NoError(t, w.UpdateGeneralField(FieldDeclarationFileName, "upload.pdf"))

	mt := models.ManagementWEG
	pm := "Extracted PM"
	w.MergeExtracted(dtos.ExtractedProperty{
		ManagementType:  &mt,
		PropertyManager: &pm,
	})

	p := w.ExportPayload()
	// Extracted fields land, absent fields keep user input.
	assert.Equal(t, models.ManagementWEG, p.ManagementType)
	assert.Equal(t, "Extracted PM", p.PropertyManager)
	assert.Equal(t, "User entered", p.Name)
	assert.Equal(t, "upload.pdf", p.DeclarationFileName)
}

func TestMergeExtracted_UnitsCoerceMissingNumerics(t *testing.T) {
	w := New()
	street := "Main"
	num := "A1"
	size := 42.5
	w.MergeExtracted(dtos.ExtractedProperty{
		Buildings: []dtos.ExtractedBuilding{{
			Street: &street,
			Units: []dtos.ExtractedUnit{{
				UnitNumber: &num,
				Size:       &size,
				// floor, share, year, rooms absent
			}},
		}},
	})

	p := w.ExportPayload()
	require.Len(t, p.Buildings, 1)
	require.Len(t, p.Buildings[0].Units, 1)
	u := p.Buildings[0].Units[0]
	assert.Equal(t, "A1", u.UnitNumber)
	assert.Equal(t, 42.5, u.Size)
	assert.Equal(t, models.UnitApartment, u.Type)
	assert.Equal(t, 0, u.Floor)
	assert.Equal(t, float64(0), u.CoOwnershipShare)
	assert.Equal(t, time.Now().Year(), u.ConstructionYear)
	assert.Equal(t, 0, u.Rooms)
}

func TestExportPayload_NoLocalKeysLeak(t *testing.T) {
	w := newWizardWithBuildings(t, 1)
	require.NoError(t, w.AddUnit(0))

	p := w.ExportPayload()
	require.Len(t, p.Buildings, 1)
	assert.Nil(t, p.Buildings[0].ID)
	assert.Nil(t, p.Buildings[0].Units[0].ID)
}
