package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hauswerk/property-service/internal/dtos"
	"github.com/hauswerk/property-service/internal/models"
	"github.com/hauswerk/property-service/internal/utils"
	"github.com/hauswerk/property-service/internal/validation"
)

/*───────────────────── in-memory fakes ─────────────────────*/

// store backs all three fake repositories and records every mutating
// call in order, so tests can assert the apply sequence. Setting
// failOn makes the named operation fail with failErr after being
// recorded, without mutating state.
type store struct {
	ops       []string
	props     map[uuid.UUID]*models.Property
	buildings map[uuid.UUID]*models.Building
	units     map[uuid.UUID]*models.Unit

	failOn  string
	failErr error
}

func newStore() *store {
	return &store{
		props:     make(map[uuid.UUID]*models.Property),
		buildings: make(map[uuid.UUID]*models.Building),
		units:     make(map[uuid.UUID]*models.Unit),
	}
}

func (s *store) record(op string) error {
	s.ops = append(s.ops, op)
	if s.failOn == op {
		return s.failErr
	}
	return nil
}

type fakePropertyRepo struct{ s *store }

func (r *fakePropertyRepo) Create(_ context.Context, p *models.Property) error {
	if err := r.s.record("prop.create"); err != nil {
		return err
	}
	cp := *p
	cp.CreatedAt = time.Now()
	r.s.props[p.ID] = &cp
	return nil
}

func (r *fakePropertyRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Property, error) {
	p, ok := r.s.props[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakePropertyRepo) ListAll(_ context.Context) ([]*models.Property, error) {
	out := make([]*models.Property, 0, len(r.s.props))
	for _, p := range r.s.props {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakePropertyRepo) Update(_ context.Context, p *models.Property) error {
	if err := r.s.record("prop.update"); err != nil {
		return err
	}
	existing, ok := r.s.props[p.ID]
	if !ok {
		return nil
	}
	cp := *p
	cp.CreatedAt = existing.CreatedAt
	r.s.props[p.ID] = &cp
	return nil
}

func (r *fakePropertyRepo) Delete(_ context.Context, id uuid.UUID) error {
	if err := r.s.record("prop.delete"); err != nil {
		return err
	}
	delete(r.s.props, id)
	return nil
}

type fakeBuildingRepo struct{ s *store }

func (r *fakeBuildingRepo) Create(_ context.Context, b *models.Building) error {
	if err := r.s.record("bldg.create"); err != nil {
		return err
	}
	cp := *b
	r.s.buildings[b.ID] = &cp
	return nil
}

func (r *fakeBuildingRepo) ListByPropertyID(_ context.Context, propertyID uuid.UUID) ([]*models.Building, error) {
	var out []*models.Building
	for _, b := range r.s.buildings {
		if b.PropertyID == propertyID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeBuildingRepo) Update(_ context.Context, b *models.Building) error {
	if err := r.s.record("bldg.update"); err != nil {
		return err
	}
	cp := *b
	r.s.buildings[b.ID] = &cp
	return nil
}

func (r *fakeBuildingRepo) DeleteMany(_ context.Context, ids []uuid.UUID) error {
	if err := r.s.record("bldg.deleteMany"); err != nil {
		return err
	}
	for _, id := range ids {
		delete(r.s.buildings, id)
	}
	return nil
}

func (r *fakeBuildingRepo) DeleteByPropertyID(_ context.Context, propertyID uuid.UUID) error {
	if err := r.s.record("bldg.deleteByProperty"); err != nil {
		return err
	}
	for id, b := range r.s.buildings {
		if b.PropertyID == propertyID {
			delete(r.s.buildings, id)
		}
	}
	return nil
}

type fakeUnitRepo struct{ s *store }

func (r *fakeUnitRepo) Create(_ context.Context, u *models.Unit) error {
	if err := r.s.record("unit.create"); err != nil {
		return err
	}
	cp := *u
	r.s.units[u.ID] = &cp
	return nil
}

func (r *fakeUnitRepo) CreateMany(_ context.Context, list []models.Unit) error {
	if err := r.s.record("unit.createMany"); err != nil {
		return err
	}
	for i := range list {
		cp := list[i]
		r.s.units[cp.ID] = &cp
	}
	return nil
}

func (r *fakeUnitRepo) ListByPropertyID(_ context.Context, propertyID uuid.UUID) ([]*models.Unit, error) {
	var out []*models.Unit
	for _, u := range r.s.units {
		if u.PropertyID == propertyID {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeUnitRepo) Update(_ context.Context, u *models.Unit) error {
	if err := r.s.record("unit.update"); err != nil {
		return err
	}
	cp := *u
	r.s.units[u.ID] = &cp
	return nil
}

func (r *fakeUnitRepo) DeleteMany(_ context.Context, ids []uuid.UUID) error {
	if err := r.s.record("unit.deleteMany"); err != nil {
		return err
	}
	for _, id := range ids {
		delete(r.s.units, id)
	}
	return nil
}

func (r *fakeUnitRepo) DeleteByPropertyID(_ context.Context, propertyID uuid.UUID) error {
	if err := r.s.record("unit.deleteByProperty"); err != nil {
		return err
	}
	for id, u := range r.s.units {
		if u.PropertyID == propertyID {
			delete(r.s.units, id)
		}
	}
	return nil
}

func newTestService() (*PropertyService, *store) {
	s := newStore()
	svc := NewPropertyService(
		&fakePropertyRepo{s: s},
		&fakeBuildingRepo{s: s},
		&fakeUnitRepo{s: s},
	)
	return svc, s
}

/*───────────────────── fixtures ─────────────────────*/

func createRequest() dtos.CreatePropertyRequest {
	return dtos.CreatePropertyRequest{
		ManagementType:      models.ManagementWEG,
		Name:                "Gartenstrasse 12",
		PropertyManager:     "Hausverwaltung Nord",
		Accountant:          "K. Brandt",
		DeclarationFileName: "teilungserklaerung.pdf",
		Buildings: []dtos.CreateBuildingRequest{{
			Street:      "Gartenstrasse",
			HouseNumber: "12",
			City:        "Hamburg",
			PostalCode:  "20095",
			Country:     "Germany",
			Units: []dtos.CreateUnitRequest{
				{UnitNumber: "WE01", Type: models.UnitApartment, Floor: 0, Size: 54.5, CoOwnershipShare: 0.4, ConstructionYear: 1987, Rooms: 2},
				{UnitNumber: "WE02", Type: models.UnitApartment, Floor: 1, Size: 61.0, CoOwnershipShare: 0.6, ConstructionYear: 1987, Rooms: 3},
			},
		}},
	}
}

/*───────────────────── tests ─────────────────────*/

func TestCreate_PersistsFullTree(t *testing.T) {
	svc, s := newTestService()

	resp, err := svc.Create(context.Background(), createRequest())
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.Equal(t, "Gartenstrasse 12", resp.Name)
	require.Len(t, resp.Buildings, 1)
	assert.Len(t, resp.Buildings[0].Units, 2)

	assert.Len(t, s.props, 1)
	assert.Len(t, s.buildings, 1)
	assert.Len(t, s.units, 2)
	assert.Equal(t, []string{"prop.create", "bldg.create", "unit.createMany"}, s.ops)
}

func TestCreate_InvalidPayload_NoPersistence(t *testing.T) {
	svc, s := newTestService()

	req := createRequest()
	req.Name = "   "
	req.Buildings[0].Units[0].Size = 0

	resp, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Nil(t, resp)

	var vErr *validation.Error
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "Name")
	assert.Contains(t, vErr.Fields, "Building 1, Unit 1: Size")

	// Validation runs before any repository call.
	assert.Empty(t, s.ops)
	assert.Empty(t, s.props)
}

func TestGet_UnknownID_ReturnsNil(t *testing.T) {
	svc, _ := newTestService()

	resp, err := svc.Get(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, resp)
}

func TestUpdate_UnknownID(t *testing.T) {
	svc, _ := newTestService()

	payload := createRequest().Payload()
	_, err := svc.Update(context.Background(), uuid.New(), payload)
	assert.ErrorIs(t, err, utils.ErrPropertyNotFound)
}

func TestUpdate_AppliesDeletesBeforeUpserts(t *testing.T) {
	svc, s := newTestService()

	created, err := svc.Create(context.Background(), createRequest())
	require.NoError(t, err)
	s.ops = nil

	// Keep unit WE01 (renamed), drop WE02, add a new one.
	b := created.Buildings[0]
	var keep dtos.UnitResponse
	for _, u := range b.Units {
		if u.UnitNumber == "WE01" {
			keep = u
		}
	}
	keepID := keep.ID
	bldgID := b.ID
	payload := dtos.PropertyPayload{
		ManagementType:      models.ManagementMV,
		Name:                "Gartenstrasse 12 (renamed)",
		PropertyManager:     created.PropertyManager,
		Accountant:          created.Accountant,
		DeclarationFileName: created.DeclarationFileName,
		Buildings: []dtos.BuildingPayload{{
			ID:          &bldgID,
			Street:      b.Street,
			HouseNumber: b.HouseNumber,
			City:        b.City,
			PostalCode:  b.PostalCode,
			Country:     b.Country,
			Units: []dtos.UnitPayload{
				{ID: &keepID, UnitNumber: "WE01-neu", Type: keep.Type, Size: keep.Size, CoOwnershipShare: keep.CoOwnershipShare, ConstructionYear: keep.ConstructionYear, Rooms: keep.Rooms},
				{UnitNumber: "WE03", Type: models.UnitOffice, Size: 80, CoOwnershipShare: 0.2, ConstructionYear: 1990, Rooms: 1},
			},
		}},
	}

	resp, err := svc.Update(context.Background(), created.ID, payload)
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.Equal(t, []string{
		"unit.deleteMany",
		"bldg.deleteMany",
		"prop.update",
		"bldg.update",
		"unit.update",
		"unit.create",
	}, s.ops)

	assert.Equal(t, models.ManagementMV, resp.ManagementType)
	assert.Equal(t, "Gartenstrasse 12 (renamed)", resp.Name)
	require.Len(t, resp.Buildings, 1)
	require.Len(t, resp.Buildings[0].Units, 2)

	numbers := map[string]bool{}
	for _, u := range resp.Buildings[0].Units {
		numbers[u.UnitNumber] = true
	}
	assert.True(t, numbers["WE01-neu"])
	assert.True(t, numbers["WE03"])
	assert.False(t, numbers["WE02"])

	// The kept unit kept its identity.
	assert.Contains(t, s.units, keepID)
	assert.Equal(t, "WE01-neu", s.units[keepID].UnitNumber)
}

func TestUpdate_ReplacingBuildingDeletesItsUnits(t *testing.T) {
	svc, s := newTestService()

	created, err := svc.Create(context.Background(), createRequest())
	require.NoError(t, err)
	s.ops = nil

	payload := dtos.PropertyPayload{
		ManagementType:      created.ManagementType,
		Name:                created.Name,
		PropertyManager:     created.PropertyManager,
		Accountant:          created.Accountant,
		DeclarationFileName: created.DeclarationFileName,
		Buildings: []dtos.BuildingPayload{{
			Street:      "Neue Strasse",
			HouseNumber: "3a",
			City:        "Hamburg",
			PostalCode:  "20144",
			Country:     "Germany",
			Units: []dtos.UnitPayload{
				{UnitNumber: "N1", Type: models.UnitApartment, Size: 40, CoOwnershipShare: 1, ConstructionYear: 2010, Rooms: 1},
			},
		}},
	}

	resp, err := svc.Update(context.Background(), created.ID, payload)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"unit.deleteMany",
		"bldg.deleteMany",
		"prop.update",
		"bldg.create",
		"unit.create",
	}, s.ops)

	require.Len(t, resp.Buildings, 1)
	assert.NotEqual(t, created.Buildings[0].ID, resp.Buildings[0].ID)
	assert.Len(t, s.units, 1)
	assert.Len(t, s.buildings, 1)
}

// A storage failure mid-apply surfaces as one wrapped error and stops
// the sequence at the failing call.
func TestUpdate_MidSequenceFailureStopsAndAggregates(t *testing.T) {
	svc, s := newTestService()

	created, err := svc.Create(context.Background(), createRequest())
	require.NoError(t, err)
	s.ops = nil

	dbErr := errors.New("connection reset")
	s.failOn = "bldg.update"
	s.failErr = dbErr

	b := created.Buildings[0]
	bldgID := b.ID
	units := make([]dtos.UnitPayload, 0, len(b.Units))
	for _, u := range b.Units {
		id := u.ID
		units = append(units, dtos.UnitPayload{
			ID: &id, UnitNumber: u.UnitNumber, Type: u.Type, Size: u.Size,
			CoOwnershipShare: u.CoOwnershipShare, ConstructionYear: u.ConstructionYear, Rooms: u.Rooms,
		})
	}
	payload := dtos.PropertyPayload{
		ManagementType:      created.ManagementType,
		Name:                "Renamed",
		PropertyManager:     created.PropertyManager,
		Accountant:          created.Accountant,
		DeclarationFileName: created.DeclarationFileName,
		Buildings: []dtos.BuildingPayload{{
			ID: &bldgID, Street: b.Street, HouseNumber: b.HouseNumber,
			City: b.City, PostalCode: b.PostalCode, Country: b.Country,
			Units: units,
		}},
	}

	resp, err := svc.Update(context.Background(), created.ID, payload)
	require.Error(t, err)
	assert.Nil(t, resp)

	assert.ErrorIs(t, err, dbErr)
	assert.Contains(t, err.Error(), "apply reconciliation for property "+created.ID.String())

	// Nothing ran past the failing call: the unit upserts never happened.
	assert.Equal(t, []string{
		"unit.deleteMany",
		"bldg.deleteMany",
		"prop.update",
		"bldg.update",
	}, s.ops)
}

func TestUpdate_InvalidPayload_NothingApplied(t *testing.T) {
	svc, s := newTestService()

	created, err := svc.Create(context.Background(), createRequest())
	require.NoError(t, err)
	s.ops = nil

	payload := createRequest().Payload()
	payload.Buildings = nil

	_, err = svc.Update(context.Background(), created.ID, payload)
	var vErr *validation.Error
	require.ErrorAs(t, err, &vErr)
	assert.Empty(t, s.ops)
}

func TestDelete_RemovesChildrenFirst(t *testing.T) {
	svc, s := newTestService()

	created, err := svc.Create(context.Background(), createRequest())
	require.NoError(t, err)
	s.ops = nil

	require.NoError(t, svc.Delete(context.Background(), created.ID))

	assert.Equal(t, []string{
		"unit.deleteByProperty",
		"bldg.deleteByProperty",
		"prop.delete",
	}, s.ops)
	assert.Empty(t, s.props)
	assert.Empty(t, s.buildings)
	assert.Empty(t, s.units)
}

func TestDelete_UnknownID(t *testing.T) {
	svc, _ := newTestService()
	err := svc.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, utils.ErrPropertyNotFound)
}

func TestReferencedDeclarationFiles(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), createRequest())
	require.NoError(t, err)

	second := createRequest()
	second.DeclarationFileName = "other.pdf"
	_, err = svc.Create(context.Background(), second)
	require.NoError(t, err)

	known, err := svc.ReferencedDeclarationFiles(context.Background())
	require.NoError(t, err)
	assert.Contains(t, known, "teilungserklaerung.pdf")
	assert.Contains(t, known, "other.pdf")
	assert.Len(t, known, 2)
}
