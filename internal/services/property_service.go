package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hauswerk/property-service/internal/dtos"
	"github.com/hauswerk/property-service/internal/models"
	"github.com/hauswerk/property-service/internal/reconcile"
	"github.com/hauswerk/property-service/internal/repositories"
	"github.com/hauswerk/property-service/internal/utils"
	"github.com/hauswerk/property-service/internal/validation"
)

type PropertyService struct {
	propRepo repositories.PropertyRepository
	bldgRepo repositories.BuildingRepository
	unitRepo repositories.UnitRepository
}

func NewPropertyService(
	propRepo repositories.PropertyRepository,
	bldgRepo repositories.BuildingRepository,
	unitRepo repositories.UnitRepository,
) *PropertyService {
	return &PropertyService{propRepo: propRepo, bldgRepo: bldgRepo, unitRepo: unitRepo}
}

// Create validates the payload and persists the whole tree. The payload
// must pass the full-payload gate before any row is written.
func (s *PropertyService) Create(ctx context.Context, req dtos.CreatePropertyRequest) (*dtos.PropertyResponse, error) {
	payload := req.Payload()
	if fields := validation.ExplainFullPayload(payload); len(fields) > 0 {
		return nil, &validation.Error{Fields: fields}
	}

	prop := &models.Property{
		ID:                  uuid.New(),
		ManagementType:      payload.ManagementType,
		Name:                payload.Name,
		PropertyManager:     payload.PropertyManager,
		Accountant:          payload.Accountant,
		DeclarationFileName: payload.DeclarationFileName,
	}
	if err := s.propRepo.Create(ctx, prop); err != nil {
		return nil, fmt.Errorf("create property: %w", err)
	}

	for _, b := range payload.Buildings {
		bldg := &models.Building{
			ID:          uuid.New(),
			PropertyID:  prop.ID,
			Street:      b.Street,
			HouseNumber: b.HouseNumber,
			City:        b.City,
			PostalCode:  b.PostalCode,
			Country:     b.Country,
		}
		if err := s.bldgRepo.Create(ctx, bldg); err != nil {
			return nil, fmt.Errorf("create building: %w", err)
		}
		units := make([]models.Unit, 0, len(b.Units))
		for _, u := range b.Units {
			units = append(units, *newUnitModel(prop.ID, bldg.ID, u))
		}
		if err := s.unitRepo.CreateMany(ctx, units); err != nil {
			return nil, fmt.Errorf("create units: %w", err)
		}
	}

	return s.Get(ctx, prop.ID)
}

// Get returns the full tree, or nil when the property does not exist.
func (s *PropertyService) Get(ctx context.Context, id uuid.UUID) (*dtos.PropertyResponse, error) {
	prop, err := s.propRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if prop == nil {
		return nil, nil
	}
	buildings, unitsByBuilding, err := s.loadChildren(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dtos.NewPropertyResponse(prop, buildings, unitsByBuilding)
	return &resp, nil
}

func (s *PropertyService) List(ctx context.Context) ([]dtos.PropertyResponse, error) {
	props, err := s.propRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dtos.PropertyResponse, 0, len(props))
	for _, p := range props {
		buildings, unitsByBuilding, err := s.loadChildren(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, dtos.NewPropertyResponse(p, buildings, unitsByBuilding))
	}
	return out, nil
}

// Update reconciles the stored tree against the edited payload. The
// plan is applied strictly in delete→update→create order, children
// before parents on the delete side, and any mid-sequence failure is
// surfaced as one aggregate error.
func (s *PropertyService) Update(ctx context.Context, id uuid.UUID, payload dtos.PropertyPayload) (*dtos.PropertyResponse, error) {
	if fields := validation.ExplainFullPayload(payload); len(fields) > 0 {
		return nil, &validation.Error{Fields: fields}
	}

	prop, err := s.propRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if prop == nil {
		return nil, utils.ErrPropertyNotFound
	}

	buildings, unitsByBuilding, err := s.loadChildren(ctx, id)
	if err != nil {
		return nil, err
	}

	plan := reconcile.Build(buildings, unitsByBuilding, payload)
	if err := s.applyPlan(ctx, prop, plan, payload); err != nil {
		return nil, fmt.Errorf("apply reconciliation for property %s: %w", id, err)
	}

	return s.Get(ctx, id)
}

func (s *PropertyService) applyPlan(
	ctx context.Context,
	prop *models.Property,
	plan reconcile.Plan,
	payload dtos.PropertyPayload,
) error {
	// Deletes first, units before buildings.
	if err := s.unitRepo.DeleteMany(ctx, plan.UnitsToDelete); err != nil {
		return fmt.Errorf("delete units: %w", err)
	}
	if err := s.bldgRepo.DeleteMany(ctx, plan.BuildingsToDelete); err != nil {
		return fmt.Errorf("delete buildings: %w", err)
	}

	prop.ManagementType = payload.ManagementType
	prop.Name = payload.Name
	prop.PropertyManager = payload.PropertyManager
	prop.Accountant = payload.Accountant
	prop.DeclarationFileName = payload.DeclarationFileName
	if err := s.propRepo.Update(ctx, prop); err != nil {
		return fmt.Errorf("update property: %w", err)
	}

	for _, change := range plan.Buildings {
		var buildingID uuid.UUID
		bldg := &models.Building{
			PropertyID:  prop.ID,
			Street:      change.Payload.Street,
			HouseNumber: change.Payload.HouseNumber,
			City:        change.Payload.City,
			PostalCode:  change.Payload.PostalCode,
			Country:     change.Payload.Country,
		}
		if change.ID != nil {
			bldg.ID = *change.ID
			if err := s.bldgRepo.Update(ctx, bldg); err != nil {
				return fmt.Errorf("update building %s: %w", bldg.ID, err)
			}
			buildingID = bldg.ID
		} else {
			bldg.ID = uuid.New()
			if err := s.bldgRepo.Create(ctx, bldg); err != nil {
				return fmt.Errorf("create building: %w", err)
			}
			buildingID = bldg.ID
		}

		for _, uc := range change.Units {
			unit := newUnitModel(prop.ID, buildingID, uc.Payload)
			if uc.ID != nil {
				unit.ID = *uc.ID
				if err := s.unitRepo.Update(ctx, unit); err != nil {
					return fmt.Errorf("update unit %s: %w", unit.ID, err)
				}
			} else {
				if err := s.unitRepo.Create(ctx, unit); err != nil {
					return fmt.Errorf("create unit: %w", err)
				}
			}
		}
	}
	return nil
}

// Delete removes the property and all of its children, children first.
func (s *PropertyService) Delete(ctx context.Context, id uuid.UUID) error {
	prop, err := s.propRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if prop == nil {
		return utils.ErrPropertyNotFound
	}
	if err := s.unitRepo.DeleteByPropertyID(ctx, id); err != nil {
		return fmt.Errorf("delete units: %w", err)
	}
	if err := s.bldgRepo.DeleteByPropertyID(ctx, id); err != nil {
		return fmt.Errorf("delete buildings: %w", err)
	}
	if err := s.propRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete property: %w", err)
	}
	return nil
}

// ReferencedDeclarationFiles lists every declaration file name still
// attached to a stored property; the upload sweep keeps these.
func (s *PropertyService) ReferencedDeclarationFiles(ctx context.Context) (map[string]struct{}, error) {
	props, err := s.propRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	known := make(map[string]struct{}, len(props))
	for _, p := range props {
		known[p.DeclarationFileName] = struct{}{}
	}
	return known, nil
}

func (s *PropertyService) loadChildren(ctx context.Context, propertyID uuid.UUID) ([]*models.Building, map[uuid.UUID][]*models.Unit, error) {
	buildings, err := s.bldgRepo.ListByPropertyID(ctx, propertyID)
	if err != nil {
		return nil, nil, err
	}
	allUnits, err := s.unitRepo.ListByPropertyID(ctx, propertyID)
	if err != nil {
		return nil, nil, err
	}
	unitsByBuilding := make(map[uuid.UUID][]*models.Unit, len(buildings))
	for _, u := range allUnits {
		unitsByBuilding[u.BuildingID] = append(unitsByBuilding[u.BuildingID], u)
	}
	return buildings, unitsByBuilding, nil
}

func newUnitModel(propertyID, buildingID uuid.UUID, u dtos.UnitPayload) *models.Unit {
	return &models.Unit{
		ID:               uuid.New(),
		PropertyID:       propertyID,
		BuildingID:       buildingID,
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
