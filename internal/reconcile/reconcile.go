// Package reconcile computes the persistence operations needed to
// converge a stored property tree to an edited payload. The plan is a
// pure value derived from the two inputs; applying it is the service
// layer's job. Identities of unchanged rows are preserved so external
// references to buildings and units survive an edit.
package reconcile

import (
	"github.com/google/uuid"

	"github.com/hauswerk/property-service/internal/dtos"
	"github.com/hauswerk/property-service/internal/models"
)

// UnitChange is one incoming unit. A non-nil ID that matches a prior
// unit of the same building means update-in-place; otherwise create.
type UnitChange struct {
	ID      *uuid.UUID
	Payload dtos.UnitPayload
}

// BuildingChange is one incoming building together with its unit
// changes. A nil ID means the building is new.
type BuildingChange struct {
	ID      *uuid.UUID
	Payload dtos.BuildingPayload
	Units   []UnitChange
}

// Plan partitions the edit into deletions and per-building upserts.
// Deletions must be applied first, units before buildings, so that no
// building row is removed while child rows still point at it.
type Plan struct {
	UnitsToDelete     []uuid.UUID
	BuildingsToDelete []uuid.UUID
	Buildings         []BuildingChange
}

// Build derives the plan from the stored buildings (with their units)
// and the incoming payload. Deletions are set differences over the
// identity collections: anything stored whose identity is missing from
// the payload is deleted, transitively taking a deleted building's
// units with it.
func Build(
	existingBuildings []*models.Building,
	existingUnits map[uuid.UUID][]*models.Unit,
	incoming dtos.PropertyPayload,
) Plan {
	incomingBuildingIDs := make(map[uuid.UUID]struct{})
	incomingUnitsByBuilding := make(map[uuid.UUID]map[uuid.UUID]struct{})
	for _, b := range incoming.Buildings {
		if b.ID == nil {
			continue
		}
		incomingBuildingIDs[*b.ID] = struct{}{}
		ids := make(map[uuid.UUID]struct{}, len(b.Units))
		for _, u := range b.Units {
			if u.ID != nil {
				ids[*u.ID] = struct{}{}
			}
		}
		incomingUnitsByBuilding[*b.ID] = ids
	}

	var plan Plan

	// Stored-but-absent rows, in stored order for determinism. A unit
	// is kept only when its identity recurs under its own building; an
	// identity reused under a different building is a create there and
	// a delete here.
	for _, b := range existingBuildings {
		for _, u := range existingUnits[b.ID] {
			if _, kept := incomingUnitsByBuilding[b.ID][u.ID]; !kept {
				plan.UnitsToDelete = append(plan.UnitsToDelete, u.ID)
			}
		}
		if _, kept := incomingBuildingIDs[b.ID]; !kept {
			plan.BuildingsToDelete = append(plan.BuildingsToDelete, b.ID)
		}
	}

	// Per-building prior unit identities; a unit identity only counts
	// as existing within the building that owned it before the edit.
	priorUnits := make(map[uuid.UUID]map[uuid.UUID]struct{}, len(existingBuildings))
	existingByID := make(map[uuid.UUID]struct{}, len(existingBuildings))
	for _, b := range existingBuildings {
		existingByID[b.ID] = struct{}{}
		ids := make(map[uuid.UUID]struct{}, len(existingUnits[b.ID]))
		for _, u := range existingUnits[b.ID] {
			ids[u.ID] = struct{}{}
		}
		priorUnits[b.ID] = ids
	}

	for _, b := range incoming.Buildings {
		change := BuildingChange{Payload: b}
		if b.ID != nil {
			if _, ok := existingByID[*b.ID]; ok {
				id := *b.ID
				change.ID = &id
			}
		}
		for _, u := range b.Units {
			uc := UnitChange{Payload: u}
			if change.ID != nil && u.ID != nil {
				if _, ok := priorUnits[*change.ID][*u.ID]; ok {
					id := *u.ID
					uc.ID = &id
				}
			}
			change.Units = append(change.Units, uc)
		}
		plan.Buildings = append(plan.Buildings, change)
	}

	return plan
}
