package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/hauswerk/property-service/internal/models"
)

/* ───────────── public interface ───────────── */

type UnitRepository interface {
	Create(ctx context.Context, u *models.Unit) error
	CreateMany(ctx context.Context, list []models.Unit) error

	ListByPropertyID(ctx context.Context, propertyID uuid.UUID) ([]*models.Unit, error)

	Update(ctx context.Context, u *models.Unit) error
	DeleteMany(ctx context.Context, ids []uuid.UUID) error
	DeleteByPropertyID(ctx context.Context, propertyID uuid.UUID) error
}

/* ───────────── implementation ───────────── */

type unitRepo struct{ db DB }

func NewUnitRepository(db DB) UnitRepository {
	return &unitRepo{db: db}
}

/* ---------- create ---------- */

func (r *unitRepo) Create(ctx context.Context, u *models.Unit) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO units (
			id, property_id, building_id, unit_number, type, floor, entrance,
			size, co_ownership_share, construction_year, rooms,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11, NOW(), NOW())
	`,
		u.ID, u.PropertyID, u.BuildingID, u.UnitNumber, u.Type, u.Floor, u.Entrance,
		u.Size, u.CoOwnershipShare, u.ConstructionYear, u.Rooms,
	)
	return err
}

func (r *unitRepo) CreateMany(ctx context.Context, list []models.Unit) error {
	for i := range list {
		if err := r.Create(ctx, &list[i]); err != nil {
			return err
		}
	}
	return nil
}

/* ---------- reads ---------- */

func (r *unitRepo) ListByPropertyID(ctx context.Context, propertyID uuid.UUID) ([]*models.Unit, error) {
	rows, err := r.db.Query(ctx, baseSelectUnit()+" WHERE property_id=$1 ORDER BY unit_number", propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUnits(rows)
}

/* ---------- update / delete ---------- */

// Update overwrites every unit field, keeping the identity. An absent
// entrance is stored as the empty string.
func (r *unitRepo) Update(ctx context.Context, u *models.Unit) error {
	_, err := r.db.Exec(ctx, `
		UPDATE units SET
			unit_number=$1, type=$2, floor=$3, entrance=$4, size=$5,
			co_ownership_share=$6, construction_year=$7, rooms=$8,
			building_id=$9, updated_at=NOW()
		WHERE id=$10
	`,
		u.UnitNumber, u.Type, u.Floor, u.Entrance, u.Size,
		u.CoOwnershipShare, u.ConstructionYear, u.Rooms,
		u.BuildingID, u.ID,
	)
	return err
}

func (r *unitRepo) DeleteMany(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.db.Exec(ctx, `DELETE FROM units WHERE id = ANY($1::uuid[])`, uuidStrings(ids))
	return err
}

func (r *unitRepo) DeleteByPropertyID(ctx context.Context, propertyID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM units WHERE property_id=$1`, propertyID)
	return err
}

func baseSelectUnit() string {
	return `
		SELECT
			id, property_id, building_id, unit_number, type, floor, entrance,
			size, co_ownership_share, construction_year, rooms,
			created_at, updated_at
		FROM units
	`
}

func scanUnit(row pgx.Row) (*models.Unit, error) {
	var u models.Unit
	err := row.Scan(
		&u.ID,
		&u.PropertyID,
		&u.BuildingID,
		&u.UnitNumber,
		&u.Type,
		&u.Floor,
		&u.Entrance,
		&u.Size,
		&u.CoOwnershipShare,
		&u.ConstructionYear,
		&u.Rooms,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func scanUnits(rows pgx.Rows) ([]*models.Unit, error) {
	var out []*models.Unit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
