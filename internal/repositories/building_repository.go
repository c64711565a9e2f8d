package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/hauswerk/property-service/internal/models"
)

/* ------------------------------------------------------------------
   Public interface
------------------------------------------------------------------ */

type BuildingRepository interface {
	Create(ctx context.Context, b *models.Building) error

	ListByPropertyID(ctx context.Context, propertyID uuid.UUID) ([]*models.Building, error)

	Update(ctx context.Context, b *models.Building) error
	DeleteMany(ctx context.Context, ids []uuid.UUID) error
	DeleteByPropertyID(ctx context.Context, propertyID uuid.UUID) error
}

/* ------------------------------------------------------------------
   Implementation
------------------------------------------------------------------ */

type buildingRepo struct{ db DB }

func NewBuildingRepository(db DB) BuildingRepository {
	return &buildingRepo{db: db}
}

func (r *buildingRepo) Create(ctx context.Context, b *models.Building) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO buildings (
			id, property_id, street, house_number, city, postal_code, country,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7, NOW(), NOW())
	`, b.ID, b.PropertyID, b.Street, b.HouseNumber, b.City, b.PostalCode, b.Country)
	return err
}

func (r *buildingRepo) ListByPropertyID(ctx context.Context, propertyID uuid.UUID) ([]*models.Building, error) {
	rows, err := r.db.Query(ctx, baseSelectBuilding()+" WHERE property_id=$1 ORDER BY created_at", propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Building
	for rows.Next() {
		b, err := scanBuilding(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Update overwrites the address fields, keeping the identity.
func (r *buildingRepo) Update(ctx context.Context, b *models.Building) error {
	_, err := r.db.Exec(ctx, `
		UPDATE buildings SET
			street=$1, house_number=$2, city=$3, postal_code=$4, country=$5,
			updated_at=NOW()
		WHERE id=$6
	`, b.Street, b.HouseNumber, b.City, b.PostalCode, b.Country, b.ID)
	return err
}

func (r *buildingRepo) DeleteMany(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.db.Exec(ctx, `DELETE FROM buildings WHERE id = ANY($1::uuid[])`, uuidStrings(ids))
	return err
}

func (r *buildingRepo) DeleteByPropertyID(ctx context.Context, propertyID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM buildings WHERE property_id=$1`, propertyID)
	return err
}

func baseSelectBuilding() string {
	return `
		SELECT
			id, property_id, street, house_number, city, postal_code, country,
			created_at, updated_at
		FROM buildings
	`
}

func scanBuilding(row pgx.Row) (*models.Building, error) {
	var b models.Building
	err := row.Scan(
		&b.ID,
		&b.PropertyID,
		&b.Street,
		&b.HouseNumber,
		&b.City,
		&b.PostalCode,
		&b.Country,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

// uuidStrings renders ids for a ::uuid[] cast parameter.
func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
