package repositories

import (
	"context"
	"fmt"

	"rental-admin/models"

	"github.com/jackc/pgx/v5"
)

type ActivityRepository struct {
	db DBTX
}

func NewActivityRepository(db DBTX) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// LatestApprovedRentals returns approved rental requests, newest first,
// joined with the owner of the rented vehicle.
func (r *ActivityRepository) LatestApprovedRentals(ctx context.Context, limit int) ([]models.ApprovedRental, error) {
	if limit < 1 {
		limit = 5
	}

	query := `
		SELECT
			r.id, r.user_id::text AS user_id, r.vehicle_id, r.status, r.start_date, r.end_date,
			r.location, r.address, r.payment, r.notes, r.created_at, r.updated_at,
			v.owner_id::text AS owner_id
		FROM rental_requests r
		LEFT JOIN vehicles v ON v.id = r.vehicle_id
		WHERE LOWER(r.status) = 'approved'
		ORDER BY r.created_at DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("approved rentals: %w", err)
	}

	rentals, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.ApprovedRental])
	if err != nil {
		return nil, fmt.Errorf("approved rentals: %w", err)
	}
	return rentals, nil
}
