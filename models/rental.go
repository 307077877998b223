package models

import "time"

type RentalRequest struct {
	ID        int64      `json:"id" db:"id"`
	UserID    string     `json:"user_id" db:"user_id"`
	VehicleID int64      `json:"vehicle_id" db:"vehicle_id"`
	Status    string     `json:"status" db:"status"`
	StartDate *time.Time `json:"start_date" db:"start_date"`
	EndDate   *time.Time `json:"end_date" db:"end_date"`
	Location  *string    `json:"location" db:"location"`
	Address   *string    `json:"address" db:"address"`
	Payment   *string    `json:"payment" db:"payment"`
	Notes     *string    `json:"notes" db:"notes"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// ApprovedRental is a rental request joined with its vehicle owner.
type ApprovedRental struct {
	RentalRequest
	OwnerID *string `json:"owner_id" db:"owner_id"`
}

type History struct {
	ID        int64     `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Message   string    `json:"message" db:"message"`
	UserID    *string   `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Deal struct {
	ID      int64   `json:"id" db:"id"`
	Title   string  `json:"title" db:"title"`
	Value   float64 `json:"value" db:"value"`
	Stage   string  `json:"stage" db:"stage"`
	Company *string `json:"company" db:"company"`
}
