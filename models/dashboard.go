package models

import "time"

type DashboardStats struct {
	Companies   int `json:"companies"`
	Individuals int `json:"individuals"`
	Rentals     int `json:"rentals"`
}

const (
	ActivityHistory = "history"
	ActivityRental  = "rental"
)

type Activity struct {
	Type      string    `json:"type"`
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Status    string    `json:"status,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	User      *Contact  `json:"user,omitempty"`
	Renter    *Contact  `json:"renter,omitempty"`
	Owner     *Contact  `json:"owner,omitempty"`
	Deal      *Deal     `json:"deal,omitempty"`
}
