package models

import "time"

type User struct {
	ID         string    `json:"id" db:"id"`
	Email      string    `json:"email" db:"email"`
	Name       string    `json:"name" db:"name"`
	Role       string    `json:"role" db:"role"`
	IsVerified bool      `json:"isVerified" db:"is_verified"`
	IsCompany  bool      `json:"isCompany" db:"is_company"`
	IsOwner    bool      `json:"isOwner" db:"is_owner"`
	IsRenter   bool      `json:"isRenter" db:"is_renter"`
	AvatarURL  *string   `json:"avatar_url" db:"avatar_url"`
	Phone      *string   `json:"phone" db:"phone"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// UserSummary is the user shape embedded in verification cards.
type UserSummary struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	Name      string  `json:"name"`
	AvatarURL *string `json:"avatar_url"`
}

func (u User) Summary() *UserSummary {
	return &UserSummary{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
	}
}

// Contact is the renter/owner shape shown on dashboard activities.
type Contact struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone"`
}

func (u User) Contact() *Contact {
	return &Contact{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone}
}

// Account is the credential row behind a user.
type Account struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

type Identity struct {
	ID     string  `json:"id"`
	Email  string  `json:"email"`
	Name   string  `json:"name"`
	Avatar *string `json:"avatar"`
	Role   string  `json:"role"`
}
