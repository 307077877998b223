package models

import (
	"fmt"
	"strings"
	"time"
)

type VerificationStatus string

const (
	StatusPending  VerificationStatus = "PENDING"
	StatusApproved VerificationStatus = "APPROVED"
	StatusRejected VerificationStatus = "REJECTED"
)

var VerificationStatuses = []VerificationStatus{StatusPending, StatusApproved, StatusRejected}

// ParseVerificationStatus accepts any casing of the three known statuses.
func ParseVerificationStatus(s string) (VerificationStatus, error) {
	status := VerificationStatus(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range VerificationStatuses {
		if status == known {
			return status, nil
		}
	}
	return "", fmt.Errorf("invalid verification status %q", s)
}

type Verification struct {
	ID                 int64              `json:"id" db:"id"`
	UserID             string             `json:"user_id" db:"user_id"`
	NationalIDImageURL string             `json:"national_id_image_url" db:"national_id_image_url"`
	LicenseImageURL    *string            `json:"license_image_url" db:"license_image_url"`
	Status             VerificationStatus `json:"status" db:"status"`
	CreatedAt          time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at" db:"updated_at"`
	User               *UserSummary       `json:"user" db:"-"`
}

type BoardColumn struct {
	Status VerificationStatus `json:"status"`
	Title  string             `json:"title"`
	Items  []Verification     `json:"items"`
}

type Board struct {
	Columns []BoardColumn `json:"columns"`
}

// NewBoard groups items into the three status columns, keeping input order.
func NewBoard(items []Verification) *Board {
	titles := map[VerificationStatus]string{
		StatusPending:  "Pending",
		StatusApproved: "Approved",
		StatusRejected: "Rejected",
	}

	board := &Board{}
	index := map[VerificationStatus]int{}
	for i, status := range VerificationStatuses {
		board.Columns = append(board.Columns, BoardColumn{Status: status, Title: titles[status], Items: []Verification{}})
		index[status] = i
	}

	for _, item := range items {
		if i, ok := index[item.Status]; ok {
			board.Columns[i].Items = append(board.Columns[i].Items, item)
		}
	}
	return board
}

// Move relocates an item to the column for status. Reports false if the id is absent.
func (b *Board) Move(id int64, status VerificationStatus, at time.Time) bool {
	var moved *Verification
	for ci := range b.Columns {
		items := b.Columns[ci].Items
		for i := range items {
			if items[i].ID == id {
				item := items[i]
				b.Columns[ci].Items = append(items[:i:i], items[i+1:]...)
				moved = &item
				break
			}
		}
		if moved != nil {
			break
		}
	}
	if moved == nil {
		return false
	}

	moved.Status = status
	moved.UpdatedAt = at
	for ci := range b.Columns {
		if b.Columns[ci].Status == status {
			b.Columns[ci].Items = append([]Verification{*moved}, b.Columns[ci].Items...)
		}
	}
	return true
}

func (b *Board) Clone() *Board {
	out := &Board{Columns: make([]BoardColumn, len(b.Columns))}
	for i, col := range b.Columns {
		out.Columns[i] = BoardColumn{Status: col.Status, Title: col.Title, Items: append([]Verification{}, col.Items...)}
	}
	return out
}

// BoardSnapshot is a board tagged with the fetch sequence that produced it.
type BoardSnapshot struct {
	Version uint64 `json:"version"`
	Board   *Board `json:"board"`
}
