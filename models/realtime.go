package models

const (
	EventAll    = "*"
	EventInsert = "INSERT"
	EventUpdate = "UPDATE"
	EventDelete = "DELETE"
)

// Change is one row change published on the table_changes channel.
type Change struct {
	Schema string `json:"schema"`
	Table  string `json:"table"`
	Type   string `json:"type"`
	ID     string `json:"id"`
}
