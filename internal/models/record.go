package models

// Record is the base embedded by every stored entity. The store assigns ID and
// CreatedAt on insert and stamps UpdatedAt on every update; both timestamps are
// ISO-8601 strings in UTC. ID is immutable after creation.
type Record struct {
	ID        string `json:"id,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}
