package models

// Session is the blob persisted per auth domain. The admin domain stores it
// durably; the kasir domain keeps it in an ephemeral namespace that dies with
// the process.
type Session struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Role       string `json:"role"`
	TokoName   string `json:"toko_name,omitempty"`
	LoggedInAt string `json:"logged_in_at"`
}
