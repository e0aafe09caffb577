package models

// Roles recognised by the auth subsystem.
const (
	RoleAdmin = "admin"
	RoleKasir = "kasir"
)

// User represents a staff account. A kasir is always bound to exactly one toko;
// an admin's TokoName plays no part in authorization. The bootstrap super admin
// (IsSuper) is created once, on first initialisation, and can never be deleted.
type User struct {
	Record
	Username string `json:"username" validate:"required,min=3,max=100"`
	Password string `json:"password"` // digest, never plaintext
	Role     string `json:"role" validate:"required,oneof=admin kasir"`
	TokoName string `json:"toko_name,omitempty" validate:"required_if=Role kasir"`
	Nama     string `json:"nama" validate:"required"`
	IsSuper  bool   `json:"is_super,omitempty"`
}
