package models

// Customer is a shopper enrolled in the undian programme. NIK and phone format
// are validated at the boundary, not by the store.
type Customer struct {
	Record
	Nama      string `json:"nama" validate:"required"`
	NIK       string `json:"nik" validate:"required,nik_id"`
	NoTelepon string `json:"no_telepon" validate:"required,telepon_id"`
	Alamat    string `json:"alamat"`
}
