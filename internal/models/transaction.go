package models

// Transaction records one shopping transaction at a toko. IsClaimed flips when
// the customer presents the coupon to collect their prize vouchers.
type Transaction struct {
	Record
	NoTransaksi string `json:"no_transaksi"`
	Nominal     int64  `json:"nominal" validate:"gte=0"`
	CustomerID  string `json:"customer_id"`
	TokoName    string `json:"toko_name"`
	KodeKupon   string `json:"kode_kupon,omitempty"`
	IsClaimed   bool   `json:"is_claimed"`
}
