package models

// Prize tiers.
const (
	TipeBesar  = "BESAR"
	TipeSedang = "SEDANG"
)

// Voucher lifecycle. "active" means claimed/printed - that is the state the
// export builder reports on.
const (
	VoucherPending  = "pending"
	VoucherActive   = "active"
	VoucherRedeemed = "redeemed"
)

// Voucher is one prize voucher issued for a transaction. CustomerID is
// denormalised from the transaction for lookup convenience.
type Voucher struct {
	Record
	KodeVoucher   string `json:"kode_voucher"`
	TipeHadiah    string `json:"tipe_hadiah" validate:"oneof=BESAR SEDANG"`
	Status        string `json:"status"`
	TokoName      string `json:"toko_name"`
	CustomerID    string `json:"customer_id"`
	TransactionID string `json:"transaction_id"`
}

// VoucherPatch is the updatable subset of Voucher fields.
type VoucherPatch struct {
	Status string `json:"status,omitempty"`
}
