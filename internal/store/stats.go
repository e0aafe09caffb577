package store

import (
	"strings"

	"undian/internal/models"
)

// Stats is the aggregate snapshot behind the dashboard.
type Stats struct {
	TotalTransactions int   `json:"totalTransactions"`
	TodayTransactions int   `json:"todayTransactions"`
	ClaimedCoupons    int   `json:"claimedCoupons"`
	TotalVouchers     int   `json:"totalVouchers"`
	ActiveVouchers    int   `json:"activeVouchers"`
	VoucherBesar      int   `json:"voucherBesar"`
	VoucherSedang     int   `json:"voucherSedang"`
	TotalCustomers    int   `json:"totalCustomers"`
	TotalNominal      int64 `json:"totalNominal"`
}

// Stats aggregates across the transaction, voucher and customer collections.
// "Today" means the created_at date prefix matches the current date.
func (s *Store) Stats() Stats {
	today := s.now().UTC().Format("2006-01-02")
	var st Stats

	for _, t := range s.GetAll(KindTransactions) {
		st.TotalTransactions++
		if strings.HasPrefix(t.CreatedAt(), today) {
			st.TodayTransactions++
		}
		if t.Bool("is_claimed") {
			st.ClaimedCoupons++
		}
		st.TotalNominal += t.Int("nominal")
	}

	for _, v := range s.GetAll(KindVouchers) {
		st.TotalVouchers++
		if v.Str("status") == models.VoucherActive {
			st.ActiveVouchers++
		}
		switch v.Str("tipe_hadiah") {
		case models.TipeBesar:
			st.VoucherBesar++
		case models.TipeSedang:
			st.VoucherSedang++
		}
	}

	st.TotalCustomers = len(s.GetAll(KindCustomers))
	return st
}
