package voucher_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"undian/internal/voucher"
)

func TestAllocate_TierRule(t *testing.T) {
	tests := []struct {
		nominal int64
		besar   int
		sedang  int
	}{
		{0, 0, 0},
		{50000, 0, 0},
		{99999, 0, 0},
		{100000, 0, 1},
		{199999, 0, 1},
		{200000, 1, 1},
		{250000, 1, 1},
		{300000, 1, 2},
		{399999, 1, 2},
		{400000, 2, 2},
		{450000, 2, 3},
		{1000000, 5, 5},
		{1100000, 5, 6},
	}

	for _, tt := range tests {
		got := voucher.Allocate(tt.nominal)
		assert.Equal(t, tt.besar, got.Besar, "besar for %d", tt.nominal)
		assert.Equal(t, tt.sedang, got.Sedang, "sedang for %d", tt.nominal)
	}
}

func TestAllocate_Properties(t *testing.T) {
	for n := int64(0); n <= 2000000; n += 25000 {
		got := voucher.Allocate(n)
		assert.Equal(t, int(n/200000), got.Besar, "besar for %d", n)
		assert.GreaterOrEqual(t, got.Sedang, got.Besar, "sedang >= besar for %d", n)
	}
}

func TestAllocate_NegativeNominal(t *testing.T) {
	assert.Equal(t, voucher.Allocation{}, voucher.Allocate(-100000))
}

func TestKuponCode_Shape(t *testing.T) {
	re := regexp.MustCompile(`^TOKO MAJU-KUPON-[A-Z0-9]{3}-[A-Z0-9]{3}$`)
	for i := 0; i < 50; i++ {
		assert.Regexp(t, re, voucher.KuponCode("Toko Maju"))
	}
}

func TestVoucherCode_Shape(t *testing.T) {
	re := regexp.MustCompile(`^TOKO MAJU-HADIAH-BESAR-[A-Z0-9]{3}-[A-Z0-9]{3}-[A-Z0-9]$`)
	for i := 0; i < 50; i++ {
		assert.Regexp(t, re, voucher.VoucherCode("Toko Maju", "BESAR"))
	}
	assert.Contains(t, voucher.VoucherCode("toko", "sedang"), "TOKO-HADIAH-SEDANG-")
}
