// Package voucher holds the tier allocation rule and the coupon/voucher code
// generators.
package voucher

import (
	"fmt"
	"math/rand"
	"strings"
)

// Allocation is the voucher grant for one transaction.
type Allocation struct {
	Besar  int `json:"besar"`
	Sedang int `json:"sedang"`
}

// Allocate maps a transaction amount to voucher counts: every full 200,000
// grants one BESAR and one SEDANG, and a leftover of at least 100,000 grants
// one extra SEDANG. Exact integer arithmetic; negative amounts allocate
// nothing.
func Allocate(nominal int64) Allocation {
	if nominal < 0 {
		return Allocation{}
	}
	besar := int(nominal / 200000)
	sedang := besar + int(nominal%200000/100000)
	return Allocation{Besar: besar, Sedang: sedang}
}

const codeChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// KuponCode builds a TOKO-KUPON-XXX-XXX coupon code. Uniqueness is
// probabilistic; callers needing hard uniqueness re-check against the store.
func KuponCode(toko string) string {
	return strings.ToUpper(fmt.Sprintf("%s-KUPON-%s-%s", toko, randomString(3), randomString(3)))
}

// VoucherCode builds a TOKO-HADIAH-TIPE-XXX-XXX-X prize voucher code.
func VoucherCode(toko, tipe string) string {
	return strings.ToUpper(fmt.Sprintf("%s-HADIAH-%s-%s-%s-%s",
		toko, tipe, randomString(3), randomString(3), randomString(1)))
}

func randomString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = codeChars[rand.Intn(len(codeChars))]
	}
	return string(b)
}
