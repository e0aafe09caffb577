package store

import "fmt"

// Kind enumerates the four entity collections. Keeping the set closed turns an
// unrecognised kind into an error at the call site instead of a silent nil.
type Kind int

const (
	KindUsers Kind = iota
	KindTransactions
	KindCustomers
	KindVouchers
)

// storageKey returns the namespace key the collection is persisted under. The
// keys are stable: renaming one orphans existing data.
func (k Kind) storageKey() (string, error) {
	switch k {
	case KindUsers:
		return "undian_users", nil
	case KindTransactions:
		return "undian_transactions", nil
	case KindCustomers:
		return "undian_customers", nil
	case KindVouchers:
		return "undian_vouchers", nil
	}
	return "", fmt.Errorf("unknown entity kind %d", int(k))
}

func (k Kind) String() string {
	switch k {
	case KindUsers:
		return "users"
	case KindTransactions:
		return "transactions"
	case KindCustomers:
		return "customers"
	case KindVouchers:
		return "vouchers"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}
