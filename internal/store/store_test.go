package store_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"undian/internal/models"
	"undian/internal/storage"
	"undian/internal/store"
)

// brokenBackend fails every read, to exercise the soft-fail contract.
type brokenBackend struct{}

func (brokenBackend) Get(key string) ([]byte, error)   { return nil, fmt.Errorf("disk on fire") }
func (brokenBackend) Put(key string, value []byte) error { return nil }
func (brokenBackend) Delete(key string) error          { return nil }

func newTestStore() *store.Store {
	return store.New(storage.NewMemoryBackend())
}

func TestStore_InsertAndGetByID(t *testing.T) {
	st := newTestStore()

	doc, err := st.Insert(store.KindCustomers, models.Customer{
		Nama:      "Budi Santoso",
		NIK:       "3171234567890001",
		NoTelepon: "081234567890",
		Alamat:    "Jl. Merdeka 1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, doc.ID())
	assert.NotEmpty(t, doc.CreatedAt())
	assert.Empty(t, doc.UpdatedAt())

	// Round-trip: the stored record equals the inserted data plus id and
	// timestamp.
	found := st.GetByID(store.KindCustomers, doc.ID())
	require.NotNil(t, found)
	assert.Equal(t, doc, found)
	assert.Equal(t, "Budi Santoso", found.Str("nama"))
	assert.Equal(t, "3171234567890001", found.Str("nik"))

	assert.Nil(t, st.GetByID(store.KindCustomers, "no-such-id"))
}

func TestStore_InsertPreservesInsertionOrder(t *testing.T) {
	st := newTestStore()

	for i := 0; i < 5; i++ {
		_, err := st.Insert(store.KindCustomers, models.Customer{Nama: fmt.Sprintf("c%d", i)})
		require.NoError(t, err)
	}

	all := st.GetAll(store.KindCustomers)
	require.Len(t, all, 5)
	for i, doc := range all {
		assert.Equal(t, fmt.Sprintf("c%d", i), doc.Str("nama"))
	}
}

func TestStore_UpdateMergesOnlySuppliedFields(t *testing.T) {
	st := newTestStore()

	doc, err := st.Insert(store.KindCustomers, models.Customer{
		Nama:      "Budi",
		NIK:       "3171234567890001",
		NoTelepon: "081234567890",
	})
	require.NoError(t, err)

	updated, ok := st.Update(store.KindCustomers, doc.ID(), map[string]any{"nama": "Budi Santoso"})
	require.True(t, ok)
	assert.Equal(t, "Budi Santoso", updated.Str("nama"))
	assert.Equal(t, "3171234567890001", updated.Str("nik"))
	assert.Equal(t, "081234567890", updated.Str("no_telepon"))
	assert.NotEmpty(t, updated.UpdatedAt())
	assert.Equal(t, doc.CreatedAt(), updated.CreatedAt())

	// id and created_at are immutable even when patched explicitly.
	updated, ok = st.Update(store.KindCustomers, doc.ID(), map[string]any{"id": "evil", "created_at": "1999-01-01"})
	require.True(t, ok)
	assert.Equal(t, doc.ID(), updated.ID())
	assert.Equal(t, doc.CreatedAt(), updated.CreatedAt())

	_, ok = st.Update(store.KindCustomers, "no-such-id", map[string]any{"nama": "X"})
	assert.False(t, ok)
}

func TestStore_DeleteAbsentIDLeavesCollectionUnchanged(t *testing.T) {
	st := newTestStore()

	doc, err := st.Insert(store.KindCustomers, models.Customer{Nama: "Budi"})
	require.NoError(t, err)

	assert.False(t, st.Delete(store.KindCustomers, "no-such-id"))
	assert.Len(t, st.GetAll(store.KindCustomers), 1)

	assert.True(t, st.Delete(store.KindCustomers, doc.ID()))
	assert.Len(t, st.GetAll(store.KindCustomers), 0)
	assert.False(t, st.Delete(store.KindCustomers, doc.ID()))
}

func TestStore_FindByAndFindOneBy(t *testing.T) {
	st := newTestStore()

	_, err := st.Insert(store.KindUsers, models.User{Username: "kasir1", Role: models.RoleKasir, TokoName: "Toko A"})
	require.NoError(t, err)
	_, err = st.Insert(store.KindUsers, models.User{Username: "kasir2", Role: models.RoleKasir, TokoName: "Toko B"})
	require.NoError(t, err)
	_, err = st.Insert(store.KindUsers, models.User{Username: "boss", Role: models.RoleAdmin})
	require.NoError(t, err)

	kasirs := st.FindBy(store.KindUsers, "role", "kasir")
	assert.Len(t, kasirs, 2)

	// FindOneBy returns the first match in insertion order.
	first := st.FindOneBy(store.KindUsers, "role", "kasir")
	require.NotNil(t, first)
	assert.Equal(t, "kasir1", first.Str("username"))

	assert.Nil(t, st.FindOneBy(store.KindUsers, "username", "ghost"))
}

func TestStore_Search(t *testing.T) {
	st := newTestStore()

	_, err := st.Insert(store.KindCustomers, models.Customer{Nama: "Budi Santoso", NIK: "3171234567890001"})
	require.NoError(t, err)
	_, err = st.Insert(store.KindCustomers, models.Customer{Nama: "Siti Budiarti", NIK: "3171234567890002"})
	require.NoError(t, err)
	_, err = st.Insert(store.KindCustomers, models.Customer{Nama: "Agus", NIK: "3171234567890003"})
	require.NoError(t, err)

	// Case-insensitive substring matching for strings.
	assert.Len(t, st.Search(store.KindCustomers, map[string]any{"nama": "budi"}), 2)
	assert.Len(t, st.Search(store.KindCustomers, map[string]any{"nama": "SANTOSO"}), 1)

	// Falsy criteria are ignored.
	assert.Len(t, st.Search(store.KindCustomers, map[string]any{"nama": ""}), 3)

	// All provided criteria must match.
	results := st.Search(store.KindCustomers, map[string]any{"nama": "budi", "nik": "0002"})
	require.Len(t, results, 1)
	assert.Equal(t, "Siti Budiarti", results[0].Str("nama"))

	// Non-string criteria use exact equality.
	_, err = st.Insert(store.KindTransactions, models.Transaction{NoTransaksi: "TRX-1", Nominal: 200000, IsClaimed: true})
	require.NoError(t, err)
	_, err = st.Insert(store.KindTransactions, models.Transaction{NoTransaksi: "TRX-2", Nominal: 100000})
	require.NoError(t, err)
	claimed := st.Search(store.KindTransactions, map[string]any{"is_claimed": true})
	require.Len(t, claimed, 1)
	assert.Equal(t, "TRX-1", claimed[0].Str("no_transaksi"))
	assert.Len(t, st.Search(store.KindTransactions, map[string]any{"nominal": 200000}), 1)
}

func TestStore_ReadFailuresDegradeToEmpty(t *testing.T) {
	st := store.New(brokenBackend{})
	assert.Empty(t, st.GetAll(store.KindUsers))

	// Corrupt JSON degrades the same way.
	backend := storage.NewMemoryBackend()
	require.NoError(t, backend.Put("undian_customers", []byte("{not json")))
	st = store.New(backend)
	assert.Empty(t, st.GetAll(store.KindCustomers))

	// The collection is usable again after the next successful write.
	_, err := st.Insert(store.KindCustomers, models.Customer{Nama: "Budi"})
	require.NoError(t, err)
	assert.Len(t, st.GetAll(store.KindCustomers), 1)
}

func TestStore_InsertUnknownKind(t *testing.T) {
	st := newTestStore()
	_, err := st.Insert(store.Kind(42), models.Customer{Nama: "Budi"})
	assert.Error(t, err)
}

func TestStore_Stats(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	st := store.New(storage.NewMemoryBackend(), store.WithClock(func() time.Time { return now }))

	// One transaction yesterday, two today, one of them claimed.
	now = time.Date(2025, 6, 9, 9, 0, 0, 0, time.UTC)
	_, err := st.Insert(store.KindTransactions, models.Transaction{Nominal: 100000})
	require.NoError(t, err)
	now = time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	_, err = st.Insert(store.KindTransactions, models.Transaction{Nominal: 200000, IsClaimed: true})
	require.NoError(t, err)
	_, err = st.Insert(store.KindTransactions, models.Transaction{Nominal: 450000})
	require.NoError(t, err)

	_, err = st.Insert(store.KindVouchers, models.Voucher{TipeHadiah: models.TipeBesar, Status: models.VoucherActive})
	require.NoError(t, err)
	_, err = st.Insert(store.KindVouchers, models.Voucher{TipeHadiah: models.TipeSedang, Status: models.VoucherPending})
	require.NoError(t, err)
	_, err = st.Insert(store.KindVouchers, models.Voucher{TipeHadiah: models.TipeSedang, Status: models.VoucherActive})
	require.NoError(t, err)

	_, err = st.Insert(store.KindCustomers, models.Customer{Nama: "Budi"})
	require.NoError(t, err)

	stats := st.Stats()
	assert.Equal(t, 3, stats.TotalTransactions)
	assert.Equal(t, 2, stats.TodayTransactions)
	assert.Equal(t, 1, stats.ClaimedCoupons)
	assert.Equal(t, 3, stats.TotalVouchers)
	assert.Equal(t, 2, stats.ActiveVouchers)
	assert.Equal(t, 1, stats.VoucherBesar)
	assert.Equal(t, 2, stats.VoucherSedang)
	assert.Equal(t, 1, stats.TotalCustomers)
	assert.Equal(t, int64(750000), stats.TotalNominal)
}
