package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"undian/internal/models"
	"undian/internal/services"
	"undian/internal/storage"
	"undian/internal/store"
)

// MockEventPublisher is a mock implementation of services.EventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(eventType string, body []byte) error {
	args := m.Called(eventType, body)
	return args.Error(0)
}

func newService(events services.EventPublisher) (*services.TransactionService, *store.Store) {
	st := store.New(storage.NewMemoryBackend())
	return services.NewTransactionService(st, events), st
}

func sampleRequest(nominal int64) services.CreateTransactionRequest {
	return services.CreateTransactionRequest{
		Nominal:  nominal,
		TokoName: "Toko A",
		Customer: services.CustomerInput{
			Nama:      "Budi Santoso",
			NIK:       "3171234567890001",
			NoTelepon: "081234567890",
			Alamat:    "Jl. Merdeka 1",
		},
	}
}

func TestCreate_IssuesVouchersPerAllocation(t *testing.T) {
	events := new(MockEventPublisher)
	events.On("Publish", "transaction.created", mock.Anything).Return(nil)
	svc, st := newService(events)

	result, err := svc.Create(sampleRequest(450000))
	require.NoError(t, err)

	assert.Equal(t, 2, result.Allocation.Besar)
	assert.Equal(t, 3, result.Allocation.Sedang)
	require.Len(t, result.Vouchers, 5)

	besar, sedang := 0, 0
	for _, v := range result.Vouchers {
		assert.Equal(t, models.VoucherPending, v.Status)
		assert.Equal(t, "Toko A", v.TokoName)
		assert.Equal(t, result.Transaction.ID, v.TransactionID)
		assert.Equal(t, result.Customer.ID, v.CustomerID)
		switch v.TipeHadiah {
		case models.TipeBesar:
			besar++
		case models.TipeSedang:
			sedang++
		}
	}
	assert.Equal(t, 2, besar)
	assert.Equal(t, 3, sedang)

	assert.NotEmpty(t, result.Transaction.NoTransaksi)
	assert.NotEmpty(t, result.Transaction.KodeKupon)
	assert.False(t, result.Transaction.IsClaimed)
	assert.Len(t, st.GetAll(store.KindVouchers), 5)

	events.AssertExpectations(t)
}

func TestCreate_SmallNominalGrantsNothing(t *testing.T) {
	svc, st := newService(nil)

	result, err := svc.Create(sampleRequest(50000))
	require.NoError(t, err)
	assert.Empty(t, result.Vouchers)
	assert.Empty(t, st.GetAll(store.KindVouchers))
}

func TestCreate_ReusesCustomerByNIK(t *testing.T) {
	svc, st := newService(nil)

	first, err := svc.Create(sampleRequest(100000))
	require.NoError(t, err)

	// Same NIK with a different name still resolves to the existing record.
	req := sampleRequest(100000)
	req.Customer.Nama = "Budi S."
	second, err := svc.Create(req)
	require.NoError(t, err)

	assert.Equal(t, first.Customer.ID, second.Customer.ID)
	assert.Equal(t, "Budi Santoso", second.Customer.Nama)
	assert.Len(t, st.GetAll(store.KindCustomers), 1)
	assert.Len(t, st.GetAll(store.KindTransactions), 2)
}

func TestCreate_KeepsProvidedTransactionNumber(t *testing.T) {
	svc, _ := newService(nil)

	req := sampleRequest(100000)
	req.NoTransaksi = "TRX-MANUAL-001"
	result, err := svc.Create(req)
	require.NoError(t, err)
	assert.Equal(t, "TRX-MANUAL-001", result.Transaction.NoTransaksi)
}

func TestClaim_ActivatesVouchers(t *testing.T) {
	events := new(MockEventPublisher)
	events.On("Publish", "transaction.created", mock.Anything).Return(nil)
	events.On("Publish", "transaction.claimed", mock.Anything).Return(nil)
	svc, st := newService(events)

	created, err := svc.Create(sampleRequest(300000))
	require.NoError(t, err)
	require.Len(t, created.Vouchers, 3)

	claimed, err := svc.Claim(created.Transaction.ID)
	require.NoError(t, err)
	assert.True(t, claimed.Transaction.IsClaimed)
	require.Len(t, claimed.Vouchers, 3)
	for _, v := range claimed.Vouchers {
		assert.Equal(t, models.VoucherActive, v.Status)
		// The claim stamps the voucher, and only the status changes.
		assert.NotEmpty(t, v.UpdatedAt)
		assert.NotEmpty(t, v.KodeVoucher)
	}

	// The store agrees with the returned view.
	for _, doc := range st.FindBy(store.KindVouchers, "transaction_id", created.Transaction.ID) {
		assert.Equal(t, models.VoucherActive, doc.Str("status"))
	}

	events.AssertExpectations(t)
}

func TestClaim_UnknownTransaction(t *testing.T) {
	svc, _ := newService(nil)

	_, err := svc.Claim("no-such-id")
	assert.Error(t, err)
}

func TestClaim_TransactionWithoutVouchers(t *testing.T) {
	svc, _ := newService(nil)

	created, err := svc.Create(sampleRequest(50000))
	require.NoError(t, err)

	claimed, err := svc.Claim(created.Transaction.ID)
	require.NoError(t, err)
	assert.True(t, claimed.Transaction.IsClaimed)
	assert.Empty(t, claimed.Vouchers)
}

func TestCreate_NilPublisherIsSafe(t *testing.T) {
	svc, _ := newService(nil)

	result, err := svc.Create(sampleRequest(200000))
	require.NoError(t, err)
	assert.Len(t, result.Vouchers, 2)

	_, err = svc.Claim(result.Transaction.ID)
	assert.NoError(t, err)
}

func TestSearchAndGetByID(t *testing.T) {
	svc, _ := newService(nil)

	first, err := svc.Create(sampleRequest(100000))
	require.NoError(t, err)
	reqB := sampleRequest(200000)
	reqB.TokoName = "Toko B"
	reqB.Customer.NIK = "3171234567890002"
	_, err = svc.Create(reqB)
	require.NoError(t, err)

	found := svc.GetByID(first.Transaction.ID)
	require.NotNil(t, found)
	assert.Equal(t, first.Transaction.NoTransaksi, found.NoTransaksi)
	assert.Nil(t, svc.GetByID("no-such-id"))

	scoped := svc.Search(map[string]any{"toko_name": "Toko B"})
	require.Len(t, scoped, 1)
	assert.Equal(t, int64(200000), scoped[0].Nominal)

	// Falsy criteria are skipped, so an empty filter returns everything.
	assert.Len(t, svc.Search(map[string]any{"toko_name": ""}), 2)
}
