package services

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"undian/internal/models"
	"undian/internal/store"
	"undian/internal/voucher"
)

// EventPublisher publishes domain events. *rabbitmq.Client satisfies it; a nil
// publisher disables events entirely.
type EventPublisher interface {
	Publish(eventType string, body []byte) error
}

// CustomerInput identifies the shopper on a transaction. The NIK is the
// find-or-create key: a returning customer keeps their existing record.
type CustomerInput struct {
	Nama      string `json:"nama" validate:"required"`
	NIK       string `json:"nik" validate:"required,nik_id"`
	NoTelepon string `json:"no_telepon" validate:"required,telepon_id"`
	Alamat    string `json:"alamat"`
}

// CreateTransactionRequest is the input for recording a shopping transaction.
type CreateTransactionRequest struct {
	NoTransaksi string        `json:"no_transaksi"`
	Nominal     int64         `json:"nominal" validate:"gte=0"`
	TokoName    string        `json:"toko_name" validate:"required"`
	Customer    CustomerInput `json:"customer" validate:"required"`
}

// TransactionResult bundles the persisted transaction with the vouchers it
// granted.
type TransactionResult struct {
	Transaction models.Transaction `json:"transaction"`
	Customer    models.Customer    `json:"customer"`
	Vouchers    []models.Voucher   `json:"vouchers"`
	Allocation  voucher.Allocation `json:"allocation"`
}

// TransactionService records and claims transactions and drives the voucher
// fan-out they trigger.
type TransactionService struct {
	store  *store.Store
	events EventPublisher
}

// NewTransactionService creates a TransactionService. events may be nil when
// no broker is configured.
func NewTransactionService(st *store.Store, events EventPublisher) *TransactionService {
	return &TransactionService{
		store:  st,
		events: events,
	}
}

// Create records the transaction, re-using the customer with the same NIK when
// one exists, and issues prize vouchers per the allocation rule. The
// transaction and its vouchers are independent persists with no cross-kind
// atomicity: a crash in between leaves a transaction without vouchers, which
// Claim tolerates.
func (s *TransactionService) Create(req CreateTransactionRequest) (*TransactionResult, error) {
	customer, err := s.findOrCreateCustomer(req.Customer)
	if err != nil {
		return nil, err
	}

	noTransaksi := req.NoTransaksi
	if noTransaksi == "" {
		noTransaksi = "TRX-" + strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
	}

	doc, err := s.store.Insert(store.KindTransactions, models.Transaction{
		NoTransaksi: noTransaksi,
		Nominal:     req.Nominal,
		CustomerID:  customer.ID,
		TokoName:    req.TokoName,
		KodeKupon:   voucher.KuponCode(req.TokoName),
		IsClaimed:   false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}
	txn, err := store.Decode[models.Transaction](doc)
	if err != nil {
		return nil, fmt.Errorf("failed to decode transaction: %w", err)
	}

	allocation := voucher.Allocate(req.Nominal)
	vouchers := make([]models.Voucher, 0, allocation.Besar+allocation.Sedang)
	for i := 0; i < allocation.Besar; i++ {
		v, err := s.issueVoucher(txn, models.TipeBesar)
		if err != nil {
			return nil, err
		}
		vouchers = append(vouchers, v)
	}
	for i := 0; i < allocation.Sedang; i++ {
		v, err := s.issueVoucher(txn, models.TipeSedang)
		if err != nil {
			return nil, err
		}
		vouchers = append(vouchers, v)
	}

	s.publish("transaction.created", map[string]interface{}{
		"transaction_id": txn.ID,
		"no_transaksi":   txn.NoTransaksi,
		"toko_name":      txn.TokoName,
		"nominal":        txn.Nominal,
		"besar":          allocation.Besar,
		"sedang":         allocation.Sedang,
	})

	return &TransactionResult{
		Transaction: txn,
		Customer:    customer,
		Vouchers:    vouchers,
		Allocation:  allocation,
	}, nil
}

// findOrCreateCustomer looks the shopper up by NIK and enrols them on first
// contact.
func (s *TransactionService) findOrCreateCustomer(input CustomerInput) (models.Customer, error) {
	if doc := s.store.FindOneBy(store.KindCustomers, "nik", input.NIK); doc != nil {
		return store.Decode[models.Customer](doc)
	}
	doc, err := s.store.Insert(store.KindCustomers, models.Customer{
		Nama:      input.Nama,
		NIK:       input.NIK,
		NoTelepon: input.NoTelepon,
		Alamat:    input.Alamat,
	})
	if err != nil {
		return models.Customer{}, fmt.Errorf("failed to enrol customer: %w", err)
	}
	return store.Decode[models.Customer](doc)
}

// issueVoucher inserts one pending voucher with a code re-checked against the
// store, since code generation alone is only probabilistically unique.
func (s *TransactionService) issueVoucher(txn models.Transaction, tipe string) (models.Voucher, error) {
	code := voucher.VoucherCode(txn.TokoName, tipe)
	for s.store.FindOneBy(store.KindVouchers, "kode_voucher", code) != nil {
		code = voucher.VoucherCode(txn.TokoName, tipe)
	}

	doc, err := s.store.Insert(store.KindVouchers, models.Voucher{
		KodeVoucher:   code,
		TipeHadiah:    tipe,
		Status:        models.VoucherPending,
		TokoName:      txn.TokoName,
		CustomerID:    txn.CustomerID,
		TransactionID: txn.ID,
	})
	if err != nil {
		return models.Voucher{}, fmt.Errorf("failed to issue %s voucher: %w", tipe, err)
	}
	return store.Decode[models.Voucher](doc)
}

// Claim marks the transaction's coupon as claimed and activates its vouchers.
// The updated_at stamped on each voucher is the claim time the export sorts
// on. A transaction without vouchers claims cleanly.
func (s *TransactionService) Claim(transactionID string) (*TransactionResult, error) {
	doc, ok := s.store.Update(store.KindTransactions, transactionID, map[string]any{"is_claimed": true})
	if !ok {
		return nil, fmt.Errorf("transaction with ID %s not found", transactionID)
	}
	txn, err := store.Decode[models.Transaction](doc)
	if err != nil {
		return nil, fmt.Errorf("failed to decode transaction: %w", err)
	}

	var vouchers []models.Voucher
	patch := store.Patch(models.VoucherPatch{Status: models.VoucherActive})
	for _, vdoc := range s.store.FindBy(store.KindVouchers, "transaction_id", transactionID) {
		updated, ok := s.store.Update(store.KindVouchers, vdoc.ID(), patch)
		if !ok {
			continue
		}
		if v, err := store.Decode[models.Voucher](updated); err == nil {
			vouchers = append(vouchers, v)
		}
	}

	s.publish("transaction.claimed", map[string]interface{}{
		"transaction_id": txn.ID,
		"no_transaksi":   txn.NoTransaksi,
		"toko_name":      txn.TokoName,
		"vouchers":       len(vouchers),
	})

	return &TransactionResult{Transaction: txn, Vouchers: vouchers}, nil
}

// GetByID returns one transaction, or nil when the id is unknown.
func (s *TransactionService) GetByID(id string) *models.Transaction {
	doc := s.store.GetByID(store.KindTransactions, id)
	if doc == nil {
		return nil
	}
	txn, err := store.Decode[models.Transaction](doc)
	if err != nil {
		return nil
	}
	return &txn
}

// Search filters transactions by the store's search semantics (falsy criteria
// skipped, substring match on strings).
func (s *TransactionService) Search(criteria map[string]any) []models.Transaction {
	return store.DecodeAll[models.Transaction](s.store.Search(store.KindTransactions, criteria))
}

// Stats returns the dashboard aggregates.
func (s *TransactionService) Stats() store.Stats {
	return s.store.Stats()
}

func (s *TransactionService) publish(eventType string, event map[string]interface{}) {
	if s.events == nil {
		log.Println("Event publisher is not configured. Skipping", eventType)
		return
	}
	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", eventType, err)
		return
	}
	if err := s.events.Publish(eventType, body); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", eventType, err)
	}
}
