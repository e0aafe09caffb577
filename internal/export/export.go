// Package export builds the claimed-voucher report: a tabular projection that
// joins vouchers with their originating transaction and customer. The builder
// performs no spreadsheet styling; column-type hints tell the presentation
// layer how to format.
package export

import (
	"sort"
	"strings"

	"undian/internal/models"
	"undian/internal/store"
)

// Options scopes the voucher export. TokoName nil falls back to the caller's
// session store; pointing it at the empty string exports every store (the
// admin "all" view).
type Options struct {
	Type     string
	TokoName *string
}

// Row is the fixed ten-column projection, one per exported voucher. TanggalJam
// is the claim time as stored (ISO-8601); FormatDate renders it for display.
type Row struct {
	No             int    `json:"No"`
	TanggalJam     string `json:"Tanggal & Jam"`
	NoTransaksi    string `json:"No. Transaksi"`
	NamaLengkap    string `json:"Nama Lengkap"`
	NIK            string `json:"NIK"`
	NoTelepon      string `json:"No. Telepon / WA"`
	AlamatLengkap  string `json:"Alamat Lengkap"`
	NominalBelanja int64  `json:"Nominal Belanja"`
	KodeVoucher    string `json:"Kode Voucher"`
	TokoAsal       string `json:"Toko Asal"`
}

// ColumnTypes hints which columns are dates, currency, forced text (NIK and
// phone would otherwise collapse to scientific notation in spreadsheets) and
// wrapped long text.
type ColumnTypes struct {
	DateColumns     []string `json:"dateColumns"`
	CurrencyColumns []string `json:"currencyColumns"`
	TextColumns     []string `json:"textColumns"`
	WrapColumns     []string `json:"wrapColumns"`
}

// Export is the built projection plus the scope label used in filenames.
type Export struct {
	Rows        []Row       `json:"data"`
	TokoName    string      `json:"tokoName"`
	ColumnTypes ColumnTypes `json:"columnTypes"`
}

// Headers lists the column names in projection order.
func Headers() []string {
	return []string{
		"No", "Tanggal & Jam", "No. Transaksi", "Nama Lengkap", "NIK",
		"No. Telepon / WA", "Alamat Lengkap", "Nominal Belanja", "Kode Voucher", "Toko Asal",
	}
}

func defaultColumnTypes() ColumnTypes {
	return ColumnTypes{
		DateColumns:     []string{"Tanggal & Jam"},
		CurrencyColumns: []string{"Nominal Belanja"},
		TextColumns:     []string{"NIK", "No. Telepon / WA", "Kode Voucher", "No. Transaksi"},
		WrapColumns:     []string{"Alamat Lengkap"},
	}
}

// Builder joins vouchers against their transaction and customer records.
type Builder struct {
	store *store.Store
}

// NewBuilder creates a Builder over the record store.
func NewBuilder(st *store.Store) *Builder {
	return &Builder{store: st}
}

// BuildVoucherExport filters claimed (active) vouchers by tier and store scope,
// sorts them newest claim first and joins the referenced records. A broken
// reference projects as "-" rather than failing the join.
func (b *Builder) BuildVoucherExport(session *models.Session, opts Options) Export {
	tokoName := ""
	switch {
	case opts.TokoName != nil:
		tokoName = *opts.TokoName
	case session != nil:
		tokoName = session.TokoName
	}

	var vouchers []store.Document
	for _, v := range b.store.GetAll(store.KindVouchers) {
		if opts.Type != "" && v.Str("tipe_hadiah") != strings.ToUpper(opts.Type) {
			continue
		}
		if tokoName != "" && v.Str("toko_name") != tokoName {
			continue
		}
		if v.Str("status") != models.VoucherActive {
			continue
		}
		vouchers = append(vouchers, v)
	}

	// ISO-8601 UTC strings order lexicographically, so no parsing is needed.
	sort.SliceStable(vouchers, func(i, j int) bool {
		return claimTime(vouchers[i]) > claimTime(vouchers[j])
	})

	rows := make([]Row, 0, len(vouchers))
	for i, v := range vouchers {
		row := Row{
			No:            i + 1,
			TanggalJam:    claimTime(v),
			NoTransaksi:   "-",
			NamaLengkap:   "-",
			NIK:           "-",
			NoTelepon:     "-",
			AlamatLengkap: "-",
			KodeVoucher:   v.Str("kode_voucher"),
			TokoAsal:      orDash(v.Str("toko_name")),
		}
		if txn := b.store.GetByID(store.KindTransactions, v.Str("transaction_id")); txn != nil {
			row.NoTransaksi = orDash(txn.Str("no_transaksi"))
			row.NominalBelanja = txn.Int("nominal")
		}
		if cust := b.store.GetByID(store.KindCustomers, v.Str("customer_id")); cust != nil {
			row.NamaLengkap = orDash(cust.Str("nama"))
			row.NIK = orDash(cust.Str("nik"))
			row.NoTelepon = orDash(cust.Str("no_telepon"))
			row.AlamatLengkap = orDash(cust.Str("alamat"))
		}
		rows = append(rows, row)
	}

	label := tokoName
	if label == "" {
		label = "Semua_Toko"
	}
	return Export{
		Rows:        rows,
		TokoName:    label,
		ColumnTypes: defaultColumnTypes(),
	}
}

// claimTime is updated_at when the voucher has been touched, created_at
// otherwise.
func claimTime(v store.Document) string {
	if t := v.UpdatedAt(); t != "" {
		return t
	}
	return v.CreatedAt()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
