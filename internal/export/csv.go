package export

import (
	"encoding/csv"
	"io"
	"strconv"
)

// WriteCSV renders the export with the column hints applied: the date column
// in the short Indonesian form and the currency column as Rupiah. This is the
// plain-text fallback; richer spreadsheet styling belongs to the presentation
// layer.
func (e Export) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Headers()); err != nil {
		return err
	}
	for _, r := range e.Rows {
		record := []string{
			strconv.Itoa(r.No),
			FormatDate(r.TanggalJam),
			r.NoTransaksi,
			r.NamaLengkap,
			r.NIK,
			r.NoTelepon,
			r.AlamatLengkap,
			FormatRupiah(r.NominalBelanja),
			r.KodeVoucher,
			r.TokoAsal,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
