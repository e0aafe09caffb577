package export

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var idPrinter = message.NewPrinter(language.Indonesian)

// FormatRupiah renders an integer amount with Indonesian digit grouping,
// e.g. 250000 -> "Rp 250.000".
func FormatRupiah(nominal int64) string {
	return idPrinter.Sprintf("Rp %d", nominal)
}

// FormatDate renders an ISO-8601 timestamp as DD/MM/YYYY HH:MM. Unparseable
// input passes through unchanged.
func FormatDate(iso string) string {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return iso
	}
	return t.Format("02/01/2006 15:04")
}
