package register

import (
	"fmt"
	"strings"
	"time"
)

// FormatDateForRegister renders a date the way the register's HTML search form
// expects it: DD-MMM-YY with an upper-cased three-letter month ("20-FEB-24").
func FormatDateForRegister(t time.Time) string {
	return strings.ToUpper(t.Format("02-Jan-06"))
}

// FormatDateForPDFURL turns an ISO date into the YYYYMMDD token used in the
// register PDF's predictable URL ("2024-02-20" -> "20240220").
func FormatDateForPDFURL(iso string) string {
	return strings.ReplaceAll(iso, "-", "")
}

// ParseRequestDate accepts the two date spellings the API takes: the
// register's own MM/DD/YYYY and ISO YYYY-MM-DD.
func ParseRequestDate(raw string) (time.Time, error) {
	for _, layout := range []string{"01/02/2006", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q (want MM/DD/YYYY or YYYY-MM-DD)", raw)
}
