package output

import (
	"math"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/yndnr/rentdesk-go/internal/core/domain"
)

// FormatCurrency renders a dollar amount with no decimals and thousands
// separators: 1250 becomes "$1,250". NaN and infinities render as "-".
func FormatCurrency(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "-"
	}
	r := math.Round(amount)
	s := "$" + humanize.Comma(int64(math.Abs(r)))
	if r < 0 {
		return "-" + s
	}
	return s
}

// FormatDate renders an ISO date or timestamp as M/D/YYYY in UTC.
// Empty input stays empty; unparseable input is returned unchanged.
func FormatDate(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	t, err := domain.ParseDate(s)
	if err != nil {
		return s
	}
	return t.UTC().Format("1/2/2006")
}
