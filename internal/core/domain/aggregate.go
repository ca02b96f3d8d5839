package domain

import "sort"

// PeriodTotal is the sum of payment amounts in one calendar month.
type PeriodTotal struct {
	Period string `json:"period"` // YYYY-MM
	Total  Amount `json:"total"`
}

// MonthlyTotals groups payments by the UTC calendar month of their date
// and sums the amounts. The result is sorted ascending by period.
// Payments without a parseable date are skipped.
//
// Timestamps with an offset are converted to UTC before grouping, so
// 2024-01-31T20:00:00-05:00 counts toward 2024-02. Dates are sent to the
// API as RFC3339 UTC and this keeps the grouping in step with them.
func MonthlyTotals(payments []Payment) []PeriodTotal {
	sums := make(map[string]Amount)
	for _, p := range payments {
		t, err := ParseDate(p.Date)
		if err != nil {
			continue
		}
		sums[t.UTC().Format("2006-01")] += p.Amount
	}

	totals := make([]PeriodTotal, 0, len(sums))
	for period, total := range sums {
		totals = append(totals, PeriodTotal{Period: period, Total: total})
	}
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].Period < totals[j].Period
	})
	return totals
}
