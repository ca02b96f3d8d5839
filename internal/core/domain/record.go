package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Amount is a currency amount in dollars.
//
// The API is not consistent about numeric encoding, so Amount accepts a
// JSON number, a numeric string, or null (which decodes as zero).
type Amount float64

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*a = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("amount %q is not a number", s)
		}
		*a = Amount(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*a = Amount(f)
	return nil
}

// Float returns the amount as a float64.
func (a Amount) Float() float64 {
	return float64(a)
}

// IsFinite reports whether the amount is neither NaN nor infinite.
func (a Amount) IsFinite() bool {
	f := float64(a)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// RecordID holds a server-issued identifier. Some API deployments use
// "_id" instead of "id"; both are accepted.
type RecordID struct {
	ID       string `json:"id,omitempty"`
	LegacyID string `json:"_id,omitempty" table:"-"`
}

// Key returns the record's identifier.
func (r RecordID) Key() string {
	if r.ID != "" {
		return r.ID
	}
	return r.LegacyID
}

// Payment is an incoming payment.
type Payment struct {
	RecordID
	Payer       string `json:"payer"`
	Amount      Amount `json:"amount"`
	Date        string `json:"date,omitempty"`
	Description string `json:"description,omitempty"`
}

// Debt categories and statuses accepted by the API.
const (
	CategoryRestaurants = "Restaurants"
	CategoryOffices     = "Offices"
	CategoryOther       = "Other"

	StatusPending = "pending"
	StatusSettled = "settled"
)

// DebtCategories lists the valid debt categories.
var DebtCategories = []string{CategoryRestaurants, CategoryOffices, CategoryOther}

// DebtStatuses lists the valid debt statuses.
var DebtStatuses = []string{StatusPending, StatusSettled}

// Debt is an outstanding or settled liability.
type Debt struct {
	RecordID
	Amount      Amount `json:"amount"`
	Date        string `json:"date,omitempty"`
	Category    string `json:"category"`
	Status      string `json:"status"`
	Description string `json:"description,omitempty"`
}

// Unit is a rentable unit within a property.
type Unit struct {
	Number      string `json:"number"`
	Tenant      string `json:"tenant,omitempty"`
	MonthlyRent Amount `json:"monthlyRent"`
	IsRented    bool   `json:"isRented"`
}

// Property is a real-estate asset made of units.
type Property struct {
	RecordID
	Name    string `json:"name"`
	Type    string `json:"type"`
	Address string `json:"address"`
	Units   []Unit `json:"units"`
}

// RentedCount returns how many units are flagged as rented.
func (p Property) RentedCount() int {
	n := 0
	for _, u := range p.Units {
		if u.IsRented {
			n++
		}
	}
	return n
}

// VacantCount returns how many units are not rented.
func (p Property) VacantCount() int {
	return len(p.Units) - p.RentedCount()
}

// MonthlyIncome sums the rent of rented units.
func (p Property) MonthlyIncome() Amount {
	var total Amount
	for _, u := range p.Units {
		if u.IsRented {
			total += u.MonthlyRent
		}
	}
	return total
}

// PaymentSummary is returned by GET /api/payments/summary.
type PaymentSummary struct {
	TotalPaid Amount `json:"totalPaid"`
}

// DebtSummary is returned by GET /api/debts/summary.
type DebtSummary struct {
	Pending Amount `json:"pending"`
	Settled Amount `json:"settled"`
}

// CategoryTotal is one row of GET /api/debts/breakdown.
type CategoryTotal struct {
	Category    string `json:"category"`
	TotalAmount Amount `json:"totalAmount"`
}

// Occupancy is returned by GET /api/properties/rented-vacant.
type Occupancy struct {
	Rented int `json:"rented"`
	Vacant int `json:"vacant"`
}

// IncomePortfolio is returned by GET /api/properties/income-portfolio.
type IncomePortfolio struct {
	MonthlyIncome  Amount `json:"monthlyIncome"`
	PortfolioValue Amount `json:"portfolioValue"`
}

// Overview is returned by GET /api/dashboard/overview.
type Overview struct {
	TotalPayments   Amount `json:"totalPayments"`
	OutstandingDebt Amount `json:"outstandingDebt"`
	NetPosition     Amount `json:"netPosition"`
}

// RequiredFields lists the keys an aggregate body must carry. Aggregates
// have no sensible zero, so a body without them is contract drift rather
// than an empty result.
func (PaymentSummary) RequiredFields() []string { return []string{"totalPaid"} }

func (DebtSummary) RequiredFields() []string { return []string{"pending", "settled"} }

func (CategoryTotal) RequiredFields() []string { return []string{"category", "totalAmount"} }

func (Occupancy) RequiredFields() []string { return []string{"rented", "vacant"} }

func (IncomePortfolio) RequiredFields() []string {
	return []string{"monthlyIncome", "portfolioValue"}
}

func (Overview) RequiredFields() []string {
	return []string{"totalPayments", "outstandingDebt", "netPosition"}
}

// Accepted input layouts for record dates.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDate parses an ISO date or timestamp.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// NormalizeDate converts an accepted date input to RFC3339 UTC, the form
// the API stores. Empty input stays empty.
func NormalizeDate(s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return "", err
	}
	return t.UTC().Format(time.RFC3339), nil
}
