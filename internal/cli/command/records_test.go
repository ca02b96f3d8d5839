package command

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/yndnr/rentdesk-go/internal/cli/service"
	"github.com/yndnr/rentdesk-go/internal/core/domain"
)

func TestPayments_List(t *testing.T) {
	env := newTestEnv(t)
	env.login()
	env.api.SeedPayment(domain.Payment{Payer: "Ann", Amount: 1250, Date: "2024-01-15", Description: "January rent"})
	env.api.SeedPayment(domain.Payment{Payer: "Bob", Amount: 300, Date: "2024-02-01T10:00:00Z"})

	r := env.run("", "payments")
	if r.err != nil {
		t.Fatalf("payments: %v", r.err)
	}
	assertContains(t, r.stdout,
		"Total Paid:", "$1,550",
		"Payments:", "2",
		"PAYER", "Ann", "$1,250", "1/15/2024",
		"Bob", "2/1/2024",
	)
	if strings.Contains(r.stdout, "January rent") {
		t.Error("description shown without --wide")
	}

	r = env.run("", "--wide", "payments", "list")
	if r.err != nil {
		t.Fatalf("payments list --wide: %v", r.err)
	}
	assertContains(t, r.stdout, "DESCRIPTION", "January rent")
}

func TestPayments_ListEmpty(t *testing.T) {
	env := newTestEnv(t)
	env.login()

	r := env.run("", "payments", "list")
	if r.err != nil {
		t.Fatalf("payments: %v", r.err)
	}
	assertContains(t, r.stdout, "Total Paid:  $0", "No payments found.")
}

func TestPayments_ListJSON(t *testing.T) {
	env := newTestEnv(t)
	env.login()
	env.api.SeedPayment(domain.Payment{Payer: "Ann", Amount: 100, Date: "2024-01-15"})

	r := env.run("", "-o", "json", "payments")
	if r.err != nil {
		t.Fatalf("payments: %v", r.err)
	}

	var page service.PaymentsPage
	if err := json.Unmarshal([]byte(r.stdout), &page); err != nil {
		t.Fatalf("decode: %v\n%s", err, r.stdout)
	}
	if len(page.Payments) != 1 || page.Payments[0].Payer != "Ann" {
		t.Errorf("payments = %+v", page.Payments)
	}
	if page.Summary.TotalPaid != 100 {
		t.Errorf("total paid = %v", page.Summary.TotalPaid)
	}
}

func TestPayments_Create(t *testing.T) {
	env := newTestEnv(t)
	env.login()

	r := env.run("", "-o", "json", "payments", "create",
		"--payer", "Ann", "--amount", "250.5", "--date", "2024-03-01", "--description", "deposit")
	if r.err != nil {
		t.Fatalf("create: %v", r.err)
	}
	assertContains(t, r.stderr, "Payment created")

	var p domain.Payment
	if err := json.Unmarshal([]byte(r.stdout), &p); err != nil {
		t.Fatalf("decode: %v\n%s", err, r.stdout)
	}
	if p.Key() == "" {
		t.Error("created payment has no id")
	}
	if p.Date != "2024-03-01T00:00:00Z" {
		t.Errorf("date = %q, want normalized RFC3339", p.Date)
	}
	if p.Amount != 250.5 || p.Description != "deposit" {
		t.Errorf("payment = %+v", p)
	}
}

func TestPayments_CreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"missing date", []string{"--payer", "Ann", "--amount", "10"}, "Date is required"},
		{"bad date", []string{"--payer", "Ann", "--amount", "10", "--date", "yesterday"}, "Invalid date"},
		{"zero amount", []string{"--payer", "Ann", "--date", "2024-01-01"}, "Must be positive"},
		{"missing payer", []string{"--amount", "10", "--date", "2024-01-01"}, "Payer is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.login()
			before := len(env.api.Requests())

			r := env.run("", append([]string{"payments", "create"}, tt.args...)...)
			if r.err == nil || !strings.Contains(r.err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want %q", r.err, tt.wantErr)
			}
			if got := len(env.api.Requests()); got != before {
				t.Errorf("invalid payment sent %d requests", got-before)
			}
		})
	}
}

func TestPayments_UpdateKeepsUnsetFields(t *testing.T) {
	env := newTestEnv(t)
	env.login()
	p := env.api.SeedPayment(domain.Payment{Payer: "Ann", Amount: 100, Date: "2024-01-15T00:00:00Z", Description: "rent"})

	r := env.run("", "-o", "json", "payments", "update", "--amount", "120", p.Key())
	if r.err != nil {
		t.Fatalf("update: %v", r.err)
	}
	assertContains(t, r.stderr, "Payment updated")

	var got domain.Payment
	if err := json.Unmarshal([]byte(r.stdout), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, r.stdout)
	}
	if got.Amount != 120 || got.Payer != "Ann" || got.Description != "rent" {
		t.Errorf("updated payment = %+v", got)
	}
}

func TestPayments_GetNotFound(t *testing.T) {
	env := newTestEnv(t)
	env.login()

	r := env.run("", "payments", "get", "missing")
	if r.err == nil || !strings.Contains(r.err.Error(), "Payment not found") {
		t.Errorf("err = %v", r.err)
	}

	r = env.run("", "payments", "get")
	if r.err == nil || !strings.Contains(r.err.Error(), "expected one payment id") {
		t.Errorf("err without id = %v", r.err)
	}
}

func TestPayments_Delete(t *testing.T) {
	tests := []struct {
		name        string
		stdin       string
		args        []string
		wantDeleted bool
		wantStderr  string
	}{
		{"force", "", []string{"--force"}, true, "Payment deleted"},
		{"confirmed", "y\n", nil, true, "Payment deleted"},
		{"confirmed yes", "YES\n", nil, true, "Payment deleted"},
		{"declined", "n\n", nil, false, "Cancelled"},
		{"no input", "", nil, false, "Cancelled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.login()
			p := env.api.SeedPayment(domain.Payment{Payer: "Ann", Amount: 100, Date: "2024-01-15"})

			args := append([]string{"payments", "delete"}, tt.args...)
			r := env.run(tt.stdin, append(args, p.Key())...)
			if r.err != nil {
				t.Fatalf("delete: %v", r.err)
			}
			assertContains(t, r.stderr, tt.wantStderr)

			r = env.run("", "-o", "json", "payments")
			var page service.PaymentsPage
			if err := json.Unmarshal([]byte(r.stdout), &page); err != nil {
				t.Fatalf("decode: %v\n%s", err, r.stdout)
			}
			if deleted := len(page.Payments) == 0; deleted != tt.wantDeleted {
				t.Errorf("deleted = %v, want %v", deleted, tt.wantDeleted)
			}
		})
	}
}

func TestPayments_Monthly(t *testing.T) {
	env := newTestEnv(t)
	env.login()
	env.api.SeedPayment(domain.Payment{Payer: "Ann", Amount: 100, Date: "2024-01-15"})
	env.api.SeedPayment(domain.Payment{Payer: "Bob", Amount: 50, Date: "2024-01-20"})
	env.api.SeedPayment(domain.Payment{Payer: "Cy", Amount: 75, Date: "2024-02-01"})

	r := env.run("", "payments", "monthly")
	if r.err != nil {
		t.Fatalf("monthly: %v", r.err)
	}
	assertContains(t, r.stdout, "MONTH", "2024-01", "$150", "2024-02", "$75")
}

func TestDebts_ListAndBreakdown(t *testing.T) {
	env := newTestEnv(t)
	env.login()
	env.api.SeedDebt(domain.Debt{Amount: 1500, Category: domain.CategoryOffices, Status: domain.StatusPending, Date: "2024-01-10"})
	env.api.SeedDebt(domain.Debt{Amount: 200, Category: domain.CategoryRestaurants, Status: domain.StatusSettled})

	r := env.run("", "debts")
	if r.err != nil {
		t.Fatalf("debts: %v", r.err)
	}
	assertContains(t, r.stdout, "Pending:", "$1,500", "Settled:", "$200", "Offices", "pending", "1/10/2024")

	r = env.run("", "debts", "breakdown")
	if r.err != nil {
		t.Fatalf("breakdown: %v", r.err)
	}
	assertContains(t, r.stdout, "CATEGORY", "Offices", "$1,500", "Restaurants", "$200")
}

func TestDebts_CreateAndSettle(t *testing.T) {
	env := newTestEnv(t)
	env.login()

	r := env.run("", "-o", "json", "debts", "create", "--amount", "80", "--category", "Other")
	if r.err != nil {
		t.Fatalf("create: %v", r.err)
	}
	var d domain.Debt
	if err := json.Unmarshal([]byte(r.stdout), &d); err != nil {
		t.Fatalf("decode: %v\n%s", err, r.stdout)
	}
	if d.Status != domain.StatusPending {
		t.Errorf("default status = %q", d.Status)
	}

	r = env.run("", "debts", "settle", d.Key())
	if r.err != nil {
		t.Fatalf("settle: %v", r.err)
	}
	assertContains(t, r.stderr, "Debt updated")

	r = env.run("", "-o", "json", "debts", "summary")
	if r.err != nil {
		t.Fatalf("summary: %v", r.err)
	}
	var sum domain.DebtSummary
	if err := json.Unmarshal([]byte(r.stdout), &sum); err != nil {
		t.Fatalf("decode: %v\n%s", err, r.stdout)
	}
	if sum.Pending != 0 || sum.Settled != 80 {
		t.Errorf("summary = %+v", sum)
	}
}

func TestDebts_CreateValidation(t *testing.T) {
	env := newTestEnv(t)
	env.login()

	r := env.run("", "debts", "create", "--amount", "80", "--category", "Groceries")
	if r.err == nil || !strings.Contains(r.err.Error(), "Category must be one of") {
		t.Errorf("err = %v", r.err)
	}

	r = env.run("", "debts", "create", "--amount", "80", "--category", "Other", "--status", "late")
	if r.err == nil || !strings.Contains(r.err.Error(), "Status must be one of") {
		t.Errorf("err = %v", r.err)
	}
}

func TestProperties_ListAndStats(t *testing.T) {
	env := newTestEnv(t)
	env.login()
	env.api.SeedProperty(domain.Property{
		Name: "Elm Court", Type: "Apartment", Address: "1 Elm St",
		Units: []domain.Unit{
			{Number: "101", Tenant: "Ann", MonthlyRent: 1200, IsRented: true},
			{Number: "102", MonthlyRent: 1000},
		},
	})

	r := env.run("", "properties")
	if r.err != nil {
		t.Fatalf("properties: %v", r.err)
	}
	assertContains(t, r.stdout,
		"Rented Units:", "Vacant Units:",
		"Monthly Income:", "$1,200",
		"Portfolio Value:", "$26,400",
		"Elm Court", "Apartment",
	)

	r = env.run("", "-o", "json", "properties", "stats")
	if r.err != nil {
		t.Fatalf("stats: %v", r.err)
	}
	var stats struct {
		Occupancy domain.Occupancy `json:"occupancy"`
	}
	if err := json.Unmarshal([]byte(r.stdout), &stats); err != nil {
		t.Fatalf("decode: %v\n%s", err, r.stdout)
	}
	if stats.Occupancy != (domain.Occupancy{Rented: 1, Vacant: 1}) {
		t.Errorf("occupancy = %+v", stats.Occupancy)
	}
}

func TestProperties_CreateWithUnits(t *testing.T) {
	env := newTestEnv(t)
	env.login()

	r := env.run("", "-o", "json", "properties", "create",
		"--name", "Oak House", "--type", "Office", "--address", "2 Oak Rd",
		"--unit", "number=A,rent=900,rented=true,tenant=Acme",
		"--unit", "number=B,rent=700",
	)
	if r.err != nil {
		t.Fatalf("create: %v", r.err)
	}
	assertContains(t, r.stderr, "Property created")

	var p domain.Property
	if err := json.Unmarshal([]byte(r.stdout), &p); err != nil {
		t.Fatalf("decode: %v\n%s", err, r.stdout)
	}
	if p.Key() == "" {
		t.Error("created property has no id")
	}
	if len(p.Units) != 2 || p.RentedCount() != 1 || p.MonthlyIncome() != 900 {
		t.Errorf("units = %+v", p.Units)
	}

	r = env.run("", "properties", "get", p.Key())
	if r.err != nil {
		t.Fatalf("get: %v", r.err)
	}
	assertContains(t, r.stdout, "Oak House", "UNIT", "Acme", "$700")
}

func TestParseUnit(t *testing.T) {
	tests := []struct {
		in      string
		want    domain.Unit
		wantErr string
	}{
		{
			in:   "number=101,tenant=Ann,rent=1200,rented=true",
			want: domain.Unit{Number: "101", Tenant: "Ann", MonthlyRent: 1200, IsRented: true},
		},
		{
			in:   " number = 2B , rent = 0 ",
			want: domain.Unit{Number: "2B"},
		},
		{in: "tenant=Ann", wantErr: "number is required"},
		{in: "number=1,rent=cheap", wantErr: "is not a number"},
		{in: "number=1,rented=maybe", wantErr: "rented must be true or false"},
		{in: "number=1,floor=2", wantErr: "unknown key"},
		{in: "number", wantErr: "expected key=value"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseUnit(tt.in)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("err = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseUnit: %v", err)
			}
			if got != tt.want {
				t.Errorf("parseUnit() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDashboard(t *testing.T) {
	env := newTestEnv(t)
	env.login()
	env.api.SeedPayment(domain.Payment{Payer: "Ann", Amount: 1000, Date: "2024-01-15"})
	env.api.SeedDebt(domain.Debt{Amount: 400, Category: domain.CategoryOther, Status: domain.StatusPending})

	r := env.run("", "dashboard")
	if r.err != nil {
		t.Fatalf("dashboard: %v", r.err)
	}
	assertContains(t, r.stdout,
		"Total Payments:", "$1,000",
		"Outstanding Debt:", "$400",
		"Net Position:", "$600",
		"Monthly Inflows", "2024-01",
	)
}

func TestUnexpectedResponse(t *testing.T) {
	env := newTestEnv(t)
	env.login()
	env.api.Malform("/api/payments/summary")

	r := env.run("", "payments", "summary")
	if r.err == nil || !strings.HasPrefix(r.err.Error(), "unexpected response from server") {
		t.Errorf("err = %v", r.err)
	}
}

func TestCapitalize(t *testing.T) {
	tests := map[string]string{
		"":         "",
		"payment":  "Payment",
		"Debt":     "Debt",
		"3d model": "3d model",
		"éclair":   "Éclair",
	}
	for in, want := range tests {
		if got := capitalize(in); got != want {
			t.Errorf("capitalize(%q) = %q, want %q", in, got, want)
		}
	}
}
