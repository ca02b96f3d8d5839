package apitest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/yndnr/rentdesk-go/internal/core/domain"
)

func do(t *testing.T, s *Server, method, path, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req, err := http.NewRequest(method, s.URL+path, &buf)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestServer_Login(t *testing.T) {
	s := New()
	defer s.Close()

	tests := []struct {
		name       string
		creds      domain.Credentials
		wantStatus int
	}{
		{"valid", domain.Credentials{Identifier: AdminEmail, Secret: AdminPassword}, http.StatusOK},
		{"wrong secret", domain.Credentials{Identifier: AdminEmail, Secret: "nope"}, http.StatusUnauthorized},
		{"unknown user", domain.Credentials{Identifier: "x@y.z", Secret: AdminPassword}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, s, http.MethodPost, "/api/auth/login", "", tt.creds)
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			var sess domain.Session
			json.NewDecoder(resp.Body).Decode(&sess)
			if !sess.LooksValid() || sess.User.Email != AdminEmail {
				t.Errorf("session = %+v", sess)
			}
		})
	}
}

func TestServer_RequiresBearer(t *testing.T) {
	s := New()
	defer s.Close()

	if resp := do(t, s, http.MethodGet, "/api/payments", "", nil); resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", resp.StatusCode)
	}
	if resp := do(t, s, http.MethodGet, "/api/payments", "forged", nil); resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("forged token: status = %d, want 401", resp.StatusCode)
	}

	token := s.IssueToken()
	if resp := do(t, s, http.MethodGet, "/api/payments", token, nil); resp.StatusCode != http.StatusOK {
		t.Errorf("valid token: status = %d, want 200", resp.StatusCode)
	}

	s.RevokeTokens()
	if resp := do(t, s, http.MethodGet, "/api/payments", token, nil); resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("revoked token: status = %d, want 401", resp.StatusCode)
	}
}

func TestServer_DebtCRUD(t *testing.T) {
	s := New()
	defer s.Close()
	token := s.IssueToken()

	resp := do(t, s, http.MethodPost, "/api/debts", token, domain.Debt{Amount: 300, Category: "Offices", Status: "pending"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	var created domain.Debt
	json.NewDecoder(resp.Body).Decode(&created)
	if created.ID == "" {
		t.Fatal("created debt has no id")
	}

	resp = do(t, s, http.MethodPut, "/api/debts/"+created.ID, token, domain.Debt{Amount: 300, Category: "Offices", Status: "settled"})
	var updated domain.Debt
	json.NewDecoder(resp.Body).Decode(&updated)
	if updated.Status != "settled" || updated.ID != created.ID {
		t.Errorf("updated = %+v", updated)
	}

	if resp := do(t, s, http.MethodDelete, "/api/debts/"+created.ID, token, nil); resp.StatusCode != http.StatusOK {
		t.Errorf("delete status = %d", resp.StatusCode)
	}
	resp = do(t, s, http.MethodDelete, "/api/debts/"+created.ID, token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", resp.StatusCode)
	}
	var msg map[string]string
	json.NewDecoder(resp.Body).Decode(&msg)
	if msg["message"] != "Debt not found" {
		t.Errorf("message = %q", msg["message"])
	}
}

func TestServer_PropertiesUseLegacyIDs(t *testing.T) {
	s := New()
	defer s.Close()

	p := s.SeedProperty(domain.Property{Name: "Oak", Type: "Residential", Address: "1 Oak St"})
	if p.LegacyID == "" || p.ID != "" {
		t.Errorf("seeded property ids = %q/%q", p.ID, p.LegacyID)
	}

	resp := do(t, s, http.MethodGet, "/api/properties/"+p.Key(), s.IssueToken(), nil)
	var raw map[string]any
	json.NewDecoder(resp.Body).Decode(&raw)
	if raw["_id"] != p.Key() {
		t.Errorf("_id = %v, want %q", raw["_id"], p.Key())
	}
	if _, ok := raw["units"].([]any); !ok {
		t.Errorf("units = %v, want an empty list", raw["units"])
	}
}

func TestServer_Aggregates(t *testing.T) {
	s := New()
	defer s.Close()
	token := s.IssueToken()

	s.SeedPayment(domain.Payment{Payer: "Ann", Amount: 1000, Date: "2024-01-05"})
	s.SeedPayment(domain.Payment{Payer: "Bob", Amount: 500, Date: "2024-02-05"})
	s.SeedDebt(domain.Debt{Amount: 200, Category: "Restaurants", Status: "pending"})
	s.SeedDebt(domain.Debt{Amount: 50, Category: "Offices", Status: "settled"})
	s.SeedProperty(domain.Property{Name: "Oak", Units: []domain.Unit{
		{Number: "1", MonthlyRent: 1000, IsRented: true},
		{Number: "2", MonthlyRent: 800},
	}})

	var overview domain.Overview
	json.NewDecoder(do(t, s, http.MethodGet, "/api/dashboard/overview", token, nil).Body).Decode(&overview)
	if overview.TotalPayments != 1500 || overview.OutstandingDebt != 200 || overview.NetPosition != 1300 {
		t.Errorf("overview = %+v", overview)
	}

	var summary domain.DebtSummary
	json.NewDecoder(do(t, s, http.MethodGet, "/api/debts/summary", token, nil).Body).Decode(&summary)
	if summary.Pending != 200 || summary.Settled != 50 {
		t.Errorf("debt summary = %+v", summary)
	}

	var breakdown []domain.CategoryTotal
	json.NewDecoder(do(t, s, http.MethodGet, "/api/debts/breakdown", token, nil).Body).Decode(&breakdown)
	if len(breakdown) != 2 || breakdown[0].Category != "Offices" {
		t.Errorf("breakdown = %+v", breakdown)
	}

	var occ domain.Occupancy
	json.NewDecoder(do(t, s, http.MethodGet, "/api/properties/rented-vacant", token, nil).Body).Decode(&occ)
	if occ.Rented != 1 || occ.Vacant != 1 {
		t.Errorf("occupancy = %+v", occ)
	}

	var income domain.IncomePortfolio
	json.NewDecoder(do(t, s, http.MethodGet, "/api/properties/income-portfolio", token, nil).Body).Decode(&income)
	if income.MonthlyIncome != 1000 || income.PortfolioValue != 21600 {
		t.Errorf("income = %+v", income)
	}
}

func TestServer_Malform(t *testing.T) {
	s := New()
	defer s.Close()
	s.Malform("/api/payments/summary")

	resp := do(t, s, http.MethodGet, "/api/payments/summary", s.IssueToken(), nil)
	var v any
	if err := json.NewDecoder(resp.Body).Decode(&v); err == nil {
		t.Error("malformed body decoded cleanly")
	}
}

func TestServer_RecordsRequests(t *testing.T) {
	s := New()
	defer s.Close()
	token := s.IssueToken()

	do(t, s, http.MethodGet, "/api/debts", token, nil)

	last, ok := s.LastRequest()
	if !ok || last.Path != "/api/debts" || last.Authorization != "Bearer "+token {
		t.Errorf("LastRequest() = %+v", last)
	}
	if n := len(s.Requests()); n != 1 {
		t.Errorf("Requests() len = %d, want 1", n)
	}
}
