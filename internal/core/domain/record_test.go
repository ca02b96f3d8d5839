package domain

import (
	"encoding/json"
	"math"
	"testing"
)

func TestAmount_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Amount
		wantErr bool
	}{
		{"number", `125.5`, 125.5, false},
		{"integer", `100`, 100, false},
		{"numeric string", `"75"`, 75, false},
		{"empty string", `""`, 0, false},
		{"null", `null`, 0, false},
		{"word", `"abc"`, 0, true},
		{"object", `{}`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a Amount
			err := json.Unmarshal([]byte(tt.input), &a)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal(%s) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && a != tt.want {
				t.Errorf("Unmarshal(%s) = %v, want %v", tt.input, a, tt.want)
			}
		})
	}
}

func TestAmount_IsFinite(t *testing.T) {
	if !Amount(10).IsFinite() {
		t.Error("10 should be finite")
	}
	if Amount(math.NaN()).IsFinite() {
		t.Error("NaN should not be finite")
	}
	if Amount(math.Inf(1)).IsFinite() {
		t.Error("+Inf should not be finite")
	}
}

func TestRecordID_Key(t *testing.T) {
	var p Payment
	if err := json.Unmarshal([]byte(`{"_id":"abc123","payer":"Ann","amount":10}`), &p); err != nil {
		t.Fatalf("Unmarshal error = %v", err)
	}
	if p.Key() != "abc123" {
		t.Errorf("Key() = %q, want %q", p.Key(), "abc123")
	}

	p.ID = "p-1"
	if p.Key() != "p-1" {
		t.Errorf("Key() = %q, want id to take precedence", p.Key())
	}
}

func TestPayment_MissingAmountDecodesAsZero(t *testing.T) {
	var payments []Payment
	data := `[{"id":"1","payer":"Ann"},{"id":"2","payer":"Bob","amount":null}]`
	if err := json.Unmarshal([]byte(data), &payments); err != nil {
		t.Fatalf("Unmarshal error = %v", err)
	}
	for _, p := range payments {
		if p.Amount != 0 {
			t.Errorf("payment %s amount = %v, want 0", p.Key(), p.Amount)
		}
	}
}

func TestProperty_Counts(t *testing.T) {
	p := Property{
		Name: "Elm Court",
		Units: []Unit{
			{Number: "101", MonthlyRent: 1200, IsRented: true},
			{Number: "102", MonthlyRent: 950, IsRented: false},
			{Number: "103", MonthlyRent: 800, IsRented: true},
		},
	}

	if got := p.RentedCount(); got != 2 {
		t.Errorf("RentedCount() = %d, want 2", got)
	}
	if got := p.VacantCount(); got != 1 {
		t.Errorf("VacantCount() = %d, want 1", got)
	}
	if got := p.MonthlyIncome(); got != 2000 {
		t.Errorf("MonthlyIncome() = %v, want 2000", got)
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"2024-01-15", "2024-01-15T00:00:00Z", false},
		{"2024-01-15T10:30:00Z", "2024-01-15T10:30:00Z", false},
		{"2024-01-15T10:30:00+02:00", "2024-01-15T08:30:00Z", false},
		{"", "", false},
		{"15/01/2024", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := NormalizeDate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizeDate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("NormalizeDate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestUser(t *testing.T) {
	u := User{Email: "admin@example.com", Role: "Admin"}
	if u.DisplayName() != "admin@example.com" {
		t.Errorf("DisplayName() = %q", u.DisplayName())
	}
	if !u.IsPrivileged() {
		t.Error("role admin should be privileged")
	}
	if (User{Name: "Ann"}).IsPrivileged() {
		t.Error("plain user should not be privileged")
	}
}

func TestSession_LooksValid(t *testing.T) {
	tests := []struct {
		name string
		s    *Session
		want bool
	}{
		{"nil", nil, false},
		{"empty token", &Session{Token: " ", User: &User{}}, false},
		{"missing user", &Session{Token: "abc"}, false},
		{"valid", &Session{Token: "abc", User: &User{Email: "a@b.co"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.LooksValid(); got != tt.want {
				t.Errorf("LooksValid() = %v, want %v", got, tt.want)
			}
		})
	}
}
