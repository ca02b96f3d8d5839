package domain

import (
	"net/mail"
	"slices"
	"strconv"
	"strings"
)

// MinPasswordLength is the shortest password the sign-in form accepts.
const MinPasswordLength = 6

// ValidateCredentials checks sign-in input before it is sent.
func ValidateCredentials(c Credentials) error {
	verr := &ValidationError{}

	email := strings.TrimSpace(c.Identifier)
	switch {
	case email == "":
		verr.add("email", "Email is required")
	case !isEmail(email):
		verr.add("email", "Invalid email")
	}

	switch {
	case c.Secret == "":
		verr.add("password", "Password is required")
	case len(c.Secret) < MinPasswordLength:
		verr.add("password", "Min 6 characters")
	}

	return verr.orNil()
}

// ValidatePayment checks a payment before create or update.
func ValidatePayment(p Payment) error {
	verr := &ValidationError{}

	if p.Amount <= 0 || !p.Amount.IsFinite() {
		verr.add("amount", "Must be positive")
	}
	if strings.TrimSpace(p.Date) == "" {
		verr.add("date", "Date is required")
	} else if _, err := ParseDate(p.Date); err != nil {
		verr.add("date", "Invalid date")
	}
	if strings.TrimSpace(p.Payer) == "" {
		verr.add("payer", "Payer is required")
	}

	return verr.orNil()
}

// ValidateDebt checks a debt before create or update.
func ValidateDebt(d Debt) error {
	verr := &ValidationError{}

	if d.Amount <= 0 || !d.Amount.IsFinite() {
		verr.add("amount", "Must be positive")
	}
	if strings.TrimSpace(d.Date) != "" {
		if _, err := ParseDate(d.Date); err != nil {
			verr.add("date", "Invalid date")
		}
	}
	switch {
	case d.Category == "":
		verr.add("category", "Category is required")
	case !slices.Contains(DebtCategories, d.Category):
		verr.add("category", "Category must be one of "+strings.Join(DebtCategories, ", "))
	}
	switch {
	case d.Status == "":
		verr.add("status", "Status is required")
	case !slices.Contains(DebtStatuses, d.Status):
		verr.add("status", "Status must be one of "+strings.Join(DebtStatuses, ", "))
	}

	return verr.orNil()
}

// ValidateProperty checks a property and its units before create or update.
// Unit failures are reported as units[i].field.
func ValidateProperty(p Property) error {
	verr := &ValidationError{}

	if strings.TrimSpace(p.Name) == "" {
		verr.add("name", "Name is required")
	}
	if strings.TrimSpace(p.Type) == "" {
		verr.add("type", "Type is required")
	}
	if strings.TrimSpace(p.Address) == "" {
		verr.add("address", "Address is required")
	}
	for i, u := range p.Units {
		prefix := "units[" + strconv.Itoa(i) + "]."
		if strings.TrimSpace(u.Number) == "" {
			verr.add(prefix+"number", "Unit number is required")
		}
		if u.MonthlyRent < 0 || !u.MonthlyRent.IsFinite() {
			verr.add(prefix+"monthlyRent", "Monthly rent must be zero or more")
		}
	}

	return verr.orNil()
}

func isEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	// Reject display-name forms such as "Ann <ann@example.com>".
	return addr.Address == s && strings.Contains(s[strings.LastIndex(s, "@")+1:], ".")
}
