package service

import (
	"context"

	"github.com/yndnr/rentdesk-go/internal/core/domain"
)

// Payments is the payments resource.
type Payments struct {
	Resource[domain.Payment]
}

// NewPayments returns the payments service.
func NewPayments(client Client) *Payments {
	return &Payments{Resource: newResource[domain.Payment](client, "/api/payments")}
}

// Summary returns the total paid across all payments.
func (p *Payments) Summary(ctx context.Context) (domain.PaymentSummary, error) {
	return getAggregate[domain.PaymentSummary](ctx, p.client, p.base+"/summary")
}

// Debts is the debts resource.
type Debts struct {
	Resource[domain.Debt]
}

// NewDebts returns the debts service.
func NewDebts(client Client) *Debts {
	return &Debts{Resource: newResource[domain.Debt](client, "/api/debts")}
}

// Summary returns pending and settled totals.
func (d *Debts) Summary(ctx context.Context) (domain.DebtSummary, error) {
	return getAggregate[domain.DebtSummary](ctx, d.client, d.base+"/summary")
}

// Breakdown returns totals per category.
func (d *Debts) Breakdown(ctx context.Context) ([]domain.CategoryTotal, error) {
	out, err := getAggregate[[]domain.CategoryTotal](ctx, d.client, d.base+"/breakdown")
	if err == nil && out == nil {
		out = []domain.CategoryTotal{}
	}
	return out, err
}

// Properties is the properties resource.
type Properties struct {
	Resource[domain.Property]
}

// NewProperties returns the properties service.
func NewProperties(client Client) *Properties {
	return &Properties{Resource: newResource[domain.Property](client, "/api/properties")}
}

// RentedVacant returns unit occupancy across the portfolio.
func (p *Properties) RentedVacant(ctx context.Context) (domain.Occupancy, error) {
	return getAggregate[domain.Occupancy](ctx, p.client, p.base+"/rented-vacant")
}

// IncomePortfolio returns monthly income and portfolio value.
func (p *Properties) IncomePortfolio(ctx context.Context) (domain.IncomePortfolio, error) {
	return getAggregate[domain.IncomePortfolio](ctx, p.client, p.base+"/income-portfolio")
}

// Dashboard serves the overview figures.
type Dashboard struct {
	client Client
}

// NewDashboard returns the dashboard service.
func NewDashboard(client Client) *Dashboard {
	return &Dashboard{client: client}
}

// Overview returns total payments, outstanding debt and net position.
func (d *Dashboard) Overview(ctx context.Context) (domain.Overview, error) {
	return getAggregate[domain.Overview](ctx, d.client, "/api/dashboard/overview")
}
