package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/yndnr/rentdesk-go/internal/core/domain"
)

// PaymentsPage is everything the payments view shows.
type PaymentsPage struct {
	Payments []domain.Payment     `json:"payments"`
	Summary  domain.PaymentSummary `json:"summary"`
}

// DebtsPage is everything the debts view shows.
type DebtsPage struct {
	Debts     []domain.Debt          `json:"debts"`
	Summary   domain.DebtSummary     `json:"summary"`
	Breakdown []domain.CategoryTotal `json:"breakdown"`
}

// PropertiesPage is everything the properties view shows.
type PropertiesPage struct {
	Properties []domain.Property     `json:"properties"`
	Occupancy  domain.Occupancy      `json:"occupancy"`
	Income     domain.IncomePortfolio `json:"income"`
}

// DashboardPage is the overview cards plus monthly inflows.
type DashboardPage struct {
	Overview domain.Overview      `json:"overview"`
	Monthly  []domain.PeriodTotal `json:"monthly"`
}

// Pages loads whole views. Each view's reads are independent and run in
// parallel; the first failure cancels the rest and fails the load.
type Pages struct {
	Payments   *Payments
	Debts      *Debts
	Properties *Properties
	Dashboard  *Dashboard
}

// NewPages returns page loaders over client.
func NewPages(client Client) *Pages {
	return &Pages{
		Payments:   NewPayments(client),
		Debts:      NewDebts(client),
		Properties: NewProperties(client),
		Dashboard:  NewDashboard(client),
	}
}

// LoadPayments fetches the payments list and summary.
func (p *Pages) LoadPayments(ctx context.Context) (*PaymentsPage, error) {
	page := &PaymentsPage{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		page.Payments, err = p.Payments.List(ctx)
		return err
	})
	g.Go(func() (err error) {
		page.Summary, err = p.Payments.Summary(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}
	return page, nil
}

// LoadDebts fetches the debts list, summary and category breakdown.
func (p *Pages) LoadDebts(ctx context.Context) (*DebtsPage, error) {
	page := &DebtsPage{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		page.Debts, err = p.Debts.List(ctx)
		return err
	})
	g.Go(func() (err error) {
		page.Summary, err = p.Debts.Summary(ctx)
		return err
	})
	g.Go(func() (err error) {
		page.Breakdown, err = p.Debts.Breakdown(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load debts: %w", err)
	}
	return page, nil
}

// LoadProperties fetches the properties list, occupancy and income.
func (p *Pages) LoadProperties(ctx context.Context) (*PropertiesPage, error) {
	page := &PropertiesPage{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		page.Properties, err = p.Properties.List(ctx)
		return err
	})
	g.Go(func() (err error) {
		page.Occupancy, err = p.Properties.RentedVacant(ctx)
		return err
	})
	g.Go(func() (err error) {
		page.Income, err = p.Properties.IncomePortfolio(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load properties: %w", err)
	}
	return page, nil
}

// LoadDashboard fetches the overview and aggregates payments by month.
func (p *Pages) LoadDashboard(ctx context.Context) (*DashboardPage, error) {
	page := &DashboardPage{}
	var payments []domain.Payment
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		page.Overview, err = p.Dashboard.Overview(ctx)
		return err
	})
	g.Go(func() (err error) {
		payments, err = p.Payments.List(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load dashboard: %w", err)
	}
	page.Monthly = domain.MonthlyTotals(payments)
	return page, nil
}
