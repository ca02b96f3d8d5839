package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/rentdesk-go/internal/cli/output"
	"github.com/yndnr/rentdesk-go/internal/core/domain"
)

// PaymentsCommand returns the payments subcommand group.
func PaymentsCommand() *cli.Command {
	return &cli.Command{
		Name:    "payments",
		Aliases: []string{"pay"},
		Usage:   "Incoming payments",
		Before:  guarded("/payments"),
		Action:  action(paymentList),
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List payments with the total paid",
				Action: action(paymentList),
			},
			{
				Name:      "get",
				Usage:     "Show one payment",
				ArgsUsage: "PAYMENT_ID",
				Action:    action(paymentGet),
			},
			{
				Name:   "create",
				Usage:  "Record a payment",
				Flags:  paymentFlags(),
				Action: action(paymentCreate),
			},
			{
				Name:      "update",
				Usage:     "Change a payment",
				ArgsUsage: "PAYMENT_ID",
				Flags:     paymentFlags(),
				Action:    action(paymentUpdate),
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete a payment",
				ArgsUsage: "PAYMENT_ID",
				Flags:     []cli.Flag{forceFlag()},
				Action:    action(paymentDelete),
			},
			{
				Name:   "summary",
				Usage:  "Show the total paid",
				Action: action(paymentSummary),
			},
			{
				Name:   "monthly",
				Usage:  "Show payment inflows per month",
				Action: action(paymentMonthly),
			},
		},
	}
}

func paymentFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "payer", Usage: "Who paid"},
		&cli.Float64Flag{Name: "amount", Aliases: []string{"a"}, Usage: "Amount in dollars"},
		&cli.StringFlag{Name: "date", Aliases: []string{"d"}, Usage: "Payment date (YYYY-MM-DD or RFC3339)"},
		&cli.StringFlag{Name: "description", Usage: "Free-form note"},
	}
}

func forceFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "force",
		Aliases: []string{"f"},
		Usage:   "Skip confirmation",
	}
}

func paymentList(c *cli.Context, rt *Runtime) error {
	page, err := load(c, "Loading payments", rt.Pages.LoadPayments)
	if err != nil {
		return err
	}

	return show(c, rt, view{
		cards: output.Cards{
			output.Money("Total Paid", page.Summary.TotalPaid.Float()),
			output.Count("Payments", len(page.Payments)),
		},
		table: paymentTable(page.Payments, c.Bool("wide")),
		empty: "No payments found.",
		data:  page,
	})
}

func paymentTable(payments []domain.Payment, wide bool) *output.Table {
	t := output.NewTable("ID", "PAYER", "AMOUNT", "DATE")
	if wide {
		t.Headers = append(t.Headers, "DESCRIPTION")
	}
	for _, p := range payments {
		row := []string{p.Key(), p.Payer, output.FormatCurrency(p.Amount.Float()), output.FormatDate(p.Date)}
		if wide {
			row = append(row, p.Description)
		}
		t.AddRow(row...)
	}
	return t
}

func paymentGet(c *cli.Context, rt *Runtime) error {
	id, err := recordID(c, "payment")
	if err != nil {
		return err
	}
	p, err := rt.Pages.Payments.Get(c.Context, id)
	if err != nil {
		return err
	}
	return showRecord(c, rt, p)
}

// applyPaymentFlags copies the flags that were given onto p.
func applyPaymentFlags(c *cli.Context, p *domain.Payment) {
	if c.IsSet("payer") {
		p.Payer = c.String("payer")
	}
	if c.IsSet("amount") {
		p.Amount = domain.Amount(c.Float64("amount"))
	}
	if c.IsSet("date") {
		p.Date = c.String("date")
	}
	if c.IsSet("description") {
		p.Description = c.String("description")
	}
}

// preparePayment validates p and puts its date in the stored form.
func preparePayment(p *domain.Payment) error {
	if err := domain.ValidatePayment(*p); err != nil {
		return err
	}
	date, err := domain.NormalizeDate(p.Date)
	if err != nil {
		return err
	}
	p.Date = date
	return nil
}

func paymentCreate(c *cli.Context, rt *Runtime) error {
	var p domain.Payment
	applyPaymentFlags(c, &p)
	if err := preparePayment(&p); err != nil {
		return err
	}

	created, err := rt.Pages.Payments.Create(c.Context, p)
	if err != nil {
		return err
	}
	notify(c, "Payment created")
	return showRecord(c, rt, created)
}

func paymentUpdate(c *cli.Context, rt *Runtime) error {
	id, err := recordID(c, "payment")
	if err != nil {
		return err
	}
	p, err := rt.Pages.Payments.Get(c.Context, id)
	if err != nil {
		return err
	}

	applyPaymentFlags(c, &p)
	if err := preparePayment(&p); err != nil {
		return err
	}

	updated, err := rt.Pages.Payments.Update(c.Context, id, p)
	if err != nil {
		return err
	}
	notify(c, "Payment updated")
	return showRecord(c, rt, updated)
}

func paymentDelete(c *cli.Context, rt *Runtime) error {
	return deleteRecord(c, "payment", rt.Pages.Payments.Delete)
}

func paymentSummary(c *cli.Context, rt *Runtime) error {
	sum, err := load(c, "Loading summary", rt.Pages.Payments.Summary)
	if err != nil {
		return err
	}
	return show(c, rt, view{
		cards: output.Cards{output.Money("Total Paid", sum.TotalPaid.Float())},
		data:  sum,
	})
}

func paymentMonthly(c *cli.Context, rt *Runtime) error {
	payments, err := load(c, "Loading payments", rt.Pages.Payments.List)
	if err != nil {
		return err
	}
	monthly := domain.MonthlyTotals(payments)
	return show(c, rt, view{
		table: monthlyTable(monthly),
		empty: "No dated payments.",
		data:  monthly,
	})
}

func monthlyTable(totals []domain.PeriodTotal) *output.Table {
	t := output.NewTable("MONTH", "INFLOW")
	for _, m := range totals {
		t.AddRow(m.Period, output.FormatCurrency(m.Total.Float()))
	}
	return t
}
