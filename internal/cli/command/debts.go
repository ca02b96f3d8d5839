package command

import (
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/rentdesk-go/internal/cli/output"
	"github.com/yndnr/rentdesk-go/internal/core/domain"
)

// DebtsCommand returns the debts subcommand group.
func DebtsCommand() *cli.Command {
	return &cli.Command{
		Name:   "debts",
		Usage:  "Outstanding and settled debts",
		Before: guarded("/debts"),
		Action: action(debtList),
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List debts with pending and settled totals",
				Action: action(debtList),
			},
			{
				Name:      "get",
				Usage:     "Show one debt",
				ArgsUsage: "DEBT_ID",
				Action:    action(debtGet),
			},
			{
				Name:  "create",
				Usage: "Record a debt",
				Flags: append(debtFlags(),
					&cli.StringFlag{Name: "status", Usage: "pending or settled", Value: domain.StatusPending},
				),
				Action: action(debtCreate),
			},
			{
				Name:      "update",
				Usage:     "Change a debt",
				ArgsUsage: "DEBT_ID",
				Flags: append(debtFlags(),
					&cli.StringFlag{Name: "status", Usage: "pending or settled"},
				),
				Action: action(debtUpdate),
			},
			{
				Name:      "settle",
				Usage:     "Mark a debt as settled",
				ArgsUsage: "DEBT_ID",
				Action:    action(debtSettle),
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete a debt",
				ArgsUsage: "DEBT_ID",
				Flags:     []cli.Flag{forceFlag()},
				Action:    action(debtDelete),
			},
			{
				Name:   "summary",
				Usage:  "Show pending and settled totals",
				Action: action(debtSummary),
			},
			{
				Name:   "breakdown",
				Usage:  "Show totals per category",
				Action: action(debtBreakdown),
			},
		},
	}
}

func debtFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Float64Flag{Name: "amount", Aliases: []string{"a"}, Usage: "Amount in dollars"},
		&cli.StringFlag{Name: "date", Aliases: []string{"d"}, Usage: "Debt date (YYYY-MM-DD or RFC3339)"},
		&cli.StringFlag{
			Name:  "category",
			Usage: strings.Join(domain.DebtCategories, ", "),
		},
		&cli.StringFlag{Name: "description", Usage: "Free-form note"},
	}
}

func debtList(c *cli.Context, rt *Runtime) error {
	page, err := load(c, "Loading debts", rt.Pages.LoadDebts)
	if err != nil {
		return err
	}

	return show(c, rt, view{
		cards: output.Cards{
			output.Money("Pending", page.Summary.Pending.Float()),
			output.Money("Settled", page.Summary.Settled.Float()),
		},
		table: debtTable(page.Debts, c.Bool("wide")),
		empty: "No debts found.",
		data:  page,
	})
}

func debtTable(debts []domain.Debt, wide bool) *output.Table {
	t := output.NewTable("ID", "CATEGORY", "AMOUNT", "DATE", "STATUS")
	if wide {
		t.Headers = append(t.Headers, "DESCRIPTION")
	}
	for _, d := range debts {
		row := []string{d.Key(), d.Category, output.FormatCurrency(d.Amount.Float()),
			output.FormatDate(d.Date), d.Status}
		if wide {
			row = append(row, d.Description)
		}
		t.AddRow(row...)
	}
	return t
}

func debtGet(c *cli.Context, rt *Runtime) error {
	id, err := recordID(c, "debt")
	if err != nil {
		return err
	}
	d, err := rt.Pages.Debts.Get(c.Context, id)
	if err != nil {
		return err
	}
	return showRecord(c, rt, d)
}

func applyDebtFlags(c *cli.Context, d *domain.Debt) {
	if c.IsSet("amount") {
		d.Amount = domain.Amount(c.Float64("amount"))
	}
	if c.IsSet("date") {
		d.Date = c.String("date")
	}
	if c.IsSet("category") {
		d.Category = c.String("category")
	}
	if c.IsSet("status") || d.Status == "" {
		d.Status = c.String("status")
	}
	if c.IsSet("description") {
		d.Description = c.String("description")
	}
}

func prepareDebt(d *domain.Debt) error {
	if err := domain.ValidateDebt(*d); err != nil {
		return err
	}
	date, err := domain.NormalizeDate(d.Date)
	if err != nil {
		return err
	}
	d.Date = date
	return nil
}

func debtCreate(c *cli.Context, rt *Runtime) error {
	var d domain.Debt
	applyDebtFlags(c, &d)
	if err := prepareDebt(&d); err != nil {
		return err
	}

	created, err := rt.Pages.Debts.Create(c.Context, d)
	if err != nil {
		return err
	}
	notify(c, "Debt created")
	return showRecord(c, rt, created)
}

func debtUpdate(c *cli.Context, rt *Runtime) error {
	id, err := recordID(c, "debt")
	if err != nil {
		return err
	}
	d, err := rt.Pages.Debts.Get(c.Context, id)
	if err != nil {
		return err
	}

	applyDebtFlags(c, &d)
	if err := prepareDebt(&d); err != nil {
		return err
	}

	updated, err := rt.Pages.Debts.Update(c.Context, id, d)
	if err != nil {
		return err
	}
	notify(c, "Debt updated")
	return showRecord(c, rt, updated)
}

func debtSettle(c *cli.Context, rt *Runtime) error {
	id, err := recordID(c, "debt")
	if err != nil {
		return err
	}
	d, err := rt.Pages.Debts.Get(c.Context, id)
	if err != nil {
		return err
	}
	if d.Status == domain.StatusSettled {
		notify(c, "Debt already settled")
		return nil
	}

	d.Status = domain.StatusSettled
	if err := prepareDebt(&d); err != nil {
		return err
	}
	if _, err := rt.Pages.Debts.Update(c.Context, id, d); err != nil {
		return err
	}
	notify(c, "Debt updated")
	return nil
}

func debtDelete(c *cli.Context, rt *Runtime) error {
	return deleteRecord(c, "debt", rt.Pages.Debts.Delete)
}

func debtSummary(c *cli.Context, rt *Runtime) error {
	sum, err := load(c, "Loading summary", rt.Pages.Debts.Summary)
	if err != nil {
		return err
	}
	return show(c, rt, view{
		cards: output.Cards{
			output.Money("Pending", sum.Pending.Float()),
			output.Money("Settled", sum.Settled.Float()),
		},
		data: sum,
	})
}

func debtBreakdown(c *cli.Context, rt *Runtime) error {
	rows, err := load(c, "Loading breakdown", rt.Pages.Debts.Breakdown)
	if err != nil {
		return err
	}

	t := output.NewTable("CATEGORY", "TOTAL")
	for _, r := range rows {
		t.AddRow(r.Category, output.FormatCurrency(r.TotalAmount.Float()))
	}
	return show(c, rt, view{
		table: t,
		empty: "No debts to break down.",
		data:  rows,
	})
}
