package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/rentdesk-go/internal/cli/output"
)

// DashboardCommand shows the overview figures and monthly inflows.
func DashboardCommand() *cli.Command {
	return &cli.Command{
		Name:    "dashboard",
		Aliases: []string{"dash"},
		Usage:   "Overview of payments, debt and monthly inflows",
		Before:  guarded("/dashboard"),
		Action:  action(dashboard),
	}
}

func dashboard(c *cli.Context, rt *Runtime) error {
	page, err := load(c, "Loading dashboard", rt.Pages.LoadDashboard)
	if err != nil {
		return err
	}

	ov := page.Overview
	if err := show(c, rt, view{
		cards: output.Cards{
			output.Money("Total Payments", ov.TotalPayments.Float()),
			output.Money("Outstanding Debt", ov.OutstandingDebt.Float()),
			output.Money("Net Position", ov.NetPosition.Float()),
		},
		data: page,
	}); err != nil {
		return err
	}

	format, err := outputFormat(c, rt)
	if err != nil || format != output.FormatTable {
		return err
	}

	w := stdout(c)
	fmt.Fprintln(w, "\nMonthly Inflows")
	if len(page.Monthly) == 0 {
		fmt.Fprintln(w, "No dated payments.")
		return nil
	}
	return monthlyTable(page.Monthly).Render(w)
}
