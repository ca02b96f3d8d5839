package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/rentdesk-go/internal/cli/output"
	"github.com/yndnr/rentdesk-go/internal/core/domain"
)

// PropertiesCommand returns the properties subcommand group.
func PropertiesCommand() *cli.Command {
	return &cli.Command{
		Name:    "properties",
		Aliases: []string{"props"},
		Usage:   "Properties, units and occupancy",
		Before:  guarded("/properties"),
		Action:  action(propertyList),
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List properties with occupancy and income",
				Action: action(propertyList),
			},
			{
				Name:      "get",
				Usage:     "Show one property and its units",
				ArgsUsage: "PROPERTY_ID",
				Action:    action(propertyGet),
			},
			{
				Name:   "create",
				Usage:  "Add a property",
				Flags:  propertyFlags(),
				Action: action(propertyCreate),
			},
			{
				Name:      "update",
				Usage:     "Change a property; --unit replaces all units",
				ArgsUsage: "PROPERTY_ID",
				Flags:     propertyFlags(),
				Action:    action(propertyUpdate),
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete a property",
				ArgsUsage: "PROPERTY_ID",
				Flags:     []cli.Flag{forceFlag()},
				Action:    action(propertyDelete),
			},
			{
				Name:   "stats",
				Usage:  "Show occupancy, monthly income and portfolio value",
				Action: action(propertyStats),
			},
		},
	}
}

func propertyFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "name", Usage: "Property name"},
		&cli.StringFlag{Name: "type", Usage: "Property type (e.g., Apartment, Office)"},
		&cli.StringFlag{Name: "address", Usage: "Street address"},
		&cli.StringSliceFlag{
			Name:  "unit",
			Usage: `Unit as "number=101,tenant=Ann,rent=1200,rented=true" (repeatable)`,
		},
	}
}

// parseUnit reads one --unit value. Keys are number, tenant, rent and
// rented; number is required.
func parseUnit(s string) (domain.Unit, error) {
	var u domain.Unit
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			return u, fmt.Errorf("unit %q: expected key=value, got %q", s, part)
		}
		value = strings.TrimSpace(value)

		switch strings.ToLower(strings.TrimSpace(key)) {
		case "number", "no":
			u.Number = value
		case "tenant":
			u.Tenant = value
		case "rent", "monthlyrent":
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return u, fmt.Errorf("unit %q: rent %q is not a number", s, value)
			}
			u.MonthlyRent = domain.Amount(f)
		case "rented", "isrented":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return u, fmt.Errorf("unit %q: rented must be true or false", s)
			}
			u.IsRented = b
		default:
			return u, fmt.Errorf("unit %q: unknown key %q", s, key)
		}
	}
	if u.Number == "" {
		return u, fmt.Errorf("unit %q: number is required", s)
	}
	return u, nil
}

func applyPropertyFlags(c *cli.Context, p *domain.Property) error {
	if c.IsSet("name") {
		p.Name = c.String("name")
	}
	if c.IsSet("type") {
		p.Type = c.String("type")
	}
	if c.IsSet("address") {
		p.Address = c.String("address")
	}
	if c.IsSet("unit") {
		units := make([]domain.Unit, 0, len(c.StringSlice("unit")))
		for _, s := range c.StringSlice("unit") {
			u, err := parseUnit(s)
			if err != nil {
				return err
			}
			units = append(units, u)
		}
		p.Units = units
	}
	if p.Units == nil {
		p.Units = []domain.Unit{}
	}
	return nil
}

func propertyList(c *cli.Context, rt *Runtime) error {
	page, err := load(c, "Loading properties", rt.Pages.LoadProperties)
	if err != nil {
		return err
	}

	return show(c, rt, view{
		cards: occupancyCards(page.Occupancy, page.Income),
		table: propertyTable(page.Properties, c.Bool("wide")),
		empty: "No properties found.",
		data:  page,
	})
}

func occupancyCards(o domain.Occupancy, in domain.IncomePortfolio) output.Cards {
	return output.Cards{
		output.Count("Rented Units", o.Rented),
		output.Count("Vacant Units", o.Vacant),
		output.Money("Monthly Income", in.MonthlyIncome.Float()),
		output.Money("Portfolio Value", in.PortfolioValue.Float()),
	}
}

func propertyTable(props []domain.Property, wide bool) *output.Table {
	t := output.NewTable("ID", "NAME", "TYPE", "UNITS", "RENTED", "MONTHLY INCOME")
	if wide {
		t.Headers = append(t.Headers, "ADDRESS")
	}
	for _, p := range props {
		row := []string{
			p.Key(), p.Name, p.Type,
			strconv.Itoa(len(p.Units)),
			strconv.Itoa(p.RentedCount()),
			output.FormatCurrency(p.MonthlyIncome().Float()),
		}
		if wide {
			row = append(row, p.Address)
		}
		t.AddRow(row...)
	}
	return t
}

func unitTable(units []domain.Unit) *output.Table {
	t := output.NewTable("UNIT", "TENANT", "RENT", "RENTED")
	for _, u := range units {
		rented := "no"
		if u.IsRented {
			rented = "yes"
		}
		t.AddRow(u.Number, u.Tenant, output.FormatCurrency(u.MonthlyRent.Float()), rented)
	}
	return t
}

func propertyGet(c *cli.Context, rt *Runtime) error {
	id, err := recordID(c, "property")
	if err != nil {
		return err
	}
	p, err := rt.Pages.Properties.Get(c.Context, id)
	if err != nil {
		return err
	}

	return show(c, rt, view{
		cards: output.Cards{
			{Label: "Name", Value: p.Name},
			{Label: "Type", Value: p.Type},
			{Label: "Address", Value: p.Address},
			output.Count("Rented Units", p.RentedCount()),
			output.Count("Vacant Units", p.VacantCount()),
			output.Money("Monthly Income", p.MonthlyIncome().Float()),
		},
		table: unitTable(p.Units),
		empty: "No units.",
		data:  p,
	})
}

func propertyCreate(c *cli.Context, rt *Runtime) error {
	var p domain.Property
	if err := applyPropertyFlags(c, &p); err != nil {
		return err
	}
	if err := domain.ValidateProperty(p); err != nil {
		return err
	}

	created, err := rt.Pages.Properties.Create(c.Context, p)
	if err != nil {
		return err
	}
	notify(c, "Property created")
	return showRecord(c, rt, created)
}

func propertyUpdate(c *cli.Context, rt *Runtime) error {
	id, err := recordID(c, "property")
	if err != nil {
		return err
	}
	p, err := rt.Pages.Properties.Get(c.Context, id)
	if err != nil {
		return err
	}

	if err := applyPropertyFlags(c, &p); err != nil {
		return err
	}
	if err := domain.ValidateProperty(p); err != nil {
		return err
	}

	updated, err := rt.Pages.Properties.Update(c.Context, id, p)
	if err != nil {
		return err
	}
	notify(c, "Property updated")
	return showRecord(c, rt, updated)
}

func propertyDelete(c *cli.Context, rt *Runtime) error {
	return deleteRecord(c, "property", rt.Pages.Properties.Delete)
}

func propertyStats(c *cli.Context, rt *Runtime) error {
	page, err := load(c, "Loading properties", rt.Pages.LoadProperties)
	if err != nil {
		return err
	}
	return show(c, rt, view{
		cards: occupancyCards(page.Occupancy, page.Income),
		data: map[string]any{
			"occupancy": page.Occupancy,
			"income":    page.Income,
		},
	})
}
