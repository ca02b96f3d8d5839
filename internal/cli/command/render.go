package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/rentdesk-go/internal/cli/output"
)

// view is what a command shows: summary cards over a table for people,
// or data for json and yaml.
type view struct {
	cards output.Cards
	table *output.Table
	empty string // printed instead of an empty table
	data  any
}

// outputFormat returns the format for this invocation. A per-command
// --output wins over the configured default.
func outputFormat(c *cli.Context, rt *Runtime) (output.Format, error) {
	if c.IsSet("output") {
		return output.ParseFormat(c.String("output"))
	}
	return output.ParseFormat(rt.Config.Output.Format)
}

// show renders v in the selected format.
func show(c *cli.Context, rt *Runtime, v view) error {
	format, err := outputFormat(c, rt)
	if err != nil {
		return err
	}
	w := stdout(c)

	if format != output.FormatTable {
		data := v.data
		if data == nil {
			data = v.cards
		}
		return output.NewFormatter(format, c.Bool("wide")).Format(w, data)
	}

	if len(v.cards) > 0 {
		if err := v.cards.Render(w); err != nil {
			return err
		}
		if v.table != nil {
			fmt.Fprintln(w)
		}
	}
	if v.table == nil {
		return nil
	}
	if len(v.table.Rows) == 0 && v.empty != "" {
		fmt.Fprintln(w, v.empty)
		return nil
	}
	return v.table.Render(w)
}

// showRecord prints one record as FIELD/VALUE rows or as json/yaml.
func showRecord(c *cli.Context, rt *Runtime, record any) error {
	format, err := outputFormat(c, rt)
	if err != nil {
		return err
	}
	return output.NewFormatter(format, c.Bool("wide")).Format(stdout(c), record)
}

// load runs fn with a spinner on stderr when stderr is a terminal.
func load[T any](c *cli.Context, message string, fn func(ctx context.Context) (T, error)) (T, error) {
	sp := output.NewTerminalSpinner(c.App.ErrWriter, message)
	sp.Start()
	defer sp.Stop()
	return fn(c.Context)
}
