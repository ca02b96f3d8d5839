package command

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/urfave/cli/v2"
)

// recordID returns the single ID argument of a record command.
func recordID(c *cli.Context, kind string) (string, error) {
	if c.NArg() != 1 {
		return "", &messageError{msg: fmt.Sprintf("expected one %s id, got %d arguments", kind, c.NArg())}
	}
	return c.Args().First(), nil
}

// deleteRecord asks for confirmation unless --force is given, then calls
// del with the record id.
func deleteRecord(c *cli.Context, kind string, del func(ctx context.Context, id string) error) error {
	id, err := recordID(c, kind)
	if err != nil {
		return err
	}
	if !c.Bool("force") && !confirm(c, fmt.Sprintf("Are you sure you want to delete this %s (%s)?", kind, id)) {
		notify(c, "Cancelled")
		return nil
	}
	if err := del(c.Context, id); err != nil {
		return err
	}
	notify(c, "%s deleted", capitalize(kind))
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	_, n := utf8.DecodeRuneInString(s)
	return strings.ToUpper(s[:n]) + s[n:]
}
