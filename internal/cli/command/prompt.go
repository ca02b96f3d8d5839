package command

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"
)

// readLine reads one line from the command's input. It reads a byte at a
// time so that nothing past the newline is consumed.
func readLine(c *cli.Context) (string, error) {
	var line strings.Builder
	buf := make([]byte, 1)
	for {
		n, err := c.App.Reader.Read(buf)
		if n > 0 {
			if buf[0] == '\n' {
				return strings.TrimRight(line.String(), "\r"), nil
			}
			line.WriteByte(buf[0])
		}
		if err != nil {
			if errors.Is(err, io.EOF) && line.Len() > 0 {
				return strings.TrimRight(line.String(), "\r"), nil
			}
			return "", err
		}
	}
}

// confirm asks a yes/no question on stderr. Only "y" or "yes" confirm.
func confirm(c *cli.Context, question string) bool {
	fmt.Fprintf(c.App.ErrWriter, "%s [y/N]: ", question)
	answer, err := readLine(c)
	if err != nil {
		fmt.Fprintln(c.App.ErrWriter)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

// prompt asks for a value on stderr.
func prompt(c *cli.Context, label string) (string, error) {
	fmt.Fprintf(c.App.ErrWriter, "%s: ", label)
	line, err := readLine(c)
	return strings.TrimSpace(line), err
}

// promptPassword asks for a secret without echo when stdin is a
// terminal, and reads a plain line otherwise.
func promptPassword(c *cli.Context, label string) (string, error) {
	fmt.Fprintf(c.App.ErrWriter, "%s: ", label)

	if f, ok := c.App.Reader.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(c.App.ErrWriter)
		return string(secret), err
	}
	return readLine(c)
}
