package repl

import (
	"sort"
	"strings"

	"github.com/urfave/cli/v2"
)

// builtins are handled by the REPL itself.
var builtins = []string{"exit", "quit", "history"}

// Completer suggests commands for a typed prefix.
type Completer struct {
	commands []string
	names    map[string]bool // first words accepted by Known
}

// NewCompleter creates a Completer over the given command lines plus the
// shell built-ins.
func NewCompleter(commands ...string) *Completer {
	all := append(append([]string{}, commands...), builtins...)
	sort.Strings(all)

	names := make(map[string]bool, len(all))
	for _, cmd := range all {
		first, _, _ := strings.Cut(cmd, " ")
		names[first] = true
	}
	return &Completer{commands: all, names: names}
}

// FromCommands builds a Completer from a urfave/cli command tree. Every
// command and subcommand path is offered; top-level aliases are accepted
// by Known but never offered.
func FromCommands(cmds []*cli.Command) *Completer {
	var lines []string
	var walk func(prefix string, cmds []*cli.Command)
	walk = func(prefix string, cmds []*cli.Command) {
		for _, cmd := range cmds {
			if cmd.Hidden {
				continue
			}
			line := strings.TrimSpace(prefix + " " + cmd.Name)
			lines = append(lines, line)
			walk(line, cmd.Subcommands)
		}
	}
	walk("", cmds)

	c := NewCompleter(lines...)
	for _, cmd := range cmds {
		if cmd.Hidden {
			continue
		}
		for _, alias := range cmd.Aliases {
			c.names[alias] = true
		}
	}
	return c
}

// Complete returns the command lines starting with prefix, in order.
func (c *Completer) Complete(prefix string) []string {
	prefix = strings.Join(strings.Fields(prefix), " ")
	var suggestions []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, prefix) {
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}

// Known reports whether args start with a known command word.
func (c *Completer) Known(args []string) bool {
	return len(args) > 0 && c.names[args[0]]
}

// Suggest returns the top-level commands sharing the first letter of word.
func (c *Completer) Suggest(word string) []string {
	if word == "" {
		return nil
	}
	var out []string
	for _, cmd := range c.commands {
		if !strings.Contains(cmd, " ") && cmd[0] == word[0] {
			out = append(out, cmd)
		}
	}
	return out
}
