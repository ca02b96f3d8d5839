package repl

import (
	"reflect"
	"testing"

	"github.com/urfave/cli/v2"
)

func testCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:    "payments",
			Aliases: []string{"pay"},
			Subcommands: []*cli.Command{
				{Name: "list"},
				{Name: "summary"},
			},
		},
		{Name: "debts", Subcommands: []*cli.Command{{Name: "breakdown"}}},
		{Name: "dashboard"},
		{Name: "internal", Hidden: true},
	}
}

func TestFromCommands(t *testing.T) {
	c := FromCommands(testCommands())

	want := []string{
		"dashboard", "debts", "debts breakdown", "exit", "history",
		"payments", "payments list", "payments summary", "quit",
	}
	if !reflect.DeepEqual(c.commands, want) {
		t.Errorf("commands = %q, want %q", c.commands, want)
	}
}

func TestCompleter_Complete(t *testing.T) {
	c := FromCommands(testCommands())

	tests := []struct {
		prefix string
		want   []string
	}{
		{"payments", []string{"payments", "payments list", "payments summary"}},
		{"payments  l", []string{"payments list"}},
		{"d", []string{"dashboard", "debts", "debts breakdown"}},
		{"ex", []string{"exit"}},
		{"zzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			if got := c.Complete(tt.prefix); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Complete(%q) = %q, want %q", tt.prefix, got, tt.want)
			}
		})
	}
}

func TestCompleter_Known(t *testing.T) {
	c := FromCommands(testCommands())

	tests := []struct {
		args []string
		want bool
	}{
		{[]string{"payments", "list"}, true},
		{[]string{"debts", "anything"}, true},
		{[]string{"pay"}, true},
		{[]string{"pa"}, false},
		{[]string{"internal"}, false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := c.Known(tt.args); got != tt.want {
			t.Errorf("Known(%q) = %v, want %v", tt.args, got, tt.want)
		}
	}
}

func TestCompleter_Suggest(t *testing.T) {
	c := FromCommands(testCommands())

	if got := c.Suggest("dash"); !reflect.DeepEqual(got, []string{"dashboard", "debts"}) {
		t.Errorf("Suggest(dash) = %q", got)
	}
	if got := c.Suggest(""); got != nil {
		t.Errorf("Suggest(\"\") = %q", got)
	}
}
