package repl

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// recorder is an Executor that records each command line.
type recorder struct {
	calls [][]string
	err   error
}

func (r *recorder) exec(_ context.Context, args []string) error {
	r.calls = append(r.calls, args)
	return r.err
}

func newTestREPL(input string, rec *recorder, opts ...Option) (*REPL, *bytes.Buffer) {
	out := &bytes.Buffer{}
	opts = append([]Option{
		WithIO(strings.NewReader(input), out),
		WithCompleter(NewCompleter("payments", "payments list", "debts", "login")),
	}, opts...)
	return New(rec.exec, opts...), out
}

func TestREPL_Run_Exit(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"exit command", "exit\n"},
		{"quit command", "quit\n"},
		{"EOF", ""},
		{"EOF after command", "payments list"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestREPL(tt.input, &recorder{})
			if err := r.Run(context.Background()); err != nil {
				t.Errorf("Run() error = %v", err)
			}
		})
	}
}

func TestREPL_Run_Executes(t *testing.T) {
	rec := &recorder{}
	r, out := newTestREPL("\n\npayments list -o json\n# comment\nlogin --email 'a b@example.com'\nexit\npayments\n", rec)

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := [][]string{
		{"payments", "list", "-o", "json"},
		{"login", "--email", "a b@example.com"},
	}
	if !reflect.DeepEqual(rec.calls, want) {
		t.Errorf("calls = %q, want %q", rec.calls, want)
	}
	if n := strings.Count(out.String(), DefaultPrompt); n != 6 {
		t.Errorf("prompts = %d, want 6", n)
	}
}

func TestREPL_Run_ErrorsDoNotStop(t *testing.T) {
	rec := &recorder{err: errors.New("Payment not found")}
	r, out := newTestREPL("payments\ndebts\n", rec)

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(rec.calls) != 2 {
		t.Errorf("calls = %d, want 2", len(rec.calls))
	}
	if n := strings.Count(out.String(), "error: Payment not found"); n != 2 {
		t.Errorf("printed errors = %d, want 2\n%s", n, out.String())
	}
}

func TestREPL_Run_UnknownCommand(t *testing.T) {
	rec := &recorder{}
	r, out := newTestREPL("pay\nlist\n", rec)

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(rec.calls) != 0 {
		t.Errorf("unknown commands were executed: %q", rec.calls)
	}
	if !strings.Contains(out.String(), `unknown command "pay"`) {
		t.Errorf("output = %q", out.String())
	}
	if !strings.Contains(out.String(), "did you mean: payments") {
		t.Errorf("output should suggest payments: %q", out.String())
	}
}

func TestREPL_Run_BadQuoting(t *testing.T) {
	rec := &recorder{}
	r, out := newTestREPL("payments 'oops\n", rec)

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(rec.calls) != 0 {
		t.Error("badly quoted line should not execute")
	}
	if !strings.Contains(out.String(), "unterminated ' quote") {
		t.Errorf("output = %q", out.String())
	}
}

func TestREPL_Run_CanceledCommand(t *testing.T) {
	exec := func(ctx context.Context, _ []string) error {
		return context.Canceled
	}
	out := &bytes.Buffer{}
	r := New(exec,
		WithIO(strings.NewReader("payments\n"), out),
		WithCompleter(NewCompleter("payments")),
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// A canceled parent context ends the loop before reading.
	if err := r.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if strings.Contains(out.String(), DefaultPrompt) {
		t.Error("no prompt expected after cancellation")
	}
}

func TestREPL_Run_PersistsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")

	rec := &recorder{}
	r, _ := newTestREPL("payments\npayments\nhistory\n", rec, WithHistory(NewHistory(path)))
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := []string{"payments", "history"}
	if got := h.Entries(); !reflect.DeepEqual(got, want) {
		t.Errorf("history = %q, want %q", got, want)
	}
}

func TestREPL_Run_HistoryCommand(t *testing.T) {
	r, out := newTestREPL("debts\nhistory\n", &recorder{})
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "   1  debts\n   2  history\n") {
		t.Errorf("output = %q", out.String())
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		line    string
		want    []string
		wantErr bool
	}{
		{"payments list", []string{"payments", "list"}, false},
		{"  debts   get  d1 ", []string{"debts", "get", "d1"}, false},
		{`properties create --name "Main St Tower"`, []string{"properties", "create", "--name", "Main St Tower"}, false},
		{`payments create --description 'it''s'`, []string{"payments", "create", "--description", "its"}, false},
		{`login --password "p\"w\\d"`, []string{"login", "--password", `p"w\d`}, false},
		{`a\ b c`, []string{"a b", "c"}, false},
		{`x ""`, []string{"x", ""}, false},
		{`"unterminated`, nil, true},
		{`trailing\`, nil, true},
		{"   ", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := Split(tt.line)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Split() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Split() = %q, want %q", got, tt.want)
			}
		})
	}
}
