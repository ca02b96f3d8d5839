package command

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/rentdesk-go/internal/cli/apitest"
)

// syncBuffer is a bytes.Buffer safe for the concurrent writes of page
// loaders and their loggers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// testEnv is a fake API plus an isolated home directory, so separate
// runs share the session file the way separate processes do.
type testEnv struct {
	t    *testing.T
	api  *apitest.Server
	home string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)

	api := apitest.New()
	t.Cleanup(api.Close)
	return &testEnv{t: t, api: api, home: home}
}

// result is the outcome of one CLI run.
type result struct {
	stdout string
	stderr string
	err    error
}

// run executes the CLI against the fake API with stdin as input.
func (e *testEnv) run(stdin string, args ...string) result {
	e.t.Helper()

	var out, errOut syncBuffer
	app := App()
	app.Reader = strings.NewReader(stdin)
	app.Writer = &out
	app.ErrWriter = &errOut
	app.ExitErrHandler = func(*cli.Context, error) {}

	argv := append([]string{"rentdesk-cli", "--api-url", e.api.URL}, args...)
	err := app.Run(argv)
	return result{stdout: out.String(), stderr: errOut.String(), err: err}
}

// login signs in the seeded account.
func (e *testEnv) login() {
	e.t.Helper()
	r := e.run("", "login", "--email", apitest.AdminEmail, "--password", apitest.AdminPassword)
	if r.err != nil {
		e.t.Fatalf("login: %v (stderr %q)", r.err, r.stderr)
	}
}

func assertContains(t *testing.T, got string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(got, w) {
			t.Errorf("output missing %q:\n%s", w, got)
		}
	}
}
