package command

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/rentdesk-go/internal/cli/apitest"
	"github.com/yndnr/rentdesk-go/internal/cli/config"
	"github.com/yndnr/rentdesk-go/internal/core/domain"
)

func TestShell_ReturnsToViewAfterLogin(t *testing.T) {
	env := newTestEnv(t)
	env.api.SeedPayment(domain.Payment{Payer: "Ann", Amount: 1250, Date: "2024-01-15"})

	input := strings.Join([]string{
		"payments",
		"login -e " + apitest.AdminEmail + " -p " + apitest.AdminPassword,
		"exit",
	}, "\n") + "\n"

	r := env.run(input, "shell")
	if r.err != nil {
		t.Fatalf("shell: %v", r.err)
	}

	assertContains(t, r.stderr, "Not signed in.", "Signed in as Admin")
	assertContains(t, r.stdout, "error: sign in required")

	// The refused view renders once the login succeeds.
	i := strings.Index(r.stdout, "error: sign in required")
	after := r.stdout[i:]
	assertContains(t, after, "Total Paid:", "$1,250", "Ann")
}

func TestShell_DefaultViewAfterLogin(t *testing.T) {
	env := newTestEnv(t)

	input := "login -e " + apitest.AdminEmail + " -p " + apitest.AdminPassword + "\nexit\n"
	r := env.run(input, "shell")
	if r.err != nil {
		t.Fatalf("shell: %v", r.err)
	}
	assertContains(t, r.stdout, "Total Payments:", "Monthly Inflows")
}

func TestShell_KeepsSessionAcrossLines(t *testing.T) {
	env := newTestEnv(t)
	env.login()

	r := env.run("whoami\npayments summary\nquit\n", "shell")
	if r.err != nil {
		t.Fatalf("shell: %v", r.err)
	}
	assertContains(t, r.stderr, "Signed in as Admin.")
	assertContains(t, r.stdout, "admin@example.com", "Total Paid:")
	if strings.Contains(r.stdout, "error:") {
		t.Errorf("unexpected error in shell output:\n%s", r.stdout)
	}
}

func TestShell_UnknownCommand(t *testing.T) {
	env := newTestEnv(t)

	r := env.run("paymnts\nexit\n", "shell")
	if r.err != nil {
		t.Fatalf("shell: %v", r.err)
	}
	assertContains(t, r.stdout, `error: unknown command "paymnts"`, "did you mean:", "payments")
	if reqs := env.api.Requests(); len(reqs) != 0 {
		t.Errorf("unknown command sent %d requests", len(reqs))
	}
}

func TestShell_ConfirmReadsNextLine(t *testing.T) {
	env := newTestEnv(t)
	env.login()
	p := env.api.SeedPayment(domain.Payment{Payer: "Ann", Amount: 10, Date: "2024-01-15"})

	r := env.run("payments delete "+p.Key()+"\ny\nexit\n", "shell")
	if r.err != nil {
		t.Fatalf("shell: %v", r.err)
	}
	assertContains(t, r.stderr, "[y/N]", "Payment deleted")
	if strings.Contains(r.stdout, `unknown command "y"`) {
		t.Error("confirmation answer was read as a command")
	}
}

func TestShell_Nested(t *testing.T) {
	env := newTestEnv(t)

	r := env.run("shell\nexit\n", "shell")
	if r.err != nil {
		t.Fatalf("shell: %v", r.err)
	}
	assertContains(t, r.stdout, "error: already in the shell")
}

func TestServeMetrics(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := config.Default()
	cfg.Session.Store = config.StoreMemory
	rt, err := NewRuntime(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("NewRuntime: %v", err)
	}

	addr, err := serveMetrics(rt, "127.0.0.1:0")
	if err != nil {
		t.Fatalf("serveMetrics: %v", err)
	}
	rt.Metrics.ObserveRequest(http.MethodGet, "/api/payments", http.StatusOK, 5*time.Millisecond)

	resp, err := http.Get("http://" + addr + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), "rentdesk_client_requests_total") {
		t.Errorf("metrics body missing request counter:\n%s", body)
	}

	if err := rt.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := http.Get("http://" + addr + "/metrics"); err == nil {
		t.Error("metrics server still serving after Close")
	}
}
