package command

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yndnr/rentdesk-go/internal/infra/buildinfo"
)

func TestConfig_PathAndInit(t *testing.T) {
	env := newTestEnv(t)
	want := filepath.Join(env.home, ".rentdesk", "config.yaml")

	r := env.run("", "config", "path")
	if r.err != nil {
		t.Fatalf("config path: %v", r.err)
	}
	if got := strings.TrimSpace(r.stdout); got != want {
		t.Errorf("config path = %q, want %q", got, want)
	}

	if r = env.run("", "config", "init"); r.err != nil {
		t.Fatalf("config init: %v", r.err)
	}
	assertContains(t, r.stderr, "Wrote "+want)

	r = env.run("", "config", "init")
	if r.err == nil || !strings.Contains(r.err.Error(), "already exists") {
		t.Errorf("second init err = %v", r.err)
	}

	if r = env.run("", "config", "init", "--force"); r.err != nil {
		t.Errorf("init --force: %v", r.err)
	}
}

func TestConfig_Show(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv("RENTDESK_SESSION_SECRET", "supersecret")

	r := env.run("", "config", "show")
	if r.err != nil {
		t.Fatalf("config show: %v", r.err)
	}
	assertContains(t, r.stdout, "url: "+env.api.URL, "timeout: 30s", "store: file", "su*******et")
	if strings.Contains(r.stdout, "supersecret") {
		t.Error("secret printed unmasked")
	}
}

func TestConfig_Validate(t *testing.T) {
	env := newTestEnv(t)

	if r := env.run("", "config", "validate"); r.err != nil {
		t.Fatalf("validate: %v", r.err)
	}

	t.Setenv("RENTDESK_SESSION_STORE", "cloud")
	r := env.run("", "config", "validate")
	if r.err == nil || !strings.Contains(r.err.Error(), "session.store") {
		t.Errorf("err = %v", r.err)
	}
}

func TestConfig_DoesNotTouchAPI(t *testing.T) {
	env := newTestEnv(t)

	env.run("", "config", "show")
	env.run("", "version")
	if reqs := env.api.Requests(); len(reqs) != 0 {
		t.Errorf("offline commands sent %d requests", len(reqs))
	}
}

func TestVersion(t *testing.T) {
	env := newTestEnv(t)

	r := env.run("", "-o", "json", "version")
	if r.err != nil {
		t.Fatalf("version: %v", r.err)
	}
	var info buildinfo.Info
	if err := json.Unmarshal([]byte(r.stdout), &info); err != nil {
		t.Fatalf("decode: %v\n%s", err, r.stdout)
	}
	if info.Version != buildinfo.Version {
		t.Errorf("version = %q, want %q", info.Version, buildinfo.Version)
	}
}
