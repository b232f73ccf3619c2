package command

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/accessctl/internal/cli/output"
)

func TestApp(t *testing.T) {
	app := App()

	if app.Name != "accessctl" {
		t.Errorf("Name = %q, want %q", app.Name, "accessctl")
	}
	if app.Before == nil {
		t.Error("Before hook should resolve the runtime")
	}

	names := make(map[string]bool)
	for _, cmd := range app.Commands {
		names[cmd.Name] = true
	}
	for _, want := range []string{"api", "config"} {
		if !names[want] {
			t.Errorf("missing command: %s", want)
		}
	}
}

func TestGlobalFlags(t *testing.T) {
	flagNames := make(map[string]bool)
	for _, f := range globalFlags() {
		for _, name := range f.Names() {
			flagNames[name] = true
		}
	}

	for _, name := range []string{"daemon", "d", "output", "o", "no-headers", "config", "c", "ca-cert", "timeout", "verbose", "V", "log-format"} {
		if !flagNames[name] {
			t.Errorf("missing global flag: %s", name)
		}
	}
}

// captureRuntime runs accessctl with a leaf command that records the
// resolved runtime.
func captureRuntime(t *testing.T, args ...string) (*Runtime, error) {
	t.Helper()

	var rt *Runtime
	app := App()
	app.Writer = new(strings.Builder)
	app.ErrWriter = new(strings.Builder)
	app.Commands = append(app.Commands, &cli.Command{
		Name: "capture",
		Action: func(c *cli.Context) error {
			rt = GetRuntime(c)
			return nil
		},
	})

	err := app.Run(append(append([]string{"accessctl"}, args...), "capture"))
	return rt, err
}

func TestSetup_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	rt, err := captureRuntime(t)
	if err != nil {
		t.Fatalf("run error = %v", err)
	}
	if rt == nil {
		t.Fatal("runtime not set")
	}
	if rt.Config.Daemon != "unix:///var/run/accessd.sock" {
		t.Errorf("Daemon = %q", rt.Config.Daemon)
	}
	if rt.Format != output.FormatTable || rt.NoHeaders {
		t.Errorf("Format = %q NoHeaders = %v", rt.Format, rt.NoHeaders)
	}
	if rt.ConnMgr == nil || rt.ConnMgr.IsConnected() {
		t.Error("connection manager should exist and be idle")
	}
}

func TestSetup_Precedence(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(home, ".accessctl", "cli.yaml")
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		t.Fatal(err)
	}
	content := "daemon: 10.0.0.1:7000\noutput: yaml\ntimeout: 5s\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	rt, err := captureRuntime(t)
	if err != nil {
		t.Fatalf("run error = %v", err)
	}
	if rt.Config.Daemon != "10.0.0.1:7000" || rt.Format != output.FormatYAML || rt.Config.Timeout.String() != "5s" {
		t.Errorf("file values not applied: %+v", rt.Config)
	}

	t.Setenv("ACCESSCTL_DAEMON", "10.0.0.2:7000")
	t.Setenv("ACCESSCTL_OUTPUT", "json")

	rt, err = captureRuntime(t)
	if err != nil {
		t.Fatalf("run error = %v", err)
	}
	if rt.Config.Daemon != "10.0.0.2:7000" || rt.Format != output.FormatJSON {
		t.Errorf("env should override file: daemon=%q format=%q", rt.Config.Daemon, rt.Format)
	}
	if rt.Config.Timeout.String() != "5s" {
		t.Errorf("unset keys keep the file value, got timeout %s", rt.Config.Timeout)
	}

	rt, err = captureRuntime(t, "--daemon", "10.0.0.3:7000", "-o", "table", "--no-headers")
	if err != nil {
		t.Fatalf("run error = %v", err)
	}
	if rt.Config.Daemon != "10.0.0.3:7000" || rt.Format != output.FormatTable || !rt.NoHeaders {
		t.Errorf("flags should override env: daemon=%q format=%q", rt.Config.Daemon, rt.Format)
	}
}

func TestSetup_InvalidOutput(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := captureRuntime(t, "-o", "xml")
	if err == nil || !strings.Contains(err.Error(), "unknown output format") {
		t.Errorf("error = %v, want unknown output format", err)
	}
}

func TestSetup_InvalidLogFormat(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := captureRuntime(t, "--log-format", "console")
	if err == nil || !strings.Contains(err.Error(), "unknown log format") {
		t.Errorf("error = %v, want unknown log format", err)
	}
}

func TestSetup_MissingExplicitConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := captureRuntime(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "load config") {
		t.Errorf("error = %v, want load config failure", err)
	}
}

func TestVerboseLogsToStderr(t *testing.T) {
	server := newMockServer(t)
	server.handle("GET /v1/access-methods", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, sampleListing())
	})

	res := runAgainst(t, server, "--verbose", "--log-format", "json", "-o", "json", "api", "list")
	if res.Err != nil {
		t.Fatalf("list error = %v", res.Err)
	}

	if !strings.Contains(res.Stderr, `"msg":"daemon request"`) {
		t.Errorf("stderr should carry debug logs, got %q", res.Stderr)
	}
	if strings.Contains(res.Stdout, "daemon request") {
		t.Error("logs must not go to stdout")
	}
}

func TestQuietByDefault(t *testing.T) {
	server := newMockServer(t)
	server.handle("GET /v1/access-methods", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, sampleListing())
	})

	res := runAgainst(t, server, "api", "list")
	if res.Err != nil {
		t.Fatalf("list error = %v", res.Err)
	}
	if res.Stderr != "" {
		t.Errorf("stderr = %q, want empty at default level", res.Stderr)
	}
}

func TestNoHeaders(t *testing.T) {
	server := newMockServer(t)
	server.handle("GET /v1/access-methods", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, sampleListing())
	})

	res := runAgainst(t, server, "--no-headers", "api", "list")
	if res.Err != nil {
		t.Fatalf("list error = %v", res.Err)
	}
	if strings.Contains(res.Stdout, "ENABLED") {
		t.Errorf("headers should be omitted:\n%s", res.Stdout)
	}
	if got := strings.Count(res.Stdout, "\n"); got != 4 {
		t.Errorf("got %d lines, want 4", got)
	}
}

func TestVersionAndVerboseFlags(t *testing.T) {
	res := runApp(t, "-v")
	if res.Err != nil {
		t.Fatalf("-v error = %v", res.Err)
	}
	if !strings.Contains(res.Stdout, "accessctl version") {
		t.Errorf("-v should print the version, got %q", res.Stdout)
	}

	server := newMockServer(t)
	server.handle("GET /v1/access-methods", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, map[string]any{"access_methods": []any{}})
	})

	res = runAgainst(t, server, "-V", "api", "list")
	if res.Err != nil {
		t.Fatalf("-V api list error = %v", res.Err)
	}
	if !strings.Contains(res.Stderr, "daemon request") {
		t.Errorf("-V should enable debug logs, stderr = %q", res.Stderr)
	}
}
