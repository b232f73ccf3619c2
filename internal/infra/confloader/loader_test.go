package confloader

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type testConfig struct {
	Daemon  string        `koanf:"daemon"`
	Timeout time.Duration `koanf:"timeout"`
	Log     struct {
		Level  string `koanf:"level"`
		Format string `koanf:"format"`
	} `koanf:"log"`
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cli.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestNewLoader_WithOptions(t *testing.T) {
	l := NewLoader(WithOptionalConfigFile("/path/to/config.yaml"))

	if l.filePath != "/path/to/config.yaml" || !l.fileOptional {
		t.Errorf("filePath = %q optional=%v", l.filePath, l.fileOptional)
	}

	l = NewLoader(WithConfigFile("/path/to/config.yaml"))
	if l.fileOptional {
		t.Error("WithConfigFile should make the file required")
	}
}

func TestLoader_LoadFile(t *testing.T) {
	path := writeConfig(t, `
daemon: "127.0.0.1:7070"
log:
  level: debug
`)

	l := NewLoader()
	if err := l.LoadFile(path); err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	var cfg testConfig
	if err := l.Unmarshal(&cfg); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if cfg.Daemon != "127.0.0.1:7070" {
		t.Errorf("Daemon = %q, want %q", cfg.Daemon, "127.0.0.1:7070")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "debug")
	}
}

func TestLoader_LoadFile_NotFound(t *testing.T) {
	l := NewLoader()
	if err := l.LoadFile("/nonexistent/config.yaml"); err == nil {
		t.Error("LoadFile() should return error for nonexistent file")
	}
}

func TestLoader_LoadFile_Empty(t *testing.T) {
	l := NewLoader()
	if err := l.LoadFile(""); err != nil {
		t.Errorf("LoadFile(\"\") should not error, got: %v", err)
	}
}

func TestLoader_Load_MissingFile(t *testing.T) {
	var cfg testConfig

	if err := NewLoader(WithConfigFile("/nonexistent/cli.yaml")).Load(&cfg); err == nil {
		t.Error("required config file should fail when missing")
	}

	if err := NewLoader(WithOptionalConfigFile("/nonexistent/cli.yaml")).Load(&cfg); err != nil {
		t.Errorf("optional config file should be skipped when missing: %v", err)
	}
}

func TestLoader_Load_MalformedFile(t *testing.T) {
	path := writeConfig(t, "daemon: [unterminated\n")

	var cfg testConfig
	if err := NewLoader(WithOptionalConfigFile(path)).Load(&cfg); err == nil {
		t.Error("malformed config file should fail even when optional")
	}
}

func TestLoader_LoadEnv(t *testing.T) {
	t.Setenv("ACCESSCTL_LOG_LEVEL", "info")
	t.Setenv("ACCESSCTL_DAEMON", "unix:///tmp/d.sock")
	t.Setenv("OTHERAPP_DAEMON", "ignored:1")

	l := NewLoader()
	if err := l.LoadEnv(); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}

	var cfg testConfig
	if err := l.Unmarshal(&cfg); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "info")
	}
	if cfg.Daemon != "unix:///tmp/d.sock" {
		t.Errorf("Daemon = %q, want %q", cfg.Daemon, "unix:///tmp/d.sock")
	}
}

func TestLoader_LoadMap_Dotted(t *testing.T) {
	path := writeConfig(t, "log:\n  format: json\n")

	l := NewLoader(WithOptionalConfigFile(path))
	var cfg testConfig
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if err := l.LoadMap(map[string]any{"log.level": "debug"}); err != nil {
		t.Fatalf("LoadMap() error = %v", err)
	}
	if err := l.Unmarshal(&cfg); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "debug")
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want %q (sibling key must survive merge)", cfg.Log.Format, "json")
	}
}

func TestLoader_Load_Priority(t *testing.T) {
	path := writeConfig(t, `
daemon: "from-file:5080"
timeout: 10s
log:
  level: error
`)
	t.Setenv("ACCESSCTL_DAEMON", "from-env:8080")

	l := NewLoader(
		WithOptionalConfigFile(path),
		WithDefaults(map[string]any{
			"daemon":     "from-default:1",
			"timeout":    "30s",
			"log.level":  "warn",
			"log.format": "text",
		}),
	)

	var cfg testConfig
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Daemon != "from-env:8080" {
		t.Errorf("Daemon = %q, want %q (env should override file)", cfg.Daemon, "from-env:8080")
	}
	if cfg.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s (file should override default)", cfg.Timeout)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "error")
	}
	if cfg.Log.Format != "text" {
		t.Errorf("Log.Format = %q, want default %q", cfg.Log.Format, "text")
	}
}
