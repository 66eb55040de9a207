package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate default config: %v", err)
	}
	if ttl, _ := cfg.SessionTTL(); ttl != 24*time.Hour {
		t.Errorf("session ttl = %v", ttl)
	}
	if len(cfg.Notices.HidingRoles) != 1 || cfg.Notices.HidingRoles[0] != "admin" {
		t.Errorf("hiding roles = %v", cfg.Notices.HidingRoles)
	}
}

func TestConfigValidate_RejectsUnknownRole(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Notices.HidingRoles = []string{"admin", "superuser"}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for unknown role")
	}
}

func TestConfigValidate_RejectsInvalidDurations(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Security.SessionTTL = "not-a-duration"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for invalid session_ttl")
	}

	cfg = DefaultConfig()
	cfg.Security.LockoutDuration = "-1m"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for negative lockout_duration")
	}
}

func TestConfigValidate_RejectsBadTimezone(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Notices.Timezone = "Mars/Olympus_Mons"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for unknown timezone")
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
server:
  http_address: ":8181"
  metrics_address: ":9191"
security:
  require_nonce: true
notices:
  hiding_roles: [admin, editor]
  static:
    - level: warning
      message: Maintenance tonight
      dismissible: true
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Server.HTTPAddress != ":8181" || !cfg.Security.RequireNonce {
		t.Errorf("cfg = %+v", cfg)
	}
	static := cfg.StaticNotices()
	if len(static) != 1 || static[0].Level != "warning" || !static[0].Dismissible {
		t.Errorf("static notices = %+v", static)
	}
	if cfg.RateLimit.AjaxPerMinute != 120 {
		t.Errorf("rate limit default not applied: %d", cfg.RateLimit.AjaxPerMinute)
	}
}

func TestLoadSecrets(t *testing.T) {
	t.Setenv("ANM_CSRF_KEY", strings.Repeat("k", 32))
	t.Setenv("ANM_SESSION_SECRET", strings.Repeat("s", 32))
	t.Setenv("ANM_HASH_SALT", "salt")

	s, err := LoadSecrets()
	if err != nil {
		t.Fatalf("load secrets: %v", err)
	}
	if len(s.CSRFKeyBytes()) != 32 {
		t.Errorf("csrf key length = %d", len(s.CSRFKeyBytes()))
	}
}

func TestLoadSecrets_Missing(t *testing.T) {
	t.Setenv("ANM_CSRF_KEY", strings.Repeat("k", 32))
	t.Setenv("ANM_SESSION_SECRET", "")
	t.Setenv("ANM_HASH_SALT", "salt")

	if _, err := LoadSecrets(); err == nil {
		t.Fatal("expected error for empty session secret")
	}
}
