package internal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	pkgconfig "github.com/starford/folio/pkg/config"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsCredentials(t *testing.T) {
	cfg := AuthConfig{Mode: "", Username: "admin", Password: "pw"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to credentials: %v", err)
	}
	if cfg.Mode != AuthModeCredentials {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeCredentials)
	}
	if !cfg.AuthEnabled() {
		t.Error("credentials mode should be enabled")
	}
}

func TestAuthConfig_CredentialsModeHashOnly(t *testing.T) {
	cfg := AuthConfig{Mode: "credentials", Username: "admin", PasswordHash: "$2a$10$abcdefghijklmnopqrstuv"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("hash-only credentials should pass: %v", err)
	}
}

func TestAuthConfig_CredentialsModeMissingPassword(t *testing.T) {
	cfg := AuthConfig{Mode: "credentials", Username: "admin"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("credentials mode without a password should fail")
	}
	if !strings.Contains(err.Error(), "password") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_CredentialsModeMissingUsername(t *testing.T) {
	cfg := AuthConfig{Mode: "credentials", Password: "pw"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("credentials mode without a username should fail")
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Username: "a", Password: "b"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestAuthConfig_NegativeRate(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", LoginRatePerMin: -1}
	if err := cfg.Validate(); err == nil {
		t.Fatal("negative login rate should fail validation")
	}
}

func TestDataConfig_SameFileRejected(t *testing.T) {
	cfg := DataConfig{Dir: "d", CardsFile: "x.json", SettingsFile: "x.json"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("identical document names should fail")
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Password = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}

func TestFullConfig_PortValidated(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = AuthModeDisabled
	cfg.App.HTTP.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Fatal("out-of-range port should fail")
	}
}

func TestLoadConfigFile(t *testing.T) {
	t.Setenv("FOLIO_TEST_PASSWORD", "s3cret")
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
app:
  log_level: debug
  http:
    port: 9090
  upload_max_mb: 5
data:
  dir: ./var/data
  cards_file: cards.json
  settings_file: settings.json
uploads:
  dir: ./var/uploads
auth:
  mode: credentials
  username: allen
  password: ${FOLIO_TEST_PASSWORD}
  token_ttl: 2h
site:
  title: Dream Crown
  contacts:
    - type: email
      handle: allen@example.com
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewDefaultConfig()
	if err := pkgconfig.Load(path, cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.HTTP.Address() != ":9090" {
		t.Errorf("address = %q", cfg.App.HTTP.Address())
	}
	if cfg.App.UploadMaxBytes() != 5<<20 {
		t.Errorf("upload max = %d", cfg.App.UploadMaxBytes())
	}
	if cfg.Auth.Password != "s3cret" {
		t.Errorf("password not expanded from env: %q", cfg.Auth.Password)
	}
	if cfg.Auth.TokenTTL != 2*time.Hour {
		t.Errorf("token ttl = %v", cfg.Auth.TokenTTL)
	}
	// Untouched keys keep their defaults.
	if cfg.Auth.LoginRatePerMin != 10 {
		t.Errorf("login rate = %d, want default 10", cfg.Auth.LoginRatePerMin)
	}
	site := cfg.Site.WebSite()
	if site.Title != "Dream Crown" || len(site.Contacts) != 1 || site.Contacts[0].Href() != "mailto:allen@example.com" {
		t.Errorf("site = %+v", site)
	}
}
