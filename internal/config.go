package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/folio/internal/web"
)

// Auth modes.
const (
	AuthModeDisabled    = "disabled"
	AuthModeCredentials = "credentials"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Data    DataConfig        `yaml:"data"`
	Uploads UploadsConfig     `yaml:"uploads"`
	Auth    AuthConfig        `yaml:"auth"`
	Site    SiteConfig        `yaml:"site"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Data.Validate(); err != nil {
		return err
	}
	if err := c.Uploads.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel    slog.Level `yaml:"log_level"`
	HTTP        HTTPConfig `yaml:"http"`
	UploadMaxMB int        `yaml:"upload_max_mb"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.UploadMaxMB, validation.Min(0), validation.Max(1024)),
	); err != nil {
		return err
	}
	return c.HTTP.Validate()
}

// UploadMaxBytes returns the upload size limit in bytes; 0 means the default.
func (c *ApplicationConfig) UploadMaxBytes() int64 {
	return int64(c.UploadMaxMB) << 20
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// DataConfig locates the card and settings documents.
type DataConfig struct {
	Dir          string `yaml:"dir"`
	CardsFile    string `yaml:"cards_file"`
	SettingsFile string `yaml:"settings_file"`
}

// Validate validates the data configuration.
func (c *DataConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.Required),
		validation.Field(&c.CardsFile, validation.Required),
		validation.Field(&c.SettingsFile, validation.Required),
	); err != nil {
		return err
	}
	if c.CardsFile == c.SettingsFile {
		return fmt.Errorf("data: cards_file and settings_file must differ")
	}
	return nil
}

// UploadsConfig holds the directory uploaded images are written to.
type UploadsConfig struct {
	Dir string `yaml:"dir"`
}

// Validate validates the uploads configuration.
func (c *UploadsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.Required),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled": no authentication required, suitable for local dev.
//   - "credentials" (default): admin logs in with Username and Password (or
//     a bcrypt PasswordHash) and receives a signed session token.
type AuthConfig struct {
	Mode            string        `yaml:"mode"`
	Username        string        `yaml:"username"`
	Password        string        `yaml:"password"`
	PasswordHash    string        `yaml:"password_hash"`
	JWTSecret       string        `yaml:"jwt_secret"`
	TokenTTL        time.Duration `yaml:"token_ttl"`
	LoginRatePerMin int           `yaml:"login_rate_per_min"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeCredentials
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeCredentials)),
		validation.Field(&c.TokenTTL, validation.Min(time.Duration(0))),
		validation.Field(&c.LoginRatePerMin, validation.Min(0)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeCredentials {
		if c.Username == "" {
			return fmt.Errorf("auth: mode is %q but username is empty", AuthModeCredentials)
		}
		if c.Password == "" && c.PasswordHash == "" {
			return fmt.Errorf("auth: mode is %q but neither password nor password_hash is set", AuthModeCredentials)
		}
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeCredentials
}

// SiteConfig holds the owner-specific copy of the public pages.
type SiteConfig struct {
	Title      string           `yaml:"title"`
	Owner      string           `yaml:"owner"`
	Intro      string           `yaml:"intro"`
	About      string           `yaml:"about"`
	Contacts   []ContactConfig  `yaml:"contacts"`
	Activities []ActivityConfig `yaml:"activities"`
}

// ContactConfig is one contact entry, e.g. {type: email, handle: me@example.com}.
type ContactConfig struct {
	Type   string `yaml:"type"`
	Handle string `yaml:"handle"`
}

// ActivityConfig is one entry of the about-me timeline.
type ActivityConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// WebSite converts the site section for the page renderer.
func (c *SiteConfig) WebSite() web.Site {
	site := web.Site{Title: c.Title, Owner: c.Owner, Intro: c.Intro, About: c.About}
	for _, ct := range c.Contacts {
		site.Contacts = append(site.Contacts, web.Contact{Type: ct.Type, Handle: ct.Handle})
	}
	for _, a := range c.Activities {
		site.Activities = append(site.Activities, web.Activity{Name: a.Name, Description: a.Description})
	}
	return site
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel:    slog.LevelInfo,
			HTTP:        HTTPConfig{Port: 8080},
			UploadMaxMB: 10,
		},
		Data: DataConfig{
			Dir:          "./data",
			CardsFile:    "cards.json",
			SettingsFile: "settings.json",
		},
		Uploads: UploadsConfig{
			Dir: "./public/uploads",
		},
		Auth: AuthConfig{
			Mode:            AuthModeCredentials,
			Username:        "admin",
			TokenTTL:        12 * time.Hour,
			LoginRatePerMin: 10,
		},
		Site: SiteConfig{
			Title: "Portfolio",
		},
	}
}
