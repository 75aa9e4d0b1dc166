package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/memopad/internal/models"
	"github.com/starford/memopad/internal/notice"
	"github.com/starford/memopad/internal/storage"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Storage StorageConfig     `yaml:"storage"`
	Memo    MemoConfig        `yaml:"memo"`
	Notice  NoticeConfig      `yaml:"notice"`
	Auth    AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	if err := c.Memo.Validate(); err != nil {
		return err
	}
	if err := c.Notice.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	// LogFile receives logs in terminal and MCP modes, where stdout is taken.
	// Empty discards them.
	LogFile string     `yaml:"log_file"`
	HTTP    HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port            int           `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.ShutdownTimeout, validation.Required, validation.Min(time.Second)),
	)
}

// StorageConfig selects the persistence driver.
type StorageConfig struct {
	Driver string      `yaml:"driver"`
	Path   string      `yaml:"path"`
	Redis  RedisConfig `yaml:"redis"`
	// Watch reloads the memo when its file is changed by another process (file driver only).
	Watch bool `yaml:"watch"`
}

// Validate validates the storage configuration.
func (c *StorageConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Driver, validation.Required,
			validation.In(storage.DriverFile, storage.DriverSQLite, storage.DriverRedis, storage.DriverMemory)),
		validation.Field(&c.Path, validation.When(
			c.Driver == storage.DriverFile || c.Driver == storage.DriverSQLite, validation.Required)),
	); err != nil {
		return err
	}
	if c.Driver == storage.DriverRedis {
		return c.Redis.Validate()
	}
	return nil
}

// Options converts the configuration to storage options.
func (c *StorageConfig) Options() storage.Options {
	return storage.Options{
		Driver: c.Driver,
		Path:   c.Path,
		Redis: storage.RedisOptions{
			Addr:             c.Redis.Addr,
			Username:         c.Redis.Username,
			Password:         c.Redis.Password,
			DB:               c.Redis.DB,
			OperationTimeout: c.Redis.OperationTimeout,
		},
	}
}

// RedisConfig holds the redis driver connection settings.
type RedisConfig struct {
	Addr             string        `yaml:"addr"`
	Username         string        `yaml:"username"`
	Password         string        `yaml:"password"`
	DB               int           `yaml:"db"`
	OperationTimeout time.Duration `yaml:"operation_timeout"`
}

// Validate validates the redis configuration.
func (c *RedisConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Addr, validation.Required),
		validation.Field(&c.DB, validation.Min(0)),
	)
}

// MemoConfig holds memo settings.
type MemoConfig struct {
	Key string `yaml:"key"`
	// MaxLength limits the memo in characters; zero means unlimited.
	MaxLength int `yaml:"max_length"`
}

// Validate validates the memo configuration.
func (c *MemoConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Key, validation.Required),
		validation.Field(&c.MaxLength, validation.Min(0)),
	); err != nil {
		return err
	}
	return storage.ValidateKey(c.Key)
}

// NoticeConfig holds the saved-notice settings.
type NoticeConfig struct {
	Duration time.Duration `yaml:"duration"`
	// OnLoad shows the notice when a non-empty memo is loaded at start.
	OnLoad bool `yaml:"on_load"`
}

// Validate validates the notice configuration.
func (c *NoticeConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Duration, validation.Required, validation.Min(time.Millisecond)),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local use.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port:            8080,
				ShutdownTimeout: 10 * time.Second,
			},
		},
		Storage: StorageConfig{
			Driver: storage.DriverFile,
			Path:   "./data",
			Watch:  true,
			Redis: RedisConfig{
				Addr:             "localhost:6379",
				OperationTimeout: 5 * time.Second,
			},
		},
		Memo: MemoConfig{
			Key:       models.DefaultKey,
			MaxLength: 5_000_000,
		},
		Notice: NoticeConfig{
			Duration: notice.DefaultDelay,
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
