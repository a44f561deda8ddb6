// Package config loads the service configuration from TOML with environment overrides.
package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"outofschool/internal/constants"
	"outofschool/internal/errors"
	"outofschool/internal/xdg"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. OUTOFSCHOOL_SEARCH_FALLBACK=true
const EnvPrefix = "OUTOFSCHOOL"

// Config is the complete service configuration
type Config struct {
	Server     ServerConfig     `toml:"server" mapstructure:"server"`
	Database   DatabaseConfig   `toml:"database" mapstructure:"database"`
	Pagination PaginationConfig `toml:"pagination" mapstructure:"pagination"`
	Search     SearchConfig     `toml:"search" mapstructure:"search"`
	Logging    LoggingConfig    `toml:"logging" mapstructure:"logging"`
}

type ServerConfig struct {
	Host            string   `toml:"host" mapstructure:"host"`
	Port            int      `toml:"port" mapstructure:"port"`
	ReadTimeout     Duration `toml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout" mapstructure:"write_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
	AllowOrigins    []string `toml:"allow_origins" mapstructure:"allow_origins"`
	RateLimit       float64  `toml:"rate_limit" mapstructure:"rate_limit"` // requests per second per client IP, 0 disables
	RateBurst       int      `toml:"rate_burst" mapstructure:"rate_burst"`
}

type DatabaseConfig struct {
	Driver          string   `toml:"driver" mapstructure:"driver"` // sqlite3 or pgx
	DSN             string   `toml:"dsn" mapstructure:"dsn"`
	MaxOpenConns    int      `toml:"max_open_conns" mapstructure:"max_open_conns"`
	MaxIdleConns    int      `toml:"max_idle_conns" mapstructure:"max_idle_conns"`
	ConnMaxLifetime Duration `toml:"conn_max_lifetime" mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime Duration `toml:"conn_max_idle_time" mapstructure:"conn_max_idle_time"`
	ConnectTimeout  Duration `toml:"connect_timeout" mapstructure:"connect_timeout"`
}

// PaginationConfig holds the platform page size policy applied to every list filter
type PaginationConfig struct {
	DefaultSize int `toml:"default_size" mapstructure:"default_size"`
	MaxSize     int `toml:"max_size" mapstructure:"max_size"`
}

// SearchConfig controls which workshop search backends exist and how they are chosen
type SearchConfig struct {
	IndexEnabled    bool     `toml:"index_enabled" mapstructure:"index_enabled"`
	IndexPath       string   `toml:"index_path" mapstructure:"index_path"`
	PreferIndex     bool     `toml:"prefer_index" mapstructure:"prefer_index"`
	Fallback        bool     `toml:"fallback" mapstructure:"fallback"`
	DefaultRadiusKm float64  `toml:"default_radius_km" mapstructure:"default_radius_km"`
	BreakerFailures uint32   `toml:"breaker_failures" mapstructure:"breaker_failures"`
	BreakerTimeout  Duration `toml:"breaker_timeout" mapstructure:"breaker_timeout"`
	BackendCacheTTL Duration `toml:"backend_cache_ttl" mapstructure:"backend_cache_ttl"`
}

type LoggingConfig struct {
	Level string `toml:"level" mapstructure:"level"`
	// Format is "text" or "json"
	Format string `toml:"format" mapstructure:"format"`
}

// Duration is a time.Duration written as "10s" in TOML
type Duration time.Duration

// Std returns the value as a time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Default returns the built-in configuration with XDG paths resolved
func Default() *Config {
	dataDir, err := xdg.DataDir()
	if err != nil {
		homeDir, _ := os.UserHomeDir()
		dataDir = filepath.Join(homeDir, ".local", "share", constants.AppName)
	}

	return &Config{
		Server: ServerConfig{
			Host:            constants.DefaultServerHost,
			Port:            constants.DefaultServerPort,
			ReadTimeout:     Duration(constants.DefaultServerReadTimeout),
			WriteTimeout:    Duration(constants.DefaultServerWriteTimeout),
			ShutdownTimeout: Duration(constants.DefaultServerShutdownTimeout),
			AllowOrigins:    []string{"*"},
			RateLimit:       constants.DefaultRateLimit,
			RateBurst:       constants.DefaultRateBurst,
		},
		Database: DatabaseConfig{
			Driver:          "sqlite3",
			DSN:             filepath.Join(dataDir, constants.AppName+".db"),
			MaxOpenConns:    constants.DefaultMaxOpenConnections,
			MaxIdleConns:    constants.DefaultMaxIdleConnections,
			ConnMaxLifetime: Duration(constants.DefaultConnectionTimeout),
			ConnMaxIdleTime: Duration(constants.DefaultIdleTimeout),
			ConnectTimeout:  Duration(constants.DefaultConnectRetryTimeout),
		},
		Pagination: PaginationConfig{
			DefaultSize: constants.DefaultPageSize,
			MaxSize:     constants.MaxPageSize,
		},
		Search: SearchConfig{
			IndexEnabled:    true,
			IndexPath:       filepath.Join(dataDir, "workshops.bleve"),
			DefaultRadiusKm: constants.DefaultRadiusKm,
			BreakerFailures: constants.DefaultBreakerFailures,
			BreakerTimeout:  Duration(constants.DefaultBreakerTimeout),
			BackendCacheTTL: Duration(constants.DefaultBackendCacheTTL),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/outofschool/config.toml
func DefaultPath() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the configuration. An empty path means the XDG default, which may
// be absent; an explicit path must exist. Environment variables override both.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		defaultPath, err := DefaultPath()
		if err != nil {
			return nil, errors.ConfigParseError(err)
		}
		path = defaultPath
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := setDefaults(v, Default()); err != nil {
		return nil, errors.ConfigParseError(err)
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		if explicit || !stderrors.Is(err, fs.ErrNotExist) {
			if stderrors.Is(err, fs.ErrNotExist) {
				return nil, errors.ConfigNotFound(path)
			}
			return nil, errors.ConfigParseError(err)
		}
	}

	var cfg Config
	hooks := mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
	if err := v.Unmarshal(&cfg, viper.DecodeHook(hooks)); err != nil {
		return nil, errors.ConfigParseError(err)
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults registers every key so that AutomaticEnv can override it
func setDefaults(v *viper.Viper, defaults *Config) error {
	data, err := toml.Marshal(defaults)
	if err != nil {
		return err
	}
	var tree map[string]interface{}
	if err := toml.Unmarshal(data, &tree); err != nil {
		return err
	}
	for section, values := range tree {
		fields, ok := values.(map[string]interface{})
		if !ok {
			v.SetDefault(section, values)
			continue
		}
		for key, value := range fields {
			v.SetDefault(section+"."+key, value)
		}
	}
	return nil
}

// Save writes the configuration as TOML, creating the directory if needed
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return errors.FileWriteError(path, err)
	}

	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return errors.FileWriteError(path, err)
	}
	return nil
}

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	var problems []string
	add := func(format string, args ...interface{}) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		add("server.port %d is out of range", c.Server.Port)
	}
	if c.Server.RateLimit < 0 {
		add("server.rate_limit must not be negative")
	}
	if c.Server.RateLimit > 0 && c.Server.RateBurst < 1 {
		add("server.rate_burst must be at least 1 when rate limiting is enabled")
	}
	switch c.Database.Driver {
	case "sqlite3", "pgx":
	default:
		add("database.driver %q is not supported (use sqlite3 or pgx)", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		add("database.dsn must be set")
	}
	if c.Pagination.DefaultSize < 1 {
		add("pagination.default_size must be positive")
	}
	if c.Pagination.MaxSize < 1 {
		add("pagination.max_size must be positive")
	}
	if c.Pagination.DefaultSize > c.Pagination.MaxSize {
		add("pagination.default_size %d exceeds pagination.max_size %d", c.Pagination.DefaultSize, c.Pagination.MaxSize)
	}
	if c.Search.IndexEnabled && c.Search.IndexPath == "" {
		add("search.index_path must be set when the index is enabled")
	}
	if c.Search.DefaultRadiusKm <= 0 {
		add("search.default_radius_km must be positive")
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		add("logging.format %q is not supported (use text or json)", c.Logging.Format)
	}
	if c.Search.BreakerFailures == 0 {
		add("search.breaker_failures must be positive")
	}

	if len(problems) > 0 {
		return errors.ConfigInvalid(strings.Join(problems, "; "))
	}
	return nil
}

func (c *Config) expandPaths() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	expand := func(p string) string {
		if strings.HasPrefix(p, "~/") {
			return filepath.Join(homeDir, p[2:])
		}
		return p
	}

	if c.Database.Driver == "sqlite3" {
		c.Database.DSN = expand(c.Database.DSN)
	}
	c.Search.IndexPath = expand(c.Search.IndexPath)
	return nil
}
