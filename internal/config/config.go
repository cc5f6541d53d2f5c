// Package config loads runtime configuration from YAML with env fallbacks
// for secrets.
package config

import (
	"fmt"
	"net"
	neturl "net/url"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	// EnvAdminToken and EnvWebhookSecret override the YAML values. Neither
	// has a built-in default: guarded surfaces refuse service when unset.
	EnvAdminToken    = "FOLIO_ADMIN_TOKEN"
	EnvWebhookSecret = "FOLIO_WEBHOOK_SECRET"

	defaultPort      = 3020
	defaultEnv       = "development"
	defaultDBHost    = "127.0.0.1"
	defaultDBPort    = 3306
	defaultDBUser    = "root"
	defaultDBName    = "folio"
	defaultDBCharset = "utf8mb4"
	defaultDBLoc     = "Local"
	defaultGeoAPI    = "http://ip-api.com/json"
	defaultMaxUpload = 5
)

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int            `yaml:"port"`
	DSN            string         `yaml:"dsn"` // MySQL DSN; overrides Database
	Database       DatabaseConfig `yaml:"database"`
	RedisURL       string         `yaml:"redis_url"`
	Env            string         `yaml:"env"` // "development" | "production"
	AllowedOrigins []string       `yaml:"allowed_origins"`
	AdminToken     string         `yaml:"admin_token"`
	WebhookSecret  string         `yaml:"webhook_secret"`
	S3             S3Options      `yaml:"s3"`
	Geo            GeoOptions     `yaml:"geo"`
	Upload         UploadOptions  `yaml:"upload"`
}

type DatabaseConfig struct {
	Host      string            `yaml:"host"`
	Port      int               `yaml:"port"`
	User      string            `yaml:"user"`
	Password  string            `yaml:"password"`
	Name      string            `yaml:"name"`
	Charset   string            `yaml:"charset"`
	ParseTime *bool             `yaml:"parse_time"`
	Loc       string            `yaml:"loc"`
	Params    map[string]string `yaml:"params"`
}

// S3Options configures the blob storage target for uploads.
type S3Options struct {
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	CustomDomain    string `yaml:"custom_domain"`
	PathStyleAccess bool   `yaml:"path_style_access"`
	Prefix          string `yaml:"prefix"`
}

// GeoOptions configures the third-party geolocation lookup used to enrich
// visitor records.
type GeoOptions struct {
	Enable   bool   `yaml:"enable"`
	Endpoint string `yaml:"endpoint"`
}

type UploadOptions struct {
	MaxSizeMB int `yaml:"max_size_mb"`
}

// Load reads the YAML config at path and applies defaults and env overrides.
// A missing file is not an error: defaults plus env vars still make a usable
// development config.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	cfg := &AppConfig{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// fall through to defaults
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.normalize()
	return cfg, nil
}

func (c *AppConfig) normalize() {
	if c.Port == 0 {
		c.Port = defaultPort
	}
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	if c.Env == "" {
		c.Env = defaultEnv
	}

	c.Database = normalizeDatabase(c.Database)
	c.DSN = strings.TrimSpace(c.DSN)
	if c.DSN == "" {
		c.DSN = c.Database.DSNValue()
	}
	c.RedisURL = strings.TrimSpace(c.RedisURL)

	if v := strings.TrimSpace(os.Getenv(EnvAdminToken)); v != "" {
		c.AdminToken = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvWebhookSecret)); v != "" {
		c.WebhookSecret = v
	}
	c.AdminToken = strings.TrimSpace(c.AdminToken)
	c.WebhookSecret = strings.TrimSpace(c.WebhookSecret)

	c.Geo.Endpoint = strings.TrimSpace(c.Geo.Endpoint)
	if c.Geo.Endpoint == "" {
		c.Geo.Endpoint = defaultGeoAPI
	}
	if c.Upload.MaxSizeMB <= 0 {
		c.Upload.MaxSizeMB = defaultMaxUpload
	}

	origins := make([]string, 0, len(c.AllowedOrigins))
	for _, o := range c.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	c.AllowedOrigins = origins
}

func normalizeDatabase(cfg DatabaseConfig) DatabaseConfig {
	cfg.Host = strings.TrimSpace(cfg.Host)
	cfg.User = strings.TrimSpace(cfg.User)
	cfg.Password = strings.TrimSpace(cfg.Password)
	cfg.Name = strings.TrimSpace(cfg.Name)
	cfg.Charset = strings.TrimSpace(cfg.Charset)
	cfg.Loc = strings.TrimSpace(cfg.Loc)

	if cfg.Host == "" {
		cfg.Host = defaultDBHost
	}
	if cfg.Port == 0 {
		cfg.Port = defaultDBPort
	}
	if cfg.User == "" {
		cfg.User = defaultDBUser
	}
	if cfg.Name == "" {
		cfg.Name = defaultDBName
	}
	if cfg.Charset == "" {
		cfg.Charset = defaultDBCharset
	}
	if cfg.Loc == "" {
		cfg.Loc = defaultDBLoc
	}
	return cfg
}

// DSNValue builds a MySQL DSN from the structured database config.
func (c DatabaseConfig) DSNValue() string {
	params := neturl.Values{}
	for key, value := range c.Params {
		k := strings.TrimSpace(key)
		v := strings.TrimSpace(value)
		if k != "" && v != "" {
			params.Set(k, v)
		}
	}
	if params.Get("charset") == "" {
		params.Set("charset", c.Charset)
	}
	if params.Get("parseTime") == "" {
		parseTime := true
		if c.ParseTime != nil {
			parseTime = *c.ParseTime
		}
		params.Set("parseTime", strconv.FormatBool(parseTime))
	}
	if params.Get("loc") == "" {
		params.Set("loc", c.Loc)
	}

	auth := c.User
	if c.Password != "" {
		auth += ":" + c.Password
	}

	return fmt.Sprintf("%s@tcp(%s)/%s?%s",
		auth,
		net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		c.Name,
		params.Encode(),
	)
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool {
	return c.Env != "production"
}

// HasRedis reports whether a Redis URL is configured. When absent, the rate
// limit middleware is disabled rather than failing startup.
func (c *AppConfig) HasRedis() bool {
	return c.RedisURL != ""
}

// MaxUploadBytes returns the upload size cap in bytes.
func (c *AppConfig) MaxUploadBytes() int64 {
	return int64(c.Upload.MaxSizeMB) << 20
}
