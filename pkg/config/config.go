// Package config loads storeblocks settings.
//
// Settings come from three layers, later layers winning:
//
//  1. Built-in defaults ([Default])
//  2. A TOML file (storeblocks.toml, or the path given with --config)
//  3. STOREBLOCKS_* environment variables
//
// Command-line flags are applied on top by the CLI.
//
// Example file:
//
//	[server]
//	addr = ":8080"
//
//	[source]
//	kind = "graphql"
//	endpoint = "https://cms.example.com/graphql"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[render]
//	unknown_typename = "placeholder"
//	carousel_interval = "7s"
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/storeblocks/pkg/errors"
)

// FileName is the config file looked up in the working directory.
const FileName = "storeblocks.toml"

// Source kinds.
const (
	SourceFile    = "file"
	SourceGraphQL = "graphql"
	SourceMongo   = "mongo"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Submission store backends.
const (
	StoreFile  = "file"
	StoreMongo = "mongo"
)

// Duration is a time.Duration that decodes from strings such as "5s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config is the complete storeblocks configuration.
type Config struct {
	Server      ServerConfig      `toml:"server"`
	Source      SourceConfig      `toml:"source"`
	Cache       CacheConfig       `toml:"cache"`
	Render      RenderConfig      `toml:"render"`
	Catalog     CatalogConfig     `toml:"catalog"`
	Submissions SubmissionsConfig `toml:"submissions"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
}

// SourceConfig selects and configures the page source.
type SourceConfig struct {
	Kind       string   `toml:"kind"`
	Dir        string   `toml:"dir"`
	Endpoint   string   `toml:"endpoint"`
	Token      string   `toml:"token"`
	Query      string   `toml:"query"`
	PagePath   string   `toml:"page_path"`
	Timeout    Duration `toml:"timeout"`
	MongoURI   string   `toml:"mongo_uri"`
	Database   string   `toml:"database"`
	Collection string   `toml:"collection"`
}

// CacheConfig selects the cache backend for pages, responses and markup.
type CacheConfig struct {
	Backend   string `toml:"backend"`
	Dir       string `toml:"dir"`
	RedisAddr string `toml:"redis_addr"`
	RedisDB   int    `toml:"redis_db"`
	// Prefix scopes every key, so several storefronts can share a backend.
	Prefix string `toml:"prefix"`
}

// RenderConfig holds page-wide rendering settings.
type RenderConfig struct {
	UnknownTypename  string   `toml:"unknown_typename"`
	CarouselInterval Duration `toml:"carousel_interval"`
	ImageServerURL   string   `toml:"image_server_url"`
	Strict           bool     `toml:"strict"`
}

// CatalogConfig points at a static catalog export. Empty disables lookups.
type CatalogConfig struct {
	Path string `toml:"path"`
}

// SubmissionsConfig selects where form submissions are stored.
type SubmissionsConfig struct {
	Backend    string `toml:"backend"`
	Dir        string `toml:"dir"`
	Collection string `toml:"collection"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.SetDefaults()
	return cfg
}

// SetDefaults fills every unset field with its default.
func (c *Config) SetDefaults() {
	setDefault(&c.Server.Addr, ":8080")
	setDuration(&c.Server.ReadTimeout, 10*time.Second)
	setDuration(&c.Server.WriteTimeout, 30*time.Second)

	setDefault(&c.Source.Kind, SourceFile)
	setDefault(&c.Source.Dir, "pages")
	setDuration(&c.Source.Timeout, 10*time.Second)
	setDefault(&c.Source.Database, "storefront")
	setDefault(&c.Source.Collection, "pages")

	setDefault(&c.Cache.Backend, CacheFile)

	setDefault(&c.Render.UnknownTypename, "skip")
	setDuration(&c.Render.CarouselInterval, 5*time.Second)

	setDefault(&c.Submissions.Backend, StoreFile)
	setDefault(&c.Submissions.Collection, "submissions")
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

func setDuration(field *Duration, value time.Duration) {
	if field.Duration <= 0 {
		field.Duration = value
	}
}

// Validate checks that the selected backends are known and configured.
func (c *Config) Validate() error {
	switch c.Source.Kind {
	case SourceFile:
		if c.Source.Dir == "" {
			return invalid("source.dir is required for the file source")
		}
	case SourceGraphQL:
		if err := errors.ValidateURL(c.Source.Endpoint); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "source.endpoint")
		}
	case SourceMongo:
		if c.Source.MongoURI == "" {
			return invalid("source.mongo_uri is required for the mongo source")
		}
	default:
		return invalid("source.kind %q (must be one of: file, graphql, mongo)", c.Source.Kind)
	}

	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return invalid("cache.redis_addr is required for the redis cache")
		}
	default:
		return invalid("cache.backend %q (must be one of: file, redis, none)", c.Cache.Backend)
	}

	switch c.Render.UnknownTypename {
	case "skip", "placeholder":
	default:
		return invalid("render.unknown_typename %q (must be one of: skip, placeholder)", c.Render.UnknownTypename)
	}
	if c.Render.ImageServerURL != "" {
		if err := errors.ValidateURL(c.Render.ImageServerURL); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "render.image_server_url")
		}
	}

	switch c.Submissions.Backend {
	case StoreFile:
	case StoreMongo:
		if c.Source.MongoURI == "" {
			return invalid("source.mongo_uri is required for the mongo submission store")
		}
	default:
		return invalid("submissions.backend %q (must be one of: file, mongo)", c.Submissions.Backend)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidConfig, format, args...)
}

// Load reads the config file at path (or the default location when path
// is empty), applies the environment and validates the result. A missing
// default file is not an error; a missing explicit path is.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		path = Find()
	} else if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config file %s", path)
	}
	if path != "" {
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, invalid("unknown keys in %s: %s", path, strings.Join(keys, ", "))
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Find returns the first config file that exists: ./storeblocks.toml, then
// $XDG_CONFIG_HOME/storeblocks/config.toml. Empty when neither exists.
func Find() string {
	candidates := []string{FileName}
	if dir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "storeblocks", "config.toml"))
	}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}
