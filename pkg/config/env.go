package config

import (
	"strconv"
	"time"

	"github.com/matzehuels/storeblocks/pkg/errors"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "STOREBLOCKS_"

type envVar struct {
	name string
	set  func(c *Config, v string) error
}

func str(field func(*Config) *string) func(*Config, string) error {
	return func(c *Config, v string) error {
		*field(c) = v
		return nil
	}
}

func dur(field func(*Config) *Duration) func(*Config, string) error {
	return func(c *Config, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		field(c).Duration = d
		return nil
	}
}

var envVars = []envVar{
	{"SERVER_ADDR", str(func(c *Config) *string { return &c.Server.Addr })},
	{"SOURCE_KIND", str(func(c *Config) *string { return &c.Source.Kind })},
	{"SOURCE_DIR", str(func(c *Config) *string { return &c.Source.Dir })},
	{"SOURCE_ENDPOINT", str(func(c *Config) *string { return &c.Source.Endpoint })},
	{"SOURCE_TOKEN", str(func(c *Config) *string { return &c.Source.Token })},
	{"SOURCE_TIMEOUT", dur(func(c *Config) *Duration { return &c.Source.Timeout })},
	{"MONGO_URI", str(func(c *Config) *string { return &c.Source.MongoURI })},
	{"MONGO_DATABASE", str(func(c *Config) *string { return &c.Source.Database })},
	{"CACHE_BACKEND", str(func(c *Config) *string { return &c.Cache.Backend })},
	{"CACHE_DIR", str(func(c *Config) *string { return &c.Cache.Dir })},
	{"CACHE_PREFIX", str(func(c *Config) *string { return &c.Cache.Prefix })},
	{"REDIS_ADDR", str(func(c *Config) *string { return &c.Cache.RedisAddr })},
	{"REDIS_DB", func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		c.Cache.RedisDB = n
		return err
	}},
	{"UNKNOWN_TYPENAME", str(func(c *Config) *string { return &c.Render.UnknownTypename })},
	{"CAROUSEL_INTERVAL", dur(func(c *Config) *Duration { return &c.Render.CarouselInterval })},
	{"IMAGE_SERVER_URL", str(func(c *Config) *string { return &c.Render.ImageServerURL })},
	{"STRICT", func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		c.Render.Strict = b
		return err
	}},
	{"CATALOG_PATH", str(func(c *Config) *string { return &c.Catalog.Path })},
	{"SUBMISSIONS_BACKEND", str(func(c *Config) *string { return &c.Submissions.Backend })},
	{"SUBMISSIONS_DIR", str(func(c *Config) *string { return &c.Submissions.Dir })},
}

// ApplyEnv overrides fields from STOREBLOCKS_* variables read through
// lookup (os.LookupEnv in production).
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	for _, ev := range envVars {
		v, ok := lookup(EnvPrefix + ev.name)
		if !ok || v == "" {
			continue
		}
		if err := ev.set(c, v); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s%s", EnvPrefix, ev.name)
		}
	}
	return nil
}

// EnvNames lists the supported environment variables.
func EnvNames() []string {
	out := make([]string, len(envVars))
	for i, ev := range envVars {
		out[i] = EnvPrefix + ev.name
	}
	return out
}
