// Package cli implements the storeblocks command-line interface.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/storeblocks/pkg/blocks"
	"github.com/matzehuels/storeblocks/pkg/buildinfo"
	"github.com/matzehuels/storeblocks/pkg/cache"
	"github.com/matzehuels/storeblocks/pkg/catalog"
	"github.com/matzehuels/storeblocks/pkg/config"
	"github.com/matzehuels/storeblocks/pkg/observability"
	"github.com/matzehuels/storeblocks/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "storeblocks"

	// connectTimeout bounds connecting to Redis and MongoDB at startup.
	connectTimeout = 10 * time.Second
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is the --config flag. Empty looks up storeblocks.toml.
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level pipeline, cache
// and HTTP events are logged as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= LogDebug {
		observability.Install(observability.NewLogHooks(c.Logger))
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Storeblocks renders CMS page blocks to storefront HTML",
		Long:         `Storeblocks fetches storefront pages from a headless CMS and renders their content blocks (banners, carousels, listings, forms) to HTML, from the command line or as an HTTP service.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default ./storeblocks.toml)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.blocksCommand())
	root.AddCommand(c.fragmentCommand())
	root.AddCommand(c.submissionsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file and environment.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded config", "source", cfg.Source.Kind, "cache", cfg.Cache.Backend)
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner wires a pipeline runner from cfg: the page source, the cache and
// the optional static catalog. The runner owns the source and the cache.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, noCache bool) (*pipeline.Runner, error) {
	runner, err := c.newOfflineRunner(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	src, err := newSource(ctx, cfg, runner.Cache, runner.Keyer)
	if err != nil {
		_ = runner.Close()
		return nil, err
	}
	runner.Source = src
	return runner, nil
}

// newOfflineRunner wires a runner without a page source, for pages that are
// already in memory (render --file, validate).
func (c *CLI) newOfflineRunner(ctx context.Context, cfg *config.Config, noCache bool) (*pipeline.Runner, error) {
	reg, err := blocks.NewRegistry()
	if err != nil {
		return nil, err
	}
	store, err := newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewDefaultKeyer()
	if cfg.Cache.Prefix != "" {
		keyer = cache.NewScopedKeyer(keyer, cfg.Cache.Prefix)
	}

	runner := pipeline.NewRunner(nil, reg, store, keyer, c.Logger)
	if cfg.Catalog.Path != "" {
		static, err := catalog.LoadStatic(cfg.Catalog.Path)
		if err != nil {
			_ = runner.Close()
			return nil, err
		}
		runner.Catalog = static
	}
	return runner, nil
}

// renderDefaults turns the [render] config section into pipeline options.
func renderDefaults(cfg *config.Config) pipeline.Options {
	return pipeline.Options{
		UnknownTypename:  cfg.Render.UnknownTypename,
		Strict:           cfg.Render.Strict,
		CarouselInterval: cfg.Render.CarouselInterval.Duration,
		ImageServerURL:   cfg.Render.ImageServerURL,
	}
}
