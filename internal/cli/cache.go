package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/storeblocks/pkg/cache"
	"github.com/matzehuels/storeblocks/pkg/config"
)

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and clean the page and markup cache",
		Long: `Inspect and clean the file cache.

Redis entries expire on their own and are not touched by these commands.`,
	}
	cmd.AddCommand(c.cacheClearCommand(), c.cacheStatsCommand(), c.cachePathCommand())
	return cmd
}

// openFileCache resolves the configured file cache. ok is false when the
// backend is not the file cache or nothing was cached yet; a status line
// has been printed in that case.
func (c *CLI) openFileCache() (fc *cache.FileCache, ok bool, err error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, false, err
	}
	if cfg.Cache.Backend != config.CacheFile {
		printWarning("cache backend is %s; only the file cache is managed here", cfg.Cache.Backend)
		return nil, false, nil
	}
	dir, err := cacheDir(cfg)
	if err != nil {
		return nil, false, fmt.Errorf("resolve cache dir: %w", err)
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		printInfo("Cache is empty")
		return nil, false, nil
	}
	fc, err = cache.NewFileCache(dir)
	return fc, err == nil, err
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	var expiredOnly bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached pages, responses and markup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, ok, err := c.openFileCache()
			if !ok {
				return err
			}

			remove, what := fc.Clear, "cached"
			if expiredOnly {
				remove, what = fc.Prune, "expired"
			}
			spinner := newSpinnerWithContext(cmd.Context(), "Clearing cache...")
			spinner.Start()
			n, err := remove()
			if err != nil {
				spinner.StopWithError("Could not clear %s", fc.Dir())
				return err
			}
			spinner.StopWithSuccess("Removed %d %s entries", n, what)
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
	cmd.Flags().BoolVar(&expiredOnly, "expired", false, "only remove expired and unreadable entries")
	return cmd
}

func (c *CLI) cacheStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show entry counts and size of the file cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, ok, err := c.openFileCache()
			if !ok {
				return err
			}
			st, err := fc.Stats()
			if err != nil {
				return err
			}
			printKeyValue("directory", fc.Dir())
			printKeyValue("entries", fmt.Sprint(st.Entries))
			printKeyValue("expired", fmt.Sprint(st.Expired))
			printKeyValue("size", formatBytes(st.Bytes))
			if st.Expired > 0 {
				printNextStep("Drop expired entries", "storeblocks cache clear --expired")
			}
			return nil
		},
	}
}

// cachePathCommand prints the directory so scripts can use it.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			dir, err := cacheDir(cfg)
			if err != nil {
				return fmt.Errorf("resolve cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
