package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/storeblocks/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve rendered pages over HTTP",
		Long: `Serve rendered pages over HTTP.

Pages are rendered on request from the configured source. Form blocks post
back to the server, which validates and stores the submission before
re-rendering the page with the outcome.`,
		Example: `  storeblocks serve --addr :9090
  STOREBLOCKS_SOURCE_KIND=graphql STOREBLOCKS_SOURCE_ENDPOINT=https://cms.example.com/graphql storeblocks serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Connecting to %s source...", cfg.Source.Kind))
			spinner.Start()
			runner, err := c.newRunner(ctx, cfg, noCache)
			if err != nil {
				spinner.StopWithError("Source unavailable")
				return err
			}
			defer runner.Close()

			spinner.Update(fmt.Sprintf("Opening %s submission store...", cfg.Submissions.Backend))
			store, closeStore, err := submissionStore(ctx, cfg)
			if err != nil {
				spinner.StopWithError("Submission store unavailable")
				return err
			}
			defer closeStore()
			spinner.Stop()

			srv := server.New(runner, server.Config{
				Addr:         cfg.Server.Addr,
				ReadTimeout:  cfg.Server.ReadTimeout.Duration,
				WriteTimeout: cfg.Server.WriteTimeout.Duration,
				Defaults:     renderDefaults(cfg),
				Store:        store,
				Logger:       c.Logger,
			})

			printInfo("Serving %s pages on %s", StyleHighlight.Render(runner.Source.Name()), StyleLink.Render("http://localhost"+displayAddr(cfg.Server.Addr)))
			printNextStep("Try", "curl http://localhost"+displayAddr(cfg.Server.Addr)+"/pages/home")
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// displayAddr turns a listen address into the host-less form shown in
// URLs: ":8080" stays, "0.0.0.0:8080" becomes ":8080".
func displayAddr(addr string) string {
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			return addr[i:]
		}
	}
	return ":" + addr
}
