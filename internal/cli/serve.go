package cli

import (
	"github.com/spf13/cobra"

	"github.com/packdex/packdex/internal/server"
	"github.com/packdex/packdex/pkg/cache"
)

// serveCommand creates the serve command running the catalog HTTP service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		configPath string
		addr       string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the catalog HTTP service",
		Long: `Serve runs the packdex HTTP service: it answers catalog reads from the
snapshot cache, triggers single-flight rebuilds on misses, and serves
archived snapshots while a rebuild is in flight.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			// Without Redis a single instance still works off its own memory.
			store, err := c.newCache(ctx, cfg, func() (cache.Cache, error) {
				c.Logger.Warn("no redis configured, using in-process cache")
				return cache.NewMemoryCache(), nil
			})
			if err != nil {
				return err
			}
			defer store.Close()

			svc, cleanup, err := c.newService(ctx, cfg, store)
			if err != nil {
				return err
			}
			defer cleanup()

			return server.New(cfg.Server.Addr, svc, c.Logger).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to TOML config file")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}
