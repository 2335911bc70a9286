package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/packdex/packdex/pkg/cache"
	"github.com/packdex/packdex/pkg/catalog"
)

// buildCommand creates the one-shot build command. It assembles a catalog
// in the foreground and prints it as JSON, using the file cache so
// repeated runs skip already-resolved descriptors and file counts.
func (c *CLI) buildCommand() *cobra.Command {
	var (
		configPath string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "build [type]",
		Short: "Build a catalog and print it as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}

			store, err := c.newCache(ctx, cfg, func() (cache.Cache, error) {
				if noCache {
					return cache.NewNullCache(), nil
				}
				dir, err := cacheDir()
				if err != nil {
					return cache.NewNullCache(), nil
				}
				return cache.NewFileCache(dir)
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

			p := newProgress(c.Logger)
			var built catalog.Catalog
			if len(args) == 1 {
				pt, ok := typeByName(cfg.Types, args[0])
				if !ok {
					return fmt.Errorf("unknown package type %q", args[0])
				}
				built, err = svc.Rebuild(ctx, pt)
			} else {
				built, err = svc.All(ctx)
			}
			if err != nil {
				return err
			}
			p.done(fmt.Sprintf("Built catalog with %d packages", len(built)))

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(built)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to TOML config file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the local cache")
	return cmd
}

func typeByName(types []catalog.PackageType, name string) (catalog.PackageType, bool) {
	for _, pt := range types {
		if pt.Name == name {
			return pt, true
		}
	}
	return catalog.PackageType{}, false
}
