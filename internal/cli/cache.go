package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/calsheet/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the render cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached render",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			s, err := readSettings(c.config)
			if err != nil {
				return err
			}
			cfg, err := s.cacheConfig()
			if err != nil {
				return err
			}
			if cfg.Backend == cache.BackendNone {
				printWarning(out, "Caching is disabled")
				return nil
			}

			store, err := cache.Open(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Clear(ctx); err != nil {
				return err
			}
			printSuccess(out, "Cleared the %s cache", cfg.Backend)
			printDetail(out, "%s", location(cfg))
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where renders are cached",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := readSettings(c.config)
			if err != nil {
				return err
			}
			cfg, err := s.cacheConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), location(cfg))
			return nil
		},
	}
}

// location describes where cfg stores entries.
func location(cfg cache.Config) string {
	switch cfg.Backend {
	case cache.BackendFile:
		return cfg.Dir
	case cache.BackendRedis:
		return cfg.RedisURL + " (prefix " + cache.RedisPrefix + ")"
	default:
		return string(cfg.Backend)
	}
}
