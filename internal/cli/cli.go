package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/matzehuels/calsheet/pkg/buildinfo"
	"github.com/matzehuels/calsheet/pkg/cache"
	"github.com/matzehuels/calsheet/pkg/pipeline"
	"github.com/matzehuels/calsheet/pkg/render/canvas"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "calsheet"
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

	// config resolves settings from flags, CALSHEET_* variables and
	// calsheet.toml, in that order.
	config *viper.Viper
	// configFile overrides the calsheet.toml search when set.
	configFile string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		config: newConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Calsheet renders printable calendar sheets and weekly charts",
		Long:         `Calsheet draws A4 calendar grids with periods and birthdays, and weekly metric charts, as PNG images ready to print.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(c.config, c.configFile); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configFile, "config", "", "config file (default: ./calsheet.toml, then $XDG_CONFIG_HOME/calsheet)")
	flags.Int(keyDPI, canvas.DefaultDPI, "output resolution ("+dpiChoices()+")")
	flags.String(keyLocale, "", "label language (en, es)")
	bindFlags(c.config, flags)

	root.AddCommand(c.calendarCommand())
	root.AddCommand(c.chartCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// dpiChoices lists the supported resolutions for help text.
func dpiChoices() string {
	dpis := canvas.SupportedDPI()
	parts := make([]string, len(dpis))
	for i, dpi := range dpis {
		parts[i] = strconv.Itoa(dpi)
	}
	return strings.Join(parts, ", ")
}

// versionCommand prints build information.
func (c *CLI) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), buildinfo.String())
		},
	}
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner from the resolved settings.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	s, err := readSettings(c.config)
	if err != nil {
		return nil, err
	}
	cfg, err := canvas.New(s.canvasOptions())
	if err != nil {
		return nil, err
	}
	store, err := c.openCache(ctx, s, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(cfg, store, s.keyer(), c.Logger)
	if s.Cache.TTL > 0 {
		r.TTL = s.Cache.TTL
	}
	return r, nil
}

// openCache opens the configured backend. An unreachable backend degrades
// to no caching with a warning.
func (c *CLI) openCache(ctx context.Context, s settings, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cfg, err := s.cacheConfig()
	if err != nil {
		return nil, err
	}
	store, err := cache.Open(ctx, cfg)
	if err != nil {
		if errors.Is(err, cache.ErrNetwork) {
			c.Logger.Warn("cache unavailable, rendering without it", "backend", cfg.Backend, "err", err)
			return cache.NewNullCache(), nil
		}
		return nil, err
	}
	return store, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/calsheet/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configDir returns the user config directory ($XDG_CONFIG_HOME/calsheet).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
