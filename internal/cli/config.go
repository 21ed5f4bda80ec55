package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/matzehuels/calsheet/pkg/cache"
	calerrors "github.com/matzehuels/calsheet/pkg/errors"
	"github.com/matzehuels/calsheet/pkg/render/calendar"
	"github.com/matzehuels/calsheet/pkg/render/canvas"
)

// Configuration keys. Nested keys map to CALSHEET_CACHE_BACKEND and so on.
const (
	keyDPI         = "dpi"
	keyLocale      = "locale"
	keySmooth      = "smooth"
	keyWeeks       = "weeks"
	keyCacheBack   = "cache.backend"
	keyCacheDir    = "cache.dir"
	keyCacheRedis  = "cache.redis_url"
	keyCacheTTL    = "cache.ttl"
	keyCachePrefix = "cache.prefix"
	keyFontsMono   = "fonts.mono"
	keyFontsText   = "fonts.text"
	keyFontsLabel  = "fonts.label"
	envPrefix      = "CALSHEET"
	configFileName = "calsheet"
)

// settings is the resolved configuration.
type settings struct {
	DPI    int           `mapstructure:"dpi"`
	Locale string        `mapstructure:"locale"`
	Smooth int           `mapstructure:"smooth"`
	Weeks  int           `mapstructure:"weeks"`
	Cache  cacheSettings `mapstructure:"cache"`
	Fonts  fontSettings  `mapstructure:"fonts"`
}

type cacheSettings struct {
	Backend  string        `mapstructure:"backend"`
	Dir      string        `mapstructure:"dir"`
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
	Prefix   string        `mapstructure:"prefix"`
}

type fontSettings struct {
	Mono  string `mapstructure:"mono"`
	Text  string `mapstructure:"text"`
	Label string `mapstructure:"label"`
}

// newConfig returns a viper instance with defaults and environment lookup.
func newConfig() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault(keyDPI, canvas.DefaultDPI)
	v.SetDefault(keyLocale, "")
	v.SetDefault(keySmooth, calendar.DefaultSmooth)
	v.SetDefault(keyWeeks, calendar.DefaultWeeks)
	v.SetDefault(keyCacheBack, string(cache.BackendFile))
	v.SetDefault(keyCacheDir, "")
	v.SetDefault(keyCacheRedis, "")
	v.SetDefault(keyCacheTTL, cache.DefaultTTL)
	v.SetDefault(keyCachePrefix, "")
	v.SetDefault(keyFontsMono, "")
	v.SetDefault(keyFontsText, "")
	v.SetDefault(keyFontsLabel, "")
	return v
}

// bindFlags lets the root persistent flags override file and environment
// values.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	for _, key := range []string{keyDPI, keyLocale} {
		if f := flags.Lookup(key); f != nil {
			_ = v.BindPFlag(key, f)
		}
	}
}

// loadConfig reads file, or searches calsheet.toml in the working
// directory and the user config directory. A missing search result is not
// an error; a missing explicit file is.
func loadConfig(v *viper.Viper, file string) error {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		if dir, err := configDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

// readSettings resolves and validates the settings.
func readSettings(v *viper.Viper) (settings, error) {
	var s settings
	if err := v.Unmarshal(&s); err != nil {
		return s, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := calerrors.ValidateSmoothFactor(s.Smooth); err != nil {
		return s, err
	}
	if s.Weeks < 1 {
		return s, calerrors.New(calerrors.ErrCodeInvalidInput, "weeks must be positive, got %d", s.Weeks)
	}
	return s, nil
}

func (s settings) canvasOptions() canvas.Options {
	return canvas.Options{
		DPI:    s.DPI,
		Locale: s.Locale,
		Fonts: canvas.Fonts{
			Mono:  s.Fonts.Mono,
			Text:  s.Fonts.Text,
			Label: s.Fonts.Label,
		},
	}
}

// keyer scopes render keys by the configured prefix. Nil means the
// runner default.
func (s settings) keyer() cache.Keyer {
	if s.Cache.Prefix == "" {
		return nil
	}
	return cache.NewScopedKeyer(nil, s.Cache.Prefix+":")
}

// cacheConfig maps the settings to a cache backend. The file backend
// defaults to the XDG cache directory.
func (s settings) cacheConfig() (cache.Config, error) {
	cfg := cache.Config{
		Backend:  cache.Backend(strings.ToLower(s.Cache.Backend)),
		Dir:      s.Cache.Dir,
		RedisURL: s.Cache.RedisURL,
	}
	if cfg.Backend == cache.BackendFile && cfg.Dir == "" {
		dir, err := cacheDir()
		if err != nil {
			return cfg, fmt.Errorf("resolve cache dir: %w", err)
		}
		cfg.Dir = dir
	}
	return cfg, nil
}
