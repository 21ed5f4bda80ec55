// Package locale holds the localized strings drawn onto calendars and
// charts: weekday header letters, month abbreviations and the chart's
// average caption.
package locale

import (
	"embed"
	"encoding/json"
	"io/fs"
	"strings"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/matzehuels/calsheet/pkg/errors"
)

// Default is the locale used when none is configured.
const Default = "es"

//go:embed locales/*.json
var localeFS embed.FS

var weekdayIDs = [7]string{
	"WeekdayMon", "WeekdayTue", "WeekdayWed", "WeekdayThu",
	"WeekdayFri", "WeekdaySat", "WeekdaySun",
}

var monthIDs = [12]string{
	"MonthJan", "MonthFeb", "MonthMar", "MonthApr", "MonthMay", "MonthJun",
	"MonthJul", "MonthAug", "MonthSep", "MonthOct", "MonthNov", "MonthDec",
}

// Labels is the resolved set of strings for one locale.
type Labels struct {
	Tag      string
	Weekdays [7]string  // indexed by weekday, 0 = Monday
	Months   [12]string // indexed by month-1
	Average  string
}

// Month returns the abbreviation of month m (1-12).
func (l Labels) Month(m int) string {
	if m < 1 || m > 12 {
		return ""
	}
	return l.Months[m-1]
}

var (
	bundle     *i18n.Bundle
	supported  []string
	bundleErr  error
	bundleOnce sync.Once
)

func loadBundle() (*i18n.Bundle, []string, error) {
	bundleOnce.Do(func() {
		b := i18n.NewBundle(language.English)
		b.RegisterUnmarshalFunc("json", json.Unmarshal)

		entries, err := fs.ReadDir(localeFS, "locales")
		if err != nil {
			bundleErr = errors.Wrap(errors.ErrCodeInternal, err, "read embedded locales")
			return
		}
		for _, entry := range entries {
			name := entry.Name()
			if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
				continue
			}
			if _, err := b.LoadMessageFileFS(localeFS, "locales/"+name); err != nil {
				bundleErr = errors.Wrap(errors.ErrCodeInternal, err, "load locale file %s", name)
				return
			}
			supported = append(supported, strings.TrimSuffix(strings.TrimPrefix(name, "active."), ".json"))
		}
		bundle = b
	})
	return bundle, supported, bundleErr
}

// Supported lists the embedded locale tags.
func Supported() []string {
	_, tags, _ := loadBundle()
	return append([]string(nil), tags...)
}

// Load resolves the labels for tag. An empty tag means Default. Tags
// without an embedded message file fail with ErrCodeInvalidLocale.
func Load(tag string) (Labels, error) {
	if tag == "" {
		tag = Default
	}
	b, tags, err := loadBundle()
	if err != nil {
		return Labels{}, err
	}

	parsed, err := language.Parse(tag)
	if err != nil {
		return Labels{}, errors.Wrap(errors.ErrCodeInvalidLocale, err, "invalid locale %q", tag)
	}
	base, _ := parsed.Base()
	if !contains(tags, base.String()) {
		return Labels{}, errors.New(errors.ErrCodeInvalidLocale,
			"unsupported locale %q (available: %s)", tag, strings.Join(tags, ", "))
	}

	loc := i18n.NewLocalizer(b, base.String())
	msg := func(id string) (string, error) {
		s, err := loc.Localize(&i18n.LocalizeConfig{MessageID: id})
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeInternal, err, "locale %s: missing message %s", tag, id)
		}
		return s, nil
	}

	labels := Labels{Tag: base.String()}
	for i, id := range weekdayIDs {
		if labels.Weekdays[i], err = msg(id); err != nil {
			return Labels{}, err
		}
	}
	for i, id := range monthIDs {
		if labels.Months[i], err = msg(id); err != nil {
			return Labels{}, err
		}
	}
	if labels.Average, err = msg("Average"); err != nil {
		return Labels{}, err
	}
	return labels, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
