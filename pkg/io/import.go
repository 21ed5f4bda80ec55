package io

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/calsheet/pkg/errors"
)

// Format is a bundle encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the bundle format from the file extension. Unknown
// extensions fail with ErrCodeUnsupported.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", errors.New(errors.ErrCodeUnsupported, "bundle %s: want a .json or .toml file", path)
}

// ReadCalendar decodes a calendar bundle from r.
//
// Unknown keys are rejected so a typo such as "weekends" does not silently
// drop a field. Dates are not parsed here; malformed dates surface when the
// render lays out the bundle. ReadCalendar does not close r.
func ReadCalendar(r io.Reader, f Format) (*Calendar, error) {
	var c Calendar
	if err := decode(r, f, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// ReadChart decodes a chart bundle from r. Every sample must be a two
// element [day, amount] array. ReadChart does not close r.
func ReadChart(r io.Reader, f Format) (*Chart, error) {
	var c Chart
	if err := decode(r, f, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// ImportCalendar reads the calendar bundle at path. The format follows the
// extension; see [FormatFromPath].
func ImportCalendar(path string) (*Calendar, error) {
	var c *Calendar
	err := importFile(path, func(r io.Reader, f Format) (err error) {
		c, err = ReadCalendar(r, f)
		return err
	})
	return c, err
}

// ImportChart reads the chart bundle at path.
func ImportChart(path string) (*Chart, error) {
	var c *Chart
	err := importFile(path, func(r io.Reader, f Format) (err error) {
		c, err = ReadChart(r, f)
		return err
	})
	return c, err
}

func importFile(path string, read func(io.Reader, Format) error) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer file.Close()

	if err := read(file, f); err != nil {
		return errors.Wrap(errors.GetCode(err), err, "read %s", path)
	}
	return nil
}

func decode(r io.Reader, f Format, v any) error {
	switch f {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(v); err != nil {
			return errors.Wrap(errors.ErrCodeParse, err, "decode json")
		}
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeParse, err, "decode toml")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return errors.Parse("decode toml: unknown key %q", undecoded[0].String())
		}
	default:
		return errors.New(errors.ErrCodeUnsupported, "unsupported bundle format %q", f)
	}
	return nil
}
