// Package fonts provides the font families used to rasterize calendar and
// chart text.
//
// The Go font family is embedded through golang.org/x/image/font/gofont, so
// rendering works without any system fonts. Additional TrueType/OpenType
// files can be registered under their own names.
//
// A [Registry] stores parsed fonts only. Parsed fonts are safe for concurrent
// use, so one registry is shared by every render in the process. Faces are
// not, and are created per render through a [FaceSet].
package fonts

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/matzehuels/calsheet/pkg/errors"
)

// Builtin family names.
const (
	Regular = "go-regular"
	Italic  = "go-italic"
	Medium  = "go-medium"
	Bold    = "go-bold"
	Mono    = "go-mono"
)

// DPI is the resolution faces are built at. At 72 DPI one point is one
// pixel, so a font size is a pixel size.
const DPI = 72

var builtin = map[string][]byte{
	Regular: goregular.TTF,
	Italic:  goitalic.TTF,
	Medium:  gomedium.TTF,
	Bold:    gobold.TTF,
	Mono:    gomono.TTF,
}

// Registry maps family names to parsed fonts.
type Registry struct {
	mu     sync.RWMutex
	parsed map[string]*opentype.Font
	raw    map[string][]byte
}

// NewRegistry creates a registry that knows the builtin Go families.
// Builtins are parsed lazily on first lookup.
func NewRegistry() *Registry {
	raw := make(map[string][]byte, len(builtin))
	for name, data := range builtin {
		raw[name] = data
	}
	return &Registry{
		parsed: make(map[string]*opentype.Font),
		raw:    raw,
	}
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the process-wide registry.
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// Register parses data and stores it under name, replacing any previous
// family with that name.
func (r *Registry) Register(name string, data []byte) error {
	f, err := opentype.Parse(data)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFontFit, err, "parse font %q", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.raw[name] = data
	r.parsed[name] = f
	return nil
}

// Resolve returns a usable family name for spec. A known family name is
// returned as is; anything ending in .ttf or .otf is loaded from disk and
// registered under its path.
func (r *Registry) Resolve(spec string) (string, error) {
	if r.Has(spec) {
		return spec, nil
	}
	ext := strings.ToLower(filepath.Ext(spec))
	if ext != ".ttf" && ext != ".otf" {
		return "", errors.New(errors.ErrCodeFontFit, "unknown font family %q", spec)
	}
	data, err := os.ReadFile(spec)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFontFit, err, "read font file %q", spec)
	}
	if err := r.Register(spec, data); err != nil {
		return "", err
	}
	return spec, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.raw[name]
	return ok
}

// Lookup returns the parsed font for name.
func (r *Registry) Lookup(name string) (*opentype.Font, error) {
	r.mu.RLock()
	f, ok := r.parsed[name]
	data, known := r.raw[name]
	r.mu.RUnlock()
	if ok {
		return f, nil
	}
	if !known {
		return nil, errors.New(errors.ErrCodeFontFit, "unknown font family %q", name)
	}

	f, err := opentype.Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFontFit, err, "parse font %q", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.parsed[name]; ok {
		return existing, nil
	}
	r.parsed[name] = f
	return f, nil
}

// FaceSet caches faces of one family by size. It belongs to a single
// render and is not safe for concurrent use.
type FaceSet struct {
	font  *opentype.Font
	faces map[int]font.Face
}

// NewFaceSet looks up family in r and returns an empty face cache for it.
func (r *Registry) NewFaceSet(family string) (*FaceSet, error) {
	f, err := r.Lookup(family)
	if err != nil {
		return nil, err
	}
	return &FaceSet{font: f, faces: make(map[int]font.Face)}, nil
}

// Face returns the face at size pixels, creating it on first use.
// Sizes below 1 are raised to 1.
func (s *FaceSet) Face(size int) (font.Face, error) {
	if size < 1 {
		size = 1
	}
	if face, ok := s.faces[size]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(s.font, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     DPI,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFontFit, err, "create face at size %d", size)
	}
	s.faces[size] = face
	return face, nil
}

// Close releases every cached face.
func (s *FaceSet) Close() error {
	for size, face := range s.faces {
		_ = face.Close()
		delete(s.faces, size)
	}
	return nil
}
