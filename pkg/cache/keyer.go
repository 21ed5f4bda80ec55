package cache

// Keyer derives cache keys.
type Keyer interface {
	// RenderKey identifies one rendered artifact. inputs must marshal to
	// JSON deterministically.
	RenderKey(kind string, inputs any, opts RenderKeyOpts) string
}

// RenderKeyOpts holds the canvas settings and the render date. Today is
// part of the key because relative windows and year-less dates move with
// it.
type RenderKeyOpts struct {
	DPI    int       `json:"dpi"`
	Width  int       `json:"width"`
	Height int       `json:"height"`
	Locale string    `json:"locale"`
	Fonts  [3]string `json:"fonts"`
	Today  int       `json:"today"`
}

// DefaultKeyer hashes every component.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// RenderKey returns "render:<kind>:<hash>".
func (DefaultKeyer) RenderKey(kind string, inputs any, opts RenderKeyOpts) string {
	return hashKey("render:"+kind, inputs, opts)
}
