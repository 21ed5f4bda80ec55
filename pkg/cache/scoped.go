package cache

// ScopedKeyer prefixes every key of an inner keyer. It separates artifacts
// of different users or profiles that share one Redis instance:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "profile:work:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner; nil means the default keyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// RenderKey returns the prefixed inner key.
func (k *ScopedKeyer) RenderKey(kind string, inputs any, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(kind, inputs, opts)
}
