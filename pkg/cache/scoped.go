package cache

// ScopedKeyer prefixes every key of an inner Keyer. Storefronts that share a
// Redis instance use it to keep their entries apart:
//
//	shop := NewScopedKeyer(NewDefaultKeyer(), "shop:eu:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) PageKey(source, pageID string) string {
	return k.prefix + k.inner.PageKey(source, pageID)
}

func (k *ScopedKeyer) ResponseKey(endpoint, query string, variables map[string]any) string {
	return k.prefix + k.inner.ResponseKey(endpoint, query, variables)
}

func (k *ScopedKeyer) BlockKey(contentHash string, opts BlockKeyOpts) string {
	return k.prefix + k.inner.BlockKey(contentHash, opts)
}
