package activity

import (
	"errors"
	"fmt"
	"sort"
)

// Registry resolves (kind, revision) pairs to decoders. It is built once at
// startup and is read-only afterwards, so it is safe for concurrent use.
type Registry struct {
	decoders map[Key]Decoder
}

// NewRegistry indexes the given decoders. Registering the same key twice is
// an error rather than a silent overwrite.
func NewRegistry(decoders ...Decoder) (*Registry, error) {
	r := &Registry{decoders: make(map[Key]Decoder, len(decoders))}
	for _, d := range decoders {
		if d.Kind == "" {
			return nil, errors.New("activity: decoder with empty event kind")
		}
		if d.Revision == 0 {
			return nil, fmt.Errorf("activity: decoder %s: revisions start at 1", d.Kind)
		}
		if d.decode == nil {
			return nil, fmt.Errorf("activity: decoder %s has no decode function", d.Key())
		}
		if _, dup := r.decoders[d.Key()]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateDecoder, d.Key())
		}
		r.decoders[d.Key()] = d
	}
	return r, nil
}

// MustNewRegistry is NewRegistry for static catalogs; it panics on error.
func MustNewRegistry(decoders ...Decoder) *Registry {
	r, err := NewRegistry(decoders...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) Lookup(kind EventKind, rev Revision) (Decoder, bool) {
	d, ok := r.decoders[Key{Kind: kind, Revision: rev}]
	return d, ok
}

func (r *Registry) Len() int { return len(r.decoders) }

// Decoders returns every registered decoder ordered by kind, then revision.
func (r *Registry) Decoders() []Decoder {
	out := make([]Decoder, 0, len(r.decoders))
	for _, d := range r.decoders {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Revision < out[j].Revision
	})
	return out
}

// Missing returns the keys that have no registered decoder, in input order.
// It is used to detect drift between stored history and this binary.
func (r *Registry) Missing(keys []Key) []Key {
	var missing []Key
	for _, k := range keys {
		if _, ok := r.decoders[k]; !ok {
			missing = append(missing, k)
		}
	}
	return missing
}
