package presence

import (
	"bytes"
	"iter"
	"strconv"
	"sync"

	"github.com/gnames/gnfmt"
	"github.com/gnames/gnuuid"
	"github.com/gnames/nemamap/pkg/ent/observation"
	"github.com/gnames/nemamap/pkg/geo/region"
	"github.com/google/uuid"
	"github.com/paulmach/orb/encoding/wkb"
)

// Fingerprint is a UUID v5 of everything the pipeline reads: region
// names with their full geometry, and every field of every observation.
// Any change of input gives a new fingerprint.
func Fingerprint(
	regions []region.Region,
	obs iter.Seq[observation.Observation],
) uuid.UUID {
	var buf bytes.Buffer
	for _, r := range regions {
		buf.WriteString(r.Name)
		buf.WriteByte('|')
		buf.WriteString(strconv.Itoa(r.Position))
		buf.WriteByte('|')
		if r.Geometry != nil {
			if bs, err := wkb.Marshal(r.Geometry); err == nil {
				buf.Write(bs)
			}
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("--\n")

	enc := gnfmt.GNjson{}
	for o := range obs {
		if bs, err := enc.Encode(o); err == nil {
			buf.Write(bs)
		}
		buf.WriteByte('\n')
	}
	return gnuuid.New(buf.String())
}

// Memo caches presence indices of one dataset. Placements are computed
// once, on first use, every selection is then a cheap Build. Entries are
// keyed by a UUID v5 of the dataset fingerprint and the selection key.
type Memo struct {
	mu          sync.Mutex
	fingerprint uuid.UUID
	loc         Locator
	obs         iter.Seq[observation.Observation]
	opts        []Option

	located    bool
	placements []Placement
	entries    map[uuid.UUID]Index
	keys       []uuid.UUID
}

// NewMemo creates a cache for a dataset with the given fingerprint.
// Options are passed to Locate.
func NewMemo(
	fingerprint uuid.UUID,
	loc Locator,
	obs iter.Seq[observation.Observation],
	opts ...Option,
) *Memo {
	return &Memo{
		fingerprint: fingerprint,
		loc:         loc,
		obs:         obs,
		opts:        opts,
		entries:     make(map[uuid.UUID]Index),
	}
}

// Fingerprint returns the dataset fingerprint of the cache.
func (m *Memo) Fingerprint() uuid.UUID {
	return m.fingerprint
}

// Key returns the cache key of a selection.
func (m *Memo) Key(sel Selection) uuid.UUID {
	return gnuuid.New(m.fingerprint.String() + "|" + sel.Key())
}

// Index returns the presence index for a selection, computing it if it
// is not cached. The caller gets its own copy.
func (m *Memo) Index(sel Selection) Index {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := m.Key(sel)
	if idx, ok := m.entries[key]; ok {
		return idx.Clone()
	}

	var idx Index
	if sel.IsEmpty() {
		idx = make(Index)
	} else {
		idx = Build(m.locate(), sel)
	}
	m.entries[key] = idx
	m.keys = append(m.keys, key)
	return idx.Clone()
}

// Placements returns placements of the dataset.
func (m *Memo) Placements() []Placement {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := make([]Placement, len(m.locate()))
	copy(res, m.placements)
	return res
}

// Len returns the number of cached selections.
func (m *Memo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Keys returns cache keys in the order they were added.
func (m *Memo) Keys() []uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := make([]uuid.UUID, len(m.keys))
	copy(res, m.keys)
	return res
}

func (m *Memo) locate() []Placement {
	if !m.located {
		m.placements = Locate(m.loc, m.obs, m.opts...)
		m.located = true
	}
	return m.placements
}
