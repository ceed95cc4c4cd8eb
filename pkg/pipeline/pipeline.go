// Package pipeline ties presence aggregation, marker declustering and
// color assignment into one explicit Recompute call. Callers run it
// again whenever the regions, the observations or the selection change.
package pipeline

import (
	"sync"

	"github.com/gnames/nemamap/pkg/decluster"
	"github.com/gnames/nemamap/pkg/ent/observation"
	"github.com/gnames/nemamap/pkg/geo/region"
	"github.com/gnames/nemamap/pkg/palette"
	"github.com/gnames/nemamap/pkg/presence"
	"github.com/google/uuid"
)

// Inputs are the snapshots a recompute works on.
type Inputs struct {
	Regions   *region.Index
	Source    *observation.Source
	Selection presence.Selection
}

// Outputs are consumed by the map: choropleth shading, markers and the
// legend.
type Outputs struct {
	Presence presence.Index
	Points   []DisplayPoint
	Legend   []palette.Entry
	Stats    Stats
}

// Stats summarize a recompute.
type Stats struct {
	Observations  int `json:"observations"`
	Placeable     int `json:"placeable"`
	Unplaceable   int `json:"unplaceable"`
	Located       int `json:"located"`
	Displaced     int `json:"displaced"`
	ShadedRegions int `json:"shadedRegions"`

	// Reused is true when placements came from the cache.
	Reused bool `json:"reused"`
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// OptDecluster sets marker spiral settings.
func OptDecluster(opts ...decluster.Option) Option {
	return func(p *Pipeline) {
		p.decl = decluster.New(opts...)
	}
}

// OptProgress sets a function called for every observation while
// placements are computed.
func OptProgress(fn func()) Option {
	return func(p *Pipeline) {
		p.progress = fn
	}
}

// Pipeline keeps the presence cache and the markers of the last dataset.
// Both are dropped when the dataset fingerprint changes.
type Pipeline struct {
	mu       sync.Mutex
	decl     *decluster.Declusterer
	progress func()

	memo   *presence.Memo
	points []DisplayPoint
}

// New creates a Pipeline.
func New(opts ...Option) *Pipeline {
	res := &Pipeline{decl: decluster.New()}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// Recompute is a one-off run without caching between calls.
func Recompute(in Inputs, opts ...Option) Outputs {
	return New(opts...).Recompute(in)
}

// Recompute computes outputs for the inputs. Presence is aggregated on
// original coordinates, markers are declustered afterwards.
func (p *Pipeline) Recompute(in Inputs) Outputs {
	p.mu.Lock()
	defer p.mu.Unlock()

	if in.Regions == nil {
		in.Regions = region.NewIndex(nil, 0)
	}
	obs := in.Source.Observations()

	fp := presence.Fingerprint(in.Regions.Regions(), obs)
	reused := p.memo != nil && p.memo.Fingerprint() == fp
	if !reused {
		var opts []presence.Option
		if p.progress != nil {
			opts = append(opts, presence.OptProgress(p.progress))
		}
		p.memo = presence.NewMemo(fp, in.Regions, obs, opts...)
		p.points = nil
	}

	idx := p.memo.Index(in.Selection)
	placements := p.memo.Placements()
	if p.points == nil {
		p.points = displayPoints(in.Source, placements, p.decl)
	}

	points := make([]DisplayPoint, len(p.points))
	copy(points, p.points)

	stats := Stats{
		Observations:  in.Source.Len(),
		Placeable:     len(points),
		Located:       len(placements),
		ShadedRegions: len(idx),
		Reused:        reused,
	}
	stats.Unplaceable = stats.Observations - stats.Placeable
	for _, pt := range points {
		if pt.Displaced {
			stats.Displaced++
		}
	}

	return Outputs{
		Presence: idx,
		Points:   points,
		Legend:   palette.Legend(in.Source.Labels()),
		Stats:    stats,
	}
}

// Fingerprint returns the fingerprint of the cached dataset.
func (p *Pipeline) Fingerprint() (uuid.UUID, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.memo == nil {
		return uuid.Nil, false
	}
	return p.memo.Fingerprint(), true
}

// CachedSelections returns the number of selections in the presence
// cache of the current dataset.
func (p *Pipeline) CachedSelections() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.memo == nil {
		return 0
	}
	return p.memo.Len()
}
