// Package decluster spreads markers that share coordinates into a small
// spiral, so every record stays clickable on a map.
//
// Points are grouped by coordinates rounded to 6 decimal places. Members
// of a group get a radius that grows every 6 members and a golden-angle
// bearing. Points that share coordinates with nobody are returned as is.
package decluster

import (
	"math"
	"strconv"
)

const (
	// DefaultStep is the radius increment in degrees between rings.
	DefaultStep = 0.00015

	// DefaultMaxRadius caps the ring radius in degrees.
	DefaultMaxRadius = 0.0015

	// RingSize is the number of members that share one ring.
	RingSize = 6

	// GoldenAngle is the bearing increment in degrees.
	GoldenAngle = 137.5

	// MinCos is the floor of the longitude compensation factor.
	MinCos = 0.2
)

// Point is a latitude/longitude pair in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Key returns the collision key of the point.
func (p Point) Key() string {
	return strconv.FormatFloat(p.Lat, 'f', 6, 64) + "," +
		strconv.FormatFloat(p.Lng, 'f', 6, 64)
}

// Option modifies the spiral geometry.
type Option func(*Declusterer)

// OptStep sets the radius increment. Non-positive values are ignored.
func OptStep(step float64) Option {
	return func(d *Declusterer) {
		if step > 0 {
			d.step = step
		}
	}
}

// OptMaxRadius sets the radius cap. Non-positive values are ignored.
func OptMaxRadius(r float64) Option {
	return func(d *Declusterer) {
		if r > 0 {
			d.maxRadius = r
		}
	}
}

// Declusterer keeps the spiral settings.
type Declusterer struct {
	step      float64
	maxRadius float64
}

// New creates a Declusterer with default step and radius cap.
func New(opts ...Option) *Declusterer {
	res := &Declusterer{step: DefaultStep, maxRadius: DefaultMaxRadius}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// MaxDisplacement is the farthest, in degrees, a point can be moved.
func (d *Declusterer) MaxDisplacement() float64 {
	return d.maxRadius / MinCos
}

// Decluster returns a new slice of the same length and order as pts.
// The input is never modified.
func (d *Declusterer) Decluster(pts []Point) []Point {
	res := make([]Point, len(pts))
	copy(res, pts)

	for _, group := range Collisions(pts) {
		for i, idx := range group {
			res[idx] = d.offset(pts[idx], i)
		}
	}
	return res
}

// offset returns the position of the i-th member of a collision group
// centered at p.
func (d *Declusterer) offset(p Point, i int) Point {
	ring := i / RingSize
	radius := min(d.step*float64(ring+1), d.maxRadius)
	angle := float64(i) * GoldenAngle * math.Pi / 180

	scale := max(math.Cos(p.Lat*math.Pi/180), MinCos)
	return Point{
		Lat: p.Lat + radius*math.Sin(angle),
		Lng: p.Lng + radius*math.Cos(angle)/scale,
	}
}

// Collisions returns indices of points that share a key with at least one
// other point. Groups follow the order of their first member, indices in
// a group keep input order.
func Collisions(pts []Point) [][]int {
	keys := make(map[string]int)
	var groups [][]int
	for i, p := range pts {
		k := p.Key()
		j, ok := keys[k]
		if !ok {
			j = len(groups)
			keys[k] = j
			groups = append(groups, nil)
		}
		groups[j] = append(groups[j], i)
	}

	var res [][]int
	for _, g := range groups {
		if len(g) > 1 {
			res = append(res, g)
		}
	}
	return res
}

// Decluster spreads colliding points with a one-off Declusterer.
func Decluster(pts []Point, opts ...Option) []Point {
	return New(opts...).Decluster(pts)
}
