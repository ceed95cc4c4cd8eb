// Package observation holds nematode records and turns the source
// document into one canonical, flat sequence of observations.
//
// This is a pure package: it decodes bytes that are already in memory.
package observation

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Coordinate is a latitude or longitude that may be absent in the source.
// The source is not consistent: numbers, numeric strings, empty strings
// and nulls are all found in the wild.
type Coordinate struct {
	Value float64
	Valid bool
}

// NewCoordinate creates a coordinate. NaN and infinities are not valid.
func NewCoordinate(f float64) Coordinate {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Coordinate{}
	}
	return Coordinate{Value: f, Valid: true}
}

// within checks that a valid coordinate does not exceed limit by
// absolute value.
func (c Coordinate) within(limit float64) bool {
	return c.Valid && math.Abs(c.Value) <= limit
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Coordinate) UnmarshalJSON(b []byte) error {
	*c = Coordinate{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			*c = NewCoordinate(f)
		}
		return nil
	}

	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*c = NewCoordinate(f)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (c Coordinate) MarshalJSON() ([]byte, error) {
	if !c.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(c.Value)
}

// Entry is one raw record as it appears in the source document.
// Label and taxa fields are only used by the flat form of the document,
// in the grouped form they come from the group.
type Entry struct {
	Label           string   `json:"label,omitempty"`
	CommonName      string   `json:"commonName,omitempty"`
	ScientificTaxa  []string `json:"scientificTaxa,omitempty"`
	ScientificTaxon string   `json:"scientificTaxon,omitempty"`

	Latitude        Coordinate `json:"latitude"`
	Longitude       Coordinate `json:"longitude"`
	SamplingRegion  string     `json:"samplingRegion"`
	SamplingState   string     `json:"samplingState"`
	SiteDescription string     `json:"siteDescription"`
	PlantAssociated string     `json:"plantAssociated"`
	SampleSize      SampleSize `json:"sampleSize"`
	Reference       string     `json:"reference"`
	Material        string     `json:"material"`
	CollectedBy     string     `json:"collectedBy"`
	SamplingDate    string     `json:"samplingDate"`
}

// Group is a named collection of entries sharing a common name label.
type Group struct {
	// Key is the mapping key of the group in the source document. For
	// the flat form it is the label.
	Key            string
	Label          string
	ScientificTaxa []string
	Entries        []Entry
}

// Observation is a single nematode record tagged with its group label
// and scientific taxon string.
type Observation struct {
	// Position is the index of the observation in the flattened
	// sequence. Observations have no other identity.
	Position int `json:"position"`

	Label string   `json:"label"`
	Taxon string   `json:"taxon"`
	Taxa  []string `json:"taxa,omitempty"`

	Latitude        Coordinate `json:"latitude"`
	Longitude       Coordinate `json:"longitude"`
	SamplingRegion  string     `json:"samplingRegion,omitempty"`
	SamplingState   string     `json:"samplingState,omitempty"`
	SiteDescription string     `json:"siteDescription,omitempty"`
	PlantAssociated string     `json:"plantAssociated,omitempty"`
	SampleSize      SampleSize `json:"sampleSize"`
	Reference       string     `json:"reference,omitempty"`
	Material        string     `json:"material,omitempty"`
	CollectedBy     string     `json:"collectedBy,omitempty"`
	SamplingDate    string     `json:"samplingDate,omitempty"`
}

// Placeable is true when both coordinates are present and within
// ±90 latitude and ±180 longitude.
func (o Observation) Placeable() bool {
	return o.Latitude.within(90) && o.Longitude.within(180)
}

// LatLng returns coordinates of a placeable observation.
func (o Observation) LatLng() (lat, lng float64, ok bool) {
	if !o.Placeable() {
		return 0, 0, false
	}
	return o.Latitude.Value, o.Longitude.Value, true
}

func newObservation(pos int, g Group, taxon string, e Entry) Observation {
	return Observation{
		Position:        pos,
		Label:           g.Label,
		Taxon:           taxon,
		Taxa:            g.ScientificTaxa,
		Latitude:        e.Latitude,
		Longitude:       e.Longitude,
		SamplingRegion:  e.SamplingRegion,
		SamplingState:   e.SamplingState,
		SiteDescription: e.SiteDescription,
		PlantAssociated: e.PlantAssociated,
		SampleSize:      e.SampleSize,
		Reference:       e.Reference,
		Material:        e.Material,
		CollectedBy:     e.CollectedBy,
		SamplingDate:    e.SamplingDate,
	}
}
