package pipeline

import (
	"github.com/gnames/nemamap/pkg/decluster"
	"github.com/gnames/nemamap/pkg/ent/observation"
	"github.com/gnames/nemamap/pkg/palette"
	"github.com/gnames/nemamap/pkg/presence"
)

// DisplayPoint is a map marker of a placeable observation. Lat and Lng
// may be moved by declustering, the original coordinates are kept in
// OrigLat and OrigLng.
type DisplayPoint struct {
	Position int    `json:"position"`
	Label    string `json:"label"`
	Taxon    string `json:"taxon"`
	Color    string `json:"color"`

	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	OrigLat float64 `json:"origLat"`
	OrigLng float64 `json:"origLng"`

	// Displaced is true when the marker was moved off its original
	// coordinates.
	Displaced bool `json:"displaced"`

	// Region is the region that contains the original coordinates, it is
	// empty for points outside of all regions.
	Region string `json:"region,omitempty"`

	SamplingRegion  string `json:"samplingRegion,omitempty"`
	SamplingState   string `json:"samplingState,omitempty"`
	SiteDescription string `json:"siteDescription,omitempty"`
	PlantAssociated string `json:"plantAssociated,omitempty"`
	SampleSize      *int   `json:"sampleSize"`
	Reference       string `json:"reference,omitempty"`
	Material        string `json:"material,omitempty"`
	CollectedBy     string `json:"collectedBy,omitempty"`
	SamplingDate    string `json:"samplingDate,omitempty"`
}

// displayPoints creates markers of all placeable observations in
// sequence order.
func displayPoints(
	src *observation.Source,
	placements []presence.Placement,
	decl *decluster.Declusterer,
) []DisplayPoint {
	regions := make(map[int]string, len(placements))
	for _, p := range placements {
		regions[p.Position] = p.Region
	}

	var res []DisplayPoint
	var pts []decluster.Point
	for o := range src.Observations() {
		lat, lng, ok := o.LatLng()
		if !ok {
			continue
		}
		res = append(res, newDisplayPoint(o, regions[o.Position]))
		pts = append(pts, decluster.Point{Lat: lat, Lng: lng})
	}

	moved := decl.Decluster(pts)
	for i := range res {
		res[i].Lat = moved[i].Lat
		res[i].Lng = moved[i].Lng
		res[i].Displaced = moved[i] != pts[i]
	}
	return res
}

func newDisplayPoint(o observation.Observation, region string) DisplayPoint {
	res := DisplayPoint{
		Position:        o.Position,
		Label:           o.Label,
		Taxon:           o.Taxon,
		Color:           palette.ColorOf(o.Label),
		OrigLat:         o.Latitude.Value,
		OrigLng:         o.Longitude.Value,
		Region:          region,
		SamplingRegion:  o.SamplingRegion,
		SamplingState:   o.SamplingState,
		SiteDescription: o.SiteDescription,
		PlantAssociated: o.PlantAssociated,
		Reference:       o.Reference,
		Material:        o.Material,
		CollectedBy:     o.CollectedBy,
		SamplingDate:    o.SamplingDate,
	}
	if o.SampleSize.Valid {
		n := o.SampleSize.Max
		res.SampleSize = &n
	}
	return res
}
