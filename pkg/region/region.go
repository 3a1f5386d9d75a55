// Package region answers whether a point lies inside a tile provider's coverage area.
package region

import (
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

type Region interface {
	Contains(p orb.Point) (bool, error)
}

// UK is the box the Bing and Ordnance Survey layers treat as Great Britain and Northern Ireland.
var UK = Bound{Bound: orb.Bound{Min: orb.Point{-8.2, 49.8}, Max: orb.Point{1.8, 60.9}}}

// Func adapts a plain function to Region.
type Func func(p orb.Point) (bool, error)

func (f Func) Contains(p orb.Point) (bool, error) {
	return f(p)
}

type Bound struct {
	Bound orb.Bound
}

func NewBound(minLon, minLat, maxLon, maxLat float64) Bound {
	return Bound{Bound: orb.Bound{Min: orb.Point{minLon, minLat}, Max: orb.Point{maxLon, maxLat}}}
}

func (b Bound) Contains(p orb.Point) (bool, error) {
	return b.Bound.Contains(p), nil
}

// Polygons is a region made of (multi)polygons in lon/lat.
type Polygons struct {
	bound    orb.Bound
	polygons orb.MultiPolygon
}

func NewPolygons(mp orb.MultiPolygon) *Polygons {
	return &Polygons{
		bound:    mp.Bound(),
		polygons: mp,
	}
}

func (r *Polygons) Contains(p orb.Point) (bool, error) {
	if len(r.polygons) == 0 || !r.bound.Contains(p) {
		return false, nil
	}

	return planar.MultiPolygonContains(r.polygons, p), nil
}

func (r *Polygons) Bound() orb.Bound {
	return r.bound
}

// LoadGeoJSON reads polygon and multipolygon features of a feature collection, other geometries are skipped.
func LoadGeoJSON(path string) (*Polygons, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return ParseGeoJSON(data)
}

func ParseGeoJSON(data []byte) (*Polygons, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("unable to unmarshal feature collection: %w", err)
	}

	var mp orb.MultiPolygon

	for _, f := range fc.Features {
		switch g := f.Geometry.(type) {
		case orb.Polygon:
			mp = append(mp, g)
		case orb.MultiPolygon:
			mp = append(mp, g...)
		}
	}

	if len(mp) == 0 {
		return nil, fmt.Errorf("no polygons in feature collection")
	}

	return NewPolygons(mp), nil
}
