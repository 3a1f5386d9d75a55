package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
)

// Viewport is the visible map area as handed over by the map widget: lon/lat bounds and a zoom level.
type Viewport struct {
	Bound orb.Bound
	Zoom  int
}

func NewViewport(minLon, minLat, maxLon, maxLat float64, zoom int) Viewport {
	return Viewport{
		Bound: orb.Bound{Min: orb.Point{minLon, minLat}, Max: orb.Point{maxLon, maxLat}},
		Zoom:  zoom,
	}
}

// TileViewport returns the viewport covered by a single tile.
func TileViewport(t Tile) Viewport {
	return Viewport{
		Bound: t.MapTile().Bound(),
		Zoom:  t.Z,
	}
}

func (v Viewport) Center() orb.Point {
	return v.Bound.Center()
}

// CenterTile is the tile under the viewport center at the viewport zoom.
func (v Viewport) CenterTile() Tile {
	mt := maptile.At(v.Center(), maptile.Zoom(v.Zoom))

	return Tile{X: int(mt.X), Y: int(mt.Y), Z: int(mt.Z)}
}

func (v Viewport) String() string {
	return fmt.Sprintf("%s z%d", FormatBBox(v.Bound), v.Zoom)
}

// ParseBBox parses "minlon,minlat,maxlon,maxlat".
func ParseBBox(s string) (orb.Bound, error) {
	parts := strings.Split(s, ",")

	if len(parts) != 4 {
		return orb.Bound{}, fmt.Errorf("invalid bbox %q: need 4 values", s)
	}

	var v [4]float64

	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return orb.Bound{}, fmt.Errorf("invalid bbox %q: %w", s, err)
		}

		v[i] = f
	}

	if v[0] > v[2] || v[1] > v[3] {
		return orb.Bound{}, fmt.Errorf("invalid bbox %q: min is greater than max", s)
	}

	return orb.Bound{Min: orb.Point{v[0], v[1]}, Max: orb.Point{v[2], v[3]}}, nil
}

func FormatBBox(b orb.Bound) string {
	return strings.Join([]string{
		strconv.FormatFloat(b.Min.Lon(), 'f', -1, 64),
		strconv.FormatFloat(b.Min.Lat(), 'f', -1, 64),
		strconv.FormatFloat(b.Max.Lon(), 'f', -1, 64),
		strconv.FormatFloat(b.Max.Lat(), 'f', -1, 64),
	}, ",")
}
