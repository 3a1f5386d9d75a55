package mapper

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/kdudkov/fmstiles/pkg/model"
)

// MaxLat is the latitude limit of the web mercator tile grid.
const MaxLat = 85.05112878

func radians(a float64) float64 {
	return a / 180 * math.Pi
}

func deg(a float64) float64 {
	return a / math.Pi * 180
}

type TileSystem struct {
	tileSize int
}

func NewTileSystem() *TileSystem {
	return &TileSystem{
		tileSize: 256,
	}
}

func (ts *TileSystem) size(zoom int) float64 {
	return float64(int(1)<<zoom) * float64(ts.tileSize)
}

// LatLon2XY returns global pixel coordinates at zoom.
func (ts *TileSystem) LatLon2XY(lat, lon float64, zoom int) (float64, float64) {
	lat = math.Max(-MaxLat, math.Min(MaxLat, lat))
	size := ts.size(zoom)

	x := (lon + 180) / 360 * size
	y := (1 - math.Log(math.Tan(radians(lat))+(1/math.Cos(radians(lat))))/math.Pi) / 2 * size

	return x, y
}

func (ts *TileSystem) XY2LatLon(x, y float64, zoom int) (float64, float64) {
	size := ts.size(zoom)
	lon := x/size*360.0 - 180.0
	lat := deg(math.Atan(math.Sinh(math.Pi * (1 - 2*y/size))))
	return lat, lon
}

func (ts *TileSystem) LatLon2Tile(lat, lon float64, zoom int) model.Tile {
	x, y := ts.LatLon2XY(lat, lon, zoom)
	n := int(1) << zoom

	return model.Tile{
		X: clamp(int(x)/ts.tileSize, 0, n-1),
		Y: clamp(int(y)/ts.tileSize, 0, n-1),
		Z: zoom,
	}
}

// Viewport returns what a widget of width x height pixels shows around center at zoom.
func (ts *TileSystem) Viewport(center orb.Point, zoom, width, height int) model.Viewport {
	cx, cy := ts.LatLon2XY(center.Lat(), center.Lon(), zoom)
	size := ts.size(zoom)

	x1 := math.Max(0, cx-float64(width)/2)
	x2 := math.Min(size, cx+float64(width)/2)
	y1 := math.Max(0, cy-float64(height)/2)
	y2 := math.Min(size, cy+float64(height)/2)

	maxLat, minLon := ts.XY2LatLon(x1, y1, zoom)
	minLat, maxLon := ts.XY2LatLon(x2, y2, zoom)

	return model.NewViewport(minLon, minLat, maxLon, maxLat, zoom)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
