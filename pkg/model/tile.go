package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb/maptile"
)

type Tile struct {
	X int
	Y int
	Z int
}

func NewTile(z, x, y int) Tile {
	return Tile{X: x, Y: y, Z: z}
}

func (t Tile) String() string {
	return fmt.Sprintf("%d/%d/%d", t.Z, t.X, t.Y)
}

func (t Tile) Valid() bool {
	if t.Z < 0 || t.Z > 30 {
		return false
	}

	n := 1 << t.Z

	return t.X >= 0 && t.X < n && t.Y >= 0 && t.Y < n
}

// FlipY converts between xyz and tms row numbering.
func (t Tile) FlipY() int {
	return 1<<t.Z - t.Y - 1
}

func (t Tile) MapTile() maptile.Tile {
	return maptile.New(uint32(t.X), uint32(t.Y), maptile.Zoom(t.Z))
}

// Quadkey returns the bing quadkey, one base-4 digit per zoom level.
func (t Tile) Quadkey() string {
	if t.Z == 0 {
		return ""
	}

	s := strconv.FormatUint(t.MapTile().Quadkey(), 4)

	if len(s) < t.Z {
		s = strings.Repeat("0", t.Z-len(s)) + s
	}

	return s
}
