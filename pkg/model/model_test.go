package model

import (
	"testing"
)

func TestQuadkey(t *testing.T) {
	tests := []struct {
		tile Tile
		key  string
	}{
		{NewTile(3, 3, 5), "213"},
		{NewTile(3, 0, 0), "000"},
		{NewTile(1, 1, 1), "3"},
		{NewTile(2, 1, 0), "01"},
		{NewTile(0, 0, 0), ""},
	}

	for _, tt := range tests {
		t.Run(tt.tile.String(), func(t *testing.T) {
			if got := tt.tile.Quadkey(); got != tt.key {
				t.Errorf("got %q, must be %q", got, tt.key)
			}
		})
	}
}

func TestExpand(t *testing.T) {
	tile := NewTile(16, 32000, 21000)

	if got := Expand("https://tiles.example/os/${z}/${x}/${y}.png?key=A", tile); got != "https://tiles.example/os/16/32000/21000.png?key=A" {
		t.Errorf("wrong url %s", got)
	}

	if got := Expand("//ecn.t0.tiles.virtualearth.net/tiles/a${id}.jpeg", NewTile(3, 3, 5)); got != "//ecn.t0.tiles.virtualearth.net/tiles/a213.jpeg" {
		t.Errorf("wrong url %s", got)
	}
}

func TestTemplates(t *testing.T) {
	res := Templates("https://{s}.tile.example/{z}/{x}/{y}.png", []string{"a", "b"})

	if len(res) != 2 {
		t.Fatalf("got %d templates", len(res))
	}

	if res[1] != "https://b.tile.example/${z}/${x}/${y}.png" {
		t.Errorf("wrong template %s", res[1])
	}

	res = Templates("https://tile.example/{z}/{x}/{y}.png", []string{"a", "b"})

	if len(res) != 1 {
		t.Errorf("got %d templates without {s}", len(res))
	}
}

func TestPick(t *testing.T) {
	l := []string{"a", "b", "c"}

	if got := Pick(l, NewTile(5, 1, 1)); got != "c" {
		t.Errorf("got %s", got)
	}

	if got := Pick(nil, NewTile(5, 1, 1)); got != "" {
		t.Errorf("got %s", got)
	}
}

func TestParseBBox(t *testing.T) {
	b, err := ParseBBox("-0.2, 51.4,0.1,51.6")
	if err != nil {
		t.Fatal(err)
	}

	if b.Min.Lon() != -0.2 || b.Max.Lat() != 51.6 {
		t.Errorf("wrong bound %v", b)
	}

	if FormatBBox(b) != "-0.2,51.4,0.1,51.6" {
		t.Errorf("wrong format %s", FormatBBox(b))
	}

	for _, s := range []string{"", "1,2,3", "a,1,2,3", "1,1,0,2"} {
		if _, err := ParseBBox(s); err == nil {
			t.Errorf("no error for %q", s)
		}
	}
}

func TestTileViewport(t *testing.T) {
	tile := NewTile(16, 32740, 21793)
	v := TileViewport(tile)

	if v.Zoom != 16 {
		t.Errorf("wrong zoom %d", v.Zoom)
	}

	if got := v.CenterTile(); got != tile {
		t.Errorf("center tile %s, must be %s", got, tile)
	}
}

func TestTileValid(t *testing.T) {
	if !NewTile(2, 3, 3).Valid() {
		t.Error("must be valid")
	}

	if NewTile(2, 4, 0).Valid() || NewTile(-1, 0, 0).Valid() {
		t.Error("must be invalid")
	}

	if NewTile(2, 0, 0).FlipY() != 3 {
		t.Error("wrong flip")
	}
}
