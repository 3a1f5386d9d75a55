package model

import (
	"strconv"
	"strings"
)

// Placeholders of a tile url template. The widget substitutes them per tile.
const (
	PlaceholderZ  = "${z}"
	PlaceholderX  = "${x}"
	PlaceholderY  = "${y}"
	PlaceholderID = "${id}"
)

// XYZPath is the path pattern appended to tile service base urls.
const XYZPath = "/" + PlaceholderZ + "/" + PlaceholderX + "/" + PlaceholderY

// Expand fills the placeholders of a template for one tile.
func Expand(template string, t Tile) string {
	url := strings.ReplaceAll(template, PlaceholderZ, strconv.Itoa(t.Z))
	url = strings.ReplaceAll(url, PlaceholderX, strconv.Itoa(t.X))
	url = strings.ReplaceAll(url, PlaceholderY, strconv.Itoa(t.Y))

	if strings.Contains(url, PlaceholderID) {
		url = strings.ReplaceAll(url, PlaceholderID, t.Quadkey())
	}

	return url
}

// Templates converts a leaflet style url ({z}, {x}, {y}, {s}) into widget templates, one per server part.
func Templates(url string, serverParts []string) []string {
	t := strings.ReplaceAll(url, "{z}", PlaceholderZ)
	t = strings.ReplaceAll(t, "{x}", PlaceholderX)
	t = strings.ReplaceAll(t, "{y}", PlaceholderY)

	if len(serverParts) == 0 || !strings.Contains(t, "{s}") {
		return []string{t}
	}

	res := make([]string, 0, len(serverParts))

	for _, s := range serverParts {
		res = append(res, strings.ReplaceAll(t, "{s}", s))
	}

	return res
}

// Pick chooses the template the widget would use for a tile.
func Pick(templates []string, t Tile) string {
	if len(templates) == 0 {
		return ""
	}

	return templates[(t.X+t.Y)%len(templates)]
}
