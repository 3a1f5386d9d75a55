package model

import "strings"

// LayerDescription is an xyz tile layer as listed in layers.yml.
type LayerDescription struct {
	Name        string   `yaml:"name"`
	Key         string   `yaml:"key"`
	MinZoom     int      `yaml:"minZoom"`
	MaxZoom     int      `yaml:"maxZoom"`
	Url         string   `yaml:"url"`
	TileType    string   `yaml:"tileType"`
	ServerParts []string `yaml:"serverParts"`
}

func (l *LayerDescription) Templates() []string {
	return Templates(l.Url, l.ServerParts)
}

func (l *LayerDescription) GetContentType() string {
	return ContentType(l.TileType)
}

func ContentType(ext string) string {
	switch strings.ToLower(ext) {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "webp":
		return "image/webp"
	default:
		return "image/png"
	}
}
