package layer

import (
	"github.com/kdudkov/fmstiles/pkg/model"
)

// URLGenerator produces the tile url templates the map widget fetches for a viewport.
// The result is never empty unless an error is returned.
type URLGenerator interface {
	GetURLs(v model.Viewport) ([]string, error)
}

// GeneratorFunc adapts a plain function to URLGenerator.
type GeneratorFunc func(v model.Viewport) ([]string, error)

func (f GeneratorFunc) GetURLs(v model.Viewport) ([]string, error) {
	return f(v)
}

// Static always returns the same templates.
type Static []string

func (s Static) GetURLs(model.Viewport) ([]string, error) {
	return s, nil
}

// TemplateLayer returns the generator for an xyz layer from layers.yml.
func TemplateLayer(d *model.LayerDescription) Static {
	return d.Templates()
}

// LocalLayer points the widget at a source served by this process under Prefix.
type LocalLayer struct {
	Prefix string
	Key    string
}

func Local(prefix, key string) LocalLayer {
	return LocalLayer{Prefix: prefix, Key: key}
}

func (l LocalLayer) GetURLs(model.Viewport) ([]string, error) {
	return []string{l.Prefix + "/" + l.Key + model.XYZPath}, nil
}
