package layer

import (
	"sync"

	"github.com/kdudkov/fmstiles/pkg/region"
)

// Option describes a layer for the widget's layer switcher.
type Option struct {
	Key     string `json:"key"`
	Name    string `json:"name"`
	MapType string `json:"map_type"`
	MinZoom int    `json:"min_zoom"`
	MaxZoom int    `json:"max_zoom"`

	Attribution string    `json:"attribution,omitempty"`
	Bounds      []float64 `json:"bounds,omitempty"`
}

type entry struct {
	opt Option
	gen URLGenerator
}

// Registry keeps generators in registration order, the first one is the primary layer.
type Registry struct {
	mx      sync.RWMutex
	entries []entry
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Add registers a generator, replacing one with the same key in place.
func (r *Registry) Add(opt Option, gen URLGenerator) {
	if gen == nil {
		return
	}

	r.mx.Lock()
	defer r.mx.Unlock()

	for i, e := range r.entries {
		if e.opt.Key == opt.Key {
			r.entries[i] = entry{opt: opt, gen: gen}
			return
		}
	}

	r.entries = append(r.entries, entry{opt: opt, gen: gen})
}

func (r *Registry) Remove(key string) {
	r.mx.Lock()
	defer r.mx.Unlock()

	for i, e := range r.entries {
		if e.opt.Key == key {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return
		}
	}
}

func (r *Registry) Get(key string) (URLGenerator, bool) {
	r.mx.RLock()
	defer r.mx.RUnlock()

	for _, e := range r.entries {
		if e.opt.Key == key {
			return e.gen, true
		}
	}

	return nil, false
}

func (r *Registry) Options() []Option {
	r.mx.RLock()
	defer r.mx.RUnlock()

	res := make([]Option, 0, len(r.entries))

	for _, e := range r.entries {
		res = append(res, e.opt)
	}

	return res
}

var (
	OSFMSOption      = Option{Key: "osfms", Name: "Ordnance Survey", MapType: "OSFMS", MinZoom: 0, MaxZoom: 20}
	BingAerialOption = Option{Key: "bing-aerial", Name: "Aerial", MapType: "BingAerial", MinZoom: 0, MaxZoom: 19}
)

// DefaultLayers registers the two layers of the map: Ordnance Survey over Bing road, then Bing aerial.
func DefaultLayers(r *Registry, conf OSConfig, rg region.Region) {
	r.Add(OSFMSOption, NewOSSelector(conf, rg, NewBingUK(rg)))
	r.Add(BingAerialOption, BingAerial{})
}
