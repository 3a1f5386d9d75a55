package main

import (
	"sync"

	"github.com/kdudkov/fmstiles/pkg/model"
)

// Sources holds the mbtiles sources found in the data dir.
type Sources struct {
	data sync.Map
}

func NewSources() *Sources {
	return &Sources{
		data: sync.Map{},
	}
}

func (h *Sources) Get(key string) (model.Source, bool) {
	if v, ok := h.data.Load(key); ok {
		if n, ok1 := v.(model.Source); ok1 {
			return n, true
		}
	}

	return nil, false
}

func (h *Sources) Add(c model.Source) {
	if c == nil {
		return
	}

	h.data.Store(c.GetKey(), c)
}

// Replace stores the new set before dropping stale keys, so a key present in both is never missing.
// It returns sources that are no longer served.
func (h *Sources) Replace(list []model.Source) []model.Source {
	keys := make(map[string]bool, len(list))
	keep := make(map[model.Source]bool, len(list))

	for _, c := range list {
		keys[c.GetKey()] = true
		keep[c] = true
	}

	var old []model.Source

	h.All(func(c model.Source) bool {
		if !keep[c] {
			old = append(old, c)
		}

		return true
	})

	for _, c := range list {
		h.Add(c)
	}

	h.data.Range(func(key, _ any) bool {
		if k, ok := key.(string); !ok || !keys[k] {
			h.data.Delete(key)
		}

		return true
	})

	return old
}

func (h *Sources) All(f func(c model.Source) bool) {
	h.data.Range(func(_, value any) bool {
		if c, ok := value.(model.Source); ok {
			return f(c)
		}

		return true
	})
}
