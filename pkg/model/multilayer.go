package model

import (
	"context"
	"errors"
)

var _ Source = &MultiSource{}

// MultiSource serves several mbtiles files as one layer, first file having the tile wins.
type MultiSource struct {
	key         string
	name        string
	minZoom     int
	maxZoom     int
	contentType string
	sources     []Source
}

func NewMultiSource(key, name string, sources []Source) (*MultiSource, error) {
	if len(sources) == 0 {
		return nil, errors.New("no sources")
	}

	m := &MultiSource{
		key:         key,
		name:        name,
		sources:     sources,
		contentType: sources[0].GetContentType(),
		minZoom:     sources[0].GetMinZoom(),
		maxZoom:     sources[0].GetMaxZoom(),
	}

	for _, l := range sources {
		m.minZoom = min(m.minZoom, l.GetMinZoom())
		m.maxZoom = max(m.maxZoom, l.GetMaxZoom())
	}

	return m, nil
}

func (m *MultiSource) GetKey() string {
	return m.key
}

func (m *MultiSource) GetMaxZoom() int {
	return m.maxZoom
}

func (m *MultiSource) GetMinZoom() int {
	return m.minZoom
}

func (m *MultiSource) GetName() string {
	return m.name
}

func (m *MultiSource) GetContentType() string {
	return m.contentType
}

func (m *MultiSource) GetTile(ctx context.Context, t Tile) ([]byte, error) {
	for _, l := range m.sources {
		b, err := l.GetTile(ctx, t)

		if err != nil || len(b) > 0 {
			return b, err
		}
	}

	return nil, nil
}

func (m *MultiSource) Close() error {
	var errs []error

	for _, l := range m.sources {
		errs = append(errs, l.Close())
	}

	return errors.Join(errs...)
}
