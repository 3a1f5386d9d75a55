package model

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	_ "modernc.org/sqlite"
)

// Source is a tile source served by this process.
type Source interface {
	GetTile(ctx context.Context, t Tile) ([]byte, error)
	GetContentType() string
	GetMinZoom() int
	GetMaxZoom() int
	GetKey() string
	GetName() string
	Close() error
}

var _ Source = &MBTiles{}

// Metadata is the part of the mbtiles metadata table the server uses.
type Metadata struct {
	Name        string
	Format      string
	Attribution string
	MinZoom     int
	MaxZoom     int
	Bound       orb.Bound
	HasBound    bool
	Xyz         bool
}

// Parse fills m from metadata rows, zoom levels already set from the tiles table are overridden.
func (m *Metadata) Parse(rows map[string]string) error {
	if v, err := strconv.Atoi(rows["minzoom"]); err == nil {
		m.MinZoom = v
	}

	if v, err := strconv.Atoi(rows["maxzoom"]); err == nil {
		m.MaxZoom = v
	}

	if v := rows["name"]; v != "" {
		m.Name = v
	}

	m.Attribution = rows["attribution"]
	m.Xyz = rows["scheme"] == "xyz"

	switch f := strings.ToLower(rows["format"]); f {
	case "":
		m.Format = "png"
	case "png", "jpg", "jpeg", "webp":
		m.Format = f
	default:
		return fmt.Errorf("invalid format - %s", f)
	}

	if v := rows["bounds"]; v != "" {
		b, err := ParseBBox(v)
		if err != nil {
			return err
		}

		m.Bound, m.HasBound = b, true
	}

	return nil
}

// MBTiles is a read-only mbtiles file.
type MBTiles struct {
	key  string
	meta Metadata
	db   *sql.DB
}

func OpenMBTiles(key, path string) (*MBTiles, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	l := &MBTiles{key: key, db: db, meta: Metadata{Name: key}}

	if err := l.load(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return l, nil
}

func (l *MBTiles) load(ctx context.Context) error {
	err := l.db.QueryRowContext(ctx, "SELECT coalesce(min(zoom_level), 0), coalesce(max(zoom_level), 0) FROM tiles").
		Scan(&l.meta.MinZoom, &l.meta.MaxZoom)
	if err != nil {
		return err
	}

	res, err := l.db.QueryContext(ctx, "SELECT name, value FROM metadata")
	if err != nil {
		return err
	}

	defer res.Close()

	rows := make(map[string]string)

	for res.Next() {
		var name, value string

		if err := res.Scan(&name, &value); err != nil {
			return err
		}

		rows[name] = value
	}

	if err := res.Err(); err != nil {
		return err
	}

	return l.meta.Parse(rows)
}

func (l *MBTiles) GetKey() string {
	return l.key
}

func (l *MBTiles) GetName() string {
	return l.meta.Name
}

func (l *MBTiles) GetMinZoom() int {
	return l.meta.MinZoom
}

func (l *MBTiles) GetMaxZoom() int {
	return l.meta.MaxZoom
}

func (l *MBTiles) GetContentType() string {
	return ContentType(l.meta.Format)
}

func (l *MBTiles) Metadata() Metadata {
	return l.meta
}

func (l *MBTiles) Close() error {
	return l.db.Close()
}

// GetTile returns nil data when the file has no such tile.
func (l *MBTiles) GetTile(ctx context.Context, t Tile) ([]byte, error) {
	row := t.Y

	// mbtiles rows are tms unless the file says otherwise
	if !l.meta.Xyz {
		row = t.FlipY()
	}

	var data []byte

	err := l.db.QueryRowContext(ctx, "SELECT tile_data FROM tiles WHERE zoom_level=? AND tile_column=? AND tile_row=?", t.Z, t.X, row).
		Scan(&data)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	return data, err
}
