// Package config loads the service configuration and the list of extra xyz layers.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/kdudkov/fmstiles/pkg/layer"
	"github.com/kdudkov/fmstiles/pkg/model"
	"github.com/kdudkov/fmstiles/pkg/region"
)

type Config struct {
	Addr       string         `mapstructure:"addr"`
	DataDir    string         `mapstructure:"data_dir"`
	LayersFile string         `mapstructure:"layers_file"`
	OS         layer.OSConfig `mapstructure:"os"`
	Region     RegionConfig   `mapstructure:"region"`
}

// RegionConfig is either a geojson file or a lon/lat box, the file wins.
type RegionConfig struct {
	Bounds  []float64 `mapstructure:"bounds"`
	GeoJSON string    `mapstructure:"geojson"`
}

func setDefaults(v *viper.Viper) {
	uk := region.UK.Bound

	v.SetDefault("addr", ":8888")
	v.SetDefault("data_dir", "./data")
	v.SetDefault("layers_file", "layers.yml")
	v.SetDefault("os.url", "https://api.os.uk/maps/raster/v1/zxy/{layer}")
	v.SetDefault("os.layer", "Road_3857")
	v.SetDefault("os.key", "")
	v.SetDefault("region.bounds", []float64{uk.Min.Lon(), uk.Min.Lat(), uk.Max.Lon(), uk.Max.Lat()})
	v.SetDefault("region.geojson", "")
}

// Load reads a yaml config, every key can be overridden from env, e.g. FMS_OS_KEY.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("fms")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigType("yaml")
			v.SetConfigFile(path)

			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var conf Config

	if err := v.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &conf, nil
}

func (c *Config) GetRegion() (region.Region, error) {
	if c.Region.GeoJSON != "" {
		return region.LoadGeoJSON(c.Region.GeoJSON)
	}

	if len(c.Region.Bounds) != 4 {
		return nil, fmt.Errorf("region bounds must have 4 values, got %d", len(c.Region.Bounds))
	}

	b := c.Region.Bounds

	return region.NewBound(b[0], b[1], b[2], b[3]), nil
}

// LoadLayers reads the list of extra xyz layers. A missing file means no extra layers.
func LoadLayers(path string) ([]*model.LayerDescription, error) {
	d, err := os.ReadFile(path)

	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, err
	}

	var res []*model.LayerDescription

	if err := yaml.Unmarshal(d, &res); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	for i, l := range res {
		if l.Key == "" || l.Url == "" {
			return nil, fmt.Errorf("%s: layer %d has no key or url", path, i)
		}
	}

	return res, nil
}
