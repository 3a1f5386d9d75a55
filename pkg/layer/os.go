package layer

import (
	"strings"

	"github.com/kdudkov/fmstiles/pkg/model"
	"github.com/kdudkov/fmstiles/pkg/region"
)

// MinOSZoom is the first zoom level served from Ordnance Survey tiles.
const MinOSZoom = 16

// LayerMarker is replaced by the layer name in OSConfig.URL. "%s" is accepted as well.
const LayerMarker = "{layer}"

type OSConfig struct {
	URL   string `mapstructure:"url"`
	Layer string `mapstructure:"layer"`
	Key   string `mapstructure:"key"`
}

// Template is the single url template used when the Ordnance Survey branch is taken.
// Nothing is validated, a url without marker just lacks the layer name.
func (c OSConfig) Template() string {
	url := strings.Replace(c.URL, LayerMarker, c.Layer, 1)
	url = strings.Replace(url, "%s", c.Layer, 1)
	url += model.XYZPath + ".png"

	if c.Key != "" {
		url += "?key=" + c.Key
	}

	return url
}

// OSSelector serves Ordnance Survey tiles at high zoom inside the covered region and hands everything
// else to the fallback.
type OSSelector struct {
	conf     OSConfig
	region   region.Region
	fallback URLGenerator
}

var _ URLGenerator = &OSSelector{}

func NewOSSelector(conf OSConfig, r region.Region, fallback URLGenerator) *OSSelector {
	return &OSSelector{
		conf:     conf,
		region:   r,
		fallback: fallback,
	}
}

func (s *OSSelector) GetURLs(v model.Viewport) ([]string, error) {
	inRegion, err := s.region.Contains(v.Center())
	if err != nil {
		return nil, err
	}

	if v.Zoom >= MinOSZoom && inRegion {
		return []string{s.conf.Template()}, nil
	}

	return s.fallback.GetURLs(v)
}
