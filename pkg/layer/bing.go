package layer

import (
	"fmt"

	"github.com/kdudkov/fmstiles/pkg/model"
	"github.com/kdudkov/fmstiles/pkg/region"
)

const (
	bingServers    = 4
	bingGeneration = "3467"
	bingHost       = "//ecn.t%d.tiles.virtualearth.net/tiles/"
)

func bingURLs(path string) []string {
	res := make([]string, 0, bingServers)

	for i := 0; i < bingServers; i++ {
		res = append(res, fmt.Sprintf(bingHost, i)+path)
	}

	return res
}

// BingAerial is the aerial imagery layer.
type BingAerial struct{}

func (BingAerial) GetURLs(model.Viewport) ([]string, error) {
	return bingURLs("a" + model.PlaceholderID + ".jpeg?g=" + bingGeneration), nil
}

// BingUK is the road layer. Inside the UK it asks Bing for Ordnance Survey styled tiles from zoom 11 on.
type BingUK struct {
	region region.Region
}

func NewBingUK(r region.Region) *BingUK {
	return &BingUK{region: r}
}

func (b *BingUK) GetURLs(v model.Viewport) ([]string, error) {
	inRegion, err := b.region.Contains(v.Center())
	if err != nil {
		return nil, err
	}

	if v.Zoom >= MinOSZoom && inRegion {
		return bingURLs("r" + model.PlaceholderID + ".png?g=" + bingGeneration + "&productSet=mmOS"), nil
	}

	path := "r" + model.PlaceholderID + ".png?g=" + bingGeneration + "&mkt=en-US&shading=hill"

	if v.Zoom > 10 && inRegion {
		path += "&productSet=mmOS"
	}

	return bingURLs(path), nil
}
