package layer

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/paulmach/orb"

	"github.com/kdudkov/fmstiles/pkg/model"
	"github.com/kdudkov/fmstiles/pkg/region"
)

var fallbackURLs = []string{"//fallback/a/${z}/${x}/${y}", "//fallback/b/${z}/${x}/${y}"}

// around London
func inUK(zoom int) model.Viewport {
	return model.NewViewport(-0.13, 51.50, -0.12, 51.51, zoom)
}

// around Paris
func outside(zoom int) model.Viewport {
	return model.NewViewport(2.34, 48.85, 2.36, 48.86, zoom)
}

func testConf(key string) OSConfig {
	return OSConfig{URL: "https://tiles.example/{layer}", Layer: "os", Key: key}
}

func TestOSSelector(t *testing.T) {
	s := NewOSSelector(testConf(""), region.UK, Static(fallbackURLs))

	tests := []struct {
		name string
		v    model.Viewport
		want []string
	}{
		{"z16 in region", inUK(16), []string{"https://tiles.example/os/${z}/${x}/${y}.png"}},
		{"z20 in region", inUK(20), []string{"https://tiles.example/os/${z}/${x}/${y}.png"}},
		{"z15 in region", inUK(15), fallbackURLs},
		{"z15 outside", outside(15), fallbackURLs},
		{"z20 outside", outside(20), fallbackURLs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.GetURLs(tt.v)
			if err != nil {
				t.Fatal(err)
			}

			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, must be %v", got, tt.want)
			}
		})
	}
}

func TestOSSelectorKey(t *testing.T) {
	s := NewOSSelector(testConf("ABC123"), region.UK, Static(fallbackURLs))

	got, err := s.GetURLs(inUK(16))
	if err != nil {
		t.Fatal(err)
	}

	if len(got) != 1 || !strings.HasSuffix(got[0], "?key=ABC123") {
		t.Errorf("wrong urls %v", got)
	}

	s = NewOSSelector(testConf(""), region.UK, Static(fallbackURLs))

	got, _ = s.GetURLs(inUK(16))
	if strings.Contains(got[0], "key=") {
		t.Errorf("unexpected key in %s", got[0])
	}
}

func TestOSSelectorPassesViewport(t *testing.T) {
	var seen model.Viewport

	fb := GeneratorFunc(func(v model.Viewport) ([]string, error) {
		seen = v
		return []string{"x"}, nil
	})

	v := outside(18)

	if _, err := NewOSSelector(testConf(""), region.UK, fb).GetURLs(v); err != nil {
		t.Fatal(err)
	}

	if seen != v {
		t.Errorf("fallback got %v, must be %v", seen, v)
	}
}

func TestOSSelectorRegionError(t *testing.T) {
	e := errors.New("lookup failed")
	r := region.Func(func(orb.Point) (bool, error) { return false, e })

	if _, err := NewOSSelector(testConf(""), r, Static(fallbackURLs)).GetURLs(inUK(16)); !errors.Is(err, e) {
		t.Errorf("wrong error %v", err)
	}
}

func TestOSTemplate(t *testing.T) {
	tests := []struct {
		conf OSConfig
		want string
	}{
		{OSConfig{URL: "https://tiles.example/%s", Layer: "Road_3857"}, "https://tiles.example/Road_3857/${z}/${x}/${y}.png"},
		{OSConfig{URL: "https://tiles.example/{layer}", Layer: ""}, "https://tiles.example//${z}/${x}/${y}.png"},
		{OSConfig{URL: "https://tiles.example", Layer: "os", Key: "k"}, "https://tiles.example/${z}/${x}/${y}.png?key=k"},
	}

	for _, tt := range tests {
		if got := tt.conf.Template(); got != tt.want {
			t.Errorf("got %s, must be %s", got, tt.want)
		}
	}
}

func TestBingUK(t *testing.T) {
	b := NewBingUK(region.UK)

	tests := []struct {
		v        model.Viewport
		os       bool
		hillside bool
	}{
		{inUK(10), false, true},
		{inUK(11), true, true},
		{inUK(16), true, false},
		{outside(16), false, true},
	}

	for _, tt := range tests {
		urls, err := b.GetURLs(tt.v)
		if err != nil {
			t.Fatal(err)
		}

		if len(urls) != 4 {
			t.Fatalf("got %d urls", len(urls))
		}

		for i, u := range urls {
			if !strings.HasPrefix(u, "//ecn.t"+string(rune('0'+i))+".tiles.virtualearth.net/tiles/r${id}.png") {
				t.Errorf("wrong url %s", u)
			}

			if strings.Contains(u, "productSet=mmOS") != tt.os {
				t.Errorf("%v: wrong product set in %s", tt.v, u)
			}

			if strings.Contains(u, "shading=hill") != tt.hillside {
				t.Errorf("%v: wrong shading in %s", tt.v, u)
			}
		}
	}
}

func TestBingAerial(t *testing.T) {
	urls, _ := BingAerial{}.GetURLs(inUK(16))

	if len(urls) != 4 || urls[3] != "//ecn.t3.tiles.virtualearth.net/tiles/a${id}.jpeg?g=3467" {
		t.Errorf("wrong urls %v", urls)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	DefaultLayers(r, testConf(""), region.UK)
	r.Add(Option{Key: "local"}, Local("/tiles", "os.mbtiles"))
	r.Add(Option{Key: "nil"}, nil)

	opts := r.Options()

	if len(opts) != 3 || opts[0].MapType != "OSFMS" || opts[1].MapType != "BingAerial" || opts[2].Key != "local" {
		t.Fatalf("wrong options %v", opts)
	}

	g, ok := r.Get("local")
	if !ok {
		t.Fatal("no local layer")
	}

	urls, _ := g.GetURLs(inUK(3))
	if urls[0] != "/tiles/os.mbtiles/${z}/${x}/${y}" {
		t.Errorf("wrong url %s", urls[0])
	}

	r.Add(Option{Key: "local", Name: "new"}, Static{"x"})

	if opts := r.Options(); len(opts) != 3 || opts[2].Name != "new" {
		t.Errorf("replace failed %v", opts)
	}

	if _, ok := r.Get("none"); ok {
		t.Error("unexpected layer")
	}

	r.Remove("local")
	r.Remove("none")

	if _, ok := r.Get("local"); ok || len(r.Options()) != 2 {
		t.Error("layer is not removed")
	}

	// primary layer falls back to bing road below zoom 16
	g, _ = r.Get("osfms")
	urls, _ = g.GetURLs(inUK(12))

	if len(urls) != 4 || !strings.Contains(urls[0], "virtualearth") {
		t.Errorf("wrong fallback %v", urls)
	}
}

func TestTemplateLayer(t *testing.T) {
	d := &model.LayerDescription{Url: "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png", ServerParts: []string{"a", "b", "c"}}

	urls, _ := TemplateLayer(d).GetURLs(inUK(5))

	if len(urls) != 3 || urls[0] != "https://a.tile.openstreetmap.org/${z}/${x}/${y}.png" {
		t.Errorf("wrong urls %v", urls)
	}
}
