package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"go.uber.org/zap"

	"github.com/kdudkov/fmstiles/pkg/config"
	"github.com/kdudkov/fmstiles/pkg/layer"
	"github.com/kdudkov/fmstiles/pkg/mapper"
	"github.com/kdudkov/fmstiles/pkg/model"
)

type App struct {
	gen    layer.URLGenerator
	ts     *mapper.TileSystem
	width  int
	height int
	expand bool
	logger *zap.SugaredLogger
}

func NewApp(gen layer.URLGenerator, width, height int, expand bool, logger *zap.SugaredLogger) *App {
	return &App{
		gen:    gen,
		ts:     mapper.NewTileSystem(),
		width:  width,
		height: height,
		expand: expand,
		logger: logger,
	}
}

// ParseViewport reads "lon,lat zoom" (a widget of the app size around the point) or
// "minlon,minlat,maxlon,maxlat zoom".
func (app *App) ParseViewport(ln string) (model.Viewport, error) {
	d := strings.Fields(ln)

	if len(d) != 2 {
		return model.Viewport{}, fmt.Errorf("invalid string: %s", ln)
	}

	zoom, err := strconv.Atoi(d[1])
	if err != nil || zoom < 0 || zoom > 30 {
		return model.Viewport{}, fmt.Errorf("invalid zoom: %s", ln)
	}

	if c := strings.Split(d[0], ","); len(c) == 2 {
		lon, err1 := strconv.ParseFloat(c[0], 64)
		lat, err2 := strconv.ParseFloat(c[1], 64)

		if err1 != nil || err2 != nil {
			return model.Viewport{}, fmt.Errorf("invalid point: %s", ln)
		}

		return app.ts.Viewport(orb.Point{lon, lat}, zoom, app.width, app.height), nil
	}

	b, err := model.ParseBBox(d[0])
	if err != nil {
		return model.Viewport{}, err
	}

	return model.Viewport{Bound: b, Zoom: zoom}, nil
}

func (app *App) Run(r io.Reader, w io.Writer) error {
	br := bufio.NewReader(r)
	total := 0

	for {
		ln, readerr := br.ReadString('\n')

		if readerr != nil && !errors.Is(readerr, io.EOF) {
			return readerr
		}

		ln = strings.Trim(ln, "\n\r ")

		if ln != "" && !strings.HasPrefix(ln, "#") {
			v, err := app.ParseViewport(ln)
			if err != nil {
				return err
			}

			urls, err := app.gen.GetURLs(v)
			if err != nil {
				return fmt.Errorf("%s: %w", v, err)
			}

			app.logger.Debugw("viewport", "bbox", model.FormatBBox(v.Bound), "zoom", v.Zoom, "urls", len(urls))

			if app.expand {
				t := v.CenterTile()
				fmt.Fprintf(w, "%s\t%s\n", t, model.Expand(model.Pick(urls, t), t))
			} else {
				fmt.Fprintf(w, "%s\t%s\n", v, strings.Join(urls, " "))
			}

			total += 1
		}

		if errors.Is(readerr, io.EOF) {
			break
		}
	}

	app.logger.Infof("total viewports: %d", total)

	return nil
}

func main() {
	var configFile = flag.String("config", "fmstiles.yml", "config file")
	var layerKey = flag.String("layer", layer.OSFMSOption.Key, "layer")
	var width = flag.Int("width", 1024, "widget width, px")
	var height = flag.Int("height", 768, "widget height, px")
	var expand = flag.Bool("expand", false, "print the url of the center tile")
	var debug = flag.Bool("debug", false, "")

	flag.Parse()

	var logger *zap.Logger
	var err error

	if *debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}

	if err != nil {
		panic(err)
	}

	defer logger.Sync()

	conf, err := config.Load(*configFile)
	if err != nil {
		logger.Fatal("config error", zap.Error(err))
	}

	rg, err := conf.GetRegion()
	if err != nil {
		logger.Fatal("region error", zap.Error(err))
	}

	reg := layer.NewRegistry()
	layer.DefaultLayers(reg, conf.OS, rg)

	gen, ok := reg.Get(*layerKey)
	if !ok {
		fmt.Printf("unknown layer %s\n", *layerKey)
		return
	}

	in := io.Reader(os.Stdin)

	if flag.NArg() > 0 {
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			logger.Fatal("open error", zap.Error(err))
		}

		defer f.Close()
		in = f
	}

	if err := NewApp(gen, *width, *height, *expand, logger.Sugar()).Run(in, os.Stdout); err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
}
