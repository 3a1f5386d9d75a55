package main

import (
	"flag"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/kdudkov/fmstiles/pkg/config"
	"github.com/kdudkov/fmstiles/pkg/layer"
	"github.com/kdudkov/fmstiles/pkg/model"
)

const (
	tilesPrefix  = "/tiles"
	localMapType = "Local"
)

type App struct {
	conf     *config.Config
	logger   *zap.SugaredLogger
	layers   *layer.Registry
	sources  *Sources
	fileKeys map[string]bool
}

func NewApp(conf *config.Config, logger *zap.SugaredLogger) *App {
	return &App{
		conf:     conf,
		layers:   layer.NewRegistry(),
		sources:  NewSources(),
		logger:   logger,
		fileKeys: make(map[string]bool),
	}
}

func (app *App) addDefaultLayers() error {
	rg, err := app.conf.GetRegion()
	if err != nil {
		return err
	}

	layer.DefaultLayers(app.layers, app.conf.OS, rg)

	if app.conf.OS.Key == "" {
		app.logger.Warn("no os key configured, tiles will be requested without key")
	}

	res, err := config.LoadLayers(app.conf.LayersFile)
	if err != nil {
		return err
	}

	for _, l := range res {
		app.layers.Add(layer.Option{
			Key:     l.Key,
			Name:    l.Name,
			MapType: "XYZ",
			MinZoom: l.MinZoom,
			MaxZoom: l.MaxZoom,
		}, layer.TemplateLayer(l))
		app.logger.Infof("added layer %s (%s)", l.Key, l.Name)
	}

	return nil
}

func isTilesFile(name string) bool {
	return strings.HasSuffix(name, ".mbtiles") || strings.HasSuffix(name, ".sqlite")
}

// openDir serves all tiles files of a subdirectory as one layer named after it.
func (app *App) openDir(dir string) (model.Source, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var list []model.Source

	for _, f := range files {
		if f.IsDir() || !isTilesFile(f.Name()) {
			continue
		}

		l, err := model.OpenMBTiles(f.Name(), filepath.Join(dir, f.Name()))
		if err != nil {
			app.logger.Errorw("db open error", "error", err)
			continue
		}

		list = append(list, l)
	}

	if len(list) == 0 {
		return nil, nil
	}

	key := filepath.Base(dir)

	return model.NewMultiSource(key, key, list)
}

func (app *App) loadFileSources() error {
	files, err := os.ReadDir(app.conf.DataDir)
	if err != nil {
		return err
	}

	var list []model.Source

	for _, f := range files {
		p := filepath.Join(app.conf.DataDir, f.Name())

		if f.IsDir() {
			l, err := app.openDir(p)
			if err != nil {
				app.logger.Errorw("invalid dir "+p, "error", err)
				continue
			}

			if l != nil {
				list = append(list, l)
			}

			continue
		}

		if !isTilesFile(f.Name()) {
			continue
		}

		l, err := model.OpenMBTiles(f.Name(), p)
		if err != nil {
			app.logger.Errorw("db open error", "error", err)
			continue
		}

		list = append(list, l)
		app.logger.Infof("loaded file %s, name %s", f.Name(), l.GetName())
	}

	list = app.skipReserved(list)

	for _, c := range app.sources.Replace(list) {
		if err := c.Close(); err != nil {
			app.logger.Errorw("close error", "key", c.GetKey(), "error", err)
		}
	}

	for k := range app.fileKeys {
		app.layers.Remove(k)
	}

	app.fileKeys = make(map[string]bool)

	for _, c := range list {
		app.fileKeys[c.GetKey()] = true
		app.layers.Add(fileOption(c), layer.Local(tilesPrefix, url.PathEscape(c.GetKey())))
	}

	return nil
}

// fileOption describes a local source for the layer switcher, with bounds and attribution when the file has them.
func fileOption(c model.Source) layer.Option {
	opt := layer.Option{
		Key:     c.GetKey(),
		Name:    c.GetName(),
		MapType: localMapType,
		MinZoom: c.GetMinZoom(),
		MaxZoom: c.GetMaxZoom(),
	}

	if m, ok := c.(*model.MBTiles); ok {
		meta := m.Metadata()
		opt.Attribution = meta.Attribution

		if meta.HasBound {
			b := meta.Bound
			opt.Bounds = []float64{b.Min.Lon(), b.Min.Lat(), b.Max.Lon(), b.Max.Lat()}
		}
	}

	return opt
}

// skipReserved drops sources whose key belongs to a configured layer, so a data dir can never shadow them.
func (app *App) skipReserved(list []model.Source) []model.Source {
	res := list[:0]

	for _, c := range list {
		if _, ok := app.layers.Get(c.GetKey()); ok && !app.fileKeys[c.GetKey()] {
			app.logger.Errorw("file source key is taken by a configured layer, skipped", "key", c.GetKey())

			if err := c.Close(); err != nil {
				app.logger.Errorw("close error", "key", c.GetKey(), "error", err)
			}

			continue
		}

		res = append(res, c)
	}

	return res
}

func (app *App) Run() {
	if err := os.MkdirAll(app.conf.DataDir, 0777); err != nil {
		panic(err)
	}

	if err := app.addDefaultLayers(); err != nil {
		panic(err)
	}

	if err := app.loadFileSources(); err != nil {
		panic(err)
	}

	http := NewHttp(app)

	app.logger.Info("listening on " + app.conf.Addr)

	go func() {
		if err := http.Listen(app.conf.Addr); err != nil {
			panic(err)
		}
	}()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		panic(err)
	}

	defer watcher.Close()

	go app.watch(watcher)

	err = watcher.Add(app.conf.DataDir)
	if err != nil {
		panic(err)
	}

	app.loop()

	if err := http.Shutdown(); err != nil {
		app.logger.Errorw("shutdown error", "error", err)
	}

	app.close()
}

func (app *App) watch(watcher *fsnotify.Watcher) {
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			if event.Has(fsnotify.Chmod) {
				continue
			}

			app.logger.Infof("event: %s", event)

			if err := app.loadFileSources(); err != nil {
				app.logger.Errorw("error", "error", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			app.logger.Errorw("error", "error", err)
		}
	}
}

func (app *App) close() {
	for _, c := range app.sources.Replace(nil) {
		_ = c.Close()
	}

	_ = app.logger.Sync()
}

func (app *App) loop() {
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	<-sigc
}

func getLocalAddr() []string {
	var res []string

	addresses, _ := net.InterfaceAddrs()

	for _, a := range addresses {
		if ipnet, ok := a.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
			if ipnet.IP.To4() != nil && !strings.HasPrefix(ipnet.IP.String(), "169.254.") {
				res = append(res, ipnet.IP.String())
			}
		}
	}

	return res
}

func main() {
	var configFile = flag.String("config", "fmstiles.yml", "config file")
	var debug = flag.Bool("debug", false, "")
	var ver = flag.Bool("version", false, "print version and exit")

	flag.Parse()

	if *ver {
		fmt.Println(getVersionFull())
		return
	}

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

	conf, err := config.Load(*configFile)
	if err != nil {
		logger.Fatal("config error", zap.Error(err))
	}

	app := NewApp(conf, logger.Sugar())
	app.Run()
}
