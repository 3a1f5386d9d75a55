package main

import (
	"embed"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/template/html/v2"

	"github.com/kdudkov/fmstiles/pkg/layer"
	"github.com/kdudkov/fmstiles/pkg/model"
)

//go:embed template/*
var templates embed.FS

func NewHttp(app *App) *fiber.App {
	engine := html.NewFileSystem(http.FS(templates), ".html")
	engine.Delims("[[", "]]")

	f := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		EnablePrintRoutes:     false,
		Views:                 engine,
	})

	f.Use(logger.New(logger.Config{
		Format: "[${ip}]:${port} ${status} - ${method} ${path} ${queryParams}\n",
	}))

	f.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))

	f.Get("/", getIndexHandler(app))
	f.Get("/layers", getLayersHandler(app))
	f.Get("/urls", getUrlsHandler(app))
	f.Get(tilesPrefix+"/:name/:zoom/:x/:y", getTileHandler(app))

	return f
}

func getIndexHandler(app *App) func(c *fiber.Ctx) error {
	addrs := getLocalAddr()

	return func(c *fiber.Ctx) error {
		_, port, err := net.SplitHostPort(app.conf.Addr)

		if err != nil {
			return err
		}

		d := fiber.Map{
			"port":   port,
			"ips":    addrs,
			"layers": app.getLayers(),
		}

		return c.Render("template/index", d, "template/_header")
	}
}

func getLayersHandler(app *App) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		return c.JSON(app.getLayers())
	}
}

func (app *App) getLayers() []map[string]any {
	r := make([]map[string]any, 0)

	for i, o := range app.layers.Options() {
		ld := make(map[string]any)
		ld["key"] = o.Key
		ld["name"] = o.Name
		ld["map_type"] = o.MapType
		ld["min_zoom"] = o.MinZoom
		ld["max_zoom"] = o.MaxZoom
		ld["primary"] = i == 0
		ld["urls"] = "/urls?layer=" + url.QueryEscape(o.Key)
		ld["file"] = o.MapType == localMapType

		if o.Attribution != "" {
			ld["attribution"] = o.Attribution
		}

		if len(o.Bounds) == 4 {
			ld["bounds"] = o.Bounds
		}

		r = append(r, ld)
	}

	return r
}

func getUrlsHandler(app *App) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		key := c.Query("layer")

		if key == "" {
			opts := app.layers.Options()
			if len(opts) == 0 {
				return fiber.NewError(fiber.StatusNotFound, "no layers")
			}

			key = opts[0].Key
		}

		gen, ok := app.layers.Get(key)
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("layer %s is not found", key))
		}

		bbox, err := model.ParseBBox(c.Query("bbox"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		zoom := c.QueryInt("zoom", -1)
		if zoom < 0 || zoom > 30 {
			return fiber.NewError(fiber.StatusBadRequest, "error: invalid zoom value")
		}

		urls, err := gen.GetURLs(model.Viewport{Bound: bbox, Zoom: zoom})
		if err != nil {
			app.logger.Errorw("error getting urls", "layer", key, "error", err)
			return err
		}

		return c.JSON(fiber.Map{"layer": key, "urls": urls})
	}
}

func getTileHandler(app *App) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		var err error
		var zoom, x, y int

		name, _ := url.PathUnescape(c.Params("name"))

		if zoom, err = c.ParamsInt("zoom"); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "error: invalid zoom value")
		}

		if x, err = c.ParamsInt("x"); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "error: invalid x value")
		}

		if y, err = c.ParamsInt("y"); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "error: invalid y value")
		}

		t := model.NewTile(zoom, x, y)

		if !t.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "error: invalid tile "+t.String())
		}

		if src, ok := app.sources.Get(name); ok {
			return sendTile(app, c, src, t)
		}

		gen, ok := app.layers.Get(name)
		if !ok {
			return c.Status(fiber.StatusNotFound).SendString(fmt.Sprintf("layer %s is not found", name))
		}

		// a local layer without its source is being reloaded, redirecting would point at this handler again
		if _, local := gen.(layer.LocalLayer); local {
			return c.Status(fiber.StatusNotFound).SendString(fmt.Sprintf("layer %s is not loaded", name))
		}

		urls, err := gen.GetURLs(model.TileViewport(t))
		if err != nil {
			app.logger.Errorw("error getting urls", "layer", name, "error", err)
			return err
		}

		u := model.Expand(model.Pick(urls, t), t)

		if strings.HasPrefix(u, "//") {
			u = "https:" + u
		}

		return c.Redirect(u, fiber.StatusFound)
	}
}

func sendTile(app *App, c *fiber.Ctx, src model.Source, t model.Tile) error {
	data, err := src.GetTile(c.Context(), t)

	if err != nil {
		app.logger.Errorw("error getting tile", "error", err)
		return err
	}

	if data == nil {
		return c.Status(fiber.StatusNotFound).SendString("not found")
	}

	c.Set("Content-Type", src.GetContentType())

	_, err = c.Write(data)
	if err != nil {
		app.logger.Errorw("error writing response", "error", err)
	}

	return err
}
