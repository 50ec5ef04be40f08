// Package view renders the storefront's server-side pages. Every page is the
// shared layout wrapped around one content template.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/4lovek5346534/git-Supreme-Cofe/internal/model"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const layoutFile = "templates/layout.html"

// Viewer is the signed-in visitor shown in the page header
type Viewer struct {
	ID        uint
	Name      string
	ImgPath   string
	IsAdmin   bool
	CartCount int
}

// Page is the data every template receives
type Page struct {
	Title   string
	Viewer  *Viewer
	Message string
	Data    interface{}
}

// Renderer implements echo.Renderer over the embedded templates
type Renderer struct {
	templates map[string]*template.Template
}

var funcs = template.FuncMap{
	"money": func(d decimal.Decimal) string {
		return d.StringFixed(2)
	},
	"productURL": ProductURL,
	"date": func(t time.Time) string {
		return t.Format("02.01.2006 15:04")
	},
	"statuses": func() []model.OrderStatus {
		return model.OrderStatuses
	},
	"join": strings.Join,
}

// ProductURL is the canonical detail page link of p
func ProductURL(p model.Product) string {
	return "/catalog/" + url.PathEscape(p.Name) + "/" + strconv.FormatUint(uint64(p.ID), 10)
}

// New parses every page template
func New() (*Renderer, error) {
	layout, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, layoutFile)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	pages, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	r := &Renderer{templates: make(map[string]*template.Template, len(pages))}
	for _, file := range pages {
		if file == layoutFile {
			continue
		}
		t, err := template.Must(layout.Clone()).ParseFS(templateFS, file)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		r.templates[strings.TrimSuffix(path.Base(file), ".html")] = t
	}
	return r, nil
}

// Render implements echo.Renderer
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	t, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

// StaticFS serves the stylesheet and other assets under /static
func StaticFS() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Has reports whether a page template exists
func (r *Renderer) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}
