package web

import (
	"embed"
	"html/template"
	"io/fs"
)

//go:embed static
var staticFiles embed.FS

//go:embed templates/*.html
var templateFiles embed.FS

// StaticFS serves the page assets with the "static/" prefix stripped.
var StaticFS = mustSub(staticFiles, "static")

// Templates holds the analyzer page.
var Templates = template.Must(template.New("").ParseFS(templateFiles, "templates/*.html"))

// PageData is rendered into index.html.
type PageData struct {
	Title     string
	Model     string
	FastModel string
	MaxUpload int // megabytes
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic("web: " + err.Error())
	}
	return sub
}
