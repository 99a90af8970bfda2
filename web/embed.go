// Package web embeds the page templates and static assets.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates static
var assets embed.FS

// TemplatesFS returns the embedded HTML templates.
func TemplatesFS() (fs.FS, error) {
	return fs.Sub(assets, "templates")
}

// StaticFS returns the embedded CSS and JavaScript.
func StaticFS() (fs.FS, error) {
	return fs.Sub(assets, "static")
}
