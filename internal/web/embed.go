// Package web embeds the HTML templates of the browser UI.
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Templates parses every embedded page template. Page names are the file names,
// e.g. "login.tmpl".
func Templates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.tmpl")
}
