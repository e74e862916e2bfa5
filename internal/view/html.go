package view

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed page.html
var pageHTML string

var pageTemplate = template.Must(template.New("page").Parse(pageHTML))

// ImageSrc marks the upload's data URI as safe for an img src attribute.
// The URI is built by intake from the uploaded bytes, never from user text.
func (p Page) ImageSrc() template.URL {
	if p.Image == nil {
		return ""
	}
	return template.URL(p.Image.DataURI)
}

// HTML writes the page
func HTML(w io.Writer, p Page) error {
	if err := pageTemplate.Execute(w, p); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	return nil
}
