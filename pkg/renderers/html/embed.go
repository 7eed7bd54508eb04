package html

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl templates/sections/*.tmpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the embedded page, navbar and section templates so
// callers can copy them as a starting point for overrides.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}
