package tasks

import (
	"embed"
	"io/fs"

	"github.com/dmitrymomot/locallibrary/pkg/mailer"
)

//go:embed templates
var templates embed.FS

// NewRenderer renders the embedded e-mail templates.
func NewRenderer() *mailer.Renderer {
	sub, err := fs.Sub(templates, "templates")
	if err != nil {
		panic(err)
	}
	return mailer.NewRenderer(sub)
}
