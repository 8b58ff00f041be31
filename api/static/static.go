// Package static embeds the storefront's stylesheet and the chat widget
// script, served under /static/.
package static

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed app.css app.js
var assets embed.FS

// Handler serves the embedded assets.
func Handler() http.Handler {
	sub, err := fs.Sub(assets, ".")
	if err != nil {
		// embed.FS with "." never fails; keep the handler total anyway.
		return http.NotFoundHandler()
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
