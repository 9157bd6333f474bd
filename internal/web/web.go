// Package web embeds the static landing page and its assets.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed public
var files embed.FS

// Public returns the contents of the public directory as an http.FileSystem.
func Public() http.FileSystem {
	sub, err := fs.Sub(files, "public")
	if err != nil {
		// The directory is embedded at build time.
		panic(err)
	}
	return http.FS(sub)
}
