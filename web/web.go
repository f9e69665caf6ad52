// Package web embeds the single-page front end served at "/".
package web

import (
	"embed"
	"io/fs"
)

//go:embed static
var content embed.FS

// Static returns the front-end files rooted at the static directory.
func Static() fs.FS {
	sub, err := fs.Sub(content, "static")
	if err != nil {
		// The directory is embedded at build time; a miss is a build defect.
		panic(err)
	}
	return sub
}
