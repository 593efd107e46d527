// Package webui embeds the demo table page and its static assets.
package webui

import "embed"

// Assets holds the static files served under /static/.
//
//go:embed static
var Assets embed.FS

// IndexHTML is the table page served at /.
//
//go:embed index.html
var IndexHTML []byte
