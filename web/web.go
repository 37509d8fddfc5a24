// Package web holds the HTML templates and the static assets of the site
package web

import "embed"

//go:embed templates static
var Files embed.FS
