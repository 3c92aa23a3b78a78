// Package web holds the HTML templates and static assets, compiled into the
// binary.
package web

import "embed"

// Templates contains templates/*.html. base.html is the layout; every other
// file is a page that defines "title" and "content".
//
//go:embed templates/*.html
var Templates embed.FS

// Static is served under /static/.
//
//go:embed static
var Static embed.FS
