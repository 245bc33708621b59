// Package web embeds the HTML templates and static assets served by both apps.
package web

import "embed"

//go:embed templates
var TemplateFiles embed.FS

//go:embed static
var StaticFiles embed.FS
