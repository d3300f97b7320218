// Package web embeds the dashboard templates and static assets.
package web

import "embed"

// TemplatesFS holds the page shell and the view partials.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS holds the stylesheet and the client script.
//
//go:embed static/*
var StaticFS embed.FS
