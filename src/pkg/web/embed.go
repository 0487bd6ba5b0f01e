package web

import "embed"

// templatesFS holds the server-rendered pages.
//
//go:embed templates/*.html
var templatesFS embed.FS

// staticFS holds the stylesheet and the chart script.
//
//go:embed static/*
var staticFS embed.FS
