package web

import "embed"

// StaticFS holds the embedded stylesheet and the clipboard/submit script.
//
//go:embed static/*
var StaticFS embed.FS
