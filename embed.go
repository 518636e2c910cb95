package photoblog

import "embed"

// EmbeddedAssets contains static assets shipped with the engine:
// app.js and style.css.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
