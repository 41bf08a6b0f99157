package onyx

import "embed"

// WebFS contains the built frontend under web/dist.
// Run "go run ./cmd/do build web" to build.
//
//go:embed all:web/dist
var WebFS embed.FS
