package config

// EmbeddedTMDBKey is injected at build time via ldflags and serves as the
// default API key. Config file and environment variables override it.
//
// Build with:
//
//	go build -ldflags "-X 'github.com/movierecs/movierecs/internal/config.EmbeddedTMDBKey=xxx'"
var EmbeddedTMDBKey string
