package config

import "time"

const (
	DefaultHTTPPort        = "8080"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultReadTimeout     = 15 * time.Second
	DefaultJanitorPoll     = time.Minute
	DefaultPGMaxConns      = 5
	DefaultPGMinConns      = 1
	DefaultImportBatch     = 500
)
