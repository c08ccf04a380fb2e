// Package providers contains dependency injection providers for the library service.
package providers

import "time"

const (
	// shutdownTimeout bounds the graceful shutdown of each handle.
	shutdownTimeout = 30 * time.Second
	pingTimeout     = 2 * time.Second
)
