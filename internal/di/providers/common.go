// Package providers contains dependency injection providers for all services.
package providers

import "time"

const shutdownTimeout = 30 * time.Second
