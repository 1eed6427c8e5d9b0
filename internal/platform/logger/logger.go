// Package logger builds the zerolog logger shared by the service binaries
// and tests.
package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// New returns a JSON logger writing to stdout, tagged with the service name.
func New(serviceName string) zerolog.Logger {
	return zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", serviceName).
		Logger()
}
