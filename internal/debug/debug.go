// Package debug holds the process-wide switch for verbose conversion logging.
package debug

import (
	"os"
	"strings"
	"sync/atomic"
)

// EnvVar turns debug logging on when set to "true".
const EnvVar = "HEX2BASE64_DEBUG"

var enabled atomic.Bool

func init() {
	// Tests and library callers get the env setting without going through main.
	InitFromEnv()
}

// Enabled returns whether debug logging is enabled.
func Enabled() bool {
	return enabled.Load()
}

// SetEnabled sets whether debug logging is enabled.
func SetEnabled(value bool) {
	enabled.Store(value)
}

// InitFromEnv enables debug logging when HEX2BASE64_DEBUG=true or
// LOG_LEVEL=debug, and disables it otherwise.
func InitFromEnv() {
	SetEnabled(os.Getenv(EnvVar) == "true" || strings.EqualFold(os.Getenv("LOG_LEVEL"), "debug"))
}

// InitFromLogLevel derives the flag from a configured log level unless an
// environment variable already decided it.
func InitFromLogLevel(logLevel string) {
	if os.Getenv(EnvVar) == "" && os.Getenv("LOG_LEVEL") == "" {
		SetEnabled(strings.EqualFold(logLevel, "debug") || strings.EqualFold(logLevel, "trace"))
	}
}
