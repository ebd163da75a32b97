package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component creates a new logger with a component identifier.
// Uses the "cmp" key for consistency with zerolog conventions.
func Component(name string) zerolog.Logger {
	return log.With().Str("cmp", name).Logger()
}

// Document returns l with the document path attached, for loggers that
// outlive a single request context such as the watcher.
func Document(l zerolog.Logger, path string) zerolog.Logger {
	return l.With().Str("document", path).Logger()
}
