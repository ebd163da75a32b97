package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook extracts the document path and command name from the event
// context and adds them to log events.
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == context.Background() || ctx == nil {
		return
	}

	if path := GetDocument(ctx); path != "" {
		e.Str("document", path)
	}

	if name := GetCommand(ctx); name != "" {
		e.Str("command", name)
	}
}
