package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// init stands up the disabled global logger and configures zerolog's global formatting. The cmd package replaces
// GlobalLogger with a configured one before a run starts.
func init() {
	GlobalLogger = NewLogger(zerolog.Disabled)

	// Marshal pkg/errors stack traces into structured log events and keep timestamps in UNIX format.
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
}
