package testlog

import (
	"testing"

	"github.com/danmuck/gdsstream/internal/logging"
	"github.com/rs/zerolog"
)

// Start returns a debug logger that writes through t, tagged with the test name.
func Start(t *testing.T) zerolog.Logger {
	t.Helper()
	logging.ConfigureTests()
	logger := zerolog.New(zerolog.NewTestWriter(t)).
		Level(zerolog.DebugLevel).
		With().
		Str("test", t.Name()).
		Logger()
	logger.Info().Msg("start")
	return logger
}
