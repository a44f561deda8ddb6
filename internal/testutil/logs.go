package testutil

import (
	"io"
	"testing"

	"outofschool/internal/logger"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

// CaptureLogs records every entry of the global logger at debug level until
// the test ends.
func CaptureLogs(t *testing.T) *logtest.Hook {
	t.Helper()

	level, out := logger.Logger.GetLevel(), logger.Logger.Out
	hook := logtest.NewLocal(logger.Logger)
	logger.Logger.SetLevel(logrus.DebugLevel)
	logger.Logger.SetOutput(io.Discard)

	t.Cleanup(func() {
		logger.Logger.ReplaceHooks(make(logrus.LevelHooks))
		logger.Logger.SetLevel(level)
		logger.Logger.SetOutput(out)
	})
	return hook
}

// EntriesFor returns the messages logged with the given request id
func EntriesFor(hook *logtest.Hook, reqID string) map[string]logrus.Level {
	found := make(map[string]logrus.Level)
	for _, entry := range hook.AllEntries() {
		if entry.Data["request_id"] == reqID {
			found[entry.Message] = entry.Level
		}
	}
	return found
}
