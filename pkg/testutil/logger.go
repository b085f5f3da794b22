package testutil

import (
	"io"
	"log/slog"
)

// DiscardLogger returns a logger that drops all records, for tests that
// exercise components with mandatory logger dependencies.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
