package docchat

import "log/slog"

// nopLogger discards everything. Used as the default until a logger
// option is set.
var nopLogger = slog.New(slog.DiscardHandler)
