// Package logging configures log/slog for the binaries and carries the
// request-scoped logger through contexts.
//
// LOG_LEVEL selects the level and LOG_FORMAT selects json (default) or text.
//
//	logger := logging.New(logging.OptionsFromEnv())
//	slog.SetDefault(logger)
//
//	// in a handler, after the Logging middleware ran
//	logging.FromContext(r.Context()).Info("catalogue rebuilt")
package logging
