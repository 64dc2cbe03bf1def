// Package logger builds slog loggers and provides attribute helpers that keep
// keys uniform across the server, the dispatcher and middleware.
//
//	log := logger.New(logger.WithFormat(logger.FormatText), logger.WithLevel(slog.LevelDebug))
//	log.Info("request served",
//		logger.Component("dispatcher"),
//		logger.Method("GET"),
//		logger.Path("/users/7"),
//		logger.StatusCode(200),
//	)
//
// Helpers taking an error or an identifier return an empty slog.Attr for
// zero values, which slog drops, so they can be passed unconditionally.
package logger
