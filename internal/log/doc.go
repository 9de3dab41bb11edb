// Package log builds the slog loggers used across darkcti.
//
// Every logger wraps its handler in a SecureHandler, which masks LLM API
// keys, bearer tokens and similar secrets before a record is written.
// Threat intelligence values such as IOC hashes, bitcoin addresses and
// onion URLs are left readable: they are the data an analyst needs in the
// log, not credentials.
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Debug("provider saved", "provider", cfg) // api_key is masked
//	slog.SetDefault(logger)
package log
