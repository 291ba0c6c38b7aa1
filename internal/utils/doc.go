// Package utils exposes reusable helpers consumed by multiple commands.
//
// It houses the ConfigurationLoader and LoggerFactory abstractions that
// integrate Viper, environment variables, and zap logging for the CLI, the
// FlushingWriter used by long-running commands, and ExitCodeError for commands
// that finish with a failing outcome rather than an operational error.
package utils
