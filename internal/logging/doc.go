// Package logging builds the slog loggers used by the wavecal command.
//
// Two formats are supported: a compact console format for terminals and a
// JSON format for files and pipelines. The "auto" format picks console when
// the output is a terminal.
package logging
