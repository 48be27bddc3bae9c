// Package logging builds the slog loggers used across Flickvault and
// provides attribute helpers with standardized field names. Console
// output renders one line per record with the component name folded
// into the message prefix; JSON output is suitable for ingestion.
package logging
