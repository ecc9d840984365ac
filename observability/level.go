// Package observability routes store events to logging sinks.
//
// Severities use OpenTelemetry SeverityNumber values, so an event can be
// handed to an OTel log pipeline without remapping.
package observability

import "log/slog"

// Level is an event's severity number.
type Level int

const (
	LevelVerbose Level = 5
	LevelInfo    Level = 9
	LevelWarning Level = 13
	LevelError   Level = 17
)

// band is one OTel severity range: every number up to max shares its text and
// its slog level.
type band struct {
	max  Level
	text string
	slog slog.Level
}

var bands = []band{
	{max: 4, text: "TRACE", slog: slog.LevelDebug},
	{max: 8, text: "DEBUG", slog: slog.LevelDebug},
	{max: 12, text: "INFO", slog: slog.LevelInfo},
	{max: 16, text: "WARN", slog: slog.LevelWarn},
	{max: 20, text: "ERROR", slog: slog.LevelError},
}

func (l Level) band() band {
	for _, b := range bands {
		if l <= b.max {
			return b
		}
	}
	return band{max: l, text: "FATAL", slog: slog.LevelError}
}

func (l Level) String() string {
	return l.band().text
}

// SlogLevel is the slog level an event of severity l is logged at.
func (l Level) SlogLevel() slog.Level {
	return l.band().slog
}
