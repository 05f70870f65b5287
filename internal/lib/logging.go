package lib

import (
	"io"
	"log/slog"
	"path/filepath"

	charmlog "github.com/charmbracelet/log"
)

func ParseSLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(s))
	return level, err
}

func NiceLogger(w io.Writer, level slog.Level) *slog.Logger {
	// https://www.reddit.com/r/golang/comments/15nwnkl/achieve_lshortfile_with_slog/jy8emik/
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		AddSource: true,
		Level:     &level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.SourceKey {
				source, _ := a.Value.Any().(*slog.Source)
				if source != nil {
					source.File = filepath.Base(source.File)
				}
			}
			return a
		},
	}))
}

// PrettyLogger is NiceLogger for humans at a terminal, charmbracelet/log does the
// formatting and slog stays the API everything else logs through.
func PrettyLogger(w io.Writer, level slog.Level) *slog.Logger {
	handler := charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           charmlog.Level(level),
	})
	return slog.New(handler)
}

// DiscardLogger is handy for tests and for callers that don't care.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
