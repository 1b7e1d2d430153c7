// Package logger provides the structured key/value logger shared by every
// component of the service.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	charm "github.com/charmbracelet/log"
)

type Logger struct {
	*slog.Logger
}

// NewLogger returns a text logger writing to stderr at the given level.
// Unknown levels fall back to info.
func NewLogger(level string) *Logger {
	return New(os.Stderr, level, "text")
}

// New builds a logger for w. format is "text" or "json".
func New(w io.Writer, level, format string) *Logger {
	lvl, err := charm.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = charm.InfoLevel
	}

	formatter := charm.TextFormatter
	if strings.EqualFold(format, "json") {
		formatter = charm.JSONFormatter
	}

	handler := charm.NewWithOptions(w, charm.Options{
		ReportTimestamp: true,
		Level:           lvl,
		Formatter:       formatter,
	})
	handler.SetStyles(levelStyles())

	return &Logger{Logger: slog.New(handler)}
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

func levelStyles() *charm.Styles {
	styles := charm.DefaultStyles()

	colors := map[charm.Level]lipgloss.AdaptiveColor{
		charm.DebugLevel: {Light: "#7E57C2", Dark: "#7E57C2"},
		charm.InfoLevel:  {Light: "#04B575", Dark: "#04B575"},
		charm.WarnLevel:  {Light: "#EE6FF8", Dark: "#EE6FF8"},
		charm.ErrorLevel: {Light: "#FF6B6B", Dark: "#FF6B6B"},
	}
	for lvl, color := range colors {
		styles.Levels[lvl] = lipgloss.NewStyle().
			SetString(strings.ToUpper(lvl.String())).
			Bold(true).
			MaxWidth(5).
			Foreground(color)
	}
	styles.Keys["error"] = lipgloss.NewStyle().Foreground(colors[charm.ErrorLevel])
	styles.Values["error"] = lipgloss.NewStyle().Bold(true)

	return styles
}
