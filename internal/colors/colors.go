// Package colors provides colored console output that is mirrored to the
// structured logger when one is set.
package colors

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Logger is the subset of the structured logger that console output mirrors to.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

const checkmark = "✓"

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	debugStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

var (
	mu           sync.RWMutex
	stdout       io.Writer = os.Stdout
	stderr       io.Writer = os.Stderr
	logger       Logger
	debugEnabled bool
)

func init() {
	switch strings.ToLower(os.Getenv("CLIENTSEARCH_DEBUG")) {
	case "1", "true", "yes", "on":
		debugEnabled = true
	}
}

// SetDebug enables or disables debug output.
func SetDebug(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	debugEnabled = enabled
}

// SetLogger sets the structured logger to mirror console output. nil stops mirroring.
func SetLogger(l Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

// SetOutput redirects console output and returns a func restoring the previous writers.
func SetOutput(out, errOut io.Writer) (restore func()) {
	mu.Lock()
	defer mu.Unlock()
	prevOut, prevErr := stdout, stderr
	stdout, stderr = out, errOut
	return func() {
		mu.Lock()
		defer mu.Unlock()
		stdout, stderr = prevOut, prevErr
	}
}

func emit(toErr bool, line string, mirror func(Logger)) {
	mu.RLock()
	w, l := stdout, logger
	if toErr {
		w = stderr
	}
	mu.RUnlock()

	if l != nil {
		mirror(l)
	}
	if _, err := fmt.Fprintln(w, line); err != nil && w != os.Stderr {
		fmt.Fprintln(os.Stderr, line)
	}
}

// Error outputs an error message to stderr.
func Error(msgs ...string) {
	msg := strings.Join(msgs, " ")
	emit(true, errorStyle.Render("Error:")+" "+msg, func(l Logger) { l.Error(msg) })
}

// Warning outputs a warning message to stderr.
func Warning(msgs ...string) {
	msg := strings.Join(msgs, " ")
	emit(true, warningStyle.Render("Warning:")+" "+msg, func(l Logger) { l.Warn(msg) })
}

// Success outputs a success message to stdout.
func Success(msgs ...string) {
	msg := strings.Join(msgs, " ")
	emit(false, successStyle.Render(checkmark)+" "+msg, func(l Logger) { l.Info(msg, "type", "success") })
}

// Info outputs an informational message to stdout.
func Info(msgs ...string) {
	msg := strings.Join(msgs, " ")
	emit(false, infoStyle.Render(msg), func(l Logger) { l.Info(msg) })
}

// Debug outputs a debug message to stderr if debug is enabled.
func Debug(msgs ...string) {
	mu.RLock()
	enabled := debugEnabled
	mu.RUnlock()
	if !enabled {
		return
	}
	msg := strings.Join(msgs, " ")
	emit(true, debugStyle.Render("Debug:")+" "+msg, func(l Logger) { l.Debug(msg) })
}
