package errors

import "github.com/taxdesk/clientsearch/internal/colors"

// consoleOutput prints through the colors package: errors and warnings to
// stderr, everything else to stdout.
type consoleOutput struct{}

var _ ColorOutput = consoleOutput{}

func (consoleOutput) Error(msgs ...string)   { colors.Error(msgs...) }
func (consoleOutput) Warning(msgs ...string) { colors.Warning(msgs...) }
func (consoleOutput) Info(msgs ...string)    { colors.Info(msgs...) }
func (consoleOutput) Success(msgs ...string) { colors.Success(msgs...) }

// NewConsoleHandler returns the handler used by the one-shot commands.
func NewConsoleHandler() *CLIHandler {
	return NewCLIHandler(consoleOutput{})
}
