// Where: cli/internal/ports/ui.go
// What: User interface abstraction for workflows.
// Why: Provide a single output surface so workflows stay UI-agnostic.
package ports

import (
	"io"

	"github.com/tlaloc-dev/tlaloc/cli/internal/ui"
)

// KeyValue is a key/value pair rendered inside a block.
type KeyValue struct {
	Key   string
	Value any
}

// UserInterface exposes high-level output helpers used by workflows.
type UserInterface interface {
	Info(msg string)
	Warn(msg string)
	Success(msg string)
	Block(emoji, title string, rows []KeyValue)
}

// NewConsoleUI returns a UserInterface backed by the console helper.
func NewConsoleUI(out io.Writer) UserInterface {
	return consoleUI{console: ui.New(out)}
}

type consoleUI struct {
	console *ui.Console
}

func (c consoleUI) Info(msg string) {
	c.console.Info(msg)
}

func (c consoleUI) Warn(msg string) {
	c.console.Warn(msg)
}

func (c consoleUI) Success(msg string) {
	c.console.Success(msg)
}

func (c consoleUI) Block(emoji, title string, rows []KeyValue) {
	c.console.Header(emoji, title)
	for _, row := range rows {
		c.console.Item(row.Key, row.Value)
	}
}
