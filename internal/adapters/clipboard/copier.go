package clipboard

import (
	"github.com/atotto/clipboard"

	"diagrammer/internal/ports"
)

// Copier implements ports.Clipboard with the system clipboard
type Copier struct{}

// Ensure Copier implements Clipboard
var _ ports.Clipboard = Copier{}

// NewCopier creates a new system clipboard copier
func NewCopier() Copier {
	return Copier{}
}

// Copy places text on the system clipboard
func (Copier) Copy(text string) error {
	return clipboard.WriteAll(text)
}

// Available reports whether a clipboard utility was found
func Available() bool {
	return !clipboard.Unsupported
}

// Memory is an in-process clipboard for tests and headless runs
type Memory struct {
	Text string
}

// Copy stores text
func (m *Memory) Copy(text string) error {
	m.Text = text
	return nil
}
