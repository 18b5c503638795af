package editor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"diagrammer/internal/domain"
)

// Opener implements ports.EditorOpener
type Opener struct {
	editor string
}

// NewOpener creates a new editor opener. A non-empty editor overrides
// $VISUAL and $EDITOR; it may carry arguments ("code --wait").
func NewOpener(editor string) *Opener {
	return &Opener{editor: editor}
}

// OpenFile opens a file in the user's preferred editor
func (o *Opener) OpenFile(path string) error {
	cmd, err := o.Command(path)
	if err != nil {
		return err
	}
	return cmd.Run()
}

// Command returns an exec.Cmd for opening a file in the editor
// This is useful for integrating with bubbletea's ExecProcess
func (o *Opener) Command(path string) (*exec.Cmd, error) {
	fields := strings.Fields(o.findEditor())
	if len(fields) == 0 {
		return nil, fmt.Errorf("no editor found: set $EDITOR environment variable")
	}

	args := append(fields[1:], path)
	cmd := exec.Command(fields[0], args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd, nil
}

// findEditor returns the editor to use
func (o *Opener) findEditor() string {
	if o.editor != "" {
		return o.editor
	}

	// Graphical editors first, as git does
	if visual := os.Getenv("VISUAL"); visual != "" {
		return visual
	}
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}

	editors := []string{"nvim", "vim", "vi", "nano"}
	for _, editor := range editors {
		if path, err := exec.LookPath(editor); err == nil {
			return path
		}
	}

	return ""
}

// WriteTemp writes a snapshot to a temp file for editing and returns its path
func WriteTemp(kind domain.DiagramKind, snapshot string) (string, error) {
	f, err := os.CreateTemp("", "diagrammer-"+kind.String()+"-*.json")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(snapshot); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	return f.Name(), nil
}

// ReadBack returns the edited contents of a file created by WriteTemp and removes it
func ReadBack(path string) (string, error) {
	defer os.Remove(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read edited snapshot: %w", err)
	}
	return string(data), nil
}
