package editor

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diagrammer/internal/domain"
)

func TestCommand_UsesConfiguredEditorWithArgs(t *testing.T) {
	o := NewOpener("code --wait")

	cmd, err := o.Command("/tmp/erd.json")
	require.NoError(t, err)

	assert.Equal(t, []string{"code", "--wait", "/tmp/erd.json"}, cmd.Args)
}

func TestCommand_PrefersVisualOverEditor(t *testing.T) {
	t.Setenv("VISUAL", "emacs")
	t.Setenv("EDITOR", "nano")

	cmd, err := NewOpener("").Command("file.json")
	require.NoError(t, err)

	assert.Equal(t, []string{"emacs", "file.json"}, cmd.Args)
}

func TestCommand_FallsBackToEditor(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "nano -w")

	cmd, err := NewOpener("").Command("file.json")
	require.NoError(t, err)

	assert.Equal(t, []string{"nano", "-w", "file.json"}, cmd.Args)
}

func TestWriteTempReadBack(t *testing.T) {
	path, err := WriteTemp(domain.KindFlowchart, `{"nodes":[]}`)
	require.NoError(t, err)
	assert.Contains(t, path, "diagrammer-flowchart-")

	require.NoError(t, os.WriteFile(path, []byte(`{"nodes":[],"edges":[]}`), 0644))

	got, err := ReadBack(path)
	require.NoError(t, err)
	assert.Equal(t, `{"nodes":[],"edges":[]}`, got)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
