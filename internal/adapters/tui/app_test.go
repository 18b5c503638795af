package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diagrammer/internal/adapters/editor"
	"diagrammer/internal/adapters/tui/views"
	"diagrammer/internal/application"
	"diagrammer/internal/domain"
)

func newTestApp() *App {
	s := application.OpenSession(nil,
		application.WithIDGenerator(application.NewSequenceGenerator("a")),
		application.WithColorPicker(application.FirstColor),
	)
	return NewApp(s, nil, nil)
}

// send delivers msg and follows the view switching commands it returns.
// Cursor blink commands are not followed.
func send(a *App, msg tea.Msg) {
	for msg != nil {
		_, cmd := a.Update(msg)
		if cmd == nil {
			return
		}
		msg = cmd()
		switch msg.(type) {
		case views.SwitchToFormMsg, views.SwitchToDeleteMsg, views.SwitchToHelpMsg,
			views.SwitchToSearchMsg, views.SwitchToBrowserMsg, views.ActionDoneMsg,
			views.ActionErrMsg, views.SearchSelectMsg, views.OpenEditorMsg:
		default:
			return
		}
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestApp_AddTableThroughForm(t *testing.T) {
	a := newTestApp()

	send(a, runes("n"))
	require.Equal(t, ViewForm, a.State())

	for _, r := range "users" {
		a.Update(runes(string(r)))
	}
	send(a, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, ViewBrowser, a.State())
	tables := a.session.ERD.Tables()
	require.Len(t, tables, 1)
	assert.Equal(t, "users", tables[0].Name)
	assert.Contains(t, a.View(), "Created table")
}

func TestApp_HelpAndBack(t *testing.T) {
	a := newTestApp()

	send(a, runes("?"))
	assert.Equal(t, ViewHelp, a.State())
	assert.Contains(t, a.View(), "Diagrammer Help")

	send(a, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ViewBrowser, a.State())
}

func TestApp_DeleteCancel(t *testing.T) {
	a := newTestApp()
	a.session.ERD.AddTable(domain.Position{})
	a.browser.Reload()

	send(a, runes("d"))
	require.Equal(t, ViewDelete, a.State())

	send(a, runes("n"))
	assert.Equal(t, ViewBrowser, a.State())
	assert.Len(t, a.session.ERD.Tables(), 1)
}

func TestApp_EditWithoutEditor(t *testing.T) {
	a := newTestApp()

	send(a, runes("e"))

	assert.True(t, a.browser.MessageErr)
	assert.Contains(t, a.browser.Message, "no editor")
}

func TestApp_ImportEditedSnapshot(t *testing.T) {
	a := newTestApp()

	path, err := editor.WriteTemp(domain.KindFlowchart, `{"nodes":[{"id":"n1","type":"process","position":{"x":0,"y":0},"data":{"label":"Edited"}}],"edges":[]}`)
	require.NoError(t, err)

	send(a, editorFinishedMsg{kind: domain.KindFlowchart, path: path})

	nodes := a.session.Flowchart.Nodes()
	require.Len(t, nodes, 1)
	assert.Equal(t, "Edited", nodes[0].Data.Label)
}

func TestApp_ImportEditedMalformedKeepsDiagram(t *testing.T) {
	a := newTestApp()
	a.session.Flowchart.AddNode(domain.ShapeProcess, domain.Position{})

	path, err := editor.WriteTemp(domain.KindFlowchart, `{broken`)
	require.NoError(t, err)

	send(a, editorFinishedMsg{kind: domain.KindFlowchart, path: path})

	assert.Len(t, a.session.Flowchart.Nodes(), 1)
	assert.True(t, a.browser.MessageErr)
}

func TestApp_EditorFailure(t *testing.T) {
	a := newTestApp()

	path, err := editor.WriteTemp(domain.KindERD, `{}`)
	require.NoError(t, err)

	send(a, editorFinishedMsg{kind: domain.KindERD, path: path, err: errors.New("exit status 1")})

	assert.Contains(t, a.browser.Message, "editor failed")
}
