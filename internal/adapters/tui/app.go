package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"diagrammer/internal/adapters/editor"
	"diagrammer/internal/adapters/tui/views"
	"diagrammer/internal/application"
	"diagrammer/internal/application/commands"
	"diagrammer/internal/domain"
	"diagrammer/internal/ports"
)

// ViewState represents the current view
type ViewState int

const (
	ViewBrowser ViewState = iota
	ViewForm
	ViewDelete
	ViewSearch
	ViewHelp
)

// App is the main TUI application model
type App struct {
	session *application.Session
	editor  ports.EditorOpener

	state   ViewState
	browser *views.BrowserModel
	form    *views.FormModel
	confirm *views.DeleteModel
	search  *views.SearchModel
	help    *views.HelpModel

	width  int
	height int
}

// NewApp creates a new TUI application. ed and clip may be nil, which
// disables editing in $EDITOR and copying to the clipboard.
func NewApp(session *application.Session, ed ports.EditorOpener, clip ports.Clipboard) *App {
	return &App{
		session: session,
		editor:  ed,
		state:   ViewBrowser,
		browser: views.NewBrowserModel(session, clip),
		form:    views.NewFormModel(session),
		confirm: views.NewDeleteModel(session),
		search:  views.NewSearchModel(session),
		help:    views.NewHelpModel(),
	}
}

// State returns the active view
func (a *App) State() ViewState {
	return a.state
}

// Browser returns the browser view model
func (a *App) Browser() *views.BrowserModel {
	return a.browser
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.browser.Init()
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.browser.SetSize(msg.Width, msg.Height)
		a.form.SetSize(msg.Width, msg.Height)
		a.confirm.SetSize(msg.Width, msg.Height)
		a.search.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	// View switching messages
	case views.SwitchToFormMsg:
		a.state = ViewForm
		a.form.Setup(msg.Mode, msg.Kind, msg.Target)
		return a, a.form.Init()

	case views.SwitchToDeleteMsg:
		a.state = ViewDelete
		a.confirm.SetTarget(msg.Target)
		return a, nil

	case views.SwitchToSearchMsg:
		a.state = ViewSearch
		a.search.Reset()
		return a, a.search.Init()

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SwitchToBrowserMsg:
		a.state = ViewBrowser
		a.browser.Reload()
		return a, nil

	case views.SearchSelectMsg:
		a.state = ViewBrowser
		a.browser.Focus(msg.Kind, msg.ID)
		return a, nil

	// Results of edits made in any view land in the browser
	case views.ActionDoneMsg, views.ActionErrMsg:
		a.state = ViewBrowser
		_, cmd := a.browser.Update(msg)
		return a, cmd

	case views.OpenEditorMsg:
		return a, a.openEditor(msg.Kind)

	case editorFinishedMsg:
		return a, a.importEdited(msg)
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewBrowser:
		_, cmd = a.browser.Update(msg)
	case ViewForm:
		_, cmd = a.form.Update(msg)
	case ViewDelete:
		_, cmd = a.confirm.Update(msg)
	case ViewSearch:
		_, cmd = a.search.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}

	return a, cmd
}

type editorFinishedMsg struct {
	kind domain.DiagramKind
	path string
	err  error
}

func actionErr(err error) tea.Cmd {
	return func() tea.Msg { return views.ActionErrMsg{Err: err} }
}

// openEditor writes the diagram snapshot to a temp file and suspends the
// TUI while the editor runs.
func (a *App) openEditor(kind domain.DiagramKind) tea.Cmd {
	if a.editor == nil {
		return actionErr(fmt.Errorf("no editor configured"))
	}

	snapshot, err := commands.NewExportCommand(a.session, kind, string(application.FormatJSON)).Execute(context.Background())
	if err != nil {
		return actionErr(err)
	}
	path, err := editor.WriteTemp(kind, snapshot)
	if err != nil {
		return actionErr(err)
	}

	cmd, err := a.editor.Command(path)
	if err != nil {
		return func() tea.Msg {
			return editorFinishedMsg{kind: kind, path: path, err: err}
		}
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{kind: kind, path: path, err: err}
	})
}

// importEdited replaces the diagram with the edited snapshot. A malformed
// file leaves the diagram unchanged.
func (a *App) importEdited(msg editorFinishedMsg) tea.Cmd {
	text, readErr := editor.ReadBack(msg.path)
	if msg.err != nil {
		return actionErr(fmt.Errorf("editor failed: %w", msg.err))
	}
	if readErr != nil {
		return actionErr(readErr)
	}

	session := a.session
	return func() tea.Msg {
		res, err := commands.NewImportCommand(session, msg.kind, text).Execute(context.Background())
		if err != nil {
			return views.ActionErrMsg{Err: err}
		}
		return views.ActionDoneMsg{Message: res.Message}
	}
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewForm:
		return a.form.View()
	case ViewDelete:
		return a.confirm.View()
	case ViewSearch:
		return a.search.View()
	case ViewHelp:
		return a.help.View()
	default:
		return a.browser.View()
	}
}
