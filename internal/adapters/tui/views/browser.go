package views

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"diagrammer/internal/adapters/tui/styles"
	"diagrammer/internal/application"
	"diagrammer/internal/application/commands"
	"diagrammer/internal/domain"
	"diagrammer/internal/ports"
)

// BrowserKeyMap defines key bindings for the browser view
type BrowserKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Enter     key.Binding
	NextKind  key.Binding
	PrevKind  key.Binding
	New       key.Binding
	Connect   key.Binding
	Rename    key.Binding
	Delete    key.Binding
	Duplicate key.Binding
	Front     key.Binding
	Back      key.Binding
	Copy      key.Binding
	CopySQL   key.Binding
	Edit      key.Binding
	Search    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

var BrowserKeys = BrowserKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "collapse"),
	),
	Right: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "expand"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "toggle"),
	),
	NextKind: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next diagram"),
	),
	PrevKind: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "previous diagram"),
	),
	New: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new"),
	),
	Connect: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "column/connect"),
	),
	Rename: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "rename"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	Duplicate: key.NewBinding(
		key.WithKeys("D"),
		key.WithHelp("D", "duplicate"),
	),
	Front: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "bring to front"),
	),
	Back: key.NewBinding(
		key.WithKeys("b"),
		key.WithHelp("b", "send to back"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy JSON"),
	),
	CopySQL: key.NewBinding(
		key.WithKeys("Y"),
		key.WithHelp("Y", "copy SQL"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit JSON"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// BrowserModel lists the nodes and connections of one diagram at a time
type BrowserModel struct {
	ViewState
	session   *application.Session
	clipboard ports.Clipboard
	kind      domain.DiagramKind
	expanded  map[string]bool
	rows      []Row
	cursor    int
}

// NewBrowserModel creates a new browser model showing the ERD
func NewBrowserModel(session *application.Session, clip ports.Clipboard) *BrowserModel {
	m := &BrowserModel{
		session:   session,
		clipboard: clip,
		kind:      domain.KindERD,
		expanded:  make(map[string]bool),
	}
	m.refresh()
	return m
}

// Init initializes the browser
func (m *BrowserModel) Init() tea.Cmd {
	return nil
}

// Kind returns the diagram currently shown
func (m *BrowserModel) Kind() domain.DiagramKind {
	return m.kind
}

// Rows returns the visible rows
func (m *BrowserModel) Rows() []Row {
	return m.rows
}

// Selected returns the row under the cursor
func (m *BrowserModel) Selected() (Row, bool) {
	if m.cursor >= 0 && m.cursor < len(m.rows) {
		return m.rows[m.cursor], true
	}
	return Row{}, false
}

// ActionDoneMsg reports a completed edit
type ActionDoneMsg struct {
	Message string
}

// ActionErrMsg reports a failed edit
type ActionErrMsg struct {
	Err error
}

// Update handles messages for the browser
func (m *BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case ActionDoneMsg:
		m.SetMessage(msg.Message, false)
		m.refresh()
		return m, nil

	case ActionErrMsg:
		m.SetError(msg.Err)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		m.ClearMessage()
		return m, m.handleKey(msg)
	}

	return m, nil
}

func (m *BrowserModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	row, hasRow := m.Selected()

	switch {
	case key.Matches(msg, BrowserKeys.Quit):
		return tea.Quit

	case key.Matches(msg, BrowserKeys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, BrowserKeys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}

	case key.Matches(msg, BrowserKeys.NextKind):
		m.SwitchKind(m.kind.Next())

	case key.Matches(msg, BrowserKeys.PrevKind):
		m.SwitchKind(prevKind(m.kind))

	case key.Matches(msg, BrowserKeys.Left):
		if !hasRow {
			return nil
		}
		if row.Type == RowTable && row.Expanded {
			m.toggle(row.ID)
		} else if row.Type == RowColumn {
			m.focusID(row.ParentID)
		}

	case key.Matches(msg, BrowserKeys.Right):
		if hasRow && row.Type == RowTable && !row.Expanded {
			m.toggle(row.ID)
		}

	case key.Matches(msg, BrowserKeys.Enter):
		if hasRow && row.Type == RowTable {
			m.toggle(row.ID)
		}

	case key.Matches(msg, BrowserKeys.New):
		mode := FormAddNode
		if m.kind == domain.KindERD {
			mode = FormAddTable
		}
		return switchToForm(mode, m.kind, row, hasRow)

	case key.Matches(msg, BrowserKeys.Connect):
		if m.kind == domain.KindERD && hasRow && (row.Type == RowTable || row.Type == RowColumn) {
			return switchToForm(FormAddColumn, m.kind, row, hasRow)
		}
		return switchToForm(FormConnect, m.kind, row, hasRow)

	case key.Matches(msg, BrowserKeys.Rename):
		if hasRow {
			return switchToForm(FormRename, m.kind, row, hasRow)
		}

	case key.Matches(msg, BrowserKeys.Delete):
		if hasRow {
			return func() tea.Msg { return SwitchToDeleteMsg{Target: row} }
		}

	case key.Matches(msg, BrowserKeys.Duplicate):
		if hasRow && !row.Type.IsConnection() && row.Type != RowColumn {
			return m.duplicate(row)
		}

	case key.Matches(msg, BrowserKeys.Front), key.Matches(msg, BrowserKeys.Back):
		if hasRow && m.kind == domain.KindFlowchart && row.Type == RowNode {
			dir := commands.StackFront
			if key.Matches(msg, BrowserKeys.Back) {
				dir = commands.StackBack
			}
			return run(func(ctx context.Context) (string, error) {
				res, err := commands.NewReorderStackCommand(m.session.Flowchart, row.ID, dir).Execute(ctx)
				if err != nil {
					return "", err
				}
				return res.Message, nil
			})
		}

	case key.Matches(msg, BrowserKeys.Copy):
		return m.copyExport(application.FormatJSON)

	case key.Matches(msg, BrowserKeys.CopySQL):
		if m.kind == domain.KindERD {
			return m.copyExport(application.FormatSQL)
		}

	case key.Matches(msg, BrowserKeys.Edit):
		kind := m.kind
		return func() tea.Msg { return OpenEditorMsg{Kind: kind} }

	case key.Matches(msg, BrowserKeys.Search):
		return func() tea.Msg { return SwitchToSearchMsg{} }

	case key.Matches(msg, BrowserKeys.Help):
		return func() tea.Msg { return SwitchToHelpMsg{} }
	}

	return nil
}

func switchToForm(mode FormMode, kind domain.DiagramKind, row Row, hasRow bool) tea.Cmd {
	var target *Row
	if hasRow {
		target = &row
	}
	return func() tea.Msg {
		return SwitchToFormMsg{Mode: mode, Kind: kind, Target: target}
	}
}

// run executes an edit and reports its outcome as an action message
func run(fn func(ctx context.Context) (string, error)) tea.Cmd {
	return func() tea.Msg {
		msg, err := fn(context.Background())
		if err != nil {
			return ActionErrMsg{Err: err}
		}
		return ActionDoneMsg{Message: msg}
	}
}

func (m *BrowserModel) duplicate(row Row) tea.Cmd {
	session := m.session
	return run(func(ctx context.Context) (string, error) {
		switch row.Type {
		case RowTable:
			res, err := commands.NewDuplicateTableCommand(session.ERD, row.ID).Execute(ctx)
			if err != nil {
				return "", err
			}
			return res.Message, nil
		case RowNode:
			var id string
			if row.Kind == domain.KindFlowchart {
				id = session.Flowchart.DuplicateNode(row.ID)
			} else {
				id = session.UseCase.DuplicateNode(row.ID)
			}
			if id == "" {
				return "", &application.NotFoundError{Entity: "node", ID: row.ID}
			}
			return fmt.Sprintf("Duplicated %s as %s", row.Name, id), nil
		}
		return "", fmt.Errorf("cannot duplicate %s", strings.ToLower(row.Type.String()))
	})
}

func (m *BrowserModel) copyExport(format application.ExportFormat) tea.Cmd {
	session, kind, clip := m.session, m.kind, m.clipboard
	return run(func(ctx context.Context) (string, error) {
		if clip == nil {
			return "", errors.New("clipboard unavailable")
		}
		text, err := commands.NewExportCommand(session, kind, string(format)).Execute(ctx)
		if err != nil {
			return "", err
		}
		if err := clip.Copy(text); err != nil {
			return "", fmt.Errorf("failed to copy: %w", err)
		}
		return fmt.Sprintf("Copied %s %s to clipboard", kind, strings.ToUpper(string(format))), nil
	})
}

func prevKind(k domain.DiagramKind) domain.DiagramKind {
	for i, kind := range domain.AllKinds {
		if kind == k {
			return domain.AllKinds[(i+len(domain.AllKinds)-1)%len(domain.AllKinds)]
		}
	}
	return domain.KindERD
}

// SwitchKind shows another diagram
func (m *BrowserModel) SwitchKind(kind domain.DiagramKind) {
	if kind == m.kind {
		return
	}
	m.kind = kind
	m.cursor = 0
	m.refresh()
}

// Focus shows kind and moves the cursor to the row with id
func (m *BrowserModel) Focus(kind domain.DiagramKind, id string) {
	m.SwitchKind(kind)
	m.focusID(id)
}

func (m *BrowserModel) focusID(id string) {
	for i, r := range m.rows {
		if r.ID == id {
			m.cursor = i
			return
		}
	}
}

func (m *BrowserModel) toggle(tableID string) {
	m.expanded[tableID] = !m.expanded[tableID]
	m.refresh()
	m.focusID(tableID)
}

func (m *BrowserModel) refresh() {
	m.rows = BuildRows(m.session, m.kind, m.expanded)
	// Clamp cursor
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Reload rebuilds the rows from the session
func (m *BrowserModel) Reload() {
	m.refresh()
}

// View renders the browser
func (m *BrowserModel) View() string {
	v := NewViewBuilder().
		Title("Diagrammer").
		Tabs(m.kind)

	if len(m.rows) == 0 {
		v.Muted(fmt.Sprintf("The %s diagram is empty. Press n to add something.", m.kind.Title()))
	} else {
		nodes, connections := m.counts()
		v.Counts(m.kind, nodes, connections)
	}

	for i, row := range m.rows {
		v.Line(m.renderRow(row, i == m.cursor))
	}

	if m.Message != "" {
		v.BlankLine().Line(RenderMessage(m.Message, m.MessageErr))
	}

	v.BlankLine()
	v.Help(m.helpBindings()...)

	return v.String()
}

// counts totals the nodes and connections among the rows. Columns are
// not counted.
func (m *BrowserModel) counts() (nodes, connections int) {
	for _, row := range m.rows {
		switch {
		case row.Type.IsConnection():
			connections++
		case row.Type != RowColumn:
			nodes++
		}
	}
	return nodes, connections
}

func (m *BrowserModel) renderRow(row Row, selected bool) string {
	indent := strings.Repeat("  ", row.Depth())

	var prefix string
	switch {
	case row.Type == RowTable && row.Expanded:
		prefix = styles.TreeExpanded
	case row.Type == RowTable:
		prefix = styles.TreeCollapsed
	case row.Type.IsConnection():
		prefix = styles.TreeLink
	default:
		prefix = styles.TreeLeaf
	}

	var style lipgloss.Style
	switch row.Type {
	case RowTable:
		style = styles.NodeTable.Foreground(styles.KindColor(row.Kind))
	case RowColumn:
		style = styles.NodeColumn
		if row.Key {
			style = styles.NodeKey
		}
	case RowRelation, RowEdge:
		style = styles.NodeConnection
	default:
		style = styles.NodeShape
	}

	text := row.Name
	if selected {
		text = styles.NodeSelected.Render(text)
	} else {
		text = style.Render(text)
	}
	if row.Detail != "" {
		text += "  " + styles.NodeDetail.Render(row.Detail)
	}

	return fmt.Sprintf("%s%s%s", indent, styles.TreeBranch.Render(prefix), text)
}

func (m *BrowserModel) helpBindings() []key.Binding {
	bindings := []key.Binding{BrowserKeys.NextKind, BrowserKeys.New, BrowserKeys.Connect}
	if m.kind == domain.KindERD {
		bindings = append(bindings, BrowserKeys.Right, BrowserKeys.CopySQL)
	}
	if m.kind == domain.KindFlowchart {
		bindings = append(bindings, BrowserKeys.Front)
	}
	return append(bindings, BrowserKeys.Delete, BrowserKeys.Copy, BrowserKeys.Search, BrowserKeys.Help, BrowserKeys.Quit)
}

// Messages for view switching
type SwitchToFormMsg struct {
	Mode   FormMode
	Kind   domain.DiagramKind
	Target *Row
}

type SwitchToDeleteMsg struct {
	Target Row
}

type SwitchToSearchMsg struct{}

type SwitchToHelpMsg struct{}

type SwitchToBrowserMsg struct{}

// OpenEditorMsg asks the app to edit a diagram's JSON in an external editor
type OpenEditorMsg struct {
	Kind domain.DiagramKind
}
