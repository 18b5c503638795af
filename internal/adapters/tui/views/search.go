package views

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"diagrammer/internal/adapters/tui/styles"
	"diagrammer/internal/application"
	"diagrammer/internal/application/commands"
	"diagrammer/internal/domain"
)

const searchPageSize = 10

// SearchKeyMap defines key bindings for the search view
type SearchKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	Select   key.Binding
	Cancel   key.Binding
}

var SearchKeys = SearchKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "ctrl+p"),
		key.WithHelp("↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "ctrl+n"),
		key.WithHelp("↓", "down"),
	),
	NextPage: key.NewBinding(
		key.WithKeys("pgdown"),
		key.WithHelp("pgdn", "next page"),
	),
	PrevPage: key.NewBinding(
		key.WithKeys("pgup"),
		key.WithHelp("pgup", "prev page"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "go to"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

// SearchModel fuzzy searches nodes and connections across every diagram
type SearchModel struct {
	ViewState
	session *application.Session
	input   textinput.Model
	results []commands.SearchResult
	pager   *Paginator
}

// NewSearchModel creates a new search view model
func NewSearchModel(session *application.Session) *SearchModel {
	input := textinput.New()
	input.Placeholder = "Search tables, columns, nodes..."
	input.Focus()

	return &SearchModel{
		session: session,
		input:   input,
		pager:   NewPaginator(searchPageSize),
	}
}

// Init initializes the search view
func (m *SearchModel) Init() tea.Cmd {
	return textinput.Blink
}

// Reset resets the search view
func (m *SearchModel) Reset() {
	m.input.SetValue("")
	m.results = nil
	m.pager.Reset()
	m.input.Focus()
}

// Update handles messages for the search view
func (m *SearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, SearchKeys.Cancel):
			return m, func() tea.Msg {
				return SwitchToBrowserMsg{}
			}

		case key.Matches(msg, SearchKeys.Up):
			m.pager.CursorUp()
			return m, nil

		case key.Matches(msg, SearchKeys.Down):
			m.pager.CursorDown()
			return m, nil

		case key.Matches(msg, SearchKeys.NextPage):
			m.pager.NextPage()
			return m, nil

		case key.Matches(msg, SearchKeys.PrevPage):
			m.pager.PrevPage()
			return m, nil

		case key.Matches(msg, SearchKeys.Select):
			if i := m.pager.Cursor(); i >= 0 && i < len(m.results) {
				result := m.results[i]
				return m, func() tea.Msg {
					return SearchSelectMsg{Kind: result.Kind, ID: result.ID}
				}
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.search(m.input.Value())

	return m, cmd
}

func (m *SearchModel) search(query string) {
	results, err := commands.NewSearchCommand(m.session, query, domain.KindUnknown).Execute(context.Background())
	if err != nil {
		m.SetError(err)
		results = nil
	}
	m.results = results
	m.pager.Reset()
	m.pager.SetTotal(len(results))
}

// Results returns the current matches
func (m *SearchModel) Results() []commands.SearchResult {
	return m.results
}

// SearchSelectMsg is sent when a search result is selected
type SearchSelectMsg struct {
	Kind domain.DiagramKind
	ID   string
}

// View renders the search view
func (m *SearchModel) View() string {
	v := NewViewBuilder().Title("Search")

	v.Line(styles.InputFocused.Render(m.input.View())).BlankLine()

	if len(m.results) == 0 {
		if len([]rune(m.input.Value())) >= 2 {
			v.Muted("No results found")
		} else {
			v.Muted("Type at least 2 characters to search")
		}
	} else {
		v.Subtitle(fmt.Sprintf("%d results (page %s)", len(m.results), m.pager.View()))

		start, end := m.pager.VisibleRange()
		for i := start; i < end; i++ {
			v.Line(m.renderResult(m.results[i], i == m.pager.Cursor()))
		}
	}

	v.BlankLine()
	v.Help(SearchKeys.Up, SearchKeys.Down, SearchKeys.NextPage, SearchKeys.Select, SearchKeys.Cancel)

	return v.String()
}

func (m *SearchModel) renderResult(result commands.SearchResult, selected bool) string {
	text := fmt.Sprintf("[%s] %s %s", result.Kind, result.Type, result.Name)

	if selected {
		return styles.NodeSelected.Render(text)
	}
	if result.Detail != "" {
		text += "  " + styles.NodeDetail.Render(result.Detail)
	}
	return text
}
