package views

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"diagrammer/internal/adapters/tui/styles"
	"diagrammer/internal/application"
	"diagrammer/internal/application/commands"
)

// DeleteModel is the model for the delete confirmation view
type DeleteModel struct {
	ConfirmationModel
	session *application.Session
}

// NewDeleteModel creates a new delete view model
func NewDeleteModel(session *application.Session) *DeleteModel {
	return &DeleteModel{
		ConfirmationModel: NewConfirmationModel(),
		session:           session,
	}
}

// Init initializes the delete view
func (m *DeleteModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the delete view
func (m *DeleteModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		handled, cmd := m.HandleKeyMsg(msg,
			func() tea.Msg { return m.doDelete() },
			func() tea.Msg { return SwitchToBrowserMsg{} },
		)
		if handled {
			return m, cmd
		}
	}

	return m, nil
}

func (m *DeleteModel) doDelete() tea.Msg {
	ctx := context.Background()

	if m.Target.Type == RowColumn {
		res, err := commands.NewDeleteColumnCommand(m.session.ERD, m.Target.ParentID, m.Target.ID).Execute(ctx)
		if err != nil {
			return ActionErrMsg{Err: err}
		}
		return ActionDoneMsg{Message: res.Message}
	}

	res, err := commands.NewDeleteCommand(m.session, m.Target.Kind, m.Target.ID).Execute(ctx)
	if err != nil {
		return ActionErrMsg{Err: err}
	}
	return ActionDoneMsg{Message: res.Message}
}

// View renders the delete confirmation view
func (m *DeleteModel) View() string {
	v := NewViewBuilder().
		Title("Delete Confirmation").
		Line(styles.ErrorMsg.Render("This action cannot be undone!")).
		BlankLine().
		Line(RenderTargetInfo(m.Target, "Delete")).
		BlankLine()

	switch m.Target.Type {
	case RowTable:
		v.Muted("  Relations to and from this table are deleted too.").BlankLine()
	case RowColumn:
		v.Muted("  Relations using this column are deleted too.").BlankLine()
	case RowNode:
		v.Muted("  Connections to this node are deleted too.").BlankLine()
	}

	v.Raw(RenderConfirmPrompt("Are you sure?"))
	return v.String()
}
