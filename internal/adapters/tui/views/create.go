package views

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"diagrammer/internal/application"
	"diagrammer/internal/application/commands"
	"diagrammer/internal/domain"
)

// FormMode selects what the form view creates or changes
type FormMode int

const (
	FormAddTable FormMode = iota
	FormAddColumn
	FormAddNode
	FormConnect
	FormRename
)

// FormModel collects the fields of an add, connect or rename action
type FormModel struct {
	ViewState
	session *application.Session
	mode    FormMode
	kind    domain.DiagramKind
	target  *Row
	form    *InputForm
}

// NewFormModel creates a new form view model
func NewFormModel(session *application.Session) *FormModel {
	return &FormModel{session: session}
}

// Setup prepares the form for mode. target is the browser row under the
// cursor and may be nil.
func (m *FormModel) Setup(mode FormMode, kind domain.DiagramKind, target *Row) {
	m.mode = mode
	m.kind = kind
	m.target = target
	m.ClearMessage()
	m.form = NewInputForm(m.fields()...)

	switch mode {
	case FormConnect:
		if target != nil && !target.Type.IsConnection() {
			from := target.Name
			if kind == domain.KindERD {
				from = target.Name + "."
			}
			m.form.SetValue(0, from)
		}
	case FormRename:
		if target != nil {
			m.form.SetValue(0, target.Name)
		}
	}
}

func (m *FormModel) fields() []InputField {
	switch m.mode {
	case FormAddTable:
		return []InputField{
			NewInputField("Name", "Table_N", 64),
			NewInputField("Comment", "optional", 255),
		}
	case FormAddColumn:
		return []InputField{
			NewInputField("Name", "column_N", 64),
			NewChoiceField("Data type", dataTypeChoices()),
			NewInputField("Length", "255", 6),
		}
	case FormAddNode:
		if m.kind == domain.KindUseCase {
			return []InputField{
				NewChoiceField("Kind", []string{"actor", "usecase", "system", "note"}),
				NewInputField("Name", "default name", 100),
			}
		}
		return []InputField{
			NewChoiceField("Shape", shapeChoices()),
			NewInputField("Label", "default label", 100),
		}
	case FormConnect:
		switch m.kind {
		case domain.KindERD:
			return []InputField{
				NewInputField("From (table.column)", "orders.user_id", 130),
				NewInputField("To (table.column)", "users.id", 130),
				NewChoiceField("Type", relationTypeChoices),
			}
		case domain.KindUseCase:
			return []InputField{
				NewInputField("From", "name or id", 100),
				NewInputField("To", "name or id", 100),
				NewChoiceField("Kind", useCaseEdgeChoices),
			}
		default:
			return []InputField{
				NewInputField("From", "label or id", 100),
				NewInputField("To", "label or id", 100),
				NewInputField("Label", "optional", 100),
			}
		}
	default:
		return []InputField{NewInputField("New name", "", 100)}
	}
}

var (
	relationTypeChoices = []string{string(domain.OneToMany), string(domain.OneToOne), string(domain.ManyToMany)}
	useCaseEdgeChoices  = []string{"association", "include", "extend", "generalization", "dependency"}
)

func dataTypeChoices() []string {
	out := make([]string, 0, len(domain.DataTypes))
	for _, info := range domain.DataTypes {
		out = append(out, string(info.Type))
	}
	return out
}

// shapeChoices lists every shape with process, the default, first
func shapeChoices() []string {
	out := []string{string(domain.ShapeProcess)}
	for _, k := range domain.ShapeKinds() {
		if k != domain.ShapeProcess {
			out = append(out, string(k))
		}
	}
	return out
}

// Init initializes the form view
func (m *FormModel) Init() tea.Cmd {
	if m.form == nil {
		return nil
	}
	return m.form.Init()
}

// Update handles messages for the form view
func (m *FormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.form.Keys.Cancel):
			return m, func() tea.Msg { return SwitchToBrowserMsg{} }

		case key.Matches(msg, m.form.Keys.Submit):
			res, err := m.Submit(context.Background())
			if err != nil {
				m.SetError(err)
				return m, nil
			}
			return m, func() tea.Msg { return ActionDoneMsg{Message: res} }
		}
	}

	_, cmd := m.form.Update(msg)
	return m, cmd
}

// Submit runs the command for the current mode and returns its message
func (m *FormModel) Submit(ctx context.Context) (string, error) {
	v := m.form.Value

	switch m.mode {
	case FormAddTable:
		cmd := commands.NewAddTableCommand(m.session.ERD, v(0), m.nextPosition())
		cmd.Comment = v(1)
		res, err := cmd.Execute(ctx)
		if err != nil {
			return "", err
		}
		return res.Message, nil

	case FormAddColumn:
		if m.target == nil {
			return "", fmt.Errorf("select a table first")
		}
		table := m.target.ID
		if m.target.Type == RowColumn {
			table = m.target.ParentID
		}
		spec := commands.ColumnSpec{Name: v(0), DataType: v(1)}
		if s := v(2); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 {
				return "", &application.ValidationError{Field: "length", Message: "length must be a positive number"}
			}
			spec.Length = n
		}
		res, err := commands.NewAddColumnCommand(m.session.ERD, table, spec).Execute(ctx)
		if err != nil {
			return "", err
		}
		return res.Message, nil

	case FormAddNode:
		if m.kind == domain.KindUseCase {
			res, err := commands.NewAddUseCaseNodeCommand(m.session.UseCase, v(0), v(1), m.nextPosition()).Execute(ctx)
			if err != nil {
				return "", err
			}
			return res.Message, nil
		}
		res, err := commands.NewAddFlowNodeCommand(m.session.Flowchart, v(0), v(1), m.nextPosition()).Execute(ctx)
		if err != nil {
			return "", err
		}
		return res.Message, nil

	case FormConnect:
		return m.connect(ctx, v(0), v(1), v(2))

	case FormRename:
		if m.target == nil {
			return "", fmt.Errorf("nothing selected")
		}
		if m.target.Type == RowColumn {
			spec := commands.ColumnSpec{Name: v(0)}
			if err := application.ValidateRequired("name", spec.Name); err != nil {
				return "", err
			}
			res, err := commands.NewUpdateColumnCommand(m.session.ERD, m.target.ParentID, m.target.ID, spec).Execute(ctx)
			if err != nil {
				return "", err
			}
			return res.Message, nil
		}
		res, err := commands.NewRenameCommand(m.session, m.kind, m.target.ID, v(0)).Execute(ctx)
		if err != nil {
			return "", err
		}
		return res.Message, nil
	}

	return "", fmt.Errorf("unknown form mode %d", m.mode)
}

func (m *FormModel) connect(ctx context.Context, from, to, extra string) (string, error) {
	switch m.kind {
	case domain.KindERD:
		cmd := commands.NewAddRelationCommand(m.session.ERD, from, to)
		cmd.Type = extra
		res, err := cmd.Execute(ctx)
		if err != nil {
			return "", err
		}
		return res.Message, nil
	case domain.KindUseCase:
		res, err := commands.NewAddUseCaseEdgeCommand(m.session.UseCase, extra, from, to).Execute(ctx)
		if err != nil {
			return "", err
		}
		return res.Message, nil
	default:
		cmd := commands.NewAddFlowEdgeCommand(m.session.Flowchart, from, to)
		cmd.Label = extra
		res, err := cmd.Execute(ctx)
		if err != nil {
			return "", err
		}
		return res.Message, nil
	}
}

// nextPosition staggers new nodes so they do not stack on the canvas
func (m *FormModel) nextPosition() domain.Position {
	var n int
	switch m.kind {
	case domain.KindERD:
		n = len(m.session.ERD.Tables())
	case domain.KindFlowchart:
		n = len(m.session.Flowchart.Nodes())
	case domain.KindUseCase:
		n = len(m.session.UseCase.Nodes())
	}
	return domain.Position{X: float64(100 + (n%5)*250), Y: float64(100 + (n/5)*200)}
}

func (m *FormModel) title() string {
	switch m.mode {
	case FormAddTable:
		return "New Table"
	case FormAddColumn:
		return "New Column"
	case FormAddNode:
		return "New " + m.kind.Title() + " Node"
	case FormConnect:
		if m.kind == domain.KindERD {
			return "New Relation"
		}
		return "New Connection"
	default:
		return "Rename"
	}
}

// View renders the form view
func (m *FormModel) View() string {
	v := NewViewBuilder().
		Title(m.title()).
		Tabs(m.kind)

	if m.target != nil {
		v.Line(RenderLabelValue(m.target.Type.String(), m.target.Name)).BlankLine()
	}

	for i := range m.form.Fields {
		v.Line(m.form.RenderField(i))
	}
	v.BlankLine()
	v.Message(m.Message, m.MessageErr)

	submit := "create"
	if m.mode == FormRename {
		submit = "rename"
	}
	v.Raw(m.form.RenderHelp(submit))

	return v.String()
}
