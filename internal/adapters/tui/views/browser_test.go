package views

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"diagrammer/internal/adapters/clipboard"
	"diagrammer/internal/application"
	"diagrammer/internal/application/commands"
	"diagrammer/internal/domain"
)

func newTestSession(t *testing.T) *application.Session {
	t.Helper()
	s := application.OpenSession(nil,
		application.WithIDGenerator(application.NewSequenceGenerator("v")),
		application.WithColorPicker(application.FirstColor),
	)
	ctx := context.Background()
	for _, name := range []string{"users", "orders"} {
		if _, err := commands.NewAddTableCommand(s.ERD, name, domain.Position{}).Execute(ctx); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := commands.NewAddColumnCommand(s.ERD, "orders", commands.ColumnSpec{Name: "user_id", DataType: "INT"}).Execute(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := commands.NewAddRelationCommand(s.ERD, "orders.user_id", "users.id").Execute(ctx); err != nil {
		t.Fatal(err)
	}
	return s
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// exec runs a command and feeds its message back into the browser
func exec(m *BrowserModel, cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	switch msg.(type) {
	case ActionDoneMsg, ActionErrMsg:
		m.Update(msg)
	}
	return msg
}

func TestBuildRows_ERD(t *testing.T) {
	s := newTestSession(t)
	orders, _ := s.ERD.Table(s.ERD.Tables()[1].ID)

	rows := BuildRows(s, domain.KindERD, nil)
	if len(rows) != 3 {
		t.Fatalf("expected 2 tables and 1 relation, got %d rows", len(rows))
	}
	if rows[0].Type != RowTable || rows[0].Name != "users" {
		t.Errorf("first row = %+v, want table users", rows[0])
	}
	if rows[2].Type != RowRelation || rows[2].Name != "orders.user_id -> users.id" {
		t.Errorf("relation row = %+v", rows[2])
	}

	rows = BuildRows(s, domain.KindERD, map[string]bool{orders.ID: true})
	if len(rows) != 5 {
		t.Fatalf("expected expanded orders to add 2 column rows, got %d rows", len(rows))
	}
	col := rows[3]
	if col.Type != RowColumn || col.Name != "user_id" || col.ParentID != orders.ID {
		t.Errorf("column row = %+v", col)
	}
	if !strings.Contains(col.Detail, "INT") || !strings.Contains(col.Detail, "FK") {
		t.Errorf("column detail = %q, want type and FK flag", col.Detail)
	}
	if !col.Key {
		t.Error("foreign key column should be marked as key")
	}
	if rows[2].Depth() != 1 {
		t.Errorf("column depth = %d, want 1", rows[2].Depth())
	}
}

func TestBuildRows_Flowchart(t *testing.T) {
	s := newTestSession(t)
	a := s.Flowchart.AddNode(domain.ShapeStart, domain.Position{})
	b := s.Flowchart.AddNode(domain.ShapeProcess, domain.Position{})
	s.Flowchart.AddEdge(application.EdgeInput{Source: a, Target: b})

	rows := BuildRows(s, domain.KindFlowchart, nil)
	if len(rows) != 3 {
		t.Fatalf("expected 2 nodes and 1 edge, got %d", len(rows))
	}
	if rows[0].Type != RowNode || rows[2].Type != RowEdge {
		t.Errorf("rows = %+v", rows)
	}
	if !rows[2].Type.IsConnection() {
		t.Error("edge rows are connections")
	}
}

func TestBrowser_ExpandCollapse(t *testing.T) {
	m := NewBrowserModel(newTestSession(t), nil)

	m.Update(keyPress("l"))
	if got := len(m.Rows()); got != 4 {
		t.Fatalf("expanding users should show its id column, got %d rows", got)
	}

	m.Update(keyPress("j"))
	row, _ := m.Selected()
	if row.Type != RowColumn {
		t.Fatalf("expected cursor on column, got %v", row.Type)
	}

	// h on a column jumps back to its table
	m.Update(keyPress("h"))
	row, _ = m.Selected()
	if row.Type != RowTable || row.Name != "users" {
		t.Fatalf("expected cursor on users, got %+v", row)
	}

	m.Update(keyPress("h"))
	if got := len(m.Rows()); got != 3 {
		t.Errorf("collapse should hide columns, got %d rows", got)
	}
}

func TestBrowser_Counts(t *testing.T) {
	m := NewBrowserModel(newTestSession(t), nil)
	m.Update(keyPress("l"))

	nodes, connections := m.counts()
	if nodes != 2 || connections != 1 {
		t.Errorf("counts() = %d, %d, want 2 tables and 1 relation", nodes, connections)
	}
	if !strings.Contains(m.View(), "2 tables, 1 relation") {
		t.Error("view should summarize the ERD")
	}
	if got := plural(3, "edge"); got != "3 edges" {
		t.Errorf("plural(3) = %q", got)
	}
}

func TestBrowser_SwitchKind(t *testing.T) {
	m := NewBrowserModel(newTestSession(t), nil)

	m.Update(keyPress("tab"))
	if m.Kind() != domain.KindFlowchart {
		t.Errorf("tab should switch to flowchart, got %s", m.Kind())
	}
	if !strings.Contains(m.View(), "empty") {
		t.Error("empty flowchart should say so")
	}

	m.Update(keyPress("tab"))
	m.Update(keyPress("tab"))
	if m.Kind() != domain.KindERD {
		t.Errorf("tab should cycle back to erd, got %s", m.Kind())
	}
}

func TestBrowser_NewOpensForm(t *testing.T) {
	m := NewBrowserModel(newTestSession(t), nil)

	_, cmd := m.Update(keyPress("n"))
	msg, ok := exec(m, cmd).(SwitchToFormMsg)
	if !ok {
		t.Fatal("expected SwitchToFormMsg")
	}
	if msg.Mode != FormAddTable || msg.Kind != domain.KindERD {
		t.Errorf("got mode %v kind %s", msg.Mode, msg.Kind)
	}

	_, cmd = m.Update(keyPress("c"))
	msg = exec(m, cmd).(SwitchToFormMsg)
	if msg.Mode != FormAddColumn || msg.Target == nil || msg.Target.Name != "users" {
		t.Errorf("c on a table should add a column to it, got %+v", msg)
	}
}

func TestBrowser_CopyExport(t *testing.T) {
	mem := &clipboard.Memory{}
	m := NewBrowserModel(newTestSession(t), mem)

	_, cmd := m.Update(keyPress("Y"))
	exec(m, cmd)

	if !strings.Contains(mem.Text, "FOREIGN KEY") {
		t.Errorf("expected DDL on clipboard, got %q", mem.Text)
	}
	if m.MessageErr {
		t.Errorf("unexpected error: %s", m.Message)
	}

	_, cmd = m.Update(keyPress("y"))
	exec(m, cmd)
	if !strings.HasPrefix(mem.Text, "{") {
		t.Errorf("expected JSON on clipboard, got %q", mem.Text)
	}
}

func TestBrowser_CopyWithoutClipboard(t *testing.T) {
	m := NewBrowserModel(newTestSession(t), nil)

	_, cmd := m.Update(keyPress("y"))
	exec(m, cmd)

	if !m.MessageErr {
		t.Error("expected an error without a clipboard")
	}
}

func TestBrowser_DuplicateTable(t *testing.T) {
	s := newTestSession(t)
	m := NewBrowserModel(s, nil)

	_, cmd := m.Update(keyPress("D"))
	exec(m, cmd)

	if got := len(s.ERD.Tables()); got != 3 {
		t.Errorf("expected 3 tables after duplicate, got %d", got)
	}
}

func TestDeleteModel_ConfirmDeletesTable(t *testing.T) {
	s := newTestSession(t)
	rows := BuildRows(s, domain.KindERD, nil)

	m := NewDeleteModel(s)
	m.SetTarget(rows[0])

	_, cmd := m.Update(keyPress("y"))
	done, ok := cmd().(ActionDoneMsg)
	if !ok {
		t.Fatal("expected ActionDoneMsg")
	}
	if !strings.Contains(done.Message, "1 connection(s)") {
		t.Errorf("message = %q", done.Message)
	}
	if len(s.ERD.Relations()) != 0 {
		t.Error("relation should be cascaded")
	}
}

func TestDeleteModel_LastColumnRefused(t *testing.T) {
	s := newTestSession(t)
	users := s.ERD.Tables()[0]
	rows := BuildRows(s, domain.KindERD, map[string]bool{users.ID: true})

	m := NewDeleteModel(s)
	m.SetTarget(rows[1])

	_, cmd := m.Update(keyPress("y"))
	if _, ok := cmd().(ActionErrMsg); !ok {
		t.Error("deleting the last column should fail")
	}
}

func TestFormModel_Submit(t *testing.T) {
	s := newTestSession(t)
	f := NewFormModel(s)

	f.Setup(FormAddNode, domain.KindUseCase, nil)
	f.form.SetValue(0, "actor")
	f.form.SetValue(1, "Customer")
	if _, err := f.Submit(context.Background()); err != nil {
		t.Fatal(err)
	}

	f.Setup(FormAddNode, domain.KindUseCase, nil)
	f.form.SetValue(0, "usecase")
	f.form.SetValue(1, "Checkout")
	if _, err := f.Submit(context.Background()); err != nil {
		t.Fatal(err)
	}

	f.Setup(FormConnect, domain.KindUseCase, nil)
	f.form.SetValue(0, "Customer")
	f.form.SetValue(1, "Checkout")
	f.form.SetValue(2, "include")
	if _, err := f.Submit(context.Background()); err != nil {
		t.Fatal(err)
	}

	edges := s.UseCase.Edges()
	if len(edges) != 1 || edges[0].Type != domain.EdgeInclude {
		t.Errorf("edges = %+v", edges)
	}
}

func TestFormModel_RenameColumn(t *testing.T) {
	s := newTestSession(t)
	users := s.ERD.Tables()[0]
	rows := BuildRows(s, domain.KindERD, map[string]bool{users.ID: true})

	f := NewFormModel(s)
	f.Setup(FormRename, domain.KindERD, &rows[1])
	if got := f.form.Value(0); got != "id" {
		t.Errorf("rename should prefill the current name, got %q", got)
	}
	f.form.SetValue(0, "user_id")
	if _, err := f.Submit(context.Background()); err != nil {
		t.Fatal(err)
	}

	table, _ := s.ERD.Table(users.ID)
	if table.Columns[0].Name != "user_id" {
		t.Errorf("column name = %q", table.Columns[0].Name)
	}
}

func TestFormModel_InvalidLength(t *testing.T) {
	s := newTestSession(t)
	rows := BuildRows(s, domain.KindERD, nil)

	f := NewFormModel(s)
	f.Setup(FormAddColumn, domain.KindERD, &rows[0])
	f.form.SetValue(2, "wide")

	if _, err := f.Submit(context.Background()); err == nil {
		t.Error("expected a validation error for a non-numeric length")
	}
}

func TestSearchModel(t *testing.T) {
	s := newTestSession(t)
	m := NewSearchModel(s)

	for _, r := range "ord" {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	if len(m.Results()) == 0 {
		t.Fatal("expected results for 'ord'")
	}

	_, cmd := m.Update(keyPress("enter"))
	sel, ok := cmd().(SearchSelectMsg)
	if !ok {
		t.Fatal("expected SearchSelectMsg")
	}
	if sel.Kind != domain.KindERD {
		t.Errorf("kind = %s", sel.Kind)
	}
}
