package mcp

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diagrammer/internal/application"
)

func newTestSession() *application.Session {
	return application.OpenSession(nil,
		application.WithIDGenerator(application.NewSequenceGenerator("m")),
		application.WithColorPicker(application.FirstColor),
	)
}

func call(t *testing.T, h func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text, res.IsError
}

func TestERDTools(t *testing.T) {
	s := newTestSession()

	msg, isErr := call(t, addTableHandler(s), map[string]any{"name": "users"})
	require.False(t, isErr, msg)
	_, isErr = call(t, addTableHandler(s), map[string]any{"name": "orders"})
	require.False(t, isErr)

	msg, isErr = call(t, addColumnHandler(s), map[string]any{
		"table":     "orders",
		"name":      "user_id",
		"data_type": "INT",
		"not_null":  true,
	})
	require.False(t, isErr, msg)
	assert.Contains(t, msg, "orders.user_id")

	msg, isErr = call(t, addRelationHandler(s), map[string]any{
		"from":      "orders.user_id",
		"to":        "users.id",
		"on_delete": "CASCADE",
	})
	require.False(t, isErr, msg)

	sql, isErr := call(t, exportSQLHandler(s), nil)
	require.False(t, isErr)
	assert.Contains(t, sql, "CREATE TABLE IF NOT EXISTS `users`")
	assert.Contains(t, sql, "ON DELETE CASCADE")

	list, isErr := call(t, listHandler(s), map[string]any{"kind": "erd"})
	require.False(t, isErr)
	assert.Contains(t, list, "users")
	assert.Contains(t, list, "orders.user_id -> users.id")

	msg, isErr = call(t, deleteColumnHandler(s), map[string]any{"table": "users", "column": "id"})
	assert.True(t, isErr, "last column must not be deletable")
	assert.Contains(t, msg, "at least one column")

	msg, isErr = call(t, deleteTableHandler(s), map[string]any{"table": "users"})
	require.False(t, isErr)
	assert.Contains(t, msg, "1 relation(s)")
}

func TestFlowchartAndUseCaseTools(t *testing.T) {
	s := newTestSession()

	_, isErr := call(t, addFlowNodeHandler(s), map[string]any{"shape": "start", "label": "Begin"})
	require.False(t, isErr)
	_, isErr = call(t, addFlowNodeHandler(s), map[string]any{"label": "Work", "x": 100.0, "y": 50.0})
	require.False(t, isErr)
	msg, isErr := call(t, addFlowEdgeHandler(s), map[string]any{"from": "Begin", "to": "Work", "routing": "step"})
	require.False(t, isErr, msg)
	assert.Equal(t, "Connected Begin -> Work", msg)

	_, isErr = call(t, addFlowNodeHandler(s), map[string]any{"shape": "hexagon"})
	assert.True(t, isErr)

	_, isErr = call(t, addUseCaseNodeHandler(s), map[string]any{"kind": "actor", "name": "Customer"})
	require.False(t, isErr)
	_, isErr = call(t, addUseCaseNodeHandler(s), map[string]any{"kind": "usecase", "name": "Checkout"})
	require.False(t, isErr)
	msg, isErr = call(t, addUseCaseEdgeHandler(s), map[string]any{"from": "Customer", "to": "Checkout"})
	require.False(t, isErr, msg)

	msg, isErr = call(t, deleteNodeHandler(s), map[string]any{"kind": "usecase", "id": "Customer"})
	require.False(t, isErr, msg)
	assert.Contains(t, msg, "1 connection(s)")

	results, isErr := call(t, searchHandler(s), map[string]any{"query": "work"})
	require.False(t, isErr)
	assert.Contains(t, results, "flowchart")
}

func TestImportExportAndClearTools(t *testing.T) {
	s := newTestSession()
	_, isErr := call(t, addFlowNodeHandler(s), map[string]any{"label": "Only"})
	require.False(t, isErr)

	doc, isErr := call(t, exportJSONHandler(s), map[string]any{"kind": "flowchart"})
	require.False(t, isErr)

	msg, isErr := call(t, clearHandler(s), map[string]any{"kind": "flowchart"})
	require.False(t, isErr)
	assert.Contains(t, msg, "flowchart")
	assert.Empty(t, s.Flowchart.Nodes())

	_, isErr = call(t, importJSONHandler(s), map[string]any{"kind": "flowchart", "json": "{not json"})
	assert.True(t, isErr)
	assert.Empty(t, s.Flowchart.Nodes())

	msg, isErr = call(t, importJSONHandler(s), map[string]any{"kind": "flowchart", "json": doc})
	require.False(t, isErr, msg)
	require.Len(t, s.Flowchart.Nodes(), 1)
	assert.Equal(t, "Only", s.Flowchart.Nodes()[0].Data.Label)

	_, isErr = call(t, listHandler(s), map[string]any{"kind": "sequence"})
	assert.True(t, isErr)

	msg, isErr = call(t, checkHandler(s), map[string]any{"kind": "erd"})
	require.False(t, isErr)
	assert.Equal(t, "No problems found.", msg)
}
