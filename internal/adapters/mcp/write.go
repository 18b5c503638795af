package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"diagrammer/internal/application"
	"diagrammer/internal/application/commands"
	"diagrammer/internal/domain"
)

// RegisterWriteTools adds all diagram editing tools to the MCP server.
func RegisterWriteTools(s *server.MCPServer, session *application.Session) {
	s.AddTool(addTableTool(), addTableHandler(session))
	s.AddTool(addColumnTool(), addColumnHandler(session))
	s.AddTool(addRelationTool(), addRelationHandler(session))
	s.AddTool(deleteTableTool(), deleteTableHandler(session))
	s.AddTool(deleteColumnTool(), deleteColumnHandler(session))
	s.AddTool(addFlowNodeTool(), addFlowNodeHandler(session))
	s.AddTool(addFlowEdgeTool(), addFlowEdgeHandler(session))
	s.AddTool(addUseCaseNodeTool(), addUseCaseNodeHandler(session))
	s.AddTool(addUseCaseEdgeTool(), addUseCaseEdgeHandler(session))
	s.AddTool(renameTool(), renameHandler(session))
	s.AddTool(deleteNodeTool(), deleteNodeHandler(session))
	s.AddTool(importJSONTool(), importJSONHandler(session))
	s.AddTool(clearTool(), clearHandler(session))
}

func position(req mcp.CallToolRequest) domain.Position {
	return domain.Position{X: req.GetFloat("x", 0), Y: req.GetFloat("y", 0)}
}

func positionOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithNumber("x", mcp.Description("Canvas x coordinate")),
		mcp.WithNumber("y", mcp.Description("Canvas y coordinate")),
	}
}

// --- add_table ---

func addTableTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Add a table to the ERD. New tables start with an auto-increment INT primary key named id."),
		mcp.WithString("name",
			mcp.Description("Table name. Omit for the next Table_N name."),
		),
		mcp.WithString("comment",
			mcp.Description("Table comment"),
		),
	}
	return mcp.NewTool("add_table", append(opts, positionOptions()...)...)
}

func addTableHandler(session *application.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewAddTableCommand(session.ERD, req.GetString("name", ""), position(req))
		cmd.Comment = req.GetString("comment", "")

		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- add_column ---

func addColumnTool() mcp.Tool {
	return mcp.NewTool("add_column",
		mcp.WithDescription("Add a column to an ERD table. Defaults to a nullable VARCHAR(255)."),
		mcp.WithString("table",
			mcp.Description("Table name or ID"),
			mcp.Required(),
		),
		mcp.WithString("name", mcp.Description("Column name. Omit for the next column_N name.")),
		mcp.WithString("data_type", mcp.Description("VARCHAR, INT, BIGINT, SMALLINT, DECIMAL, NUMERIC, FLOAT, DOUBLE, BOOLEAN, DATE, TIME, DATETIME, TIMESTAMP, TEXT, BLOB, JSON or UUID")),
		mcp.WithNumber("length", mcp.Description("VARCHAR length")),
		mcp.WithNumber("precision", mcp.Description("DECIMAL/NUMERIC precision")),
		mcp.WithNumber("scale", mcp.Description("DECIMAL/NUMERIC scale")),
		mcp.WithBoolean("not_null", mcp.Description("Disallow NULL")),
		mcp.WithBoolean("primary_key", mcp.Description("Part of the primary key")),
		mcp.WithBoolean("unique", mcp.Description("Add a UNIQUE constraint")),
		mcp.WithBoolean("auto_increment", mcp.Description("AUTO_INCREMENT")),
		mcp.WithString("default", mcp.Description("Default value, written verbatim into the DDL")),
		mcp.WithString("comment", mcp.Description("Column comment")),
	)
}

func columnSpec(req mcp.CallToolRequest) commands.ColumnSpec {
	return commands.ColumnSpec{
		Name:          req.GetString("name", ""),
		DataType:      req.GetString("data_type", ""),
		Length:        req.GetInt("length", 0),
		Precision:     req.GetInt("precision", 0),
		Scale:         req.GetInt("scale", 0),
		NotNull:       req.GetBool("not_null", false),
		PrimaryKey:    req.GetBool("primary_key", false),
		Unique:        req.GetBool("unique", false),
		AutoIncrement: req.GetBool("auto_increment", false),
		Default:       req.GetString("default", ""),
		Comment:       req.GetString("comment", ""),
	}
}

func addColumnHandler(session *application.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewAddColumnCommand(session.ERD, req.GetString("table", ""), columnSpec(req))
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- add_relation ---

func addRelationTool() mcp.Tool {
	return mcp.NewTool("add_relation",
		mcp.WithDescription("Add a foreign key relation between two columns. The source column is marked as a foreign key."),
		mcp.WithString("from",
			mcp.Description("Source (referencing) column as table.column"),
			mcp.Required(),
		),
		mcp.WithString("to",
			mcp.Description("Target (referenced) column as table.column"),
			mcp.Required(),
		),
		mcp.WithString("type", mcp.Description("ONE_TO_ONE, ONE_TO_MANY (default) or MANY_TO_MANY")),
		mcp.WithString("on_delete", mcp.Description("CASCADE, SET_NULL, RESTRICT or NO_ACTION")),
		mcp.WithString("on_update", mcp.Description("CASCADE, SET_NULL, RESTRICT or NO_ACTION")),
		mcp.WithString("name", mcp.Description("Relation name")),
	)
}

func addRelationHandler(session *application.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewAddRelationCommand(session.ERD, req.GetString("from", ""), req.GetString("to", ""))
		cmd.Type = req.GetString("type", "")
		cmd.OnDelete = req.GetString("on_delete", "")
		cmd.OnUpdate = req.GetString("on_update", "")
		cmd.Name = req.GetString("name", "")

		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- delete_table ---

func deleteTableTool() mcp.Tool {
	return mcp.NewTool("delete_table",
		mcp.WithDescription("Delete an ERD table and every relation that references it."),
		mcp.WithString("table",
			mcp.Description("Table name or ID"),
			mcp.Required(),
		),
	)
}

func deleteTableHandler(session *application.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := commands.NewDeleteTableCommand(session.ERD, req.GetString("table", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- delete_column ---

func deleteColumnTool() mcp.Tool {
	return mcp.NewTool("delete_column",
		mcp.WithDescription("Delete a column and the relations that reference it. A table's last column cannot be deleted."),
		mcp.WithString("table",
			mcp.Description("Table name or ID"),
			mcp.Required(),
		),
		mcp.WithString("column",
			mcp.Description("Column name or ID"),
			mcp.Required(),
		),
	)
}

func deleteColumnHandler(session *application.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewDeleteColumnCommand(session.ERD, req.GetString("table", ""), req.GetString("column", ""))
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- add_flow_node ---

func addFlowNodeTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Add a shape to the flowchart."),
		mcp.WithString("shape",
			mcp.Description("start, end, process, decision, input, output, document, database, predefined, delay, stored-data, manual-input, display, preparation, connector or off-page. Defaults to process."),
		),
		mcp.WithString("label", mcp.Description("Node label. Omit for the shape's default label.")),
	}
	return mcp.NewTool("add_flow_node", append(opts, positionOptions()...)...)
}

func addFlowNodeHandler(session *application.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewAddFlowNodeCommand(session.Flowchart, req.GetString("shape", ""), req.GetString("label", ""), position(req))
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- add_flow_edge ---

func addFlowEdgeTool() mcp.Tool {
	return mcp.NewTool("add_flow_edge",
		mcp.WithDescription("Connect two flowchart nodes."),
		mcp.WithString("from", mcp.Description("Source node label or ID"), mcp.Required()),
		mcp.WithString("to", mcp.Description("Target node label or ID"), mcp.Required()),
		mcp.WithString("routing", mcp.Description("smooth (default), straight, step or bezier")),
		mcp.WithString("label", mcp.Description("Edge label")),
	)
}

func addFlowEdgeHandler(session *application.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewAddFlowEdgeCommand(session.Flowchart, req.GetString("from", ""), req.GetString("to", ""))
		cmd.Routing = req.GetString("routing", "")
		cmd.Label = req.GetString("label", "")

		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- add_usecase_node ---

func addUseCaseNodeTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Add an actor, use case, system boundary or note to the use-case diagram."),
		mcp.WithString("kind",
			mcp.Description("actor, usecase, system or note"),
			mcp.Required(),
		),
		mcp.WithString("name", mcp.Description("Node name. Omit for the next default name (Actor 2, Use Case 3, ...).")),
	}
	return mcp.NewTool("add_usecase_node", append(opts, positionOptions()...)...)
}

func addUseCaseNodeHandler(session *application.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewAddUseCaseNodeCommand(session.UseCase, req.GetString("kind", ""), req.GetString("name", ""), position(req))
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- add_usecase_edge ---

func addUseCaseEdgeTool() mcp.Tool {
	return mcp.NewTool("add_usecase_edge",
		mcp.WithDescription("Draw a relationship between two use-case nodes. include and extend get a «include»/«extend» label by default."),
		mcp.WithString("kind", mcp.Description("association (default), include, extend, generalization or dependency")),
		mcp.WithString("from", mcp.Description("Source node name or ID"), mcp.Required()),
		mcp.WithString("to", mcp.Description("Target node name or ID"), mcp.Required()),
		mcp.WithString("label", mcp.Description("Edge label")),
	)
}

func addUseCaseEdgeHandler(session *application.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewAddUseCaseEdgeCommand(session.UseCase, req.GetString("kind", ""), req.GetString("from", ""), req.GetString("to", ""))
		cmd.Label = req.GetString("label", "")

		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- rename ---

func renameTool() mcp.Tool {
	return mcp.NewTool("rename",
		mcp.WithDescription("Rename a table or node, or relabel a connection."),
		mcp.WithString("kind", mcp.Description(kindDescription), mcp.Required()),
		mcp.WithString("id", mcp.Description("Node name or ID, or connection ID"), mcp.Required()),
		mcp.WithString("name", mcp.Description("New name or label"), mcp.Required()),
	)
}

func renameHandler(session *application.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		kind, err := kindArg(req)
		if err != nil {
			return toolError(err)
		}

		result, err := commands.NewRenameCommand(session, kind, req.GetString("id", ""), req.GetString("name", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- delete_node ---

func deleteNodeTool() mcp.Tool {
	return mcp.NewTool("delete_node",
		mcp.WithDescription("Delete a node (with its connections) or a single connection from any diagram."),
		mcp.WithString("kind", mcp.Description(kindDescription), mcp.Required()),
		mcp.WithString("id", mcp.Description("Node name or ID, or connection ID"), mcp.Required()),
	)
}

func deleteNodeHandler(session *application.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		kind, err := kindArg(req)
		if err != nil {
			return toolError(err)
		}

		result, err := commands.NewDeleteCommand(session, kind, req.GetString("id", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- import_json ---

func importJSONTool() mcp.Tool {
	return mcp.NewTool("import_json",
		mcp.WithDescription("Replace a diagram with a JSON snapshot. Malformed input leaves the diagram unchanged."),
		mcp.WithString("kind", mcp.Description(kindDescription), mcp.Required()),
		mcp.WithString("json", mcp.Description("Snapshot document as produced by export_json"), mcp.Required()),
	)
}

func importJSONHandler(session *application.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		kind, err := kindArg(req)
		if err != nil {
			return toolError(err)
		}

		result, err := commands.NewImportCommand(session, kind, req.GetString("json", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- clear ---

func clearTool() mcp.Tool {
	return mcp.NewTool("clear",
		mcp.WithDescription("Remove every node and connection from a diagram."),
		mcp.WithString("kind", mcp.Description(kindDescription), mcp.Required()),
	)
}

func clearHandler(session *application.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		kind, err := kindArg(req)
		if err != nil {
			return toolError(err)
		}

		msg, err := commands.NewClearCommand(session, kind).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(msg), nil
	}
}
