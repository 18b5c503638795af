package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"diagrammer/internal/application"
	"diagrammer/internal/application/commands"
	"diagrammer/internal/domain"
)

const kindDescription = "Diagram kind: erd, flowchart or usecase"

// RegisterReadTools adds all read-only diagram tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, session *application.Session) {
	s.AddTool(listTool(), listHandler(session))
	s.AddTool(searchTool(), searchHandler(session))
	s.AddTool(exportJSONTool(), exportJSONHandler(session))
	s.AddTool(exportSQLTool(), exportSQLHandler(session))
	s.AddTool(checkTool(), checkHandler(session))
}

// --- list ---

func listTool() mcp.Tool {
	return mcp.NewTool("list",
		mcp.WithDescription("List the nodes and connections of a diagram with their IDs. ERD tables show their columns."),
		mcp.WithString("kind",
			mcp.Description(kindDescription),
			mcp.Required(),
		),
	)
}

func listHandler(session *application.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		kind, err := kindArg(req)
		if err != nil {
			return toolError(err)
		}

		entries, err := commands.NewListCommand(session, kind).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return formatEntities(entries, formatEntry)
	}
}

// --- search ---

func searchTool() mcp.Tool {
	return mcp.NewTool("search",
		mcp.WithDescription("Fuzzy search nodes and connections by name, ID or detail across all diagrams."),
		mcp.WithString("query",
			mcp.Description("Search query (at least 2 characters)"),
			mcp.Required(),
		),
		mcp.WithString("kind",
			mcp.Description("Restrict the search to one diagram kind. Omit to search all."),
		),
	)
}

func searchHandler(session *application.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := req.GetString("query", "")
		if query == "" {
			return toolError(fmt.Errorf("query is required"))
		}

		kind := domain.KindUnknown
		if req.GetString("kind", "") != "" {
			k, err := kindArg(req)
			if err != nil {
				return toolError(err)
			}
			kind = k
		}

		results, err := commands.NewSearchCommand(session, query, kind).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if len(results) == 0 {
			return mcp.NewToolResultText("No results found."), nil
		}

		var sb strings.Builder
		for _, r := range results {
			fmt.Fprintf(&sb, "%s  %s\n", r.Kind, formatEntry(r.Entry))
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- export_json ---

func exportJSONTool() mcp.Tool {
	return mcp.NewTool("export_json",
		mcp.WithDescription("Export a diagram as its JSON snapshot."),
		mcp.WithString("kind",
			mcp.Description(kindDescription),
			mcp.Required(),
		),
	)
}

func exportJSONHandler(session *application.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		kind, err := kindArg(req)
		if err != nil {
			return toolError(err)
		}

		text, err := commands.NewExportCommand(session, kind, "json").Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(text), nil
	}
}

// --- export_sql ---

func exportSQLTool() mcp.Tool {
	return mcp.NewTool("export_sql",
		mcp.WithDescription("Generate the MySQL DDL script for the ERD: CREATE TABLE statements followed by foreign keys."),
	)
}

func exportSQLHandler(session *application.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := commands.NewExportCommand(session, domain.KindERD, "sql").Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(text), nil
	}
}

// --- check ---

func checkTool() mcp.Tool {
	return mcp.NewTool("check",
		mcp.WithDescription("Report connections whose endpoints no longer resolve."),
		mcp.WithString("kind",
			mcp.Description(kindDescription),
			mcp.Required(),
		),
	)
}

func checkHandler(session *application.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		kind, err := kindArg(req)
		if err != nil {
			return toolError(err)
		}

		violations, err := commands.NewCheckCommand(session, kind).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if len(violations) == 0 {
			return mcp.NewToolResultText("No problems found."), nil
		}

		var sb strings.Builder
		for _, v := range violations {
			fmt.Fprintf(&sb, "%s  %s\n", v.ConnectionID, v.Reason)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func kindArg(req mcp.CallToolRequest) (domain.DiagramKind, error) {
	return application.ValidateKind("kind", req.GetString("kind", ""))
}

func formatEntities[T any](entities []T, format func(T) string) (*mcp.CallToolResult, error) {
	if len(entities) == 0 {
		return mcp.NewToolResultText("No results."), nil
	}
	var sb strings.Builder
	for _, e := range entities {
		sb.WriteString(format(e))
		sb.WriteByte('\n')
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func formatEntry(e commands.Entry) string {
	line := fmt.Sprintf("%s  %s  %s", e.ID, e.Type, e.Name)
	if e.Detail != "" {
		line += "  (" + e.Detail + ")"
	}
	return line
}
