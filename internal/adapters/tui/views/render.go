package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"diagrammer/internal/adapters/tui/styles"
	"diagrammer/internal/domain"
)

// RenderKeyHelp formats a key binding as help text (key + description)
func RenderKeyHelp(b key.Binding) string {
	help := b.Help()
	return fmt.Sprintf("%s %s",
		styles.HelpKey.Render(help.Key),
		styles.HelpDesc.Render(help.Desc),
	)
}

// RenderHelpLine renders multiple key bindings as a help line separated by bullets
func RenderHelpLine(bindings ...key.Binding) string {
	var parts []string
	for _, b := range bindings {
		parts = append(parts, RenderKeyHelp(b))
	}
	return strings.Join(parts, styles.HelpSeparator.String())
}

// RenderMessage renders a message with appropriate styling based on isError
func RenderMessage(message string, isError bool) string {
	if message == "" {
		return ""
	}
	if isError {
		return styles.ErrorMsg.Render(message)
	}
	return styles.Success.Render(message)
}

// RenderMuted renders muted/secondary text
func RenderMuted(text string) string {
	return styles.MutedText.Render(text)
}

// RenderKindTabs renders one tab per diagram kind with the active kind highlighted
func RenderKindTabs(active domain.DiagramKind) string {
	var tabs []string
	for _, kind := range domain.AllKinds {
		if kind == active {
			tabs = append(tabs, styles.TabActive.Background(styles.KindColor(kind)).Render(kind.Title()))
		} else {
			tabs = append(tabs, styles.TabInactive.Render(kind.Title()))
		}
	}
	return strings.Join(tabs, " ")
}

// RenderCounts summarizes a diagram, e.g. "3 tables, 2 relations"
func RenderCounts(kind domain.DiagramKind, nodes, connections int) string {
	node, conn := "node", "edge"
	if kind == domain.KindERD {
		node, conn = "table", "relation"
	}
	return RenderMuted(fmt.Sprintf("%s, %s", plural(nodes, node), plural(connections, conn)))
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// RenderLabelValue renders a label: value pair
func RenderLabelValue(label, value string) string {
	return fmt.Sprintf("%s %s",
		styles.InputLabel.Render(label+":"),
		value,
	)
}

// ViewBuilder helps construct view output with consistent formatting
type ViewBuilder struct {
	b strings.Builder
}

// NewViewBuilder creates a new view builder
func NewViewBuilder() *ViewBuilder {
	return &ViewBuilder{}
}

// Title adds a title section
func (v *ViewBuilder) Title(title string) *ViewBuilder {
	v.b.WriteString(styles.Title.Render(title))
	v.b.WriteString("\n\n")
	return v
}

// Subtitle adds a subtitle section
func (v *ViewBuilder) Subtitle(subtitle string) *ViewBuilder {
	v.b.WriteString(styles.Subtitle.Render(subtitle))
	v.b.WriteString("\n\n")
	return v
}

// Line adds a line of text
func (v *ViewBuilder) Line(text string) *ViewBuilder {
	v.b.WriteString(text)
	v.b.WriteString("\n")
	return v
}

// BlankLine adds a blank line
func (v *ViewBuilder) BlankLine() *ViewBuilder {
	v.b.WriteString("\n")
	return v
}

// Muted adds muted text followed by a newline
func (v *ViewBuilder) Muted(text string) *ViewBuilder {
	v.b.WriteString(RenderMuted(text))
	v.b.WriteString("\n")
	return v
}

// Message adds a message if non-empty, with appropriate error/success styling
func (v *ViewBuilder) Message(message string, isError bool) *ViewBuilder {
	if message == "" {
		return v
	}
	v.b.WriteString(RenderMessage(message, isError))
	v.b.WriteString("\n\n")
	return v
}

// Help adds a help line with key bindings
func (v *ViewBuilder) Help(bindings ...key.Binding) *ViewBuilder {
	v.b.WriteString(RenderHelpLine(bindings...))
	return v
}

// Tabs adds the diagram kind tab bar
func (v *ViewBuilder) Tabs(active domain.DiagramKind) *ViewBuilder {
	v.b.WriteString(RenderKindTabs(active))
	v.b.WriteString("\n\n")
	return v
}

// Counts adds the node and connection totals of a diagram
func (v *ViewBuilder) Counts(kind domain.DiagramKind, nodes, connections int) *ViewBuilder {
	v.b.WriteString(RenderCounts(kind, nodes, connections))
	v.b.WriteString("\n\n")
	return v
}

// Raw adds raw text without any formatting
func (v *ViewBuilder) Raw(text string) *ViewBuilder {
	v.b.WriteString(text)
	return v
}

// String returns the built view string wrapped in the app style
func (v *ViewBuilder) String() string {
	return styles.App.Render(v.b.String())
}
