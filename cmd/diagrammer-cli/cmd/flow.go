package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"diagrammer/internal/application/commands"
	"diagrammer/internal/domain"
)

var flowCmd = &cobra.Command{
	Use:     "flow",
	Aliases: []string{"flowchart"},
	Short:   "Edit the flowchart",
	Long: `Add shapes and connectors to the flowchart.

Nodes are referenced by label or id.

Examples:
  diagrammer-cli flow add-node decision "Is valid?"
  diagrammer-cli flow connect Start "Is valid?" --routing step
  diagrammer-cli flow front "Is valid?"`,
}

var (
	edgeRouting string
	edgeLabel   string
)

var flowAddNodeCmd = &cobra.Command{
	Use:   "add-node <shape> [label]",
	Short: "Add a shape to the flowchart",
	Long: `Add a shape to the flowchart. Shapes: start, end, process, decision,
input, output, document, database, predefined, delay, stored-data,
manual-input, display, preparation, connector, off-page.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var label string
		if len(args) == 2 {
			label = args[1]
		}
		addCmd := commands.NewAddFlowNodeCommand(GetSession().Flowchart, args[0], label, domain.Position{X: posX, Y: posY})
		result, err := addCmd.Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var flowConnectCmd = &cobra.Command{
	Use:   "connect <from> <to>",
	Short: "Connect two flowchart nodes",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		connectCmd := commands.NewAddFlowEdgeCommand(GetSession().Flowchart, args[0], args[1])
		connectCmd.Routing = edgeRouting
		connectCmd.Label = edgeLabel
		result, err := connectCmd.Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func stackCommand(dir commands.StackDirection, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(dir) + " <node>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := commands.NewReorderStackCommand(GetSession().Flowchart, args[0], dir).Execute(context.Background())
			if err != nil {
				return err
			}
			fmt.Println(result.Message)
			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(flowCmd)

	addPositionFlags(flowAddNodeCmd)
	flowConnectCmd.Flags().StringVar(&edgeRouting, "routing", "", "smooth, straight, step or bezier")
	flowConnectCmd.Flags().StringVar(&edgeLabel, "label", "", "edge label")

	flowCmd.AddCommand(flowAddNodeCmd)
	flowCmd.AddCommand(flowConnectCmd)
	flowCmd.AddCommand(stackCommand(commands.StackFront, "Draw a node above every other node"))
	flowCmd.AddCommand(stackCommand(commands.StackBack, "Draw a node below every other node"))
}
