package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"diagrammer/internal/application/commands"
	"diagrammer/internal/domain"
)

var usecaseCmd = &cobra.Command{
	Use:     "usecase",
	Aliases: []string{"uc"},
	Short:   "Edit the use-case diagram",
	Long: `Add actors, use cases, system boundaries and notes, and the
relationships between them.

Examples:
  diagrammer-cli usecase add-node actor Customer
  diagrammer-cli usecase add-node usecase "Place order"
  diagrammer-cli usecase connect association Customer "Place order"`,
}

var usecaseAddNodeCmd = &cobra.Command{
	Use:   "add-node <actor|usecase|system|note> [name]",
	Short: "Add a use-case node",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var name string
		if len(args) == 2 {
			name = args[1]
		}
		result, err := commands.NewAddUseCaseNodeCommand(GetSession().UseCase, args[0], name, domain.Position{X: posX, Y: posY}).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var usecaseConnectCmd = &cobra.Command{
	Use:   "connect <association|include|extend|generalization|dependency> <from> <to>",
	Short: "Draw a relationship between two nodes",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		connectCmd := commands.NewAddUseCaseEdgeCommand(GetSession().UseCase, args[0], args[1], args[2])
		connectCmd.Label = edgeLabel
		result, err := connectCmd.Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(usecaseCmd)

	addPositionFlags(usecaseAddNodeCmd)
	usecaseConnectCmd.Flags().StringVar(&edgeLabel, "label", "", "edge label")

	usecaseCmd.AddCommand(usecaseAddNodeCmd)
	usecaseCmd.AddCommand(usecaseConnectCmd)
}
