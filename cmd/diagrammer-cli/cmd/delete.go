package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"diagrammer/internal/application/commands"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <erd|flowchart|usecase> <ref>",
	Short: "Delete a node or connection",
	Long: `Delete a node or connection from a diagram.

Nodes are referenced by name or id, connections by id. Deleting a node also
deletes every connection touching it.

Examples:
  diagrammer-cli delete erd orders
  diagrammer-cli delete usecase Customer`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := parseKind(args[0])
		if err != nil {
			return err
		}

		result, err := commands.NewDeleteCommand(GetSession(), kind, args[1]).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var renameCmd = &cobra.Command{
	Use:   "rename <erd|flowchart|usecase> <ref> <new-name>",
	Short: "Rename a node or label a connection",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := parseKind(args[0])
		if err != nil {
			return err
		}

		result, err := commands.NewRenameCommand(GetSession(), kind, args[1], args[2]).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(renameCmd)
}
