package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"diagrammer/internal/adapters/clipboard"
	"diagrammer/internal/adapters/filesystem"
	"diagrammer/internal/application/commands"
)

var (
	exportFormat string
	exportOutput string
	exportCopy   bool
)

var exportCmd = &cobra.Command{
	Use:   "export <erd|flowchart|usecase>",
	Short: "Print a diagram as JSON, or the ERD as MySQL DDL",
	Long: `Print a diagram snapshot as JSON, or the ERD as MySQL DDL.

Examples:
  diagrammer-cli export flowchart > flow.json
  diagrammer-cli export erd --format sql -o schema.sql
  diagrammer-cli export erd --copy`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: kindArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := parseKind(args[0])
		if err != nil {
			return err
		}

		text, err := commands.NewExportCommand(GetSession(), kind, exportFormat).Execute(context.Background())
		if err != nil {
			return err
		}

		switch {
		case exportCopy:
			if !clipboard.Available() {
				return fmt.Errorf("no clipboard available")
			}
			if err := clipboard.NewCopier().Copy(text); err != nil {
				return err
			}
			fmt.Printf("Copied %s %s to the clipboard\n", kind, exportFormat)
		case exportOutput != "":
			if err := filesystem.WriteFile(exportOutput, []byte(text)); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", exportOutput)
		default:
			fmt.Println(text)
		}
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <erd|flowchart|usecase> <file.json>",
	Short: "Replace a diagram with a JSON snapshot",
	Long: `Replace a diagram with the contents of a JSON snapshot file.

A malformed file leaves the diagram unchanged.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := parseKind(args[0])
		if err != nil {
			return err
		}
		text, err := filesystem.ReadFile(args[1])
		if err != nil {
			return err
		}

		result, err := commands.NewImportCommand(GetSession(), kind, text).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:       "clear <erd|flowchart|usecase>",
	Short:     "Remove every node and connection of a diagram",
	Args:      cobra.ExactArgs(1),
	ValidArgs: kindArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := parseKind(args[0])
		if err != nil {
			return err
		}

		msg, err := commands.NewClearCommand(GetSession(), kind).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(msg)
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:       "check <erd|flowchart|usecase>",
	Short:     "Report connections whose endpoints no longer exist",
	Args:      cobra.ExactArgs(1),
	ValidArgs: kindArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := parseKind(args[0])
		if err != nil {
			return err
		}

		violations, err := commands.NewCheckCommand(GetSession(), kind).Execute(context.Background())
		if err != nil {
			return err
		}
		if len(violations) == 0 {
			fmt.Println("OK")
			return nil
		}

		for _, v := range violations {
			fmt.Printf("%s: %s\n", v.ConnectionID, v.Reason)
		}
		return fmt.Errorf("%d dangling connection(s)", len(violations))
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "json or sql")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to file instead of stdout")
	exportCmd.Flags().BoolVar(&exportCopy, "copy", false, "copy to the clipboard")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(checkCmd)
}
