package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/wordcoach/internal/excel"
	"github.com/example/wordcoach/pkg/models"
)

var importCmd = &cobra.Command{
	Use:   "import <file.xlsx|file.csv>",
	Short: "Import words from a spreadsheet (column A source, column B target)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := excel.DefaultImportConfig()
		cfg.FilePath = args[0]
		cfg.SheetName, _ = cmd.Flags().GetString("sheet")
		cfg.SourceColumn, _ = cmd.Flags().GetString("source-column")
		cfg.TargetColumn, _ = cmd.Flags().GetString("target-column")
		if noHeader, _ := cmd.Flags().GetBool("no-header"); noHeader {
			cfg.StartRow = 1
		}

		return withApp(cmd, func(ctx context.Context, a *app) error {
			res, err := excel.ImportWords(ctx, a.coach, cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rows read: %d\n", res.TotalProcessed)
			printBatch(cmd.OutOrStdout(), models.BatchResult{Added: res.Added, Skipped: res.Skipped, Errors: res.Errors})
			return nil
		})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <file.xlsx>",
	Short: "Export all words to a spreadsheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			entries := a.coach.Words()
			if err := excel.ExportWords(args[0], entries); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d words to %s\n", len(entries), args[0])
			return nil
		})
	},
}

func init() {
	importCmd.Flags().String("sheet", "", "Sheet to import (default: first sheet)")
	importCmd.Flags().String("source-column", "A", "Column holding the source text")
	importCmd.Flags().String("target-column", "B", "Column holding the target text")
	importCmd.Flags().Bool("no-header", false, "Import the first row too")
}
