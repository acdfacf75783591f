package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"docbot/internal/adapter/store"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export usage statistics to an .xlsx workbook",
	RunE:  runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "data/stats.xlsx", "output file path")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	st, err := store.NewSQLiteStore(cfg.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open statistics store: %w", err)
	}
	defer st.Close()

	path, err := store.ExportXLSX(st, exportOutput)
	if err != nil {
		return err
	}

	fmt.Printf("statistics written to %s\n", path)
	return nil
}
