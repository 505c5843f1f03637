package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"ocimport/internal/catalog"
	"ocimport/internal/config"
	"ocimport/internal/importer"
	"ocimport/internal/workbook"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := rootCommand().Execute(); err != nil {
		log.Printf("ERROR: %v", err)
		return 1
	}
	return 0
}

func rootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ocimport WORKBOOK",
		Short: "Import products from an Excel workbook into an OpenCart catalog",
		Long: `Import products from an Excel workbook into an OpenCart catalog.

Each worksheet names an attribute group; its header row (row 2 by
default) names the product fields, and fields prefixed attr_ become
attribute values of that group. Products are matched by sku: unknown
skus are created, known skus are updated in place. The first bad row
aborts the run; fixing the workbook and rerunning is safe.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Usage is only helpful for argument mistakes, not for
			// failures during the import itself.
			cmd.SilenceUsage = true
			return runImport(cmd.Context(), args[0])
		},
	}
	return cmd
}

func runImport(ctx context.Context, path string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, err := catalog.Open(cfg.DSN(), cfg.Defaults())
	if err != nil {
		return err
	}
	defer store.Close()

	runID := uuid.New()
	if cfg.Debug {
		log.Printf("Starting import run %s for '%s'", runID, path)
	}

	sheets, err := workbook.Load(path, cfg.HeaderRow, cfg.DataStartRow)
	if err != nil {
		return err
	}

	imp := importer.New(store, cfg.DataStartRow, cfg.Debug)
	if err := imp.Run(ctx, sheets); err != nil {
		return err
	}

	fmt.Printf("Import run %s finished\n", runID)
	return nil
}
