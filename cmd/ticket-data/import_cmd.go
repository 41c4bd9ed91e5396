package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/deskflow-io/deskflow/modules/ingestion"
	"github.com/deskflow-io/deskflow/modules/ingestion/infrastructure/readers"
	"github.com/deskflow-io/deskflow/modules/ingestion/services"
	"github.com/deskflow-io/deskflow/pkg/composables"
	"github.com/deskflow-io/deskflow/pkg/configuration"
	"github.com/deskflow-io/deskflow/pkg/eventbus"
)

func newImportCmd() *cobra.Command {
	dto := services.ImportRequestDTO{}

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a ticket export file (xlsx or csv)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if fieldErrs, ok := dto.Ok(); !ok {
				fields := make([]string, 0, len(fieldErrs))
				for field, msg := range fieldErrs {
					fields = append(fields, fmt.Sprintf("%s: %s", field, msg))
				}
				sort.Strings(fields)
				return fmt.Errorf("invalid import request: %s", strings.Join(fields, "; "))
			}
			return runImport(cmd, dto)
		},
	}

	cmd.Flags().StringVar(&dto.FilePath, "file", "", "Export file to import (required)")
	cmd.Flags().StringVar(&dto.SourceID, "source", "", "Source system identifier (required)")
	cmd.Flags().StringVar(&dto.TenantID, "tenant", "", "Tenant UUID (required)")
	cmd.Flags().BoolVar(&dto.InsertOnly, "insert-only", false, "Reject records whose business key already exists")
	cmd.Flags().BoolVar(&dto.DryRun, "dry-run", false, "Run the pipeline without writing tickets")

	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("tenant")

	return cmd
}

func runImport(cmd *cobra.Command, dto services.ImportRequestDTO) error {
	ctx := cmd.Context()
	conf := configuration.Use()
	log := conf.Logger()

	tenantID, err := uuid.Parse(dto.TenantID)
	if err != nil {
		return fmt.Errorf("invalid tenant id: %w", err)
	}

	records, err := readExportFile(dto.FilePath)
	if err != nil {
		return err
	}

	pool, err := connectDB(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	ctx = composables.WithPool(ctx, pool)
	ctx = composables.WithTenantID(ctx, tenantID)

	module, err := ingestion.NewModule(conf, eventbus.NewEventPublisher(log))
	if err != nil {
		return err
	}

	session, err := module.Sessions.Start(ctx, dto.SourceID, filepath.Base(dto.FilePath), len(records))
	if err != nil {
		return err
	}

	result, err := module.Ingest.Ingest(ctx, records, services.IngestOptions{
		SourceID:      dto.SourceID,
		InsertOnly:    dto.InsertOnly,
		DryRun:        dto.DryRun,
		SessionID:     session.ID,
		ProgressEvery: conf.Ingestion.ProgressEvery,
	})
	if err != nil {
		if failErr := module.Sessions.Fail(ctx, session.ID, err); failErr != nil {
			log.WithError(failErr).Warn("failed to mark session failed")
		}
		return err
	}

	if err := module.Sessions.Complete(ctx, session.ID, *result); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "inserted=%d updated=%d failed=%d\n",
		result.Inserted, result.Updated, result.Failed)
	for _, recordErr := range result.Errors {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s (%s)\n",
			recordErr.Key, recordErr.Reason, recordErr.Detail)
	}
	return nil
}

func readExportFile(path string) ([]services.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return readers.ReadXLSX(f)
	case ".csv":
		return readers.ReadCSV(f)
	default:
		return nil, fmt.Errorf("unsupported export format: %s", filepath.Ext(path))
	}
}
