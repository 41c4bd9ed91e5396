package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deskflow-io/deskflow/modules/ingestion"
	"github.com/deskflow-io/deskflow/modules/ingestion/domain/uploadsession"
	"github.com/deskflow-io/deskflow/pkg/composables"
	"github.com/deskflow-io/deskflow/pkg/configuration"
	"github.com/deskflow-io/deskflow/pkg/eventbus"
)

func newSessionsCmd() *cobra.Command {
	var (
		source string
		status string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List upload sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			conf := configuration.Use()

			pool, err := connectDB(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()
			ctx = composables.WithPool(ctx, pool)

			module, err := ingestion.NewModule(conf, eventbus.NewEventPublisher(conf.Logger()))
			if err != nil {
				return err
			}

			sessions, err := module.Sessions.List(ctx, &uploadsession.FindParams{
				SourceID: source,
				Status:   uploadsession.Status(status),
				Limit:    limit,
			})
			if err != nil {
				return err
			}

			for _, s := range sessions {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-10s  %s  %d/%d  %s\n",
					s.ID, s.Status, s.SourceID, s.ProcessedRows, s.TotalRows, s.Filename)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "Filter by source system")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (processing/completed/failed)")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum sessions to list")
	return cmd
}
