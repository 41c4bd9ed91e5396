package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deskflow-io/deskflow/modules/ingestion"
	"github.com/deskflow-io/deskflow/pkg/composables"
	"github.com/deskflow-io/deskflow/pkg/configuration"
	"github.com/deskflow-io/deskflow/pkg/eventbus"
)

func newMigrateOptionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate-options",
		Short: "Fold legacy category options into normalized option rows (one-shot, idempotent)",
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

			result, err := module.OptionsMigration.Run(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "migrated=%d skipped=%d options=%d\n",
				result.Migrated, result.Skipped, result.Options)
			return nil
		},
	}
}
