package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"

	"portfolio/cmd/internal/bootstrap"
	"portfolio/db"
	"portfolio/eventbus"
	"portfolio/storage"
)

var ensureIndexesCmd = &cobra.Command{
	Use:   "ensure-indexes",
	Short: "Create the MongoDB indexes every collection needs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		return withDatabase(ctx, func(d *mongo.Database) error {
			if err := db.EnsureIndexes(ctx, d); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "indexes ensured on %s\n", d.Name())
			return nil
		})
	},
}

var ensureBucketCmd = &cobra.Command{
	Use:   "ensure-bucket",
	Short: "Create the media bucket if it does not exist",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		cfg := bootstrap.StorageConfig()
		store, err := storage.NewFromConfig(cfg)
		if err != nil {
			return err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("ensure bucket %q: %w", cfg.Bucket, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "bucket %s ready\n", cfg.Bucket)
		return nil
	},
}

var ensureTopicsCmd = &cobra.Command{
	Use:   "ensure-topics",
	Short: "Create the Kafka base, retry and DLQ topics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		cfg := bootstrap.EventBusConfig()
		for _, t := range eventbus.AllTopics {
			if err := eventbus.EnsureTopics(ctx, cfg, t); err != nil {
				return fmt.Errorf("ensure topics for %s: %w", t.Base(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: base, %d retry, dlq\n", t.Base(), len(t.RetryTopics()))
		}
		return nil
	},
}
