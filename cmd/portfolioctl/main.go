package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"

	"portfolio/config"
	"portfolio/db"
	"portfolio/internal/logger"
)

var (
	// Global flags
	verbose bool
	timeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "portfolioctl",
	Short: "Operational commands for the portfolio CMS",
	Long: `portfolioctl runs one-off maintenance tasks against the same MongoDB,
MinIO and Kafka the API uses. Settings come from .env and config.yaml.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(config.GetBasePath()); err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		level := config.GetConfig().Logging.Level
		if verbose {
			level = "debug"
		}
		logger.Init(level)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "Overall deadline for the command")

	rootCmd.AddCommand(
		ensureIndexesCmd,
		ensureBucketCmd,
		ensureTopicsCmd,
		setRoleCmd,
		importFeedCmd,
		rewriteMediaURLsCmd,
	)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// commandContext 는 --timeout 을 적용한 context 다.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, timeout)
}

// withDatabase 는 MongoDB 에 연결해 fn 을 실행하고 연결을 닫는다.
func withDatabase(ctx context.Context, fn func(d *mongo.Database) error) error {
	if err := db.Init(ctx); err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	defer func() {
		if err := db.Close(context.Background()); err != nil {
			logger.WarnWithFields("mongo disconnect failed", logger.Fields{"error": err.Error()})
		}
	}()
	return fn(db.Database())
}
