package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"

	"portfolio/cmd/internal/bootstrap"
	"portfolio/importer"
	"portfolio/repositories"
	"portfolio/storage"
)

var (
	importFeedURL     string
	importFeedLimit   int
	importAuthorEmail string
)

var importFeedCmd = &cobra.Command{
	Use:   "import-feed",
	Short: "Import RSS/Atom items as unpublished blog drafts",
	Long: `import-feed runs the same pipeline as the admin import endpoint, inline,
without going through Kafka. Items whose link was already imported are skipped.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		return withDatabase(ctx, func(d *mongo.Database) error {
			author, err := repositories.NewUserRepository(d).FindByEmail(ctx, importAuthorEmail)
			if errors.Is(err, repositories.ErrNotFound) {
				return fmt.Errorf("no user with email %s", importAuthorEmail)
			}
			if err != nil {
				return err
			}

			suggester, err := bootstrap.NewSuggester(ctx)
			if err != nil {
				return err
			}
			result, err := bootstrap.NewImporter(d, suggester).Import(ctx, importer.Request{
				FeedURL:  importFeedURL,
				Limit:    importer.NormalizeLimit(importFeedLimit),
				AuthorID: author.ID,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported=%d skipped=%d failed=%d\n", result.Imported, result.Skipped, result.Failed)
			return nil
		})
	},
}

var (
	rewriteDirectBase string
	rewriteDryRun     bool
)

var rewriteMediaURLsCmd = &cobra.Command{
	Use:   "rewrite-media-urls",
	Short: "Replace direct bucket URLs in content bodies with media proxy URLs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		base := strings.TrimSpace(rewriteDirectBase)
		if base == "" {
			base = defaultDirectBase()
		}
		if base == "" {
			return errors.New("--direct-base is required when MinIO is not configured")
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		rewrite := func(content string) (string, int) {
			return storage.RewriteDirectURLs(content, base)
		}
		return withDatabase(ctx, func(d *mongo.Database) error {
			out := cmd.OutOrStdout()
			for _, col := range repositories.ContentCollections {
				stats, err := repositories.RewriteContent(ctx, d, col, rewrite, rewriteDryRun)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%-8s scanned=%d changed=%d urls=%d\n", stats.Collection, stats.Scanned, stats.Changed, stats.Replacements)
			}
			if rewriteDryRun {
				fmt.Fprintln(out, "dry run: nothing was written")
			}
			return nil
		})
	},
}

func init() {
	importFeedCmd.Flags().StringVar(&importFeedURL, "url", "", "RSS or Atom feed URL")
	importFeedCmd.Flags().IntVar(&importFeedLimit, "limit", importer.DefaultLimit, "Maximum number of feed items to read")
	importFeedCmd.Flags().StringVar(&importAuthorEmail, "author-email", "", "Email of the user the drafts are attributed to")
	_ = importFeedCmd.MarkFlagRequired("url")
	_ = importFeedCmd.MarkFlagRequired("author-email")

	rewriteMediaURLsCmd.Flags().StringVar(&rewriteDirectBase, "direct-base", "", "Direct bucket URL prefix, e.g. https://minio.example.com/portfolio (defaults to the configured bucket)")
	rewriteMediaURLsCmd.Flags().BoolVar(&rewriteDryRun, "dry-run", false, "Only report what would change")
}

// defaultDirectBase 는 설정된 MinIO 버킷의 직접 URL prefix 다. 설정이 없으면 "".
func defaultDirectBase() string {
	store, err := storage.NewFromConfig(bootstrap.StorageConfig())
	if err != nil {
		return ""
	}
	return store.DirectBase()
}
