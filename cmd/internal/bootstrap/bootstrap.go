// Package bootstrap 은 api, worker, portfolioctl 이 공유하는 의존성 조립 코드다.
package bootstrap

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"portfolio/config"
	"portfolio/eventbus"
	"portfolio/feeder"
	"portfolio/importer"
	"portfolio/internal/logger"
	"portfolio/repositories"
	"portfolio/storage"
	"portfolio/summarizer"
)

// EventBusConfig 는 KAFKA_* 환경변수와 config.yaml 의 kafka 항목을 합친다.
func EventBusConfig() eventbus.Config {
	env := config.GetEnv()
	cfg := config.GetConfig()
	return eventbus.Config{
		Brokers:         env.KafkaBrokers,
		GroupID:         env.KafkaGroupID,
		MessageMaxBytes: cfg.Kafka.MessageMaxBytes,
		Partitions:      cfg.Kafka.Partitions,
	}
}

func StorageConfig() storage.Config {
	env := config.GetEnv()
	cfg := config.GetConfig()
	return storage.Config{
		Endpoint:  env.MinioEndpoint,
		AccessKey: env.MinioAccessKey,
		SecretKey: env.MinioSecretKey,
		Bucket:    env.MinioBucket,
		PublicURL: env.MinioPublicURL,
		Region:    cfg.Media.Region,
		OpTimeout: cfg.Media.OpTimeout,
	}
}

// NewSuggester 는 GEMINI_API_KEY 가 없으면 nil 을 돌려준다.
// 반환 타입이 인터페이스라 nil *Summarizer 가 non-nil 인터페이스로 새지 않는다.
func NewSuggester(ctx context.Context) (importer.Suggester, error) {
	cfg := config.GetConfig().Importer
	s, err := summarizer.New(ctx, config.GetEnv().GeminiAPIKey, cfg.GeminiModel)
	if errors.Is(err, summarizer.ErrNotConfigured) {
		logger.Log.Info("gemini not configured; excerpt/tag suggestions disabled")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s.WithQuota(summarizer.NewQuota(cfg.SuggestRequestsPerDay, cfg.SuggestRequestsPerMinute)), nil
}

// NewImporter 는 피드 가져오기 파이프라인 전체를 조립한다.
func NewImporter(d *mongo.Database, suggester importer.Suggester) *importer.Importer {
	client := feeder.NewBrowserClient(feeder.FeederTimeout)
	return importer.New(
		repositories.NewBlogRepository(d),
		feeder.NewFetcher(client),
		importer.HTTPArticleSource{Client: client},
		suggester,
	)
}
