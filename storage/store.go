package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sony/gobreaker/v2"

	"portfolio/internal/logger"
	"portfolio/internal/resilience"
)

var (
	ErrNotConfigured   = errors.New("storage_not_configured")
	ErrObjectNotFound  = errors.New("object_not_found")
	ErrUnavailable     = errors.New("storage_unavailable")
	ErrUnsupportedType = errors.New("unsupported_media_type")
	ErrTooLarge        = errors.New("file_too_large")
)

// Config 는 S3 호환 오브젝트 스토리지 접속 정보다.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	// PublicURL 이 비어 있으면 Endpoint 를 공개 URL 기준으로 쓴다.
	PublicURL string
	Region    string
	OpTimeout time.Duration
}

// Configured 는 네 가지 필수 값이 모두 있는지 확인한다.
func (c Config) Configured() bool {
	return c.Endpoint != "" && c.AccessKey != "" && c.SecretKey != "" && c.Bucket != ""
}

type ObjectInfo struct {
	Key          string
	Size         int64
	ContentType  string
	ETag         string
	LastModified time.Time
}

// Store 는 미디어 업로드/프록시가 사용하는 오브젝트 스토리지 추상화다.
type Store interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (ObjectInfo, error)
	// Open 은 객체를 스트리밍으로 읽는다. 호출자는 반환된 ReadCloser 를 닫아야 한다.
	Open(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	List(ctx context.Context) ([]ObjectInfo, error)
	Delete(ctx context.Context, key string) error
	EnsureBucket(ctx context.Context) error
	// DirectURL 은 버킷을 직접 가리키는 URL 이다 (endpoint/bucket/key).
	DirectURL(key string) string
	// DirectBase 는 DirectURL 의 key 앞부분이다.
	DirectBase() string
}

// MinioStore 는 minio-go 기반 Store 구현이다. 모든 원격 호출은 서킷 브레이커와
// 호출별 타임아웃을 거친다.
type MinioStore struct {
	client    *minio.Client
	bucket    string
	region    string
	publicURL string
	opTimeout time.Duration
	cb        *gobreaker.CircuitBreaker[any]
}

var _ Store = (*MinioStore)(nil)

func New(cfg Config) (*MinioStore, error) {
	if !cfg.Configured() {
		return nil, ErrNotConfigured
	}
	ep, err := ParseEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, err
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(ep.Host, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:       ep.Secure,
		Region:       region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	publicURL := strings.TrimRight(cfg.PublicURL, "/")
	if publicURL == "" {
		publicURL = ep.URL
	}
	opTimeout := cfg.OpTimeout
	if opTimeout <= 0 {
		opTimeout = 30 * time.Second
	}

	breakerCfg := resilience.DefaultBreakerConfig("object-store")
	breakerCfg.IsSuccessful = func(err error) bool {
		return err == nil || errors.Is(err, ErrObjectNotFound)
	}

	logger.InfoWithFields("object storage configured", logger.Fields{
		"endpoint": ep.URL,
		"bucket":   cfg.Bucket,
		"region":   region,
	})

	return &MinioStore{
		client:    client,
		bucket:    cfg.Bucket,
		region:    region,
		publicURL: publicURL,
		opTimeout: opTimeout,
		cb:        resilience.NewBreaker[any](breakerCfg),
	}, nil
}

func (s *MinioStore) exec(fn func() (any, error)) (any, error) {
	out, err := s.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return out, err
}

func (s *MinioStore) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (ObjectInfo, error) {
	out, err := s.exec(func() (any, error) {
		ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
		defer cancel()
		info, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
			ContentType:  contentType,
			CacheControl: "public, max-age=31536000",
		})
		if err != nil {
			return nil, fmt.Errorf("put object %s: %w", key, err)
		}
		return ObjectInfo{
			Key:          key,
			Size:         info.Size,
			ContentType:  contentType,
			ETag:         info.ETag,
			LastModified: info.LastModified,
		}, nil
	})
	if err != nil {
		return ObjectInfo{}, err
	}
	return out.(ObjectInfo), nil
}

func (s *MinioStore) stat(ctx context.Context, key string) (ObjectInfo, error) {
	out, err := s.exec(func() (any, error) {
		ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
		defer cancel()
		info, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
		if err != nil {
			return nil, translateError(key, err)
		}
		return toObjectInfo(info), nil
	})
	if err != nil {
		return ObjectInfo{}, err
	}
	return out.(ObjectInfo), nil
}

// Open 은 먼저 Stat 으로 존재 여부와 메타데이터를 확인한 뒤, 본문은 요청 컨텍스트로 지연 스트리밍한다.
func (s *MinioStore) Open(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	info, err := s.stat(ctx, key)
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, ObjectInfo{}, translateError(key, err)
	}
	return obj, info, nil
}

func (s *MinioStore) List(ctx context.Context) ([]ObjectInfo, error) {
	out, err := s.exec(func() (any, error) {
		ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
		defer cancel()
		var objects []ObjectInfo
		for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Recursive: true}) {
			if obj.Err != nil {
				return nil, fmt.Errorf("list objects: %w", obj.Err)
			}
			objects = append(objects, toObjectInfo(obj))
		}
		return objects, nil
	})
	if err != nil {
		return nil, err
	}
	objects, _ := out.([]ObjectInfo)
	return objects, nil
}

func (s *MinioStore) Delete(ctx context.Context, key string) error {
	_, err := s.exec(func() (any, error) {
		ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
		defer cancel()
		if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
			return nil, translateError(key, err)
		}
		return nil, nil
	})
	return err
}

// EnsureBucket 은 버킷이 없으면 만든다.
func (s *MinioStore) EnsureBucket(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
		return fmt.Errorf("make bucket %s: %w", s.bucket, err)
	}
	logger.InfoWithFields("bucket created", logger.Fields{"bucket": s.bucket})
	return nil
}

func (s *MinioStore) DirectBase() string {
	return s.publicURL + "/" + s.bucket
}

func (s *MinioStore) DirectURL(key string) string {
	return s.DirectBase() + "/" + key
}

func toObjectInfo(info minio.ObjectInfo) ObjectInfo {
	return ObjectInfo{
		Key:          info.Key,
		Size:         info.Size,
		ContentType:  info.ContentType,
		ETag:         info.ETag,
		LastModified: info.LastModified,
	}
}

func translateError(key string, err error) error {
	resp := minio.ToErrorResponse(err)
	if resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, key)
	}
	return fmt.Errorf("object %s: %w", key, err)
}

// Disabled 는 스토리지 설정이 없을 때 쓰는 Store 다. 모든 호출이 ErrNotConfigured 를 반환한다.
type Disabled struct{}

var _ Store = Disabled{}

func (Disabled) Upload(context.Context, string, io.Reader, int64, string) (ObjectInfo, error) {
	return ObjectInfo{}, ErrNotConfigured
}

func (Disabled) Open(context.Context, string) (io.ReadCloser, ObjectInfo, error) {
	return nil, ObjectInfo{}, ErrNotConfigured
}

func (Disabled) List(context.Context) ([]ObjectInfo, error) { return nil, ErrNotConfigured }
func (Disabled) Delete(context.Context, string) error       { return ErrNotConfigured }
func (Disabled) EnsureBucket(context.Context) error         { return ErrNotConfigured }
func (Disabled) DirectURL(string) string                    { return "" }
func (Disabled) DirectBase() string                         { return "" }

// NewFromConfig 는 설정이 완전하면 MinioStore 를, 아니면 Disabled 를 돌려준다.
func NewFromConfig(cfg Config) (Store, error) {
	s, err := New(cfg)
	if errors.Is(err, ErrNotConfigured) {
		logger.Log.Warn("object storage not configured; media endpoints will return 503")
		return Disabled{}, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// NewObjectName 은 "<unix millis>-<6자 랜덤>.<ext>" 형태의 충돌 없는 객체 이름을 만든다.
func NewObjectName(filename string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return fmt.Sprintf("%d-%s.%s", time.Now().UnixMilli(), suffix, SafeExtension(filename))
}
