package services

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"portfolio/cmd/api/dto"
	"portfolio/internal/logger"
	"portfolio/internal/metrics"
	"portfolio/models"
	"portfolio/storage"
)

// sniffBytes 는 mimetype 이 판별에 쓰는 앞부분 길이와 같다.
const sniffBytes = 3072

type MediaMetaStore interface {
	Insert(ctx context.Context, m *models.Media) error
	DeleteByKey(ctx context.Context, key string) error
}

type MediaService struct {
	store    storage.Store
	meta     MediaMetaStore
	maxBytes int64
}

func NewMediaService(store storage.Store, meta MediaMetaStore, maxBytes int64) *MediaService {
	return &MediaService{store: store, meta: meta, maxBytes: maxBytes}
}

// MaxBytes 는 업로드 한 건의 최대 크기다. 0 이면 제한 없음.
func (s *MediaService) MaxBytes() int64 { return s.maxBytes }

func (s *MediaService) configured() bool {
	_, disabled := s.store.(storage.Disabled)
	return !disabled
}

// Upload 는 파일 내용을 보고 타입을 판별한 뒤 새 객체 이름으로 저장한다.
// 확장자는 클라이언트 파일명에서 가져오지만 Content-Type 은 내용 기준이다.
func (s *MediaService) Upload(ctx context.Context, fh *multipart.FileHeader, uploader primitive.ObjectID) (dto.MediaUploadResponseDTO, error) {
	if !s.configured() {
		return dto.MediaUploadResponseDTO{}, storage.ErrNotConfigured
	}
	if s.maxBytes > 0 && fh.Size > s.maxBytes {
		return dto.MediaUploadResponseDTO{}, storage.ErrTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return dto.MediaUploadResponseDTO{}, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	head := make([]byte, sniffBytes)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return dto.MediaUploadResponseDTO{}, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	if n == 0 {
		return dto.MediaUploadResponseDTO{}, storage.ErrUnsupportedType
	}

	contentType, ok := storage.DetectContentType(head)
	if !ok {
		logger.WarnWithFields("upload rejected", logger.Fields{
			"filename":     fh.Filename,
			"content_type": contentType,
		})
		return dto.MediaUploadResponseDTO{}, storage.ErrUnsupportedType
	}

	key := storage.NewObjectName(fh.Filename)
	body := io.MultiReader(bytes.NewReader(head), f)
	info, err := s.store.Upload(ctx, key, body, fh.Size, contentType)
	if err != nil {
		return dto.MediaUploadResponseDTO{}, err
	}

	metrics.MediaUploadsTotal.WithLabelValues(contentType).Inc()
	metrics.MediaUploadBytes.Add(float64(fh.Size))

	proxyURL := storage.ProxyURL(key)
	record := &models.Media{
		Key:          key,
		URL:          proxyURL,
		OriginalName: fh.Filename,
		ContentType:  contentType,
		Size:         fh.Size,
		UploadedBy:   uploader,
	}
	// 객체는 이미 올라갔으므로 메타데이터 기록 실패는 응답을 막지 않는다
	if err := s.meta.Insert(ctx, record); err != nil {
		logger.WarnWithFields("media metadata insert failed", logger.Fields{"key": key, "error": err.Error()})
	}

	logger.InfoWithFields("media uploaded", logger.Fields{
		"key":          key,
		"size":         fh.Size,
		"content_type": contentType,
		"etag":         info.ETag,
	})
	return dto.MediaUploadResponseDTO{
		URL:         proxyURL,
		Filename:    key,
		Size:        fh.Size,
		ContentType: contentType,
	}, nil
}

// Open 은 프록시 응답용 스트림을 연다. 저장된 타입이 octet-stream 이면 확장자로 다시 추정한다.
func (s *MediaService) Open(ctx context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error) {
	rc, info, err := s.store.Open(ctx, key)
	if err != nil {
		return nil, storage.ObjectInfo{}, err
	}
	if info.ContentType == "" || info.ContentType == "application/octet-stream" {
		info.ContentType = storage.ContentTypeForName(key)
	}
	return rc, info, nil
}

func (s *MediaService) List(ctx context.Context) (dto.MediaListDTO, error) {
	objects, err := s.store.List(ctx)
	if err != nil {
		return dto.MediaListDTO{}, err
	}
	files := make([]dto.MediaItemDTO, 0, len(objects))
	for _, o := range objects {
		files = append(files, dto.MediaItemDTO{
			Filename: o.Key,
			URL:      storage.ProxyURL(o.Key),
			Size:     o.Size,
		})
	}
	return dto.MediaListDTO{Files: files}, nil
}

func (s *MediaService) Delete(ctx context.Context, key string) error {
	if err := s.store.Delete(ctx, key); err != nil {
		return err
	}
	if err := s.meta.DeleteByKey(ctx, key); err != nil {
		logger.WarnWithFields("media metadata delete failed", logger.Fields{"key": key, "error": err.Error()})
	}
	logger.InfoWithFields("media deleted", logger.Fields{"key": key})
	return nil
}

// Debug 는 객체 이름마다 escape 형태, hex, 문자 코드를 보여준다.
func (s *MediaService) Debug(ctx context.Context) (dto.MediaDebugDTO, error) {
	objects, err := s.store.List(ctx)
	if err != nil {
		return dto.MediaDebugDTO{}, err
	}
	files := make([]dto.MediaDebugItemDTO, 0, len(objects))
	for _, o := range objects {
		codes := make([]int, 0, len(o.Key))
		for _, r := range o.Key {
			codes = append(codes, int(r))
		}
		files = append(files, dto.MediaDebugItemDTO{
			Filename:  o.Key,
			Escaped:   url.PathEscape(o.Key),
			Hex:       hex.EncodeToString([]byte(o.Key)),
			CharCodes: codes,
		})
	}
	return dto.MediaDebugDTO{Files: files}, nil
}
