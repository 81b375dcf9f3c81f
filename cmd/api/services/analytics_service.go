package services

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"portfolio/cmd/api/clients/umamiclient"
	"portfolio/cmd/api/dto"
	"portfolio/internal/logger"
	"portfolio/internal/metrics"
)

const (
	analyticsNotConfiguredMsg = "Umami analytics not configured"
	analyticsFailedMsg        = "Failed to fetch analytics data"
	realtimeFailedMsg         = "Failed to fetch real-time data"
	analyticsTopN             = 10
)

var ErrInvalidDate = errors.New("invalid_date")

type AnalyticsClient interface {
	Stats(ctx context.Context, r umamiclient.Range) (umamiclient.Stats, error)
	Metrics(ctx context.Context, kind string, r umamiclient.Range) ([]umamiclient.Metric, error)
	ActiveVisitors(ctx context.Context) (int64, error)
}

// AnalyticsService 는 Umami 통계를 대시보드 형식으로 바꾼다.
// 설정이 없거나 호출이 실패해도 에러 대신 0 값과 Error 메시지를 돌려준다.
type AnalyticsService struct {
	client      AnalyticsClient
	defaultDays int
	now         func() time.Time
}

// NewAnalyticsService 는 client 가 nil 이면 미설정 상태로 동작한다.
func NewAnalyticsService(client AnalyticsClient, defaultDays int) *AnalyticsService {
	if defaultDays <= 0 {
		defaultDays = 30
	}
	return &AnalyticsService{client: client, defaultDays: defaultDays, now: time.Now}
}

// ParseRange 는 YYYY-MM-DD 또는 RFC3339 날짜를 받는다. 비어 있으면 최근 defaultDays 일.
func (s *AnalyticsService) ParseRange(startRaw, endRaw string) (umamiclient.Range, error) {
	end := s.now()
	if endRaw != "" {
		t, err := parseDate(endRaw)
		if err != nil {
			return umamiclient.Range{}, err
		}
		end = t
	}
	start := s.now().AddDate(0, 0, -s.defaultDays)
	if startRaw != "" {
		t, err := parseDate(startRaw)
		if err != nil {
			return umamiclient.Range{}, err
		}
		start = t
	}
	if start.After(end) {
		return umamiclient.Range{}, ErrInvalidDate
	}
	return umamiclient.Range{Start: start, End: end}, nil
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Time{}, ErrInvalidDate
}

func emptyStats(msg string) dto.AnalyticsStatsDTO {
	return dto.AnalyticsStatsDTO{
		TopPages:  []dto.PageStatDTO{},
		Referrers: []dto.ReferrerStatDTO{},
		Devices:   []dto.DeviceStatDTO{},
		Error:     msg,
	}
}

// Stats 는 요약, 페이지, 유입 경로, 기기 통계를 동시에 가져온다. 하나라도 실패하면 전체를 실패로 본다.
func (s *AnalyticsService) Stats(ctx context.Context, r umamiclient.Range) dto.AnalyticsStatsDTO {
	if s.client == nil {
		return emptyStats(analyticsNotConfiguredMsg)
	}

	var (
		stats                     umamiclient.Stats
		pages, referrers, devices []umamiclient.Metric
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats, err = s.client.Stats(gctx, r)
		return err
	})
	g.Go(func() (err error) {
		pages, err = s.client.Metrics(gctx, umamiclient.MetricPages, r)
		return err
	})
	g.Go(func() (err error) {
		referrers, err = s.client.Metrics(gctx, umamiclient.MetricReferrers, r)
		return err
	})
	g.Go(func() (err error) {
		devices, err = s.client.Metrics(gctx, umamiclient.MetricDevices, r)
		return err
	})
	if err := g.Wait(); err != nil {
		metrics.AnalyticsFetchesTotal.WithLabelValues("error").Inc()
		logger.ErrorWithFields("analytics fetch failed", logger.Fields{"error": err.Error()})
		return emptyStats(analyticsFailedMsg)
	}
	metrics.AnalyticsFetchesTotal.WithLabelValues("ok").Inc()

	out := emptyStats("")
	out.PageViews = int64(stats.PageViews)
	out.Visitors = int64(stats.Visitors)
	for _, m := range topN(pages, analyticsTopN) {
		out.TopPages = append(out.TopPages, dto.PageStatDTO{Path: m.X, Views: m.Y})
	}
	for _, m := range topN(referrers, analyticsTopN) {
		out.Referrers = append(out.Referrers, dto.ReferrerStatDTO{Referrer: m.X, Count: m.Y})
	}
	for _, m := range devices {
		out.Devices = append(out.Devices, dto.DeviceStatDTO{Device: m.X, Count: m.Y})
	}
	return out
}

func (s *AnalyticsService) Realtime(ctx context.Context) dto.RealtimeDTO {
	if s.client == nil {
		return dto.RealtimeDTO{Error: analyticsNotConfiguredMsg}
	}
	n, err := s.client.ActiveVisitors(ctx)
	if err != nil {
		logger.ErrorWithFields("analytics realtime fetch failed", logger.Fields{"error": err.Error()})
		return dto.RealtimeDTO{Error: realtimeFailedMsg}
	}
	return dto.RealtimeDTO{ActiveVisitors: n}
}

func topN(in []umamiclient.Metric, n int) []umamiclient.Metric {
	if len(in) > n {
		return in[:n]
	}
	return in
}
