package dto

type PageStatDTO struct {
	Path  string `json:"path"`
	Views int64  `json:"views"`
}

type ReferrerStatDTO struct {
	Referrer string `json:"referrer"`
	Count    int64  `json:"count"`
}

type DeviceStatDTO struct {
	Device string `json:"device"`
	Count  int64  `json:"count"`
}

// AnalyticsStatsDTO 는 실패해도 200 으로 내려가며 Error 에 이유가 담긴다.
type AnalyticsStatsDTO struct {
	PageViews int64             `json:"page_views"`
	Visitors  int64             `json:"visitors"`
	TopPages  []PageStatDTO     `json:"top_pages"`
	Referrers []ReferrerStatDTO `json:"referrers"`
	Devices   []DeviceStatDTO   `json:"devices"`
	Error     string            `json:"error,omitempty"`
}

type RealtimeDTO struct {
	ActiveVisitors int64  `json:"active_visitors"`
	Error          string `json:"error,omitempty"`
}
