package dto

import "portfolio/models"

type ImportRequestDTO struct {
	RSSURL string `json:"rss_url" binding:"required,url"`
	Limit  int    `json:"limit" binding:"omitempty,min=1,max=50"`
}

// ImportAcceptedDTO 는 이벤트 버스로 넘긴 경우(202)의 응답이다.
type ImportAcceptedDTO struct {
	JobID  string              `json:"job_id"`
	Status models.ImportStatus `json:"status" example:"queued"`
}

// ImportResultDTO 는 인라인으로 실행한 경우(200)의 응답이다.
type ImportResultDTO struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

type ImportJobDTO struct {
	ID      string               `json:"id"`
	FeedURL string               `json:"feed_url"`
	Status  models.ImportStatus  `json:"status"`
	Result  *models.ImportResult `json:"result,omitempty"`
	Error   string               `json:"error,omitempty"`
	Created string               `json:"created_at"`
	Updated string               `json:"updated_at"`
}

func NewImportResultDTO(r models.ImportResult) ImportResultDTO {
	return ImportResultDTO{Imported: r.Imported, Skipped: r.Skipped, Failed: r.Failed}
}
