package deny_series

import (
	"time"

	denySeries "github.com/m04kA/SMC-ReservationService/internal/usecase/deny_series"
)

// DenySeriesResponse HTTP response model
type DenySeriesResponse struct {
	SeriesID           int64   `json:"seriesId"`
	DeniedInstanceIDs  []int64 `json:"deniedInstanceIds"`
	SkippedInstanceIDs []int64 `json:"skippedInstanceIds"`
	DeniedAt           string  `json:"deniedAt"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *denySeries.Response) *DenySeriesResponse {
	return &DenySeriesResponse{
		SeriesID:           resp.SeriesID,
		DeniedInstanceIDs:  resp.DeniedInstanceIDs,
		SkippedInstanceIDs: resp.SkippedInstanceIDs,
		DeniedAt:           resp.DeniedAt.Format(time.RFC3339),
	}
}
