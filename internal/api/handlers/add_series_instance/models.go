package add_series_instance

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	addSeriesInstance "github.com/m04kA/SMC-ReservationService/internal/usecase/add_series_instance"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// AddInstanceRequest HTTP request model
// Данные заявителя не передаются: они копируются из последнего
// инстанса серии
type AddInstanceRequest struct {
	Date      string `json:"date"`      // "2026-03-10"
	BeginTime string `json:"beginTime"` // "17:00"
	EndTime   string `json:"endTime"`   // "19:00"

	CheckOpenHours     *bool `json:"checkOpenHours,omitempty"`
	CheckBuffers       *bool `json:"checkBuffers,omitempty"`
	CheckStartInterval *bool `json:"checkStartInterval,omitempty"`
}

// InstanceResponse HTTP response model
type InstanceResponse struct {
	ID           int64  `json:"id"`
	SeriesID     int64  `json:"seriesId"`
	ResourceID   int64  `json:"resourceId"`
	BeginsAt     string `json:"beginsAt"`
	EndsAt       string `json:"endsAt"`
	AccessMethod string `json:"accessMethod"`
	State        string `json:"state"`
	CreatedAt    string `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *AddInstanceRequest) ToUseCaseRequest(userID, seriesID int64) (*addSeriesInstance.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}

	beginTime, err := types.NewTimeStringFromString(r.BeginTime)
	if err != nil {
		return nil, fmt.Errorf("beginTime: %w", err)
	}

	endTime, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, fmt.Errorf("endTime: %w", err)
	}

	return &addSeriesInstance.Request{
		UserID:             userID,
		SeriesID:           seriesID,
		Date:               date,
		BeginTime:          beginTime,
		EndTime:            endTime,
		CheckOpenHours:     boolOrDefault(r.CheckOpenHours, true),
		CheckBuffers:       boolOrDefault(r.CheckBuffers, true),
		CheckStartInterval: boolOrDefault(r.CheckStartInterval, false),
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *addSeriesInstance.Response) *InstanceResponse {
	return &InstanceResponse{
		ID:           resp.ID,
		SeriesID:     resp.SeriesID,
		ResourceID:   resp.ResourceID,
		BeginsAt:     resp.BeginsAt.Format(time.RFC3339),
		EndsAt:       resp.EndsAt.Format(time.RFC3339),
		AccessMethod: string(resp.AccessMethod),
		State:        string(resp.State),
		CreatedAt:    resp.CreatedAt.Format(time.RFC3339),
	}
}

func boolOrDefault(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
