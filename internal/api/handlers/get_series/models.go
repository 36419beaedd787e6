package get_series

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	getSeries "github.com/m04kA/SMC-ReservationService/internal/usecase/get_series"
)

// SeriesResponse HTTP response model
type SeriesResponse struct {
	ID         int64   `json:"id"`
	ResourceID int64   `json:"resourceId"`
	UserID     int64   `json:"userId"`
	Name       string  `json:"name"`
	AgeGroup   *string `json:"ageGroup,omitempty"`

	Weekdays               []string `json:"weekdays"`
	BeginDate              string   `json:"beginDate"`
	EndDate                string   `json:"endDate"`
	BeginTime              string   `json:"beginTime"`
	EndTime                string   `json:"endTime"`
	RecurrenceIntervalDays int      `json:"recurrenceIntervalDays"`

	Instances []InstanceResponse `json:"instances"`
	Rejected  []RejectedResponse `json:"rejected"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// InstanceResponse один инстанс серии
type InstanceResponse struct {
	ID           int64  `json:"id"`
	BeginsAt     string `json:"beginsAt"`
	EndsAt       string `json:"endsAt"`
	AccessMethod string `json:"accessMethod"`
	State        string `json:"state"`
	ReserveeType string `json:"reserveeType"`
	ReserveeName string `json:"reserveeName"`
}

// RejectedResponse одна запись отказа при генерации
type RejectedResponse struct {
	BeginsAt string `json:"beginsAt"`
	EndsAt   string `json:"endsAt"`
	Reason   string `json:"reason"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getSeries.Response) *SeriesResponse {
	weekdays := make([]string, 0, len(resp.Weekdays))
	for _, wd := range resp.Weekdays {
		weekdays = append(weekdays, string(wd))
	}

	out := &SeriesResponse{
		ID:                     resp.ID,
		ResourceID:             resp.ResourceID,
		UserID:                 resp.UserID,
		Name:                   resp.Name,
		AgeGroup:               resp.AgeGroup,
		Weekdays:               weekdays,
		BeginDate:              resp.BeginDate.Format(domain.DateFormat),
		EndDate:                resp.EndDate.Format(domain.DateFormat),
		BeginTime:              resp.BeginTime.String(),
		EndTime:                resp.EndTime.String(),
		RecurrenceIntervalDays: resp.RecurrenceIntervalDays,
		Instances:              make([]InstanceResponse, 0, len(resp.Instances)),
		Rejected:               make([]RejectedResponse, 0, len(resp.Rejected)),
		CreatedAt:              resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:              resp.UpdatedAt.Format(time.RFC3339),
	}

	for _, inst := range resp.Instances {
		out.Instances = append(out.Instances, InstanceResponse{
			ID:           inst.ID,
			BeginsAt:     inst.BeginsAt.Format(time.RFC3339),
			EndsAt:       inst.EndsAt.Format(time.RFC3339),
			AccessMethod: string(inst.AccessMethod),
			State:        string(inst.State),
			ReserveeType: string(inst.ReserveeType),
			ReserveeName: inst.ReserveeName,
		})
	}

	for _, rej := range resp.Rejected {
		out.Rejected = append(out.Rejected, RejectedResponse{
			BeginsAt: rej.BeginsAt.Format(time.RFC3339),
			EndsAt:   rej.EndsAt.Format(time.RFC3339),
			Reason:   string(rej.Reason),
		})
	}

	return out
}
