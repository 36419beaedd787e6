package reschedule_series

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	rescheduleSeries "github.com/m04kA/SMC-ReservationService/internal/usecase/reschedule_series"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// RescheduleSeriesRequest HTTP request model
// Новое правило повторения полностью заменяет старое
type RescheduleSeriesRequest struct {
	Weekdays               []string `json:"weekdays,omitempty"`
	BeginDate              string   `json:"beginDate"`
	EndDate                string   `json:"endDate"`
	BeginTime              string   `json:"beginTime"`
	EndTime                string   `json:"endTime"`
	RecurrenceIntervalDays int      `json:"recurrenceIntervalDays"`
	SkipDates              []string `json:"skipDates,omitempty"`

	CheckOpenHours     *bool `json:"checkOpenHours,omitempty"`
	CheckBuffers       *bool `json:"checkBuffers,omitempty"`
	CheckStartInterval *bool `json:"checkStartInterval,omitempty"`
	AllowPartial       bool  `json:"allowPartial,omitempty"`
}

// RescheduleSeriesResponse HTTP response model
type RescheduleSeriesResponse struct {
	SeriesID            int64              `json:"seriesId"`
	Instances           []InstanceResponse `json:"instances"`
	KeptInstanceIDs     []int64            `json:"keptInstanceIds"`
	ReplacedInstanceIDs []int64            `json:"replacedInstanceIds"`
	Rejected            []RejectedResponse `json:"rejected"`
}

// InstanceResponse один инстанс серии
type InstanceResponse struct {
	ID           int64  `json:"id"`
	BeginsAt     string `json:"beginsAt"`
	EndsAt       string `json:"endsAt"`
	AccessMethod string `json:"accessMethod"`
	State        string `json:"state"`
}

// RejectedResponse один отклоненный кандидат
type RejectedResponse struct {
	BeginsAt string `json:"beginsAt"`
	EndsAt   string `json:"endsAt"`
	Reason   string `json:"reason"`
}

// RejectedListResponse тело ответа 422, когда отклонены все кандидаты
type RejectedListResponse struct {
	Message  string             `json:"message"`
	Rejected []RejectedResponse `json:"rejected"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleSeriesRequest) ToUseCaseRequest(userID, seriesID int64) (*rescheduleSeries.Request, error) {
	beginDate, err := time.Parse(domain.DateFormat, r.BeginDate)
	if err != nil {
		return nil, fmt.Errorf("beginDate: %w", err)
	}

	endDate, err := time.Parse(domain.DateFormat, r.EndDate)
	if err != nil {
		return nil, fmt.Errorf("endDate: %w", err)
	}

	beginTime, err := types.NewTimeStringFromString(r.BeginTime)
	if err != nil {
		return nil, fmt.Errorf("beginTime: %w", err)
	}

	endTime, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, fmt.Errorf("endTime: %w", err)
	}

	weekdays := make([]domain.Weekday, 0, len(r.Weekdays))
	for _, raw := range r.Weekdays {
		wd, err := domain.ParseWeekday(raw)
		if err != nil {
			return nil, fmt.Errorf("weekdays: %w", err)
		}
		weekdays = append(weekdays, wd)
	}

	skipDates := make([]time.Time, 0, len(r.SkipDates))
	for _, raw := range r.SkipDates {
		date, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, fmt.Errorf("skipDates: %w", err)
		}
		skipDates = append(skipDates, date)
	}

	return &rescheduleSeries.Request{
		UserID:                 userID,
		SeriesID:               seriesID,
		Weekdays:               weekdays,
		BeginDate:              beginDate,
		EndDate:                endDate,
		BeginTime:              beginTime,
		EndTime:                endTime,
		RecurrenceIntervalDays: r.RecurrenceIntervalDays,
		SkipDates:              skipDates,
		CheckOpenHours:         boolOrDefault(r.CheckOpenHours, true),
		CheckBuffers:           boolOrDefault(r.CheckBuffers, true),
		CheckStartInterval:     boolOrDefault(r.CheckStartInterval, false),
		AllowPartial:           r.AllowPartial,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *rescheduleSeries.Response) *RescheduleSeriesResponse {
	out := &RescheduleSeriesResponse{
		SeriesID:            resp.SeriesID,
		Instances:           make([]InstanceResponse, 0, len(resp.Instances)),
		KeptInstanceIDs:     resp.KeptInstanceIDs,
		ReplacedInstanceIDs: resp.ReplacedInstanceIDs,
		Rejected:            rejectedResponses(resp.Rejected),
	}

	for _, inst := range resp.Instances {
		out.Instances = append(out.Instances, InstanceResponse{
			ID:           inst.ID,
			BeginsAt:     inst.BeginsAt.Format(time.RFC3339),
			EndsAt:       inst.EndsAt.Format(time.RFC3339),
			AccessMethod: string(inst.AccessMethod),
			State:        string(inst.State),
		})
	}

	return out
}

func rejectedResponses(rejected []*rescheduleSeries.RejectedInfo) []RejectedResponse {
	out := make([]RejectedResponse, 0, len(rejected))
	for _, rej := range rejected {
		out = append(out, RejectedResponse{
			BeginsAt: rej.BeginsAt.Format(time.RFC3339),
			EndsAt:   rej.EndsAt.Format(time.RFC3339),
			Reason:   string(rej.Reason),
		})
	}
	return out
}

func boolOrDefault(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
