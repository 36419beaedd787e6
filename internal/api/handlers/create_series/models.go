package create_series

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	createSeries "github.com/m04kA/SMC-ReservationService/internal/usecase/create_series"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// CreateSeriesRequest HTTP request model
type CreateSeriesRequest struct {
	ResourceID int64   `json:"resourceId"`
	Name       string  `json:"name"`
	AgeGroup   *string `json:"ageGroup,omitempty"`

	Weekdays               []string `json:"weekdays,omitempty"`    // ["MONDAY", ...]
	BeginDate              string   `json:"beginDate"`             // "2026-01-05"
	EndDate                string   `json:"endDate"`               // "2026-05-25"
	BeginTime              string   `json:"beginTime"`             // "17:00"
	EndTime                string   `json:"endTime"`               // "19:00"
	RecurrenceIntervalDays int      `json:"recurrenceIntervalDays"`
	SkipDates              []string `json:"skipDates,omitempty"`

	Reservee ReserveeRequest `json:"reservee"`

	CheckOpenHours     *bool `json:"checkOpenHours,omitempty"`     // default true
	CheckBuffers       *bool `json:"checkBuffers,omitempty"`       // default true
	CheckStartInterval *bool `json:"checkStartInterval,omitempty"` // default false
	AllowPartial       bool  `json:"allowPartial,omitempty"`
}

// ReserveeRequest типизированная форма заявителя
type ReserveeRequest struct {
	Type string `json:"type"` // INDIVIDUAL | BUSINESS | NONPROFIT

	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`

	OrganisationName string `json:"organisationName,omitempty"`
	BusinessID       string `json:"businessId,omitempty"`
	ContactName      string `json:"contactName,omitempty"`

	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

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
func (r *CreateSeriesRequest) ToUseCaseRequest(userID int64) (*createSeries.Request, error) {
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

	reservee, err := r.Reservee.toDomain()
	if err != nil {
		return nil, err
	}

	return &createSeries.Request{
		UserID:                 userID,
		ResourceID:             r.ResourceID,
		Name:                   r.Name,
		AgeGroup:               r.AgeGroup,
		Weekdays:               weekdays,
		BeginDate:              beginDate,
		EndDate:                endDate,
		BeginTime:              beginTime,
		EndTime:                endTime,
		RecurrenceIntervalDays: r.RecurrenceIntervalDays,
		SkipDates:              skipDates,
		Reservee:               reservee,
		CheckOpenHours:         boolOrDefault(r.CheckOpenHours, true),
		CheckBuffers:           boolOrDefault(r.CheckBuffers, true),
		CheckStartInterval:     boolOrDefault(r.CheckStartInterval, false),
		AllowPartial:           r.AllowPartial,
	}, nil
}

// toDomain собирает типизированного заявителя по полю type
func (r *ReserveeRequest) toDomain() (domain.Reservee, error) {
	switch domain.ReserveeType(r.Type) {
	case domain.ReserveeIndividual:
		return domain.IndividualReservee{
			FirstName: r.FirstName,
			LastName:  r.LastName,
			Email:     r.Email,
			Phone:     r.Phone,
		}, nil
	case domain.ReserveeBusiness:
		return domain.BusinessReservee{
			OrganisationName: r.OrganisationName,
			BusinessID:       r.BusinessID,
			ContactName:      r.ContactName,
			Email:            r.Email,
			Phone:            r.Phone,
		}, nil
	case domain.ReserveeNonprofit:
		return domain.NonprofitReservee{
			OrganisationName: r.OrganisationName,
			ContactName:      r.ContactName,
			Email:            r.Email,
			Phone:            r.Phone,
		}, nil
	default:
		return nil, fmt.Errorf("reservee: unknown type %q", r.Type)
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createSeries.Response) *SeriesResponse {
	series := resp.Series

	weekdays := make([]string, 0, len(series.Weekdays))
	for _, wd := range series.Weekdays {
		weekdays = append(weekdays, string(wd))
	}

	out := &SeriesResponse{
		ID:                     series.ID,
		ResourceID:             series.ResourceID,
		UserID:                 series.UserID,
		Name:                   series.Name,
		AgeGroup:               series.AgeGroup,
		Weekdays:               weekdays,
		BeginDate:              series.BeginDate.Format(domain.DateFormat),
		EndDate:                series.EndDate.Format(domain.DateFormat),
		BeginTime:              series.BeginTime.String(),
		EndTime:                series.EndTime.String(),
		RecurrenceIntervalDays: series.RecurrenceIntervalDays,
		Instances:              make([]InstanceResponse, 0, len(resp.Instances)),
		Rejected:               rejectedResponses(resp.Rejected),
		CreatedAt:              series.CreatedAt.Format(time.RFC3339),
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

func rejectedResponses(rejected []*createSeries.RejectedInfo) []RejectedResponse {
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
