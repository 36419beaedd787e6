package get_series

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Request модель запроса на получение серии
type Request struct {
	SeriesID int64
}

// Response модель ответа с серией, инстансами и историей отказов
type Response struct {
	ID         int64
	ResourceID int64
	UserID     int64
	Name       string

	RecurrenceIntervalDays int
	Weekdays               []domain.Weekday
	BeginDate              time.Time
	EndDate                time.Time
	BeginTime              types.TimeString
	EndTime                types.TimeString
	AgeGroup               *string

	Instances []*InstanceInfo
	Rejected  []*RejectedInfo

	CreatedAt time.Time
	UpdatedAt time.Time
}

// InstanceInfo один инстанс серии
type InstanceInfo struct {
	ID           int64
	BeginsAt     time.Time
	EndsAt       time.Time
	AccessMethod domain.AccessMethod
	State        domain.InstanceState

	ReserveeType domain.ReserveeType
	ReserveeName string
}

// RejectedInfo одна запись отказа при генерации
type RejectedInfo struct {
	BeginsAt time.Time
	EndsAt   time.Time
	Reason   domain.RejectionReason
}
