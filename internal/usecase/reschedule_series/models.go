package reschedule_series

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Request модель запроса на перепланирование серии
// Новое правило повторения полностью заменяет старое; уже начавшиеся и
// завершенные инстансы сохраняются как есть
type Request struct {
	UserID   int64 // ID пользователя (из заголовка авторизации)
	SeriesID int64 // ID перепланируемой серии

	// Новое правило повторения
	Weekdays               []domain.Weekday
	BeginDate              time.Time
	EndDate                time.Time
	BeginTime              types.TimeString
	EndTime                types.TimeString
	RecurrenceIntervalDays int
	SkipDates              []time.Time

	// Переключатели проверок генерации
	CheckOpenHours     bool
	CheckBuffers       bool
	CheckStartInterval bool

	// AllowPartial - применить перепланирование, даже если часть
	// кандидатов отклонена. При false отказ ВСЕХ кандидатов отменяет
	// операцию целиком, существующие инстансы не изменяются
	AllowPartial bool
}

// Response модель ответа перепланирования
type Response struct {
	SeriesID int64

	// Instances новые инстансы, созданные по новому правилу
	Instances []*InstanceInfo

	// KeptInstanceIDs инстансы, пережившие перепланирование
	// (начавшиеся, завершенные, отклоненные и отмененные)
	KeptInstanceIDs []int64

	// ReplacedInstanceIDs удаленные будущие инстансы старого правила
	ReplacedInstanceIDs []int64

	// Отклоненные кандидаты нового правила по причинам
	Rejected []*RejectedInfo
}

// InstanceInfo один инстанс серии
type InstanceInfo struct {
	ID           int64
	BeginsAt     time.Time
	EndsAt       time.Time
	AccessMethod domain.AccessMethod
	State        domain.InstanceState
}

// RejectedInfo один отклоненный кандидат
type RejectedInfo struct {
	BeginsAt time.Time
	EndsAt   time.Time
	Reason   domain.RejectionReason
}
