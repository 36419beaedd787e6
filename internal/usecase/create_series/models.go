package create_series

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Request модель запроса на создание серии бронирований
type Request struct {
	UserID     int64  // ID пользователя (из заголовка авторизации)
	ResourceID int64  // ID ресурса (помещения)
	Name       string // Название серии (например, "Тренировка юниоров")

	// Правило повторения
	Weekdays               []domain.Weekday // Дни недели; пусто - день недели BeginDate
	BeginDate              time.Time        // Первая дата диапазона
	EndDate                time.Time        // Последняя дата диапазона (включительно)
	BeginTime              types.TimeString // Время начала каждого слота ("HH:MM")
	EndTime                types.TimeString // Время окончания каждого слота ("HH:MM")
	RecurrenceIntervalDays int              // Шаг повторения в днях, кратен 7
	SkipDates              []time.Time      // Пропускаемые даты

	AgeGroup *string // Возрастная группа (опционально, для отчетности)

	// Заявитель - одна из типизированных форм (частное лицо,
	// организация, некоммерческое объединение)
	Reservee domain.Reservee

	// Переключатели проверок генерации
	CheckOpenHours     bool
	CheckBuffers       bool
	CheckStartInterval bool

	// AllowPartial - создать серию, даже если часть кандидатов отклонена.
	// При false запрос завершается ошибкой только когда отклонены ВСЕ
	// кандидаты; частичный результат допустим в обоих режимах
	AllowPartial bool
}

// Response модель ответа с созданной серией
type Response struct {
	Series    *SeriesInfo     // Созданная серия (nil, если серия не создана)
	Instances []*InstanceInfo // Материализованные инстансы

	// Отклоненные кандидаты по причинам - всегда возвращаются
	// вызывающему коду, отказ это данные, а не ошибка
	Rejected []*RejectedInfo
}

// SeriesInfo созданная серия
type SeriesInfo struct {
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

	CreatedAt time.Time
}

// InstanceInfo один материализованный инстанс серии
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
