package add_series_instance

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Request модель запроса на добавление одиночного инстанса к серии
// Данные заявителя не передаются - они копируются из последнего
// существующего инстанса серии
type Request struct {
	UserID   int64 // ID пользователя (из заголовка авторизации)
	SeriesID int64 // ID серии

	Date      time.Time        // Дата нового инстанса
	BeginTime types.TimeString // Время начала ("HH:MM")
	EndTime   types.TimeString // Время окончания ("HH:MM")

	// Переключатели проверок генерации
	CheckOpenHours     bool
	CheckBuffers       bool
	CheckStartInterval bool
}

// Response модель ответа с созданным инстансом
type Response struct {
	ID           int64
	SeriesID     int64
	ResourceID   int64
	BeginsAt     time.Time
	EndsAt       time.Time
	AccessMethod domain.AccessMethod
	State        domain.InstanceState
	CreatedAt    time.Time
}
