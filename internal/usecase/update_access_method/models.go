package update_access_method

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Request модель запроса на смену способа доступа ресурса
// Смена не редактирует существующие записи - добавляется новая запись
// истории, действующая с указанной даты
type Request struct {
	StaffUserID   int64     // ID сотрудника (из заголовка авторизации)
	ResourceID    int64     // ID ресурса
	AccessMethod  string    // Новый способ доступа
	EffectiveFrom time.Time // Дата начала действия
}

// Response модель ответа с созданной записью истории
type Response struct {
	ID            int64
	ResourceID    int64
	AccessMethod  domain.AccessMethod
	EffectiveFrom time.Time
	CreatedAt     time.Time
}
