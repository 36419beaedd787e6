package openhours

// dateSchedule расписание одной даты из ответа сервиса часов работы
type dateSchedule struct {
	Date  string     `json:"date"` // YYYY-MM-DD
	Times []timeSpan `json:"times"`
}

// timeSpan один период внутри даты
// StartTime/EndTime == nil означает "весь день"
type timeSpan struct {
	StartTime *string `json:"start_time"` // "HH:MM:SS"
	EndTime   *string `json:"end_time"`
	// ResourceState: "open" - резервируемое окно, "closed" - закрыто
	ResourceState string `json:"resource_state"`
	// Override: авторитетная запись, перекрывающая базовое расписание
	// Не-override записи о закрытии носят информационный характер
	// и игнорируются вызывающим кодом
	Override bool `json:"override"`
}

// scheduleResponse ответ сервиса часов работы
type scheduleResponse struct {
	Resource     string         `json:"resource"`
	OpeningHours []dateSchedule `json:"opening_hours"`
}

// ErrorResponse модель ошибки от сервиса часов работы
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

const (
	stateOpen   = "open"
	stateClosed = "closed"
)
