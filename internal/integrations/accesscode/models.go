package accesscode

import "time"

// Grant выданный код доступа для серии бронирований
type Grant struct {
	ID         string    `json:"id"` // UUID гранта в сервисе кодов доступа
	SeriesID   int64     `json:"series_id"`
	Code       string    `json:"code"`
	ValidFrom  time.Time `json:"valid_from"`
	ValidUntil time.Time `json:"valid_until"`
	IsActive   bool      `json:"is_active"`
}

// grantRequest запрос на выдачу кода доступа
type grantRequest struct {
	SeriesID     int64    `json:"series_id"`
	ResourceUUID string   `json:"resource_uuid"`
	Slots        []slot   `json:"slots"`
}

// slot один интервал действия кода
type slot struct {
	BeginsAt time.Time `json:"begins_at"`
	EndsAt   time.Time `json:"ends_at"`
}

// ErrorResponse модель ошибки от сервиса кодов доступа
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
