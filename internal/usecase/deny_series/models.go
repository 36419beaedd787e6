package deny_series

import "time"

// Request модель запроса на отклонение серии
// Отклонение - операция персонала: все будущие активные инстансы серии
// переводятся в DENIED одним действием
type Request struct {
	StaffUserID int64 // ID сотрудника (из заголовка авторизации)
	SeriesID    int64 // ID отклоняемой серии
}

// Response модель ответа отклонения серии
type Response struct {
	SeriesID int64

	// DeniedInstanceIDs инстансы, переведенные в DENIED
	DeniedInstanceIDs []int64

	// SkippedInstanceIDs инстансы, не затронутые операцией
	// (начавшиеся, завершенные и уже терминальные)
	SkippedInstanceIDs []int64

	DeniedAt time.Time
}
