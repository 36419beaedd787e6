package slotgen

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Options независимо переключаемые проверки генерации
type Options struct {
	// CheckOpenHours - кандидат должен целиком лежать внутри резервируемого
	// окна часов работы. Выключается для привилегированных (staff) бронирований
	CheckOpenHours bool

	// CheckBuffers - буферы кандидата вычисляются из буферной политики
	// ресурса перед проверкой пересечений. При false кандидаты генерируются
	// без буферов (буферы существующих бронирований учитываются всегда)
	CheckBuffers bool

	// CheckStartInterval - время начала кандидата должно быть кратно
	// разрешенному шагу ресурса. Нужно только для staff-кандидатов:
	// клиентские и так ограничены интерфейсом
	CheckStartInterval bool

	// IgnoreInstanceIDs - существующие инстансы, исключаемые из проверки
	// пересечений. Обязательно при перегенерации серии, которая заменяет
	// собственные будущие инстансы (reschedule)
	IgnoreInstanceIDs []int64

	// ClosedWindows - явно закрытые периоды, переданные вызывающим кодом
	// (когда вышестоящая проверка уже пометила даты закрытыми - чтобы
	// не ходить в oracle повторно). При CheckOpenHours генератор сам
	// дополняет их авторитетными закрытиями оракула
	ClosedWindows []domain.TimeInterval
}

// Candidate пара (начало, конец) кандидата - для отчетности храним
// исходный интервал без буферов
type Candidate struct {
	Begin time.Time
	End   time.Time
}

// Result результат классификации всех кандидатов
// Каждый кандидат попадает ровно в одну корзину; суммы размеров корзин
// равны общему числу сгенерированных кандидатов
type Result struct {
	// Accepted принятые слоты с вычисленными буферами - готовы к материализации
	Accepted []domain.TimeInterval

	// Overlapping кандидаты, пересекающиеся с существующими бронированиями
	Overlapping []Candidate

	// NotReservable кандидаты вне часов работы или в явно закрытых периодах
	NotReservable []Candidate

	// InvalidStartInterval кандидаты с началом, не кратным шагу ресурса
	InvalidStartInterval []Candidate
}

// TotalCandidates возвращает общее число сгенерированных кандидатов
func (r *Result) TotalCandidates() int {
	return len(r.Accepted) + len(r.Overlapping) + len(r.NotReservable) + len(r.InvalidStartInterval)
}

// RejectedCount возвращает число отклоненных кандидатов
func (r *Result) RejectedCount() int {
	return len(r.Overlapping) + len(r.NotReservable) + len(r.InvalidStartInterval)
}

// AllRejected возвращает true, если не принят ни один кандидат
// (при этом кандидаты были)
func (r *Result) AllRejected() bool {
	return len(r.Accepted) == 0 && r.RejectedCount() > 0
}

// RejectedOccurrences разворачивает корзины отказов в аудит-записи
// для указанной серии, сохраняя исходные (begin, end) кандидатов
func (r *Result) RejectedOccurrences(seriesID int64) []*domain.RejectedOccurrence {
	rejected := make([]*domain.RejectedOccurrence, 0, r.RejectedCount())

	appendBucket := func(bucket []Candidate, reason domain.RejectionReason) {
		for _, c := range bucket {
			rejected = append(rejected, &domain.RejectedOccurrence{
				SeriesID: seriesID,
				BeginsAt: c.Begin,
				EndsAt:   c.End,
				Reason:   reason,
			})
		}
	}

	appendBucket(r.Overlapping, domain.ReasonOverlapping)
	appendBucket(r.NotReservable, domain.ReasonUnitClosed)
	appendBucket(r.InvalidStartInterval, domain.ReasonIntervalNotAllowed)

	return rejected
}
