package series

import "errors"

var (
	// ErrSeriesNotFound возвращается, когда серия не найдена
	ErrSeriesNotFound = errors.New("series.repository: series not found")

	// ErrInstanceNotFound возвращается, когда инстанс не найден
	ErrInstanceNotFound = errors.New("series.repository: instance not found")

	// ErrSeriesNotEmpty возвращается при попытке удалить серию с инстансами
	ErrSeriesNotEmpty = errors.New("series.repository: series still has instances")

	// ErrOverlapConstraint возвращается, когда БД отклонила вставку из-за
	// exclusion/uniqueness constraint: конкурентное бронирование успело
	// занять интервал после классификации. Для вызывающего кода это
	// "повторить классификацию", а не ошибка входных данных
	ErrOverlapConstraint = errors.New("series.repository: conflict detected at commit")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("series.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("series.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("series.repository: failed to scan row")
)
