package accessmethod

import "errors"

var (
	// ErrEntryNotFound возвращается, когда запись истории не найдена
	ErrEntryNotFound = errors.New("accessmethod.repository: entry not found")

	// ErrDuplicateDate возвращается при нарушении уникальности (resource_id, effective_from)
	ErrDuplicateDate = errors.New("accessmethod.repository: entry for this date already exists")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("accessmethod.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("accessmethod.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("accessmethod.repository: failed to scan row")
)
