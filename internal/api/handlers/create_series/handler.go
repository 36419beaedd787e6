package create_series

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	createSeries "github.com/m04kA/SMC-ReservationService/internal/usecase/create_series"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidRequestFields = "некорректные поля запроса"
	msgResourceNotFound     = "помещение не найдено"
	msgResourceNotPublished = "помещение недоступно для бронирования"
	msgInvalidRecurrence    = "некорректное правило повторения"
	msgInvalidReservee      = "некорректные данные заявителя"
	msgNoCandidates         = "правило повторения не порождает ни одного слота"
	msgAllSlotsRejected     = "все слоты серии отклонены"
	msgConflictDetected     = "обнаружен конфликт бронирований, повторите запрос"
)

type Handler struct {
	useCase CreateSeriesUseCase
	metrics Metrics
	logger  Logger
}

func NewHandler(useCase CreateSeriesUseCase, metrics Metrics, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		metrics: metrics,
		logger:  logger,
	}
}

// Handle POST /api/v1/series
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, "не авторизован")
		return
	}

	var req CreateSeriesRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /series - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /series - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestFields)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createSeries.ErrResourceNotFound):
			h.logger.Warn("POST /series - Resource not found: resource_id=%d", req.ResourceID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, createSeries.ErrResourceNotPublished):
			h.logger.Warn("POST /series - Resource not published: resource_id=%d", req.ResourceID)
			handlers.RespondForbidden(w, msgResourceNotPublished)

		case errors.Is(err, createSeries.ErrInvalidRecurrence):
			h.logger.Warn("POST /series - Invalid recurrence: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidRecurrence)

		case errors.Is(err, createSeries.ErrInvalidReservee):
			h.logger.Warn("POST /series - Invalid reservee: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidReservee)

		case errors.Is(err, createSeries.ErrInvalidInput):
			h.logger.Warn("POST /series - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestFields)

		case errors.Is(err, createSeries.ErrNoCandidates):
			h.logger.Warn("POST /series - No candidates: user_id=%d, resource_id=%d", userID, req.ResourceID)
			handlers.RespondBadRequest(w, msgNoCandidates)

		case errors.Is(err, createSeries.ErrAllSlotsRejected):
			h.logger.Warn("POST /series - All slots rejected: user_id=%d, resource_id=%d", userID, req.ResourceID)
			h.observeResult(result, true)
			// Отказ по каждому кандидату возвращается клиенту: это данные, а не ошибка
			var rejected []RejectedResponse
			if result != nil {
				rejected = rejectedResponses(result.Rejected)
			}
			handlers.RespondUnprocessable(w, RejectedListResponse{
				Message:  msgAllSlotsRejected,
				Rejected: rejected,
			})

		case errors.Is(err, createSeries.ErrConflictDetected):
			h.logger.Warn("POST /series - Conflict at commit: user_id=%d, resource_id=%d", userID, req.ResourceID)
			handlers.RespondError(w, http.StatusConflict, msgConflictDetected)

		default:
			h.logger.Error("POST /series - Failed to create series: user_id=%d, resource_id=%d, error=%v",
				userID, req.ResourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /series - Series created: series_id=%d, user_id=%d, instances=%d, rejected=%d",
		result.Series.ID, userID, len(result.Instances), len(result.Rejected))
	h.observeResult(result, false)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

// observeResult фиксирует бизнес-метрики результата создания серии
func (h *Handler) observeResult(result *createSeries.Response, allRejected bool) {
	if h.metrics == nil || result == nil {
		return
	}

	switch {
	case allRejected:
		h.metrics.IncSeriesCreated("rejected")
	case len(result.Rejected) > 0:
		h.metrics.IncSeriesCreated("partial")
	default:
		h.metrics.IncSeriesCreated("created")
	}

	counts := make(map[string]int)
	for _, rej := range result.Rejected {
		counts[string(rej.Reason)]++
	}
	for reason, n := range counts {
		h.metrics.AddSlotsRejected(reason, n)
	}
}
