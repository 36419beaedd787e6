package reschedule_series

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	rescheduleSeries "github.com/m04kA/SMC-ReservationService/internal/usecase/reschedule_series"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidRequestFields = "некорректные поля запроса"
	msgInvalidSeriesID      = "некорректный идентификатор серии"
	msgSeriesNotFound       = "серия не найдена"
	msgSeriesEmpty          = "у серии нет инстансов, перепланирование невозможно"
	msgNotSeriesOwner       = "серия принадлежит другому пользователю"
	msgResourceNotFound     = "помещение серии не найдено"
	msgInvalidRecurrence    = "некорректное правило повторения"
	msgNoCandidates         = "правило повторения не порождает ни одного слота"
	msgAllSlotsRejected     = "все слоты нового правила отклонены"
	msgConflictDetected     = "обнаружен конфликт бронирований, повторите запрос"
)

type Handler struct {
	useCase RescheduleSeriesUseCase
	logger  Logger
}

func NewHandler(useCase RescheduleSeriesUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PUT /api/v1/series/{seriesId}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, "не авторизован")
		return
	}

	seriesID, err := strconv.ParseInt(mux.Vars(r)["seriesId"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidSeriesID)
		return
	}

	var req RescheduleSeriesRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /series/%d/reschedule - Invalid request body: %v", seriesID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID, seriesID)
	if err != nil {
		h.logger.Warn("PUT /series/%d/reschedule - Failed to parse request: %v", seriesID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestFields)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, rescheduleSeries.ErrSeriesNotFound):
			h.logger.Warn("PUT /series/%d/reschedule - Series not found", seriesID)
			handlers.RespondNotFound(w, msgSeriesNotFound)

		case errors.Is(err, rescheduleSeries.ErrSeriesEmpty):
			h.logger.Warn("PUT /series/%d/reschedule - Series is empty", seriesID)
			handlers.RespondError(w, http.StatusConflict, msgSeriesEmpty)

		case errors.Is(err, rescheduleSeries.ErrNotSeriesOwner):
			h.logger.Warn("PUT /series/%d/reschedule - Not owner: user_id=%d", seriesID, userID)
			handlers.RespondForbidden(w, msgNotSeriesOwner)

		case errors.Is(err, rescheduleSeries.ErrResourceNotFound):
			h.logger.Warn("PUT /series/%d/reschedule - Resource not found", seriesID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, rescheduleSeries.ErrInvalidRecurrence):
			h.logger.Warn("PUT /series/%d/reschedule - Invalid recurrence: %v", seriesID, err)
			handlers.RespondBadRequest(w, msgInvalidRecurrence)

		case errors.Is(err, rescheduleSeries.ErrInvalidInput):
			h.logger.Warn("PUT /series/%d/reschedule - Invalid input: %v", seriesID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestFields)

		case errors.Is(err, rescheduleSeries.ErrNoCandidates):
			h.logger.Warn("PUT /series/%d/reschedule - No candidates", seriesID)
			handlers.RespondBadRequest(w, msgNoCandidates)

		case errors.Is(err, rescheduleSeries.ErrAllSlotsRejected):
			h.logger.Warn("PUT /series/%d/reschedule - All slots rejected", seriesID)
			var rejected []RejectedResponse
			if result != nil {
				rejected = rejectedResponses(result.Rejected)
			}
			handlers.RespondUnprocessable(w, RejectedListResponse{
				Message:  msgAllSlotsRejected,
				Rejected: rejected,
			})

		case errors.Is(err, rescheduleSeries.ErrConflictDetected):
			h.logger.Warn("PUT /series/%d/reschedule - Conflict at commit", seriesID)
			handlers.RespondError(w, http.StatusConflict, msgConflictDetected)

		default:
			h.logger.Error("PUT /series/%d/reschedule - Failed: user_id=%d, error=%v", seriesID, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /series/%d/reschedule - Rescheduled: user_id=%d, new=%d, kept=%d",
		seriesID, userID, len(result.Instances), len(result.KeptInstanceIDs))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
