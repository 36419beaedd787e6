package add_series_instance

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	addSeriesInstance "github.com/m04kA/SMC-ReservationService/internal/usecase/add_series_instance"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidRequestFields = "некорректные поля запроса"
	msgInvalidSeriesID      = "некорректный идентификатор серии"
	msgSeriesNotFound       = "серия не найдена"
	msgSeriesEmpty          = "у серии нет инстансов, добавление невозможно"
	msgNotSeriesOwner       = "серия принадлежит другому пользователю"
	msgResourceNotFound     = "помещение серии не найдено"
	msgSlotOverlaps         = "слот пересекается с существующим бронированием"
	msgSlotNotReservable    = "слот вне часов работы помещения"
	msgInvalidStartInterval = "время начала не кратно разрешенному шагу"
	msgInvalidSlot          = "некорректный слот"
	msgConflictDetected     = "обнаружен конфликт бронирований, повторите запрос"
)

type Handler struct {
	useCase AddSeriesInstanceUseCase
	logger  Logger
}

func NewHandler(useCase AddSeriesInstanceUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/series/{seriesId}/instances
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

	var req AddInstanceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /series/%d/instances - Invalid request body: %v", seriesID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID, seriesID)
	if err != nil {
		h.logger.Warn("POST /series/%d/instances - Failed to parse request: %v", seriesID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestFields)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, addSeriesInstance.ErrSeriesNotFound):
			h.logger.Warn("POST /series/%d/instances - Series not found", seriesID)
			handlers.RespondNotFound(w, msgSeriesNotFound)

		case errors.Is(err, addSeriesInstance.ErrSeriesEmpty):
			h.logger.Warn("POST /series/%d/instances - Series is empty", seriesID)
			handlers.RespondError(w, http.StatusConflict, msgSeriesEmpty)

		case errors.Is(err, addSeriesInstance.ErrNotSeriesOwner):
			h.logger.Warn("POST /series/%d/instances - Not owner: user_id=%d", seriesID, userID)
			handlers.RespondForbidden(w, msgNotSeriesOwner)

		case errors.Is(err, addSeriesInstance.ErrResourceNotFound):
			h.logger.Warn("POST /series/%d/instances - Resource not found", seriesID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, addSeriesInstance.ErrSlotOverlaps):
			h.logger.Warn("POST /series/%d/instances - Slot overlaps", seriesID)
			handlers.RespondError(w, http.StatusConflict, msgSlotOverlaps)

		case errors.Is(err, addSeriesInstance.ErrSlotNotReservable):
			h.logger.Warn("POST /series/%d/instances - Slot not reservable", seriesID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgSlotNotReservable)

		case errors.Is(err, addSeriesInstance.ErrInvalidStartInterval):
			h.logger.Warn("POST /series/%d/instances - Invalid start interval", seriesID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgInvalidStartInterval)

		case errors.Is(err, addSeriesInstance.ErrInvalidSlot),
			errors.Is(err, addSeriesInstance.ErrInvalidInput):
			h.logger.Warn("POST /series/%d/instances - Invalid slot: %v", seriesID, err)
			handlers.RespondBadRequest(w, msgInvalidSlot)

		case errors.Is(err, addSeriesInstance.ErrConflictDetected):
			h.logger.Warn("POST /series/%d/instances - Conflict at commit", seriesID)
			handlers.RespondError(w, http.StatusConflict, msgConflictDetected)

		default:
			h.logger.Error("POST /series/%d/instances - Failed: user_id=%d, error=%v", seriesID, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /series/%d/instances - Instance created: instance_id=%d, user_id=%d",
		seriesID, result.ID, userID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
