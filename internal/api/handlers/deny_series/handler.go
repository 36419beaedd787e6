package deny_series

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	denySeries "github.com/m04kA/SMC-ReservationService/internal/usecase/deny_series"
)

const (
	msgInvalidSeriesID = "некорректный идентификатор серии"
	msgSeriesNotFound  = "серия не найдена"
	msgNothingToDeny   = "у серии нет будущих активных инстансов"
)

type Handler struct {
	useCase DenySeriesUseCase
	logger  Logger
}

func NewHandler(useCase DenySeriesUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/series/{seriesId}/deny
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	staffID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, "не авторизован")
		return
	}

	seriesID, err := strconv.ParseInt(mux.Vars(r)["seriesId"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidSeriesID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &denySeries.Request{
		StaffUserID: staffID,
		SeriesID:    seriesID,
	})
	if err != nil {
		switch {
		case errors.Is(err, denySeries.ErrSeriesNotFound):
			h.logger.Warn("POST /series/%d/deny - Series not found", seriesID)
			handlers.RespondNotFound(w, msgSeriesNotFound)

		case errors.Is(err, denySeries.ErrNothingToDeny):
			h.logger.Warn("POST /series/%d/deny - Nothing to deny", seriesID)
			handlers.RespondError(w, http.StatusConflict, msgNothingToDeny)

		case errors.Is(err, denySeries.ErrInvalidInput):
			h.logger.Warn("POST /series/%d/deny - Invalid input: %v", seriesID, err)
			handlers.RespondBadRequest(w, msgInvalidSeriesID)

		default:
			h.logger.Error("POST /series/%d/deny - Failed: staff_id=%d, error=%v", seriesID, staffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /series/%d/deny - Denied: staff_id=%d, denied=%d, skipped=%d",
		seriesID, staffID, len(result.DeniedInstanceIDs), len(result.SkippedInstanceIDs))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
