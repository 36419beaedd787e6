package get_series

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	getSeries "github.com/m04kA/SMC-ReservationService/internal/usecase/get_series"
)

const (
	msgInvalidSeriesID = "некорректный идентификатор серии"
	msgSeriesNotFound  = "серия не найдена"
)

type Handler struct {
	useCase GetSeriesUseCase
	logger  Logger
}

func NewHandler(useCase GetSeriesUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/series/{seriesId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	seriesID, err := strconv.ParseInt(mux.Vars(r)["seriesId"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidSeriesID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getSeries.Request{SeriesID: seriesID})
	if err != nil {
		switch {
		case errors.Is(err, getSeries.ErrSeriesNotFound):
			h.logger.Warn("GET /series/%d - Series not found", seriesID)
			handlers.RespondNotFound(w, msgSeriesNotFound)

		case errors.Is(err, getSeries.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidSeriesID)

		default:
			h.logger.Error("GET /series/%d - Failed: %v", seriesID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
