package update_access_method

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	updateAccessMethod "github.com/m04kA/SMC-ReservationService/internal/usecase/update_access_method"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidRequestFields = "некорректные поля запроса"
	msgInvalidResourceID    = "некорректный идентификатор помещения"
	msgResourceNotFound     = "помещение не найдено"
	msgInvalidMethod        = "неизвестный способ доступа"
	msgEffectiveDateInPast  = "дата начала действия не может быть в прошлом"
	msgDuplicateDate        = "на эту дату уже есть запись"
)

type Handler struct {
	useCase UpdateAccessMethodUseCase
	logger  Logger
}

func NewHandler(useCase UpdateAccessMethodUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/resources/{resourceId}/access-method
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	staffID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, "не авторизован")
		return
	}

	resourceID, err := strconv.ParseInt(mux.Vars(r)["resourceId"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	var req UpdateAccessMethodRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /resources/%d/access-method - Invalid request body: %v", resourceID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(staffID, resourceID)
	if err != nil {
		h.logger.Warn("POST /resources/%d/access-method - Failed to parse request: %v", resourceID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestFields)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, updateAccessMethod.ErrResourceNotFound):
			h.logger.Warn("POST /resources/%d/access-method - Resource not found", resourceID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, updateAccessMethod.ErrInvalidMethod):
			h.logger.Warn("POST /resources/%d/access-method - Invalid method %q", resourceID, req.AccessMethod)
			handlers.RespondBadRequest(w, msgInvalidMethod)

		case errors.Is(err, updateAccessMethod.ErrEffectiveDateInPast):
			h.logger.Warn("POST /resources/%d/access-method - Effective date in past", resourceID)
			handlers.RespondBadRequest(w, msgEffectiveDateInPast)

		case errors.Is(err, updateAccessMethod.ErrDuplicateDate):
			h.logger.Warn("POST /resources/%d/access-method - Duplicate date", resourceID)
			handlers.RespondError(w, http.StatusConflict, msgDuplicateDate)

		case errors.Is(err, updateAccessMethod.ErrInvalidInput):
			h.logger.Warn("POST /resources/%d/access-method - Invalid input: %v", resourceID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestFields)

		default:
			h.logger.Error("POST /resources/%d/access-method - Failed: staff_id=%d, error=%v",
				resourceID, staffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /resources/%d/access-method - Entry created: entry_id=%d, staff_id=%d",
		resourceID, result.ID, staffID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
