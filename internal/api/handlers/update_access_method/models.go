package update_access_method

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	updateAccessMethod "github.com/m04kA/SMC-ReservationService/internal/usecase/update_access_method"
)

// UpdateAccessMethodRequest HTTP request model
type UpdateAccessMethodRequest struct {
	AccessMethod  string `json:"accessMethod"`  // UNRESTRICTED | PHYSICAL_KEY | OPENED_BY_STAFF | ACCESS_CODE
	EffectiveFrom string `json:"effectiveFrom"` // "2026-04-01"
}

// AccessMethodEntryResponse HTTP response model
type AccessMethodEntryResponse struct {
	ID            int64  `json:"id"`
	ResourceID    int64  `json:"resourceId"`
	AccessMethod  string `json:"accessMethod"`
	EffectiveFrom string `json:"effectiveFrom"`
	CreatedAt     string `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateAccessMethodRequest) ToUseCaseRequest(staffID, resourceID int64) (*updateAccessMethod.Request, error) {
	effectiveFrom, err := time.Parse(domain.DateFormat, r.EffectiveFrom)
	if err != nil {
		return nil, fmt.Errorf("effectiveFrom: %w", err)
	}

	return &updateAccessMethod.Request{
		StaffUserID:   staffID,
		ResourceID:    resourceID,
		AccessMethod:  r.AccessMethod,
		EffectiveFrom: effectiveFrom,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *updateAccessMethod.Response) *AccessMethodEntryResponse {
	return &AccessMethodEntryResponse{
		ID:            resp.ID,
		ResourceID:    resp.ResourceID,
		AccessMethod:  string(resp.AccessMethod),
		EffectiveFrom: resp.EffectiveFrom.Format(domain.DateFormat),
		CreatedAt:     resp.CreatedAt.Format(time.RFC3339),
	}
}
