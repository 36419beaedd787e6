package accesscode

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент сервиса кодов доступа (access-code issuer)
//
// Все вызовы best-effort: недоступность сервиса возвращается как
// ErrServiceDegraded, вызывающий код логирует её и продолжает -
// выдача кодов будет довыполнена фоновой сверкой
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента сервиса кодов доступа
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GrantSeriesAccess запрашивает код доступа для инстансов серии
func (c *Client) GrantSeriesAccess(ctx context.Context, seriesID int64, resourceUUID uuid.UUID, instances []*domain.ReservationInstance) (*Grant, error) {
	slots := make([]slot, 0, len(instances))
	for _, inst := range instances {
		if !inst.IsActive() {
			continue
		}
		slots = append(slots, slot{BeginsAt: inst.BeginsAt, EndsAt: inst.EndsAt})
	}

	payload, err := json.Marshal(grantRequest{
		SeriesID:     seriesID,
		ResourceUUID: resourceUUID.String(),
		Slots:        slots,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	url := fmt.Sprintf("%s/v1/grants", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: series_id=%d, error=%v", ErrServiceDegraded, seriesID, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		// Продолжаем обработку
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: series_id=%d, status=%d: %s", ErrServiceDegraded, seriesID, resp.StatusCode, string(body))
	}

	var grant Grant
	if err := json.NewDecoder(resp.Body).Decode(&grant); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	c.log.Info("AccessCode: granted series_id=%d grant_id=%s", seriesID, grant.ID)

	return &grant, nil
}

// RevokeSeriesAccess отзывает код доступа серии (при deny/отмене)
func (c *Client) RevokeSeriesAccess(ctx context.Context, seriesID int64) error {
	url := fmt.Sprintf("%s/v1/grants/series/%d", c.baseURL, seriesID)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: series_id=%d, error=%v", ErrServiceDegraded, seriesID, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		c.log.Info("AccessCode: revoked series_id=%d", seriesID)
		return nil
	case http.StatusNotFound:
		return ErrGrantNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: series_id=%d, status=%d: %s", ErrServiceDegraded, seriesID, resp.StatusCode, string(body))
	}
}
