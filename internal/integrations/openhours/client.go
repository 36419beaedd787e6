package openhours

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Cache интерфейс кэша ответов сервиса часов работы
// Кэш внедряется явно (вместе с TTL) и инвалидируется явно -
// никакого процессного глобального состояния
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration)
	Invalidate(key string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент сервиса часов работы (open-hours oracle)
// Запросы идемпотентны и не имеют побочных эффектов с точки зрения
// вызывающего кода; кэширование - внутреннее дело клиента
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      Cache
	cacheTTL   time.Duration
	location   *time.Location
	log        Logger
}

// NewClient создает новый экземпляр клиента сервиса часов работы
func NewClient(baseURL string, timeout time.Duration, cache Cache, cacheTTL time.Duration, location *time.Location, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		cache:    cache,
		cacheTTL: cacheTTL,
		location: location,
		log:      log,
	}
}

// GetReservableWindows возвращает резервируемые (открытые) окна ресурса
// в диапазоне дат [from, to]. Может быть пусто
func (c *Client) GetReservableWindows(ctx context.Context, resourceUUID uuid.UUID, from, to time.Time) ([]domain.TimeInterval, error) {
	schedule, err := c.fetchSchedule(ctx, resourceUUID, from, to)
	if err != nil {
		return nil, err
	}

	windows := make([]domain.TimeInterval, 0)
	for _, day := range schedule.OpeningHours {
		for _, span := range day.Times {
			if span.ResourceState != stateOpen {
				continue
			}
			interval, err := c.spanToInterval(day.Date, span)
			if err != nil {
				return nil, err
			}
			interval.IsReservable = true
			windows = append(windows, interval)
		}
	}

	return windows, nil
}

// GetOverrideClosures возвращает явно закрытые периоды ресурса в диапазоне
// [from, to]. Учитываются только авторитетные записи (override=true):
// информационные записи о закрытии игнорируются
func (c *Client) GetOverrideClosures(ctx context.Context, resourceUUID uuid.UUID, from, to time.Time) ([]domain.TimeInterval, error) {
	schedule, err := c.fetchSchedule(ctx, resourceUUID, from, to)
	if err != nil {
		return nil, err
	}

	closures := make([]domain.TimeInterval, 0)
	for _, day := range schedule.OpeningHours {
		for _, span := range day.Times {
			if span.ResourceState != stateClosed || !span.Override {
				continue
			}
			interval, err := c.spanToInterval(day.Date, span)
			if err != nil {
				return nil, err
			}
			closures = append(closures, interval)
		}
	}

	return closures, nil
}

// InvalidateResource сбрасывает кэш ресурса (например, после изменения
// расписания в административном интерфейсе сервиса часов работы)
func (c *Client) InvalidateResource(resourceUUID uuid.UUID, from, to time.Time) {
	c.cache.Invalidate(c.cacheKey(resourceUUID, from, to))
}

func (c *Client) fetchSchedule(ctx context.Context, resourceUUID uuid.UUID, from, to time.Time) (*scheduleResponse, error) {
	key := c.cacheKey(resourceUUID, from, to)

	if cached, ok := c.cache.Get(key); ok {
		var schedule scheduleResponse
		if err := json.Unmarshal(cached, &schedule); err == nil {
			return &schedule, nil
		}
		// Битую запись выбрасываем и идем в сервис
		c.cache.Invalidate(key)
	}

	url := fmt.Sprintf("%s/v1/resource/%s/opening_hours?start_date=%s&end_date=%s",
		c.baseURL, resourceUUID, from.Format(domain.DateFormat), to.Format(domain.DateFormat))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return nil, ErrResourceNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrInvalidResponse, err)
	}

	var schedule scheduleResponse
	if err := json.Unmarshal(body, &schedule); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	c.cache.Set(key, body, c.cacheTTL)

	return &schedule, nil
}

// spanToInterval строит интервал периода на его дате в таймзоне объектов
// Период без времени (start/end == nil) покрывает весь день
func (c *Client) spanToInterval(date string, span timeSpan) (domain.TimeInterval, error) {
	day, err := time.ParseInLocation(domain.DateFormat, date, c.location)
	if err != nil {
		return domain.TimeInterval{}, fmt.Errorf("%w: bad date %q: %v", ErrInvalidResponse, date, err)
	}

	start := day
	end := day.AddDate(0, 0, 1)

	if span.StartTime != nil {
		start, err = c.timeOnDay(day, *span.StartTime)
		if err != nil {
			return domain.TimeInterval{}, err
		}
	}
	if span.EndTime != nil {
		end, err = c.timeOnDay(day, *span.EndTime)
		if err != nil {
			return domain.TimeInterval{}, err
		}
	}

	interval, err := domain.NewTimeInterval(start, end)
	if err != nil {
		return domain.TimeInterval{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	return interval, nil
}

func (c *Client) timeOnDay(day time.Time, clock string) (time.Time, error) {
	parsed, err := time.Parse("15:04:05", clock)
	if err != nil {
		// Часть инсталляций отдает время без секунд
		parsed, err = time.Parse("15:04", clock)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: bad time %q: %v", ErrInvalidResponse, clock, err)
		}
	}
	return time.Date(day.Year(), day.Month(), day.Day(), parsed.Hour(), parsed.Minute(), 0, 0, c.location), nil
}

func (c *Client) cacheKey(resourceUUID uuid.UUID, from, to time.Time) string {
	return fmt.Sprintf("openhours:%s:%s:%s",
		resourceUUID, from.Format(domain.DateFormat), to.Format(domain.DateFormat))
}
