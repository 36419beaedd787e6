package create_series

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	createSeries "github.com/m04kA/SMC-ReservationService/internal/usecase/create_series"
)

type fakeUseCase struct {
	resp *createSeries.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, _ *createSeries.Request) (*createSeries.Response, error) {
	return f.resp, f.err
}

type fakeMetrics struct {
	created  []string
	rejected map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{rejected: make(map[string]int)}
}

func (f *fakeMetrics) IncSeriesCreated(result string) {
	f.created = append(f.created, result)
}

func (f *fakeMetrics) AddSlotsRejected(reason string, count int) {
	f.rejected[reason] += count
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

const requestBody = `{
	"resourceId": 1,
	"name": "Тренировки по футболу",
	"weekdays": ["MONDAY"],
	"beginDate": "2026-09-07",
	"endDate": "2026-09-21",
	"beginTime": "10:00",
	"endTime": "12:00",
	"recurrenceIntervalDays": 7,
	"reservee": {
		"type": "INDIVIDUAL",
		"firstName": "Анна",
		"lastName": "Корхонен",
		"email": "anna@example.com"
	}
}`

func seriesResponse(rejected []*createSeries.RejectedInfo) *createSeries.Response {
	begin := time.Date(2026, time.September, 7, 10, 0, 0, 0, time.UTC)
	return &createSeries.Response{
		Series: &createSeries.SeriesInfo{
			ID:                     42,
			ResourceID:             1,
			UserID:                 7,
			Name:                   "Тренировки по футболу",
			RecurrenceIntervalDays: 7,
			Weekdays:               []domain.Weekday{domain.Monday},
			BeginDate:              begin,
			EndDate:                begin.AddDate(0, 0, 14),
			BeginTime:              "10:00",
			EndTime:                "12:00",
			CreatedAt:              begin,
		},
		Instances: []*createSeries.InstanceInfo{
			{ID: 100, BeginsAt: begin, EndsAt: begin.Add(2 * time.Hour), AccessMethod: domain.AccessUnrestricted, State: domain.StateConfirmed},
		},
		Rejected: rejected,
	}
}

func rejectedSlot(reason domain.RejectionReason) *createSeries.RejectedInfo {
	begin := time.Date(2026, time.September, 14, 10, 0, 0, 0, time.UTC)
	return &createSeries.RejectedInfo{BeginsAt: begin, EndsAt: begin.Add(2 * time.Hour), Reason: reason}
}

func serve(t *testing.T, uc *fakeUseCase, m *fakeMetrics) *httptest.ResponseRecorder {
	t.Helper()

	h := NewHandler(uc, m, nopLogger{})
	wrapped := middleware.Auth(http.HandlerFunc(h.Handle))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/series", strings.NewReader(requestBody))
	req.Header.Set(middleware.HeaderUserID, "7")

	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)
	return rec
}

func TestHandle_Created(t *testing.T) {
	metrics := newFakeMetrics()
	uc := &fakeUseCase{resp: seriesResponse(nil)}

	rec := serve(t, uc, metrics)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, []string{"created"}, metrics.created)
	assert.Empty(t, metrics.rejected)
}

func TestHandle_PartialResultCountsRejections(t *testing.T) {
	metrics := newFakeMetrics()
	uc := &fakeUseCase{resp: seriesResponse([]*createSeries.RejectedInfo{
		rejectedSlot(domain.ReasonOverlapping),
		rejectedSlot(domain.ReasonOverlapping),
		rejectedSlot(domain.ReasonUnitClosed),
	})}

	rec := serve(t, uc, metrics)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, []string{"partial"}, metrics.created)
	assert.Equal(t, 2, metrics.rejected[string(domain.ReasonOverlapping)])
	assert.Equal(t, 1, metrics.rejected[string(domain.ReasonUnitClosed)])
}

func TestHandle_AllSlotsRejected(t *testing.T) {
	metrics := newFakeMetrics()
	resp := seriesResponse([]*createSeries.RejectedInfo{rejectedSlot(domain.ReasonOverlapping)})
	resp.Series = nil
	resp.Instances = nil
	uc := &fakeUseCase{resp: resp, err: createSeries.ErrAllSlotsRejected}

	rec := serve(t, uc, metrics)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), string(domain.ReasonOverlapping))
	assert.Equal(t, []string{"rejected"}, metrics.created)
	assert.Equal(t, 1, metrics.rejected[string(domain.ReasonOverlapping)])
}

func TestHandle_NilMetricsTolerated(t *testing.T) {
	uc := &fakeUseCase{resp: seriesResponse(nil)}
	h := NewHandler(uc, nil, nopLogger{})
	wrapped := middleware.Auth(http.HandlerFunc(h.Handle))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/series", strings.NewReader(requestBody))
	req.Header.Set(middleware.HeaderUserID, "7")

	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
}
