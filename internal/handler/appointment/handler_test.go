package appointment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitavet/vitavet-api/internal/model"
	apperrors "github.com/vitavet/vitavet-api/pkg/errors"
)

type stubScheduler struct {
	appointment *model.Appointment
	err         error
	gotReason   string
	gotReport   *string
}

func (s *stubScheduler) CreateAppointment(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	return s.appointment, s.err
}
func (s *stubScheduler) GetAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.appointment, s.err
}
func (s *stubScheduler) ListAppointments(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []*model.Appointment{s.appointment}, nil
}
func (s *stubScheduler) ConfirmAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.appointment, s.err
}
func (s *stubScheduler) RejectAppointment(ctx context.Context, id uuid.UUID, reason string) (*model.Appointment, error) {
	s.gotReason = reason
	return s.appointment, s.err
}
func (s *stubScheduler) CancelAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.appointment, s.err
}
func (s *stubScheduler) CompleteAppointment(ctx context.Context, id uuid.UUID, report *string) (*model.Appointment, error) {
	s.gotReport = report
	return s.appointment, s.err
}

func setupRouter(s *stubScheduler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	NewHandler(s).RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func sampleAppointment() *model.Appointment {
	return &model.Appointment{
		Base:      model.Base{ID: uuid.New()},
		ClinicID:  uuid.New(),
		AnimalID:  uuid.New(),
		VetUserID: uuid.New(),
		StartsAt:  time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC),
		EndsAt:    time.Date(2024, 6, 3, 10, 30, 0, 0, time.UTC),
		Status:    model.AppointmentStatusPending,
	}
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestCreateAppointmentHandler(t *testing.T) {
	stub := &stubScheduler{appointment: sampleAppointment()}
	engine := setupRouter(stub)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/appointments", map[string]interface{}{
		"clinic_id":   uuid.New().String(),
		"animal_id":   uuid.New().String(),
		"vet_user_id": uuid.New().String(),
		"starts_at":   "2024-06-03T10:00:00Z",
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Status string            `json:"status"`
		Data   model.Appointment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, model.AppointmentStatusPending, resp.Data.Status)
}

func TestCreateAppointmentHandlerMissingFields(t *testing.T) {
	engine := setupRouter(&stubScheduler{})

	w := doJSON(t, engine, http.MethodPost, "/api/v1/appointments", map[string]interface{}{
		"clinic_id": uuid.New().String(),
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateAppointmentHandlerConflict(t *testing.T) {
	stub := &stubScheduler{err: apperrors.Conflict("slot no longer available", nil)}
	engine := setupRouter(stub)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/appointments", map[string]interface{}{
		"clinic_id":   uuid.New().String(),
		"animal_id":   uuid.New().String(),
		"vet_user_id": uuid.New().String(),
		"starts_at":   "2024-06-03T10:00:00Z",
	})

	assert.Equal(t, http.StatusConflict, w.Code)

	var resp struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "slot no longer available", resp.Message)
}

func TestGetAppointmentHandlerNotFound(t *testing.T) {
	stub := &stubScheduler{err: apperrors.NotFound("appointment", nil)}
	engine := setupRouter(stub)

	w := doJSON(t, engine, http.MethodGet, "/api/v1/appointments/"+uuid.New().String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetAppointmentHandlerBadID(t *testing.T) {
	engine := setupRouter(&stubScheduler{})

	w := doJSON(t, engine, http.MethodGet, "/api/v1/appointments/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRejectAppointmentHandler(t *testing.T) {
	appointment := sampleAppointment()
	appointment.Status = model.AppointmentStatusRejected
	stub := &stubScheduler{appointment: appointment}
	engine := setupRouter(stub)

	w := doJSON(t, engine, http.MethodPost,
		fmt.Sprintf("/api/v1/appointments/%s/reject", appointment.ID),
		map[string]interface{}{"reason": "vet is on leave that week"},
	)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "vet is on leave that week", stub.gotReason)
}

func TestRejectAppointmentHandlerMissingReason(t *testing.T) {
	engine := setupRouter(&stubScheduler{})

	w := doJSON(t, engine, http.MethodPost,
		fmt.Sprintf("/api/v1/appointments/%s/reject", uuid.New()),
		map[string]interface{}{},
	)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRejectAppointmentHandlerInvalidState(t *testing.T) {
	stub := &stubScheduler{err: apperrors.InvalidState("cannot transition appointment from COMPLETED to REJECTED")}
	engine := setupRouter(stub)

	w := doJSON(t, engine, http.MethodPost,
		fmt.Sprintf("/api/v1/appointments/%s/reject", uuid.New()),
		map[string]interface{}{"reason": "changed our mind about it"},
	)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCompleteAppointmentHandlerWithReport(t *testing.T) {
	appointment := sampleAppointment()
	appointment.Status = model.AppointmentStatusCompleted
	stub := &stubScheduler{appointment: appointment}
	engine := setupRouter(stub)

	w := doJSON(t, engine, http.MethodPost,
		fmt.Sprintf("/api/v1/appointments/%s/complete", appointment.ID),
		map[string]interface{}{"report": "vaccination done"},
	)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, stub.gotReport)
	assert.Equal(t, "vaccination done", *stub.gotReport)
}

func TestCompleteAppointmentHandlerEmptyBody(t *testing.T) {
	appointment := sampleAppointment()
	appointment.Status = model.AppointmentStatusCompleted
	stub := &stubScheduler{appointment: appointment}
	engine := setupRouter(stub)

	req := httptest.NewRequest(http.MethodPost,
		fmt.Sprintf("/api/v1/appointments/%s/complete", appointment.ID), nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, stub.gotReport)
}

func TestListAppointmentsHandlerFilters(t *testing.T) {
	stub := &stubScheduler{appointment: sampleAppointment()}
	engine := setupRouter(stub)

	w := doJSON(t, engine, http.MethodGet,
		"/api/v1/appointments?status=PENDING&from=2024-06-03T00:00:00Z&to=2024-06-04T00:00:00Z", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, engine, http.MethodGet, "/api/v1/appointments?clinic_id=oops", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, engine, http.MethodGet, "/api/v1/appointments?from=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
