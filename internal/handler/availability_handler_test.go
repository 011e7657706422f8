package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visitly/availability-api/internal/models"
	"github.com/visitly/availability-api/internal/service"
	appErrors "github.com/visitly/availability-api/pkg/errors"
)

type availabilityServiceMock struct {
	grid       *models.WeeklyGrid
	getErr     error
	saveErr    error
	clearErr   error
	exportErr  error
	lastHostID string
	lastSave   service.SaveWeeklyRequest
	saveCalled bool
}

func (m *availabilityServiceMock) GetWeekly(ctx context.Context, hostID string) (*models.WeeklyGrid, error) {
	m.lastHostID = hostID
	return m.grid, m.getErr
}

func (m *availabilityServiceMock) SaveWeekly(ctx context.Context, hostID string, req service.SaveWeeklyRequest) (*models.WeeklyGrid, error) {
	m.saveCalled = true
	m.lastHostID = hostID
	m.lastSave = req
	return m.grid, m.saveErr
}

func (m *availabilityServiceMock) ClearWeekly(ctx context.Context, hostID string) error {
	m.lastHostID = hostID
	return m.clearErr
}

func (m *availabilityServiceMock) ExportWeekly(ctx context.Context, hostID, format string) ([]byte, string, error) {
	m.lastHostID = hostID
	if m.exportErr != nil {
		return nil, "", m.exportErr
	}
	return []byte("Day,Start,End\n"), "text/csv", nil
}

func testContext(t *testing.T, method, target string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, target, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestAvailabilityHandlerGetWeekly(t *testing.T) {
	mockSvc := &availabilityServiceMock{grid: &models.WeeklyGrid{HostID: "host-1"}}
	handler := NewAvailabilityHandler(mockSvc)

	c, w := testContext(t, http.MethodGet, "/hosts/host-1/availability", nil)
	c.Params = gin.Params{{Key: "id", Value: "host-1"}}

	handler.GetWeekly(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "host-1", mockSvc.lastHostID)

	var envelope struct {
		Data models.WeeklyGrid `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "host-1", envelope.Data.HostID)
}

func TestAvailabilityHandlerGetWeeklyNotFound(t *testing.T) {
	mockSvc := &availabilityServiceMock{getErr: appErrors.Clone(appErrors.ErrNotFound, "host not found")}
	handler := NewAvailabilityHandler(mockSvc)

	c, w := testContext(t, http.MethodGet, "/hosts/nope/availability", nil)
	c.Params = gin.Params{{Key: "id", Value: "nope"}}

	handler.GetWeekly(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAvailabilityHandlerSaveWeekly(t *testing.T) {
	mockSvc := &availabilityServiceMock{grid: &models.WeeklyGrid{HostID: "host-1"}}
	handler := NewAvailabilityHandler(mockSvc)

	payload, _ := json.Marshal(service.SaveWeeklyRequest{
		Slots: []service.SlotInput{{Day: "MONDAY", Time: "08:00"}},
	})
	c, w := testContext(t, http.MethodPut, "/hosts/host-1/availability", payload)
	c.Params = gin.Params{{Key: "id", Value: "host-1"}}

	handler.SaveWeekly(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mockSvc.saveCalled)
	require.Len(t, mockSvc.lastSave.Slots, 1)
	assert.Equal(t, "MONDAY", mockSvc.lastSave.Slots[0].Day)
}

func TestAvailabilityHandlerSaveWeeklyInvalidBody(t *testing.T) {
	handler := NewAvailabilityHandler(&availabilityServiceMock{})

	c, w := testContext(t, http.MethodPut, "/hosts/host-1/availability", []byte(`{"slots":`))
	c.Params = gin.Params{{Key: "id", Value: "host-1"}}

	handler.SaveWeekly(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAvailabilityHandlerSaveWeeklyOffGridSlot(t *testing.T) {
	mockSvc := &availabilityServiceMock{saveErr: appErrors.Clone(appErrors.ErrSlotOffGrid, "slot MONDAY 08:15 is not on the grid")}
	handler := NewAvailabilityHandler(mockSvc)

	payload, _ := json.Marshal(service.SaveWeeklyRequest{
		Slots: []service.SlotInput{{Day: "MONDAY", Time: "08:15"}},
	})
	c, w := testContext(t, http.MethodPut, "/hosts/host-1/availability", payload)
	c.Params = gin.Params{{Key: "id", Value: "host-1"}}

	handler.SaveWeekly(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAvailabilityHandlerClearWeekly(t *testing.T) {
	mockSvc := &availabilityServiceMock{}
	handler := NewAvailabilityHandler(mockSvc)

	c, w := testContext(t, http.MethodDelete, "/hosts/host-1/availability", nil)
	c.Params = gin.Params{{Key: "id", Value: "host-1"}}

	handler.ClearWeekly(c)
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "host-1", mockSvc.lastHostID)
}

func TestAvailabilityHandlerExportDefaultsToCSV(t *testing.T) {
	mockSvc := &availabilityServiceMock{}
	handler := NewAvailabilityHandler(mockSvc)

	c, w := testContext(t, http.MethodGet, "/hosts/host-1/availability/export", nil)
	c.Params = gin.Params{{Key: "id", Value: "host-1"}}

	handler.Export(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "availability-host-1.csv")
}
