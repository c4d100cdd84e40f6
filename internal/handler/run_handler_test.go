package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"clearpoint/internal/domain"
	"clearpoint/internal/handler"
	"clearpoint/internal/middleware"
	"clearpoint/internal/service"
	"clearpoint/mocks"
)

func getWithAuth(t *testing.T, h gin.HandlerFunc, path string, userID uuid.UUID, role domain.UserRole) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, path, nil)
	c.Set(middleware.ContextKeyUserID, userID)
	c.Set(middleware.ContextKeyRole, string(role))
	h(c)
	return w
}

func TestRunHandler_List_Success(t *testing.T) {
	mockRuns := new(mocks.MockRunService)
	h := handler.NewRunHandler(mockRuns, nil)

	userID := uuid.New()
	runs := []domain.Run{
		{ID: uuid.New(), OwnerUserID: userID, RowsIn: 10, RowsOut: 8, CreatedAt: time.Now()},
	}
	mockRuns.On("List", mock.Anything, userID, domain.RoleClient, 0, 20).Return(runs, 1, nil)

	w := getWithAuth(t, h.List, "/api/v1/runs", userID, domain.RoleClient)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 1, resp.Meta.Total)
	mockRuns.AssertExpectations(t)
}

func TestRunHandler_List_PassesPagination(t *testing.T) {
	mockRuns := new(mocks.MockRunService)
	h := handler.NewRunHandler(mockRuns, nil)

	userID := uuid.New()
	mockRuns.On("List", mock.Anything, userID, domain.RoleEmployee, 40, 10).Return([]domain.Run{}, 0, nil)

	w := getWithAuth(t, h.List, "/api/v1/runs?offset=40&limit=10", userID, domain.RoleEmployee)

	assert.Equal(t, http.StatusOK, w.Code)
	mockRuns.AssertExpectations(t)
}

func TestRunHandler_Deliver_Success(t *testing.T) {
	mockDelivery := new(mocks.MockDeliveryService)
	h := handler.NewRunHandler(nil, mockDelivery)

	result := &service.DeliveryResult{Email: &service.ChannelOutcome{OK: true}}
	mockDelivery.On("Deliver", mock.Anything, mock.AnythingOfType("service.DeliverInput")).Return(result, nil)

	fields := map[string]string{
		"recipient": "casey@acme.com",
		"summary":   `{"rows_in":2,"rows_out":1,"duplicates_removed":1}`,
	}
	csvData := []byte("email\nalice@example.com\n")
	w := postMultipart(t, h.Deliver, "/api/v1/runs/deliver", fields, "cleaned.csv", csvData, uuid.New(), domain.RoleClient)

	assert.Equal(t, http.StatusOK, w.Code)

	input := mockDelivery.Calls[0].Arguments.Get(1).(service.DeliverInput)
	assert.Equal(t, "casey@acme.com", input.Recipient)
	assert.False(t, input.ExportSheet)
	assert.Equal(t, []string{"email"}, input.Columns)
	assert.Equal(t, 2, input.Summary.RowsIn)
	mockDelivery.AssertExpectations(t)
}

func TestRunHandler_Deliver_SheetFlag(t *testing.T) {
	mockDelivery := new(mocks.MockDeliveryService)
	h := handler.NewRunHandler(nil, mockDelivery)

	result := &service.DeliveryResult{Sheet: &service.SheetOutcome{OK: true, URL: "https://example.com"}}
	mockDelivery.On("Deliver", mock.Anything, mock.AnythingOfType("service.DeliverInput")).Return(result, nil)

	fields := map[string]string{"export_sheet": "1"}
	w := postMultipart(t, h.Deliver, "/api/v1/runs/deliver", fields, "cleaned.csv", []byte("email\n"), uuid.New(), domain.RoleClient)

	assert.Equal(t, http.StatusOK, w.Code)

	input := mockDelivery.Calls[0].Arguments.Get(1).(service.DeliverInput)
	assert.True(t, input.ExportSheet)
}

func TestRunHandler_Deliver_NoChannelSelected(t *testing.T) {
	h := handler.NewRunHandler(nil, new(mocks.MockDeliveryService))

	w := postMultipart(t, h.Deliver, "/api/v1/runs/deliver", nil, "cleaned.csv", []byte("email\n"), uuid.New(), domain.RoleClient)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRunHandler_Deliver_MalformedCSV(t *testing.T) {
	h := handler.NewRunHandler(nil, new(mocks.MockDeliveryService))

	fields := map[string]string{"recipient": "casey@acme.com"}
	w := postMultipart(t, h.Deliver, "/api/v1/runs/deliver", fields, "cleaned.csv", []byte("a,\"b\nbad"), uuid.New(), domain.RoleClient)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
