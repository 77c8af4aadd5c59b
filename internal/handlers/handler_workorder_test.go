package handlers_test

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
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/bizsuite/workorder_backend/internal/apperrors"
	"github.com/bizsuite/workorder_backend/internal/core/domain"
	portssvc "github.com/bizsuite/workorder_backend/internal/core/ports/services"
	"github.com/bizsuite/workorder_backend/internal/dto"
	"github.com/bizsuite/workorder_backend/internal/handlers"
	"github.com/bizsuite/workorder_backend/internal/middleware"
)

// --- Mock WorkOrderService ---
type MockWorkOrderService struct {
	mock.Mock
}

func (m *MockWorkOrderService) GetWorkOrder(ctx context.Context, workOrderID string) (*domain.WorkOrder, error) {
	args := m.Called(ctx, workOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkOrder), args.Error(1)
}

func (m *MockWorkOrderService) ListWorkOrders(ctx context.Context) ([]domain.WorkOrder, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WorkOrder), args.Error(1)
}

func (m *MockWorkOrderService) CreateWorkOrder(ctx context.Context, req dto.CreateWorkOrderRequest, actor domain.Actor) (*domain.WorkOrder, error) {
	args := m.Called(ctx, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkOrder), args.Error(1)
}

func (m *MockWorkOrderService) UpdateWorkOrder(ctx context.Context, workOrderID string, req dto.UpdateWorkOrderRequest, actor domain.Actor) (*domain.WorkOrder, error) {
	args := m.Called(ctx, workOrderID, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkOrder), args.Error(1)
}

func (m *MockWorkOrderService) ReopenWorkOrder(ctx context.Context, workOrderID string, reason string, actor domain.Actor) (*domain.WorkOrder, error) {
	args := m.Called(ctx, workOrderID, reason, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkOrder), args.Error(1)
}

func (m *MockWorkOrderService) ArchiveWorkOrder(ctx context.Context, workOrderID string, reason string, actor domain.Actor) (*domain.WorkOrder, error) {
	args := m.Called(ctx, workOrderID, reason, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkOrder), args.Error(1)
}

func (m *MockWorkOrderService) DeleteWorkOrder(ctx context.Context, workOrderID string, actor domain.Actor) error {
	args := m.Called(ctx, workOrderID, actor)
	return args.Error(0)
}

// Ensure mock implements the interface
var _ portssvc.WorkOrderSvcFacade = (*MockWorkOrderService)(nil)

// --- Test Suite Setup ---

type WorkOrderHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	jwtSecret   string
	mockService *MockWorkOrderService
}

func (suite *WorkOrderHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockService = new(MockWorkOrderService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterWorkOrderRoutes(v1, suite.mockService)
}

// generateTestToken creates a dummy JWT for testing.
func (suite *WorkOrderHandlerTestSuite) generateTestToken(actorID string) string {
	claims := jwt.MapClaims{
		"iss":   "workorder-test",
		"sub":   actorID,
		"name":  "Test User",
		"email": "test@example.com",
		"exp":   jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		"iat":   jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *WorkOrderHandlerTestSuite) doRequest(method, url string, body any, actorID string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	if actorID != "" {
		req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(actorID))
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *WorkOrderHandlerTestSuite) TestCreateWorkOrder_Success() {
	actorID := uuid.NewString()
	expected := &domain.WorkOrder{
		WorkOrderID:     uuid.NewString(),
		WorkOrderNumber: 12,
		GeneralNumber:   34,
		Title:           "Fix boiler",
		Status:          domain.StatusTodo,
	}

	suite.mockService.On("CreateWorkOrder",
		mock.Anything,
		mock.MatchedBy(func(r dto.CreateWorkOrderRequest) bool { return r.Title == "Fix boiler" }),
		mock.MatchedBy(func(a domain.Actor) bool { return a.ID == actorID && a.Name == "Test User" }),
	).Return(expected, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/work-orders",
		dto.CreateWorkOrderRequest{Title: "Fix boiler"}, actorID)

	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.WorkOrderResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(expected.WorkOrderID, resp.WorkOrderID)
	suite.Equal(expected.Title, resp.Title)

	suite.mockService.AssertExpectations(suite.T())
}

func (suite *WorkOrderHandlerTestSuite) TestCreateWorkOrder_MissingTitle() {
	w := suite.doRequest(http.MethodPost, "/api/v1/work-orders",
		map[string]string{"description": "no title"}, uuid.NewString())

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "CreateWorkOrder", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *WorkOrderHandlerTestSuite) TestCreateWorkOrder_Unauthorized() {
	w := suite.doRequest(http.MethodPost, "/api/v1/work-orders",
		dto.CreateWorkOrderRequest{Title: "No token"}, "")

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *WorkOrderHandlerTestSuite) TestGetWorkOrder_NotFound() {
	workOrderID := uuid.NewString()
	suite.mockService.On("GetWorkOrder", mock.Anything, workOrderID).
		Return(nil, fmt.Errorf("failed to find work order %s: %w", workOrderID, apperrors.ErrNotFound)).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/work-orders/"+workOrderID, nil, uuid.NewString())

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *WorkOrderHandlerTestSuite) TestUpdateWorkOrder_ArchivedConflict() {
	workOrderID := uuid.NewString()
	suite.mockService.On("UpdateWorkOrder", mock.Anything, workOrderID, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: work order %s is archived", apperrors.ErrInvalidState, workOrderID)).Once()

	w := suite.doRequest(http.MethodPut, "/api/v1/work-orders/"+workOrderID,
		dto.UpdateWorkOrderRequest{}, uuid.NewString())

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *WorkOrderHandlerTestSuite) TestArchiveWorkOrder_PreconditionFailed() {
	workOrderID := uuid.NewString()
	suite.mockService.On("ArchiveWorkOrder", mock.Anything, workOrderID, "", mock.Anything).
		Return(nil, fmt.Errorf("%w: archiving requires a linked invoice or an archive reason", apperrors.ErrPrecondition)).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/work-orders/"+workOrderID+"/archive",
		dto.ArchiveWorkOrderRequest{}, uuid.NewString())

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *WorkOrderHandlerTestSuite) TestReopenWorkOrder_RequiresReason() {
	workOrderID := uuid.NewString()

	w := suite.doRequest(http.MethodPost, "/api/v1/work-orders/"+workOrderID+"/reopen",
		map[string]string{}, uuid.NewString())

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "ReopenWorkOrder", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *WorkOrderHandlerTestSuite) TestDeleteWorkOrder_Success() {
	workOrderID := uuid.NewString()
	suite.mockService.On("DeleteWorkOrder", mock.Anything, workOrderID, mock.Anything).Return(nil).Once()

	w := suite.doRequest(http.MethodDelete, "/api/v1/work-orders/"+workOrderID, nil, uuid.NewString())

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockService.AssertExpectations(suite.T())
}

func TestWorkOrderHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(WorkOrderHandlerTestSuite))
}
