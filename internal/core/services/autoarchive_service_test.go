package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/bizsuite/workorder_backend/internal/core/domain"
	portssvc "github.com/bizsuite/workorder_backend/internal/core/ports/services"
	"github.com/bizsuite/workorder_backend/internal/core/services"
	"github.com/bizsuite/workorder_backend/internal/repositories/memory"
)

type AutoArchiveServiceTestSuite struct {
	suite.Suite
	repo         *memory.WorkOrderRepository
	mockArchive  *MockArchiveSink
	mockActivity *MockActivityLog
	autoArchive  portssvc.AutoArchiveSvcFacade
}

func (suite *AutoArchiveServiceTestSuite) SetupTest() {
	suite.repo = memory.NewWorkOrderRepository()
	suite.mockArchive = new(MockArchiveSink)
	suite.mockActivity = new(MockActivityLog)

	workOrderSvc := services.NewWorkOrderService(
		suite.repo,
		new(MockInventoryService),
		new(MockInvoicingService),
		suite.mockArchive,
		suite.mockActivity,
	)
	suite.autoArchive = services.NewAutoArchiveService(suite.repo, workOrderSvc, services.DefaultArchiveThreshold)

	suite.mockActivity.On("LogActivity", mock.Anything, mock.Anything).Return(nil).Maybe()
	suite.mockActivity.On("ListActivities", mock.Anything, "work_order", mock.Anything).Return([]domain.ActivityEvent{}, nil).Maybe()
}

// seedOrder stores an order directly, bypassing the service, so tests control
// completedDate precisely.
func (suite *AutoArchiveServiceTestSuite) seedOrder(id string, status domain.WorkOrderStatus, completedAgo time.Duration, invoiceID *string, archived bool) {
	now := time.Now().UTC()
	order := domain.WorkOrder{
		WorkOrderID:     id,
		GeneralNumber:   1,
		WorkOrderNumber: 1,
		Title:           "Seeded " + id,
		Status:          status,
		InvoiceID:       invoiceID,
		IsArchived:      archived,
		AuditFields: domain.AuditFields{
			CreatedAt:     now.Add(-completedAgo - time.Hour),
			CreatedBy:     "emp-1",
			LastUpdatedAt: now,
			LastUpdatedBy: "emp-1",
		},
	}
	if status == domain.StatusCompleted {
		completed := now.Add(-completedAgo)
		order.CompletedDate = &completed
	}
	suite.Require().NoError(suite.repo.SaveWorkOrder(context.Background(), order))
}

func (suite *AutoArchiveServiceTestSuite) TestRunAutoArchive_PartitionsStaleOrders() {
	invoiceID := "inv-1"
	suite.seedOrder("wo-invoiced", domain.StatusCompleted, 49*time.Hour, &invoiceID, false)
	suite.seedOrder("wo-uninvoiced", domain.StatusCompleted, 49*time.Hour, nil, false)
	suite.seedOrder("wo-fresh", domain.StatusCompleted, time.Hour, &invoiceID, false)
	suite.seedOrder("wo-open", domain.StatusInProgress, 0, nil, false)
	suite.seedOrder("wo-already", domain.StatusCompleted, 100*time.Hour, &invoiceID, true)

	suite.mockArchive.On("ArchiveDocument", mock.Anything, mock.Anything).Return(nil).Once()

	result, err := suite.autoArchive.RunAutoArchive(context.Background())

	suite.Require().NoError(err)
	suite.Equal([]string{"wo-invoiced"}, result.AutoArchived)
	suite.Equal([]string{"wo-uninvoiced"}, result.NeedsInvoice)
	suite.Require().Len(result.Notifications, 2)

	// The archived order is attributed to the system actor.
	stored, err := suite.repo.FindWorkOrderByID(context.Background(), "wo-invoiced")
	suite.Require().NoError(err)
	suite.True(stored.IsArchived)
	suite.Equal(domain.SystemActor.ID, stored.ArchivedBy)

	suite.mockArchive.AssertExpectations(suite.T())
}

func (suite *AutoArchiveServiceTestSuite) TestRunAutoArchive_NotificationTypes() {
	invoiceID := "inv-2"
	suite.seedOrder("wo-a", domain.StatusCompleted, 72*time.Hour, &invoiceID, false)
	suite.seedOrder("wo-b", domain.StatusCompleted, 72*time.Hour, nil, false)

	suite.mockArchive.On("ArchiveDocument", mock.Anything, mock.Anything).Return(nil).Once()

	result, err := suite.autoArchive.RunAutoArchive(context.Background())

	suite.Require().NoError(err)
	suite.Require().Len(result.Notifications, 2)
	types := map[string]bool{}
	for _, n := range result.Notifications {
		types[string(n.Type)] = true
		suite.NotEmpty(n.Link)
	}
	suite.True(types["success"])
	suite.True(types["warning"])
}

func (suite *AutoArchiveServiceTestSuite) TestRunAutoArchive_EmptyStore() {
	result, err := suite.autoArchive.RunAutoArchive(context.Background())

	suite.Require().NoError(err)
	suite.Empty(result.AutoArchived)
	suite.Empty(result.NeedsInvoice)
	suite.Empty(result.Notifications)
	suite.WithinDuration(time.Now(), result.RanAt, time.Second)
}

func (suite *AutoArchiveServiceTestSuite) TestRunAutoArchive_Idempotent() {
	invoiceID := "inv-3"
	suite.seedOrder("wo-once", domain.StatusCompleted, 60*time.Hour, &invoiceID, false)

	suite.mockArchive.On("ArchiveDocument", mock.Anything, mock.Anything).Return(nil).Once()

	first, err := suite.autoArchive.RunAutoArchive(context.Background())
	suite.Require().NoError(err)
	suite.Len(first.AutoArchived, 1)

	second, err := suite.autoArchive.RunAutoArchive(context.Background())
	suite.Require().NoError(err)
	suite.Empty(second.AutoArchived)
	suite.Empty(second.NeedsInvoice)

	suite.mockArchive.AssertExpectations(suite.T())
}

func TestAutoArchiveServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AutoArchiveServiceTestSuite))
}
