package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bizsuite/workorder_backend/internal/apperrors"
	"github.com/bizsuite/workorder_backend/internal/core/domain"
	"github.com/bizsuite/workorder_backend/internal/repositories/memory"
)

func TestAllocateWorkOrderNumbers_Monotonic(t *testing.T) {
	repo := memory.NewWorkOrderRepository()
	ctx := context.Background()

	g1, n1, err := repo.AllocateWorkOrderNumbers(ctx)
	require.NoError(t, err)
	g2, n2, err := repo.AllocateWorkOrderNumbers(ctx)
	require.NoError(t, err)

	require.Equal(t, g1+1, g2)
	require.Equal(t, n1+1, n2)
}

func TestFindWorkOrderByID_NotFound(t *testing.T) {
	repo := memory.NewWorkOrderRepository()

	_, err := repo.FindWorkOrderByID(context.Background(), "missing")

	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSaveAndFind_ReturnsIsolatedCopy(t *testing.T) {
	repo := memory.NewWorkOrderRepository()
	ctx := context.Background()

	order := domain.WorkOrder{
		WorkOrderID: "wo-1",
		Title:       "Original",
		Status:      domain.StatusTodo,
		History:     []domain.HistoryEntry{{HistoryID: "h-1", Action: domain.ActionCreated}},
	}
	require.NoError(t, repo.SaveWorkOrder(ctx, order))

	found, err := repo.FindWorkOrderByID(ctx, "wo-1")
	require.NoError(t, err)

	// Mutating the returned aggregate must not leak into the store.
	found.Title = "Tampered"
	found.History = append(found.History, domain.HistoryEntry{HistoryID: "h-2"})

	again, err := repo.FindWorkOrderByID(ctx, "wo-1")
	require.NoError(t, err)
	require.Equal(t, "Original", again.Title)
	require.Len(t, again.History, 1)
}

func TestUpdateWorkOrder_NotFound(t *testing.T) {
	repo := memory.NewWorkOrderRepository()

	err := repo.UpdateWorkOrder(context.Background(), domain.WorkOrder{WorkOrderID: "missing"}, nil, nil)

	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDeleteWorkOrder(t *testing.T) {
	repo := memory.NewWorkOrderRepository()
	ctx := context.Background()

	require.NoError(t, repo.SaveWorkOrder(ctx, domain.WorkOrder{WorkOrderID: "wo-1"}))
	require.NoError(t, repo.DeleteWorkOrder(ctx, "wo-1"))

	_, err := repo.FindWorkOrderByID(ctx, "wo-1")
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	require.ErrorIs(t, repo.DeleteWorkOrder(ctx, "wo-1"), apperrors.ErrNotFound)
}
