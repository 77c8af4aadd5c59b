package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bizsuite/workorder_backend/internal/core/domain"
)

func statusPtr(s domain.WorkOrderStatus) *domain.WorkOrderStatus {
	return &s
}

func TestWorkOrderStatus_IsValid(t *testing.T) {
	assert.True(t, domain.StatusTodo.IsValid())
	assert.True(t, domain.StatusPending.IsValid())
	assert.True(t, domain.StatusInProgress.IsValid())
	assert.True(t, domain.StatusCompleted.IsValid())
	assert.False(t, domain.WorkOrderStatus("DONE").IsValid())
	assert.False(t, domain.WorkOrderStatus("").IsValid())
}

func TestStatusBeforeCompletion_FromHistory(t *testing.T) {
	order := domain.WorkOrder{
		Status: domain.StatusCompleted,
		History: []domain.HistoryEntry{
			{Action: domain.ActionCreated},
			{
				Action:     domain.ActionStatusChanged,
				FromStatus: statusPtr(domain.StatusPending),
				ToStatus:   statusPtr(domain.StatusCompleted),
			},
		},
	}

	assert.Equal(t, domain.StatusPending, order.StatusBeforeCompletion())
}

func TestStatusBeforeCompletion_UsesMostRecentCompletion(t *testing.T) {
	// Completed from PENDING, reopened, completed again from TODO.
	order := domain.WorkOrder{
		Status: domain.StatusCompleted,
		History: []domain.HistoryEntry{
			{
				Action:     domain.ActionStatusChanged,
				FromStatus: statusPtr(domain.StatusPending),
				ToStatus:   statusPtr(domain.StatusCompleted),
			},
			{
				Action:     domain.ActionStatusChanged,
				FromStatus: statusPtr(domain.StatusCompleted),
				ToStatus:   statusPtr(domain.StatusPending),
			},
			{
				Action:     domain.ActionStatusChanged,
				FromStatus: statusPtr(domain.StatusTodo),
				ToStatus:   statusPtr(domain.StatusCompleted),
			},
		},
	}

	assert.Equal(t, domain.StatusTodo, order.StatusBeforeCompletion())
}

func TestStatusBeforeCompletion_DefaultsToInProgress(t *testing.T) {
	order := domain.WorkOrder{Status: domain.StatusCompleted}

	assert.Equal(t, domain.StatusInProgress, order.StatusBeforeCompletion())
}
