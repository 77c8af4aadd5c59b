package utils_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bizsuite/workorder_backend/internal/utils"
)

func TestNewEntryID_Format(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

	id := utils.NewEntryID(now)

	prefix := fmt.Sprintf("%d-", now.UnixMilli())
	assert.True(t, strings.HasPrefix(id, prefix), "id %q should start with %q", id, prefix)
	assert.Len(t, id, len(prefix)+8) // 4 random bytes hex encoded
}

func TestNewEntryID_UniqueWithinSameMillisecond(t *testing.T) {
	now := time.Now()

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := utils.NewEntryID(now)
		assert.False(t, seen[id], "duplicate id %q", id)
		seen[id] = true
	}
}
