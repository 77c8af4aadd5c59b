package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// NewEntryID generates an identifier for history and journey entries. The
// millisecond timestamp prefix keeps ids sortable by append time and the
// random suffix keeps them unique under rapid successive writes within the
// same millisecond.
func NewEntryID(now time.Time) string {
	return fmt.Sprintf("%d-%s", now.UnixMilli(), randomHex(4))
}

// randomHex returns a hex string of n random bytes. crypto/rand never fails
// on supported platforms; a read error here means the process environment is
// broken, so panic rather than hand out colliding ids.
func randomHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("failed to read random bytes: %v", err))
	}
	return hex.EncodeToString(b)
}
