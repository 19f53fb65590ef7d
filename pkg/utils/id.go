package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync/atomic"
	"time"
)

var idCounter uint64

// GenerateTrialID generates a trial ID with a timestamp prefix, used to tag
// individual candidate evaluations in logs and the trial history.
func GenerateTrialID() string {
	timestamp := time.Now().Format("20060102-150405")
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		count := atomic.AddUint64(&idCounter, 1)
		return fmt.Sprintf("trial-%s-%x", timestamp, count)
	}
	return fmt.Sprintf("trial-%s-%s", timestamp, hex.EncodeToString(b))
}
