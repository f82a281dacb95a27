package lock

import (
	"context"
	"sync"
	"time"
)

// In-process keyed lock serializing state transitions per entity id.
// Two reviewers racing on the same form queue here; cross-process safety
// comes from conditional updates inside the DB transaction.

var (
	lockMap sync.Map
)

const DefaultWait = 5 * time.Second

// WithDelay runs safeCode under the key lock, waiting up to wait to acquire
// it. Returns success=false when the lock could not be taken in time.
func WithDelay(ctx context.Context, key string, wait time.Duration, safeCode func() error) (success bool, err error) {
	isLocked := false
	isTimeout := time.After(wait)
	for {
		if _, loaded := lockMap.LoadOrStore(key, true); !loaded {
			isLocked = true
			break
		}
		select {
		case <-isTimeout:
			return false, nil
		case <-ctx.Done():
			return false, nil
		default:
			time.Sleep(50 * time.Millisecond)
		}
	}
	if isLocked {
		defer lockMap.Delete(key)
		return true, safeCode()
	}
	return false, nil
}
