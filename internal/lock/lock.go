package lock

import (
	"context"
	"errors"
	"sort"
)

// ErrNotAcquired means the lock stayed held by someone else until ctx or
// the acquire deadline ran out. Callers treat it as contention.
var ErrNotAcquired = errors.New("slot lock not acquired")

// Locker serializes writers per (barber, date). The returned unlock is
// always safe to call once.
type Locker interface {
	Lock(ctx context.Context, barberID, date string) (unlock func(), err error)
}

func Key(barberID, date string) string {
	return "slotlock:" + barberID + ":" + date
}

// LockDays takes one lock per date in ascending order so two writers that
// overlap on any date can never deadlock.
func LockDays(ctx context.Context, l Locker, barberID string, dates []string) (func(), error) {
	sorted := append([]string(nil), dates...)
	sort.Strings(sorted)

	unlocks := make([]func(), 0, len(sorted))
	release := func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}

	seen := make(map[string]struct{}, len(sorted))
	for _, d := range sorted {
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}

		unlock, err := l.Lock(ctx, barberID, d)
		if err != nil {
			release()
			return nil, err
		}
		unlocks = append(unlocks, unlock)
	}

	return release, nil
}
