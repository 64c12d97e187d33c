package certificates

import (
	"context"
	"log"
	"time"
)

// HistoryStore is the record of certificates already issued
type HistoryStore interface {
	// CountDistinctDates counts the distinct performed dates recorded for the course
	// in the given month and year, strictly before the given day.
	CountDistinctDates(ctx context.Context, courseID uint, month time.Month, year int, before time.Time) (int, error)
	Insert(ctx context.Context, fiscalCode string, courseID uint, performed time.Time) error
}

// TxHistoryStore runs fn against a store bound to a single transaction.
// Inserts are rolled back when fn returns an error.
type TxHistoryStore interface {
	HistoryStore
	WithinTx(ctx context.Context, fn func(HistoryStore) error) error
}

// SessionLocker serialises numbering of one course month across concurrent runs.
// The lock is held until the surrounding transaction ends.
type SessionLocker interface {
	LockSession(ctx context.Context, courseID uint, month time.Month, year int) error
}

// NextSessionNumber returns the 1-based number of the session held on performed for the course:
// one more than the distinct earlier days already recorded in the same month.
// Lookup failures are logged and numbered 1 so generation is never blocked.
func NextSessionNumber(ctx context.Context, store HistoryStore, courseID uint, performed time.Time) int {
	if store == nil {
		log.Printf("[SEQUENCER] No history store configured, course %d numbered 1", courseID)
		return 1
	}
	if performed.IsZero() {
		log.Printf("[SEQUENCER] Missing performed date for course %d, numbered 1", courseID)
		return 1
	}
	day := Civil(performed)
	count, err := store.CountDistinctDates(ctx, courseID, day.Month(), day.Year(), day)
	if err != nil {
		log.Printf("[SEQUENCER] Error counting sessions for course %d on %s: %v", courseID, day.Format(isoLayout), err)
		return 1
	}
	if count < 0 {
		count = 0
	}
	return count + 1
}
