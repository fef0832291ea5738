package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"donorhub/internal/domain"
)

const defaultStoreTimeout = 5 * time.Second

// storeErr wraps a repository failure with the operation name. A blown deadline becomes ErrTimeout.
func storeErr(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, domain.ErrTimeout)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func invalidInput(problems ...string) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(problems, "; "))
}

func timeoutOrDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return defaultStoreTimeout
	}
	return d
}

// dedupeIDs drops non-unique ids, keeping first occurrences in order.
func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
