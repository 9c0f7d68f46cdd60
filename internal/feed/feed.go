// Package feed supplies the entries shown in the list and the refresh tasks
// that produce new ones.
package feed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"refreshlist/internal/model"
)

// Source is a refresh task. Fetch returns the entries to prepend.
type Source interface {
	Fetch(ctx context.Context) ([]model.Entry, error)
}

// Seed returns n placeholder entries for an empty list.
func Seed(n int) []model.Entry {
	now := time.Now()
	entries := make([]model.Entry, 0, n)
	for i := 0; i < n; i++ {
		entries = append(entries, model.Entry{
			ID:          uuid.New().String(),
			Name:        "Default entry",
			Description: "A remarkable little app",
			Info:        "500k users",
			Added:       now,
		})
	}
	return entries
}

// Prepend puts fresh entries above existing ones without modifying either.
func Prepend(existing, fresh []model.Entry) []model.Entry {
	out := make([]model.Entry, 0, len(fresh)+len(existing))
	out = append(out, fresh...)
	return append(out, existing...)
}

// Generator is a Source that fabricates numbered entries after a delay.
type Generator struct {
	Delay     time.Duration
	BatchSize int

	mu   sync.Mutex
	next int
}

// NewGenerator returns a Generator. A batch size below one is treated as one.
func NewGenerator(delay time.Duration, batchSize int) *Generator {
	if batchSize < 1 {
		batchSize = 1
	}
	return &Generator{Delay: delay, BatchSize: batchSize, next: 1}
}

func (g *Generator) Fetch(ctx context.Context) ([]model.Entry, error) {
	if g.Delay > 0 {
		t := time.NewTimer(g.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.C:
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.mu.Lock()
	start := g.next
	g.next += g.BatchSize
	g.mu.Unlock()

	now := time.Now()
	entries := make([]model.Entry, g.BatchSize)
	// Newest first, so the highest number ends up on top.
	for i := range entries {
		n := start + g.BatchSize - 1 - i
		entries[i] = model.Entry{
			ID:          uuid.New().String(),
			Name:        fmt.Sprintf("Fresh entry %d", n),
			Description: "Pulled in by refresh",
			Info:        now.Format("15:04:05"),
			Added:       now,
		}
	}
	return entries, nil
}
