package batch

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func namedItems(n int) []Item {
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{Source: fmt.Sprintf("card%d", i), Name: fmt.Sprintf("card%d.png", i)}
	}
	return items
}

func TestRunner_ReportsInOrder(t *testing.T) {
	items := namedItems(10)
	errOdd := errors.New("odd card")

	r := NewRunner(3, zerolog.Nop())
	reports, err := r.Run(context.Background(), items, func(_ context.Context, it Item) error {
		n, _ := strconv.Atoi(strings.TrimPrefix(it.Source, "card"))
		// Finish out of order.
		time.Sleep(time.Duration(10-n) * time.Millisecond)
		if n%2 == 1 {
			return errOdd
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(reports) != len(items) {
		t.Fatalf("got %d reports, want %d", len(reports), len(items))
	}
	for i, rep := range reports {
		if rep.Item.Source != items[i].Source {
			t.Errorf("report %d is for %s, want %s", i, rep.Item.Source, items[i].Source)
		}
		if wantErr := i%2 == 1; (rep.Err != nil) != wantErr {
			t.Errorf("report %d: err = %v, want error %v", i, rep.Err, wantErr)
		}
	}
	if got := Failed(reports); got != 5 {
		t.Errorf("Failed = %d, want 5", got)
	}
}

func TestRunner_Limit(t *testing.T) {
	var running, peak int32
	r := NewRunner(2, zerolog.Nop())
	_, err := r.Run(context.Background(), namedItems(12), func(context.Context, Item) error {
		n := atomic.AddInt32(&running, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		atomic.AddInt32(&running, -1)
		return nil
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if peak > 2 {
		t.Errorf("peak concurrency %d exceeds 2 workers", peak)
	}
}

func TestRunner_Cancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls int32
	r := NewRunner(1, zerolog.Nop())
	reports, err := r.Run(ctx, namedItems(5), func(context.Context, Item) error {
		atomic.AddInt32(&calls, 1)
		cancel()
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run error = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}
	if reports[0].Err != nil {
		t.Errorf("first item: %v", reports[0].Err)
	}
	for _, rep := range reports[1:] {
		if !errors.Is(rep.Err, context.Canceled) {
			t.Errorf("%s: err = %v, want context.Canceled", rep.Item, rep.Err)
		}
	}
}

func TestNewRunner_DefaultWorkers(t *testing.T) {
	if r := NewRunner(0, zerolog.Nop()); r.Workers() < 1 {
		t.Errorf("Workers = %d", r.Workers())
	}
	if r := NewRunner(4, zerolog.Nop()); r.Workers() != 4 {
		t.Errorf("Workers = %d, want 4", r.Workers())
	}
}
