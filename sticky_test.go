package cascade

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestSticky(t *testing.T) {
	t.Run("Forwards Only On Change", func(t *testing.T) {
		sink := &capture[int]{}
		gate := NewSticky("gate", 1)
		defer gate.Close()

		entry := gate.Attach(sink.receiver())
		entry(2)
		entry(2)
		entry(1)

		calls := sink.snapshot()
		if len(calls) != 2 {
			t.Fatalf("Expected exactly 2 deliveries, got %d", len(calls))
		}
		if calls[0][0] != 2 || calls[1][0] != 1 {
			t.Errorf("Expected deliveries 2 then 1, got %v", calls)
		}
	})

	t.Run("First Send Compared Against Initial", func(t *testing.T) {
		sink := &capture[string]{}
		gate := NewSticky("gate", "idle")
		defer gate.Close()

		entry := gate.Attach(sink.receiver())
		entry("idle") // identical to initial, suppressed

		if sink.count() != 0 {
			t.Errorf("Expected suppression of initial value, got %d deliveries", sink.count())
		}
	})

	t.Run("Comparison Is Identity Not Deep Equality", func(t *testing.T) {
		sink := &capture[*[]int]{}
		shared := &[]int{1}
		gate := NewSticky[*[]int]("gate", nil)
		defer gate.Close()

		entry := gate.Attach(sink.receiver())
		entry(shared)
		*shared = append(*shared, 2) // mutated in place, same reference
		entry(shared)

		if sink.count() != 1 {
			t.Errorf("Expected in-place mutation to be treated as unchanged, got %d deliveries", sink.count())
		}
	})

	t.Run("Extra Values Forwarded On Change Suppressed Otherwise", func(t *testing.T) {
		sink := &capture[int]{}
		gate := NewSticky("gate", 0)
		defer gate.Close()

		entry := gate.Attach(sink.receiver())
		entry(1, 100)
		entry(1, 200) // primary unchanged: whole payload suppressed

		calls := sink.snapshot()
		if len(calls) != 1 {
			t.Fatalf("Expected 1 delivery, got %d", len(calls))
		}
		if len(calls[0]) != 2 || calls[0][1] != 100 {
			t.Errorf("Expected payload [1 100] forwarded verbatim, got %v", calls[0])
		}
	})

	t.Run("Emits Changed And Suppressed Hooks", func(t *testing.T) {
		var mu sync.Mutex
		var events []StickyEvent

		gate := NewSticky("gate", 0)
		defer gate.Close()

		record := func(_ context.Context, event StickyEvent) error {
			mu.Lock()
			defer mu.Unlock()
			events = append(events, event)
			return nil
		}
		if err := gate.OnChanged(record); err != nil {
			t.Fatalf("unexpected error registering hook: %v", err)
		}
		if err := gate.OnSuppressed(record); err != nil {
			t.Fatalf("unexpected error registering hook: %v", err)
		}

		entry := gate.Attach((&capture[int]{}).receiver())
		entry(1)
		entry(1)

		// Hooks deliver asynchronously.
		deadline := time.Now().Add(time.Second)
		for {
			mu.Lock()
			done := len(events) == 2
			mu.Unlock()
			if done {
				break
			}
			if time.Now().After(deadline) {
				t.Fatal("timed out waiting for hook events")
			}
			time.Sleep(5 * time.Millisecond)
		}

		mu.Lock()
		defer mu.Unlock()
		changed := 0
		for _, event := range events {
			if event.Name != "gate" {
				t.Errorf("Expected event name 'gate', got %s", event.Name)
			}
			if event.Changed {
				changed++
			}
		}
		if changed != 1 {
			t.Errorf("Expected 1 changed event, got %d", changed)
		}
	})

	t.Run("Name Method", func(t *testing.T) {
		gate := NewSticky("gate", 0)
		defer gate.Close()
		if gate.Name() != "gate" {
			t.Errorf("Expected name 'gate', got %s", gate.Name())
		}
	})
}
