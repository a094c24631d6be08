package cascade

import (
	"sync"
	"testing"
)

// capture records every payload a receiver sees, safe for delivery from
// timer goroutines.
type capture[T any] struct {
	mu    sync.Mutex
	calls [][]T
}

func (c *capture[T]) receiver() Receiver[T] {
	return func(values ...T) {
		c.mu.Lock()
		defer c.mu.Unlock()
		payload := make([]T, len(values))
		copy(payload, values)
		c.calls = append(c.calls, payload)
	}
}

func (c *capture[T]) snapshot() [][]T {
	c.mu.Lock()
	defer c.mu.Unlock()
	calls := make([][]T, len(c.calls))
	copy(calls, c.calls)
	return calls
}

func (c *capture[T]) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

func TestChain_WrapsRightToLeft(t *testing.T) {
	var order []string
	stage := func(label string) Operator[string] {
		return Operator[string]{
			name: Name(label),
			attach: func(next Receiver[string]) Receiver[string] {
				return func(values ...string) {
					order = append(order, label)
					next(values...)
				}
			},
		}
	}

	sink := &capture[string]{}
	entry := Chain(sink.receiver(), stage("first"), stage("second"), stage("third"))
	entry("payload")

	if len(order) != 3 || order[0] != "first" || order[1] != "second" || order[2] != "third" {
		t.Errorf("Expected first,second,third, got %v", order)
	}
	if sink.count() != 1 {
		t.Errorf("Expected 1 delivery, got %d", sink.count())
	}
}

func TestChain_EmptyChainIsSink(t *testing.T) {
	sink := &capture[int]{}
	entry := Chain(sink.receiver())
	entry(1, 2, 3)

	calls := sink.snapshot()
	if len(calls) != 1 || len(calls[0]) != 3 {
		t.Fatalf("Expected one 3-value delivery, got %v", calls)
	}
}

func TestChain_StatefulIsolationAcrossChains(t *testing.T) {
	// One connector value, two chains: each attachment must own
	// isolated state.
	sticky := NewSticky("gate", 0)
	defer sticky.Close()

	first := &capture[int]{}
	second := &capture[int]{}
	entryFirst := Chain(first.receiver(), sticky)
	entrySecond := Chain(second.receiver(), sticky)

	entryFirst(7)
	entrySecond(7) // would be suppressed if state were shared

	if first.count() != 1 {
		t.Errorf("Expected 1 delivery on first chain, got %d", first.count())
	}
	if second.count() != 1 {
		t.Errorf("Expected 1 delivery on second chain, got %d", second.count())
	}
}

func TestChain_PanicUnwindsToCaller(t *testing.T) {
	boom := Map("boom", func(...int) int {
		panic("user function failed")
	})

	sink := &capture[int]{}
	entry := Chain(sink.receiver(), boom)

	defer func() {
		if recovered := recover(); recovered == nil {
			t.Fatal("Expected panic to propagate")
		}
		if sink.count() != 0 {
			t.Errorf("Expected no delivery after panic, got %d", sink.count())
		}
	}()
	entry(1)
}

func TestOperator_Name(t *testing.T) {
	op := Map("double", func(values ...int) int { return values[0] * 2 })
	if op.Name() != "double" {
		t.Errorf("Expected name 'double', got %s", op.Name())
	}
}
