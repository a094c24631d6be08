package cascade

import (
	"reflect"
	"testing"
)

func TestMerge_OverlaysKeys(t *testing.T) {
	sink := &capture[map[string]string]{}
	merge := NewMerge[string]("settings")
	defer merge.Close()

	entry := merge.Attach(sink.receiver())
	entry(map[string]string{"host": "a"})
	entry(map[string]string{"port": "80"})
	entry(map[string]string{"host": "b"})

	calls := sink.snapshot()
	if len(calls) != 3 {
		t.Fatalf("Expected 3 deliveries, got %d", len(calls))
	}

	wants := []map[string]string{
		{"host": "a"},
		{"host": "a", "port": "80"},
		{"host": "b", "port": "80"},
	}
	for i, want := range wants {
		if len(calls[i]) != 1 {
			t.Fatalf("Expected single-value delivery %d, got %v", i, calls[i])
		}
		if !reflect.DeepEqual(calls[i][0], want) {
			t.Errorf("Delivery %d: expected %v, got %v", i, want, calls[i][0])
		}
	}
}

func TestMerge_StableAccumulatorReference(t *testing.T) {
	var delivered []map[string]int
	merge := NewMerge[int]("counters")
	defer merge.Close()

	entry := merge.Attach(func(values ...map[string]int) {
		delivered = append(delivered, values[0])
	})
	entry(map[string]int{"a": 1})
	entry(map[string]int{"b": 2})

	if len(delivered) != 2 {
		t.Fatalf("Expected 2 deliveries, got %d", len(delivered))
	}
	// Same map every time: the first captured reference shows the
	// second merge too.
	if delivered[0]["b"] != 2 {
		t.Error("Expected delivered maps to share the accumulator reference")
	}
	if reflect.ValueOf(delivered[0]).Pointer() != reflect.ValueOf(delivered[1]).Pointer() {
		t.Error("Expected the same accumulator reference across deliveries")
	}
}

func TestMerge_MergesVariadicObjectsInOrder(t *testing.T) {
	sink := &capture[map[string]int]{}
	merge := NewMerge[int]("pair")
	defer merge.Close()

	entry := merge.Attach(sink.receiver())
	entry(map[string]int{"k": 1}, map[string]int{"k": 2})

	calls := sink.snapshot()
	if len(calls) != 1 || calls[0][0]["k"] != 2 {
		t.Errorf("Expected later object to win, got %v", calls)
	}
}

func TestMerge_IsolatedAccumulatorsPerAttachment(t *testing.T) {
	merge := NewMerge[int]("shared")
	defer merge.Close()

	first := &capture[map[string]int]{}
	second := &capture[map[string]int]{}
	entryFirst := merge.Attach(first.receiver())
	entrySecond := merge.Attach(second.receiver())

	entryFirst(map[string]int{"a": 1})
	entrySecond(map[string]int{"b": 2})

	if _, ok := second.snapshot()[0][0]["a"]; ok {
		t.Error("Expected accumulators to be isolated per attachment")
	}
}
