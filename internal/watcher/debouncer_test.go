package watcher

import (
	"sync"
	"testing"
	"time"
)

func TestNewBatchDebouncer(t *testing.T) {
	emit := func(events []Event) {}
	b := NewBatchDebouncer(100*time.Millisecond, emit)

	if b == nil {
		t.Fatal("NewBatchDebouncer() returned nil")
	}
	if b.delay != 100*time.Millisecond {
		t.Errorf("delay = %v, want 100ms", b.delay)
	}
	if b.events == nil {
		t.Error("events should be initialized")
	}
}

func TestBatchDebouncerAdd(t *testing.T) {
	var received []Event
	var mu sync.Mutex

	emit := func(events []Event) {
		mu.Lock()
		received = events
		mu.Unlock()
	}

	b := NewBatchDebouncer(50*time.Millisecond, emit)

	// Add multiple events
	b.Add(Event{Type: EventCreate, Path: "a.json"})
	b.Add(Event{Type: EventModify, Path: "b.json"})
	b.Add(Event{Type: EventDelete, Path: "c.json"})

	if b.EventCount() != 3 {
		t.Errorf("EventCount() = %d, want 3", b.EventCount())
	}

	// Wait for debounce
	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	if len(received) != 3 {
		t.Errorf("Should have received 3 events, got %d", len(received))
	}
	mu.Unlock()
}

func TestBatchDebouncerCancel(t *testing.T) {
	var called bool
	var mu sync.Mutex

	emit := func(events []Event) {
		mu.Lock()
		called = true
		mu.Unlock()
	}

	b := NewBatchDebouncer(50*time.Millisecond, emit)
	b.Add(Event{Type: EventCreate, Path: "cars.json"})
	b.Cancel()

	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	if called {
		t.Error("Emit should not be called after cancel")
	}
	mu.Unlock()

	if b.EventCount() != 0 {
		t.Errorf("EventCount() = %d, want 0 after cancel", b.EventCount())
	}
}

func TestBatchDebouncerFlush(t *testing.T) {
	var received []Event
	var mu sync.Mutex

	emit := func(events []Event) {
		mu.Lock()
		received = events
		mu.Unlock()
	}

	b := NewBatchDebouncer(500*time.Millisecond, emit)
	b.Add(Event{Type: EventCreate, Path: "cars.json"})
	b.Flush()

	mu.Lock()
	if len(received) != 1 {
		t.Errorf("Should have received 1 event, got %d", len(received))
	}
	mu.Unlock()

	if b.EventCount() != 0 {
		t.Errorf("EventCount() = %d, want 0 after flush", b.EventCount())
	}
}

func TestBatchDebouncerEventCount(t *testing.T) {
	b := NewBatchDebouncer(100*time.Millisecond, nil)

	if b.EventCount() != 0 {
		t.Errorf("EventCount() = %d, want 0", b.EventCount())
	}

	b.Add(Event{Type: EventCreate})
	if b.EventCount() != 1 {
		t.Errorf("EventCount() = %d, want 1", b.EventCount())
	}

	b.Add(Event{Type: EventModify})
	if b.EventCount() != 2 {
		t.Errorf("EventCount() = %d, want 2", b.EventCount())
	}
}

func TestBatchDebouncerNoEmitWithNoEvents(t *testing.T) {
	var called bool
	var mu sync.Mutex

	emit := func(events []Event) {
		mu.Lock()
		called = true
		mu.Unlock()
	}

	b := NewBatchDebouncer(10*time.Millisecond, emit)
	b.Flush() // Flush without adding events

	mu.Lock()
	if called {
		t.Error("Emit should not be called with no events")
	}
	mu.Unlock()
}
