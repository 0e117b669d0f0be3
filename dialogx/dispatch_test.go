package dialogx

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"testing"
	"time"
)

// recordingHandler records the exact order events reach the handler,
// optionally stalling on matching events to widen any reordering window.
type recordingHandler struct {
	mu      sync.Mutex
	seen    []Event
	stall   time.Duration
	stallOn func(Event) bool
}

func (h *recordingHandler) Handle(_ context.Context, ev Event) {
	if h.stallOn != nil && h.stallOn(ev) {
		time.Sleep(h.stall)
	}

	h.mu.Lock()
	h.seen = append(h.seen, ev)
	h.mu.Unlock()
}

func (h *recordingHandler) events() []Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Event, len(h.seen))
	copy(out, h.seen)
	return out
}

func drainAll(t *testing.T, d *Dispatcher) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.Drain(ctx); err != nil {
		t.Fatalf("drain: %v", err)
	}
}

func TestDispatcherPreservesPerUserOrder(t *testing.T) {
	h := &recordingHandler{
		stall:   50 * time.Millisecond,
		stallOn: func(ev Event) bool { return ev.MediaID == "media-1" },
	}
	d := NewDispatcher(h, time.Second)

	// The second enqueue lands while the first event is still being
	// processed; it must wait its turn, never run concurrently.
	d.Enqueue(image("media-1"))
	d.Enqueue(image("media-2"))
	d.Enqueue(text("هل وصلت؟"))

	drainAll(t, d)

	got := h.events()
	if len(got) != 3 {
		t.Fatalf("handled %d events, want 3", len(got))
	}
	if got[0].MediaID != "media-1" || got[1].MediaID != "media-2" || got[2].Kind != KindText {
		t.Fatalf("events out of order: %+v", got)
	}
}

func TestDispatcherSerializesDocUploads(t *testing.T) {
	engine, sessions, _, store := newTestEngine()
	d := NewDispatcher(engine, time.Second)

	d.Enqueue(selection(SelServiceRegistration))
	for i := 0; i < 6; i++ {
		d.Enqueue(image("media-" + string(rune('1'+i))))
	}

	drainAll(t, d)

	docs := sessions.Get(testUser).Context.Docs
	if len(docs) != 2 {
		t.Fatalf("docs length = %d, want 2", len(docs))
	}
	if docs[0].MediaID != "media-1" || docs[1].MediaID != "media-2" {
		t.Fatalf("docs out of order: %+v", docs)
	}
	if store.count() != 0 {
		t.Fatal("registration persisted before cost confirmation")
	}
}

func TestDispatcherIsolatesUsers(t *testing.T) {
	h := &recordingHandler{
		stall:   100 * time.Millisecond,
		stallOn: func(ev Event) bool { return ev.UserID == "user-a" },
	}
	d := NewDispatcher(h, time.Second)

	// User A's stalled first event must not delay user B.
	d.Enqueue(Event{UserID: "user-a", Kind: KindText, Text: "a1"})
	d.Enqueue(Event{UserID: "user-b", Kind: KindText, Text: "b1"})

	deadline := time.Now().Add(80 * time.Millisecond)
	for time.Now().Before(deadline) {
		for _, ev := range h.events() {
			if ev.UserID == "user-b" {
				drainAll(t, d)
				return
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("user-b event waited behind user-a's slow event")
}

func TestDispatcherDropsAnonymousEvents(t *testing.T) {
	h := &recordingHandler{}
	d := NewDispatcher(h, time.Second)

	d.Enqueue(Event{Kind: KindText, Text: "مرحبا"})

	drainAll(t, d)
	if len(h.events()) != 0 {
		t.Fatal("event without a user id was processed")
	}
}

// randomizedHandler sleeps a small seeded-random amount before
// recording, so worker goroutines interleave differently at every
// point of the schedule while per-user arrival order stays observable.
type randomizedHandler struct {
	mu   sync.Mutex
	rng  *rand.Rand
	seen map[string][]int
}

func (h *randomizedHandler) Handle(_ context.Context, ev Event) {
	h.mu.Lock()
	delay := time.Duration(h.rng.Intn(3)) * time.Millisecond
	h.mu.Unlock()
	time.Sleep(delay)

	seq, _ := strconv.Atoi(ev.Text)
	h.mu.Lock()
	h.seen[ev.UserID] = append(h.seen[ev.UserID], seq)
	h.mu.Unlock()
}

func TestDispatcherOrderUnderRandomInterleaving(t *testing.T) {
	const (
		users  = 8
		events = 25
		seed   = 1
	)

	h := &randomizedHandler{
		rng:  rand.New(rand.NewSource(seed)),
		seen: make(map[string][]int),
	}
	d := NewDispatcher(h, time.Second)

	// One producer per user enqueues that user's events in sequence
	// with random pauses; the cross-user schedule is left to the
	// scheduler and the handler's random delays.
	var wg sync.WaitGroup
	for u := 0; u < users; u++ {
		wg.Add(1)
		go func(u int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed + int64(u)))
			userID := "user-" + strconv.Itoa(u)
			for i := 0; i < events; i++ {
				d.Enqueue(Event{UserID: userID, Kind: KindText, Text: strconv.Itoa(i)})
				if rng.Intn(4) == 0 {
					time.Sleep(time.Duration(rng.Intn(2)) * time.Millisecond)
				}
			}
		}(u)
	}
	wg.Wait()

	drainAll(t, d)

	for u := 0; u < users; u++ {
		userID := "user-" + strconv.Itoa(u)
		got := h.seen[userID]
		if len(got) != events {
			t.Fatalf("%s: handled %d events, want %d", userID, len(got), events)
		}
		for pos, seq := range got {
			if seq != pos {
				t.Fatalf("%s: event %d arrived at position %d: %v", userID, seq, pos, got)
			}
		}
	}
}

type panickyHandler struct {
	mu    sync.Mutex
	calls int
}

func (h *panickyHandler) Handle(context.Context, Event) {
	h.mu.Lock()
	h.calls++
	n := h.calls
	h.mu.Unlock()
	if n == 1 {
		panic("boom")
	}
}

func TestDispatcherSurvivesHandlerPanic(t *testing.T) {
	h := &panickyHandler{}
	d := NewDispatcher(h, time.Second)

	d.Enqueue(text("first"))
	d.Enqueue(text("second"))

	drainAll(t, d)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.calls != 2 {
		t.Fatalf("handled %d events, want 2 (panic must not kill the queue)", h.calls)
	}
}
