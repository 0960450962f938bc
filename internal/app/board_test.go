package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/GCLCMentor/CherryCourtTimer/internal/domain"
	"github.com/GCLCMentor/CherryCourtTimer/internal/store"
)

// fakeConn records events sent to a screen
type fakeConn struct {
	id     string
	events chan *domain.Event

	mu     sync.Mutex
	closed bool
}

func newFakeConn(id string) *fakeConn {
	return &fakeConn{id: id, events: make(chan *domain.Event, 32)}
}

func (c *fakeConn) Send(message interface{}) error {
	if ev, ok := message.(*domain.Event); ok {
		c.events <- ev
	}
	return nil
}

func (c *fakeConn) GetClientID() string { return c.id }

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *fakeConn) next(t *testing.T) *domain.Event {
	t.Helper()
	select {
	case ev := <-c.events:
		return ev
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for event")
	}
	return nil
}

func (c *fakeConn) expectNone(t *testing.T) {
	t.Helper()
	select {
	case ev := <-c.events:
		t.Fatalf("unexpected event %s", ev.Type)
	case <-time.After(50 * time.Millisecond):
	}
}

func boardPayload(t *testing.T, ev *domain.Event) domain.BoardPayload {
	t.Helper()
	if ev.Type != domain.EventBoard {
		t.Fatalf("expected board event, got %s", ev.Type)
	}
	payload, ok := ev.Payload.(domain.BoardPayload)
	if !ok {
		t.Fatalf("unexpected payload type %T", ev.Payload)
	}
	return payload
}

func TestBoardShowsUnconfigured(t *testing.T) {
	st := store.NewMemoryStore("gameState")
	b := NewBoard(st, clockwork.NewFakeClock(), 0, testLogger())
	viewer := newFakeConn("viewer-1")
	b.RegisterViewer(viewer.id, viewer)

	if !b.Refresh(context.Background()) {
		t.Fatal("first read should broadcast")
	}

	payload := boardPayload(t, viewer.next(t))
	if payload.Configured || payload.State != nil {
		t.Fatalf("expected unconfigured payload, got %+v", payload)
	}
}

func TestBoardBroadcastsOnlyChanges(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore("gameState")
	state := domain.NewGameState(domain.Setup{PeriodDuration: 10, TotalPeriods: 4})
	if err := st.Save(ctx, state); err != nil {
		t.Fatalf("save: %v", err)
	}

	b := NewBoard(st, clockwork.NewFakeClock(), time.Second, testLogger())
	viewer := newFakeConn("viewer-1")
	b.RegisterViewer(viewer.id, viewer)

	b.Refresh(ctx)
	payload := boardPayload(t, viewer.next(t))
	if !payload.Configured || *payload.State != state {
		t.Fatalf("unexpected payload %+v", payload)
	}

	if b.Refresh(ctx) {
		t.Fatal("unchanged store should not broadcast")
	}
	viewer.expectNone(t)

	state.ScoreGuest = 2
	if err := st.Save(ctx, state); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !b.Refresh(ctx) {
		t.Fatal("changed store should broadcast")
	}
	if got := boardPayload(t, viewer.next(t)); got.State.ScoreGuest != 2 {
		t.Fatalf("expected guest score 2, got %d", got.State.ScoreGuest)
	}
}

func TestBoardSendsLastReadToNewViewer(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore("gameState")
	state := domain.NewGameState(domain.Setup{PeriodDuration: 12, TotalPeriods: 4})
	st.Save(ctx, state)

	b := NewBoard(st, clockwork.NewFakeClock(), time.Second, testLogger())
	b.Refresh(ctx)

	viewer := newFakeConn("late")
	b.RegisterViewer(viewer.id, viewer)

	if got := boardPayload(t, viewer.next(t)); *got.State != state {
		t.Fatalf("expected last read, got %+v", got.State)
	}
	if b.ViewerCount() != 1 {
		t.Fatalf("expected 1 viewer, got %d", b.ViewerCount())
	}

	b.UnregisterViewer(viewer.id)
	if b.ViewerCount() != 0 {
		t.Fatal("viewer should be removed")
	}
}

func TestBoardPollsStore(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := clockwork.NewFakeClock()
	st := store.NewMemoryStore("gameState")
	b := NewBoard(st, clock, time.Second, testLogger())
	viewer := newFakeConn("viewer-1")
	b.RegisterViewer(viewer.id, viewer)

	go b.Run(ctx)

	if got := boardPayload(t, viewer.next(t)); got.Configured {
		t.Fatal("expected an unconfigured first read")
	}

	state := domain.NewGameState(domain.Setup{PeriodDuration: 8, TotalPeriods: 2})
	if err := st.Save(ctx, state); err != nil {
		t.Fatalf("save: %v", err)
	}

	// The ticker may not exist yet when the first advances happen
	for i := 0; i < 100; i++ {
		clock.Advance(time.Second)
		select {
		case ev := <-viewer.events:
			if got := boardPayload(t, ev); !got.Configured || *got.State != state {
				t.Fatalf("unexpected payload %+v", got)
			}
			return
		case <-time.After(10 * time.Millisecond):
		}
	}
	t.Fatal("board never picked up the stored game")
}

func TestBoardCloseClosesViewers(t *testing.T) {
	b := NewBoard(store.NewMemoryStore("gameState"), clockwork.NewFakeClock(), 0, testLogger())
	viewer := newFakeConn("viewer-1")
	b.RegisterViewer(viewer.id, viewer)

	b.Close()

	if !viewer.isClosed() {
		t.Fatal("viewer should be closed")
	}
	if b.ViewerCount() != 0 {
		t.Fatal("viewers should be cleared")
	}
}
