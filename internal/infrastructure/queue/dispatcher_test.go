package queue

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/enic-kz/portal/internal/core/ports"
)

type recordingSync struct {
	mu     sync.Mutex
	seen   map[string][]string
	fail   string
	done   chan struct{}
	expect int
	count  int
}

func newRecordingSync(expect int) *recordingSync {
	return &recordingSync{seen: make(map[string][]string), done: make(chan struct{}), expect: expect}
}

func (r *recordingSync) Apply(_ context.Context, event ports.IdentityEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen[event.UserID] = append(r.seen[event.UserID], event.DeliveryID)
	r.count++
	if r.count == r.expect {
		close(r.done)
	}
	if event.DeliveryID == r.fail {
		return errors.New("store unavailable")
	}
	return nil
}

func TestDispatcher_PreservesPerUserOrder(t *testing.T) {
	svc := newRecordingSync(6)
	d := NewDispatcher(3, svc, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	events := []ports.IdentityEvent{
		{DeliveryID: "1", UserID: "a", Type: ports.EventUserCreated},
		{DeliveryID: "2", UserID: "b", Type: ports.EventUserCreated},
		{DeliveryID: "3", UserID: "a", Type: ports.EventUserUpdated},
		{DeliveryID: "4", UserID: "b", Type: ports.EventUserDeleted},
		{DeliveryID: "5", UserID: "a", Type: ports.EventUserDeleted},
		{DeliveryID: "6", UserID: "c", Type: ports.EventUserCreated},
	}
	for _, e := range events {
		if err := d.Enqueue(e); err != nil {
			t.Fatalf("Enqueue returned error: %v", err)
		}
	}

	select {
	case <-svc.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for events")
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	want := map[string][]string{"a": {"1", "3", "5"}, "b": {"2", "4"}, "c": {"6"}}
	for user, ids := range want {
		got := svc.seen[user]
		if len(got) != len(ids) {
			t.Fatalf("user %s: expected %v, got %v", user, ids, got)
		}
		for i := range ids {
			if got[i] != ids[i] {
				t.Fatalf("user %s: expected %v, got %v", user, ids, got)
			}
		}
	}
}

func TestDispatcher_ShardIndexStable(t *testing.T) {
	d := NewDispatcher(5, newRecordingSync(0), zerolog.Nop())
	first := d.shardIndex("user_123")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("user_123"); got != first {
			t.Fatalf("shard changed from %d to %d", first, got)
		}
	}
	if first < 0 || first >= 5 {
		t.Fatalf("shard %d out of range", first)
	}
}

func TestDispatcher_QueueFull(t *testing.T) {
	d := NewDispatcher(1, newRecordingSync(0), zerolog.Nop())

	for i := 0; i < channelBuffer; i++ {
		if err := d.Enqueue(ports.IdentityEvent{UserID: "a"}); err != nil {
			t.Fatalf("Enqueue %d returned error: %v", i, err)
		}
	}
	if err := d.Enqueue(ports.IdentityEvent{UserID: "a"}); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
}

func TestDispatcher_OnFailure(t *testing.T) {
	svc := newRecordingSync(1)
	svc.fail = "bad"
	d := NewDispatcher(1, svc, zerolog.Nop())

	failed := make(chan string, 1)
	d.OnFailure(func(event ports.IdentityEvent, err error) {
		failed <- event.DeliveryID
	})

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	if err := d.Enqueue(ports.IdentityEvent{DeliveryID: "bad", UserID: "x", Type: ports.EventUserCreated}); err != nil {
		t.Fatalf("Enqueue returned error: %v", err)
	}

	select {
	case id := <-failed:
		if id != "bad" {
			t.Fatalf("unexpected failed delivery %s", id)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("failure callback not called")
	}

	cancel()
	d.Wait()
}

func TestDispatcher_DrainsQueueOnShutdown(t *testing.T) {
	svc := newRecordingSync(100)
	d := NewDispatcher(1, svc, zerolog.Nop())

	for i := 0; i < 100; i++ {
		event := ports.IdentityEvent{DeliveryID: strconv.Itoa(i), UserID: "a", Type: ports.EventUserUpdated}
		if err := d.Enqueue(event); err != nil {
			t.Fatalf("Enqueue %d returned error: %v", i, err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Start(ctx)
	d.Wait()

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if svc.count != 100 {
		t.Fatalf("expected 100 applied events after shutdown, got %d", svc.count)
	}
	for i, id := range svc.seen["a"] {
		if id != strconv.Itoa(i) {
			t.Fatalf("event %d applied out of order: %s", i, id)
		}
	}
}

func TestDispatcher_ApplyContextSurvivesShutdown(t *testing.T) {
	svc := &ctxCheckingSync{}
	d := NewDispatcher(1, svc, zerolog.Nop())
	if err := d.Enqueue(ports.IdentityEvent{DeliveryID: "1", UserID: "a", Type: ports.EventUserDeleted}); err != nil {
		t.Fatalf("Enqueue returned error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Start(ctx)
	d.Wait()

	if svc.calls != 1 || svc.ctxErr != nil {
		t.Fatalf("expected one apply with a live context, got calls=%d err=%v", svc.calls, svc.ctxErr)
	}
}

func TestDispatcher_EnqueueAfterClose(t *testing.T) {
	d := NewDispatcher(2, newRecordingSync(0), zerolog.Nop())
	d.Close()
	d.Close()

	if err := d.Enqueue(ports.IdentityEvent{UserID: "a"}); !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("expected ErrQueueClosed, got %v", err)
	}
}

type ctxCheckingSync struct {
	calls  int
	ctxErr error
}

func (s *ctxCheckingSync) Apply(ctx context.Context, _ ports.IdentityEvent) error {
	s.calls++
	s.ctxErr = ctx.Err()
	return nil
}
