package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/enic-kz/portal/internal/core/ports"
	"github.com/enic-kz/portal/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	applyTimeout   = 10 * time.Second
)

var (
	// ErrQueueFull is returned by Enqueue when the worker for an event has no
	// room left.
	ErrQueueFull = errors.New("identity event queue full")
	// ErrQueueClosed is returned by Enqueue once the dispatcher is shutting down.
	ErrQueueClosed = errors.New("identity event queue closed")
)

// FailureFunc is called after an event could not be applied.
type FailureFunc func(event ports.IdentityEvent, err error)

// Dispatcher routes identity events to a fixed set of workers by hashing the
// user id, so events for one account are applied in arrival order.
type Dispatcher struct {
	workers   []chan ports.IdentityEvent
	service   ports.SyncService
	log       zerolog.Logger
	onFailure FailureFunc
	wg        sync.WaitGroup

	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.SyncService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.IdentityEvent, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.IdentityEvent, channelBuffer)
	}
	return d
}

// OnFailure registers fn to run for every event whose Apply fails.
func (d *Dispatcher) OnFailure(fn FailureFunc) {
	d.onFailure = fn
}

// Start launches all worker goroutines. Cancelling ctx closes the
// dispatcher: new events are refused and workers apply what is already
// queued before returning.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
	go func() {
		<-ctx.Done()
		d.Close()
	}()
}

// Close stops accepting events. Queued events are still applied.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
	})
}

// Wait blocks until every worker has drained its queue and returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue hands event to the worker responsible for its user without
// blocking. It returns ErrQueueFull when that worker is saturated and
// ErrQueueClosed after Close.
func (d *Dispatcher) Enqueue(event ports.IdentityEvent) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrQueueClosed
	}

	idx := d.shardIndex(event.UserID)
	select {
	case d.workers[idx] <- event:
		metrics.IdentityEventsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
		return nil
	default:
		return ErrQueueFull
	}
}

// shardIndex maps a user id deterministically to a worker index.
func (d *Dispatcher) shardIndex(userID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.IdentityEvent) {
	defer d.wg.Done()
	label := strconv.Itoa(id)

	// Events outlive the start context so a shutdown still applies them.
	base := context.WithoutCancel(ctx)
	for event := range ch {
		metrics.IdentityEventsQueueDepth.WithLabelValues(label).Dec()
		d.process(base, id, event)
	}
}

func (d *Dispatcher) process(base context.Context, worker int, event ports.IdentityEvent) {
	ctx, cancel := context.WithTimeout(base, applyTimeout)
	defer cancel()

	start := time.Now()
	err := d.service.Apply(ctx, event)
	metrics.IdentityEventDuration.WithLabelValues(event.Type).Observe(time.Since(start).Seconds())

	if err == nil {
		metrics.IdentityEventsTotal.WithLabelValues(event.Type, "applied").Inc()
		return
	}

	metrics.IdentityEventsTotal.WithLabelValues(event.Type, "failed").Inc()
	d.log.Error().Err(err).
		Str("user_id", event.UserID).
		Str("type", event.Type).
		Str("delivery_id", event.DeliveryID).
		Int("worker_id", worker).
		Msg("identity event processing failed")

	if d.onFailure != nil {
		d.onFailure(event, err)
	}
}
