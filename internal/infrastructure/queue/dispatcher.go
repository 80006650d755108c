package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/forka/forum-backend/internal/api/metrics"
	"github.com/forka/forum-backend/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher fans notification events out to a fixed set of workers using
// consistent hashing on the recipient, so each user's notifications are
// written in the order they were published.
type Dispatcher struct {
	workers []chan ports.NotificationEvent
	service ports.NotificationService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.NotificationService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.NotificationEvent, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.NotificationEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Publish sends an event to the worker responsible for its recipient.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Publish(event ports.NotificationEvent) {
	d.workers[d.shardIndex(event.RecipientID)] <- event
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *Dispatcher) shardIndex(recipientID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(recipientID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.NotificationEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if err := d.service.Process(ctx, event); err != nil {
				d.log.Error().Err(err).
					Str("recipient_id", event.RecipientID).
					Str("type", string(event.Type)).
					Int("worker_id", id).
					Msg("notification processing failed")
				continue
			}
			metrics.NotificationsDispatchedTotal.WithLabelValues(string(event.Type)).Inc()
		}
	}
}
