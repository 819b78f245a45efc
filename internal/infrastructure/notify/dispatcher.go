package notify

import (
	"context"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/meridiancredit/investor-portal/internal/api/metrics"
	"github.com/meridiancredit/investor-portal/internal/core/domain"
	"github.com/meridiancredit/investor-portal/internal/core/ports"
)

const (
	defaultWorkers  = 4
	channelBuffer   = 256
	deliveryTimeout = 15 * time.Second
)

// Dispatcher routes passcode deliveries to a fixed set of workers sharded by
// principal id, keeping deliveries for the same principal in order. Delivery
// is best-effort: failures are counted and logged, never propagated — a mail
// provider outage must not block login.
type Dispatcher struct {
	workers []chan ports.DeliveryJob
	sender  ports.NotificationSender
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sender ports.NotificationSender, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.DeliveryJob, numWorkers),
		sender:  sender,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.DeliveryJob, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Deliver sends a job to the worker responsible for its principal.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Deliver(job ports.DeliveryJob) {
	idx := d.shardIndex(job.UserID)
	d.workers[idx] <- job
	metrics.DeliveryQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

// shardIndex maps a principal id deterministically to a worker index.
func (d *Dispatcher) shardIndex(userID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.DeliveryJob) {
	workerID := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			d.process(ctx, job)
			metrics.DeliveryQueueDepth.WithLabelValues(workerID).Set(float64(len(ch)))
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, job ports.DeliveryJob) {
	// Real SMS dispatch does not exist; the phone channel relies on the
	// operator log fallback written at issuance.
	if job.Channel != domain.ChannelEmail {
		d.log.Info().
			Str("user_id", job.UserID).
			Str("channel", job.Channel).
			Msg("no delivery provider for channel, relying on log fallback")
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, deliveryTimeout)
	defer cancel()

	if err := d.sender.SendCode(sendCtx, job.Destination, job.Code); err != nil {
		metrics.DeliveryErrorsTotal.WithLabelValues(job.Channel).Inc()
		d.log.Error().Err(err).
			Str("user_id", job.UserID).
			Msg("passcode delivery failed")
	}
}
