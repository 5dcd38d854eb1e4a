package notification

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"agrolink/internal/domain"
)

type Options struct {
	Workers     int
	QueueSize   int
	SendTimeout time.Duration
	MaxAttempts int
	Backoff     time.Duration
}

func (o Options) withDefaults() Options {
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.QueueSize < 1 {
		o.QueueSize = 1
	}
	if o.SendTimeout <= 0 {
		o.SendTimeout = 10 * time.Second
	}
	if o.MaxAttempts < 1 {
		o.MaxAttempts = 1
	}
	if o.Backoff <= 0 {
		o.Backoff = 200 * time.Millisecond
	}
	return o
}

type job struct {
	kind     Kind
	order    domain.Order
	farmerID string
	lines    []domain.OrderLine
}

func (j job) fields() []zap.Field {
	return []zap.Field{
		zap.String("kind", string(j.kind)),
		zap.String("orderId", j.order.ID),
		zap.String("farmerId", j.farmerID),
	}
}

// Dispatcher queues notifications and delivers them from a worker pool.
// Enqueueing never blocks: when the queue is full the notification is
// dead-lettered immediately.
type Dispatcher struct {
	sender   Sender
	contacts ContactRepository
	logger   *zap.Logger
	opts     Options

	queue  chan job
	wg     sync.WaitGroup
	cancel context.CancelFunc

	mu      sync.RWMutex
	started bool
	closed  bool
}

func NewDispatcher(sender Sender, contacts ContactRepository, logger *zap.Logger, opts Options) *Dispatcher {
	opts = opts.withDefaults()
	return &Dispatcher{
		sender:   sender,
		contacts: contacts,
		logger:   logger,
		opts:     opts,
		queue:    make(chan job, opts.QueueSize),
	}
}

// Start launches the workers. Sends run under contexts derived from ctx.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.closed {
		return
	}
	d.started = true

	ctx, d.cancel = context.WithCancel(ctx)
	for i := 0; i < d.opts.Workers; i++ {
		d.wg.Add(1)
		go d.worker(ctx)
	}
	d.logger.Info("notification dispatcher started", zap.Int("workers", d.opts.Workers), zap.Int("queueSize", d.opts.QueueSize))
}

// Stop closes the queue and waits for the workers to drain it. If ctx ends
// first, in-flight sends are cancelled and ctx's error is returned.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.queue)
	started := d.started
	d.mu.Unlock()

	if !started {
		for j := range d.queue {
			d.deadLetter(j, "dispatcher stopped before start", nil)
		}
		return nil
	}

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.cancel()
		d.logger.Info("notification dispatcher stopped")
		return nil
	case <-ctx.Done():
		d.cancel()
		<-done
		return ctx.Err()
	}
}

// OrderPlaced queues one notification per farmer with lines in order.
func (d *Dispatcher) OrderPlaced(order domain.Order) {
	grouped := order.LinesByFarmer()
	farmerIDs := make([]string, 0, len(grouped))
	for farmerID := range grouped {
		farmerIDs = append(farmerIDs, farmerID)
	}
	sort.Strings(farmerIDs)

	for _, farmerID := range farmerIDs {
		d.enqueue(job{kind: KindOrderPlaced, order: order, farmerID: farmerID, lines: grouped[farmerID]})
	}
}

// OrderCancelled queues the customer notification when the order carries an
// email address.
func (d *Dispatcher) OrderCancelled(order domain.Order) {
	if !order.Customer.HasEmail() {
		d.logger.Warn("cancelled order has no customer email, skipping notification", zap.String("orderId", order.ID))
		return
	}
	d.enqueue(job{kind: KindOrderCancelled, order: order})
}

func (d *Dispatcher) enqueue(j job) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.deadLetter(j, "dispatcher stopped", nil)
		return
	}

	select {
	case d.queue <- j:
	default:
		d.deadLetter(j, "queue full", nil)
	}
}

func (d *Dispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	for j := range d.queue {
		d.process(ctx, j)
	}
}

func (d *Dispatcher) process(ctx context.Context, j job) {
	msg, err := d.build(ctx, j)
	if err != nil {
		d.deadLetter(j, "building message failed", err)
		return
	}

	var lastErr error
	for attempt := 1; attempt <= d.opts.MaxAttempts; attempt++ {
		if attempt > 1 {
			if !sleep(ctx, backoff(d.opts.Backoff, attempt)) {
				d.deadLetter(j, "dispatcher cancelled", ctx.Err())
				return
			}
		}

		sendCtx, cancel := context.WithTimeout(ctx, d.opts.SendTimeout)
		deliveryID, err := d.sender.Send(sendCtx, msg)
		cancel()
		if err == nil {
			d.logger.Info("notification sent", append(j.fields(),
				zap.String("to", msg.To), zap.String("deliveryId", deliveryID), zap.Int("attempt", attempt))...)
			return
		}

		lastErr = err
		d.logger.Warn("notification send failed", append(j.fields(),
			zap.Int("attempt", attempt), zap.Int("maxAttempts", d.opts.MaxAttempts), zap.Error(err))...)
	}

	d.deadLetter(j, "retries exhausted", lastErr)
}

func (d *Dispatcher) build(ctx context.Context, j job) (Message, error) {
	switch j.kind {
	case KindOrderPlaced:
		lookupCtx, cancel := context.WithTimeout(ctx, d.opts.SendTimeout)
		defer cancel()
		contact, err := d.contacts.FindByFarmerID(lookupCtx, j.farmerID)
		if err != nil {
			return Message{}, fmt.Errorf("looking up farmer contact: %w", err)
		}
		if contact.Email == "" {
			return Message{}, fmt.Errorf("farmer %s has no email", j.farmerID)
		}
		return RenderOrderPlaced(j.order, *contact, j.lines)
	case KindOrderCancelled:
		return RenderOrderCancelled(j.order)
	default:
		return Message{}, fmt.Errorf("unknown notification kind %q", j.kind)
	}
}

func (d *Dispatcher) deadLetter(j job, reason string, err error) {
	fields := append(j.fields(), zap.String("reason", reason))
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	d.logger.Error("notification dead-lettered", fields...)
}

// backoff doubles base per attempt with +/-20% jitter.
func backoff(base time.Duration, attempt int) time.Duration {
	d := base << (attempt - 2)
	jitter := time.Duration(float64(d) * (rand.Float64()*0.4 - 0.2))
	return d + jitter
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
