// internal/app/system/notify/notify.go
//
// Package notify delivers owner notifications for public submissions. A
// Dispatcher queues messages and hands them to a Sender on its own
// goroutine, so a slow or failing channel never delays or fails the
// submission that triggered it.
package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/orkestra-ventures/orkestra/internal/app/system/mailer"
	"go.uber.org/zap"
)

// DefaultQueueSize bounds how many notifications may wait for delivery.
const DefaultQueueSize = 256

var ErrStopped = errors.New("notify: dispatcher stopped")

// Message is one owner notification.
type Message struct {
	Kind     string // "application", "contact message", ...
	Resource string
	RecordID int64
	Fields   []mailer.Field
	Text     string
	At       time.Time
}

// Sender delivers one message through one channel.
type Sender interface {
	Name() string
	Send(ctx context.Context, m Message) error
}

// Dispatcher queues messages for background delivery.
type Dispatcher struct {
	sender  Sender
	logger  *zap.Logger
	timeout time.Duration

	mu      sync.RWMutex
	queue   chan Message
	stopped bool
	started bool
	done    chan struct{}
}

// NewDispatcher returns a dispatcher for sender. Call Start before Enqueue
// for messages to be delivered.
func NewDispatcher(sender Sender, logger *zap.Logger, queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Dispatcher{
		sender:  sender,
		logger:  logger,
		timeout: 30 * time.Second,
		queue:   make(chan Message, queueSize),
		done:    make(chan struct{}),
	}
}

// Start launches the delivery goroutine.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.stopped {
		return
	}
	d.started = true
	go d.run()
	d.logger.Info("notification dispatcher started", zap.String("channel", d.sender.Name()))
}

// Enqueue schedules m for delivery without blocking. It reports false when
// the queue is full or the dispatcher has stopped. A nil Dispatcher drops
// every message.
func (d *Dispatcher) Enqueue(m Message) bool {
	if d == nil {
		return false
	}
	if m.At.IsZero() {
		m.At = time.Now().UTC()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return false
	}
	select {
	case d.queue <- m:
		return true
	default:
		d.logger.Warn("notification queue full; dropping message",
			zap.String("resource", m.Resource), zap.Int64("record_id", m.RecordID))
		return false
	}
}

// Stop stops accepting messages and waits for queued ones to be delivered,
// or for ctx to end.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return nil
	}
	d.stopped = true
	close(d.queue)
	started := d.started
	d.mu.Unlock()

	if !started {
		return nil
	}
	select {
	case <-d.done:
		d.logger.Info("notification dispatcher stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for m := range d.queue {
		d.deliver(m)
	}
}

func (d *Dispatcher) deliver(m Message) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if err := d.sender.Send(ctx, m); err != nil {
		d.logger.Error("notification delivery failed",
			zap.String("channel", d.sender.Name()),
			zap.String("resource", m.Resource),
			zap.Int64("record_id", m.RecordID),
			zap.Error(err))
		return
	}
	d.logger.Debug("notification delivered",
		zap.String("channel", d.sender.Name()),
		zap.String("resource", m.Resource),
		zap.Int64("record_id", m.RecordID))
}
