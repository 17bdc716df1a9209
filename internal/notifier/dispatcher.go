package notifier

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Dispatcher runs notification work off the request path on a small fixed
// worker pool. Submit never blocks the caller: when the queue is full the
// event is dropped and logged. Failed tasks are never retried.
type Dispatcher struct {
	notifier *Notifier
	queue    chan Event
	logger   *logrus.Logger
	wg       sync.WaitGroup
	timeout  time.Duration

	mu     sync.Mutex
	closed bool
}

func NewDispatcher(notifier *Notifier, workers, queueSize int, logger *logrus.Logger) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 64
	}

	d := &Dispatcher{
		notifier: notifier,
		queue:    make(chan Event, queueSize),
		logger:   logger,
		timeout:  30 * time.Second,
	}

	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}

	return d
}

// Submit queues an event for background notification. Events submitted
// after Close are dropped like events hitting a full queue.
func (d *Dispatcher) Submit(event Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		d.logger.WithFields(logrus.Fields{
			"event_type": event.EventType,
			"app_name":   event.AppName,
		}).Warn("Notification dispatcher closed, dropping event")
		return
	}

	select {
	case d.queue <- event:
	default:
		d.logger.WithFields(logrus.Fields{
			"event_type": event.EventType,
			"app_name":   event.AppName,
		}).Warn("Notification queue full, dropping event")
	}
}

// Close stops accepting events and waits for in-flight work to finish.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for event := range d.queue {
		func() {
			defer func() {
				if r := recover(); r != nil {
					d.logger.WithField("panic", r).Error("Notification worker recovered from panic")
				}
			}()

			ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
			defer cancel()
			d.notifier.Notify(ctx, event)
		}()
	}
}
