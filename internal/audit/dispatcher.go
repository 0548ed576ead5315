package audit

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type Event struct {
	ActorID  string
	BarberID string
	Action   string
	Entity   string
	EntityID string
	Metadata any
}

// Dispatcher writes audit rows off the request path. A full queue drops
// the event: auditing never fails a business operation.
type Dispatcher struct {
	logger *Logger
	log    *zap.Logger
	queue  chan Event
	done   chan struct{}
	once   sync.Once
}

func NewDispatcher(logger *Logger, log *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		logger: logger,
		log:    log,
		queue:  make(chan Event, 100),
		done:   make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for ev := range d.queue {
		if err := d.logger.Log(context.Background(), ev); err != nil {
			d.log.Warn("audit write failed", zap.String("action", ev.Action), zap.Error(err))
		}
	}
}

// Dispatch is safe on a nil Dispatcher.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}
	select {
	case d.queue <- ev:
	default:
		d.log.Warn("audit queue full, dropping event", zap.String("action", ev.Action))
	}
}

// Close drains pending events. No Dispatch may follow.
func (d *Dispatcher) Close(ctx context.Context) {
	if d == nil {
		return
	}
	d.once.Do(func() { close(d.queue) })
	select {
	case <-d.done:
	case <-ctx.Done():
	}
}
