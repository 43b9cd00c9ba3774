package notifications

import (
	"context"
	"log"
	"sync"
	"time"
)

var Default *Dispatcher

// Dispatcher delivers emails from a bounded queue on background workers.
// Delivery is best effort: a full queue drops the email, failures are logged.
type Dispatcher struct {
	sender  Sender
	queue   chan Email
	timeout time.Duration

	wg        sync.WaitGroup
	closeOnce sync.Once
	mu        sync.RWMutex
	closed    bool
}

func NewDispatcher(sender Sender, size int) *Dispatcher {
	if size < 1 {
		size = 1
	}
	return &Dispatcher{
		sender:  sender,
		queue:   make(chan Email, size),
		timeout: 15 * time.Second,
	}
}

func (d *Dispatcher) Start(workers int) {
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.work()
	}
}

// Enqueue reports whether the email was accepted.
func (d *Dispatcher) Enqueue(e Email) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		log.Printf("⚠️ Email dispatcher closed, dropping email to %s", e.ToEmail)
		return false
	}
	select {
	case d.queue <- e:
		return true
	default:
		log.Printf("⚠️ Email queue full, dropping email to %s", e.ToEmail)
		return false
	}
}

// Close stops accepting emails and waits for queued ones to be delivered.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		d.mu.Lock()
		d.closed = true
		close(d.queue)
		d.mu.Unlock()
	})
	d.wg.Wait()
}

func (d *Dispatcher) work() {
	defer d.wg.Done()
	for e := range d.queue {
		d.deliver(e)
	}
}

func (d *Dispatcher) deliver(e Email) {
	if d.sender == nil {
		log.Printf("Email client not initialized, skipping email to %s", e.ToEmail)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	if err := d.sender.Send(ctx, e); err != nil {
		log.Printf("🔥 Failed to send email to %s: %v", e.ToEmail, err)
		return
	}
	log.Printf("✅ Email sent successfully to %s", e.ToEmail)
}
