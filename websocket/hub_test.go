package websocket

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/anjiri1684/mentor_connect/models"
	"github.com/google/uuid"
)

type fakeConn struct {
	mu      sync.Mutex
	written []interface{}
	closed  bool
	fail    bool
	got     chan struct{}
	gone    chan struct{}
}

func newFakeConn() *fakeConn {
	return &fakeConn{got: make(chan struct{}, 8), gone: make(chan struct{})}
}

func (f *fakeConn) WriteJSON(v interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	defer func() { f.got <- struct{}{} }()
	if f.fail {
		return errors.New("broken pipe")
	}
	f.written = append(f.written, v)
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.gone)
	}
	return nil
}

func (f *fakeConn) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.written)
}

func waitFor(t *testing.T, ch chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for delivery")
	}
}

// stallConn blocks every write until release is closed.
type stallConn struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newStallConn() *stallConn {
	return &stallConn{entered: make(chan struct{}), release: make(chan struct{})}
}

func (s *stallConn) WriteJSON(v interface{}) error {
	s.once.Do(func() { close(s.entered) })
	<-s.release
	return errors.New("connection reset")
}

func (s *stallConn) Close() error { return nil }

func returnsWithin(t *testing.T, what string, fn func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		fn()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("%s did not return", what)
	}
}

func TestHubDeliversToReceiverOnly(t *testing.T) {
	h := NewHub()
	go h.Run()
	defer h.Stop()

	sender, receiver := uuid.New(), uuid.New()
	senderConn, receiverConn := newFakeConn(), newFakeConn()
	h.Register(&Client{UserID: sender, Conn: senderConn})
	h.Register(&Client{UserID: receiver, Conn: receiverConn})

	h.Publish(&models.Message{ID: uuid.New(), SenderID: sender, ReceiverID: receiver, Content: "hi"})
	waitFor(t, receiverConn.got)

	if receiverConn.count() != 1 {
		t.Errorf("receiver should get one message, got %d", receiverConn.count())
	}
	if senderConn.count() != 0 {
		t.Errorf("sender should get nothing, got %d", senderConn.count())
	}
}

func TestHubDropsBrokenConnection(t *testing.T) {
	h := NewHub()
	go h.Run()
	defer h.Stop()

	receiver := uuid.New()
	conn := newFakeConn()
	conn.fail = true
	h.Register(&Client{UserID: receiver, Conn: conn})
	h.Unregister(&Client{UserID: uuid.New(), Conn: newFakeConn()})
	if !h.Connected(receiver) {
		t.Fatal("receiver should be connected")
	}

	h.Publish(&models.Message{ID: uuid.New(), ReceiverID: receiver})
	waitFor(t, conn.gone)

	if h.Connected(receiver) {
		t.Error("broken connection should be removed")
	}
}

func TestHubReplacesOlderConnection(t *testing.T) {
	h := NewHub()
	go h.Run()
	defer h.Stop()

	user := uuid.New()
	first, second := newFakeConn(), newFakeConn()
	h.Register(&Client{UserID: user, Conn: first})
	h.Register(&Client{UserID: user, Conn: second})
	waitFor(t, first.gone)

	// Stale unregister from the first connection must not remove the second.
	h.Unregister(&Client{UserID: user, Conn: first})
	if !h.Connected(user) {
		t.Error("newer connection should stay registered")
	}

	h.Publish(&models.Message{ID: uuid.New(), ReceiverID: user})
	waitFor(t, second.got)
	if first.count() != 0 {
		t.Errorf("older connection should get nothing, got %d", first.count())
	}
}

func TestHubKeepsServingWhileReceiverStalls(t *testing.T) {
	h := NewHub()
	go h.Run()
	defer h.Stop()

	slowUser := uuid.New()
	slow := newStallConn()
	defer close(slow.release)
	h.Register(&Client{UserID: slowUser, Conn: slow})
	h.Publish(&models.Message{ID: uuid.New(), ReceiverID: slowUser})
	waitFor(t, slow.entered)

	other := uuid.New()
	otherConn := newFakeConn()
	returnsWithin(t, "Register of another user", func() {
		h.Register(&Client{UserID: other, Conn: otherConn})
	})
	h.Publish(&models.Message{ID: uuid.New(), ReceiverID: other})
	waitFor(t, otherConn.got)
}

func TestHubDisconnectsReceiverThatFallsBehind(t *testing.T) {
	h := NewHub()
	go h.Run()
	defer h.Stop()

	slowUser := uuid.New()
	slow := newStallConn()
	defer close(slow.release)
	h.Register(&Client{UserID: slowUser, Conn: slow})
	h.Publish(&models.Message{ID: uuid.New(), ReceiverID: slowUser})
	waitFor(t, slow.entered)

	// One message is held by the writer; the buffer fills, then overflows.
	for i := 0; i < sendBuffer+1; i++ {
		h.Publish(&models.Message{ID: uuid.New(), ReceiverID: slowUser})
	}
	deadline := time.Now().Add(2 * time.Second)
	for h.Connected(slowUser) {
		if time.Now().After(deadline) {
			t.Fatal("receiver that fell behind should be disconnected")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// overlapConn records whether two writes were ever in flight at once.
type overlapConn struct {
	inFlight int32
	overlap  int32
	writes   int32
}

func (o *overlapConn) WriteJSON(v interface{}) error {
	if atomic.AddInt32(&o.inFlight, 1) > 1 {
		atomic.StoreInt32(&o.overlap, 1)
	}
	time.Sleep(time.Millisecond)
	atomic.AddInt32(&o.writes, 1)
	atomic.AddInt32(&o.inFlight, -1)
	return nil
}

func (o *overlapConn) Close() error { return nil }

func TestSyncConnSerializesWrites(t *testing.T) {
	raw := &overlapConn{}
	conn := NewSyncConn(raw)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				_ = conn.WriteJSON(j)
			}
		}()
	}
	wg.Wait()

	if atomic.LoadInt32(&raw.overlap) != 0 {
		t.Fatal("writes overlapped")
	}
	if got := atomic.LoadInt32(&raw.writes); got != 40 {
		t.Fatalf("writes = %d, want 40", got)
	}
}

type deadlineConn struct {
	*fakeConn
	deadline time.Time
}

func (d *deadlineConn) SetWriteDeadline(t time.Time) error {
	d.deadline = t
	return nil
}

func TestSyncConnSetsWriteDeadline(t *testing.T) {
	raw := &deadlineConn{fakeConn: newFakeConn()}
	before := time.Now()
	if err := NewSyncConn(raw).WriteJSON("hello"); err != nil {
		t.Fatal(err)
	}
	if raw.deadline.Before(before.Add(writeWait)) {
		t.Errorf("expected deadline at least %v ahead, got %v", writeWait, raw.deadline.Sub(before))
	}
	if raw.count() != 1 {
		t.Errorf("expected one write, got %d", raw.count())
	}
}
