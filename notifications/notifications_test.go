package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

type fakeSender struct {
	mu    sync.Mutex
	sent  []Email
	fail  bool
	block chan struct{}
}

func (f *fakeSender) Send(_ context.Context, e Email) error {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("smtp down")
	}
	f.sent = append(f.sent, e)
	return nil
}

func TestDispatcherDeliversQueuedEmails(t *testing.T) {
	sender := &fakeSender{}
	d := NewDispatcher(sender, 10)
	d.Start(3)

	for _, to := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		if !d.Enqueue(Email{ToEmail: to, Subject: "Hello"}) {
			t.Fatalf("enqueue %s rejected", to)
		}
	}
	d.Close()

	if len(sender.sent) != 3 {
		t.Errorf("expected 3 delivered emails, got %d", len(sender.sent))
	}
	if d.Enqueue(Email{ToEmail: "late@example.com"}) {
		t.Error("closed dispatcher should reject emails")
	}
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	sender := &fakeSender{block: make(chan struct{})}
	d := NewDispatcher(sender, 1)

	// No workers yet: the first email fills the queue.
	if !d.Enqueue(Email{ToEmail: "a@example.com"}) {
		t.Fatal("first email should fit")
	}
	if d.Enqueue(Email{ToEmail: "b@example.com"}) {
		t.Fatal("second email should be dropped")
	}

	d.Start(1)
	close(sender.block)
	d.Close()

	if len(sender.sent) != 1 || sender.sent[0].ToEmail != "a@example.com" {
		t.Errorf("unexpected deliveries %+v", sender.sent)
	}
}

func TestDispatcherSurvivesFailures(t *testing.T) {
	sender := &fakeSender{fail: true}
	d := NewDispatcher(sender, 4)
	d.Start(1)
	d.Enqueue(Email{ToEmail: "a@example.com"})
	d.Close()

	nilSender := NewDispatcher(nil, 1)
	nilSender.Start(1)
	nilSender.Enqueue(Email{ToEmail: "a@example.com"})
	nilSender.Close()
}

func TestBrevoSend(t *testing.T) {
	var got brevoPayload
	var apiKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey = r.Header.Get("api-key")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	s := NewBrevoService("key-123", "noreply@example.com", "Mentor Connect")
	s.URL = srv.URL

	err := s.Send(context.Background(), Email{ToEmail: "student@example.com", Subject: "Streak", HTML: "<p>hi</p>"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if apiKey != "key-123" {
		t.Errorf("expected api key header, got %q", apiKey)
	}
	if got.Subject != "Streak" || got.HTMLContent != "<p>hi</p>" {
		t.Errorf("unexpected payload %+v", got)
	}
	if len(got.To) != 1 || got.To[0]["name"] != "student" {
		t.Errorf("recipient name should default to the email local part, got %+v", got.To)
	}
}

func TestBrevoSendErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	s := NewBrevoService("key", "noreply@example.com", "Mentor Connect")
	s.URL = srv.URL

	if err := s.Send(context.Background(), Email{ToEmail: "not-an-email"}); err == nil {
		t.Error("expected invalid recipient error")
	}
	if err := s.Send(context.Background(), Email{ToEmail: "a@example.com"}); err == nil {
		t.Error("expected error for non-201 response")
	}
}
