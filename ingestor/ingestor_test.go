package ingestor

import (
	"errors"
	"testing"
	"time"

	client "github.com/elastic/go-lumber/client/v2"
	lj "github.com/elastic/go-lumber/lj"
	srv2 "github.com/elastic/go-lumber/server/v2"
)

func TestParseEvent_MissingMessageField(t *testing.T) {
	evt := map[string]interface{}{}
	_, err := parseEvent(evt, 1, nil)
	if !errors.Is(err, ErrMissingMessage) {
		t.Errorf("expected missing message field error, got %v", err)
	}
}

func TestParseEvent_NonStringMessage(t *testing.T) {
	evt := map[string]interface{}{"message": 42}
	_, err := parseEvent(evt, 1, nil)
	if !errors.Is(err, ErrMissingMessage) {
		t.Errorf("expected missing message field error, got %v", err)
	}
}

func TestParseEvent_MultipleKeys(t *testing.T) {
	evt := map[string]interface{}{"message": " 3, 1 2\t1 "}
	got, err := parseEvent(evt, 7, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"3", "1", "2", "1"}
	if len(got) != len(want) {
		t.Fatalf("expected %d tokens, got %v", len(want), got)
	}
	for i, w := range want {
		if got[i].Text != w || got[i].Line != 7 {
			t.Errorf("token %d: expected {%s 7}, got %+v", i, w, got[i])
		}
	}
}

func TestParseEvent_CommentAndBlank(t *testing.T) {
	for _, msg := range []string{"", "   ", "# comment 1 2"} {
		got, err := parseEvent(map[string]interface{}{"message": msg}, 1, nil)
		if err != nil || len(got) != 0 {
			t.Errorf("message %q: expected no tokens and no error, got %v, %v", msg, got, err)
		}
	}
}

func makeBatch(events ...interface{}) *lj.Batch {
	return &lj.Batch{
		Events: events,
	}
}

func TestReadBatch_EmptyChannel(t *testing.T) {
	ing := &TCPIngestor{
		events: make(chan *lj.Batch),
	}
	got, skipped, err := ing.ReadBatch()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 || skipped != 0 {
		t.Errorf("expected empty result, got %v (skipped %d)", got, skipped)
	}
}

func TestReadBatch_ClosedChannel(t *testing.T) {
	ing := &TCPIngestor{
		events: make(chan *lj.Batch),
	}
	close(ing.events)
	got, _, err := ing.ReadBatch()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
}

func TestReadBatch_MultipleEventsAndBatches(t *testing.T) {
	ing := &TCPIngestor{
		events: make(chan *lj.Batch, 2),
	}
	ing.events <- makeBatch(map[string]interface{}{"message": "5 4"})
	ing.events <- makeBatch(map[string]interface{}{"message": "3"})

	got, skipped, err := ing.ReadBatch()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if skipped != 0 {
		t.Errorf("expected nothing skipped, got %d", skipped)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 tokens, got %v", got)
	}
	if got[0].Line != 1 || got[1].Line != 1 || got[2].Line != 2 {
		t.Errorf("unexpected event numbering: %+v", got)
	}
}

func TestReadBatch_SkipsInvalidEvents(t *testing.T) {
	ing := &TCPIngestor{
		events: make(chan *lj.Batch, 1),
	}
	ing.events <- makeBatch(map[string]interface{}{}, "not a map", 123, nil, map[string]interface{}{"message": "9"})

	got, skipped, err := ing.ReadBatch()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if skipped != 4 {
		t.Errorf("expected 4 skipped events, got %d", skipped)
	}
	if len(got) != 1 || got[0].Text != "9" || got[0].Line != 5 {
		t.Errorf("unexpected tokens: %+v", got)
	}
}

func TestIsClosed_NoServer(t *testing.T) {
	ing := &TCPIngestor{events: make(chan *lj.Batch)}
	if !ing.IsClosed() {
		t.Error("ingestor without server should report closed")
	}
}

func TestIsClosed_KeepsQueueOrder(t *testing.T) {
	ing := &TCPIngestor{
		events: make(chan *lj.Batch, 2),
		server: &srv2.Server{},
	}
	ing.events <- makeBatch(map[string]interface{}{"message": "1"})
	ing.events <- makeBatch(map[string]interface{}{"message": "2"})

	if ing.IsClosed() {
		t.Fatal("running ingestor should not report closed")
	}
	// Server stopped, but batches are still queued
	ing.closed.Store(true)
	if ing.IsClosed() {
		t.Fatal("ingestor with queued batches should not report closed")
	}

	got, _, err := ing.ReadBatch()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].Text != "1" || got[1].Text != "2" {
		t.Errorf("batches should keep arrival order, got %+v", got)
	}
	if !ing.IsClosed() {
		t.Error("drained ingestor with stopped server should report closed")
	}
}

func TestIsClosed_FullQueueDoesNotBlock(t *testing.T) {
	ing := &TCPIngestor{
		events: make(chan *lj.Batch, 1),
		server: &srv2.Server{},
	}
	ing.events <- makeBatch(map[string]interface{}{"message": "1"})

	done := make(chan bool)
	go func() { done <- ing.IsClosed() }()
	select {
	case closed := <-done:
		if closed {
			t.Error("full queue should not report closed")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("IsClosed blocked on a full queue")
	}
}

func TestTCPIngestor_ReceivesFromClient(t *testing.T) {
	ing, err := NewTCPIngestor("127.0.0.1:0", 5*time.Second)
	if err != nil {
		t.Fatalf("NewTCPIngestor: %v", err)
	}
	defer ing.Close()

	if err := ing.Accept(); err != nil {
		t.Fatalf("Accept: %v", err)
	}

	cl, err := client.SyncDial(ing.Addr().String())
	if err != nil {
		t.Fatalf("SyncDial: %v", err)
	}
	defer cl.Close()

	events := []interface{}{
		map[string]interface{}{"message": "3 1"},
		map[string]interface{}{"message": "2 1"},
	}
	if _, err := cl.Send(events); err != nil {
		t.Fatalf("Send: %v", err)
	}

	var tokens []Token
	deadline := time.Now().Add(5 * time.Second)
	for len(tokens) < 4 && time.Now().Before(deadline) {
		got, _, err := ing.ReadBatch()
		if err != nil {
			t.Fatalf("ReadBatch: %v", err)
		}
		tokens = append(tokens, got...)
		if len(tokens) < 4 {
			time.Sleep(10 * time.Millisecond)
		}
	}

	keys, err := ParseKeys[int64](tokens)
	if err != nil {
		t.Fatalf("ParseKeys: %v", err)
	}
	want := []int64{3, 1, 2, 1}
	if len(keys) != len(want) {
		t.Fatalf("expected %v, got %v", want, keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("key %d: expected %d, got %d", i, want[i], keys[i])
		}
	}
}
