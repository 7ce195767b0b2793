package queue

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"CryptoAnalyst/pkg/logger"
)

type testPayload struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type recordingJob struct {
	mu      sync.Mutex
	handled []testPayload
	err     error
}

func (j *recordingJob) Name() string { return "recording" }
func (j *recordingJob) Type() string { return "test.run" }

func (j *recordingJob) Handle(_ context.Context, payload interface{}) error {
	p, err := ParsePayload[testPayload](payload)
	if err != nil {
		return err
	}
	j.mu.Lock()
	j.handled = append(j.handled, *p)
	j.mu.Unlock()
	return j.err
}

func (j *recordingJob) count() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.handled)
}

func queueLogger(t *testing.T) *logger.Logger {
	t.Helper()
	lgr, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return lgr
}

func TestParsePayloadShapes(t *testing.T) {
	want := testPayload{ID: "1", Text: "hello"}

	if got, err := ParsePayload[testPayload](want); err != nil || *got != want {
		t.Fatalf("struct payload: %v %v", got, err)
	}
	if got, err := ParsePayload[testPayload](&want); err != nil || *got != want {
		t.Fatalf("pointer payload: %v %v", got, err)
	}

	// Decoded JSON object, as a consumer sees it after transport.
	obj := map[string]interface{}{"id": "1", "text": "hello"}
	if got, err := ParsePayload[testPayload](obj); err != nil || *got != want {
		t.Fatalf("map payload: %v %v", got, err)
	}

	raw := json.RawMessage(`{"id":"1","text":"hello"}`)
	if got, err := ParsePayload[testPayload](raw); err != nil || *got != want {
		t.Fatalf("raw payload: %v %v", got, err)
	}

	if _, err := ParsePayload[testPayload](42); err == nil {
		t.Fatal("expected error for unsupported payload type")
	}
}

func TestMemoryQueueRoundTrip(t *testing.T) {
	lgr := queueLogger(t)
	job := &recordingJob{}

	q := NewMemoryQueue(lgr, &QueueConfig{Workers: 1})
	q.RegisterJob(job)
	if err := q.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer q.Stop(context.Background())

	err := q.PublishMessage(context.Background(), "test.run", testPayload{ID: "a", Text: "run"})
	if err != nil {
		t.Fatalf("PublishMessage: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for job.count() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("job was never handled")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestMemoryQueueRejectsUnknownType(t *testing.T) {
	q := NewMemoryQueue(queueLogger(t), nil)
	if err := q.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer q.Stop(context.Background())

	if err := q.PublishMessage(context.Background(), "nobody.home", nil); err == nil {
		t.Fatal("expected error for unregistered message type")
	}
}

func TestMemoryQueueRejectsWhenStopped(t *testing.T) {
	q := NewMemoryQueue(queueLogger(t), nil)
	if err := q.PublishMessage(context.Background(), "test.run", nil); err == nil {
		t.Fatal("expected error before Start")
	}
}

func TestRedisQueueConfigDefaults(t *testing.T) {
	q := NewRedisQueue(queueLogger(t), nil, nil, WithKeyPrefix("custom"))

	if q.config.Workers != 1 {
		t.Fatalf("workers = %d, want 1", q.config.Workers)
	}
	if q.config.RetryDelay != 10*time.Second {
		t.Fatalf("retry delay = %v", q.config.RetryDelay)
	}
	if q.pendingKey() != "custom:messages" ||
		q.retryKey() != "custom:retry" ||
		q.deadLetterKey() != "custom:dlq" {
		t.Fatalf("keys = %s %s %s", q.pendingKey(), q.retryKey(), q.deadLetterKey())
	}
}

func TestRedisQueuePayloadReencoding(t *testing.T) {
	q := NewRedisQueue(queueLogger(t), nil, nil)

	// Objects decoded from the wire come back as maps; handlers need raw JSON.
	out := q.rawPayload(map[string]interface{}{"id": "1", "text": "x"})
	raw, ok := out.(json.RawMessage)
	if !ok {
		t.Fatalf("payload type = %T, want json.RawMessage", out)
	}
	var p testPayload
	if err := json.Unmarshal(raw, &p); err != nil || p.ID != "1" {
		t.Fatalf("round trip failed: %+v %v", p, err)
	}

	// Non-object payloads pass through untouched.
	if got := q.rawPayload("plain"); got != "plain" {
		t.Fatalf("passthrough = %v", got)
	}
}
