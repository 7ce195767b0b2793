package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"CryptoAnalyst/pkg/logger"
)

// MemoryQueue is an in-process queue for single-instance deployments and
// tests. Same job contract as RedisQueue, no persistence.
type MemoryQueue struct {
	logger *logger.Logger
	config *QueueConfig
	jobs   map[string]Job
	ch     chan Message
	wg     sync.WaitGroup
	mu     sync.RWMutex
	cancel context.CancelFunc
	run    bool
}

func NewMemoryQueue(lgr *logger.Logger, config *QueueConfig) *MemoryQueue {
	if config == nil {
		config = &QueueConfig{}
	}
	if config.Workers <= 0 {
		config.Workers = 1
	}
	if config.QueueSize <= 0 {
		config.QueueSize = 128
	}
	return &MemoryQueue{
		logger: lgr,
		config: config,
		jobs:   make(map[string]Job),
		ch:     make(chan Message, config.QueueSize),
	}
}

func (m *MemoryQueue) RegisterJob(job Job) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.jobs[job.Type()]; exists {
		m.logger.Warn("job already registered", logger.String("job", job.Name()))
		return
	}
	m.jobs[job.Type()] = job
}

func (m *MemoryQueue) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.run {
		return fmt.Errorf("queue already running")
	}
	m.run = true

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	for i := 0; i < m.config.Workers; i++ {
		m.wg.Add(1)
		go m.worker(ctx, i)
	}
	m.logger.Info("memory queue started", logger.Int("workers", m.config.Workers))
	return nil
}

func (m *MemoryQueue) Stop(ctx context.Context) error {
	m.mu.Lock()
	if !m.run {
		m.mu.Unlock()
		return nil
	}
	m.run = false
	m.cancel()
	m.mu.Unlock()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()
	select {
	case <-ctx.Done():
		return fmt.Errorf("timeout: %w", ctx.Err())
	case <-done:
		return nil
	}
}

// PublishMessage implements QueueService.
func (m *MemoryQueue) PublishMessage(ctx context.Context, msgType string, payload interface{}) error {
	m.mu.RLock()
	running := m.run
	_, known := m.jobs[msgType]
	m.mu.RUnlock()
	if !running {
		return fmt.Errorf("queue not running")
	}
	if !known {
		return fmt.Errorf("no job registered for type: %s", msgType)
	}

	msg := Message{
		ID:        fmt.Sprintf("%d", time.Now().UnixNano()),
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now(),
	}
	select {
	case m.ch <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("queue full")
	}
}

func (m *MemoryQueue) worker(ctx context.Context, id int) {
	defer m.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-m.ch:
			m.mu.RLock()
			job := m.jobs[msg.Type]
			m.mu.RUnlock()
			if job == nil {
				continue
			}
			if err := job.Handle(ctx, msg.Payload); err != nil {
				m.logger.Error("message processing error",
					logger.String("id", msg.ID),
					logger.String("job", job.Name()),
					logger.Error(err))
			}
		}
	}
}

var _ QueueService = (*MemoryQueue)(nil)
