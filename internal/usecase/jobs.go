package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"CryptoAnalyst/internal/domain/models"
	"CryptoAnalyst/pkg/logger"
	"CryptoAnalyst/pkg/queue"
)

// AnalysisJobType is the queue message type for async analysis runs.
const AnalysisJobType = "analysis.run"

// jobRetention is how long finished jobs stay retrievable.
const jobRetention = 30 * time.Minute

type jobPayload struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// JobService runs analyses asynchronously through the queue. Job state lives
// in process memory; the queue carries only the job id and request text.
type JobService struct {
	analyzer *Analyzer
	queue    queue.QueueService
	logger   *logger.Logger

	mu   sync.RWMutex
	jobs map[string]*models.AnalysisJob
}

func NewJobService(analyzer *Analyzer, q queue.QueueService, lgr *logger.Logger) *JobService {
	return &JobService{
		analyzer: analyzer,
		queue:    q,
		logger:   lgr,
		jobs:     make(map[string]*models.AnalysisJob),
	}
}

// Start enqueues a new analysis job and returns it in pending state.
func (s *JobService) Start(ctx context.Context, text string) (models.AnalysisJob, error) {
	id, err := newJobID()
	if err != nil {
		return models.AnalysisJob{}, fmt.Errorf("generate job id: %w", err)
	}

	job := &models.AnalysisJob{ID: id, Status: models.JobPending, Text: text}
	s.mu.Lock()
	s.evictExpired()
	s.jobs[id] = job
	s.mu.Unlock()

	if err := s.queue.PublishMessage(ctx, AnalysisJobType, jobPayload{ID: id, Text: text}); err != nil {
		s.mu.Lock()
		delete(s.jobs, id)
		s.mu.Unlock()
		return models.AnalysisJob{}, fmt.Errorf("enqueue job: %w", err)
	}
	return *job, nil
}

// Get returns a copy of the job, or false when unknown or expired.
func (s *JobService) Get(id string) (models.AnalysisJob, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok || jobExpired(job, time.Now()) {
		return models.AnalysisJob{}, false
	}
	return *job, true
}

// evictExpired drops finished jobs past retention. Caller holds s.mu.
func (s *JobService) evictExpired() {
	now := time.Now()
	for id, job := range s.jobs {
		if jobExpired(job, now) {
			delete(s.jobs, id)
		}
	}
}

func jobExpired(job *models.AnalysisJob, now time.Time) bool {
	return !job.FinishedAt.IsZero() && now.Sub(job.FinishedAt) > jobRetention
}

// Name implements queue.Job.
func (s *JobService) Name() string { return "analysis-runner" }

// Type implements queue.Job.
func (s *JobService) Type() string { return AnalysisJobType }

// Handle implements queue.Job: it runs the pipeline for one queued request.
func (s *JobService) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[jobPayload](payload)
	if err != nil {
		return fmt.Errorf("parse job payload: %w", err)
	}

	s.setStatus(p.ID, models.JobRunning, "", nil)
	st, runErr := s.analyzer.Analyze(ctx, p.Text)
	if runErr != nil {
		s.setStatus(p.ID, models.JobFailed, runErr.Error(), st)
		s.logger.Error("analysis job failed",
			logger.String("job_id", p.ID), logger.Error(runErr))
		return runErr
	}
	s.setStatus(p.ID, models.JobDone, "", st)
	return nil
}

func (s *JobService) setStatus(id, status, errMsg string, st *models.PipelineState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		// Job enqueued by a previous process instance; recreate the record.
		job = &models.AnalysisJob{ID: id}
		s.jobs[id] = job
	}
	job.Status = status
	job.Error = errMsg
	if st != nil {
		job.State = st
	}
	if status == models.JobDone || status == models.JobFailed {
		job.FinishedAt = time.Now()
	}
}

func newJobID() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}

var _ queue.Job = (*JobService)(nil)
