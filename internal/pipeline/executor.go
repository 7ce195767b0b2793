// Package pipeline runs a fixed, ordered chain of stages over one shared
// request state. The chain is declared at construction and never branches or
// reorders at run time.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"CryptoAnalyst/internal/domain/models"
	domrepo "CryptoAnalyst/internal/domain/repository"
	"CryptoAnalyst/pkg/logger"
)

// Stage is one pipeline step. Run reads and writes the state fields it is
// documented to own and returns a one-line summary for the audit log; it must
// not depend on another stage's internals.
type Stage interface {
	Name() string
	Run(ctx context.Context, st *models.PipelineState) (string, error)
}

type stageFunc struct {
	name string
	fn   func(ctx context.Context, st *models.PipelineState) (string, error)
}

func (s stageFunc) Name() string { return s.name }
func (s stageFunc) Run(ctx context.Context, st *models.PipelineState) (string, error) {
	return s.fn(ctx, st)
}

// NewStage wraps a function as a Stage.
func NewStage(name string, fn func(ctx context.Context, st *models.PipelineState) (string, error)) Stage {
	return stageFunc{name: name, fn: fn}
}

// Executor threads one PipelineState through its stages in order.
type Executor struct {
	stages  []Stage
	metrics domrepo.Metrics
	logger  *logger.Logger
}

func NewExecutor(metrics domrepo.Metrics, lgr *logger.Logger, stages ...Stage) *Executor {
	return &Executor{stages: stages, metrics: metrics, logger: lgr}
}

// StageNames returns the configured stage names in execution order.
func (e *Executor) StageNames() []string {
	out := make([]string, 0, len(e.stages))
	for _, s := range e.stages {
		out = append(out, s.Name())
	}
	return out
}

// Run executes every stage left to right. Each completed stage appends
// exactly one audit entry. A stage error stops the run with no retry; the
// error is returned with the partially populated state left intact so the
// caller may inspect what completed.
func (e *Executor) Run(ctx context.Context, st *models.PipelineState) error {
	return e.run(ctx, st, nil)
}

// RunWithObserver behaves like Run and additionally invokes observe after
// each stage's audit entry is appended. Used by the streaming endpoint.
func (e *Executor) RunWithObserver(ctx context.Context, st *models.PipelineState, observe func(models.StageMessage)) error {
	return e.run(ctx, st, observe)
}

func (e *Executor) run(ctx context.Context, st *models.PipelineState, observe func(models.StageMessage)) error {
	for _, s := range e.stages {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("stage %s: %w", s.Name(), err)
		}

		start := time.Now()
		summary, err := s.Run(ctx, st)
		e.metrics.RecordStageDuration(s.Name(), time.Since(start).Seconds())
		if err != nil {
			e.metrics.RecordError("stage_" + s.Name())
			e.logger.Error("stage failed",
				logger.String("stage", s.Name()),
				logger.Error(err))
			return fmt.Errorf("stage %s: %w", s.Name(), err)
		}

		st.AppendLog(s.Name(), summary)
		if observe != nil {
			observe(st.Log[len(st.Log)-1])
		}
		e.logger.Debug("stage complete",
			logger.String("stage", s.Name()),
			logger.Duration("took", time.Since(start)))
	}
	return nil
}
