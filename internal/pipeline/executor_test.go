package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"CryptoAnalyst/internal/domain/models"
	"CryptoAnalyst/pkg/logger"
)

type recordingMetrics struct {
	stages []string
	errs   []string
}

func (m *recordingMetrics) RecordResolution(string) {}
func (m *recordingMetrics) RecordHitl(string)       {}
func (m *recordingMetrics) RecordWarning(string)    {}
func (m *recordingMetrics) RecordError(kind string) { m.errs = append(m.errs, kind) }
func (m *recordingMetrics) RecordStageDuration(stage string, _ float64) {
	m.stages = append(m.stages, stage)
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	lgr, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return lgr
}

func okStage(name string) Stage {
	return NewStage(name, func(_ context.Context, st *models.PipelineState) (string, error) {
		return name + " done", nil
	})
}

func TestRunExecutesStagesInOrder(t *testing.T) {
	m := &recordingMetrics{}
	ex := NewExecutor(m, testLogger(t), okStage("one"), okStage("two"), okStage("three"))

	st := models.NewPipelineState("input")
	if err := ex.Run(context.Background(), st); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []string{"one", "two", "three"}
	if len(st.Log) != len(want) {
		t.Fatalf("log has %d entries, want %d", len(st.Log), len(want))
	}
	for i, name := range want {
		if st.Log[i].Stage != name {
			t.Fatalf("log[%d] = %s, want %s", i, st.Log[i].Stage, name)
		}
		if st.Log[i].Content != name+" done" {
			t.Fatalf("log[%d] content = %q", i, st.Log[i].Content)
		}
		if st.Log[i].Timestamp.IsZero() {
			t.Fatalf("log[%d] missing timestamp", i)
		}
	}
	if len(m.stages) != 3 {
		t.Fatalf("recorded %d stage durations, want 3", len(m.stages))
	}
}

func TestRunStopsAtFailingStage(t *testing.T) {
	m := &recordingMetrics{}
	boom := errors.New("boom")
	failing := NewStage("failing", func(context.Context, *models.PipelineState) (string, error) {
		return "", boom
	})
	var reached bool
	after := NewStage("after", func(context.Context, *models.PipelineState) (string, error) {
		reached = true
		return "", nil
	})
	ex := NewExecutor(m, testLogger(t), okStage("first"), failing, after)

	st := models.NewPipelineState("input")
	err := ex.Run(context.Background(), st)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped boom", err)
	}
	if !strings.Contains(err.Error(), "failing") {
		t.Fatalf("error should name the stage: %v", err)
	}
	if reached {
		t.Fatal("stage after failure must not run")
	}
	// The failing stage appends no log entry.
	if len(st.Log) != 1 || st.Log[0].Stage != "first" {
		t.Fatalf("unexpected log: %+v", st.Log)
	}
	if len(m.errs) != 1 || m.errs[0] != "stage_failing" {
		t.Fatalf("unexpected error metrics: %v", m.errs)
	}
	// Duration is recorded even for the failed stage.
	if len(m.stages) != 2 {
		t.Fatalf("recorded %d durations, want 2", len(m.stages))
	}
}

func TestRunHonorsContextCancellation(t *testing.T) {
	m := &recordingMetrics{}
	ex := NewExecutor(m, testLogger(t), okStage("one"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	st := models.NewPipelineState("input")
	err := ex.Run(ctx, st)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if len(st.Log) != 0 {
		t.Fatalf("no stage should have run, log: %+v", st.Log)
	}
}

func TestRunWithObserverSeesEntries(t *testing.T) {
	m := &recordingMetrics{}
	ex := NewExecutor(m, testLogger(t), okStage("one"), okStage("two"))

	var seen []models.StageMessage
	st := models.NewPipelineState("input")
	err := ex.RunWithObserver(context.Background(), st, func(msg models.StageMessage) {
		seen = append(seen, msg)
	})
	if err != nil {
		t.Fatalf("RunWithObserver: %v", err)
	}
	if len(seen) != 2 || seen[0].Stage != "one" || seen[1].Stage != "two" {
		t.Fatalf("observer saw %+v", seen)
	}
}

func TestStageNames(t *testing.T) {
	ex := NewExecutor(&recordingMetrics{}, testLogger(t), okStage("a"), okStage("b"))
	names := ex.StageNames()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Fatalf("StageNames = %v", names)
	}
}
