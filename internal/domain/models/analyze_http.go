package models

import "time"

// Requests for analysis HTTP endpoints. Defined in domain for consistency and reuse.

type AnalyzeRequest struct {
	Text string `json:"text" query:"text" validate:"required,min=1,max=2000"`
}

type ResolveRequest struct {
	Text string `json:"text" query:"text" validate:"required,min=1,max=2000"`
}

type SectorRequest struct {
	Sector string `param:"sector" validate:"required,min=2,max=32"`
}

// ResolveResponse is the resolution-only view (no enrichment).
type ResolveResponse struct {
	Resolution Resolution   `json:"resolution"`
	Warnings   []Warning    `json:"warnings"`
	Hitl       HitlDecision `json:"hitl"`
}

// JobStatus values for async analysis jobs.
const (
	JobPending = "pending"
	JobRunning = "running"
	JobDone    = "done"
	JobFailed  = "failed"
)

// AnalysisJob tracks one async pipeline run.
type AnalysisJob struct {
	ID         string         `json:"id"`
	Status     string         `json:"status"`
	Text       string         `json:"text"`
	Error      string         `json:"error,omitempty"`
	State      *PipelineState `json:"state,omitempty"`
	FinishedAt time.Time      `json:"finished_at,omitempty"`
}

// AuditEvent is the record published per completed analysis. The request
// text is carried as a sha256 digest so raw queries stay out of the topic.
type AuditEvent struct {
	RequestHash string     `json:"request_hash"`
	Mode        string     `json:"mode"`
	Tickers     []string   `json:"tickers"`
	HitlReason  HitlReason `json:"hitl_reason"`
	Warnings    int        `json:"warnings"`
	DurationMS  int64      `json:"duration_ms"`
	Timestamp   string     `json:"timestamp"`
}
