package models

import "time"

// StageMessage is one append-only audit log entry. The executor appends
// exactly one per stage; entries are never rewritten or reordered.
type StageMessage struct {
	Stage     string    `json:"stage"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// PipelineState is the shared state threaded through the pipeline. It is
// owned by a single request: stages receive it exclusively, mutate their
// fields, and append one message. No transport besides JSON tags; the final
// state is the externally visible result.
type PipelineState struct {
	RequestText string       `json:"request_text"`
	Resolution  Resolution   `json:"resolution"`
	Warnings    []Warning    `json:"warnings"`
	Hitl        HitlDecision `json:"hitl"`

	// Per-ticker enrichment maps, keyed by canonical ticker.
	PriceHistory map[string][]PricePoint     `json:"price_history,omitempty"`
	Technical    map[string]Indicators       `json:"technical_indicators,omitempty"`
	News         map[string][]NewsArticle    `json:"news,omitempty"`
	Sentiment    map[string]SentimentScore   `json:"sentiment,omitempty"`

	Risk   *RiskProfile   `json:"risk_profile,omitempty"`
	Report string         `json:"report,omitempty"`
	Log    []StageMessage `json:"log"`
}

// NewPipelineState creates the initial state for one request.
func NewPipelineState(text string) *PipelineState {
	return &PipelineState{
		RequestText:  text,
		PriceHistory: make(map[string][]PricePoint),
		Technical:    make(map[string]Indicators),
		News:         make(map[string][]NewsArticle),
		Sentiment:    make(map[string]SentimentScore),
	}
}

// AppendLog appends one audit entry. Append-only by contract.
func (s *PipelineState) AppendLog(stage, content string) {
	s.Log = append(s.Log, StageMessage{Stage: stage, Content: content, Timestamp: time.Now().UTC()})
}
