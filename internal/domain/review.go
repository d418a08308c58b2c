package domain

// Verdict is the outcome of reviewing one (question, answer) pair.
// Exactly one verdict is produced per generation; the orchestrator must
// not search or return an answer without one.
type Verdict struct {
	// NeedsSearch is the single augmentation decision. It already folds
	// in the trust threshold, so callers never re-compare Confidence.
	NeedsSearch bool    `json:"needs_search"`
	Confidence  float64 `json:"confidence"` // 0-100
	Rationale   string  `json:"rationale"`
}

// ChatRequest is the request to send a chat message.
type ChatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message" binding:"required"`
}

// ChatResponse is the terminal state of one pipeline run.
type ChatResponse struct {
	SessionID  string  `json:"session_id"`
	Answer     string  `json:"answer"`
	Confidence float64 `json:"confidence"`
	// Enhanced marks an answer regenerated from web search results.
	Enhanced bool `json:"enhanced,omitempty"`
	// Offline marks the original answer returned because the search
	// provider was unreachable.
	Offline bool `json:"offline,omitempty"`
	// Notice carries system-attributed messages such as "no search
	// results"; it is set instead of Answer when the pipeline stops
	// without a displayable answer.
	Notice    string `json:"notice,omitempty"`
	Rationale string `json:"rationale,omitempty"`
}
