package ws

type Severity string

const (
	Info Severity = "info"
	Warn Severity = "warning"
)

// Diagnostic is pushed to /diag subscribers.
type Diagnostic struct {
	Severity Severity       `json:"severity"`
	Code     string         `json:"code"`
	Summary  string         `json:"summary"`
	Detail   string         `json:"detail,omitempty"`
	Evidence map[string]any `json:"evidence,omitempty"`
}
