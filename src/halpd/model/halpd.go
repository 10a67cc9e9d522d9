package model

import "time"

// Status values returned by successful API calls.
const (
	StatusSuccess = "success"
	StatusHealthy = "healthy"
)

// HealthResult is the wire result of a daemon/health request.
type HealthResult struct {
	Status string `json:"status"`
}

// StatusResult is the wire result of requests that return only a status.
type StatusResult struct {
	Status string `json:"status"`
}

// CreateSessionParams are the wire parameters of a session/create request.
type CreateSessionParams struct {
	PID int    `json:"pid"`
	Cwd string `json:"cwd"`
}

// CreateSessionResult is the wire result of a session/create request.
type CreateSessionResult struct {
	SessionID string `json:"sessionId"`
	Status    string `json:"status"`
}

// SessionSummary is a read-only view of a single session, sized for session pickers.
type SessionSummary struct {
	SessionID  string    `json:"sessionId"`
	PID        int       `json:"pid"`
	Cwd        string    `json:"cwd"`
	Mode       string    `json:"mode"`
	TurnCount  int       `json:"turnCount"`
	Detached   bool      `json:"detached"`
	CreatedAt  time.Time `json:"createdAt"`
	LastActive time.Time `json:"lastActiveAt"`
}

// ListSessionsResult is the wire result of a session/list request.
type ListSessionsResult struct {
	Sessions []SessionSummary `json:"sessions"`
	Status   string           `json:"status"`
}

// GetSessionParams are the wire parameters of a session/get request.
type GetSessionParams struct {
	SessionID string `json:"sessionId"`
}

// GetSessionResult is the wire result of a session/get request.
type GetSessionResult struct {
	Session SessionSummary `json:"session"`
	Status  string         `json:"status"`
}

// SwitchModeParams are the wire parameters of a session/switchMode request.
type SwitchModeParams struct {
	SessionID string `json:"sessionId"`
	Mode      string `json:"mode"`
}

// DetachParams are the wire parameters of a session/detach request.
type DetachParams struct {
	SessionID string `json:"sessionId"`
}

// SuggestCommandParams are the wire parameters of an assist/suggestCommand request.
type SuggestCommandParams struct {
	SessionID string `json:"sessionId"`
	Query     string `json:"query"`
}

// SuggestCommandResult is the wire result of an assist/suggestCommand request.
type SuggestCommandResult struct {
	Command      string `json:"command"`
	SafetyTier   string `json:"safetyTier"`
	SafetyReason string `json:"safetyReason"`
	Status       string `json:"status"`
}

// ChatParams are the wire parameters of an assist/chat request.
type ChatParams struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

// ChatResult is the wire result of an assist/chat request.
type ChatResult struct {
	Reply  string `json:"reply"`
	Status string `json:"status"`
}

// ProviderDiagnostics reports the configured provider and its probe outcome.
type ProviderDiagnostics struct {
	Name      string `json:"name"`
	Reachable bool   `json:"reachable"`
	Detail    string `json:"detail"`
	LatencyMS int64  `json:"latencyMs"`
}

// SessionDiagnostics reports aggregate session counts.
type SessionDiagnostics struct {
	Total    int `json:"total"`
	ExecMode int `json:"execMode"`
	ChatMode int `json:"chatMode"`
	Detached int `json:"detached"`
}

// DiagnosticsResult is the wire result of a daemon/diagnostics request.
type DiagnosticsResult struct {
	Provider ProviderDiagnostics `json:"provider"`
	Sessions SessionDiagnostics  `json:"sessions"`
	Status   string              `json:"status"`
}
