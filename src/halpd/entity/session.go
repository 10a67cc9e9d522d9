// Package entity contains the domain types for the halpd daemon.
package entity

import (
	"sync"
	"time"

	"github.com/gofrs/uuid"
)

type keyType string

// ConnContextKey indicates the key used to identify the client connection
// UUID in a request context.
const ConnContextKey keyType = "ConnUUID"

// Mode is the per-session behavior switch between command suggestion and
// free conversation.
type Mode string

const (
	// ModeExec requests shell command suggestions.
	ModeExec Mode = "exec"
	// ModeChat requests conversational replies.
	ModeChat Mode = "chat"
)

// ParseMode maps a wire string onto a Mode. ok is false for anything other
// than the two supported modes.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeExec:
		return ModeExec, true
	case ModeChat:
		return ModeChat, true
	}
	return "", false
}

// Role identifies the author of a history turn.
type Role string

const (
	// RoleUser marks turns containing client input.
	RoleUser Role = "user"
	// RoleAssistant marks turns containing provider output.
	RoleAssistant Role = "assistant"
)

// Turn is one history entry of a session.
type Turn struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is a terminal client's conversational context. Identity fields
// never change after creation; mutable state is guarded by the session's own
// mutex so operations on the same session are serialized while distinct
// sessions proceed independently.
type Session struct {
	UUID      uuid.UUID `json:"uuid"`
	PID       int       `json:"pid"`
	Cwd       string    `json:"cwd"`
	CreatedAt time.Time `json:"createdAt"`

	mu         sync.Mutex
	mode       Mode
	turns      []Turn
	lastActive time.Time
	detached   bool
}

// NewSession returns a session in mode exec with empty history.
func NewSession(id uuid.UUID, pid int, cwd string, now time.Time) *Session {
	return &Session{
		UUID:       id,
		PID:        pid,
		Cwd:        cwd,
		CreatedAt:  now,
		mode:       ModeExec,
		lastActive: now,
	}
}

// Snapshot is a point-in-time copy of a session's state. Engines build
// prompts from snapshots so no lock is held during provider calls.
type Snapshot struct {
	UUID       uuid.UUID
	PID        int
	Cwd        string
	CreatedAt  time.Time
	Mode       Mode
	Turns      []Turn
	LastActive time.Time
	Detached   bool
}

// Snapshot returns a deep copy of the session's current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	turns := make([]Turn, len(s.turns))
	copy(turns, s.turns)
	return Snapshot{
		UUID:       s.UUID,
		PID:        s.PID,
		Cwd:        s.Cwd,
		CreatedAt:  s.CreatedAt,
		Mode:       s.mode,
		Turns:      turns,
		LastActive: s.lastActive,
		Detached:   s.detached,
	}
}

// Mode returns the session's current mode.
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SwitchMode sets the mode, re-activates a detached session and bumps the
// last-active timestamp, all atomically.
func (s *Session) SwitchMode(mode Mode, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
	s.detached = false
	s.lastActive = now
}

// AppendTurns appends turns to the history, re-activates a detached session
// and bumps the last-active timestamp, all atomically. History is
// append-only; entries are never rewritten or dropped.
func (s *Session) AppendTurns(now time.Time, turns ...Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, turns...)
	s.detached = false
	s.lastActive = now
}

// TurnCount returns the current history length.
func (s *Session) TurnCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.turns)
}

// Detach marks the session inactive. It stays joinable until a reclaim
// collector deletes it.
func (s *Session) Detach(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detached = true
	s.lastActive = now
}

// Detached reports whether the session is currently detached.
func (s *Session) Detached() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.detached
}

// LastActive returns the last-active timestamp.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}
