// Package provider defines the catalog of external AI-agent CLIs emdash can
// drive, and the connectivity status model produced when probing them.
package provider

import (
	"context"
	"time"
)

// StatusCode classifies a provider's availability.
type StatusCode string

// The closed set of status codes. NeedsKey is only ever produced by a
// provider's own classify override; the generic classifier never emits it.
const (
	StatusConnected StatusCode = "connected"
	StatusMissing   StatusCode = "missing"
	StatusNeedsKey  StatusCode = "needs_key"
	StatusError     StatusCode = "error"
)

// ProbeResult captures everything observed from a single probe attempt.
// It is ephemeral; the classifier consumes it immediately and it is never
// persisted.
type ProbeResult struct {
	Command  string // the command string that was run
	Success  bool   // exited on its own with code 0, within the timeout
	Stdout   string
	Stderr   string
	ExitCode *int          // nil when the process never exited on its own
	Path     string        // resolved absolute path, empty if unknown
	Version  string        // parsed version token, empty if none found
	TimedOut bool          // killed by the probe timeout
	Timeout  time.Duration // the bound that was applied
	Err      error         // spawn or resolution error, if any
}

// Output returns the first non-empty of stderr and stdout; trimming is
// left to the caller.
func (r ProbeResult) Output() string {
	if r.Stderr != "" {
		return r.Stderr
	}
	return r.Stdout
}

// ClassifyOverride maps a probe result to a status code. Returning ok=false
// falls through to the generic classification policy.
type ClassifyOverride func(ProbeResult) (code StatusCode, ok bool)

// MessageOverride supplies a human-readable message for a probe result.
// Returning ok=false falls through to the generic message policy.
type MessageOverride func(ProbeResult) (msg string, ok bool)

// Definition describes one known provider. Definitions are immutable for
// the process lifetime.
type Definition struct {
	ID          string
	Name        string
	Commands    []string // candidate command names, tried in order
	VersionArgs []string // probe arguments; defaults to ["--version"]
	Classify    ClassifyOverride
	Message     MessageOverride
	DocsURL     string
	InstallHint string
}

// Status is the persisted connectivity status for one provider. It is
// overwritten wholesale on every completed check, never partially merged.
type Status struct {
	Code      StatusCode `json:"code"`
	Installed bool       `json:"installed"`
	Path      string     `json:"path,omitempty"`
	Version   string     `json:"version,omitempty"`
	Message   string     `json:"message,omitempty"`
	CheckedAt time.Time  `json:"checked_at"`
}

// Event is published on every completed provider check.
type Event struct {
	ProviderID string `json:"providerId"`
	Status     Status `json:"status"`
}

// Store persists provider statuses across restarts. Implementations
// serialize their own writes; callers treat Set as last-write-wins.
type Store interface {
	GetAll(ctx context.Context) (map[string]Status, error)
	Set(ctx context.Context, id string, status Status) error
}
