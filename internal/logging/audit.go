// Package logging provides the JSON audit trail for cipher operations and the
// slog process logger shared by the binaries.
package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/RowanDark/cipherlab/internal/redact"
)

// EventType names what happened.
type EventType string

const (
	EventEncrypt       EventType = "cipher_encrypt"
	EventDecrypt       EventType = "cipher_decrypt"
	EventKeyRejected   EventType = "key_rejected"
	EventCRTWarning    EventType = "crt_warning"
	EventRecipeSaved   EventType = "recipe_saved"
	EventRecipeDeleted EventType = "recipe_deleted"
	EventRPCCall       EventType = "rpc_call"
)

// Decision records whether the event was allowed to proceed.
type Decision string

const (
	DecisionInfo  Decision = "info"
	DecisionAllow Decision = "allow"
	DecisionDeny  Decision = "deny"
)

// AuditEvent is one line of the audit trail.
type AuditEvent struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Component string         `json:"component"`
	EventType EventType      `json:"event_type"`
	Operation string         `json:"operation,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Decision  Decision       `json:"decision,omitempty"`
	Reason    string         `json:"reason,omitempty"`
}

// Option configures an AuditLogger.
type Option func(*auditOptions) error

type auditOptions struct {
	stdout bool
	sinks  []io.Writer
	files  []*os.File
	now    func() time.Time
}

// WithWriter adds w as a destination.
func WithWriter(w io.Writer) Option {
	return func(o *auditOptions) error {
		if w == nil {
			return errors.New("writer cannot be nil")
		}
		o.sinks = append(o.sinks, w)
		return nil
	}
}

// WithFile appends events to path, creating it with owner-only permissions.
func WithFile(path string) Option {
	return func(o *auditOptions) error {
		path = strings.TrimSpace(path)
		if path == "" {
			return errors.New("file path cannot be empty")
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return fmt.Errorf("open audit file: %w", err)
		}
		o.files = append(o.files, f)
		o.sinks = append(o.sinks, f)
		return nil
	}
}

// WithoutStdout stops the logger from writing to standard output.
func WithoutStdout() Option {
	return func(o *auditOptions) error {
		o.stdout = false
		return nil
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(o *auditOptions) error {
		if now == nil {
			return errors.New("clock cannot be nil")
		}
		o.now = now
		return nil
	}
}

// trail is shared by a logger and every WithComponent view of it.
type trail struct {
	mu    sync.Mutex
	out   io.Writer
	files []*os.File
	now   func() time.Time
}

// AuditLogger writes one JSON object per cipher event. Metadata and reasons
// are redacted before encoding so keys never reach the trail.
type AuditLogger struct {
	component string
	trail     *trail
	owner     bool
}

// NewAuditLogger builds a logger that writes to stdout plus any configured
// sinks.
func NewAuditLogger(component string, opts ...Option) (*AuditLogger, error) {
	o := &auditOptions{stdout: true, now: time.Now}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			for _, f := range o.files {
				_ = f.Close()
			}
			return nil, err
		}
	}
	sinks := o.sinks
	if o.stdout {
		sinks = append([]io.Writer{os.Stdout}, sinks...)
	}
	if len(sinks) == 0 {
		return nil, errors.New("no writers configured for audit logger")
	}
	return &AuditLogger{
		component: component,
		trail:     &trail{out: io.MultiWriter(sinks...), files: o.files, now: o.now},
		owner:     true,
	}, nil
}

// Discard returns a logger that drops every event.
func Discard(component string) *AuditLogger {
	l, _ := NewAuditLogger(component, WithoutStdout(), WithWriter(io.Discard))
	return l
}

// Close closes files opened by WithFile. Component views do not own them.
func (l *AuditLogger) Close() error {
	if l == nil || l.trail == nil || !l.owner {
		return nil
	}
	l.trail.mu.Lock()
	defer l.trail.mu.Unlock()
	var errs []error
	for _, f := range l.trail.files {
		errs = append(errs, f.Close())
	}
	l.trail.files = nil
	return errors.Join(errs...)
}

// Emit fills in ID, timestamp and component, redacts the event and writes
// it as a single line.
func (l *AuditLogger) Emit(event AuditEvent) error {
	if l == nil || l.trail == nil {
		return errors.New("nil audit logger")
	}
	line, err := l.encode(event)
	if err != nil {
		return err
	}
	l.trail.mu.Lock()
	defer l.trail.mu.Unlock()
	_, err = l.trail.out.Write(line)
	return err
}

func (l *AuditLogger) encode(event AuditEvent) ([]byte, error) {
	if event.Timestamp.IsZero() {
		event.Timestamp = l.trail.now()
	}
	event.Timestamp = event.Timestamp.UTC()
	if event.ID == "" {
		event.ID = ulid.MustNew(ulid.Timestamp(event.Timestamp), ulid.DefaultEntropy()).String()
	}
	if event.Component == "" {
		event.Component = l.component
	}
	event.Reason = redact.String(event.Reason)
	if len(event.Metadata) > 0 {
		event.Metadata = redact.Map(event.Metadata)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(event); err != nil {
		return nil, fmt.Errorf("encode audit event: %w", err)
	}
	return buf.Bytes(), nil
}

// WithComponent returns a view that stamps events with component and shares
// the same destinations.
func (l *AuditLogger) WithComponent(component string) *AuditLogger {
	if l == nil || l.trail == nil {
		return nil
	}
	return &AuditLogger{component: component, trail: l.trail}
}
