// Package activity is the append-only audit trail. Every successful mutating
// action in the service produces exactly one Entry; entries are never updated
// or deleted.
package activity

import (
	"context"
	"log"
	"time"

	"newsdesk.org/internal/ids"
)

// Common action verbs recorded against entities.
const (
	ActionCreate  = "CREATE"
	ActionUpdate  = "UPDATE"
	ActionDelete  = "DELETE"
	ActionPublish = "PUBLISH"
	ActionArchive = "ARCHIVE"
	ActionDenied  = "DENIED"
	ActionLogin   = "LOGIN"
)

// Entry is a single audit record. UserID is empty for system-initiated or
// anonymous actions; the reference to the actor is deliberately soft so
// entries survive account removal.
type Entry struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id,omitempty"`
	Action    string         `json:"action"`
	Entity    string         `json:"entity"`
	EntityID  string         `json:"entity_id,omitempty"`
	Details   map[string]any `json:"details"`
	CreatedAt time.Time      `json:"created_at"`

	// User carries the actor summary on the read path only.
	User *ActorSummary `json:"user,omitempty"`
}

// ActorSummary is the principal identity joined onto entries for display.
type ActorSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Store is the persistence surface for the audit trail.
type Store interface {
	InsertEntry(ctx context.Context, e Entry) error
	ListEntries(ctx context.Context, q Query) ([]Entry, int64, error)
}

// Query narrows and pages the audit listing.
type Query struct {
	UserID string
	Entity string
	Action string
	Offset int
	Limit  int
}

// Recorder writes audit entries. In the default best-effort mode a storage
// failure is reported to the operational logger and Record returns nil: audit
// logging must never abort the primary business operation it accompanies.
// WithStrict switches to an at-least-once mode where the failure propagates
// to the caller; the primary mutation is already committed at that point and
// is not rolled back.
type Recorder struct {
	store  Store
	logger *log.Logger
	strict bool
	now    func() time.Time
	newID  func() string
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithStrict makes Record propagate storage failures instead of swallowing
// them.
func WithStrict() RecorderOption {
	return func(r *Recorder) { r.strict = true }
}

// WithRecorderClock overrides the time source (test use).
func WithRecorderClock(fn func() time.Time) RecorderOption {
	return func(r *Recorder) {
		if fn != nil {
			r.now = fn
		}
	}
}

// NewRecorder constructs a Recorder. The logger receives operational errors
// and must not be nil.
func NewRecorder(store Store, logger *log.Logger, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		store:  store,
		logger: logger,
		now:    time.Now,
		newID:  ids.New,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record appends one entry. See the Recorder contract for failure semantics.
func (r *Recorder) Record(ctx context.Context, e Entry) error {
	if e.ID == "" {
		e.ID = r.newID()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = r.now().UTC()
	}
	if e.Details == nil {
		e.Details = map[string]any{}
	}
	if err := r.store.InsertEntry(ctx, e); err != nil {
		if r.strict {
			return err
		}
		if r.logger != nil {
			r.logger.Printf(`{"level":"error","component":"activity","msg":"record failed","action":%q,"entity":%q,"error":%q}`,
				e.Action, e.Entity, err.Error())
		}
		return nil
	}
	return nil
}
