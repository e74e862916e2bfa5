// Package session owns the upload/analyze/result state of a single view.
//
// All transitions go through Session methods. An analysis runs in its own
// goroutine; each invocation carries a generation number and a cancellable
// context, and a completion whose generation is no longer current is dropped.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/lehigh-university-libraries/skinscan/internal/models"
	"github.com/lehigh-university-libraries/skinscan/internal/providers"
)

// State is the coarse position of a session in its lifecycle
type State string

const (
	StateIdle      State = "idle"
	StateUploaded  State = "uploaded"
	StateAnalyzing State = "analyzing"
	StateResulted  State = "resulted"
)

// Session is the mutable state behind one view instance
type Session struct {
	id       string
	provider providers.Provider

	ctx   context.Context
	close context.CancelFunc

	mu         sync.Mutex
	image      *models.Image
	result     *models.DiseaseRecord
	analyzing  bool
	generation uint64
	cancel     context.CancelFunc
	createdAt  time.Time
	lastActive time.Time
}

// Snapshot is a consistent copy of a session's state
type Snapshot struct {
	ID          string                `json:"id"`
	State       State                 `json:"state"`
	Image       *models.Image         `json:"image,omitempty"`
	Result      *models.DiseaseRecord `json:"result,omitempty"`
	IsAnalyzing bool                  `json:"is_analyzing"`
	CreatedAt   time.Time             `json:"created_at"`
}

// New creates an idle session that analyzes with p
func New(id string, p providers.Provider) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	now := time.Now()
	return &Session{
		id:         id,
		provider:   p,
		ctx:        ctx,
		close:      cancel,
		createdAt:  now,
		lastActive: now,
	}
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// Upload replaces the current image and discards any result. An analysis
// still in flight is cancelled and its outcome will be ignored.
func (s *Session) Upload(img *models.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.invalidateLocked()
	copied := *img
	s.image = &copied
	s.result = nil
	s.lastActive = time.Now()

	slog.Info("Image uploaded", "session_id", s.id, "filename", img.Filename, "generation", s.generation)
}

// Clear drops the image and result, returning the session to idle
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.invalidateLocked()
	s.image = nil
	s.result = nil
	s.lastActive = time.Now()

	slog.Info("Session cleared", "session_id", s.id)
}

// Analyze starts an analysis of the current image. It does nothing and
// returns started=false when there is no image or one is already running.
// done is closed once the invocation has finished, whether its outcome was
// applied or discarded.
func (s *Session) Analyze() (done <-chan struct{}, started bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.image == nil || s.analyzing || s.ctx.Err() != nil {
		return nil, false
	}

	s.generation++
	gen := s.generation
	ctx, cancel := context.WithCancel(s.ctx)
	s.cancel = cancel
	s.analyzing = true
	s.lastActive = time.Now()

	ch := make(chan struct{})
	go s.run(ctx, gen, *s.image, ch)

	slog.Info("Analysis started", "session_id", s.id, "generation", gen)
	return ch, true
}

func (s *Session) run(ctx context.Context, gen uint64, img models.Image, done chan struct{}) {
	defer close(done)

	record, err := s.provider.Assess(ctx, img)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		slog.Debug("Discarding stale analysis", "session_id", s.id, "generation", gen, "current", s.generation)
		return
	}

	s.analyzing = false
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	if err != nil {
		// no user-facing error; the view falls back to not analyzing
		slog.Error("Analysis failed", "session_id", s.id, "generation", gen, "err", err)
		return
	}
	if record == nil {
		slog.Error("Analysis returned no record", "session_id", s.id, "generation", gen)
		return
	}

	s.result = record.Clone()
	slog.Info("Analysis complete", "session_id", s.id, "condition", record.Name, "severity", record.Severity)
}

// invalidateLocked makes any running analysis stale. Callers hold s.mu.
func (s *Session) invalidateLocked() {
	s.generation++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.analyzing = false
}

// Close cancels any in-flight analysis. The session accepts no new analyses
// afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.invalidateLocked()
	s.close()
}

// State reports where the session is in its lifecycle
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	switch {
	case s.analyzing:
		return StateAnalyzing
	case s.result != nil:
		return StateResulted
	case s.image != nil:
		return StateUploaded
	default:
		return StateIdle
	}
}

// Snapshot copies the current state
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:          s.id,
		State:       s.stateLocked(),
		Result:      s.result.Clone(),
		IsAnalyzing: s.analyzing,
		CreatedAt:   s.createdAt,
	}
	if s.image != nil {
		img := *s.image
		snap.Image = &img
	}
	return snap
}

// LastActive is the time of the most recent state change
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}
