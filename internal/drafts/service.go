package drafts

import (
	"context"
	"sync"
	"time"

	"jengahub-backend/internal/shared/telemetry"
)

// DefaultAutosaveDebounce is how long input must settle before an autosave
// write fires.
const DefaultAutosaveDebounce = 2 * time.Second

// Service wraps a Repo with soft-fail semantics: a broken or unavailable
// store degrades draft persistence to a no-op instead of surfacing errors
// into the flow. Failures are logged as warnings only.
type Service struct {
	Repo Repo
}

// NewService constructs a Service.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// Save persists the draft, reporting whether the write happened.
func (s *Service) Save(ctx context.Context, key Key, draft Draft) bool {
	if s == nil || s.Repo == nil || !key.Valid() {
		return false
	}
	if err := s.Repo.Save(ctx, key, draft); err != nil {
		telemetry.Error("drafts.save.failed", map[string]any{
			"key": key.String(),
			"err": err.Error(),
		})
		return false
	}
	return true
}

// Load returns the saved draft, or nil when absent, expired, or the store
// is unavailable.
func (s *Service) Load(ctx context.Context, key Key) *Draft {
	if s == nil || s.Repo == nil || !key.Valid() {
		return nil
	}
	draft, err := s.Repo.Load(ctx, key)
	if err != nil {
		telemetry.Error("drafts.load.failed", map[string]any{
			"key": key.String(),
			"err": err.Error(),
		})
		return nil
	}
	return draft
}

// Has reports whether a resumable draft exists.
func (s *Service) Has(ctx context.Context, key Key) bool {
	return s.Load(ctx, key) != nil
}

// Clear removes the draft. Failures are logged and swallowed.
func (s *Service) Clear(ctx context.Context, key Key) {
	if s == nil || s.Repo == nil || !key.Valid() {
		return
	}
	if err := s.Repo.Clear(ctx, key); err != nil {
		telemetry.Error("drafts.clear.failed", map[string]any{
			"key": key.String(),
			"err": err.Error(),
		})
	}
}

// Autosaver debounces Save calls: each Schedule cancels the pending timer
// and starts a new one, so rapid keystrokes collapse into a single write.
type Autosaver struct {
	svc      *Service
	debounce time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// NewAutosaver constructs an Autosaver. A non-positive debounce falls back
// to the default.
func NewAutosaver(svc *Service, debounce time.Duration) *Autosaver {
	if debounce <= 0 {
		debounce = DefaultAutosaveDebounce
	}
	return &Autosaver{svc: svc, debounce: debounce}
}

// Schedule queues a save of the given draft, replacing any pending save.
func (a *Autosaver) Schedule(key Key, draft Draft) {
	if a == nil || a.svc == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.debounce, func() {
		a.svc.Save(context.Background(), key, draft)
	})
}

// Flush forces any pending save to run immediately.
func (a *Autosaver) Flush(key Key, draft Draft) {
	if a == nil || a.svc == nil {
		return
	}
	a.Cancel()
	a.svc.Save(context.Background(), key, draft)
}

// Cancel drops any pending save without writing.
func (a *Autosaver) Cancel() {
	if a == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}
