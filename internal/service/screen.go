package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"farmequip-backoffice/internal/domain"
	"farmequip-backoffice/internal/listing"
	"farmequip-backoffice/internal/logger"
	"farmequip-backoffice/internal/metrics"
)

// Notifier receives fire-and-forget user notifications.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification)
}

// Confirmer asks the operator to confirm a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool { return f(ctx, prompt) }

type RecordKind string

const (
	KindEquipment RecordKind = "equipment"
	KindBookings  RecordKind = "bookings"
	KindFarmers   RecordKind = "farmers"
)

// ChangeListener is told after a screen changed its records.
type ChangeListener interface {
	RecordsChanged(kind RecordKind)
}

// Listeners fans a change out to several listeners.
type Listeners []ChangeListener

func (l Listeners) RecordsChanged(kind RecordKind) {
	for _, listener := range l {
		if listener != nil {
			listener.RecordsChanged(kind)
		}
	}
}

// Deps are the interaction capabilities injected into every screen.
type Deps struct {
	Notifier  Notifier
	Confirmer Confirmer
	Listener  ChangeListener
	Now       func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Confirmer == nil {
		d.Confirmer = ContextConfirmer{}
	}
	return d
}

var validate = validator.New()

func validateInput(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}

// screen is the state every list screen shares: a record store owned by the
// screen, its current sort and its mount state. mu serializes every read and
// mutation of the store.
type screen[T listing.Record] struct {
	name     string
	kind     RecordKind
	deps     Deps
	loadFail string

	mu      sync.Mutex
	store   *listing.Store[T]
	sort    listing.SortConfig
	mounted bool
	gen     uint64
	loadErr error
	pending outbox
}

// outbox holds notifications and change events raised while a screen lock
// is held. They are delivered after the lock is released so a slow notifier
// never stalls readers of the screen.
type outbox struct {
	notes   []domain.Notification
	changed []RecordKind
}

func (o *outbox) take() outbox {
	out := *o
	*o = outbox{}
	return out
}

func (o outbox) deliver(ctx context.Context, deps Deps) {
	if deps.Notifier != nil {
		for _, n := range o.notes {
			deps.Notifier.Notify(ctx, n)
		}
	}
	if deps.Listener != nil {
		for _, kind := range o.changed {
			deps.Listener.RecordsChanged(kind)
		}
	}
}

func newScreen[T listing.Record](name string, kind RecordKind, deps Deps, defaultSort listing.SortConfig, loadFail string) screen[T] {
	return screen[T]{
		name:     name,
		kind:     kind,
		deps:     deps.withDefaults(),
		loadFail: loadFail,
		store:    listing.NewStore[T](nil),
		sort:     defaultSort,
	}
}

// Mount makes the screen accept fetch results.
func (s *screen[T]) Mount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mounted = true
	s.gen++
}

// Unmount drops the records. Fetches still in flight are discarded when they
// complete.
func (s *screen[T]) Unmount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mounted = false
	s.gen++
	s.loadErr = nil
	s.store.Reset(nil)
}

func (s *screen[T]) Mounted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mounted
}

// load fetches outside the lock and installs the result only if the screen
// is still the same mount that started the fetch.
func (s *screen[T]) load(ctx context.Context, fetch func(context.Context) ([]T, error), prepare func([]T) []T) ([]T, error) {
	s.mu.Lock()
	if !s.mounted {
		s.mu.Unlock()
		return nil, fmt.Errorf("%s: %w", s.name, domain.ErrUnmounted)
	}
	gen := s.gen
	s.mu.Unlock()

	logger.RepositoryCall(s.name, "List")
	items, err := fetch(ctx)
	logger.RepositoryResult(s.name, "List", err, "count", len(items))

	s.mu.Lock()
	defer s.unlock(ctx)
	if !s.mounted || s.gen != gen {
		logger.WithScreen(s.name).Debug("Discarding fetch result for unmounted screen")
		return nil, fmt.Errorf("%s: %w", s.name, domain.ErrUnmounted)
	}
	if err != nil {
		metrics.IncFetchFailure(s.name)
		s.notify(ctx, domain.NotificationError, s.loadFail)
		s.loadErr = domain.FetchFailure(s.name+".List", err)
		return nil, s.loadErr
	}
	if prepare != nil {
		items = prepare(items)
	}
	s.store.Reset(items)
	s.loadErr = nil
	return s.store.All(), nil
}

// LoadErr returns the failure of the latest load, or nil once a load
// succeeded. The store keeps its previous records while it is set.
func (s *screen[T]) LoadErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}

func (s *screen[T]) view(q listing.Query, override *listing.SortConfig) []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := s.sort
	if override != nil {
		cfg = *override
	}
	if q.Now.IsZero() {
		q.Now = s.deps.Now()
	}
	return listing.View(s.store.All(), q, cfg)
}

// RequestSort applies the toggle rule to the screen's sort and returns the
// new sort.
func (s *screen[T]) RequestSort(key string) listing.SortConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sort = s.sort.Request(key)
	return s.sort
}

func (s *screen[T]) SortConfig() listing.SortConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sort
}

// get reads a record from the store. The caller holds mu.
func (s *screen[T]) get(id string) (T, error) {
	r, err := s.store.Get(id)
	if err != nil {
		return r, fmt.Errorf("%s %s: %w", s.kind, id, domain.ErrNotFound)
	}
	return r, nil
}

// failed reports a collaborator failure during a mutation. The store is left
// as it was.
func (s *screen[T]) failed(ctx context.Context, operation, message string, err error) error {
	metrics.IncFetchFailure(s.name)
	s.notify(ctx, domain.NotificationError, message)
	return domain.FetchFailure(s.name+"."+operation, err)
}

// succeeded announces a completed mutation.
func (s *screen[T]) succeeded(ctx context.Context, message string) {
	s.notify(ctx, domain.NotificationSuccess, message)
	s.pending.changed = append(s.pending.changed, s.kind)
}

// notify queues a notification. The caller holds mu and releases it with
// unlock.
func (s *screen[T]) notify(ctx context.Context, kind domain.NotificationKind, message string) {
	metrics.IncNotification(kind)
	s.pending.notes = append(s.pending.notes, newNotification(kind, s.name, message, s.deps.Now()))
}

// unlock releases mu, then delivers what was queued while it was held.
func (s *screen[T]) unlock(ctx context.Context) {
	out := s.pending.take()
	s.mu.Unlock()
	out.deliver(ctx, s.deps)
}

func newNotification(kind domain.NotificationKind, screen, message string, now time.Time) domain.Notification {
	return domain.Notification{
		ID:        uuid.NewString(),
		Kind:      kind,
		Message:   message,
		Screen:    screen,
		CreatedOn: now,
	}
}

type confirmKey struct{}

// WithConfirmation records on ctx whether the caller already confirmed the
// action, as an HTTP client does with the X-Confirm header.
func WithConfirmation(ctx context.Context, confirmed bool) context.Context {
	return context.WithValue(ctx, confirmKey{}, confirmed)
}

// ContextConfirmer answers from the value stored by WithConfirmation and
// declines when there is none.
type ContextConfirmer struct{}

func (ContextConfirmer) Confirm(ctx context.Context, prompt string) bool {
	ok, _ := ctx.Value(confirmKey{}).(bool)
	if !ok {
		logger.DebugContext(ctx, "Confirmation required", "prompt", prompt)
	}
	return ok
}
