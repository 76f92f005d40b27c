package session

import (
	"context"
	"errors"
	"sync"

	"github.com/Jasmitha1474/women-safety-app/internal/discovery"
	"github.com/Jasmitha1474/women-safety-app/internal/dispatch"
	"github.com/Jasmitha1474/women-safety-app/internal/location"
	"github.com/Jasmitha1474/women-safety-app/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrSessionClosed a result arrived after the session was closed and was
// discarded.
var ErrSessionClosed = errors.New("session closed")

// Session holds the state of one SOS/map screen: the current fix, the
// published responders and the alert dispatcher. Results of work that
// completes after Close are dropped.
type Session struct {
	id         string
	location   *location.Service
	discovery  *discovery.Discovery
	dispatcher *dispatch.Dispatcher
	logger     *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	fixMu sync.Mutex // one fix request at a time

	mu         sync.RWMutex
	closed     bool
	fix        *models.LocationFix
	responders *discovery.Result
}

// New opens a session. Closing it cancels the context handed to in-flight work.
func New(loc *location.Service, disc *discovery.Discovery, disp *dispatch.Dispatcher, logger *zap.Logger) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	id := uuid.NewString()
	return &Session{
		id:         id,
		location:   loc,
		discovery:  disc,
		dispatcher: disp,
		logger:     logger.With(zap.String("session_id", id)),
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (s *Session) ID() string { return s.id }

// Locate acquires a fix and makes it the session's current fix.
func (s *Session) Locate(ctx context.Context) (location.Result, error) {
	s.fixMu.Lock()
	defer s.fixMu.Unlock()

	if s.isClosed() {
		return location.Result{}, ErrSessionClosed
	}

	ctx, cancel := s.bind(ctx)
	defer cancel()

	r := s.location.AcquireFix(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return location.Result{}, ErrSessionClosed
	}
	if r.Kind == location.KindFix {
		fix := r.Fix
		s.fix = &fix
	}
	return r, nil
}

// Discover searches for responders around the current fix and publishes the
// merged result to the session.
func (s *Session) Discover(ctx context.Context) (discovery.Result, error) {
	fix := s.Fix()
	if fix == nil {
		return discovery.Result{}, dispatch.ErrLocationNotReady
	}

	ctx, cancel := s.bind(ctx)
	defer cancel()

	r, err := s.discovery.Discover(ctx, *fix)
	if err != nil {
		return discovery.Result{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		s.logger.Debug("Discarding discovery result for closed session")
		return discovery.Result{}, ErrSessionClosed
	}
	s.responders = &r
	return r, nil
}

// Start acquires a fix and, when one is available, discovers responders.
func (s *Session) Start(ctx context.Context) (location.Result, *discovery.Result, error) {
	loc, err := s.Locate(ctx)
	if err != nil || loc.Kind != location.KindFix {
		return loc, nil, err
	}

	r, err := s.Discover(ctx)
	if err != nil {
		return loc, nil, err
	}
	return loc, &r, nil
}

// TriggerAlert dispatches an SOS for the current fix.
func (s *Session) TriggerAlert(ctx context.Context) (*models.AlertOutcome, error) {
	if s.isClosed() {
		return nil, ErrSessionClosed
	}

	out, err := s.dispatcher.Trigger(ctx, s.Fix())
	if s.isClosed() {
		if out != nil {
			s.logger.Debug("Discarding alert outcome for closed session", zap.String("dispatch_id", out.ID))
		}
		return nil, ErrSessionClosed
	}
	return out, err
}

// Fix returns a copy of the current fix, nil before one is acquired.
func (s *Session) Fix() *models.LocationFix {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.fix == nil {
		return nil
	}
	fix := *s.fix
	return &fix
}

// Responders returns the last published discovery result, nil before the
// first one.
func (s *Session) Responders() *discovery.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.responders == nil {
		return nil
	}
	r := *s.responders
	r.Candidates = append([]models.ResponderCandidate(nil), s.responders.Candidates...)
	return &r
}

// DispatchState reports the dispatcher state.
func (s *Session) DispatchState() dispatch.State {
	return s.dispatcher.State()
}

// Close tears the session down. Pending fallback calls are cancelled.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.dispatcher.Close()
	s.logger.Debug("Session closed")
}

func (s *Session) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// bind derives a context cancelled by either ctx or the session.
func (s *Session) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(s.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}
