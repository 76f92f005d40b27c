package dispatch

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Jasmitha1474/women-safety-app/internal/models"
	"github.com/Jasmitha1474/women-safety-app/internal/remote"
	"github.com/Jasmitha1474/women-safety-app/internal/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrNoContactsConfigured the profile has no emergency contacts.
	ErrNoContactsConfigured = errors.New("no emergency contacts configured")
	// ErrLocationNotReady no location fix has been acquired yet.
	ErrLocationNotReady = errors.New("location not ready")
)

// State dispatcher lifecycle state
type State int

const (
	Idle State = iota
	Sending
	Sent
	Failed
	NetworkError
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Sending:
		return "sending"
	case Sent:
		return "sent"
	case Failed:
		return "failed"
	case NetworkError:
		return "network_error"
	default:
		return "unknown"
	}
}

// AlertSender submits alerts to the remote service.
type AlertSender interface {
	SendSOS(ctx context.Context, req remote.SOSRequest) error
}

// ProfileSource supplies the current profile snapshot.
type ProfileSource interface {
	Snapshot() models.UserProfile
}

// Options fallback call behaviour
type Options struct {
	FallbackCall  bool
	FallbackDelay time.Duration
}

// Dispatcher sends SOS alerts with at most one send in flight.
type Dispatcher struct {
	sender   AlertSender
	profiles ProfileSource
	dialer   Dialer
	sinks    []OutcomeSink
	opts     Options
	logger   *zap.Logger
	now      func() time.Time

	mu       sync.Mutex
	state    State
	fallback *time.Timer
	closed   bool
}

// New creates a dispatcher in the Idle state. dialer may be nil when no
// fallback call should be placed.
func New(sender AlertSender, profiles ProfileSource, dialer Dialer, opts Options, logger *zap.Logger, sinks ...OutcomeSink) *Dispatcher {
	return &Dispatcher{
		sender:   sender,
		profiles: profiles,
		dialer:   dialer,
		sinks:    sinks,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
	}
}

func (d *Dispatcher) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Trigger sends one alert for fix using the current profile.
//
// Preconditions are checked before anything is sent: ErrNoContactsConfigured
// first, then ErrLocationNotReady. A trigger while a send is in flight is
// dropped and returns a nil outcome and nil error. Otherwise the returned
// outcome reports Sent, Failed (service rejected) or NetworkError (service
// unreachable). Outcomes of sends that finish after Close are not published.
func (d *Dispatcher) Trigger(ctx context.Context, fix *models.LocationFix) (*models.AlertOutcome, error) {
	p := d.profiles.Snapshot()
	contacts := validation.CleanContacts(p.Contacts)
	if len(contacts) == 0 {
		return nil, ErrNoContactsConfigured
	}
	if fix == nil || !fix.Valid() {
		return nil, ErrLocationNotReady
	}

	d.mu.Lock()
	if d.state == Sending {
		d.mu.Unlock()
		d.logger.Debug("SOS already in flight, ignoring trigger")
		return nil, nil
	}
	d.state = Sending
	d.mu.Unlock()

	req := models.AlertRequest{
		Name:     p.Name,
		Phone:    p.Phone,
		Contacts: contacts,
		Location: *fix,
		Silent:   p.Silent,
	}

	outcome := models.AlertOutcome{ID: uuid.NewString()}
	err := d.sender.SendSOS(ctx, toSOSRequest(req))
	outcome.Timestamp = d.now()

	var next State
	var se *remote.StatusError
	switch {
	case err == nil:
		next, outcome.Status = Sent, models.AlertSent
	case errors.As(err, &se):
		next, outcome.Status = Failed, models.AlertFailed
		outcome.Error = err.Error()
	default:
		next, outcome.Status = NetworkError, models.AlertNetworkError
		outcome.Error = err.Error()
	}

	d.mu.Lock()
	d.state = next
	if next == Sent {
		d.scheduleFallbackLocked(contacts[0])
	}
	closed := d.closed
	d.mu.Unlock()

	if err != nil {
		d.logger.Error("SOS dispatch failed",
			zap.String("dispatch_id", outcome.ID),
			zap.String("status", string(outcome.Status)),
			zap.Error(err),
		)
	} else {
		d.logger.Info("SOS dispatched",
			zap.String("dispatch_id", outcome.ID),
			zap.Int("contacts", len(contacts)),
			zap.Bool("silent", p.Silent),
		)
	}

	if closed {
		d.logger.Debug("Dispatcher closed during send, outcome not published",
			zap.String("dispatch_id", outcome.ID),
		)
		return &outcome, nil
	}

	for _, sink := range d.sinks {
		if err := sink.Publish(ctx, p.Phone, outcome); err != nil {
			d.logger.Warn("Failed to publish alert outcome",
				zap.String("dispatch_id", outcome.ID),
				zap.Error(err),
			)
		}
	}

	return &outcome, nil
}

// scheduleFallbackLocked arms the direct call to phone. A call still pending
// from an earlier send is replaced.
func (d *Dispatcher) scheduleFallbackLocked(phone string) {
	if !d.opts.FallbackCall || d.dialer == nil || d.closed {
		return
	}
	if d.fallback != nil {
		d.fallback.Stop()
	}
	d.fallback = time.AfterFunc(d.opts.FallbackDelay, func() {
		if err := d.dialer.Dial(context.Background(), phone); err != nil {
			d.logger.Warn("Fallback call failed", zap.Error(err))
		}
	})
}

// Close cancels a pending fallback call.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.closed = true
	if d.fallback != nil {
		d.fallback.Stop()
		d.fallback = nil
	}
}

func toSOSRequest(req models.AlertRequest) remote.SOSRequest {
	return remote.SOSRequest{
		Name:     req.Name,
		Phone:    req.Phone,
		Contacts: req.Contacts,
		Location: remote.SOSLocation{
			Lat:      req.Location.Lat,
			Lng:      req.Location.Lng,
			Accuracy: req.Location.Accuracy,
		},
		Silent: req.Silent,
	}
}
