package location

import (
	"context"
	"fmt"
	"time"

	"github.com/Jasmitha1474/women-safety-app/internal/models"

	"go.uber.org/zap"
)

// ErrorCode reason a provider could not produce a reading
type ErrorCode string

const (
	PermissionDenied    ErrorCode = "permission_denied"
	PositionUnavailable ErrorCode = "position_unavailable"
	Timeout             ErrorCode = "timeout"
)

// ProviderError failure reported by the platform geolocation provider.
type ProviderError struct {
	Code    ErrorCode
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Options request options passed to the provider
type Options struct {
	HighAccuracy bool
}

// Reading raw provider output
type Reading struct {
	Lat      float64
	Lng      float64
	Accuracy float64
}

// Provider the platform geolocation capability.
type Provider interface {
	Request(ctx context.Context, opts Options) (Reading, error)
}

// ResultKind outcome class of AcquireFix
type ResultKind int

const (
	KindFix ResultKind = iota
	KindUnavailable
	KindError
)

func (k ResultKind) String() string {
	switch k {
	case KindFix:
		return "fix"
	case KindUnavailable:
		return "unavailable"
	default:
		return "error"
	}
}

// Result of one fix request. Fix is set only for KindFix; Reason carries the
// message for the other kinds.
type Result struct {
	Kind   ResultKind
	Fix    models.LocationFix
	Reason string
}

// Service obtains one-shot device position fixes.
// Callers must not issue overlapping AcquireFix calls.
type Service struct {
	provider Provider
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates the service. A nil provider means the device has no
// geolocation capability.
func NewService(provider Provider, logger *zap.Logger) *Service {
	return &Service{
		provider: provider,
		logger:   logger,
		now:      time.Now,
	}
}

// AcquireFix requests a single high-accuracy fix. The result is delivered
// exactly once.
func (s *Service) AcquireFix(ctx context.Context) Result {
	if s.provider == nil {
		return Result{Kind: KindUnavailable, Reason: "geolocation is not supported on this device"}
	}

	r, err := s.provider.Request(ctx, Options{HighAccuracy: true})
	if err != nil {
		s.logger.Warn("Location request failed", zap.Error(err))
		return Result{Kind: KindError, Reason: err.Error()}
	}

	fix := models.LocationFix{
		Lat:        r.Lat,
		Lng:        r.Lng,
		Accuracy:   r.Accuracy,
		CapturedAt: s.now(),
	}
	if !fix.Valid() {
		return Result{Kind: KindError, Reason: "provider returned a non-finite position"}
	}

	s.logger.Debug("Location fix acquired",
		zap.Float64("lat", fix.Lat),
		zap.Float64("lng", fix.Lng),
		zap.Float64("accuracy", fix.Accuracy),
	)
	return Result{Kind: KindFix, Fix: fix}
}
