package dispatch

import (
	"context"

	"github.com/Jasmitha1474/women-safety-app/internal/helplines"

	"go.uber.org/zap"
)

// Dialer places a direct voice call.
type Dialer interface {
	Dial(ctx context.Context, phone string) error
}

// LogDialer hands the call off as a tel: link in the log. Used where no
// telephony integration exists.
type LogDialer struct {
	logger *zap.Logger
}

func NewLogDialer(logger *zap.Logger) *LogDialer {
	return &LogDialer{logger: logger}
}

func (l *LogDialer) Dial(_ context.Context, phone string) error {
	l.logger.Info("Placing fallback call", zap.String("uri", helplines.TelURI(phone)))
	return nil
}
