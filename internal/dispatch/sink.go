package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Jasmitha1474/women-safety-app/internal/models"
)

// OutcomeSink receives every alert outcome once.
type OutcomeSink interface {
	Publish(ctx context.Context, phone string, outcome models.AlertOutcome) error
}

// SinkFunc adapts a function to OutcomeSink.
type SinkFunc func(ctx context.Context, phone string, outcome models.AlertOutcome) error

func (f SinkFunc) Publish(ctx context.Context, phone string, outcome models.AlertOutcome) error {
	return f(ctx, phone, outcome)
}

// ErrBrokerDisconnected returned by MQTTSink once the client has been
// disconnected.
var ErrBrokerDisconnected = errors.New("mqtt broker not connected")

// Publisher the MQTT calls used by MQTTSink.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload []byte) error
	IsConnected() bool
}

// MQTTSink streams outcomes to <prefix>/<phone>/outcomes. Messages are not
// retained.
type MQTTSink struct {
	pub    Publisher
	prefix string
	qos    byte
}

func NewMQTTSink(pub Publisher, prefix string, qos byte) *MQTTSink {
	return &MQTTSink{pub: pub, prefix: prefix, qos: qos}
}

func (s *MQTTSink) Publish(_ context.Context, phone string, outcome models.AlertOutcome) error {
	if !s.pub.IsConnected() {
		return ErrBrokerDisconnected
	}
	payload, err := json.Marshal(outcome)
	if err != nil {
		return fmt.Errorf("failed to encode outcome: %w", err)
	}
	return s.pub.Publish(OutcomeTopic(s.prefix, phone), s.qos, false, payload)
}

// OutcomeTopic returns the topic outcomes for phone are published on.
func OutcomeTopic(prefix, phone string) string {
	return fmt.Sprintf("%s/%s/outcomes", prefix, phone)
}
