package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Jasmitha1474/women-safety-app/internal/models"
	"github.com/Jasmitha1474/women-safety-app/internal/remote"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) SendSOS(ctx context.Context, req remote.SOSRequest) error {
	return m.Called(ctx, req).Error(0)
}

type staticProfile models.UserProfile

func (p staticProfile) Snapshot() models.UserProfile { return models.UserProfile(p).Clone() }

type recordingDialer struct {
	calls chan string
}

func newRecordingDialer() *recordingDialer {
	return &recordingDialer{calls: make(chan string, 4)}
}

func (r *recordingDialer) Dial(_ context.Context, phone string) error {
	r.calls <- phone
	return nil
}

var (
	testProfile = staticProfile{
		Name:     "Asha",
		Phone:    "9876543210",
		Contacts: []string{" 9000000001", "9000000002"},
		Silent:   true,
	}
	testFix = &models.LocationFix{Lat: 12.9716, Lng: 77.5946, Accuracy: 15}
)

const fallbackDelay = 20 * time.Millisecond

func newDispatcher(sender AlertSender, profile ProfileSource, dialer Dialer, sinks ...OutcomeSink) *Dispatcher {
	return New(sender, profile, dialer, Options{FallbackCall: true, FallbackDelay: fallbackDelay}, zap.NewNop(), sinks...)
}

func TestTrigger_NoContactsCheckedFirst(t *testing.T) {
	sender := &mockSender{}
	d := newDispatcher(sender, staticProfile{Phone: "9876543210", Contacts: []string{"", "  "}}, nil)

	out, err := d.Trigger(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoContactsConfigured)
	assert.Nil(t, out)
	assert.Equal(t, Idle, d.State())
	sender.AssertNotCalled(t, "SendSOS", mock.Anything, mock.Anything)
}

func TestTrigger_LocationNotReady(t *testing.T) {
	sender := &mockSender{}
	d := newDispatcher(sender, testProfile, nil)

	_, err := d.Trigger(context.Background(), nil)
	assert.ErrorIs(t, err, ErrLocationNotReady)
	assert.Equal(t, Idle, d.State())
	sender.AssertNotCalled(t, "SendSOS", mock.Anything, mock.Anything)
}

func TestTrigger_Sent(t *testing.T) {
	sender := &mockSender{}
	sender.On("SendSOS", mock.Anything, remote.SOSRequest{
		Name:     "Asha",
		Phone:    "9876543210",
		Contacts: []string{"9000000001", "9000000002"},
		Location: remote.SOSLocation{Lat: 12.9716, Lng: 77.5946, Accuracy: 15},
		Silent:   true,
	}).Return(nil).Once()

	var published []models.AlertOutcome
	sink := SinkFunc(func(_ context.Context, phone string, o models.AlertOutcome) error {
		assert.Equal(t, "9876543210", phone)
		published = append(published, o)
		return nil
	})
	dialer := newRecordingDialer()
	d := newDispatcher(sender, testProfile, dialer, sink)

	out, err := d.Trigger(context.Background(), testFix)
	require.NoError(t, err)
	require.NotNil(t, out)

	assert.Equal(t, models.AlertSent, out.Status)
	assert.NotEmpty(t, out.ID)
	assert.False(t, out.Timestamp.IsZero())
	assert.Empty(t, out.Error)
	assert.Equal(t, Sent, d.State())
	assert.Equal(t, []models.AlertOutcome{*out}, published)

	select {
	case phone := <-dialer.calls:
		assert.Equal(t, "9000000001", phone)
	case <-time.After(time.Second):
		t.Fatal("fallback call was not placed")
	}
	sender.AssertExpectations(t)
}

func TestTrigger_Failed(t *testing.T) {
	sender := &mockSender{}
	sender.On("SendSOS", mock.Anything, mock.Anything).Return(&remote.StatusError{StatusCode: 500, Body: "boom"})
	dialer := newRecordingDialer()
	d := newDispatcher(sender, testProfile, dialer)

	out, err := d.Trigger(context.Background(), testFix)
	require.NoError(t, err)
	assert.Equal(t, models.AlertFailed, out.Status)
	assert.Contains(t, out.Error, "500")
	assert.Equal(t, Failed, d.State())

	select {
	case <-dialer.calls:
		t.Fatal("fallback call placed after a failed send")
	case <-time.After(5 * fallbackDelay):
	}
}

func TestTrigger_NetworkError(t *testing.T) {
	sender := &mockSender{}
	sender.On("SendSOS", mock.Anything, mock.Anything).Return(errors.New("dial tcp: connection refused"))
	dialer := newRecordingDialer()
	d := newDispatcher(sender, testProfile, dialer)

	out, err := d.Trigger(context.Background(), testFix)
	require.NoError(t, err)
	assert.Equal(t, models.AlertNetworkError, out.Status)
	assert.Equal(t, NetworkError, d.State())

	select {
	case <-dialer.calls:
		t.Fatal("fallback call placed after a network error")
	case <-time.After(5 * fallbackDelay):
	}
}

type blockingSender struct {
	entered chan struct{}
	release chan struct{}
	mu      sync.Mutex
	calls   int
}

func (b *blockingSender) SendSOS(ctx context.Context, _ remote.SOSRequest) error {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()
	b.entered <- struct{}{}
	<-b.release
	return nil
}

func TestTrigger_SingleFlight(t *testing.T) {
	sender := &blockingSender{entered: make(chan struct{}, 1), release: make(chan struct{})}
	d := newDispatcher(sender, testProfile, nil)

	done := make(chan *models.AlertOutcome)
	go func() {
		out, _ := d.Trigger(context.Background(), testFix)
		done <- out
	}()

	<-sender.entered
	assert.Equal(t, Sending, d.State())

	out, err := d.Trigger(context.Background(), testFix)
	assert.NoError(t, err)
	assert.Nil(t, out)

	close(sender.release)
	first := <-done
	require.NotNil(t, first)
	assert.Equal(t, models.AlertSent, first.Status)

	sender.mu.Lock()
	assert.Equal(t, 1, sender.calls)
	sender.mu.Unlock()
}

func TestTrigger_CloseDuringSendSkipsSinks(t *testing.T) {
	sender := &blockingSender{entered: make(chan struct{}, 1), release: make(chan struct{})}
	var mu sync.Mutex
	published := 0
	sink := SinkFunc(func(context.Context, string, models.AlertOutcome) error {
		mu.Lock()
		published++
		mu.Unlock()
		return nil
	})
	dialer := newRecordingDialer()
	d := newDispatcher(sender, testProfile, dialer, sink)

	done := make(chan *models.AlertOutcome)
	go func() {
		out, _ := d.Trigger(context.Background(), testFix)
		done <- out
	}()

	<-sender.entered
	d.Close()
	close(sender.release)

	out := <-done
	require.NotNil(t, out)
	assert.Equal(t, models.AlertSent, out.Status)
	assert.Equal(t, Sent, d.State())

	mu.Lock()
	assert.Zero(t, published)
	mu.Unlock()

	select {
	case <-dialer.calls:
		t.Fatal("fallback call placed after close")
	case <-time.After(5 * fallbackDelay):
	}
}

func TestTrigger_RetryAfterFailureIsAllowed(t *testing.T) {
	sender := &mockSender{}
	sender.On("SendSOS", mock.Anything, mock.Anything).Return(errors.New("timeout")).Once()
	sender.On("SendSOS", mock.Anything, mock.Anything).Return(nil).Once()
	d := newDispatcher(sender, testProfile, nil)

	first, err := d.Trigger(context.Background(), testFix)
	require.NoError(t, err)
	second, err := d.Trigger(context.Background(), testFix)
	require.NoError(t, err)

	assert.Equal(t, models.AlertNetworkError, first.Status)
	assert.Equal(t, models.AlertSent, second.Status)
	assert.NotEqual(t, first.ID, second.ID)
	sender.AssertExpectations(t)
}

func TestTrigger_SinkErrorDoesNotChangeOutcome(t *testing.T) {
	sender := &mockSender{}
	sender.On("SendSOS", mock.Anything, mock.Anything).Return(nil)
	sink := SinkFunc(func(context.Context, string, models.AlertOutcome) error { return errors.New("broker down") })
	d := newDispatcher(sender, testProfile, nil, sink)

	out, err := d.Trigger(context.Background(), testFix)
	require.NoError(t, err)
	assert.Equal(t, models.AlertSent, out.Status)
}

func TestTrigger_FallbackDisabled(t *testing.T) {
	sender := &mockSender{}
	sender.On("SendSOS", mock.Anything, mock.Anything).Return(nil)
	dialer := newRecordingDialer()
	d := New(sender, testProfile, dialer, Options{FallbackCall: false, FallbackDelay: fallbackDelay}, zap.NewNop())

	_, err := d.Trigger(context.Background(), testFix)
	require.NoError(t, err)

	select {
	case <-dialer.calls:
		t.Fatal("fallback call placed while disabled")
	case <-time.After(5 * fallbackDelay):
	}
}

func TestClose_CancelsPendingFallback(t *testing.T) {
	sender := &mockSender{}
	sender.On("SendSOS", mock.Anything, mock.Anything).Return(nil)
	dialer := newRecordingDialer()
	d := New(sender, testProfile, dialer, Options{FallbackCall: true, FallbackDelay: 100 * time.Millisecond}, zap.NewNop())

	_, err := d.Trigger(context.Background(), testFix)
	require.NoError(t, err)
	d.Close()

	select {
	case <-dialer.calls:
		t.Fatal("fallback call placed after close")
	case <-time.After(300 * time.Millisecond):
	}
}

type recordedPublish struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

type fakePublisher struct {
	got          []recordedPublish
	disconnected bool
}

func (f *fakePublisher) IsConnected() bool { return !f.disconnected }

func (f *fakePublisher) Publish(topic string, qos byte, retained bool, payload []byte) error {
	f.got = append(f.got, recordedPublish{topic, qos, retained, payload})
	return nil
}

func TestMQTTSink_Publish(t *testing.T) {
	pub := &fakePublisher{}
	sink := NewMQTTSink(pub, "safepulse", 1)
	outcome := models.AlertOutcome{
		ID:        "d-1",
		Status:    models.AlertFailed,
		Timestamp: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Error:     "unexpected status 500",
	}

	require.NoError(t, sink.Publish(context.Background(), "9876543210", outcome))
	require.Len(t, pub.got, 1)

	assert.Equal(t, "safepulse/9876543210/outcomes", pub.got[0].topic)
	assert.Equal(t, byte(1), pub.got[0].qos)
	assert.False(t, pub.got[0].retained)

	var decoded models.AlertOutcome
	require.NoError(t, json.Unmarshal(pub.got[0].payload, &decoded))
	assert.Equal(t, outcome, decoded)
}

func TestMQTTSink_BrokerDisconnected(t *testing.T) {
	pub := &fakePublisher{disconnected: true}
	sink := NewMQTTSink(pub, "safepulse", 1)

	err := sink.Publish(context.Background(), "9876543210", models.AlertOutcome{ID: "d-1", Status: models.AlertSent})
	assert.ErrorIs(t, err, ErrBrokerDisconnected)
	assert.Empty(t, pub.got)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "sending", Sending.String())
	assert.Equal(t, "sent", Sent.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "network_error", NetworkError.String())
}

func TestLogDialer(t *testing.T) {
	assert.NoError(t, NewLogDialer(zap.NewNop()).Dial(context.Background(), "9000000001"))
}
