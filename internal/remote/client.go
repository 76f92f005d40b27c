package remote

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Profile the profile shape returned by GET /profile/{phone}.
// Pin is decoded when present but never applied locally.
type Profile struct {
	Name              string   `json:"name"`
	Phone             string   `json:"phone"`
	Pin               string   `json:"pin,omitempty"`
	EmergencyContacts []string `json:"emergency_contacts"`
	Silent            bool     `json:"silent"`
}

// SignupRequest body of POST /signup (create-or-update).
type SignupRequest struct {
	Name              string   `json:"name"`
	Phone             string   `json:"phone"`
	Pin               string   `json:"pin"`
	EmergencyContacts []string `json:"emergency_contacts"`
	Contacts          []string `json:"contacts"`
	Silent            bool     `json:"silent"`
}

// SOSLocation location block of an SOS submission
type SOSLocation struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Accuracy float64 `json:"accuracy"`
}

// SOSRequest body of POST /sos
type SOSRequest struct {
	Name     string      `json:"name"`
	Phone    string      `json:"phone"`
	Contacts []string    `json:"contacts"`
	Location SOSLocation `json:"location"`
	Silent   bool        `json:"silent"`
}

// StatusError the service answered with a non-2xx status.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// Client talks to the remote profile/alert service.
// Requests are fire-once; nothing is retried automatically.
type Client struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		httpClient: client,
		logger:     logger,
	}
}

func (c *Client) request(ctx context.Context) *resty.Request {
	return c.httpClient.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", uuid.NewString())
}

// FetchProfile reads the stored profile for phone.
func (c *Client) FetchProfile(ctx context.Context, phone string) (*Profile, error) {
	var profile Profile
	resp, err := c.request(ctx).
		SetPathParam("phone", phone).
		SetResult(&profile).
		Get("/profile/{phone}")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, statusError(resp)
	}

	c.logger.Debug("Fetched remote profile",
		zap.String("phone", phone),
		zap.Int("contacts", len(profile.EmergencyContacts)),
	)
	return &profile, nil
}

// Signup creates or updates the profile keyed by phone.
func (c *Client) Signup(ctx context.Context, req SignupRequest) error {
	resp, err := c.request(ctx).
		SetBody(req).
		Post("/signup")
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	if !resp.IsSuccess() {
		return statusError(resp)
	}

	c.logger.Info("Saved remote profile", zap.String("phone", req.Phone))
	return nil
}

// SendSOS submits one alert.
func (c *Client) SendSOS(ctx context.Context, req SOSRequest) error {
	resp, err := c.request(ctx).
		SetBody(req).
		Post("/sos")
	if err != nil {
		return fmt.Errorf("failed to send sos: %w", err)
	}
	if !resp.IsSuccess() {
		return statusError(resp)
	}
	return nil
}

// Health checks GET /health.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.request(ctx).Get("/health")
	if err != nil {
		return fmt.Errorf("failed to reach service: %w", err)
	}
	if !resp.IsSuccess() {
		return statusError(resp)
	}
	return nil
}

func statusError(resp *resty.Response) *StatusError {
	return &StatusError{
		Method:     resp.Request.Method,
		Path:       resp.Request.URL,
		StatusCode: resp.StatusCode(),
		Body:       resp.String(),
	}
}
