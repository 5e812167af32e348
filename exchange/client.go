// Package exchange sends user turns to the remote answering service and
// normalizes its replies. Two endpoints exist per user: "instant" continues
// the tutoring dialogue, "check" evaluates a submitted answer. Sends are
// fire-once with no automatic retry.
package exchange

import (
	"context"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/studyloop/tutorchat/core/protocol"
	"github.com/studyloop/tutorchat/core/response"
	"github.com/studyloop/tutorchat/observability"
	"github.com/studyloop/tutorchat/session"
)

const defaultTimeoutSeconds = 30

// Config holds exchange client initialization parameters.
type Config struct {
	BaseURL        string `json:"base_url"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"`
}

// DefaultConfig returns the default exchange configuration.
func DefaultConfig() Config {
	return Config{TimeoutSeconds: defaultTimeoutSeconds}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.BaseURL != "" {
		c.BaseURL = source.BaseURL
	}
	if source.TimeoutSeconds > 0 {
		c.TimeoutSeconds = source.TimeoutSeconds
	}
}

// Client is the message exchange client. It ensures a session id exists
// before each send, generating one through the session identity when
// absent, so a fresh conversation is tagged from its first turn.
type Client struct {
	http     *resty.Client
	session  session.Identity
	observer observability.Observer

	mu       sync.Mutex
	lastSent *protocol.Turn
}

// Option configures a Client.
type Option func(*Client)

// WithObserver overrides the default NoOpObserver.
func WithObserver(o observability.Observer) Option {
	return func(c *Client) { c.observer = o }
}

// NewClient creates a Client for the given service config and session
// identity.
func NewClient(cfg Config, ids session.Identity, opts ...Option) *Client {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = defaultTimeoutSeconds
	}

	httpc := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(time.Duration(timeout) * time.Second)

	c := &Client{
		http:     httpc,
		session:  ids,
		observer: observability.NoOpObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SendInstant sends a turn to the instant-answer endpoint and returns the
// reply text. An empty userKey fails fast with ErrMissingUserKey.
func (c *Client) SendInstant(ctx context.Context, turn protocol.Turn, userKey string) (string, error) {
	body, err := c.post(ctx, instantPath(userKey), turn, userKey)
	if err != nil {
		return "", err
	}

	parsed, err := response.ParseInstant(body)
	if err != nil {
		return "", c.fail(ctx, instantPath(userKey), 0, err)
	}

	c.remember(turn)
	return parsed.Content(), nil
}

// SendCheck sends a turn to the answer-checking endpoint and returns the
// structured evaluation as an assistant message.
func (c *Client) SendCheck(ctx context.Context, turn protocol.Turn, userKey string) (protocol.Message, error) {
	body, err := c.post(ctx, checkPath(userKey), turn, userKey)
	if err != nil {
		return protocol.Message{}, err
	}

	parsed, err := response.ParseCheck(body)
	if err != nil {
		return protocol.Message{}, c.fail(ctx, checkPath(userKey), 0, err)
	}

	c.remember(turn)
	return parsed.Message.Message(), nil
}

// ResetSession clears the active session id, the ephemeral current
// conversation cache, and the locally cached last-sent turn, so a fresh
// chat starts with a clean slate.
func (c *Client) ResetSession(ctx context.Context) {
	c.session.Reset(ctx)

	c.mu.Lock()
	c.lastSent = nil
	c.mu.Unlock()
}

// LastSent returns the most recently delivered turn, if any. The buffer
// is cleared by ResetSession.
func (c *Client) LastSent() (protocol.Turn, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.lastSent == nil {
		return protocol.Turn{}, false
	}
	return *c.lastSent, true
}

func (c *Client) post(ctx context.Context, endpoint string, turn protocol.Turn, userKey string) ([]byte, error) {
	if userKey == "" {
		return nil, ErrMissingUserKey
	}

	id, ok := c.session.Active(ctx)
	if !ok {
		id = c.session.GenerateNew(ctx)
	}

	c.observer.OnEvent(ctx, observability.Event{
		Type:      EventRequest,
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    "exchange.Client",
		Data: map[string]any{
			"endpoint":   endpoint,
			"session_id": id,
			"elapsed":    turn.ElapsedSeconds,
		},
	})

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(newPayload(turn, id)).
		Post(endpoint)
	if err != nil {
		return nil, c.fail(ctx, endpoint, 0, err)
	}
	if resp.IsError() {
		return nil, c.fail(ctx, endpoint, resp.StatusCode(), nil)
	}

	return resp.Body(), nil
}

func (c *Client) remember(turn protocol.Turn) {
	c.mu.Lock()
	c.lastSent = &turn
	c.mu.Unlock()
}

func (c *Client) fail(ctx context.Context, endpoint string, status int, err error) error {
	remote := &RemoteError{Endpoint: endpoint, Status: status, Err: err}

	c.observer.OnEvent(ctx, observability.Event{
		Type:      EventError,
		Level:     observability.LevelWarning,
		Timestamp: time.Now(),
		Source:    "exchange.Client",
		Data: map[string]any{
			"endpoint": endpoint,
			"error":    remote.Error(),
		},
	})

	return remote
}
