// Package controller orchestrates a live chat screen: the message list,
// outgoing sends, the elapsed-time tick, and history writes after each
// completed exchange.
//
// The controller initializes from configuration via New, creating all
// subsystems internally. Functional options allow overrides of any
// subsystem and seeding from a saved conversation.
//
//	c, err := controller.New(ctx, &cfg)
//	reply, err := c.Send(ctx, "What is 2+2?", "")
package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/studyloop/tutorchat/core/protocol"
	"github.com/studyloop/tutorchat/exchange"
	"github.com/studyloop/tutorchat/history"
	"github.com/studyloop/tutorchat/observability"
	"github.com/studyloop/tutorchat/session"
	"github.com/studyloop/tutorchat/storage"
)

// Exchanger abstracts the message exchange client for testability.
type Exchanger interface {
	SendInstant(ctx context.Context, turn protocol.Turn, userKey string) (string, error)
	SendCheck(ctx context.Context, turn protocol.Turn, userKey string) (protocol.Message, error)
	ResetSession(ctx context.Context)
}

// Option overrides a subsystem that New would otherwise build from
// configuration. Options are applied before config-driven construction,
// so subsystems left unset are built around the overridden ones.
type Option func(*Controller)

// WithExchanger supplies the exchange client.
func WithExchanger(e Exchanger) Option {
	return func(c *Controller) { c.exchange = e }
}

// WithSession supplies the session identity.
func WithSession(s session.Identity) Option {
	return func(c *Controller) { c.session = s }
}

// WithHistory supplies the history store.
func WithHistory(h *history.Store) Option {
	return func(c *Controller) { c.history = h }
}

// WithStore supplies the storage backend. Subsystems not themselves
// overridden are built on this store.
func WithStore(s storage.Store) Option {
	return func(c *Controller) { c.store = s }
}

// WithObserver supplies the observer used by the controller and by any
// subsystems New builds.
func WithObserver(o observability.Observer) Option {
	return func(c *Controller) { c.observer = o }
}

// WithResume seeds the controller from a saved conversation. The given
// session id becomes the active id and the message list replaces the
// greeting, so the controller behaves identically to one continuing an
// uninterrupted session.
func WithResume(sessionID string, messages []protocol.Message) Option {
	return func(c *Controller) {
		c.resumeID = sessionID
		c.resumeMsgs = slices.Clone(messages)
		c.resuming = true
	}
}

// Controller drives one live chat screen. Sends are strictly serialized:
// a send attempted while another is outstanding fails with
// ErrSendInFlight rather than interleaving.
type Controller struct {
	exchange Exchanger
	session  session.Identity
	history  *history.Store
	store    storage.Store
	observer observability.Observer

	userKey    string
	greeting   protocol.Message
	errorReply protocol.Message

	resumeID   string
	resumeMsgs []protocol.Message
	resuming   bool

	mu         sync.Mutex
	messages   []protocol.Message
	transcript int // index where the persisted transcript starts
	sending    bool
	elapsed    int
	generation uint64

	tick      *time.Ticker
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a Controller from configuration. Functional options are
// applied first; any subsystem (storage, session, history, exchange)
// not supplied by an option is then built from its config section on
// top of the already-chosen store and observer, so all subsystems share
// one backend. The persisted history collection is loaded before New
// returns.
func New(ctx context.Context, cfg *Config, opts ...Option) (*Controller, error) {
	c := &Controller{
		userKey:    cfg.UserKey,
		greeting:   protocol.NewMessage(protocol.SenderAssistant, cfg.Greeting),
		errorReply: protocol.NewMessage(protocol.SenderAssistant, cfg.ErrorReply),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.observer == nil {
		observer, err := observability.GetObserver(cfg.Observer)
		if err != nil {
			return nil, fmt.Errorf("failed to select observer: %w", err)
		}
		c.observer = observer
	}

	if c.store == nil {
		store, err := storage.New(&cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage: %w", err)
		}
		c.store = store
	}

	if c.session == nil {
		c.session = session.NewManager(c.store, session.WithObserver(c.observer))
	}
	if c.history == nil {
		c.history = history.NewStore(c.store, history.WithObserver(c.observer))
	}
	if c.exchange == nil {
		c.exchange = exchange.NewClient(cfg.Service, c.session, exchange.WithObserver(c.observer))
	}

	c.history.Load(ctx)

	if c.resuming {
		if c.resumeID != "" {
			c.session.SetActive(ctx, c.resumeID)
		} else {
			// An untagged conversation must not inherit a stale persisted
			// session id, or the next send would merge it into that
			// session's record.
			c.session.Reset(ctx)
		}
		c.messages = c.resumeMsgs
		c.emit(ctx, EventResume, observability.LevelInfo, map[string]any{
			"session_id": c.resumeID,
			"messages":   len(c.resumeMsgs),
		})
	} else {
		// The greeting is display-only. The persisted transcript starts
		// after it, so record titles derive from the first real message.
		c.messages = []protocol.Message{c.greeting}
		c.transcript = 1
	}

	c.tick = time.NewTicker(time.Second)
	c.done = make(chan struct{})
	go c.run()

	return c, nil
}

// History returns the controller's history store.
func (c *Controller) History() *history.Store {
	return c.history
}

// Send delivers a tutoring-dialogue turn and returns the appended reply.
// The user message is appended optimistically before the exchange; on
// failure a user-visible error message is appended in place of the reply
// and no error is returned. Errors are returned only for precondition
// failures that abort before any state mutation: a missing user key, an
// empty turn, or a send already in flight.
func (c *Controller) Send(ctx context.Context, text, imageRef string) (protocol.Message, error) {
	return c.send(ctx, text, imageRef, func(ctx context.Context, turn protocol.Turn) (protocol.Message, error) {
		reply, err := c.exchange.SendInstant(ctx, turn, c.userKey)
		if err != nil {
			return protocol.Message{}, err
		}
		return protocol.NewMessage(protocol.SenderAssistant, reply), nil
	})
}

// Check delivers an answer-checking turn. Semantics otherwise match Send.
func (c *Controller) Check(ctx context.Context, text, imageRef string) (protocol.Message, error) {
	return c.send(ctx, text, imageRef, func(ctx context.Context, turn protocol.Turn) (protocol.Message, error) {
		return c.exchange.SendCheck(ctx, turn, c.userKey)
	})
}

func (c *Controller) send(ctx context.Context, text, imageRef string, call func(context.Context, protocol.Turn) (protocol.Message, error)) (protocol.Message, error) {
	if c.userKey == "" {
		return protocol.Message{}, exchange.ErrMissingUserKey
	}

	userMsg := protocol.Message{Sender: protocol.SenderUser, Text: text, ImageRef: imageRef}
	if userMsg.IsEmpty() {
		return protocol.Message{}, ErrEmptyTurn
	}

	c.mu.Lock()
	if c.sending {
		c.mu.Unlock()
		return protocol.Message{}, ErrSendInFlight
	}
	c.sending = true
	generation := c.generation
	turn := protocol.Turn{Text: text, ImageRef: imageRef, ElapsedSeconds: c.elapsed}
	c.messages = append(c.messages, userMsg)
	c.mu.Unlock()

	c.emit(ctx, EventSendStart, observability.LevelVerbose, map[string]any{
		"text_length": len(text),
		"elapsed":     turn.ElapsedSeconds,
	})

	reply, err := call(ctx, turn)
	if err != nil {
		c.emit(ctx, EventSendError, observability.LevelWarning, map[string]any{
			"error": err.Error(),
		})
		reply = c.errorReply
	}

	c.mu.Lock()
	if generation != c.generation {
		// The screen was reset or torn down while the exchange was in
		// flight; the new state must not see this completion.
		c.mu.Unlock()
		c.emit(ctx, EventStaleReply, observability.LevelVerbose, nil)
		return protocol.Message{}, ErrSuperseded
	}
	c.messages = append(c.messages, reply)
	c.elapsed = 0
	c.sending = false
	snapshot := slices.Clone(c.messages[c.transcript:])

	// A session id generated lazily by the exchange client during this
	// send is picked up here and retroactively tags the record. The lock
	// is held through the upsert so a concurrent Reset or Resume cannot
	// swap the active id between the generation check and the write.
	sessionID, _ := c.session.Active(ctx)
	c.history.Upsert(ctx, snapshot, sessionID)
	c.cacheCurrent(ctx, snapshot)
	c.mu.Unlock()

	c.emit(ctx, EventSendComplete, observability.LevelInfo, map[string]any{
		"session_id": sessionID,
		"messages":   len(snapshot),
		"failed":     err != nil,
	})

	return reply, nil
}

// Messages returns a copy of the live message list.
func (c *Controller) Messages() []protocol.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.messages)
}

// SessionID returns the active session id, if any.
func (c *Controller) SessionID(ctx context.Context) (string, bool) {
	return c.session.Active(ctx)
}

// Sending reports whether a send is currently outstanding.
func (c *Controller) Sending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sending
}

// ElapsedSeconds returns the seconds elapsed since the last completed
// exchange. The counter resets to zero after every completed exchange,
// success or failure, so consecutive measurements are comparable.
func (c *Controller) ElapsedSeconds() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elapsed
}

// Resume replaces the live screen with a saved conversation. The given
// session id becomes the active id, so the next send updates the
// conversation's existing record. Any in-flight reply is discarded on
// arrival.
func (c *Controller) Resume(ctx context.Context, sessionID string, messages []protocol.Message) {
	c.mu.Lock()
	c.generation++
	c.sending = false
	c.messages = slices.Clone(messages)
	c.transcript = 0
	c.elapsed = 0
	c.mu.Unlock()

	if sessionID != "" {
		c.session.SetActive(ctx, sessionID)
	} else {
		c.session.Reset(ctx)
	}

	c.emit(ctx, EventResume, observability.LevelInfo, map[string]any{
		"session_id": sessionID,
		"messages":   len(messages),
	})
}

// Reset returns the screen to its initial state: the live list goes back
// to the greeting, the elapsed counter restarts, and the session is
// cleared through the exchange client. Any in-flight reply is discarded
// on arrival. The history collection is untouched; the conversation just
// finished keeps its already-upserted record.
func (c *Controller) Reset(ctx context.Context) {
	c.mu.Lock()
	c.generation++
	c.sending = false
	c.messages = []protocol.Message{c.greeting}
	c.transcript = 1
	c.elapsed = 0
	c.mu.Unlock()

	c.exchange.ResetSession(ctx)
	c.emit(ctx, EventReset, observability.LevelInfo, nil)
}

// Close stops the elapsed-time ticker and discards any in-flight reply.
// The controller must not be used after Close.
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.generation++
		c.mu.Unlock()

		c.tick.Stop()
		close(c.done)
	})
}

func (c *Controller) run() {
	for {
		select {
		case <-c.done:
			return
		case <-c.tick.C:
			c.mu.Lock()
			c.elapsed++
			c.mu.Unlock()
		}
	}
}

// cacheCurrent persists the live conversation under the ephemeral
// current-conversation key, which session.Reset clears.
func (c *Controller) cacheCurrent(ctx context.Context, messages []protocol.Message) {
	data, err := json.Marshal(messages)
	if err != nil {
		c.emit(ctx, EventCacheError, observability.LevelWarning, map[string]any{
			"error": err.Error(),
		})
		return
	}

	if err := c.store.Set(ctx, session.KeyCurrent, string(data)); err != nil {
		c.emit(ctx, EventCacheError, observability.LevelWarning, map[string]any{
			"error": err.Error(),
		})
	}
}

func (c *Controller) emit(ctx context.Context, typ observability.EventType, level observability.Level, data map[string]any) {
	c.observer.OnEvent(ctx, observability.Event{
		Type:      typ,
		Level:     level,
		Timestamp: time.Now(),
		Source:    "controller.Controller",
		Data:      data,
	})
}
