package client

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// defaultDebounce coalesces a burst of board events into a single
	// refresh. Drag-and-drop produces several events in quick succession;
	// refetching once after the burst settles is enough.
	defaultDebounce = 500 * time.Millisecond

	// defaultReconnectDelay is the fixed pause between reconnect attempts.
	// The subscriber retries forever; a board view with no stream is stale,
	// not broken.
	defaultReconnectDelay = 5 * time.Second
)

// Event is one frame from the server's push stream.
type Event struct {
	Type    string          `json:"type"`
	Data    json.RawMessage `json:"data,omitempty"`
	BoardID string          `json:"boardId,omitempty"`
	UserID  string          `json:"userId,omitempty"`
}

// EventConnected is the handshake frame sent once per stream.
const EventConnected = "connected"

// Subscriber holds an SSE connection to the server and keeps a Store fresh
// for one board. Events for other boards are ignored; relevant events are
// debounced and answered with a single Refresh.
type Subscriber struct {
	client  *Client
	store   *Store
	boardID string

	// OnEvent, when set, observes every decoded frame before filtering.
	OnEvent func(Event)

	debounce       time.Duration
	reconnectDelay time.Duration

	mu          sync.Mutex
	pending     *time.Timer
	needBoards  bool
	needColumns bool
	needTasks   bool
	cancel      context.CancelFunc
	done        chan struct{}
}

// SubscriberOption configures a Subscriber.
type SubscriberOption func(*Subscriber)

// WithDebounce overrides the refresh debounce window.
func WithDebounce(d time.Duration) SubscriberOption {
	return func(s *Subscriber) { s.debounce = d }
}

// WithReconnectDelay overrides the pause between reconnect attempts.
func WithReconnectDelay(d time.Duration) SubscriberOption {
	return func(s *Subscriber) { s.reconnectDelay = d }
}

// NewSubscriber creates a Subscriber for one board. Call Start to connect.
func NewSubscriber(c *Client, store *Store, boardID string, opts ...SubscriberOption) *Subscriber {
	s := &Subscriber{
		client:         c,
		store:          store,
		boardID:        boardID,
		debounce:       defaultDebounce,
		reconnectDelay: defaultReconnectDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens the stream in a background goroutine. The subscriber reconnects
// after any stream failure until Stop is called or ctx is cancelled.
func (s *Subscriber) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.done = make(chan struct{})
	s.mu.Unlock()

	go s.run(ctx)
}

// Stop tears the stream down and cancels any pending refresh. It blocks until
// the read loop has exited.
func (s *Subscriber) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (s *Subscriber) run(ctx context.Context) {
	defer close(s.done)

	for {
		if err := s.stream(ctx); err != nil && ctx.Err() == nil {
			log.Warn().Err(err).Str("board", s.boardID).Msg("client: event stream dropped")
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(s.reconnectDelay):
		}
	}
}

// stream opens one SSE connection and decodes frames until it breaks.
func (s *Subscriber) stream(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.client.baseURL+"/events", nil)
	if err != nil {
		return fmt.Errorf("client: build stream request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	if s.client.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.client.token)
	}

	// The stream must outlive any client-level timeout.
	httpc := &http.Client{Transport: s.client.httpc.Transport}

	resp, err := httpc.Do(req)
	if err != nil {
		return fmt.Errorf("client: connect stream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &APIError{Status: resp.StatusCode, Title: resp.Status}
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)

	var data strings.Builder
	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "data:"):
			data.WriteString(strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		case line == "":
			if data.Len() > 0 {
				s.dispatch(ctx, data.String())
				data.Reset()
			}
		default:
			// Comment or field we do not use, e.g. ": ping" heartbeats.
		}
	}
	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("client: read stream: %w", err)
	}
	return nil
}

func (s *Subscriber) dispatch(ctx context.Context, payload string) {
	var evt Event
	if err := json.Unmarshal([]byte(payload), &evt); err != nil {
		log.Warn().Err(err).Msg("client: malformed event frame")
		return
	}

	if s.OnEvent != nil {
		s.OnEvent(evt)
	}

	if evt.Type == EventConnected {
		return
	}
	// Events scoped to another board are irrelevant here.
	if evt.BoardID != "" && evt.BoardID != s.boardID {
		return
	}

	s.scheduleRefresh(ctx, evt.Type)
}

// scheduleRefresh notes which slices the event invalidated and arms or
// extends the debounce timer. Further events during the window coalesce into
// the already-armed refresh, widening it as needed.
func (s *Subscriber) scheduleRefresh(ctx context.Context, eventType string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case eventType == "board_updated":
		s.needBoards = true
	case strings.HasPrefix(eventType, "column_"):
		s.needColumns = true
		if eventType == "column_deleted" {
			// Deleting a column cascades to its tasks.
			s.needTasks = true
		}
	case strings.HasPrefix(eventType, "task_"):
		s.needTasks = true
	default:
		s.needColumns = true
		s.needTasks = true
	}

	// Trailing-edge debounce: every qualifying event pushes the refresh out
	// by a full window, so a burst settles before anything is refetched.
	if s.pending != nil {
		s.pending.Reset(s.debounce)
		return
	}
	s.pending = time.AfterFunc(s.debounce, func() { s.refresh(ctx) })
}

func (s *Subscriber) refresh(ctx context.Context) {
	s.mu.Lock()
	s.pending = nil
	boards, columns, tasks := s.needBoards, s.needColumns, s.needTasks
	s.needBoards, s.needColumns, s.needTasks = false, false, false
	s.mu.Unlock()

	if ctx.Err() != nil {
		return
	}

	var err error
	if boards {
		err = s.store.LoadBoards(ctx)
	}
	if err == nil && columns {
		err = s.store.LoadColumns(ctx, s.boardID)
	}
	if err == nil && tasks {
		err = s.store.LoadTasks(ctx, s.boardID)
	}
	if err != nil {
		log.Warn().Err(err).Str("board", s.boardID).Msg("client: refresh after event failed")
	}
}
