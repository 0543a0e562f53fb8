// Package controller owns the client-side state of an Aegis session: the
// active panel, the persisted terminal log, the latest status and analysis,
// and the chat exchange driven by submitted prompts.
package controller

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"aegis/internal/chat"
	"aegis/internal/logging"
	"aegis/internal/logstore"
	"aegis/internal/models"
)

const (
	SeedMessage        = "Aegis System v1.2.0 Initializing..."
	NoResponseMessage  = "No response"
	NotInitializedMsg  = "AI is not initialized. Check your API key."
	ExecutionFailedMsg = "Execution failed: Connection error"

	// TimestampLayout renders entry times as a local wall-clock time.
	TimestampLayout = "3:04:05 PM"

	defaultPollInterval = 5 * time.Second
)

// State is an immutable copy of the controller state.
type State struct {
	ActiveTab     Tab
	ShowReasoning bool
	Logs          []models.LogEntry
	Input         string
	Processing    bool
	Status        *models.SystemStatus
	Analysis      *models.AnalysisData
	ChatReady     bool
}

// Options wires the controller's collaborators.
type Options struct {
	Backend Backend
	Store   logstore.Store
	// OpenChat opens the chat session during Initialize. A nil func or
	// chat.ErrNoCredential leaves the session absent.
	OpenChat     func() (chat.Session, error)
	Logger       *logging.Logger
	PollInterval time.Duration
	// Now and NewID default to time.Now and uuid.NewString.
	Now   func() time.Time
	NewID func() string
}

// Controller is safe for concurrent use.
type Controller struct {
	opts Options

	mu            sync.Mutex
	activeTab     Tab
	showReasoning bool
	logs          []models.LogEntry
	input         string
	processing    bool
	status        *models.SystemStatus
	analysis      *models.AnalysisData
	session       chat.Session

	changes   chan struct{}
	stopPoll  chan struct{}
	pollWG    sync.WaitGroup
	pending   sync.WaitGroup
	startOnce sync.Once
	closeOnce sync.Once
}

func New(opts Options) *Controller {
	if opts.Store == nil {
		opts.Store = logstore.NewMemoryStore()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return &Controller{
		opts:      opts,
		activeTab: TabTerminal,
		changes:   make(chan struct{}, 1),
		stopPoll:  make(chan struct{}),
	}
}

// Initialize restores or seeds the log, fetches status and analysis once,
// starts the status poll and opens the chat session. Backend failures are
// logged and leave the corresponding state empty.
func (c *Controller) Initialize(ctx context.Context) {
	entries, found, err := c.opts.Store.Load(ctx)
	if err != nil {
		c.opts.Logger.Errorf("Failed to load %s: %v", logstore.Key, err)
		found = false
	}

	c.mu.Lock()
	if found {
		c.logs = models.CloneLog(entries)
	} else {
		c.logs = []models.LogEntry{c.newEntry(models.LogTypeInfo, SeedMessage)}
	}
	c.persistLocked(ctx)
	c.mu.Unlock()
	c.notify()

	c.refreshStatus(ctx)
	c.refreshAnalysis(ctx)

	c.openChat()

	c.startOnce.Do(func() {
		c.pollWG.Add(1)
		go c.poll()
	})
}

func (c *Controller) openChat() {
	if c.opts.OpenChat == nil {
		return
	}
	s, err := c.opts.OpenChat()
	if err != nil {
		if !errors.Is(err, chat.ErrNoCredential) {
			c.opts.Logger.Errorf("Failed to initialize chat session: %v", err)
		}
		return
	}
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
	c.notify()
}

func (c *Controller) poll() {
	defer c.pollWG.Done()
	ticker := time.NewTicker(c.opts.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), c.opts.PollInterval)
			c.refreshStatus(ctx)
			cancel()
		case <-c.stopPoll:
			return
		}
	}
}

// RefreshStatus fetches the status now. A failure keeps the previous value.
func (c *Controller) RefreshStatus(ctx context.Context) {
	c.refreshStatus(ctx)
}

func (c *Controller) refreshStatus(ctx context.Context) {
	if c.opts.Backend == nil {
		return
	}
	st, err := c.opts.Backend.Status(ctx)
	if err != nil {
		c.opts.Logger.Debugf("status fetch failed: %v", err)
		return
	}
	c.mu.Lock()
	c.status = &st
	c.mu.Unlock()
	c.notify()
}

func (c *Controller) refreshAnalysis(ctx context.Context) {
	if c.opts.Backend == nil {
		return
	}
	a, err := c.opts.Backend.Analysis(ctx)
	if err != nil {
		c.opts.Logger.Errorf("analysis fetch failed: %v", err)
		return
	}
	c.mu.Lock()
	c.analysis = &a
	c.mu.Unlock()
	c.notify()
}

// SubmitCommand sends text to the chat session and records the exchange.
// It returns false without touching state when text is blank or another
// submission is in flight.
func (c *Controller) SubmitCommand(ctx context.Context, text string) bool {
	prompt, session, ok := c.begin(ctx, text)
	if !ok {
		return false
	}
	c.finishChat(ctx, prompt, session)
	return true
}

// SubmitCommandAsync performs the same guard synchronously and runs the
// chat call on its own goroutine.
func (c *Controller) SubmitCommandAsync(text string) bool {
	ctx := context.Background()
	prompt, session, ok := c.begin(ctx, text)
	if !ok {
		return false
	}
	c.pending.Add(1)
	go func() {
		defer c.pending.Done()
		c.finishChat(ctx, prompt, session)
	}()
	return true
}

// begin checks and sets the in-flight flag under the lock and records the
// command entry.
func (c *Controller) begin(ctx context.Context, text string) (string, chat.Session, bool) {
	prompt := strings.TrimSpace(text)
	c.mu.Lock()
	if prompt == "" || c.processing {
		c.mu.Unlock()
		return "", nil, false
	}
	c.input = ""
	c.appendLocked(ctx, models.LogTypeCommand, prompt)
	c.processing = true
	session := c.session
	c.mu.Unlock()
	c.notify()
	return prompt, session, true
}

func (c *Controller) finishChat(ctx context.Context, prompt string, session chat.Session) {
	kind, msg := models.LogTypeError, NotInitializedMsg
	if session != nil {
		reply, err := session.Send(ctx, prompt)
		switch {
		case err != nil:
			c.opts.Logger.Errorf("Chat request failed: %v", err)
			kind, msg = models.LogTypeError, ExecutionFailedMsg
		case reply == "":
			kind, msg = models.LogTypeInfo, NoResponseMessage
		default:
			kind, msg = models.LogTypeInfo, reply
		}
	}
	c.finish(ctx, kind, msg)
}

func (c *Controller) finish(ctx context.Context, kind models.LogType, msg string) {
	c.mu.Lock()
	c.appendLocked(ctx, kind, msg)
	c.processing = false
	c.mu.Unlock()
	c.notify()
}

// Execute runs text through the facade's command mapping instead of the
// chat service. Output is recorded as a success entry.
func (c *Controller) Execute(ctx context.Context, text string) bool {
	command, _, ok := c.begin(ctx, text)
	if !ok {
		return false
	}
	if c.opts.Backend == nil {
		c.finish(ctx, models.LogTypeError, ExecutionFailedMsg)
		return true
	}
	res, err := c.opts.Backend.Execute(ctx, command)
	if err != nil {
		c.opts.Logger.Errorf("Execute request failed: %v", err)
		c.finish(ctx, models.LogTypeError, ExecutionFailedMsg)
		return true
	}
	c.finish(ctx, models.LogTypeSuccess, res.Output)
	return true
}

// ClearLog resets the log to a single fresh seed entry.
func (c *Controller) ClearLog() {
	ctx := context.Background()
	c.mu.Lock()
	c.logs = []models.LogEntry{c.newEntry(models.LogTypeInfo, SeedMessage)}
	c.persistLocked(ctx)
	c.mu.Unlock()
	c.notify()
}

// SetTab switches panels; unknown tabs are ignored.
func (c *Controller) SetTab(t Tab) {
	if !t.Valid() {
		return
	}
	c.mu.Lock()
	c.activeTab = t
	c.mu.Unlock()
	c.notify()
}

func (c *Controller) ToggleReasoning() {
	c.mu.Lock()
	c.showReasoning = !c.showReasoning
	c.mu.Unlock()
	c.notify()
}

func (c *Controller) SetInput(text string) {
	c.mu.Lock()
	c.input = text
	c.mu.Unlock()
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := State{
		ActiveTab:     c.activeTab,
		ShowReasoning: c.showReasoning,
		Logs:          models.CloneLog(c.logs),
		Input:         c.input,
		Processing:    c.processing,
		ChatReady:     c.session != nil,
	}
	if c.status != nil {
		st := *c.status
		s.Status = &st
	}
	if c.analysis != nil {
		s.Analysis = c.analysis.Copy()
	}
	return s
}

// Changes delivers a coalesced signal after every state change.
func (c *Controller) Changes() <-chan struct{} {
	return c.changes
}

// Close stops the status poll and waits for it and for any asynchronous
// submission still in flight, so the final reply is persisted before the
// store is closed. A pending chat call is bounded by its HTTP timeout.
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		close(c.stopPoll)
	})
	c.pollWG.Wait()
	c.pending.Wait()
}

func (c *Controller) notify() {
	select {
	case c.changes <- struct{}{}:
	default:
	}
}

func (c *Controller) newEntry(kind models.LogType, msg string) models.LogEntry {
	return models.LogEntry{
		ID:        c.opts.NewID(),
		Type:      kind,
		Message:   msg,
		Timestamp: c.opts.Now().Format(TimestampLayout),
	}
}

func (c *Controller) appendLocked(ctx context.Context, kind models.LogType, msg string) {
	c.logs = append(c.logs, c.newEntry(kind, msg))
	c.persistLocked(ctx)
}

// persistLocked writes the whole log. Caller must hold c.mu.
func (c *Controller) persistLocked(ctx context.Context) {
	if err := c.opts.Store.Save(context.WithoutCancel(ctx), c.logs); err != nil {
		c.opts.Logger.Errorf("Failed to persist %s: %v", logstore.Key, err)
	}
}
