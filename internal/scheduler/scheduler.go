package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/auekha/al/internal/journal"
	"github.com/auekha/al/internal/logging"
	"github.com/auekha/al/internal/metrics"
	"github.com/auekha/al/internal/parse"
	"github.com/auekha/al/internal/prompt"
	"github.com/auekha/al/internal/types"
)

// ErrAlreadyActive is returned by Activate when the channel already has
// state. The caller surfaces it as a user notice, never as a crash.
var ErrAlreadyActive = errors.New("already active in this channel")

const deathNotice = "I died. Use `/alive` to bring me back to life."

// Channel is the platform channel surface the scheduler drives.
type Channel interface {
	ID() string
	Typing() error
	Send(content, replyToID string) error
	// History fetches up to limit recent messages, newest first.
	History(limit int) ([]types.MessageDetails, error)
}

// Completer produces one freeform completion for a prompt pair.
type Completer interface {
	Complete(ctx context.Context, userMsg, systemMsg string) (string, error)
}

// Resolver maps short ids back to full message ids.
type Resolver interface {
	Resolve(shortID string) (string, bool)
}

// Config is the scheduler's tuning.
type Config struct {
	Lifespan        int           // replies before a channel dies
	Debounce        time.Duration // quiet period before a reply fires
	Window          int           // history messages per prompt
	ImpatienceLimit int           // unreplied messages that force an early fire
	BotID           string        // the bot's own user id, for self-filtering
}

// channelState is the per-channel record. Exactly one exists per active
// channel, owned by the scheduler's map.
type channelState struct {
	ch          Channel
	activatedAt time.Time
	timer       *time.Timer
	impatience  int
	lifespan    int
	busy        bool
	profiles    map[string]string
}

// Scheduler owns the active channels and decides when each one speaks:
// a fixed debounce after the last message, cut short when impatience builds
// up, bounded by a per-activation lifespan.
type Scheduler struct {
	cfg      Config
	composer *prompt.Composer
	llm      Completer
	registry Resolver
	trace    *journal.Journal // nil disables the trace journal

	mu       sync.Mutex
	channels map[string]*channelState
}

// New creates a scheduler. trace may be nil.
func New(cfg Config, composer *prompt.Composer, llm Completer, registry Resolver, trace *journal.Journal) *Scheduler {
	return &Scheduler{
		cfg:      cfg,
		composer: composer,
		llm:      llm,
		registry: registry,
		trace:    trace,
		channels: make(map[string]*channelState),
	}
}

// Activate brings the bot alive in a channel with fresh counters. At most
// one state exists per channel id.
func (s *Scheduler) Activate(ch Channel) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.channels[ch.ID()]; ok {
		return ErrAlreadyActive
	}

	s.channels[ch.ID()] = &channelState{
		ch:          ch,
		activatedAt: time.Now(),
		lifespan:    s.cfg.Lifespan,
		profiles:    make(map[string]string),
	}
	metrics.SetActiveChannels(len(s.channels))
	logging.Info("scheduler", "alive in channel %s (lifespan %d)", ch.ID(), s.cfg.Lifespan)
	return nil
}

// Profiles returns a copy of the channel's profile map, and whether the
// channel is active at all.
func (s *Scheduler) Profiles(channelID string) (map[string]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cs, ok := s.channels[channelID]
	if !ok {
		return nil, false
	}
	out := make(map[string]string, len(cs.profiles))
	for tag, p := range cs.profiles {
		out[tag] = p
	}
	return out, true
}

// HandleMessage is the scheduler's event entry point. Messages from the bot
// itself or from channels with no state are ignored. Otherwise impatience
// grows; at the limit the reply fires immediately, below it the debounce
// timer restarts.
func (s *Scheduler) HandleMessage(msg types.Incoming) {
	if msg.AuthorID == s.cfg.BotID {
		return
	}

	s.mu.Lock()
	cs, ok := s.channels[msg.ChannelID]
	if !ok {
		s.mu.Unlock()
		return
	}

	metrics.MessageObserved()
	cs.impatience++
	if cs.impatience >= s.cfg.ImpatienceLimit {
		s.mu.Unlock()
		s.fire(msg.ChannelID)
		return
	}

	if cs.timer != nil {
		cs.timer.Stop()
	}
	channelID := msg.ChannelID
	cs.timer = time.AfterFunc(s.cfg.Debounce, func() { s.fire(channelID) })
	s.mu.Unlock()
}

// Stop cancels all pending debounce timers. Channel state is ephemeral, so
// there is nothing else to tear down.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cs := range s.channels {
		if cs.timer != nil {
			cs.timer.Stop()
			cs.timer = nil
		}
	}
}

// fire runs one reply cycle for a channel. At most one cycle is in flight
// per channel; a trigger that lands while one is running is dropped, and the
// accumulated impatience fires the channel again on the next message.
func (s *Scheduler) fire(channelID string) {
	s.mu.Lock()
	cs, ok := s.channels[channelID]
	if !ok || cs.busy {
		s.mu.Unlock()
		return
	}
	cs.busy = true
	if cs.timer != nil {
		cs.timer.Stop()
		cs.timer = nil
	}

	prevImpatience, prevLifespan := cs.impatience, cs.lifespan
	cs.impatience = 0
	cs.lifespan--
	dead := cs.lifespan == 0
	if dead {
		delete(s.channels, channelID)
		metrics.SetActiveChannels(len(s.channels))
	}
	ch := cs.ch
	s.mu.Unlock()

	if err := ch.Typing(); err != nil {
		logging.Debug("scheduler", "typing indicator failed in %s: %v", channelID, err)
	}

	if dead {
		metrics.ChannelDied()
		logging.Info("scheduler", "lifespan exhausted in channel %s", channelID)
		if err := ch.Send(deathNotice, ""); err != nil {
			logging.Warn("scheduler", "death notice failed in %s: %v", channelID, err)
		}
		return
	}

	if err := s.produceReply(cs, ch); err != nil {
		metrics.FireFailed()
		logging.Warn("scheduler", "reply cycle failed in channel %s: %v", channelID, err)

		s.mu.Lock()
		// A failed cycle costs nothing: put the lifespan back and re-add the
		// consumed impatience (messages that arrived mid-cycle keep counting),
		// so the next trigger retries naturally.
		cs.lifespan = prevLifespan
		cs.impatience += prevImpatience
		cs.busy = false
		s.mu.Unlock()
		return
	}

	s.mu.Lock()
	cs.busy = false
	s.mu.Unlock()
}

// produceReply is the I/O half of the fire cycle: fetch, compose, complete,
// parse, send, merge. Any error propagates to fire for state restoration.
func (s *Scheduler) produceReply(cs *channelState, ch Channel) error {
	msgs, err := ch.History(s.cfg.Window)
	if err != nil {
		return fmt.Errorf("fetch history: %w", err)
	}

	s.mu.Lock()
	profiles := make(map[string]string, len(cs.profiles))
	for tag, p := range cs.profiles {
		profiles[tag] = p
	}
	lifespan := cs.lifespan
	s.mu.Unlock()

	userMsg, systemMsg := s.composer.Compose(msgs, profiles, time.Now())
	logging.Debug("scheduler", "prompt for %s: %s", ch.ID(), logging.Truncate(userMsg, 200))

	start := time.Now()
	raw, err := s.llm.Complete(context.Background(), userMsg, systemMsg)
	metrics.LLMRequest(time.Since(start), err == nil)
	if err != nil {
		return fmt.Errorf("completion: %w", err)
	}

	reply := parse.Parse(raw, s.registry)

	if err := ch.Send(reply.Content, reply.ReplyTo); err != nil {
		return fmt.Errorf("send reply: %w", err)
	}
	metrics.ReplySent()

	s.mu.Lock()
	for tag, p := range reply.Profiles {
		cs.profiles[tag] = p
	}
	s.mu.Unlock()

	if s.trace != nil {
		err := s.trace.Log(journal.Entry{
			ChannelID:   ch.ID(),
			PromptChars: len(userMsg),
			SystemChars: len(systemMsg),
			Response:    raw,
			ReplyTo:     reply.ReplyTo,
			Profiles:    len(reply.Profiles),
			Lifespan:    lifespan,
		})
		if err != nil {
			logging.Warn("scheduler", "journal write failed: %v", err)
		}
	}

	return nil
}
