// Package typewriter reveals an already-complete text word by word.
package typewriter

import (
	"strings"
	"sync/atomic"
	"time"

	tea "charm.land/bubbletea/v2"
)

// DefaultInterval is the delay between two revealed words.
const DefaultInterval = 40 * time.Millisecond

var lastID atomic.Int64

// tickMsg asks the scheduler with the matching id to reveal its next word.
// gen identifies the reveal that scheduled it; ticks from a superseded
// reveal are dropped.
type tickMsg struct {
	id  int64
	gen int
}

// Scheduler owns a single reveal at a time. Starting a new reveal cancels
// the running one. Scheduler is not safe for concurrent use; it is driven
// from a Bubble Tea Update loop.
type Scheduler struct {
	Interval time.Duration

	id     int64
	gen    int
	tokens []string
	pos    int
	shown  strings.Builder
}

// New creates a Scheduler that reveals one word per interval. A
// non-positive interval falls back to DefaultInterval.
func New(interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		Interval: interval,
		id:       lastID.Add(1),
	}
}

// Start resets the displayed text and begins revealing text. Words are
// split on single spaces so that line breaks inside the text survive the
// reveal. The returned command delivers the first tick.
func (s *Scheduler) Start(text string) tea.Cmd {
	s.gen++
	s.shown.Reset()
	s.pos = 0
	s.tokens = nil
	if text != "" {
		s.tokens = strings.Split(text, " ")
	}
	if len(s.tokens) == 0 {
		return nil
	}
	return s.tick()
}

// Reveal shows text immediately and cancels any running reveal.
func (s *Scheduler) Reveal(text string) {
	s.gen++
	s.tokens = nil
	s.pos = 0
	s.shown.Reset()
	s.shown.WriteString(text)
}

// Reset clears the displayed text and cancels any running reveal.
func (s *Scheduler) Reset() {
	s.Reveal("")
}

// Update consumes tick messages addressed to this scheduler and returns
// the command for the next tick, if any words remain.
func (s *Scheduler) Update(msg tea.Msg) tea.Cmd {
	tm, ok := msg.(tickMsg)
	if !ok || tm.id != s.id || tm.gen != s.gen {
		return nil
	}
	if s.pos >= len(s.tokens) {
		return nil
	}

	s.shown.WriteString(s.tokens[s.pos])
	s.shown.WriteByte(' ')
	s.pos++

	if s.pos >= len(s.tokens) {
		return nil
	}
	return s.tick()
}

// Text returns the currently displayed text.
func (s *Scheduler) Text() string {
	return s.shown.String()
}

// Done reports whether no reveal is in progress.
func (s *Scheduler) Done() bool {
	return s.pos >= len(s.tokens)
}

func (s *Scheduler) tick() tea.Cmd {
	id, gen := s.id, s.gen
	return tea.Tick(s.Interval, func(time.Time) tea.Msg {
		return tickMsg{id: id, gen: gen}
	})
}
