// Package learn runs the explain-then-quiz flow and owns the view state
// the learn screen renders: the topic and level being shown, the revealed
// explanation, the quiz with the learner's answers, and the last error.
package learn

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"

	"github.com/abhisek/octolearn/internal/api"
	"github.com/abhisek/octolearn/internal/logging"
	"github.com/abhisek/octolearn/internal/quiz"
	"github.com/abhisek/octolearn/internal/session"
	"github.com/abhisek/octolearn/internal/typewriter"
)

// explainDoneMsg carries the outcome of step 1 of a flow.
type explainDoneMsg struct {
	flowID string
	text   string
	err    error
}

// quizDoneMsg carries the outcome of step 2 of a flow.
type quizDoneMsg struct {
	flowID string
	items  []quiz.Item
	err    error
}

// FlowFinishedMsg is emitted when a flow ends, successfully or not.
// Screens use it to refresh lists derived from the session store.
type FlowFinishedMsg struct {
	Topic string
	Err   error
}

// flow is the in-flight request pair.
type flow struct {
	id          string
	topic       string
	level       session.Level
	explanation string
}

// Orchestrator sequences the two remote calls of a learning flow and
// applies their results to the session store, the typewriter and the
// quiz evaluator. All methods must be called from the Bubble Tea Update
// loop; fetches run inside the returned commands.
type Orchestrator struct {
	ctx          context.Context
	svc          api.Service
	store        *session.Store
	log          *logging.Logger
	numQuestions int
	newFlowID    func() string

	writer *typewriter.Scheduler
	eval   *quiz.Evaluator

	topic       string
	level       session.Level
	explanation string
	lastErr     string

	inflight *flow
}

// Config configures an Orchestrator.
type Config struct {
	// Interval is the typewriter cadence. Zero uses the default.
	Interval time.Duration

	// NumQuestions is the quiz size requested. Zero uses api.DefaultQuestions.
	NumQuestions int

	// NewFlowID generates flow IDs. Nil uses random UUIDs.
	NewFlowID func() string
}

// New creates an Orchestrator. ctx bounds every fetch it issues.
func New(ctx context.Context, svc api.Service, st *session.Store, log *logging.Logger, cfg Config) *Orchestrator {
	if log == nil {
		log = logging.Nop()
	}
	if cfg.NumQuestions <= 0 {
		cfg.NumQuestions = api.DefaultQuestions
	}
	if cfg.NewFlowID == nil {
		cfg.NewFlowID = uuid.NewString
	}
	return &Orchestrator{
		ctx:          ctx,
		svc:          svc,
		store:        st,
		log:          log,
		numQuestions: cfg.NumQuestions,
		newFlowID:    cfg.NewFlowID,
		writer:       typewriter.New(cfg.Interval),
		eval:         quiz.NewEvaluator(nil),
		level:        session.LevelBeginner,
	}
}

// Start begins a learning flow for topic at level. It is a no-op, returning
// nil, when the trimmed topic is empty or another flow is still running.
func (o *Orchestrator) Start(topic string, level session.Level) tea.Cmd {
	topic = session.NormalizeTopic(topic)
	if topic == "" || o.inflight != nil {
		return nil
	}

	f := &flow{id: o.newFlowID(), topic: topic, level: level}
	o.inflight = f
	o.lastErr = ""
	o.topic = topic
	o.level = level
	o.writer.Reset()

	o.log.Info("flow started", "flow_id", f.id, "topic", topic, "level", level)
	return o.fetchExplain(f)
}

// Update applies fetch results and typewriter ticks. Results from a flow
// other than the one in flight are dropped.
func (o *Orchestrator) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case explainDoneMsg:
		f := o.inflight
		if f == nil || msg.flowID != f.id {
			return nil
		}
		if msg.err != nil {
			return o.fail(f, msg.err)
		}
		f.explanation = msg.text
		o.explanation = msg.text
		return tea.Batch(o.writer.Start(msg.text), o.fetchQuiz(f))

	case quizDoneMsg:
		f := o.inflight
		if f == nil || msg.flowID != f.id {
			return nil
		}
		if msg.err != nil {
			return o.fail(f, msg.err)
		}
		return o.complete(f, msg.items)
	}

	return o.writer.Update(msg)
}

func (o *Orchestrator) fail(f *flow, err error) tea.Cmd {
	o.inflight = nil
	o.lastErr = api.Message(err)
	o.log.Warn("flow failed", "flow_id", f.id, "topic", f.topic, "err", err)
	return finished(f.topic, err)
}

func (o *Orchestrator) complete(f *flow, items []quiz.Item) tea.Cmd {
	o.inflight = nil
	if items == nil {
		items = []quiz.Item{}
	}
	o.eval.Replace(items)

	rec := session.Record{
		Topic:       f.topic,
		Level:       f.level,
		Explanation: f.explanation,
		Quiz:        items,
	}
	// Write failures are logged by the store; in-memory state stays valid.
	_ = o.store.Upsert(o.ctx, rec)
	_, _ = o.store.SelectActive(o.ctx, f.topic)
	_ = o.store.PushRecent(o.ctx, f.topic)

	o.log.Info("flow completed", "flow_id", f.id, "topic", f.topic, "questions", len(items))
	return finished(f.topic, nil)
}

func finished(topic string, err error) tea.Cmd {
	return func() tea.Msg { return FlowFinishedMsg{Topic: topic, Err: err} }
}

func (o *Orchestrator) fetchExplain(f *flow) tea.Cmd {
	ctx := api.WithFlowID(o.ctx, f.id)
	svc, id, topic, level := o.svc, f.id, f.topic, string(f.level)
	return func() (msg tea.Msg) {
		defer func() {
			if r := recover(); r != nil {
				msg = explainDoneMsg{flowID: id, err: fmt.Errorf("explain: %v", r)}
			}
		}()
		text, err := svc.Explain(ctx, topic, level)
		return explainDoneMsg{flowID: id, text: text, err: err}
	}
}

func (o *Orchestrator) fetchQuiz(f *flow) tea.Cmd {
	ctx := api.WithFlowID(o.ctx, f.id)
	svc, id, topic, n := o.svc, f.id, f.topic, o.numQuestions
	return func() (msg tea.Msg) {
		defer func() {
			if r := recover(); r != nil {
				msg = quizDoneMsg{flowID: id, err: fmt.Errorf("quiz: %v", r)}
			}
		}()
		items, err := svc.Quiz(ctx, topic, n)
		return quizDoneMsg{flowID: id, items: items, err: err}
	}
}

// SelectSession shows the stored session for topic in full and makes it
// active. It reports false when no such session exists.
func (o *Orchestrator) SelectSession(topic string) bool {
	rec, ok := o.store.Get(topic)
	if !ok {
		return false
	}
	_, _ = o.store.SelectActive(o.ctx, topic)
	o.topic = rec.Topic
	o.level = rec.Level
	o.explanation = rec.Explanation
	o.writer.Reveal(rec.Explanation)
	o.eval.Replace(rec.Quiz)
	return true
}

// NewSession clears the view and the active-session pointer.
func (o *Orchestrator) NewSession() {
	_ = o.store.ClearActive(o.ctx)
	o.topic = ""
	o.level = session.LevelBeginner
	o.explanation = ""
	o.writer.Reset()
	o.eval.Replace(nil)
}

// DeleteSession removes the session for topic, resetting the view when it
// was the active one.
func (o *Orchestrator) DeleteSession(topic string) {
	active, _ := o.store.Active()
	_ = o.store.Delete(o.ctx, topic)
	if active == topic {
		o.NewSession()
	}
}

// DeleteAllSessions removes every session and resets the view. Recent
// topics are kept.
func (o *Orchestrator) DeleteAllSessions() {
	_ = o.store.DeleteAll(o.ctx)
	o.NewSession()
}

// ClearRecent empties the recent-topics list.
func (o *Orchestrator) ClearRecent() {
	_ = o.store.ClearRecent(o.ctx)
}

// Answer selects option for question i and saves the selection into the
// active session. It reports whether the selection changed.
func (o *Orchestrator) Answer(i int, option string) bool {
	if !o.eval.Select(i, option) {
		return false
	}
	active, ok := o.store.Active()
	if !ok {
		return true
	}
	rec, ok := o.store.Get(active)
	if !ok || len(rec.Quiz) != o.eval.Len() {
		return true
	}
	rec.Quiz = o.eval.Items()
	_ = o.store.Upsert(o.ctx, rec)
	return true
}

// Hydrate shows the active session, if any. It is called once at startup.
func (o *Orchestrator) Hydrate() bool {
	active, ok := o.store.Active()
	if !ok {
		return false
	}
	return o.SelectSession(active)
}

// SetLevel changes the level used by the next Start.
func (o *Orchestrator) SetLevel(l session.Level) { o.level = l }

// Topic returns the topic currently shown.
func (o *Orchestrator) Topic() string { return o.topic }

// Level returns the level currently selected.
func (o *Orchestrator) Level() session.Level { return o.level }

// Loading reports whether a flow is in flight.
func (o *Orchestrator) Loading() bool { return o.inflight != nil }

// Err returns the last flow error message, or "".
func (o *Orchestrator) Err() string { return o.lastErr }

// Displayed returns the explanation revealed so far.
func (o *Orchestrator) Displayed() string { return o.writer.Text() }

// Explanation returns the full explanation currently shown.
func (o *Orchestrator) Explanation() string { return o.explanation }

// Revealing reports whether the typewriter is still running.
func (o *Orchestrator) Revealing() bool { return !o.writer.Done() }

// Quiz exposes the current quiz for rendering. Use Answer to select.
func (o *Orchestrator) Quiz() *quiz.Evaluator { return o.eval }

// Store returns the session store.
func (o *Orchestrator) Store() *session.Store { return o.store }
