package learn

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/octolearn/internal/api"
	"github.com/abhisek/octolearn/internal/quiz"
	"github.com/abhisek/octolearn/internal/session"
	"github.com/abhisek/octolearn/internal/store"
)

type fakeService struct {
	explain    string
	explainErr error
	items      []quiz.Item
	quizErr    error
	quizPanic  bool

	explainCalls int
	quizCalls    int
	levels       []string
	numQuestions []int
}

func (f *fakeService) Explain(_ context.Context, _ string, level string) (string, error) {
	f.explainCalls++
	f.levels = append(f.levels, level)
	return f.explain, f.explainErr
}

func (f *fakeService) Quiz(_ context.Context, _ string, n int) ([]quiz.Item, error) {
	f.quizCalls++
	f.numQuestions = append(f.numQuestions, n)
	if f.quizPanic {
		panic("decoder exploded")
	}
	return quiz.Clone(f.items), f.quizErr
}

func sampleQuiz() []quiz.Item {
	return []quiz.Item{
		{Question: "Q1", Options: []string{"A", "B"}, Answer: "B", Explanation: "B it is"},
		{Question: "Q2", Options: []string{"C", "D"}, Answer: "C", Explanation: "C it is"},
	}
}

func newStore(t *testing.T) (*store.Store, *session.Store) {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, session.Open(context.Background(), db.EntryRepo(), nil)
}

func newOrchestrator(t *testing.T, svc api.Service) *Orchestrator {
	t.Helper()
	_, st := newStore(t)
	n := 0
	return New(context.Background(), svc, st, nil, Config{
		Interval:  time.Millisecond,
		NewFlowID: func() string { n++; return fmt.Sprintf("flow-%d", n) },
	})
}

// drain runs cmd and every command produced while handling its messages,
// feeding each message back into o. It returns the messages seen.
func drain(t *testing.T, o *Orchestrator, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	var seen []tea.Msg
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		require.Less(t, steps, 10000, "flow did not settle")
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := c()
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		seen = append(seen, msg)
		queue = append(queue, o.Update(msg))
	}
	return seen
}

func TestStart_FullFlow(t *testing.T) {
	svc := &fakeService{explain: "Plants make sugar", items: sampleQuiz()}
	o := newOrchestrator(t, svc)

	cmd := o.Start("  Photosynthesis ", session.LevelIntermediate)
	require.NotNil(t, cmd)
	assert.True(t, o.Loading())

	msgs := drain(t, o, cmd)

	assert.False(t, o.Loading())
	assert.Empty(t, o.Err())
	assert.Equal(t, "Plants make sugar ", o.Displayed())
	assert.Equal(t, "Plants make sugar", o.Explanation())
	assert.Equal(t, 2, o.Quiz().Len())
	assert.Equal(t, []int{api.DefaultQuestions}, svc.numQuestions)
	assert.Equal(t, []string{"intermediate"}, svc.levels)

	st := o.Store()
	rec, ok := st.Get("Photosynthesis")
	require.True(t, ok)
	assert.Equal(t, session.LevelIntermediate, rec.Level)
	assert.Equal(t, "Plants make sugar", rec.Explanation)
	assert.Equal(t, sampleQuiz(), rec.Quiz)

	active, ok := st.Active()
	assert.True(t, ok)
	assert.Equal(t, "Photosynthesis", active)
	assert.Equal(t, []string{"Photosynthesis"}, st.Recent())

	assert.Contains(t, msgs, tea.Msg(FlowFinishedMsg{Topic: "Photosynthesis"}))
}

func TestStart_EmptyTopicIsNoop(t *testing.T) {
	svc := &fakeService{}
	o := newOrchestrator(t, svc)

	assert.Nil(t, o.Start("   ", session.LevelBeginner))
	assert.False(t, o.Loading())
	assert.Zero(t, svc.explainCalls)
	assert.Empty(t, o.Err())
}

func TestStart_IgnoredWhileInFlight(t *testing.T) {
	svc := &fakeService{explain: "text", items: sampleQuiz()}
	o := newOrchestrator(t, svc)

	first := o.Start("Go", session.LevelBeginner)
	require.NotNil(t, first)
	assert.Nil(t, o.Start("Rust", session.LevelBeginner))

	drain(t, o, first)

	assert.Equal(t, 1, svc.explainCalls)
	assert.Equal(t, []string{"Go"}, o.Store().Topics())
}

func TestStart_SameTopicOverwrites(t *testing.T) {
	svc := &fakeService{explain: "first", items: sampleQuiz()}
	o := newOrchestrator(t, svc)

	drain(t, o, o.Start("Go", session.LevelBeginner))
	svc.explain = "second"
	drain(t, o, o.Start("Go", session.LevelAdvanced))

	st := o.Store()
	assert.Equal(t, 1, st.Len())
	assert.Equal(t, []string{"Go"}, st.Recent())
	rec, _ := st.Get("Go")
	assert.Equal(t, "second", rec.Explanation)
	assert.Equal(t, session.LevelAdvanced, rec.Level)
}

func TestStart_RecentCappedAndDistinct(t *testing.T) {
	svc := &fakeService{explain: "x", items: sampleQuiz()}
	o := newOrchestrator(t, svc)

	for _, topic := range []string{"a", "b", "c", "d", "e", "f", "c"} {
		drain(t, o, o.Start(topic, session.LevelBeginner))
	}

	assert.Equal(t, []string{"c", "f", "e", "d", "b"}, o.Store().Recent())
	assert.Equal(t, 6, o.Store().Len())
}

func TestStart_ExplainFailure(t *testing.T) {
	svc := &fakeService{explainErr: &api.Error{Status: 429, Detail: "rate limited"}}
	o := newOrchestrator(t, svc)
	drain(t, o, o.Start("Old", session.LevelBeginner))
	svc.explainErr = &api.Error{Status: 429, Detail: "rate limited"}
	recentBefore := o.Store().Recent()

	msgs := drain(t, o, o.Start("Go", session.LevelBeginner))

	assert.Equal(t, "rate limited", o.Err())
	assert.False(t, o.Loading())
	assert.Zero(t, svc.quizCalls)
	_, ok := o.Store().Get("Go")
	assert.False(t, ok)
	assert.Equal(t, recentBefore, o.Store().Recent())
	require.NotEmpty(t, msgs)
	finished, ok := msgs[len(msgs)-1].(FlowFinishedMsg)
	require.True(t, ok)
	assert.Error(t, finished.Err)
}

func TestStart_QuizFailureKeepsExplanation(t *testing.T) {
	svc := &fakeService{explain: "Go is a language", quizErr: errors.New("connection reset")}
	o := newOrchestrator(t, svc)

	drain(t, o, o.Start("Go", session.LevelBeginner))

	assert.Equal(t, "connection reset", o.Err())
	assert.Equal(t, "Go is a language ", o.Displayed())
	assert.False(t, o.Loading())
	assert.Zero(t, o.Store().Len())
	assert.Empty(t, o.Store().Recent())
	_, active := o.Store().Active()
	assert.False(t, active)
}

func TestStart_PanicReleasesInFlight(t *testing.T) {
	svc := &fakeService{explain: "text", quizPanic: true}
	o := newOrchestrator(t, svc)

	drain(t, o, o.Start("Go", session.LevelBeginner))

	assert.False(t, o.Loading())
	assert.Contains(t, o.Err(), "decoder exploded")

	svc.quizPanic = false
	svc.items = sampleQuiz()
	drain(t, o, o.Start("Go", session.LevelBeginner))
	assert.Empty(t, o.Err())
	assert.Equal(t, 1, o.Store().Len())
}

func TestStart_NewFlowClearsError(t *testing.T) {
	svc := &fakeService{explainErr: errors.New("boom")}
	o := newOrchestrator(t, svc)
	drain(t, o, o.Start("Go", session.LevelBeginner))
	require.Equal(t, "boom", o.Err())

	svc.explainErr = nil
	svc.explain = "ok"
	cmd := o.Start("Go", session.LevelBeginner)
	assert.Empty(t, o.Err())
	assert.Empty(t, o.Displayed())
	drain(t, o, cmd)
}

func TestUpdate_StaleResultsIgnored(t *testing.T) {
	svc := &fakeService{explain: "text", items: sampleQuiz()}
	o := newOrchestrator(t, svc)

	cmd := o.Start("Go", session.LevelBeginner)
	assert.Nil(t, o.Update(explainDoneMsg{flowID: "other", text: "stale"}))
	assert.Nil(t, o.Update(quizDoneMsg{flowID: "other", items: []quiz.Item{{Question: "stale"}}}))
	assert.True(t, o.Loading())

	drain(t, o, cmd)
	assert.Nil(t, o.Update(quizDoneMsg{flowID: "flow-1", err: errors.New("late")}))
	assert.Empty(t, o.Err())
	assert.Equal(t, "text ", o.Displayed())
}

func TestStart_EmptyQuizStillSaved(t *testing.T) {
	svc := &fakeService{explain: "text"}
	o := newOrchestrator(t, svc)

	drain(t, o, o.Start("Go", session.LevelBeginner))

	rec, ok := o.Store().Get("Go")
	require.True(t, ok)
	assert.NotNil(t, rec.Quiz)
	assert.Empty(t, rec.Quiz)
	assert.Zero(t, o.Quiz().Len())
}

func TestAnswer_PersistsIntoActiveSession(t *testing.T) {
	svc := &fakeService{explain: "text", items: sampleQuiz()}
	o := newOrchestrator(t, svc)
	drain(t, o, o.Start("Go", session.LevelBeginner))

	assert.True(t, o.Answer(0, "B"))
	assert.False(t, o.Answer(0, "B"))
	assert.False(t, o.Answer(7, "B"))

	correct, answered := o.Quiz().Correct(0)
	assert.True(t, answered)
	assert.True(t, correct)
	_, answered = o.Quiz().Correct(1)
	assert.False(t, answered)

	rec, _ := o.Store().Get("Go")
	assert.Equal(t, "B", rec.Quiz[0].Choice())
	assert.False(t, rec.Quiz[1].Answered())

	assert.True(t, o.Answer(0, "A"))
	correct, _ = o.Quiz().Correct(0)
	assert.False(t, correct)
}

func TestSelectSession(t *testing.T) {
	svc := &fakeService{explain: "go text", items: sampleQuiz()}
	o := newOrchestrator(t, svc)
	drain(t, o, o.Start("Go", session.LevelAdvanced))
	o.Answer(1, "D")
	svc.explain = "rust text"
	svc.items = nil
	drain(t, o, o.Start("Rust", session.LevelBeginner))

	assert.False(t, o.SelectSession("Haskell"))
	require.True(t, o.SelectSession("Go"))

	assert.Equal(t, "Go", o.Topic())
	assert.Equal(t, session.LevelAdvanced, o.Level())
	assert.Equal(t, "go text", o.Displayed())
	assert.False(t, o.Revealing())
	require.Equal(t, 2, o.Quiz().Len())
	correct, answered := o.Quiz().Correct(1)
	assert.True(t, answered)
	assert.False(t, correct)
	active, _ := o.Store().Active()
	assert.Equal(t, "Go", active)
}

func TestDeleteSession(t *testing.T) {
	svc := &fakeService{explain: "text", items: sampleQuiz()}
	o := newOrchestrator(t, svc)
	drain(t, o, o.Start("Go", session.LevelAdvanced))
	drain(t, o, o.Start("Rust", session.LevelAdvanced))

	o.DeleteSession("Go")
	assert.Equal(t, "Rust", o.Topic(), "deleting an inactive session keeps the view")

	o.DeleteSession("Rust")
	assert.Empty(t, o.Topic())
	assert.Equal(t, session.LevelBeginner, o.Level())
	assert.Empty(t, o.Displayed())
	assert.Zero(t, o.Quiz().Len())
	_, active := o.Store().Active()
	assert.False(t, active)
	assert.Equal(t, []string{"Rust", "Go"}, o.Store().Recent())
}

func TestDeleteAllSessions(t *testing.T) {
	svc := &fakeService{explain: "text", items: sampleQuiz()}
	o := newOrchestrator(t, svc)
	drain(t, o, o.Start("Go", session.LevelBeginner))
	drain(t, o, o.Start("Rust", session.LevelBeginner))

	o.DeleteAllSessions()

	assert.Zero(t, o.Store().Len())
	assert.Empty(t, o.Topic())
	_, active := o.Store().Active()
	assert.False(t, active)
	assert.Len(t, o.Store().Recent(), 2)

	o.ClearRecent()
	assert.Empty(t, o.Store().Recent())
}

func TestHydrate(t *testing.T) {
	db, st := newStore(t)
	svc := &fakeService{explain: "persisted", items: sampleQuiz()}
	o := New(context.Background(), svc, st, nil, Config{Interval: time.Millisecond})
	drain(t, o, o.Start("Go", session.LevelIntermediate))
	o.Answer(0, "B")

	reopened := New(context.Background(), svc, session.Open(context.Background(), db.EntryRepo(), nil), nil, Config{})
	require.True(t, reopened.Hydrate())

	assert.Equal(t, "Go", reopened.Topic())
	assert.Equal(t, "persisted", reopened.Displayed())
	correct, answered := reopened.Quiz().Correct(0)
	assert.True(t, answered)
	assert.True(t, correct)

	reopened.NewSession()
	fresh := New(context.Background(), svc, session.Open(context.Background(), db.EntryRepo(), nil), nil, Config{})
	assert.False(t, fresh.Hydrate())
}

func TestFlow_WrappedAndBareQuizEquivalent(t *testing.T) {
	bare := `[{"question":"Q1","options":["A","B"],"answer":"B","explanation":"e"}]`
	bodies := map[string]string{
		"bare":    bare,
		"wrapped": `{"questions":` + bare + `}`,
	}

	var recs []session.Record
	for _, name := range []string{"bare", "wrapped"} {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				switch r.URL.Path {
				case api.ExplainPath:
					w.Write([]byte(`{"explanation":"hello world"}`))
				case api.QuizPath:
					w.Write([]byte(bodies[name]))
				}
			}))
			defer srv.Close()

			o := newOrchestrator(t, api.NewClient(srv.URL))
			drain(t, o, o.Start("Go", session.LevelBeginner))

			rec, ok := o.Store().Get("Go")
			require.True(t, ok)
			recs = append(recs, rec)
		})
	}
	require.Len(t, recs, 2)
	assert.Equal(t, recs[0], recs[1])
	assert.Len(t, recs[0].Quiz, 1)
}

func TestFlow_JournaledUnderOneFlowID(t *testing.T) {
	db, st := newStore(t)
	svc := api.WithJournal(&fakeService{explain: "text", items: sampleQuiz()}, db.EventRepo(), nil)
	o := New(context.Background(), svc, st, nil, Config{
		Interval:  time.Millisecond,
		NewFlowID: func() string { return "fixed-flow" },
	})

	drain(t, o, o.Start("Go", session.LevelBeginner))

	recs, err := db.EventRepo().QueryRequests(context.Background(), store.QueryOpts{FlowID: "fixed-flow"})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, api.QuizPath, recs[0].Endpoint)
	assert.Equal(t, api.ExplainPath, recs[1].Endpoint)
}
