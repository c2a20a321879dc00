package tutor

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/octolearn/internal/llm"
)

func TestExplain(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage("  ## Goroutines\n\nLightweight threads.  "),
	})
	svc := NewService(mock, DefaultConfig())

	text, err := svc.Explain(t.Context(), "Goroutines", "advanced")
	require.NoError(t, err)
	assert.Equal(t, "## Goroutines\n\nLightweight threads.", text)

	require.Len(t, mock.Calls, 1)
	req := mock.Calls[0]
	assert.Nil(t, req.Schema)
	assert.Equal(t, 0.7, req.Temperature)
	assert.Contains(t, req.Messages[0].Content, "'Goroutines' at a advanced level")
	assert.Contains(t, req.Messages[0].Content, "Markdown")
}

func TestExplain_Empty(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage("   ")})
	svc := NewService(mock, DefaultConfig())

	_, err := svc.Explain(t.Context(), "Go", "beginner")
	assert.ErrorIs(t, err, ErrEmptyExplanation)
}

func TestExplain_ProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: errors.New("quota exceeded")})
	svc := NewService(mock, DefaultConfig())

	_, err := svc.Explain(t.Context(), "Go", "beginner")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestQuiz(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"questions":[
		{"question":"What keyword starts a goroutine?","options":["go","run","spawn","async"],"answer":"go","explanation":"The go statement starts a goroutine."},
		{"question":"Which type synchronizes goroutines?","options":["sync.WaitGroup","time.Timer","os.File","io.Reader"],"answer":"sync.WaitGroup","explanation":"A WaitGroup waits for goroutines to finish."}
	]}`)})
	svc := NewService(mock, DefaultConfig())

	items, err := svc.Quiz(t.Context(), "Goroutines", 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "go", items[0].Answer)
	assert.Len(t, items[1].Options, 4)
	assert.Nil(t, items[0].Selected)

	req := mock.Calls[0]
	assert.Equal(t, QuizSchema, req.Schema)
	assert.True(t, strings.HasPrefix(req.Messages[0].Content, "Create 2 multiple-choice quiz questions on 'Goroutines'."))
}

func TestQuiz_DropsUnanswerableQuestions(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"questions":[
		{"question":"Q1","options":["a","b","c","d"],"answer":"e","explanation":""},
		{"question":"  ","options":["a","b","c","d"],"answer":"a","explanation":""},
		{"question":"Q3","options":["a","b","c","d"],"answer":"c","explanation":"c it is"}
	]}`)})
	svc := NewService(mock, DefaultConfig())

	items, err := svc.Quiz(t.Context(), "Letters", 5)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Q3", items[0].Question)
}

func TestQuiz_TrimsToRequestedCount(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"questions":[
		{"question":"Q1","options":["a","b","c","d"],"answer":"a","explanation":""},
		{"question":"Q2","options":["a","b","c","d"],"answer":"b","explanation":""}
	]}`)})
	svc := NewService(mock, DefaultConfig())

	items, err := svc.Quiz(t.Context(), "Letters", 1)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestQuiz_NoUsableQuestions(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"questions":[]}`)})
	svc := NewService(mock, DefaultConfig())

	_, err := svc.Quiz(t.Context(), "Letters", 3)
	assert.ErrorIs(t, err, ErrInvalidQuiz)
}

func TestQuiz_Offline(t *testing.T) {
	svc := NewService(llm.NewOfflineProvider(), DefaultConfig())

	items, err := svc.Quiz(t.Context(), "Anything", 5)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "No", items[0].Answer)
}
