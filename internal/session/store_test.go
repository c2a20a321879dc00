package session

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/octolearn/internal/quiz"
	"github.com/abhisek/octolearn/internal/store"
)

// memRepo is an in-memory store.EntryRepo. Setting failPut makes every
// write fail.
type memRepo struct {
	entries map[string]string
	failPut bool
	puts    int
}

func newMemRepo() *memRepo {
	return &memRepo{entries: make(map[string]string)}
}

func (m *memRepo) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *memRepo) Put(_ context.Context, key, value string) error {
	if m.failPut {
		return errors.New("disk full")
	}
	m.puts++
	m.entries[key] = value
	return nil
}

func (m *memRepo) Delete(_ context.Context, key string) error {
	if m.failPut {
		return errors.New("disk full")
	}
	delete(m.entries, key)
	return nil
}

func record(topic string) Record {
	return Record{
		Topic:       topic,
		Level:       LevelBeginner,
		Explanation: "about " + topic,
		Quiz: []quiz.Item{
			{Question: "Q1", Options: []string{"A", "B"}, Answer: "B"},
		},
	}
}

func TestStore_EmptyOnFirstRun(t *testing.T) {
	s := Open(context.Background(), newMemRepo(), nil)

	assert.Empty(t, s.Topics())
	assert.Empty(t, s.Recent())
	_, ok := s.Active()
	assert.False(t, ok)
}

func TestStore_UpsertOverwrites(t *testing.T) {
	ctx := context.Background()
	s := Open(ctx, newMemRepo(), nil)

	require.NoError(t, s.Upsert(ctx, record("Go")))
	updated := record("Go")
	updated.Level = LevelAdvanced
	updated.Explanation = "deeper"
	require.NoError(t, s.Upsert(ctx, updated))

	assert.Equal(t, 1, s.Len())
	got, ok := s.Get("Go")
	require.True(t, ok)
	assert.Equal(t, LevelAdvanced, got.Level)
	assert.Equal(t, "deeper", got.Explanation)
}

func TestStore_UpsertRejectsBlankTopic(t *testing.T) {
	ctx := context.Background()
	s := Open(ctx, newMemRepo(), nil)

	err := s.Upsert(ctx, record("   "))
	assert.ErrorIs(t, err, ErrEmptyTopic)
	assert.Zero(t, s.Len())
}

func TestStore_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := Open(ctx, newMemRepo(), nil)
	require.NoError(t, s.Upsert(ctx, record("Go")))

	got, _ := s.Get("Go")
	got.Quiz[0].Options[0] = "mutated"

	again, _ := s.Get("Go")
	assert.Equal(t, "A", again.Quiz[0].Options[0])
}

func TestStore_PushRecent(t *testing.T) {
	ctx := context.Background()
	s := Open(ctx, newMemRepo(), nil)

	for _, topic := range []string{"a", "b", "c", "d", "e", "f"} {
		require.NoError(t, s.PushRecent(ctx, topic))
	}
	assert.Equal(t, []string{"f", "e", "d", "c", "b"}, s.Recent())

	require.NoError(t, s.PushRecent(ctx, "c"))
	assert.Equal(t, []string{"c", "f", "e", "d", "b"}, s.Recent())

	require.NoError(t, s.PushRecent(ctx, "c"))
	assert.Equal(t, []string{"c", "f", "e", "d", "b"}, s.Recent())
}

func TestStore_PushRecentRejectsBlankTopic(t *testing.T) {
	ctx := context.Background()
	s := Open(ctx, newMemRepo(), nil)

	assert.ErrorIs(t, s.PushRecent(ctx, ""), ErrEmptyTopic)
	assert.Empty(t, s.Recent())
}

func TestStore_ClearRecentKeepsSessions(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	s := Open(ctx, repo, nil)
	require.NoError(t, s.Upsert(ctx, record("Go")))
	require.NoError(t, s.PushRecent(ctx, "Go"))

	require.NoError(t, s.ClearRecent(ctx))

	assert.Empty(t, s.Recent())
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, "[]", repo.entries[KeyRecentTopics])
}

func TestStore_SelectActive(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	s := Open(ctx, repo, nil)
	require.NoError(t, s.Upsert(ctx, record("Go")))

	ok, err := s.SelectActive(ctx, "Rust")
	require.NoError(t, err)
	assert.False(t, ok)
	_, active := s.Active()
	assert.False(t, active)

	ok, err = s.SelectActive(ctx, "Go")
	require.NoError(t, err)
	assert.True(t, ok)
	topic, active := s.Active()
	assert.True(t, active)
	assert.Equal(t, "Go", topic)
	assert.Equal(t, "Go", repo.entries[KeyActiveSession])
}

func TestStore_DeleteActiveClearsPointer(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	s := Open(ctx, repo, nil)
	require.NoError(t, s.Upsert(ctx, record("Go")))
	require.NoError(t, s.Upsert(ctx, record("Rust")))
	_, err := s.SelectActive(ctx, "Go")
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "Go"))

	_, ok := s.Get("Go")
	assert.False(t, ok)
	_, active := s.Active()
	assert.False(t, active)
	_, persisted := repo.entries[KeyActiveSession]
	assert.False(t, persisted)
	assert.Equal(t, []string{"Rust"}, s.Topics())
}

func TestStore_DeleteOtherKeepsActive(t *testing.T) {
	ctx := context.Background()
	s := Open(ctx, newMemRepo(), nil)
	require.NoError(t, s.Upsert(ctx, record("Go")))
	require.NoError(t, s.Upsert(ctx, record("Rust")))
	_, err := s.SelectActive(ctx, "Go")
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "Rust"))
	require.NoError(t, s.Delete(ctx, "Missing"))

	topic, ok := s.Active()
	assert.True(t, ok)
	assert.Equal(t, "Go", topic)
}

func TestStore_DeleteAll(t *testing.T) {
	ctx := context.Background()
	s := Open(ctx, newMemRepo(), nil)
	require.NoError(t, s.Upsert(ctx, record("Go")))
	require.NoError(t, s.Upsert(ctx, record("Rust")))
	require.NoError(t, s.PushRecent(ctx, "Go"))
	_, err := s.SelectActive(ctx, "Rust")
	require.NoError(t, err)

	require.NoError(t, s.DeleteAll(ctx))

	assert.Zero(t, s.Len())
	_, ok := s.Active()
	assert.False(t, ok)
	assert.Equal(t, []string{"Go"}, s.Recent())
}

func TestStore_Topics_Sorted(t *testing.T) {
	ctx := context.Background()
	s := Open(ctx, newMemRepo(), nil)
	for _, topic := range []string{"Rust", "Go", "Haskell"} {
		require.NoError(t, s.Upsert(ctx, record(topic)))
	}
	assert.Equal(t, []string{"Go", "Haskell", "Rust"}, s.Topics())
}

func TestStore_ReloadsPersistedState(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	s := Open(ctx, repo, nil)

	rec := record("Go")
	sel := "B"
	rec.Quiz[0].Selected = &sel
	require.NoError(t, s.Upsert(ctx, rec))
	require.NoError(t, s.PushRecent(ctx, "Go"))
	_, err := s.SelectActive(ctx, "Go")
	require.NoError(t, err)

	reloaded := Open(ctx, repo, nil)

	got, ok := reloaded.Get("Go")
	require.True(t, ok)
	assert.Equal(t, rec, got)
	assert.Equal(t, []string{"Go"}, reloaded.Recent())
	topic, ok := reloaded.Active()
	assert.True(t, ok)
	assert.Equal(t, "Go", topic)
}

func TestStore_CorruptEntriesTreatedAsAbsent(t *testing.T) {
	repo := newMemRepo()
	repo.entries[KeySessions] = "{not json"
	repo.entries[KeyRecentTopics] = `"oops"`
	repo.entries[KeyActiveSession] = "Go"

	s := Open(context.Background(), repo, nil)

	assert.Zero(t, s.Len())
	assert.Empty(t, s.Recent())
	_, ok := s.Active()
	assert.False(t, ok, "active pointer must not reference a missing session")
}

func TestStore_DanglingActiveRemovedFromRepo(t *testing.T) {
	repo := newMemRepo()
	repo.entries[KeySessions] = `{"Go":{"topic":"Go","level":"beginner","explanation":"","quiz":[]}}`
	repo.entries[KeyActiveSession] = "Rust"

	s := Open(context.Background(), repo, nil)

	assert.Equal(t, 1, s.Len())
	_, ok := s.Active()
	assert.False(t, ok)
	_, persisted := repo.entries[KeyActiveSession]
	assert.False(t, persisted)
}

func TestStore_LoadSanitizesRecent(t *testing.T) {
	repo := newMemRepo()
	repo.entries[KeyRecentTopics] = `["a","a"," ","b","c","d","e","f"]`

	s := Open(context.Background(), repo, nil)

	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, s.Recent())
}

func TestStore_WriteFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	s := Open(ctx, repo, nil)
	repo.failPut = true

	err := s.Upsert(ctx, record("Go"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), KeySessions)

	_, ok := s.Get("Go")
	assert.True(t, ok)
}

func TestStore_SQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "octolearn.db")

	db, err := store.Open(path)
	require.NoError(t, err)
	s := Open(ctx, db.EntryRepo(), nil)
	for i := range 7 {
		topic := fmt.Sprintf("topic-%d", i)
		require.NoError(t, s.Upsert(ctx, record(topic)))
		require.NoError(t, s.PushRecent(ctx, topic))
	}
	_, err = s.SelectActive(ctx, "topic-6")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = store.Open(path)
	require.NoError(t, err)
	defer db.Close()
	s = Open(ctx, db.EntryRepo(), nil)

	assert.Equal(t, 7, s.Len())
	assert.Equal(t, []string{"topic-6", "topic-5", "topic-4", "topic-3", "topic-2"}, s.Recent())
	topic, ok := s.Active()
	assert.True(t, ok)
	assert.Equal(t, "topic-6", topic)

	raw, ok, err := db.EntryRepo().Get(ctx, KeySessions)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(raw, "{"))
}
