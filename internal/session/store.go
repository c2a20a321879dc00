// Package session keeps the learner's sessions, recent topics and the
// active-session pointer, persisted through a store.EntryRepo.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sort"

	"github.com/abhisek/octolearn/internal/logging"
	"github.com/abhisek/octolearn/internal/store"
)

// MaxRecent is the capacity of the recent-topics list.
const MaxRecent = 5

// Persisted entry keys. Each is loaded once at Open and rewritten whenever
// its in-memory value changes.
const (
	KeyRecentTopics  = "recentTopics"
	KeySessions      = "sessions"
	KeyActiveSession = "activeSession"
)

// Store is the process-scoped session registry.
//
// In-memory state is authoritative: a failed write is returned to the
// caller and logged, but the mutation stays applied so the UI remains
// consistent until the next successful write. Store is not safe for
// concurrent use.
type Store struct {
	repo store.EntryRepo
	log  *logging.Logger

	sessions map[string]Record
	recent   []string
	active   string
}

// Open loads the registry from repo. It never fails: an unreadable or
// corrupt entry is treated as absent and logged.
func Open(ctx context.Context, repo store.EntryRepo, log *logging.Logger) *Store {
	if log == nil {
		log = logging.Nop()
	}
	s := &Store{
		repo:     repo,
		log:      log,
		sessions: make(map[string]Record),
	}
	s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) {
	var recent []string
	if s.decode(ctx, KeyRecentTopics, &recent) {
		for _, t := range recent {
			t = NormalizeTopic(t)
			if t == "" || slices.Contains(s.recent, t) {
				continue
			}
			s.recent = append(s.recent, t)
			if len(s.recent) == MaxRecent {
				break
			}
		}
	}

	var sessions map[string]Record
	if s.decode(ctx, KeySessions, &sessions) {
		for topic, rec := range sessions {
			if topic == "" {
				continue
			}
			rec.Topic = topic
			if _, ok := ParseLevel(string(rec.Level)); !ok {
				rec.Level = LevelBeginner
			}
			s.sessions[topic] = rec
		}
	}

	active, ok, err := s.repo.Get(ctx, KeyActiveSession)
	if err != nil {
		s.log.Warn("load active session", "err", err)
		return
	}
	if ok {
		if _, exists := s.sessions[active]; exists {
			s.active = active
		} else {
			s.log.Warn("dropping dangling active session", "topic", active)
			if err := s.repo.Delete(ctx, KeyActiveSession); err != nil {
				s.log.Warn("clear dangling active session", "err", err)
			}
		}
	}
}

// decode reads key into v. It reports false when the entry is absent or
// unusable.
func (s *Store) decode(ctx context.Context, key string, v any) bool {
	raw, ok, err := s.repo.Get(ctx, key)
	if err != nil {
		s.log.Warn("load entry", "key", key, "err", err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		s.log.Warn("discarding corrupt entry", "key", key, "err", err)
		return false
	}
	return true
}

// Upsert stores rec under its topic, replacing any previous record.
func (s *Store) Upsert(ctx context.Context, rec Record) error {
	rec.Topic = NormalizeTopic(rec.Topic)
	if rec.Topic == "" {
		return ErrEmptyTopic
	}
	s.sessions[rec.Topic] = rec.Clone()
	return s.saveSessions(ctx)
}

// Delete removes the session for topic. If it was the active session the
// pointer is cleared as well.
func (s *Store) Delete(ctx context.Context, topic string) error {
	if _, ok := s.sessions[topic]; !ok {
		return nil
	}
	delete(s.sessions, topic)
	err := s.saveSessions(ctx)
	if s.active == topic {
		if cerr := s.ClearActive(ctx); err == nil {
			err = cerr
		}
	}
	return err
}

// DeleteAll removes every session and clears the active pointer. Recent
// topics are left alone.
func (s *Store) DeleteAll(ctx context.Context) error {
	s.sessions = make(map[string]Record)
	err := s.saveSessions(ctx)
	if cerr := s.ClearActive(ctx); err == nil {
		err = cerr
	}
	return err
}

// SelectActive points the active session at topic. It reports false when
// no session exists for topic.
func (s *Store) SelectActive(ctx context.Context, topic string) (bool, error) {
	if _, ok := s.sessions[topic]; !ok {
		return false, nil
	}
	if s.active == topic {
		return true, nil
	}
	s.active = topic
	if err := s.repo.Put(ctx, KeyActiveSession, topic); err != nil {
		return true, s.writeFailed(KeyActiveSession, err)
	}
	return true, nil
}

// ClearActive resets the active pointer to none.
func (s *Store) ClearActive(ctx context.Context) error {
	s.active = ""
	if err := s.repo.Delete(ctx, KeyActiveSession); err != nil {
		return s.writeFailed(KeyActiveSession, err)
	}
	return nil
}

// PushRecent moves topic to the front of the recent list, dropping any
// earlier occurrence and trimming the list to MaxRecent.
func (s *Store) PushRecent(ctx context.Context, topic string) error {
	topic = NormalizeTopic(topic)
	if topic == "" {
		return ErrEmptyTopic
	}
	updated := make([]string, 0, MaxRecent)
	updated = append(updated, topic)
	for _, t := range s.recent {
		if t == topic {
			continue
		}
		if len(updated) == MaxRecent {
			break
		}
		updated = append(updated, t)
	}
	s.recent = updated
	return s.saveRecent(ctx)
}

// ClearRecent empties the recent-topics list.
func (s *Store) ClearRecent(ctx context.Context) error {
	s.recent = nil
	return s.saveRecent(ctx)
}

// Get returns a copy of the session for topic.
func (s *Store) Get(topic string) (Record, bool) {
	rec, ok := s.sessions[topic]
	if !ok {
		return Record{}, false
	}
	return rec.Clone(), true
}

// Topics returns all session topics in sorted order.
func (s *Store) Topics() []string {
	topics := make([]string, 0, len(s.sessions))
	for t := range s.sessions {
		topics = append(topics, t)
	}
	sort.Strings(topics)
	return topics
}

// Len returns the number of stored sessions.
func (s *Store) Len() int {
	return len(s.sessions)
}

// Recent returns the recent topics, most recent first.
func (s *Store) Recent() []string {
	return slices.Clone(s.recent)
}

// Active returns the active topic. ok is false when no session is active.
func (s *Store) Active() (topic string, ok bool) {
	return s.active, s.active != ""
}

func (s *Store) saveSessions(ctx context.Context) error {
	return s.put(ctx, KeySessions, s.sessions)
}

func (s *Store) saveRecent(ctx context.Context) error {
	recent := s.recent
	if recent == nil {
		recent = []string{}
	}
	return s.put(ctx, KeyRecentTopics, recent)
}

func (s *Store) put(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return s.writeFailed(key, fmt.Errorf("encode: %w", err))
	}
	if err := s.repo.Put(ctx, key, string(b)); err != nil {
		return s.writeFailed(key, err)
	}
	return nil
}

func (s *Store) writeFailed(key string, err error) error {
	s.log.Error("persist entry", "key", key, "err", err)
	return fmt.Errorf("persist %s: %w", key, err)
}
