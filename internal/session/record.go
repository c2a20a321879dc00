package session

import (
	"errors"
	"strings"

	"github.com/abhisek/octolearn/internal/quiz"
)

// ErrEmptyTopic is returned when a record or flow is keyed by a blank topic.
var ErrEmptyTopic = errors.New("topic must not be empty")

// Level is the difficulty tier an explanation is written for.
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// Levels lists every level in display order.
var Levels = []Level{LevelBeginner, LevelIntermediate, LevelAdvanced}

// ParseLevel maps s (case-insensitive) to a Level. Unknown or empty input
// yields LevelBeginner and ok=false.
func ParseLevel(s string) (Level, bool) {
	switch Level(strings.ToLower(strings.TrimSpace(s))) {
	case LevelBeginner:
		return LevelBeginner, true
	case LevelIntermediate:
		return LevelIntermediate, true
	case LevelAdvanced:
		return LevelAdvanced, true
	}
	return LevelBeginner, false
}

// Next cycles to the following level, wrapping after advanced.
func (l Level) Next() Level {
	for i, lv := range Levels {
		if lv == l {
			return Levels[(i+1)%len(Levels)]
		}
	}
	return LevelBeginner
}

// DisplayName returns the capitalized level name.
func (l Level) DisplayName() string {
	switch l {
	case LevelIntermediate:
		return "Intermediate"
	case LevelAdvanced:
		return "Advanced"
	default:
		return "Beginner"
	}
}

// Record is a completed learning session: the explanation and quiz fetched
// for a topic at a level, plus any answers the learner has given.
type Record struct {
	Topic       string      `json:"topic"`
	Level       Level       `json:"level"`
	Explanation string      `json:"explanation"`
	Quiz        []quiz.Item `json:"quiz"`
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	r.Quiz = quiz.Clone(r.Quiz)
	return r
}

// NormalizeTopic trims surrounding whitespace from a topic.
func NormalizeTopic(topic string) string {
	return strings.TrimSpace(topic)
}
