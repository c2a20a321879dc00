package api

import (
	"encoding/json"
	"strings"

	"github.com/abhisek/octolearn/internal/quiz"
)

// NoExplanation replaces an empty or missing explanation.
const NoExplanation = "No explanation available."

// wireItem is a quiz question as the service sends it. Local answer state
// is never read from the wire.
type wireItem struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
}

// DecodeExplanation extracts the explanation text from an explain reply.
// Missing, empty or undecodable replies yield NoExplanation.
func DecodeExplanation(body []byte) string {
	var payload struct {
		Explanation json.RawMessage `json:"explanation"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return NoExplanation
	}
	var text string
	if err := json.Unmarshal(payload.Explanation, &text); err != nil || text == "" {
		return NoExplanation
	}
	return text
}

// DecodeQuiz accepts either a bare array of questions or an object whose
// "questions" field is one. Any other shape decodes to an empty quiz.
func DecodeQuiz(body []byte) []quiz.Item {
	raw := json.RawMessage(strings.TrimSpace(string(body)))
	if len(raw) == 0 {
		return []quiz.Item{}
	}

	if raw[0] == '{' {
		var wrapped struct {
			Questions json.RawMessage `json:"questions"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return []quiz.Item{}
		}
		raw = wrapped.Questions
	}
	if len(raw) == 0 || raw[0] != '[' {
		return []quiz.Item{}
	}

	var wire []wireItem
	if err := json.Unmarshal(raw, &wire); err != nil {
		return []quiz.Item{}
	}
	items := make([]quiz.Item, len(wire))
	for i, w := range wire {
		items[i] = quiz.Item{
			Question:    w.Question,
			Options:     w.Options,
			Answer:      w.Answer,
			Explanation: w.Explanation,
		}
	}
	return items
}
