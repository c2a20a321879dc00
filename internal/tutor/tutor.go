// Package tutor generates topic explanations and quizzes with an LLM.
package tutor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/abhisek/octolearn/internal/llm"
	"github.com/abhisek/octolearn/internal/quiz"
)

var (
	// ErrEmptyExplanation is returned when the model produced no text.
	ErrEmptyExplanation = errors.New("empty explanation from model")

	// ErrInvalidQuiz is returned when the model produced no usable question.
	ErrInvalidQuiz = errors.New("quiz format invalid")
)

// Service answers explain and quiz requests.
type Service struct {
	provider llm.Provider
	cfg      Config
}

// NewService creates a tutor backed by provider.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg}
}

// Explain returns a Markdown explanation of topic written for level.
func (s *Service) Explain(ctx context.Context, topic, level string) (string, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeExplain)

	resp, err := s.provider.Generate(ctx, llm.Request{
		System: explainSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildExplainUserMessage(topic, level)},
		},
		MaxTokens:   s.cfg.ExplainMaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("explanation generation: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyExplanation
	}
	return text, nil
}

type quizOutput struct {
	Questions []quiz.Item `json:"questions"`
}

// Quiz returns up to n multiple-choice questions about topic. Questions
// whose answer is not one of their options are dropped.
func (s *Service) Quiz(ctx context.Context, topic string, n int) ([]quiz.Item, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeQuiz)

	resp, err := s.provider.Generate(ctx, llm.Request{
		System: quizSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildQuizUserMessage(topic, n)},
		},
		Schema:      QuizSchema,
		MaxTokens:   s.cfg.QuizMaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("quiz generation: %w", err)
	}

	var out quizOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse quiz response: %w", err)
	}

	items := make([]quiz.Item, 0, len(out.Questions))
	for _, it := range out.Questions {
		it.Selected = nil
		it.Question = strings.TrimSpace(it.Question)
		if it.Question == "" || !slices.Contains(it.Options, it.Answer) {
			continue
		}
		items = append(items, it)
		if len(items) == n {
			break
		}
	}
	if len(items) == 0 && n > 0 {
		return nil, ErrInvalidQuiz
	}
	return items, nil
}
