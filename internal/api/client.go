// Package api is the HTTP boundary to the explanation and quiz service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/abhisek/octolearn/internal/quiz"
)

// Endpoint paths, relative to the configured base URL.
const (
	ExplainPath = "/api/explain"
	QuizPath    = "/api/quiz"
)

// DefaultQuestions is the quiz size the client asks for.
const DefaultQuestions = 5

// maxBody caps how much of a reply is read.
const maxBody = 4 << 20

// Service fetches explanations and quizzes for a topic.
type Service interface {
	Explain(ctx context.Context, topic, level string) (string, error)
	Quiz(ctx context.Context, topic string, numQuestions int) ([]quiz.Item, error)
}

// ExplainRequest is the body of POST /api/explain.
type ExplainRequest struct {
	Topic string `json:"topic"`
	Level string `json:"level"`
}

// QuizRequest is the body of POST /api/quiz.
type QuizRequest struct {
	Topic        string `json:"topic"`
	NumQuestions int    `json:"num_questions"`
}

// Client talks to the service over HTTP.
type Client struct {
	base    string
	http    *http.Client
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds each request. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// NewClient creates a Client for the service at base.
func NewClient(base string, opts ...Option) *Client {
	c := &Client{
		base: strings.TrimRight(base, "/"),
		http: http.DefaultClient,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Base returns the service origin.
func (c *Client) Base() string { return c.base }

// Explain fetches an explanation of topic at level.
func (c *Client) Explain(ctx context.Context, topic, level string) (string, error) {
	body, err := c.post(ctx, ExplainPath, ExplainRequest{Topic: topic, Level: level})
	if err != nil {
		return "", err
	}
	return DecodeExplanation(body), nil
}

// Quiz fetches numQuestions questions about topic. A reply that is not a
// list of questions yields an empty quiz, not an error.
func (c *Client) Quiz(ctx context.Context, topic string, numQuestions int) ([]quiz.Item, error) {
	body, err := c.post(ctx, QuizPath, QuizRequest{Topic: topic, NumQuestions: numQuestions})
	if err != nil {
		return nil, err
	}
	return DecodeQuiz(body), nil
}

func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("read response: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newError(resp.StatusCode, body)
	}
	return body, nil
}
