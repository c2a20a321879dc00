package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is a canned response for the MockProvider.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider is a deterministic Provider for tests and offline use.
// It returns canned responses in FIFO order and records all requests.
// Once the queue is empty it answers with Fallback, if set.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []Request

	// Fallback produces a response when no canned one is queued.
	Fallback func(Request) MockResponse
}

// NewMockProvider creates a MockProvider with the given canned responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

// NewOfflineProvider returns a MockProvider that answers every request
// with placeholder content: a short text for free-text requests and a
// one-question quiz for schema requests. `octolearn serve --provider mock`
// uses it so the client can be exercised without an API key.
func NewOfflineProvider() *MockProvider {
	m := NewMockProvider()
	m.Fallback = func(req Request) MockResponse {
		if req.Schema == nil {
			return MockResponse{Content: json.RawMessage(
				"## Offline mode\n\nThe tutor is running without a model, so this is placeholder text.")}
		}
		return MockResponse{Content: json.RawMessage(
			`{"questions":[{"question":"Is the tutor connected to a model?","options":["Yes","No","Sometimes","Unknown"],"answer":"No","explanation":"The server was started with the mock provider."}]}`)}
	}
	return m
}

// Generate returns the next canned response, the Fallback response, or
// ErrProviderUnavailable when neither exists.
func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	var resp MockResponse
	switch {
	case len(m.responses) > 0:
		resp = m.responses[0]
		m.responses = m.responses[1:]
	case m.Fallback != nil:
		resp = m.Fallback(req)
	default:
		return nil, &ErrProviderUnavailable{Err: nil}
	}

	if resp.Err != nil {
		return nil, resp.Err
	}

	return &Response{
		Content:    resp.Content,
		Usage:      resp.Usage,
		Model:      "mock",
		StopReason: StopEnd,
	}, nil
}

// ModelID returns "mock".
func (m *MockProvider) ModelID() string {
	return "mock"
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
