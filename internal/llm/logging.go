package llm

import (
	"context"
	"time"

	"github.com/abhisek/octolearn/internal/logging"
)

// LoggingProvider is a decorator that logs every request with its purpose,
// latency, token usage and estimated cost.
type LoggingProvider struct {
	inner Provider
	log   *logging.Logger
}

// WithLogging wraps a Provider with request logging.
func WithLogging(p Provider, log *logging.Logger) Provider {
	if log == nil {
		log = logging.Nop()
	}
	return &LoggingProvider{inner: p, log: log}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	kv := []any{
		"purpose", PurposeFrom(ctx),
		"model", l.inner.ModelID(),
		"latency_ms", time.Since(start).Milliseconds(),
	}
	if req.Schema != nil {
		kv = append(kv, "schema", req.Schema.Name)
	}
	if err != nil {
		l.log.Warn("llm request failed", append(kv, "err", err)...)
		return nil, err
	}

	kv = append(kv,
		"served_by", resp.Model,
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
		"stop", resp.StopReason,
	)
	if c := LookupCost(resp.Model); c != nil {
		kv = append(kv, "cost_usd", c.Cost(resp.Usage.InputTokens, resp.Usage.OutputTokens))
	}
	l.log.Info("llm request", kv...)
	return resp, nil
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
