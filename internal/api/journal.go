package api

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/octolearn/internal/logging"
	"github.com/abhisek/octolearn/internal/quiz"
	"github.com/abhisek/octolearn/internal/store"
)

// JournalService is a decorator that records every call in the request
// journal and the log. Journal failures are logged and never surface to
// the caller.
type JournalService struct {
	inner  Service
	events store.EventRepo
	log    *logging.Logger
}

// WithJournal wraps a Service with request journaling. A nil events repo
// logs only.
func WithJournal(s Service, events store.EventRepo, log *logging.Logger) Service {
	if log == nil {
		log = logging.Nop()
	}
	return &JournalService{inner: s, events: events, log: log}
}

func (j *JournalService) Explain(ctx context.Context, topic, level string) (string, error) {
	start := time.Now()
	text, err := j.inner.Explain(ctx, topic, level)
	j.record(ctx, ExplainPath, topic, start, err)
	return text, err
}

func (j *JournalService) Quiz(ctx context.Context, topic string, numQuestions int) ([]quiz.Item, error) {
	start := time.Now()
	items, err := j.inner.Quiz(ctx, topic, numQuestions)
	j.record(ctx, QuizPath, topic, start, err)
	if err == nil {
		j.log.Debug("quiz received", "topic", topic, "questions", len(items))
	}
	return items, err
}

func (j *JournalService) record(ctx context.Context, endpoint, topic string, start time.Time, err error) {
	data := store.RequestEventData{
		FlowID:     FlowIDFrom(ctx),
		Endpoint:   endpoint,
		Topic:      topic,
		StatusCode: statusOf(err),
		LatencyMs:  time.Since(start).Milliseconds(),
		Success:    err == nil,
	}
	if err != nil {
		data.ErrorMessage = Message(err)
		j.log.Warn("request failed",
			"flow_id", data.FlowID,
			"endpoint", endpoint,
			"topic", topic,
			"status", data.StatusCode,
			"latency_ms", data.LatencyMs,
			"err", err,
		)
	} else {
		j.log.Info("request completed",
			"flow_id", data.FlowID,
			"endpoint", endpoint,
			"topic", topic,
			"latency_ms", data.LatencyMs,
		)
	}

	if j.events == nil {
		return
	}
	// The flow context may already be cancelled; the journal write should
	// still land.
	if werr := j.events.AppendRequest(context.WithoutCancel(ctx), data); werr != nil {
		j.log.Error("journal request", "endpoint", endpoint, "err", werr)
	}
}

// statusOf returns the HTTP status carried by err: 200 on success, the
// response status for *Error, 0 when no response arrived.
func statusOf(err error) int {
	if err == nil {
		return 200
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
