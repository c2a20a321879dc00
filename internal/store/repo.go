package store

import (
	"context"
	"time"
)

// EntryRepo is a small durable key/value medium. Values are opaque
// strings; callers own their encoding.
type EntryRepo interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Put creates or overwrites key.
	Put(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit    int       // max results (0 = unlimited)
	After    int64     // sequence > After
	From     time.Time // timestamp >= From
	FlowID   string    // exact flow match
	Endpoint string    // exact endpoint match
}

// RequestEventData captures a single call to the generation service.
type RequestEventData struct {
	FlowID       string
	Endpoint     string
	Topic        string
	StatusCode   int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// RequestEventRecord is a journaled request as read back from the store.
type RequestEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	RequestEventData
}

// EventRepo provides append and query access to the request journal.
type EventRepo interface {
	// AppendRequest records a call to the generation service.
	AppendRequest(ctx context.Context, data RequestEventData) error

	// QueryRequests returns journaled requests, newest first.
	QueryRequests(ctx context.Context, opts QueryOpts) ([]RequestEventRecord, error)
}
