package api

import "context"

type contextKey string

const flowKey contextKey = "api_flow"

// WithFlowID attaches the learning-flow ID to the context so both calls of
// one flow are journaled together.
func WithFlowID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, flowKey, id)
}

// FlowIDFrom extracts the flow ID from the context.
func FlowIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(flowKey).(string); ok {
		return v
	}
	return ""
}
