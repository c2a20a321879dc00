package llm

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"
)

// Normalized stop reasons reported in Response.StopReason.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

// completion is what an adapter pulled out of a vendor response before
// any checks are applied.
type completion struct {
	content json.RawMessage
	stop    string
	usage   Usage
	model   string
}

// finish turns c into a Response. A schema request must have run to
// completion and match its schema. Free text is returned as is, even when
// truncated: a cut-off explanation is still worth showing.
func (c completion) finish(schema *Schema) (*Response, error) {
	if schema != nil {
		if c.stop == StopMaxTokens {
			return nil, &ErrMaxTokensExceeded{Content: c.content}
		}
		if err := validateResponse(schema, c.content); err != nil {
			return nil, err
		}
	}
	return &Response{
		Content:    c.content,
		Usage:      c.usage,
		Model:      c.model,
		StopReason: c.stop,
	}, nil
}

// vendorError classifies a failed SDK call by its HTTP status. Anything
// other than a rate limit is treated as the provider being unavailable.
func vendorError(status int, header http.Header, err error) error {
	if status == http.StatusTooManyRequests {
		return &ErrRateLimit{RetryAfter: retryAfter(header), Err: err}
	}
	return &ErrProviderUnavailable{Err: err}
}

// retryAfter reads a Retry-After header given in seconds.
func retryAfter(h http.Header) time.Duration {
	if h == nil {
		return 0
	}
	secs, err := strconv.Atoi(h.Get("Retry-After"))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// resolveModel maps a friendly model name to a provider model ID. Unknown
// names are passed through so full IDs work too.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}
