package service

import (
	"context"
	"errors"

	"localevents/internal/model"
)

// QueryParser turns free-form query text into a FilterSpec. Two strategies
// exist: the assisted parser backed by the external text-understanding
// service, and the rule-based parser which is always available locally.
type QueryParser interface {
	Parse(ctx context.Context, query string) (model.FilterSpec, error)
}

// ErrParseUnavailable reports that assisted parsing could not produce a
// usable FilterSpec — transport failure, timeout, or malformed output.
// It is recovered locally by falling back to the rule-based parser and is
// never surfaced to callers of the search operation.
var ErrParseUnavailable = errors.New("assisted parsing unavailable")
