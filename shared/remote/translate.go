package remote

import (
	"context"
	"errors"
	"fmt"

	"github.com/ledgerline/bank/shared/errs"
	"github.com/ledgerline/bank/shared/logger"
)

// Purpose describes why a lookup was made. It only shows up in logs.
type Purpose string

const (
	PurposeValidate Purpose = "validating a referenced record"
	PurposeEnrich   Purpose = "enriching a report row"
	PurposeEmbed    Purpose = "embedding a related record"
)

// Translate maps an outcome onto the domain taxonomy: Found yields the value,
// NotFound a NotFoundError, and Failure an UpstreamError whose cause is logged
// here and nowhere else. A lookup abandoned because the caller went away is
// only a warning.
func Translate[T any](o Outcome[T], entity errs.Entity, id int64, purpose Purpose) (*T, error) {
	switch o.Kind {
	case Found:
		if o.Value == nil {
			return nil, &errs.NotFoundError{Entity: entity, ID: id}
		}
		return o.Value, nil
	case NotFound:
		return nil, &errs.NotFoundError{Entity: entity, ID: id}
	}

	cause := o.Err
	if cause == nil {
		cause = fmt.Errorf("unexpected lookup outcome %q", o.Kind)
	}
	fields := logger.Fields{
		"entity":  string(entity),
		"id":      id,
		"purpose": string(purpose),
		"status":  o.Status,
	}
	if errors.Is(cause, context.Canceled) {
		fields["error"] = cause.Error()
		logger.Warn("remote lookup cancelled", fields)
	} else {
		logger.Error("remote lookup failed", cause, fields)
	}
	return nil, &errs.UpstreamError{Entity: entity, ID: id, Cause: cause}
}

// Lookup resolves id through r and translates the outcome.
func Lookup[T any](ctx context.Context, r Resolver[T], entity errs.Entity, id int64, purpose Purpose) (*T, error) {
	return Translate(r.Resolve(ctx, id), entity, id, purpose)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc[T any] func(ctx context.Context, id int64) Outcome[T]

func (f ResolverFunc[T]) Resolve(ctx context.Context, id int64) Outcome[T] {
	return f(ctx, id)
}
