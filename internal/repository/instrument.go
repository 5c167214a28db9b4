package repository

import (
	"context"
	"errors"

	"sonic/internal/observability"

	"go.opentelemetry.io/otel/codes"
)

// instrument wraps each repository call with a span, a latency sample and error logging.
type instrument struct {
	system     string
	collection string
	metrics    *observability.StoreMetrics
	log        *observability.RepoLogger
}

func newInstrument(driver, collection string) instrument {
	return instrument{
		system:     dbSystem(driver),
		collection: collection,
		metrics:    observability.NewStoreMetrics(driver),
		log:        observability.NewRepoLogger(driver, collection),
	}
}

func dbSystem(driver string) string {
	switch driver {
	case "mongo":
		return "mongodb"
	case "postgres":
		return "postgresql"
	default:
		return driver
	}
}

func (in instrument) start(ctx context.Context, op string) (context.Context, func(error)) {
	done := in.metrics.TrackQuery(op, in.collection)
	ctx, span := observability.GetTraceLayer().TraceRepositoryMethod(ctx, in.system, op, in.collection)
	return ctx, func(err error) {
		if err != nil && !errors.Is(err, ErrNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			in.log.LogError(ctx, err, op)
		}
		span.End()
		done()
	}
}
