// Package accessor records how data-access calls turned out: a metric per call,
// an error log with Postgres details for failures, and a warning when an
// optional relation is missing.
package accessor

import (
	"context"
	"time"

	pkgerrors "github.com/hydrationdev/hydration-os/pkg/errors"
	"github.com/hydrationdev/hydration-os/pkg/logger"
	"github.com/hydrationdev/hydration-os/pkg/metrics"
	"github.com/hydrationdev/hydration-os/pkg/result"
)

type Observer struct {
	logg    *logger.Logger
	metrics *metrics.AccessorMetrics
	now     func() time.Time
}

// NewObserver accepts nil collaborators; a nil logger silences logging.
func NewObserver(logg *logger.Logger, m *metrics.AccessorMetrics) *Observer {
	return &Observer{logg: logg, metrics: m, now: time.Now}
}

// Call is one in-flight accessor operation.
type Call struct {
	ctx       context.Context
	observer  *Observer
	operation string
	started   time.Time
}

func (o *Observer) Start(ctx context.Context, operation string) Call {
	if o == nil {
		o = &Observer{now: time.Now}
	}
	if o.logg != nil {
		ctx = o.logg.WithOperation(ctx, operation)
	}
	return Call{ctx: ctx, observer: o, operation: operation, started: o.now()}
}

// Context carries the operation log field.
func (c Call) Context() context.Context {
	return c.ctx
}

// MissingRelation logs that an optional table is absent.
func (c Call) MissingRelation(err error) {
	if c.observer.logg == nil {
		return
	}
	c.observer.logg.WarnErr(c.ctx, "accessor.relation_missing", err)
}

// Finish records r and returns it unchanged. Validation failures are counted
// but not logged.
func Finish[T any](c Call, r result.Result[T]) result.Result[T] {
	o := c.observer
	o.metrics.Observe(c.operation, string(r.State), o.now().Sub(c.started))
	if r.State == result.StateFailed && o.logg != nil && !pkgerrors.IsCode(r.Err, pkgerrors.CodeValidation) {
		ctx := o.logg.WithFields(c.ctx, pkgerrors.Dump(r.Err).LogFields())
		o.logg.Error(ctx, "accessor.failed", r.Err)
	}
	return r
}
