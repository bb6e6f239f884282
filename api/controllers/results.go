package controllers

import (
	"context"
	"net/http"

	"github.com/hydrationdev/hydration-os/api/responses"
	pkgerrors "github.com/hydrationdev/hydration-os/pkg/errors"
	"github.com/hydrationdev/hydration-os/pkg/logger"
	"github.com/hydrationdev/hydration-os/pkg/result"
)

// writeList renders a list result: ok and empty both answer 200 with the
// (possibly empty) list, failed answers with the dependency error.
func writeList[T, D any](ctx context.Context, logg *logger.Logger, w http.ResponseWriter, res result.Result[[]T], what string, mapFn func([]T) []D) {
	if res.IsFailed() {
		responses.WriteError(ctx, logg, w, dependencyError(res.Err, what+" unavailable"))
		return
	}
	responses.WriteSuccess(w, mapFn(res.Value))
}

// dependencyError keeps typed errors and wraps anything else as a
// DEPENDENCY_ERROR.
func dependencyError(err error, message string) error {
	if err == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, message)
	}
	if pkgerrors.As(err) != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, message)
}
