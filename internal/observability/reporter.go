package observability

import (
	"errors"
	"log/slog"
	"time"

	"github.com/omniorder/omniorder/internal/shared"
)

// StoreReporter forwards data store outcomes to logs and metrics.
type StoreReporter struct {
	metrics *Metrics
	logger  *slog.Logger
}

// NewStoreReporter builds a reporter. Both arguments may be nil.
func NewStoreReporter(metrics *Metrics, logger *slog.Logger) *StoreReporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &StoreReporter{metrics: metrics, logger: logger}
}

func (r *StoreReporter) RefreshDone(elapsed time.Duration, err error) {
	r.metrics.ObserveRefresh(elapsed, err != nil)
	if err != nil {
		r.logger.Error("store refresh failed", slog.Duration("elapsed", elapsed), slog.Any("error", err))
		return
	}
	r.logger.Debug("store refreshed", slog.Duration("elapsed", elapsed))
}

// MutationDone counts the mutation and logs failures. Rejected input
// (invalid or unknown records) is logged at info and kept out of the error
// result.
func (r *StoreReporter) MutationDone(resource, op string, err error) {
	result := mutationResult(err)
	r.metrics.ObserveMutation(resource, op, result)
	attrs := []any{slog.String("resource", resource), slog.String("op", op)}
	switch result {
	case ResultRejected:
		r.logger.Info("store mutation rejected", append(attrs, slog.Any("error", err))...)
	case ResultError:
		r.logger.Error("store mutation failed", append(attrs, slog.Any("error", err))...)
	default:
		r.logger.Debug("store mutation applied", attrs...)
	}
}

func mutationResult(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, shared.ErrInvalid), errors.Is(err, shared.ErrNotFound):
		return ResultRejected
	default:
		return ResultError
	}
}

func (r *StoreReporter) LoadingChanged(loading bool) {
	r.metrics.SetLoading(loading)
}
