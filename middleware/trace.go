package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/batonkit/baton"
)

// Trace logs one structured line when an invocation starts and one when it
// finishes, carrying the pipeline name, a generated run ID, the scope's
// tenant and user, duration, and the outcome. It is purely observational:
// the wrapped pipeline's result is returned unchanged. A nil logger means
// slog.Default().
func Trace(name string, logger *slog.Logger) baton.Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next baton.Pipeline) baton.Pipeline {
		return func(ctx context.Context, scope baton.Scope, history []baton.Message) (baton.AssistantMessage, error) {
			runID := uuid.NewString()
			start := time.Now()
			logger.InfoContext(ctx, "pipeline started",
				slog.String("pipeline", name),
				slog.String("run_id", runID),
				slog.String("tenant_id", scope.TenantID),
				slog.String("user_id", scope.UserID),
				slog.Int("messages", len(history)),
			)

			msg, err := next(ctx, scope, history)

			duration := time.Since(start)
			if err != nil {
				logger.ErrorContext(ctx, "pipeline failed",
					slog.String("pipeline", name),
					slog.String("run_id", runID),
					slog.Duration("duration", duration),
					slog.String("error_kind", errorKind(err)),
					slog.Any("error", err),
				)
				return msg, err
			}

			logger.InfoContext(ctx, "pipeline completed",
				slog.String("pipeline", name),
				slog.String("run_id", runID),
				slog.Duration("duration", duration),
				slog.String("stop_reason", string(msg.StopReason)),
			)
			return msg, nil
		}
	}
}

// errorKind names the taxonomy sentinel an error wraps, for log filtering.
// ErrCommandExecution is checked before the argument/output kinds because
// it wraps an opaque cause that may itself carry sentinels.
func errorKind(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "deadline_exceeded"
	case errors.Is(err, baton.ErrRoundLimit):
		return "round_limit"
	case errors.Is(err, baton.ErrModel):
		return "model"
	case errors.Is(err, baton.ErrUnknownCommand):
		return "unknown_command"
	case errors.Is(err, baton.ErrCommandExecution):
		return "command_execution"
	case errors.Is(err, baton.ErrInvalidArguments):
		return "invalid_arguments"
	case errors.Is(err, baton.ErrInvalidOutput):
		return "invalid_output"
	case errors.Is(err, baton.ErrRetrieval):
		return "retrieval"
	case errors.Is(err, baton.ErrValidation):
		return "validation"
	default:
		return "unknown"
	}
}
