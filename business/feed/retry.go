package feed

import (
	"context"
	"fmt"
	"time"

	"resaleMarket/domain"
	"resaleMarket/pkg/logger"
	"resaleMarket/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
)

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// rankWithRetry calls the oracle up to MaxAttempts times. Transient failures
// back off linearly (BackoffBase * attempt); anything else returns at once.
// All attempts share one OracleTimeout budget.
func (s *FeedService) rankWithRetry(ctx context.Context, params OracleParams) (rows []domain.FeedRow, err error) {
	ctx, end := tracing.StartSpan(ctx, "feed.oracle",
		attribute.String("endpoint", string(params.Endpoint)),
		attribute.Int("limit", params.Limit),
		attribute.Int("offset", params.Offset),
	)
	defer func() { end(err) }()

	if s.cfg.OracleTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.OracleTimeout)
		defer cancel()
	}

	tid := TraceIDFromContext(ctx)
	endpoint := string(params.Endpoint)

	var lastErr error
	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		got, callErr := s.oracle.RankCandidates(ctx, params)
		if callErr == nil {
			OracleAttemptsTotal.WithLabelValues(endpoint, "success").Inc()
			return got, nil
		}

		lastErr = callErr
		if !IsTransient(callErr) {
			OracleAttemptsTotal.WithLabelValues(endpoint, "fatal").Inc()
			return nil, fmt.Errorf("ranking oracle failed: %w", callErr)
		}

		OracleAttemptsTotal.WithLabelValues(endpoint, "transient").Inc()
		logger.Warn("feed_oracle_retry",
			"trace_id", tid,
			"endpoint", endpoint,
			"attempt", attempt,
			"max_attempts", s.cfg.MaxAttempts,
			"error", callErr,
		)

		if attempt == s.cfg.MaxAttempts {
			break
		}

		if sleepErr := s.sleep(ctx, s.cfg.BackoffBase*time.Duration(attempt)); sleepErr != nil {
			return nil, fmt.Errorf("oracle backoff interrupted: %w", sleepErr)
		}
	}

	return nil, fmt.Errorf("ranking oracle failed after %d attempts: %w", s.cfg.MaxAttempts, lastErr)
}
