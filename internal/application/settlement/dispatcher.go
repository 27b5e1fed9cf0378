package settlement

import (
	"context"
	"errors"
	"time"

	"github.com/erp/settlement/internal/domain/pos"
	"github.com/erp/settlement/internal/domain/shared"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Poster posts a settled order to the ledger
type Poster interface {
	PostOrder(ctx context.Context, cmd PostCommand) (*PostingResult, error)
}

// DispatcherConfig tunes the inline posting attempt
type DispatcherConfig struct {
	Timeout     time.Duration
	MaxFailures uint32
	OpenTimeout time.Duration
}

// PostingDispatcher runs the inline posting attempt after a settlement
// commits. A circuit breaker stops inline attempts while the ledger store is
// failing; the outbox processor delivers the posting command later.
type PostingDispatcher struct {
	poster  Poster
	breaker *gobreaker.CircuitBreaker
	timeout time.Duration
	logger  *zap.Logger
}

// NewPostingDispatcher creates a PostingDispatcher
func NewPostingDispatcher(poster Poster, cfg DispatcherConfig, logger *zap.Logger) *PostingDispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "ledger-posting",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		// Only transient failures count against the breaker; a missing
		// account mapping says nothing about the health of the store.
		IsSuccessful: func(err error) bool {
			return err == nil || !shared.IsRetryable(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("posting circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &PostingDispatcher{
		poster:  poster,
		breaker: breaker,
		timeout: cfg.Timeout,
		logger:  logger,
	}
}

// Dispatch attempts the posting and always returns a result describing the
// posting state. It never fails the settlement that triggered it.
func (d *PostingDispatcher) Dispatch(ctx context.Context, cmd PostCommand) PostingResult {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	var result *PostingResult
	_, err := d.breaker.Execute(func() (any, error) {
		r, err := d.poster.PostOrder(ctx, cmd)
		result = r
		return nil, err
	})
	if err == nil && result != nil {
		return *result
	}

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		d.logger.Warn("inline posting skipped, circuit breaker open",
			zap.String("order_id", cmd.OrderID.String()),
		)
		return pendingResult("Ledger posting deferred")
	case result != nil:
		// configuration or consistency failure, already recorded on the order
		return *result
	case shared.IsRetryable(err):
		d.logger.Warn("inline posting failed, outbox will retry",
			zap.String("order_id", cmd.OrderID.String()),
			zap.Error(err),
		)
		return pendingResult("Ledger posting deferred")
	default:
		// nothing was recorded on the order, which stays PENDING for the outbox
		d.logger.Error("inline posting rejected, order left pending",
			zap.String("order_id", cmd.OrderID.String()),
			zap.Error(err),
		)
		return pendingResult(err.Error())
	}
}

// State returns the breaker state name
func (d *PostingDispatcher) State() string {
	return d.breaker.State().String()
}

func pendingResult(msg string) PostingResult {
	return PostingResult{
		Status: string(pos.PostingStatusPending),
		Error:  msg,
	}
}
