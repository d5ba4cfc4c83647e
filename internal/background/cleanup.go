package background

import (
	"context"
	"log/slog"
	"time"
)

// TokenCleaner clears expired password reset tokens.
type TokenCleaner interface {
	ClearExpiredResetTokens(ctx context.Context) (int64, error)
}

// CleanupManager periodically nulls out expired reset tokens. Expired
// tokens are already unusable; this keeps the table tidy and limits how
// long token hashes linger at rest.
type CleanupManager struct {
	cleaner  TokenCleaner
	interval time.Duration
	logger   *slog.Logger
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewCleanupManager(cleaner TokenCleaner, interval time.Duration, logger *slog.Logger) *CleanupManager {
	return &CleanupManager{
		cleaner:  cleaner,
		interval: interval,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start launches the cleanup loop. One sweep runs immediately, then one
// per interval until Stop is called.
func (m *CleanupManager) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	go func() {
		defer close(m.done)

		m.sweep(ctx)

		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.sweep(ctx)
			}
		}
	}()

	m.logger.Info("reset token cleanup started", slog.Duration("interval", m.interval))
}

func (m *CleanupManager) sweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cleared, err := m.cleaner.ClearExpiredResetTokens(sweepCtx)
	if err != nil {
		m.logger.Error("reset token cleanup failed", slog.Any("error", err))
		return
	}
	if cleared > 0 {
		m.logger.Info("expired reset tokens cleared", slog.Int64("count", cleared))
	}
}

// Stop cancels the loop and waits for an in-flight sweep to finish.
func (m *CleanupManager) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
	<-m.done
}
