// Package ledger provides the ordering host for claim operations: a single execution
// lane and a block height that advances between operations.
package ledger

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/chainsafe/claims-registry/internal/metrics"
	"github.com/chainsafe/claims-registry/pkg/claim"
)

// HeightStore persists the last produced block height.
type HeightStore interface {
	Load(ctx context.Context) (claim.Height, error)
	Save(ctx context.Context, h claim.Height) error
}

type memoryHeights struct{}

func (memoryHeights) Load(context.Context) (claim.Height, error) { return 0, nil }
func (memoryHeights) Save(context.Context, claim.Height) error  { return nil }

// Chain serializes claim operations and owns the current height.
// Operations passed to Execute run one at a time in arrival order and the height
// does not change while one of them runs.
type Chain struct {
	execMu        sync.Mutex
	height        atomic.Uint64
	heights       HeightStore
	blockInterval time.Duration
	logger        *zap.Logger

	subMu sync.Mutex
	subs  []chan claim.Height
}

// Option configures a Chain.
type Option func(*Chain)

// WithHeightStore persists heights through s. Without it the chain starts at 0.
func WithHeightStore(s HeightStore) Option {
	return func(c *Chain) {
		if s != nil {
			c.heights = s
		}
	}
}

// WithBlockInterval sets how often Run produces a block.
func WithBlockInterval(d time.Duration) Option {
	return func(c *Chain) {
		c.blockInterval = d
	}
}

// New creates a Chain resuming from the last persisted height.
func New(ctx context.Context, logger *zap.Logger, opts ...Option) (*Chain, error) {
	c := &Chain{
		heights:       memoryHeights{},
		blockInterval: 6 * time.Second,
		logger:        logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.blockInterval <= 0 {
		return nil, fmt.Errorf("block interval must be positive, got %s", c.blockInterval)
	}

	h, err := c.heights.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load chain height: %w", err)
	}
	c.height.Store(uint64(h))
	metrics.LedgerHeight.Set(float64(h))
	return c, nil
}

// Height returns the height of the current block.
func (c *Chain) Height() claim.Height {
	return claim.Height(c.height.Load())
}

// Execute runs fn alone: no other operation and no block production happen until it returns.
func (c *Chain) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	c.execMu.Lock()
	defer c.execMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}

// ProduceBlock advances the height by one. The new height is persisted before it
// becomes visible, so a failed save leaves the height unchanged.
func (c *Chain) ProduceBlock(ctx context.Context) (claim.Height, error) {
	c.execMu.Lock()
	next := claim.Height(c.height.Load() + 1)
	if err := c.heights.Save(ctx, next); err != nil {
		c.execMu.Unlock()
		return 0, fmt.Errorf("failed to persist height %d: %w", next, err)
	}
	c.height.Store(uint64(next))
	c.execMu.Unlock()

	metrics.LedgerHeight.Set(float64(next))
	c.notify(next)
	return next, nil
}

// Run produces a block every block interval until ctx is canceled.
func (c *Chain) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.blockInterval)
	defer ticker.Stop()

	c.logger.Info("Block production started",
		zap.Duration("interval", c.blockInterval),
		zap.Uint64("height", uint64(c.Height())),
	)

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Block production stopped", zap.Uint64("height", uint64(c.Height())))
			c.closeSubscribers()
			return nil
		case <-ticker.C:
			h, err := c.ProduceBlock(ctx)
			if err != nil {
				metrics.ErrorsTotal.WithLabelValues("ledger", "produce_block").Inc()
				c.logger.Warn("Failed to produce block", zap.Error(err))
				continue
			}
			c.logger.Debug("Block produced", zap.Uint64("height", uint64(h)))
		}
	}
}

// Subscribe returns a channel receiving new heights. A slow reader only sees the
// latest height. The channel is closed when Run returns.
func (c *Chain) Subscribe() <-chan claim.Height {
	ch := make(chan claim.Height, 1)
	c.subMu.Lock()
	c.subs = append(c.subs, ch)
	c.subMu.Unlock()
	return ch
}

func (c *Chain) notify(h claim.Height) {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	for _, ch := range c.subs {
		select {
		case ch <- h:
		default:
			// replace the stale height
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- h:
			default:
			}
		}
	}
}

func (c *Chain) closeSubscribers() {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	for _, ch := range c.subs {
		close(ch)
	}
	c.subs = nil
}
