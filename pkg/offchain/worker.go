package offchain

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"

	"github.com/chainsafe/claims-registry/internal/metrics"
	"github.com/chainsafe/claims-registry/pkg/claim"
)

// SumFetcher returns the external value for a block height.
//
//go:generate mockery --name SumFetcher --output mocks --outpkg mocks --filename mock_sum_fetcher.go --with-expecter
type SumFetcher interface {
	Fetch(ctx context.Context, height claim.Height) (decimal.Decimal, error)
}

// Submitter registers claims as an ordinary authenticated caller.
//
//go:generate mockery --name Submitter --output mocks --outpkg mocks --filename mock_submitter.go --with-expecter
type Submitter interface {
	CreateClaim(ctx context.Context, fp claim.Fingerprint) (*claim.Claim, error)
}

// Worker processes every height announced on its channel.
type Worker struct {
	heights   <-chan claim.Height
	fetcher   SumFetcher
	submitter Submitter
	size      int
	logger    *zap.Logger
}

// NewWorker creates a worker deriving fingerprints of size bytes.
func NewWorker(heights <-chan claim.Height, fetcher SumFetcher, submitter Submitter, size int, logger *zap.Logger) (*Worker, error) {
	if size < 1 || size > blake2b.Size {
		return nil, fmt.Errorf("fingerprint size must be within 1..%d, got %d", blake2b.Size, size)
	}
	return &Worker{
		heights:   heights,
		fetcher:   fetcher,
		submitter: submitter,
		size:      size,
		logger:    logger.Named("offchain"),
	}, nil
}

// Run processes heights until ctx is canceled or the channel is closed.
// Failures for one height are logged and never stop the worker.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("Offchain worker started", zap.Int("fingerprint_size", w.size))
	defer w.logger.Info("Offchain worker stopped")

	for {
		select {
		case <-ctx.Done():
			return nil
		case h, ok := <-w.heights:
			if !ok {
				return nil
			}
			if err := w.Process(ctx, h); err != nil {
				metrics.ErrorsTotal.WithLabelValues("offchain", "process").Inc()
				w.logger.Warn("Offchain processing failed", zap.Uint64("height", uint64(h)), zap.Error(err))
			}
		}
	}
}

// Process fetches the value for height and registers its fingerprint. A fingerprint
// that is already registered counts as success.
func (w *Worker) Process(ctx context.Context, height claim.Height) error {
	sum, err := w.fetcher.Fetch(ctx, height)
	if err != nil {
		return err
	}

	fp, err := Fingerprint(height, sum, w.size)
	if err != nil {
		return err
	}

	c, err := w.submitter.CreateClaim(ctx, fp)
	switch {
	case errors.Is(err, claim.ErrProofAlreadyExist):
		metrics.OffchainSubmissions.WithLabelValues("duplicate").Inc()
		w.logger.Debug("Offchain claim already registered",
			zap.Uint64("height", uint64(height)),
			zap.String("fingerprint", fp.String()),
		)
		return nil
	case err != nil:
		metrics.OffchainSubmissions.WithLabelValues("failed").Inc()
		return fmt.Errorf("failed to submit claim %s: %w", fp, err)
	}

	metrics.OffchainSubmissions.WithLabelValues("ok").Inc()
	w.logger.Info("Offchain claim registered",
		zap.Uint64("height", uint64(height)),
		zap.String("sum", sum.String()),
		zap.String("fingerprint", fp.String()),
		zap.Uint64("registered_at", uint64(c.RegisteredAt)),
	)
	return nil
}

// Fingerprint derives a size byte BLAKE2b digest of the height and the canonical form of sum.
func Fingerprint(height claim.Height, sum decimal.Decimal, size int) (claim.Fingerprint, error) {
	h, err := blake2b.New(size, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create hash: %w", err)
	}
	_, _ = h.Write([]byte(strconv.FormatUint(uint64(height), 10)))
	_, _ = h.Write([]byte{':'})
	_, _ = h.Write([]byte(sum.String()))
	return claim.Fingerprint(h.Sum(nil)), nil
}
