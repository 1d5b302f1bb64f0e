package offchain

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	apperrors "github.com/chainsafe/claims-registry/pkg/app/errors"
	"github.com/chainsafe/claims-registry/pkg/claim"
	"github.com/chainsafe/claims-registry/pkg/offchain/mocks"
)

const testSize = 6

func newTestWorker(t *testing.T, heights <-chan claim.Height, f SumFetcher, s Submitter) *Worker {
	t.Helper()
	w, err := NewWorker(heights, f, s, testSize, zap.NewNop())
	if err != nil {
		t.Fatalf("NewWorker() failed: %v", err)
	}
	return w
}

func TestWorker_Process(t *testing.T) {
	sum := decimal.NewFromInt(55)
	want, err := Fingerprint(10, sum, testSize)
	if err != nil {
		t.Fatalf("Fingerprint() failed: %v", err)
	}

	fetcher := mocks.NewSumFetcher(t)
	fetcher.EXPECT().Fetch(mock.Anything, claim.Height(10)).Return(sum, nil).Once()
	submitter := mocks.NewSubmitter(t)
	submitter.EXPECT().
		CreateClaim(mock.Anything, want).
		Return(&claim.Claim{Fingerprint: want, Owner: "offchain-worker", RegisteredAt: 10}, nil).
		Once()

	if err := newTestWorker(t, nil, fetcher, submitter).Process(context.Background(), 10); err != nil {
		t.Fatalf("Process() failed: %v", err)
	}
}

func TestWorker_ProcessToleratesDuplicate(t *testing.T) {
	fetcher := mocks.NewSumFetcher(t)
	fetcher.EXPECT().Fetch(mock.Anything, claim.Height(3)).Return(decimal.NewFromInt(1), nil).Once()
	submitter := mocks.NewSubmitter(t)
	submitter.EXPECT().
		CreateClaim(mock.Anything, mock.Anything).
		Return(nil, apperrors.ConflictError(claim.ErrProofAlreadyExist, "proof already exists")).
		Once()

	if err := newTestWorker(t, nil, fetcher, submitter).Process(context.Background(), 3); err != nil {
		t.Fatalf("expected duplicate to count as success, got %v", err)
	}
}

func TestWorker_ProcessSubmitFailure(t *testing.T) {
	submitErr := errors.New("connection refused")
	fetcher := mocks.NewSumFetcher(t)
	fetcher.EXPECT().Fetch(mock.Anything, claim.Height(3)).Return(decimal.NewFromInt(1), nil).Once()
	submitter := mocks.NewSubmitter(t)
	submitter.EXPECT().CreateClaim(mock.Anything, mock.Anything).Return(nil, submitErr).Once()

	err := newTestWorker(t, nil, fetcher, submitter).Process(context.Background(), 3)
	if !errors.Is(err, submitErr) {
		t.Fatalf("expected submit error, got %v", err)
	}
}

func TestWorker_ProcessFetchFailure(t *testing.T) {
	fetchErr := errors.New("endpoint down")
	fetcher := mocks.NewSumFetcher(t)
	fetcher.EXPECT().Fetch(mock.Anything, claim.Height(4)).Return(decimal.Decimal{}, fetchErr).Once()
	submitter := mocks.NewSubmitter(t)

	err := newTestWorker(t, nil, fetcher, submitter).Process(context.Background(), 4)
	if !errors.Is(err, fetchErr) {
		t.Fatalf("expected fetch error, got %v", err)
	}
	submitter.AssertNotCalled(t, "CreateClaim", mock.Anything, mock.Anything)
}

func TestWorker_RunContinuesAfterFailure(t *testing.T) {
	heights := make(chan claim.Height, 2)
	heights <- 1
	heights <- 2
	close(heights)

	fetcher := mocks.NewSumFetcher(t)
	fetcher.EXPECT().Fetch(mock.Anything, claim.Height(1)).Return(decimal.Decimal{}, errors.New("boom")).Once()
	fetcher.EXPECT().Fetch(mock.Anything, claim.Height(2)).Return(decimal.NewFromInt(2), nil).Once()
	submitter := mocks.NewSubmitter(t)
	submitter.EXPECT().CreateClaim(mock.Anything, mock.Anything).Return(&claim.Claim{RegisteredAt: 2}, nil).Once()

	if err := newTestWorker(t, heights, fetcher, submitter).Run(context.Background()); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
}

func TestWorker_RunStopsOnContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	w := newTestWorker(t, make(chan claim.Height), mocks.NewSumFetcher(t), mocks.NewSubmitter(t))

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() returned %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("Run() did not stop after cancel")
	}
}

func TestFingerprint(t *testing.T) {
	a, err := Fingerprint(5, decimal.RequireFromString("1.50"), testSize)
	if err != nil {
		t.Fatalf("Fingerprint() failed: %v", err)
	}
	if len(a) != testSize {
		t.Fatalf("expected %d bytes, got %d", testSize, len(a))
	}

	same, _ := Fingerprint(5, decimal.RequireFromString("1.5"), testSize)
	if !bytes.Equal(a, same) {
		t.Fatalf("equal sums must yield equal fingerprints: %s vs %s", a, same)
	}

	otherHeight, _ := Fingerprint(6, decimal.RequireFromString("1.5"), testSize)
	if bytes.Equal(a, otherHeight) {
		t.Fatalf("different heights must yield different fingerprints")
	}

	otherSum, _ := Fingerprint(5, decimal.RequireFromString("1.6"), testSize)
	if bytes.Equal(a, otherSum) {
		t.Fatalf("different sums must yield different fingerprints")
	}
}

func TestNewWorker_Size(t *testing.T) {
	for _, size := range []int{0, 65} {
		if _, err := NewWorker(nil, nil, nil, size, zap.NewNop()); err == nil {
			t.Fatalf("expected error for size %d", size)
		}
	}
}
