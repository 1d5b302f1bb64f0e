package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/chainsafe/claims-registry/pkg/app/errors"
	"github.com/chainsafe/claims-registry/pkg/claim"
)

const serviceName = "ClaimService"

// logService wraps Service with automatic logging of all method calls
type logService struct {
	svc    Service
	logger *zap.Logger
}

// NewLog creates a logging decorator for the claims Service.
// Rejections caused by the caller are logged at warn level, everything else that fails at error level.
func NewLog(svc Service, logger *zap.Logger) Service {
	return &logService{
		svc:    svc,
		logger: logger,
	}
}

// CreateClaim wraps the service method with logging
func (ls *logService) CreateClaim(ctx context.Context, caller claim.AccountID, fp claim.Fingerprint) (c *claim.Claim, err error) {
	start := time.Now()
	fields := []zap.Field{
		zap.String("service", serviceName),
		zap.String("method", "CreateClaim"),
		zap.String("caller", string(caller)),
		zap.String("fingerprint", fp.String()),
	}
	ls.logger.Debug("CreateClaim started", fields...)

	defer func() {
		if err != nil {
			ls.logFailure("CreateClaim failed", err, start, fields)
			return
		}
		ls.logger.Info("CreateClaim completed", append(fields,
			zap.Uint64("registered_at", uint64(c.RegisteredAt)),
			zap.Duration("duration", time.Since(start)),
		)...)
	}()

	return ls.svc.CreateClaim(ctx, caller, fp)
}

// RevokeClaim wraps the service method with logging
func (ls *logService) RevokeClaim(ctx context.Context, caller claim.AccountID, fp claim.Fingerprint) (err error) {
	start := time.Now()
	fields := []zap.Field{
		zap.String("service", serviceName),
		zap.String("method", "RevokeClaim"),
		zap.String("caller", string(caller)),
		zap.String("fingerprint", fp.String()),
	}
	ls.logger.Debug("RevokeClaim started", fields...)

	defer func() {
		if err != nil {
			ls.logFailure("RevokeClaim failed", err, start, fields)
			return
		}
		ls.logger.Info("RevokeClaim completed", append(fields, zap.Duration("duration", time.Since(start)))...)
	}()

	return ls.svc.RevokeClaim(ctx, caller, fp)
}

// TransferClaim wraps the service method with logging
func (ls *logService) TransferClaim(
	ctx context.Context,
	caller claim.AccountID,
	fp claim.Fingerprint,
	newOwner claim.AccountID,
) (c *claim.Claim, err error) {
	start := time.Now()
	fields := []zap.Field{
		zap.String("service", serviceName),
		zap.String("method", "TransferClaim"),
		zap.String("caller", string(caller)),
		zap.String("new_owner", string(newOwner)),
		zap.String("fingerprint", fp.String()),
	}
	ls.logger.Debug("TransferClaim started", fields...)

	defer func() {
		if err != nil {
			ls.logFailure("TransferClaim failed", err, start, fields)
			return
		}
		ls.logger.Info("TransferClaim completed", append(fields,
			zap.Uint64("registered_at", uint64(c.RegisteredAt)),
			zap.Duration("duration", time.Since(start)),
		)...)
	}()

	return ls.svc.TransferClaim(ctx, caller, fp, newOwner)
}

// GetClaim wraps the service method with logging. Lookups are frequent, so only failures
// other than a missing claim are logged.
func (ls *logService) GetClaim(ctx context.Context, fp claim.Fingerprint) (c *claim.Claim, err error) {
	start := time.Now()
	defer func() {
		if err != nil && !apperrors.Is(err, apperrors.CategoryResourceNotFound) {
			ls.logFailure("GetClaim failed", err, start, []zap.Field{
				zap.String("service", serviceName),
				zap.String("method", "GetClaim"),
				zap.String("fingerprint", fp.String()),
			})
		}
	}()

	return ls.svc.GetClaim(ctx, fp)
}

// Height is not logged.
func (ls *logService) Height() claim.Height {
	return ls.svc.Height()
}

func (ls *logService) logFailure(msg string, err error, start time.Time, fields []zap.Field) {
	fields = append(fields, zap.Duration("duration", time.Since(start)), zap.Error(err))
	if apperrors.IsInternalError(err) {
		ls.logger.Error(msg, fields...)
		return
	}
	ls.logger.Warn(msg, fields...)
}
