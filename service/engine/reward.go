package engine

import (
	"context"

	"lending/core"

	"github.com/fox-one/pkg/logger"
	"github.com/sirupsen/logrus"
)

// ClaimReward mints the reward pending on userID's deposit in assetID. Nothing
// pending is not an error, the transaction then carries a zero amount.
func (e *Engine) ClaimReward(ctx context.Context, userID, assetID string) (*core.Transaction, error) {
	if err := core.ValidateUserID(userID); err != nil {
		return nil, err
	}

	if err := core.ValidateAssetID(assetID); err != nil {
		return nil, err
	}

	fields := logrus.Fields{"user": userID, "asset": assetID}
	return e.handle(ctx, core.ActionTypeClaimReward, fields, func(op *operation) (*core.Transaction, error) {
		if _, err := op.asset(assetID); err != nil {
			return nil, err
		}

		pos, err := op.position(assetID, userID)
		if err != nil {
			return nil, err
		}

		op.stagePosition(pos)
		return op.record(userID, assetID, op.pending(assetID, userID), nil), nil
	})
}

// Accrue brings the pool of assetID up to the current block and saves it
func (e *Engine) Accrue(ctx context.Context, assetID string) (*core.AssetPool, error) {
	if err := core.ValidateAssetID(assetID); err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx).WithField("asset", assetID)
	ctx = logger.WithContext(ctx, log)

	callCtx, release, err := e.enter(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	op, err := e.begin(callCtx, 0)
	if err != nil {
		return nil, err
	}

	pool, err := op.pool(assetID)
	if err != nil {
		logFailure(ctx, err, "accrue")
		return nil, err
	}

	op.stagePool(assetID)
	if err := op.commit(); err != nil {
		logFailure(ctx, err, "accrue")
		return nil, err
	}

	if interest := op.pools[assetID].accrual.Interest; !interest.IsZero() {
		log.Debugf("accrued interest %s", interest.Dec())
	}

	return pool.Clone(), nil
}
