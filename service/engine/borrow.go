package engine

import (
	"context"

	"lending/core"
	"lending/pkg/compound"
	"lending/pkg/number"

	"github.com/holiman/uint256"
	"github.com/sirupsen/logrus"
)

// Borrow lends amount of assetID to userID against the user's collateral
func (e *Engine) Borrow(ctx context.Context, userID, assetID string, amount *uint256.Int) (*core.Transaction, error) {
	if err := validateRequest(userID, assetID, amount); err != nil {
		return nil, err
	}

	fields := logrus.Fields{"user": userID, "asset": assetID, "amount": amount.Dec()}
	return e.handle(ctx, core.ActionTypeBorrow, fields, func(op *operation) (*core.Transaction, error) {
		if _, err := op.supportedAsset(assetID); err != nil {
			return nil, err
		}

		pool, err := op.pool(assetID)
		if err != nil {
			return nil, err
		}

		pos, err := op.position(assetID, userID)
		if err != nil {
			return nil, err
		}

		borrows, err := number.Add(pool.TotalBorrows, amount)
		if err != nil {
			return nil, err
		}

		if err := compound.Require(borrows.Cmp(pool.TotalDeposits) <= 0, "borrows above deposits", core.ErrInsufficientLiquidity); err != nil {
			return nil, err
		}

		if pos.BorrowAmount, err = number.Add(pos.BorrowAmount, amount); err != nil {
			return nil, err
		}

		pool.TotalBorrows = borrows
		op.stagePosition(pos)

		values, err := op.evaluate(userID)
		if err != nil {
			return nil, err
		}

		if err := compound.Require(values.IsSolvent(), "borrow above borrow limit", core.ErrExceedsMaxBorrowFactor); err != nil {
			return nil, err
		}

		op.transferOut(assetID, userID, amount)
		return op.record(userID, assetID, amount, nil), nil
	})
}

// Repay pays back up to amount of userID's debt in assetID; the excess is
// not taken
func (e *Engine) Repay(ctx context.Context, userID, assetID string, amount *uint256.Int) (*core.Transaction, error) {
	if err := validateRequest(userID, assetID, amount); err != nil {
		return nil, err
	}

	fields := logrus.Fields{"user": userID, "asset": assetID, "amount": amount.Dec()}
	return e.handle(ctx, core.ActionTypeRepay, fields, func(op *operation) (*core.Transaction, error) {
		if _, err := op.asset(assetID); err != nil {
			return nil, err
		}

		pool, err := op.pool(assetID)
		if err != nil {
			return nil, err
		}

		pos, err := op.position(assetID, userID)
		if err != nil {
			return nil, err
		}

		if err := compound.Require(!pos.BorrowAmount.IsZero(), "nothing borrowed", core.ErrNoDebt); err != nil {
			return nil, err
		}

		repay := number.Min(amount, pos.BorrowAmount)
		pos.BorrowAmount = new(uint256.Int).Sub(pos.BorrowAmount, repay)
		pool.TotalBorrows = number.SubSat(pool.TotalBorrows, repay)
		op.stagePosition(pos)
		op.transferIn(assetID, userID, repay)

		extra := core.NewTransactionExtra()
		extra.Put(core.TransactionKeyRequested, amount)
		return op.record(userID, assetID, repay, extra), nil
	})
}
