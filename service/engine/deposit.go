package engine

import (
	"context"

	"lending/core"
	"lending/pkg/compound"
	"lending/pkg/number"

	"github.com/holiman/uint256"
	"github.com/sirupsen/logrus"
)

// Deposit supplies amount of assetID from userID to the pool
func (e *Engine) Deposit(ctx context.Context, userID, assetID string, amount *uint256.Int) (*core.Transaction, error) {
	if err := validateRequest(userID, assetID, amount); err != nil {
		return nil, err
	}

	fields := logrus.Fields{"user": userID, "asset": assetID, "amount": amount.Dec()}
	return e.handle(ctx, core.ActionTypeDeposit, fields, func(op *operation) (*core.Transaction, error) {
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

		if pos.DepositAmount, err = number.Add(pos.DepositAmount, amount); err != nil {
			return nil, err
		}

		if pool.TotalDeposits, err = number.Add(pool.TotalDeposits, amount); err != nil {
			return nil, err
		}

		op.stagePosition(pos)
		op.transferIn(assetID, userID, amount)
		return op.record(userID, assetID, amount, nil), nil
	})
}

// Withdraw redeems amount of assetID to userID
func (e *Engine) Withdraw(ctx context.Context, userID, assetID string, amount *uint256.Int) (*core.Transaction, error) {
	if err := validateRequest(userID, assetID, amount); err != nil {
		return nil, err
	}

	fields := logrus.Fields{"user": userID, "asset": assetID, "amount": amount.Dec()}
	return e.handle(ctx, core.ActionTypeWithdraw, fields, func(op *operation) (*core.Transaction, error) {
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

		if err := compound.Require(pos.DepositAmount.Cmp(amount) >= 0, "withdraw above deposit", core.ErrInsufficientBalance); err != nil {
			return nil, err
		}

		left := number.SubSat(pool.TotalDeposits, amount)
		if err := compound.Require(pool.TotalDeposits.Cmp(amount) >= 0 && left.Cmp(pool.TotalBorrows) >= 0, "pool cannot fund withdraw", core.ErrInsufficientLiquidity); err != nil {
			return nil, err
		}

		pos.DepositAmount = new(uint256.Int).Sub(pos.DepositAmount, amount)
		pool.TotalDeposits = left
		op.stagePosition(pos)

		if err := op.requireSolvent(userID, core.ErrWithdrawExceedsThreshold); err != nil {
			return nil, err
		}

		op.transferOut(assetID, userID, amount)
		return op.record(userID, assetID, amount, nil), nil
	})
}

// requireSolvent fails with code when userID borrows above the borrow limit
func (op *operation) requireSolvent(userID string, code core.ErrorCode) error {
	debt, err := op.hasDebt(userID)
	if err != nil || !debt {
		return err
	}

	values, err := op.evaluate(userID)
	if err != nil {
		return err
	}

	return compound.Require(values.IsSolvent(), "borrow value above borrow limit", code)
}
