package engine

import (
	"context"

	"lending/core"
	"lending/pkg/compound"
	"lending/pkg/number"

	"github.com/holiman/uint256"
	"github.com/sirupsen/logrus"
)

// Liquidate repays part of borrower's debt in assetID on behalf of liquidator
// and pays the liquidator the equivalent collateral plus the liquidation bonus.
// collateralAssetID defaults to assetID.
func (e *Engine) Liquidate(ctx context.Context, liquidator, assetID, borrower string, repayAmount *uint256.Int, collateralAssetID string) (*core.Transaction, error) {
	if collateralAssetID == "" {
		collateralAssetID = assetID
	}

	if err := validateRequest(liquidator, assetID, repayAmount); err != nil {
		return nil, err
	}

	if err := core.ValidateUserID(borrower); err != nil {
		return nil, err
	}

	if err := core.ValidateAssetID(collateralAssetID); err != nil {
		return nil, err
	}

	if liquidator == borrower {
		return nil, core.ErrSelfLiquidation
	}

	fields := logrus.Fields{
		"user":       liquidator,
		"borrower":   borrower,
		"asset":      assetID,
		"collateral": collateralAssetID,
		"amount":     repayAmount.Dec(),
	}

	return e.handle(ctx, core.ActionTypeLiquidate, fields, func(op *operation) (*core.Transaction, error) {
		debtAsset, err := op.asset(assetID)
		if err != nil {
			return nil, err
		}

		collateralAsset, err := op.asset(collateralAssetID)
		if err != nil {
			return nil, err
		}

		before, err := op.evaluate(borrower)
		if err != nil {
			return nil, err
		}

		if err := compound.Require(before.HealthFactor.Lt(number.Scale), "health factor not below one", core.ErrNotLiquidatable); err != nil {
			return nil, err
		}

		debtPool, err := op.pool(assetID)
		if err != nil {
			return nil, err
		}

		debtPos, err := op.position(assetID, borrower)
		if err != nil {
			return nil, err
		}

		if err := compound.Require(!debtPos.BorrowAmount.IsZero(), "borrower has no debt in asset", core.ErrNoDebt); err != nil {
			return nil, err
		}

		maxRepay, err := number.MulScale(debtPos.BorrowAmount, e.config.CloseFactor)
		if err != nil {
			return nil, err
		}

		repay := number.Clone(number.Min(repayAmount, maxRepay))
		if err := compound.Require(!repay.IsZero(), "repay rounds to zero", core.ErrInvalidAmount); err != nil {
			return nil, err
		}

		seize, err := op.seizeAmount(debtAsset, collateralAsset, repay)
		if err != nil {
			return nil, err
		}

		collateralPos, err := op.position(collateralAssetID, borrower)
		if err != nil {
			return nil, err
		}

		if err := compound.Require(seize.Cmp(collateralPos.DepositAmount) <= 0, "seize above collateral", core.ErrInsufficientCollateral); err != nil {
			return nil, err
		}

		debtPos.BorrowAmount = new(uint256.Int).Sub(debtPos.BorrowAmount, repay)
		debtPool.TotalBorrows = number.SubSat(debtPool.TotalBorrows, repay)

		collateralPool, err := op.pool(collateralAssetID)
		if err != nil {
			return nil, err
		}

		left := number.SubSat(collateralPool.TotalDeposits, seize)
		if err := compound.Require(collateralPool.TotalDeposits.Cmp(seize) >= 0 && left.Cmp(collateralPool.TotalBorrows) >= 0, "pool cannot fund seize", core.ErrInsufficientLiquidity); err != nil {
			return nil, err
		}

		collateralPos.DepositAmount = new(uint256.Int).Sub(collateralPos.DepositAmount, seize)
		collateralPool.TotalDeposits = left

		op.stagePosition(debtPos)
		op.stagePosition(collateralPos)

		after, err := op.evaluate(borrower)
		if err != nil {
			return nil, err
		}

		if err := compound.Require(after.HealthFactor.Gt(before.HealthFactor), "health factor not improved", core.ErrHealthFactorNotImproved); err != nil {
			return nil, err
		}

		if err := op.requireSolvent(liquidator, core.ErrLiquidatorInsolvent); err != nil {
			return nil, err
		}

		op.transferIn(assetID, liquidator, repay)
		op.transferOut(collateralAssetID, liquidator, seize)

		extra := core.NewTransactionExtra()
		extra.Put(core.TransactionKeyRequested, repayAmount)
		extra.Put(core.TransactionKeyRepay, repay)
		extra.Put(core.TransactionKeySeize, seize)
		extra.Put(core.TransactionKeyBorrower, borrower)
		extra.Put(core.TransactionKeyCollateralAsset, collateralAssetID)
		extra.Put(core.TransactionKeyHealthBefore, before.HealthFactor)
		extra.Put(core.TransactionKeyHealthAfter, after.HealthFactor)

		tx := op.record(liquidator, assetID, repay, extra)
		tx.Participants = append(tx.Participants, borrower)
		return tx, nil
	})
}

// seizeAmount collateral units worth repay plus the liquidation bonus
//
//	seize = repay_value * (1 + bonus) * 10^decimals / collateral_price
func (op *operation) seizeAmount(debtAsset, collateralAsset *core.AssetConfig, repay *uint256.Int) (*uint256.Int, error) {
	debtPrice, err := op.price(debtAsset)
	if err != nil {
		return nil, err
	}

	collateralPrice, err := op.price(collateralAsset)
	if err != nil {
		return nil, err
	}

	value, err := op.e.accounts.Value(debtAsset, repay, debtPrice)
	if err != nil {
		return nil, err
	}

	bonus, err := number.Add(number.Scale, collateralAsset.LiquidationBonus)
	if err != nil {
		return nil, err
	}

	if value, err = number.MulScale(value, bonus); err != nil {
		return nil, err
	}

	return op.e.accounts.Amount(collateralAsset, value, collateralPrice)
}
