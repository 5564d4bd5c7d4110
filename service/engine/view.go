package engine

import (
	"context"

	"lending/core"
	"lending/pkg/number"

	"github.com/holiman/uint256"
)

// view a read only operation; accrual and realization are simulated and
// never committed
func (e *Engine) view(ctx context.Context) (*operation, error) {
	return e.begin(ctx, 0)
}

// Paused reports whether user operations are rejected
func (e *Engine) Paused(ctx context.Context) (bool, error) {
	return e.pauses.IsPaused(ctx)
}

// Pool the pool of assetID as of the current block
func (e *Engine) Pool(ctx context.Context, assetID string) (*core.AssetPool, error) {
	op, err := e.view(ctx)
	if err != nil {
		return nil, err
	}

	return op.pool(assetID)
}

// Pools every pool as of the current block
func (e *Engine) Pools(ctx context.Context) ([]*core.AssetPool, error) {
	op, err := e.view(ctx)
	if err != nil {
		return nil, err
	}

	stored, err := e.store.Pools().All(ctx)
	if err != nil {
		return nil, err
	}

	pools := make([]*core.AssetPool, 0, len(stored))
	for _, p := range stored {
		pool, err := op.pool(p.AssetID)
		if err != nil {
			return nil, err
		}

		pools = append(pools, pool)
	}

	return pools, nil
}

// Position the position of userID in assetID with interest realized
func (e *Engine) Position(ctx context.Context, assetID, userID string) (*core.UserPosition, error) {
	op, err := e.view(ctx)
	if err != nil {
		return nil, err
	}

	return op.position(assetID, userID)
}

// AccRewardPerShare reward accumulator of assetID, 1e18 scaled
func (e *Engine) AccRewardPerShare(ctx context.Context, assetID string) (*uint256.Int, error) {
	pool, err := e.Pool(ctx, assetID)
	if err != nil {
		return nil, err
	}

	return pool.AccRewardPerShare, nil
}

// PendingReward reward ClaimReward would mint now
func (e *Engine) PendingReward(ctx context.Context, assetID, userID string) (*uint256.Int, error) {
	op, err := e.view(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := op.position(assetID, userID); err != nil {
		return nil, err
	}

	return number.Clone(op.pending(assetID, userID)), nil
}

// GetUserBorrowLimit borrow limit contributed by assetID and by the whole account
func (e *Engine) GetUserBorrowLimit(ctx context.Context, userID, assetID string) (*core.BorrowLimit, error) {
	op, err := e.view(ctx)
	if err != nil {
		return nil, err
	}

	holdings, err := op.holdings(userID)
	if err != nil {
		return nil, err
	}

	limit := &core.BorrowLimit{
		AssetID: assetID,
		Asset:   number.Zero(),
		Total:   number.Zero(),
	}

	for _, h := range holdings {
		v, err := e.accounts.BorrowLimit(h)
		if err != nil {
			return nil, err
		}

		if h.Asset.AssetID == assetID {
			limit.Asset = v
		}

		if limit.Total, err = number.Add(limit.Total, v); err != nil {
			return nil, err
		}
	}

	return limit, nil
}

func (e *Engine) accountValues(ctx context.Context, userID string) (*core.AccountValues, error) {
	op, err := e.view(ctx)
	if err != nil {
		return nil, err
	}

	return op.evaluate(userID)
}

// GetCollateralValue deposits of userID discounted by collateral factors, USD
func (e *Engine) GetCollateralValue(ctx context.Context, userID string) (*uint256.Int, error) {
	values, err := e.accountValues(ctx, userID)
	if err != nil {
		return nil, err
	}

	return values.CollateralValue, nil
}

// GetUserTotalValueInUSD deposit and borrow value of userID
func (e *Engine) GetUserTotalValueInUSD(ctx context.Context, userID string) (deposit, borrow *uint256.Int, err error) {
	values, err := e.accountValues(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	return values.DepositValue, values.BorrowValue, nil
}

// HealthFactor collateral value over borrow value of userID
func (e *Engine) HealthFactor(ctx context.Context, userID string) (*uint256.Int, error) {
	values, err := e.accountValues(ctx, userID)
	if err != nil {
		return nil, err
	}

	return values.HealthFactor, nil
}

// GetTotalValues protocol wide deposit and borrow value
func (e *Engine) GetTotalValues(ctx context.Context) (deposit, borrow *uint256.Int, err error) {
	pools, err := e.Pools(ctx)
	if err != nil {
		return nil, nil, err
	}

	op, err := e.view(ctx)
	if err != nil {
		return nil, nil, err
	}

	deposit, borrow = number.Zero(), number.Zero()
	for _, pool := range pools {
		if pool.TotalDeposits.IsZero() && pool.TotalBorrows.IsZero() {
			continue
		}

		asset, err := op.asset(pool.AssetID)
		if err != nil {
			return nil, nil, err
		}

		price, err := op.price(asset)
		if err != nil {
			return nil, nil, err
		}

		d, err := e.accounts.Value(asset, pool.TotalDeposits, price)
		if err != nil {
			return nil, nil, err
		}

		b, err := e.accounts.DebtValue(asset, pool.TotalBorrows, price)
		if err != nil {
			return nil, nil, err
		}

		if deposit, err = number.Add(deposit, d); err != nil {
			return nil, nil, err
		}

		if borrow, err = number.Add(borrow, b); err != nil {
			return nil, nil, err
		}
	}

	return deposit, borrow, nil
}

// GetAssetPrice normalized USD price of assetID
func (e *Engine) GetAssetPrice(ctx context.Context, assetID string) (*uint256.Int, error) {
	op, err := e.view(ctx)
	if err != nil {
		return nil, err
	}

	asset, err := op.asset(assetID)
	if err != nil {
		return nil, err
	}

	return op.price(asset)
}

// Account positions of userID with their valuation
func (e *Engine) Account(ctx context.Context, userID string) (*core.Account, error) {
	op, err := e.view(ctx)
	if err != nil {
		return nil, err
	}

	positions, err := op.userPositions(userID)
	if err != nil {
		return nil, err
	}

	values, err := op.evaluate(userID)
	if err != nil {
		return nil, err
	}

	return &core.Account{
		UserID:    userID,
		Positions: positions,
		Values:    values,
	}, nil
}
