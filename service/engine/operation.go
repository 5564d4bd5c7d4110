package engine

import (
	"context"
	"fmt"

	"lending/core"
	basecompound "lending/internal/compound"
	"lending/pkg/compound"
	"lending/pkg/id"
	"lending/pkg/number"

	"github.com/fox-one/pkg/logger"
	foxuuid "github.com/fox-one/pkg/uuid"
	"github.com/holiman/uint256"
)

type (
	poolEntry struct {
		pool    *core.AssetPool
		accrual *compound.Accrual
		staged  bool
	}

	positionEntry struct {
		pos     *core.UserPosition
		pending *uint256.Int
		staged  bool
	}

	step struct {
		name string
		do   func(ctx context.Context) error
		undo func(ctx context.Context) error
	}
)

// operation one engine call. Pools are accrued and positions realized at most
// once, against a single block; only staged entries are written on commit.
type operation struct {
	e      *Engine
	ctx    context.Context
	action core.ActionType
	block  *core.Block
	unit   uint64
	trace  string

	assets map[string]*core.AssetConfig
	prices map[string]*uint256.Int

	pools     map[string]*poolEntry
	poolOrder []string

	positions     map[[2]string]*positionEntry
	positionOrder [][2]string

	transferIns  []*step
	transferOuts []*step
	finally      []*step
	transactions []*core.Transaction
}

func (e *Engine) begin(ctx context.Context, action core.ActionType) (*operation, error) {
	block, err := e.blocks.CurrentBlock(ctx)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("blocks.CurrentBlock")
		return nil, err
	}

	return &operation{
		e:         e,
		ctx:       ctx,
		action:    action,
		block:     block,
		unit:      basecompound.RewardUnit(block, e.config.RewardUnit),
		trace:     id.GenTraceID(),
		assets:    make(map[string]*core.AssetConfig),
		prices:    make(map[string]*uint256.Int),
		pools:     make(map[string]*poolEntry),
		positions: make(map[[2]string]*positionEntry),
	}, nil
}

func (op *operation) asset(assetID string) (*core.AssetConfig, error) {
	if asset, ok := op.assets[assetID]; ok {
		return asset, nil
	}

	asset, err := op.e.registry.GetConfig(op.ctx, assetID)
	if err != nil {
		return nil, err
	}

	op.assets[assetID] = asset
	return asset, nil
}

func (op *operation) supportedAsset(assetID string) (*core.AssetConfig, error) {
	asset, err := op.asset(assetID)
	if err != nil {
		return nil, err
	}

	if !asset.IsSupported {
		return nil, fmt.Errorf("asset %s: %w", assetID, core.ErrAssetNotSupported)
	}

	return asset, nil
}

func (op *operation) price(asset *core.AssetConfig) (*uint256.Int, error) {
	if price, ok := op.prices[asset.AssetID]; ok {
		return price, nil
	}

	price, err := op.e.prices.GetAssetPrice(op.ctx, asset)
	if err != nil {
		return nil, err
	}

	op.prices[asset.AssetID] = price
	return price, nil
}

// pool the pool of assetID accrued to the operation's block
func (op *operation) pool(assetID string) (*core.AssetPool, error) {
	if entry, ok := op.pools[assetID]; ok {
		return entry.pool, nil
	}

	pool, isRecordNotFound, err := op.e.store.Pools().Find(op.ctx, assetID)
	if err != nil {
		logger.FromContext(op.ctx).WithError(err).Errorln("pools.Find")
		return nil, err
	}

	if isRecordNotFound {
		return nil, fmt.Errorf("pool %s: %w", assetID, core.ErrAssetNotSupported)
	}

	accrual, err := compound.AccruePool(pool, op.block.Time, op.unit)
	if err != nil {
		return nil, err
	}

	op.pools[assetID] = &poolEntry{pool: pool, accrual: accrual}
	return pool, nil
}

func (op *operation) stagePool(assetID string) {
	if entry := op.pools[assetID]; entry != nil && !entry.staged {
		entry.staged = true
		op.poolOrder = append(op.poolOrder, assetID)
	}
}

// position the position of userID in assetID realized at the operation's block,
// an empty one if the user never touched the asset
func (op *operation) position(assetID, userID string) (*core.UserPosition, error) {
	key := [2]string{assetID, userID}
	if entry, ok := op.positions[key]; ok {
		return entry.pos, nil
	}

	pool, err := op.pool(assetID)
	if err != nil {
		return nil, err
	}

	pos, isRecordNotFound, err := op.e.store.Positions().Find(op.ctx, assetID, userID)
	if err != nil {
		logger.FromContext(op.ctx).WithError(err).Errorln("positions.Find")
		return nil, err
	}

	if isRecordNotFound {
		pos = core.NewUserPosition(assetID, userID)
		pos.LastUpdateTime = op.block.Time
	}

	pending, err := compound.RealizePosition(pos, pool, op.block.Time)
	if err != nil {
		return nil, err
	}

	op.positions[key] = &positionEntry{pos: pos, pending: pending}
	return pos, nil
}

// stagePosition marks the position and its pool for writing
func (op *operation) stagePosition(pos *core.UserPosition) {
	key := [2]string{pos.AssetID, pos.UserID}
	if entry := op.positions[key]; entry != nil && !entry.staged {
		entry.staged = true
		op.positionOrder = append(op.positionOrder, key)
	}

	op.stagePool(pos.AssetID)
}

func (op *operation) pending(assetID, userID string) *uint256.Int {
	if entry, ok := op.positions[[2]string{assetID, userID}]; ok {
		return entry.pending
	}

	return number.Zero()
}

// userPositions every position of userID, stored or staged, realized
func (op *operation) userPositions(userID string) ([]*core.UserPosition, error) {
	stored, err := op.e.store.Positions().FindByUser(op.ctx, userID)
	if err != nil {
		logger.FromContext(op.ctx).WithError(err).Errorln("positions.FindByUser")
		return nil, err
	}

	seen := make(map[string]bool)
	var assetIDs []string
	for _, p := range stored {
		if !seen[p.AssetID] {
			seen[p.AssetID] = true
			assetIDs = append(assetIDs, p.AssetID)
		}
	}

	for _, key := range op.positionOrder {
		if key[1] == userID && !seen[key[0]] {
			seen[key[0]] = true
			assetIDs = append(assetIDs, key[0])
		}
	}

	positions := make([]*core.UserPosition, 0, len(assetIDs))
	for _, assetID := range assetIDs {
		pos, err := op.position(assetID, userID)
		if err != nil {
			return nil, err
		}

		positions = append(positions, pos)
	}

	return positions, nil
}

// holdings the non empty positions of userID with their prices
func (op *operation) holdings(userID string) ([]*core.Holding, error) {
	positions, err := op.userPositions(userID)
	if err != nil {
		return nil, err
	}

	holdings := make([]*core.Holding, 0, len(positions))
	for _, pos := range positions {
		if pos.IsEmpty() {
			continue
		}

		asset, err := op.asset(pos.AssetID)
		if err != nil {
			return nil, err
		}

		price, err := op.price(asset)
		if err != nil {
			return nil, err
		}

		holdings = append(holdings, &core.Holding{
			Asset:   asset,
			Price:   price,
			Deposit: pos.DepositAmount,
			Borrow:  pos.BorrowAmount,
		})
	}

	return holdings, nil
}

// hasDebt reports whether userID borrows any asset
func (op *operation) hasDebt(userID string) (bool, error) {
	positions, err := op.userPositions(userID)
	if err != nil {
		return false, err
	}

	for _, pos := range positions {
		if !pos.BorrowAmount.IsZero() {
			return true, nil
		}
	}

	return false, nil
}

func (op *operation) evaluate(userID string) (*core.AccountValues, error) {
	holdings, err := op.holdings(userID)
	if err != nil {
		return nil, err
	}

	return op.e.accounts.Evaluate(holdings)
}

// transferIn pulls amount from user into the pool during commit
func (op *operation) transferIn(assetID, userID string, amount *uint256.Int) {
	amount = number.Clone(amount)
	pool := op.e.config.PoolAccount
	op.transferIns = append(op.transferIns, &step{
		name: "transfer in " + assetID,
		do: func(ctx context.Context) error {
			return op.e.assets.TransferFrom(ctx, assetID, userID, pool, amount)
		},
		undo: func(ctx context.Context) error {
			return op.e.assets.Transfer(ctx, assetID, userID, amount)
		},
	})
}

// transferOut pays amount out of the pool to user during commit
func (op *operation) transferOut(assetID, userID string, amount *uint256.Int) {
	amount = number.Clone(amount)
	pool := op.e.config.PoolAccount
	op.transferOuts = append(op.transferOuts, &step{
		name: "transfer out " + assetID,
		do: func(ctx context.Context) error {
			return op.e.assets.Transfer(ctx, assetID, userID, amount)
		},
		undo: func(ctx context.Context) error {
			return op.e.assets.TransferFrom(ctx, assetID, userID, pool, amount)
		},
	})
}

// then adds a step run after the transfers and mints of the commit
func (op *operation) then(name string, do, undo func(ctx context.Context) error) {
	op.finally = append(op.finally, &step{name: name, do: do, undo: undo})
}

// addPool stages a pool created by the operation
func (op *operation) addPool(pool *core.AssetPool) {
	op.pools[pool.AssetID] = &poolEntry{
		pool: pool,
		accrual: &compound.Accrual{
			Emission: number.Zero(),
			Interest: number.Zero(),
			Reserve:  number.Zero(),
		},
	}
	op.stagePool(pool.AssetID)
}

// record logs a transaction written with the operation's state
func (op *operation) record(userID, assetID string, amount *uint256.Int, extra core.TransactionExtraData) *core.Transaction {
	traceID := foxuuid.Modify(op.trace, op.action.String())
	if n := len(op.transactions); n > 0 {
		traceID = foxuuid.Modify(op.trace, fmt.Sprintf("%s:%d", op.action, n))
	}

	if extra == nil {
		extra = core.NewTransactionExtra()
	}

	if amount == nil {
		amount = number.Zero()
	}

	tx := &core.Transaction{
		TraceID:      traceID,
		Action:       op.action,
		UserID:       userID,
		AssetID:      assetID,
		Amount:       number.Clone(amount),
		Participants: []string{userID},
	}
	tx.SetExtraData(extra)

	op.transactions = append(op.transactions, tx)
	return tx
}

// commit refreshes rates of staged pools, settles reward debts, writes the
// staged state and runs the transfers. Any failure leaves the store untouched.
func (op *operation) commit() error {
	ctx := op.ctx
	log := logger.FromContext(ctx)

	changes := &core.Changeset{}
	var mints, reserves []*step

	for _, assetID := range op.poolOrder {
		entry := op.pools[assetID]
		if err := compound.RefreshRates(entry.pool); err != nil {
			return err
		}

		changes.Pools = append(changes.Pools, entry.pool)

		if reserve := entry.accrual.Reserve; !reserve.IsZero() {
			assetID, reserve := assetID, number.Clone(reserve)
			reserves = append(reserves, &step{
				name: "reserves " + assetID,
				do: func(ctx context.Context) error {
					return op.e.registry.AddReserves(ctx, assetID, reserve)
				},
			})
		}
	}

	for _, key := range op.positionOrder {
		entry := op.positions[key]
		pos, pool := entry.pos, op.pools[key[0]].pool

		if !entry.pending.IsZero() {
			claimed, err := number.Add(pos.RewardsClaimed, entry.pending)
			if err != nil {
				return err
			}
			pos.RewardsClaimed = claimed

			userID, reward := pos.UserID, number.Clone(entry.pending)
			mints = append(mints, &step{
				name: "mint reward",
				do: func(ctx context.Context) error {
					return op.e.reward.Mint(ctx, userID, reward)
				},
				undo: func(ctx context.Context) error {
					return op.e.reward.Burn(ctx, userID, reward)
				},
			})
		}

		if err := compound.SettleRewardDebt(pos, pool); err != nil {
			return err
		}

		if err := compound.CheckPosition(pos); err != nil {
			return err
		}

		changes.Positions = append(changes.Positions, pos)
	}

	for _, tx := range op.transactions {
		op.annotate(tx)
		changes.Transactions = append(changes.Transactions, tx)
	}

	if changes.IsEmpty() {
		return nil
	}

	var steps []*step
	steps = append(steps, op.transferIns...)
	steps = append(steps, op.transferOuts...)
	steps = append(steps, mints...)
	steps = append(steps, op.finally...)
	steps = append(steps, reserves...)

	if err := op.e.store.Commit(ctx, changes, func(ctx context.Context) error {
		return interact(ctx, steps)
	}); err != nil {
		log.WithError(err).Infoln("commit")
		return err
	}

	return nil
}

// annotate adds the block, the pool rates and the reward paid to tx
func (op *operation) annotate(tx *core.Transaction) {
	extra := tx.ExtraData()
	extra.Put(core.TransactionKeyBlock, op.block.Number)

	if entry, ok := op.pools[tx.AssetID]; ok && entry.staged {
		extra.Put(core.TransactionKeyBorrowRate, entry.pool.BorrowRate)
		extra.Put(core.TransactionKeyDepositRate, entry.pool.DepositRate)
		if !entry.accrual.Interest.IsZero() {
			extra.Put(core.TransactionKeyInterest, entry.accrual.Interest)
			extra.Put(core.TransactionKeyReserve, entry.accrual.Reserve)
		}
	}

	if reward := op.pending(tx.AssetID, tx.UserID); !reward.IsZero() {
		if entry := op.positions[[2]string{tx.AssetID, tx.UserID}]; entry.staged {
			extra.Put(core.TransactionKeyReward, reward)
		}
	}

	tx.SetExtraData(extra)
}

// interact runs steps in order; on failure the completed ones are undone in
// reverse order and the first error is returned
func interact(ctx context.Context, steps []*step) error {
	for i, s := range steps {
		if err := s.do(ctx); err != nil {
			log := logger.FromContext(ctx).WithError(err)
			log.Infoln("interact:", s.name)

			for j := i - 1; j >= 0; j-- {
				if steps[j].undo == nil {
					continue
				}

				if e := steps[j].undo(ctx); e != nil {
					log.WithError(e).Errorln("undo:", steps[j].name)
				}
			}

			return err
		}
	}

	return nil
}
