package engine

import (
	"context"
	"time"

	"lending/core"
	"lending/pkg/metrics"
	"lending/pkg/number"

	"github.com/fox-one/pkg/logger"
	"github.com/holiman/uint256"
	"github.com/sirupsen/logrus"
)

// Config engine parameters
type Config struct {
	// RewardUnit reward clock, core.RewardUnitBlock or core.RewardUnitSecond
	RewardUnit string
	// RewardPerUnit reward emitted per unit for newly added assets
	RewardPerUnit *uint256.Int
	// CloseFactor max fraction of a debt one liquidation may repay, 1e18 scaled
	CloseFactor *uint256.Int
	// PoolAccount holder receiving pooled funds
	PoolAccount string
}

// Engine the lending engine. Mutating calls from different callers queue on a
// single slot; a call nested in one in flight, e.g. from a token hook handed
// the engine's context, fails fast with ErrReentrantCall.
type Engine struct {
	store    core.IEngineStore
	registry core.IAssetRegistry
	prices   core.IPriceService
	accounts core.IAccountService
	assets   core.IAssetTransfer
	reward   core.IValueToken
	blocks   core.IBlockService
	pauses   core.IPauseStore
	auth     core.IAuthorizer
	config   Config

	slot chan struct{}
}

var _ core.IEngine = (*Engine)(nil)

// New new engine
func New(
	store core.IEngineStore,
	registry core.IAssetRegistry,
	prices core.IPriceService,
	accounts core.IAccountService,
	assets core.IAssetTransfer,
	reward core.IValueToken,
	blocks core.IBlockService,
	pauses core.IPauseStore,
	auth core.IAuthorizer,
	config Config,
) *Engine {
	if config.RewardUnit == "" {
		config.RewardUnit = core.RewardUnitBlock
	}

	if config.RewardPerUnit == nil {
		config.RewardPerUnit = number.Zero()
	}

	if config.CloseFactor == nil || config.CloseFactor.IsZero() {
		config.CloseFactor = new(uint256.Int).Div(number.Scale, uint256.NewInt(2))
	}

	if config.PoolAccount == "" {
		config.PoolAccount = "pool"
	}

	return &Engine{
		store:    store,
		registry: registry,
		prices:   prices,
		accounts: accounts,
		assets:   assets,
		reward:   reward,
		blocks:   blocks,
		pauses:   pauses,
		auth:     auth,
		config:   config,
		slot:     make(chan struct{}, 1),
	}
}

type inCallKey struct{}

// enter takes the call slot, waiting for the call in flight unless ctx
// belongs to it. The returned context marks the call, the func releases it.
func (e *Engine) enter(ctx context.Context) (context.Context, func(), error) {
	if owner, ok := ctx.Value(inCallKey{}).(*Engine); ok && owner == e {
		return nil, nil, core.ErrReentrantCall
	}

	select {
	case e.slot <- struct{}{}:
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	}

	return context.WithValue(ctx, inCallKey{}, e), func() { <-e.slot }, nil
}

// enterUser enter plus the pause check of user operations
func (e *Engine) enterUser(ctx context.Context) (context.Context, func(), error) {
	ctx, release, err := e.enter(ctx)
	if err != nil {
		return nil, nil, err
	}

	paused, err := e.pauses.IsPaused(ctx)
	if err != nil {
		release()
		return nil, nil, err
	}

	if paused {
		release()
		return nil, nil, core.ErrPaused
	}

	return ctx, release, nil
}

func validateAmount(amount *uint256.Int) error {
	if amount == nil || amount.IsZero() {
		return core.ErrInvalidAmount
	}

	if !number.FitsU128(amount) {
		return core.ErrOverflow
	}

	return nil
}

func validateRequest(userID, assetID string, amount *uint256.Int) error {
	if err := core.ValidateUserID(userID); err != nil {
		return err
	}

	if err := core.ValidateAssetID(assetID); err != nil {
		return err
	}

	return validateAmount(amount)
}

// logFailure logs err at the level its class deserves
func logFailure(ctx context.Context, err error, msg string) {
	log := logger.FromContext(ctx).WithError(err)
	switch core.ClassOf(err) {
	case core.ErrorClassValidation, core.ErrorClassSolvency, core.ErrorClassLiquidation, core.ErrorClassGuard, core.ErrorClassAccess:
		log.Infoln("skip:", msg)
	default:
		log.Errorln(msg)
	}
}

// handle runs fn inside the call guard as one operation and commits it
func (e *Engine) handle(ctx context.Context, action core.ActionType, fields logrus.Fields, fn func(op *operation) (*core.Transaction, error)) (tx *core.Transaction, err error) {
	fields["action"] = action.String()
	log := logger.FromContext(ctx).WithFields(fields)
	ctx = logger.WithContext(ctx, log)

	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = core.ClassOf(err).String()
			logFailure(ctx, err, action.String())
		}

		metrics.Engine().ObserveOperation(action.String(), outcome, time.Since(start))
	}()

	enter := e.enter
	if action.IsMutating() {
		enter = e.enterUser
	}

	callCtx, release, err := enter(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	op, err := e.begin(callCtx, action)
	if err != nil {
		return nil, err
	}

	if tx, err = fn(op); err != nil {
		return nil, err
	}

	if err = op.commit(); err != nil {
		return nil, err
	}

	log.Infof("%s done, block %d", action, op.block.Number)
	return tx, nil
}
