package engine

import (
	"context"
	"errors"
	"fmt"

	"lending/core"
	"lending/pkg/compound"
	"lending/pkg/number"
	"lending/service/registry"

	"github.com/sirupsen/logrus"
)

// AddAsset registers cfg and opens its pool
func (e *Engine) AddAsset(ctx context.Context, caller string, cfg *core.AssetConfig) (*core.Transaction, error) {
	if cfg == nil {
		return nil, core.ErrInvalidAssetConfig
	}

	fields := logrus.Fields{"user": caller, "asset": cfg.AssetID}
	return e.handle(ctx, core.ActionTypeAddAsset, fields, func(op *operation) (*core.Transaction, error) {
		if err := e.requireAdmin(caller); err != nil {
			return nil, err
		}

		_, isRecordNotFound, err := e.store.Pools().Find(ctx, cfg.AssetID)
		if err != nil {
			return nil, err
		}

		if !isRecordNotFound {
			return nil, fmt.Errorf("pool %s: %w", cfg.AssetID, core.ErrAssetExists)
		}

		if err := registry.Validate(cfg); err != nil {
			return nil, err
		}

		if _, err := e.registry.GetConfig(ctx, cfg.AssetID); err == nil {
			return nil, fmt.Errorf("asset %s: %w", cfg.AssetID, core.ErrAssetExists)
		} else if !errors.Is(err, core.ErrAssetNotSupported) {
			return nil, err
		}

		// the registry entry is written last so a failed commit leaves no orphan asset
		op.then("register", func(ctx context.Context) error {
			return e.registry.Register(ctx, cfg)
		}, nil)

		pool := compound.NewAssetPool(cfg.AssetID, e.config.RewardPerUnit, op.block.Time, op.unit)
		op.addPool(pool)
		return op.record(caller, cfg.AssetID, number.Zero(), nil), nil
	})
}

// Pause rejects user operations until Unpause
func (e *Engine) Pause(ctx context.Context, caller string) (*core.Transaction, error) {
	return e.setPaused(ctx, caller, true)
}

// Unpause resumes user operations
func (e *Engine) Unpause(ctx context.Context, caller string) (*core.Transaction, error) {
	return e.setPaused(ctx, caller, false)
}

func (e *Engine) setPaused(ctx context.Context, caller string, paused bool) (*core.Transaction, error) {
	action := core.ActionTypeUnpause
	if paused {
		action = core.ActionTypePause
	}

	fields := logrus.Fields{"user": caller}
	return e.handle(ctx, action, fields, func(op *operation) (*core.Transaction, error) {
		if err := e.requireAdmin(caller); err != nil {
			return nil, err
		}

		prev, err := e.pauses.IsPaused(ctx)
		if err != nil {
			return nil, err
		}

		op.then(action.String(), func(ctx context.Context) error {
			return e.pauses.SetPaused(ctx, paused)
		}, func(ctx context.Context) error {
			return e.pauses.SetPaused(ctx, prev)
		})

		return op.record(caller, "", nil, nil), nil
	})
}

func (e *Engine) requireAdmin(caller string) error {
	if e.auth == nil || !e.auth.IsAdmin(caller) {
		return fmt.Errorf("%s: %w", caller, core.ErrForbidden)
	}

	return nil
}
