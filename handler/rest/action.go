package rest

import (
	"context"
	"net/http"

	"lending/config"
	"lending/core"
	"lending/handler/param"
	"lending/handler/render"
	"lending/pkg/number"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

type amountAction func(ctx context.Context, userID, assetID string, amount *uint256.Int) (*core.Transaction, error)

// parseAmount human amount of asset, e.g. "1.5"
func (h *handler) parseAmount(ctx context.Context, assetID, amount string) (*uint256.Int, error) {
	asset, err := h.registry.GetConfig(ctx, assetID)
	if err != nil {
		return nil, err
	}

	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, core.ErrInvalidAmount
	}

	return number.FromDecimal(d, int32(asset.Decimals))
}

func (h *handler) amountHandler(action amountAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		user, ok := caller(w, r)
		if !ok {
			return
		}

		var params struct {
			Asset  string `json:"asset"`
			Amount string `json:"amount"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		amount, err := h.parseAmount(ctx, params.Asset, params.Amount)
		if err != nil {
			render.Error(w, err)
			return
		}

		tx, err := action(ctx, user, params.Asset, amount)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, tx)
	}
}

func (h *handler) claimHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		user, ok := caller(w, r)
		if !ok {
			return
		}

		var params struct {
			Asset string `json:"asset"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		tx, err := h.engine.ClaimReward(ctx, user, params.Asset)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, tx)
	}
}

func (h *handler) liquidateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		user, ok := caller(w, r)
		if !ok {
			return
		}

		var params struct {
			Asset           string `json:"asset"`
			User            string `json:"user"`
			Amount          string `json:"amount"`
			CollateralAsset string `json:"collateral_asset"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		amount, err := h.parseAmount(ctx, params.Asset, params.Amount)
		if err != nil {
			render.Error(w, err)
			return
		}

		tx, err := h.engine.Liquidate(ctx, user, params.Asset, params.User, amount, params.CollateralAsset)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, tx)
	}
}

func (h *handler) addAssetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		user, ok := caller(w, r)
		if !ok {
			return
		}

		var opt core.AssetOption
		if err := param.Binding(r, &opt); err != nil {
			render.BadRequest(w, err)
			return
		}

		cfg, err := config.AssetConfig(opt)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		tx, err := h.engine.AddAsset(ctx, user, cfg)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, tx)
	}
}

func (h *handler) pauseHandler(action func(ctx context.Context, caller string) (*core.Transaction, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := caller(w, r)
		if !ok {
			return
		}

		tx, err := action(r.Context(), user)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, tx)
	}
}
