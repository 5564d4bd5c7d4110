package rest

import (
	"net/http"

	"lending/core"
	"lending/handler/render"
	"lending/handler/views"

	"github.com/go-chi/chi"
)

func (h *handler) poolsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		pools, err := h.engine.Pools(ctx)
		if err != nil {
			render.Error(w, err)
			return
		}

		poolViews := make([]views.Pool, 0, len(pools))
		for _, pool := range pools {
			asset, err := h.registry.GetConfig(ctx, pool.AssetID)
			if err != nil {
				render.Error(w, err)
				return
			}

			poolViews = append(poolViews, views.PoolView(pool, asset))
		}

		render.JSON(w, poolViews)
	}
}

func (h *handler) poolHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		assetID := chi.URLParam(r, "asset")

		asset, err := h.registry.GetConfig(ctx, assetID)
		if err != nil {
			render.Error(w, err)
			return
		}

		pool, err := h.engine.Pool(ctx, assetID)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, views.PoolView(pool, asset))
	}
}

func (h *handler) priceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assetID := chi.URLParam(r, "asset")

		price, err := h.engine.GetAssetPrice(r.Context(), assetID)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, views.Price{
			AssetID: assetID,
			Price:   views.USD(price),
		})
	}
}

func (h *handler) positionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		assetID := chi.URLParam(r, "asset")
		userID := chi.URLParam(r, "user")

		if err := core.ValidateUserID(userID); err != nil {
			render.Error(w, err)
			return
		}

		asset, err := h.registry.GetConfig(ctx, assetID)
		if err != nil {
			render.Error(w, err)
			return
		}

		view, err := h.positionView(r, asset, userID)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, view)
	}
}

func (h *handler) positionView(r *http.Request, asset *core.AssetConfig, userID string) (views.Position, error) {
	ctx := r.Context()

	pos, err := h.engine.Position(ctx, asset.AssetID, userID)
	if err != nil {
		return views.Position{}, err
	}

	pending, err := h.engine.PendingReward(ctx, asset.AssetID, userID)
	if err != nil {
		return views.Position{}, err
	}

	return views.PositionView(pos, asset, pending.Dec()), nil
}
