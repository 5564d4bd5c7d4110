package rest

import (
	"net/http"

	"lending/core"
	"lending/handler/render"
	"lending/handler/views"

	"github.com/go-chi/chi"
)

func (h *handler) accountHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID := chi.URLParam(r, "user")

		if err := core.ValidateUserID(userID); err != nil {
			render.Error(w, err)
			return
		}

		account, err := h.engine.Account(ctx, userID)
		if err != nil {
			render.Error(w, err)
			return
		}

		positions := make([]views.Position, 0, len(account.Positions))
		for _, pos := range account.Positions {
			asset, err := h.registry.GetConfig(ctx, pos.AssetID)
			if err != nil {
				render.Error(w, err)
				return
			}

			view, err := h.positionView(r, asset, userID)
			if err != nil {
				render.Error(w, err)
				return
			}

			positions = append(positions, view)
		}

		render.JSON(w, views.AccountView(account, positions))
	}
}

func (h *handler) totalsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deposit, borrow, err := h.engine.GetTotalValues(r.Context())
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, views.Totals{
			DepositValue: views.USD(deposit),
			BorrowValue:  views.USD(borrow),
		})
	}
}
