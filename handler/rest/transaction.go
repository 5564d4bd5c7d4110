package rest

import (
	"net/http"

	"lending/core"
	"lending/handler/param"
	"lending/handler/render"
)

// response transactions, optionally of one user
func (h *handler) transactionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params struct {
			User   string `json:"user"`
			Offset int64  `json:"offset"`
		}

		if e := param.Binding(r, &params); e != nil {
			render.BadRequest(w, e)
			return
		}

		limit := param.Int(r, "limit", 500)
		if limit <= 0 || limit > 500 {
			limit = 500
		}

		var (
			transactions []*core.Transaction
			err          error
		)

		if params.User != "" {
			transactions, err = h.transactions.ListByUser(ctx, params.User, params.Offset, limit)
		} else {
			transactions, err = h.transactions.List(ctx, params.Offset, limit)
		}

		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, transactions)
	}
}
