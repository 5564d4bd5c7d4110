package rest

import (
	"errors"
	"net/http"

	"lending/core"
	"lending/handler/render"
	"lending/handler/request"

	"github.com/go-chi/chi"
	"github.com/twitchtv/twirp"
)

type handler struct {
	engine       core.IEngine
	registry     core.IAssetRegistry
	transactions core.ITransactionStore
}

// Handle handle rest api request
func Handle(engine core.IEngine, registry core.IAssetRegistry, transactions core.ITransactionStore) http.Handler {
	h := &handler{
		engine:       engine,
		registry:     registry,
		transactions: transactions,
	}

	router := chi.NewRouter()

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFoundRequest(w, errors.New("not found"))
	})

	router.Get("/pools", h.poolsHandler())
	router.Route("/pools/{asset}", func(r chi.Router) {
		r.Get("/", h.poolHandler())
		r.Get("/price", h.priceHandler())
		r.Get("/positions/{user}", h.positionHandler())
	})
	router.Get("/accounts/{user}", h.accountHandler())
	router.Get("/totals", h.totalsHandler())
	router.Get("/transactions", h.transactionsHandler())

	router.Post("/deposit", h.amountHandler(h.engine.Deposit))
	router.Post("/withdraw", h.amountHandler(h.engine.Withdraw))
	router.Post("/borrow", h.amountHandler(h.engine.Borrow))
	router.Post("/repay", h.amountHandler(h.engine.Repay))
	router.Post("/claim", h.claimHandler())
	router.Post("/liquidate", h.liquidateHandler())

	router.Route("/admin", func(r chi.Router) {
		r.Post("/assets", h.addAssetHandler())
		r.Post("/pause", h.pauseHandler(h.engine.Pause))
		r.Post("/unpause", h.pauseHandler(h.engine.Unpause))
	})

	return router
}

// caller the user of the X-User-ID header, renders 401 when missing
func caller(w http.ResponseWriter, r *http.Request) (string, bool) {
	user, ok := request.NewContext(r.Context()).GetUser()
	if !ok {
		render.Error(w, twirp.NewError(twirp.Unauthenticated, "missing user"))
	}

	return user, ok
}
