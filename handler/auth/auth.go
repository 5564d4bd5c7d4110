package auth

import (
	"net/http"

	"lending/core"
	"lending/handler/request"

	"github.com/fox-one/pkg/logger"
)

// UserHeader header identifying the caller
const UserHeader = "X-User-ID"

// HandleAuthentication puts the caller of X-User-ID into the request context.
// Requests without a valid header pass through anonymous.
func HandleAuthentication() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := logger.FromContext(ctx)

			userID := r.Header.Get(UserHeader)
			if userID == "" {
				next.ServeHTTP(w, r)
				return
			}

			if err := core.ValidateUserID(userID); err != nil {
				next.ServeHTTP(w, r)
				log.WithError(err).Debugln("invalid user header:", userID)
				return
			}

			ctx = request.NewContext(ctx).WithUser(userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		}

		return http.HandlerFunc(fn)
	}
}
