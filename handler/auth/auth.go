package auth

import (
	"net/http"
	"strings"

	"creditmarket/core"
	"creditmarket/handler/request"

	"github.com/fox-one/pkg/logger"
)

// HandleAuthentication resolve the bearer token into the request caller
func HandleAuthentication(session core.Session) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := logger.FromContext(ctx)

			accessToken := getBearerToken(r)
			if accessToken == "" {
				next.ServeHTTP(w, r)
				return
			}

			caller, err := session.Login(ctx, accessToken)
			if err != nil {
				log.WithError(err).Debugln("login failed")
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(request.WithCaller(ctx, caller)))
		}

		return http.HandlerFunc(fn)
	}
}

func getBearerToken(r *http.Request) string {
	s := r.Header.Get("Authorization")
	if !strings.HasPrefix(s, "Bearer ") {
		return ""
	}

	return strings.TrimPrefix(s, "Bearer ")
}
