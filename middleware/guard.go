// Package middleware provides an optional net/http guard that resolves the
// request principal's lifecycle and enforces the routing verdict for the
// request path.
package middleware

import (
	"context"
	"net/http"
	"strings"

	lifegate "github.com/orvanta/lifegate"
)

type decisionContextKey struct{}

// DecisionFromContext returns the lifecycle decision attached by Guard.
func DecisionFromContext(ctx context.Context) (*lifegate.ResolvedLifecycle, bool) {
	dec, ok := ctx.Value(decisionContextKey{}).(*lifegate.ResolvedLifecycle)
	return dec, ok
}

// PrincipalFunc extracts the principal facts for a request. Returning nil
// marks the request unauthenticated; returning an error aborts with 401.
type PrincipalFunc func(r *http.Request) (*lifegate.Principal, error)

// Guard resolves the lifecycle for each request and checks the request path
// against the decision's routing entry. Blocked browser requests are
// redirected to the decision's redirect target; other blocked requests get
// 403. Allowed requests proceed with the decision in the context.
func Guard(resolver *lifegate.Resolver, principal PrincipalFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if resolver == nil || principal == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			p, err := principal(r)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			dec, err := resolver.Resolve(r.Context(), p)
			if err != nil {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			if !resolver.IsAllowed(dec, r.URL.Path) {
				if wantsHTML(r) && dec.RedirectTo != "" && dec.RedirectTo != r.URL.Path {
					http.Redirect(w, r, dec.RedirectTo, http.StatusSeeOther)
					return
				}
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), decisionContextKey{}, dec)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
