package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

// ErrorWriter renders an error response. Injected so this package does not
// depend on the HTTP helpers.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// AdminLoader fetches the stored admin behind a token. It returns nil, nil
// when the admin no longer exists.
type AdminLoader func(ctx context.Context, id int64) (*model.Admin, error)

// Authenticate attaches the bearer token's principal to the request context.
// Requests without a token pass through anonymously; a bad token is rejected.
// With a non-nil load the stored admin is authoritative: a deleted admin gets
// 401, an inactive one 403, and the role comes from the record, not the token.
func Authenticate(tm *TokenManager, load AdminLoader, writeErr ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
				writeErr(w, r, apperr.Unauthorized("could not validate credentials"))
				return
			}

			p, err := tm.Parse(token)
			if err != nil {
				writeErr(w, r, err)
				return
			}
			if load != nil {
				if err := refresh(r.Context(), load, p); err != nil {
					writeErr(w, r, err)
					return
				}
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

func refresh(ctx context.Context, load AdminLoader, p *Principal) error {
	admin, err := load(ctx, p.AdminID)
	if err != nil {
		return apperr.Internal(err, "could not validate credentials")
	}
	if admin == nil {
		return apperr.Unauthorized("could not validate credentials")
	}
	if !admin.IsActive {
		return apperr.Forbidden("inactive admin")
	}
	p.Username, p.Role = admin.Username, admin.Role
	return nil
}

// RequireAuthenticated rejects anonymous requests with 401.
func RequireAuthenticated(writeErr ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := PrincipalFromContext(r.Context()); !ok {
				writeErr(w, r, apperr.Unauthorized("not authenticated"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole rejects anonymous requests with 401 and callers below role with 403.
func RequireRole(role Role, writeErr ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				writeErr(w, r, apperr.Unauthorized("not authenticated"))
				return
			}
			if err := Require(CapabilityOf(p), role); err != nil {
				writeErr(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
