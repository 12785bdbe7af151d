package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"vet-clinic-backend/internal/access"
	"vet-clinic-backend/internal/ports/auth"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// AuthContext:
// - Si verifier != nil y viene Bearer token => intenta Verify() y setea claims.
// - Si verifier == nil => modo dev: headers X-Debug-* inyectan una identidad.
// - Si no hay claims, el request sigue igual; los handlers deciden si exigen auth.
func AuthContext(verifier auth.AuthVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Dev mode: permitir inyectar user sin verifier
			if verifier == nil {
				if claims, ok := debugClaims(r); ok {
					ctx := context.WithValue(r.Context(), claimsKey, claims)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}

				next.ServeHTTP(w, r)
				return
			}

			// Verifier mode
			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := verifier.Verify(r.Context(), token)
			if err != nil {
				// No cortamos aquí para no acoplar. El handler decide 401/403.
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetClaims(ctx context.Context) (auth.Claims, bool) {
	v := ctx.Value(claimsKey)
	if v == nil {
		return auth.Claims{}, false
	}
	c, ok := v.(auth.Claims)
	return c, ok
}

// GetPrincipal traduce los claims del contexto al principal de autorización.
func GetPrincipal(ctx context.Context) (access.Principal, bool) {
	c, ok := GetClaims(ctx)
	if !ok {
		return access.Principal{}, false
	}
	p, err := access.FromClaims(c)
	if err != nil {
		return access.Principal{}, false
	}
	return p, true
}

// debugClaims arma una identidad desde headers X-Debug-* (solo modo dev).
// X-Debug-User-ID es obligatorio; X-Debug-Role por defecto VETERINARIO.
func debugClaims(r *http.Request) (auth.Claims, bool) {
	uid, err := strconv.ParseInt(strings.TrimSpace(r.Header.Get("X-Debug-User-ID")), 10, 64)
	if err != nil {
		return auth.Claims{}, false
	}
	claims := auth.Claims{
		UserID: uid,
		Email:  strings.TrimSpace(r.Header.Get("X-Debug-Email")),
		Role:   strings.TrimSpace(r.Header.Get("X-Debug-Role")),
	}
	if claims.Role == "" {
		claims.Role = string(access.RoleVet)
	}
	if cid, err := strconv.ParseInt(strings.TrimSpace(r.Header.Get("X-Debug-Client-ID")), 10, 64); err == nil {
		claims.ClientID = &cid
	}
	if vid, err := strconv.ParseInt(strings.TrimSpace(r.Header.Get("X-Debug-Vet-ID")), 10, 64); err == nil {
		claims.VetID = &vid
	}
	return claims, true
}

func bearerToken(authHeader string) string {
	if strings.TrimSpace(authHeader) == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
