package middleware

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const accessTokenKey ctxKey = "access_token"

// AccessToken copia el Bearer token del header Authorization al contexto.
// No lo valida: es un token OAuth del usuario que sólo se reenvía al proveedor
// de calendario, y es ese proveedor quien lo acepta o rechaza.
// Sin token el request sigue igual; los handlers decidirán si exigirlo.
func AccessToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), accessTokenKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetAccessToken(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(accessTokenKey).(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
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
