package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const (
	RequestIDKey ContextKey = iota + 100
)

// RequestIDHeader é o header usado para propagar o identificador da requisição.
const RequestIDHeader = "X-Request-ID"

// RequestID atribui um identificador único a cada requisição (ou reaproveita o
// enviado pelo cliente) e o devolve no header de resposta. O ID fica disponível
// no contexto para correlação nos logs.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}

		w.Header().Set(RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), RequestIDKey, id)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestIDFromContext extrai o identificador da requisição do contexto.
func GetRequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(RequestIDKey).(string)
	return id, ok
}
