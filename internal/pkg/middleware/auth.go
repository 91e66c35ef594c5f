package middleware

import (
	"context"
	"net/http"

	apperror "invfisico/internal/errors"
	"invfisico/internal/pkg/token"
)

// ContextKey é um tipo próprio para chaves de contexto, evitando colisão com
// chaves string de outros pacotes.
type ContextKey int

const (
	EmployeeClaimsKey ContextKey = iota
)

// EmployeeClaims representa os dados do empregado extraídos do token JWT,
// anexados ao contexto da requisição.
type EmployeeClaims struct {
	EmpID     string
	EmpNombre string
}

// TokenService define o contrato de validação necessário para o middleware.
type TokenService interface {
	ValidateToken(tokenString string) (*token.CustomClaims, error)
}

// NewAuthMiddleware cria uma função de middleware que valida um JWT e anexa as
// claims do empregado ao contexto da requisição. Protege as rotas de escrita
// (inserção de capturas e escaneos de auditoria).
func NewAuthMiddleware(tokenSvc TokenService) func(next http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {

			// 1. Extrair o Token do Header Authorization: Bearer <token>
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || len(authHeader) < 7 || authHeader[:7] != "Bearer " {
				http.Error(w, apperror.NewUnauthorizedError("Token de autorização ausente ou malformado.").Error(), http.StatusUnauthorized)
				return
			}

			tokenString := authHeader[7:]

			// 2. Validar o Token
			claims, err := tokenSvc.ValidateToken(tokenString)
			if err != nil {
				http.Error(w, apperror.NewUnauthorizedError("Token inválido ou expirado.").Error(), http.StatusUnauthorized)
				return
			}

			// 3. Anexar Claims ao Contexto
			empClaims := EmployeeClaims{
				EmpID:     claims.EmpID,
				EmpNombre: claims.EmpNombre,
			}

			ctx := context.WithValue(r.Context(), EmployeeClaimsKey, empClaims)

			next.ServeHTTP(w, r.WithContext(ctx))
		}
	}
}

// GetEmployeeClaimsFromContext é uma função utilitária para extrair as claims no handler.
func GetEmployeeClaimsFromContext(ctx context.Context) (EmployeeClaims, bool) {
	claims, ok := ctx.Value(EmployeeClaimsKey).(EmployeeClaims)
	return claims, ok
}
