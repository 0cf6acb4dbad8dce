package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

type contextKey string

const contextClaimsKey contextKey = "claims"

// AuthClaims is the verified token identity injected into the request
// context by RequireAuth.
type AuthClaims struct {
	UserID string
	Email  string
}

func claimsFromContext(ctx context.Context) (AuthClaims, error) {
	claims, ok := ctx.Value(contextClaimsKey).(AuthClaims)
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		return AuthClaims{}, errors.New("missing auth claims")
	}
	return claims, nil
}

// MessageResponse is the uniform body for errors and acknowledgements.
type MessageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, MessageResponse{Message: message})
}
