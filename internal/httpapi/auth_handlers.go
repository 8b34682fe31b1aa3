package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"newsdesk.org/internal/activity"
	"newsdesk.org/internal/auth"
	"newsdesk.org/internal/obs"
)

const tokenTTL = time.Hour

// handleLogin exchanges email/password for a bearer token. Failures are a
// uniform 401 so the endpoint does not reveal which accounts exist.
func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, r, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := a.users.FindUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, auth.ErrIdentityNotFound) {
			writeError(w, r, http.StatusUnauthorized, "invalid credentials")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "authentication error")
		return
	}
	if !user.Active {
		writeError(w, r, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err := auth.VerifyPassword(user.PasswordHash, req.Password); err != nil {
		writeError(w, r, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Role, tokenTTL)
	if err != nil {
		obs.LogError("httpapi", "issue token", err)
		writeError(w, r, http.StatusInternalServerError, "authentication error")
		return
	}

	a.recordLogin(r.Context(), user)

	writeJSON(w, http.StatusOK, map[string]any{
		"token":      token,
		"token_type": "Bearer",
		"expires_at": time.Now().UTC().Add(tokenTTL).Format(time.RFC3339),
		"user": map[string]any{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

func (a *API) recordLogin(ctx context.Context, user auth.User) {
	if a.audit == nil {
		return
	}
	_ = a.audit.Record(ctx, activity.Entry{
		UserID:   user.ID,
		Action:   activity.ActionLogin,
		Entity:   "User",
		EntityID: user.ID,
		Details:  map[string]any{"email": user.Email},
	})
}
