package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"newsdesk.org/internal/activity"
	"newsdesk.org/internal/auth"
	"newsdesk.org/internal/content"
	"newsdesk.org/internal/donations"
	"newsdesk.org/internal/media"
	"newsdesk.org/internal/obs"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		obs.LogError("httpapi", "encode response", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error":      msg,
		"request_id": requestIDFrom(r.Context()),
	})
}

// decodeJSON rejects unknown fields and trailing garbage so client typos
// surface as 400s instead of silently dropped input.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

// writeDomainError maps service errors to status codes. Anonymous callers
// hitting a gated operation get 401 so clients know a token would help;
// authenticated but unauthorized callers get 403.
func (a *API) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, content.ErrValidation),
		errors.Is(err, donations.ErrValidation),
		errors.Is(err, media.ErrValidation),
		errors.Is(err, donations.ErrInvalidAmount):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, content.ErrForbidden),
		errors.Is(err, activity.ErrForbidden),
		errors.Is(err, media.ErrForbidden),
		errors.Is(err, donations.ErrForbidden):
		if _, ok := auth.PrincipalFromContext(r.Context()); !ok {
			w.Header().Set("WWW-Authenticate", `Bearer realm="newsdesk"`)
			writeError(w, r, http.StatusUnauthorized, "authentication required")
			return
		}
		writeError(w, r, http.StatusForbidden, "forbidden")
	case errors.Is(err, content.ErrNotFound),
		errors.Is(err, media.ErrNotFound),
		errors.Is(err, donations.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "not found")
	case errors.Is(err, content.ErrConflict):
		writeError(w, r, http.StatusConflict, err.Error())
	default:
		obs.LogError("httpapi", "unhandled error", err)
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

func queryInt(r *http.Request, key string) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0
	}
	var n int
	if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
		return 0
	}
	return n
}

func queryBoolPtr(r *http.Request, key string) *bool {
	switch r.URL.Query().Get(key) {
	case "true", "1":
		v := true
		return &v
	case "false", "0":
		v := false
		return &v
	}
	return nil
}
