package httpapi

import (
	"net/http"

	"newsdesk.org/internal/activity"
)

// listActivityLogs returns one page of the audit trail, newest first. The
// service enforces the activity.read policy; out-of-range paging input is
// normalized, never an error.
func (a *API) listActivityLogs(w http.ResponseWriter, r *http.Request) {
	result, err := a.activity.List(r.Context(), principalFrom(r), activity.ListRequest{
		Page:   queryInt(r, "page"),
		Limit:  queryInt(r, "limit"),
		UserID: r.URL.Query().Get("user_id"),
		Entity: r.URL.Query().Get("entity"),
		Action: r.URL.Query().Get("action"),
	})
	if err != nil {
		a.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
