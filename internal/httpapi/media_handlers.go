package httpapi

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"newsdesk.org/internal/media"
)

func (a *API) createMedia(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FileName  string `json:"file_name"`
		URL       string `json:"url"`
		MimeType  string `json:"mime_type"`
		SizeBytes int64  `json:"size_bytes"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	m, err := a.media.Create(r.Context(), principalFrom(r), media.CreateInput{
		FileName:  req.FileName,
		URL:       req.URL,
		MimeType:  req.MimeType,
		SizeBytes: req.SizeBytes,
	})
	if err != nil {
		a.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (a *API) listMedia(w http.ResponseWriter, r *http.Request) {
	items, pagination, err := a.media.List(r.Context(), principalFrom(r),
		queryInt(r, "page"), queryInt(r, "limit"))
	if err != nil {
		a.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"media":      items,
		"pagination": pagination,
	})
}

func (a *API) deleteMedia(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := a.media.Delete(r.Context(), principalFrom(r), ps.ByName("id")); err != nil {
		a.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}
