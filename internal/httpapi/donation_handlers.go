package httpapi

import (
	"net/http"

	"newsdesk.org/internal/donations"
)

func (a *API) createDonation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Amount  string `json:"amount"`
		Message string `json:"message"`
		Method  string `json:"method"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	d, err := a.donations.Create(r.Context(), principalFrom(r), donations.CreateInput{
		Name:    req.Name,
		Email:   req.Email,
		Amount:  req.Amount,
		Message: req.Message,
		Method:  req.Method,
	})
	if err != nil {
		a.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (a *API) listDonations(w http.ResponseWriter, r *http.Request) {
	items, pagination, err := a.donations.List(r.Context(), principalFrom(r),
		queryInt(r, "page"), queryInt(r, "limit"))
	if err != nil {
		a.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"donations":  items,
		"pagination": pagination,
	})
}
