package httpapi

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"newsdesk.org/internal/activity"
	"newsdesk.org/internal/auth"
	"newsdesk.org/internal/content"
)

func principalFrom(r *http.Request) auth.Principal {
	p, _ := auth.PrincipalFromContext(r.Context())
	return p
}

// articleID maps a path reference that may be a slug or an id to the article
// id. Unresolvable references pass through unchanged so the service decides
// between not-found and forbidden.
func (a *API) articleID(r *http.Request, ref string) string {
	if art, err := a.content.GetBySlug(r.Context(), principalFrom(r), ref); err == nil {
		return art.ID
	}
	return ref
}

func (a *API) listArticles(w http.ResponseWriter, r *http.Request) {
	f := content.ListFilter{
		Status:     content.Status(r.URL.Query().Get("status")),
		CategoryID: r.URL.Query().Get("category_id"),
		Language:   r.URL.Query().Get("language"),
		Featured:   queryBoolPtr(r, "featured"),
		Trending:   queryBoolPtr(r, "trending"),
		Breaking:   queryBoolPtr(r, "breaking"),
		Page:       queryInt(r, "page"),
		Limit:      queryInt(r, "limit"),
	}
	f.Page, f.Limit = activity.NormalizePage(f.Page, f.Limit)
	articles, total, err := a.content.List(r.Context(), principalFrom(r), f)
	if err != nil {
		a.writeDomainError(w, r, err)
		return
	}
	pages := 0
	if total > 0 {
		pages = int((total + int64(f.Limit) - 1) / int64(f.Limit))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"articles": articles,
		"pagination": map[string]any{
			"total": total,
			"page":  f.Page,
			"pages": pages,
		},
	})
}

func (a *API) getArticle(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor := principalFrom(r)
	ref := ps.ByName("slug")
	art, err := a.content.GetBySlug(r.Context(), actor, ref)
	if err != nil {
		art, err = a.content.GetByID(r.Context(), actor, ref)
	}
	if err != nil {
		a.writeDomainError(w, r, err)
		return
	}
	payload, err := articlePayload(art, r.URL.Query().Get("render") == "html")
	if err != nil {
		a.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (a *API) createArticle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title      string `json:"title"`
		Content    string `json:"content"`
		Language   string `json:"language"`
		CategoryID string `json:"category_id"`
		IsFeatured bool   `json:"is_featured"`
		IsTrending bool   `json:"is_trending"`
		IsBreaking bool   `json:"is_breaking"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	art, err := a.content.Create(r.Context(), principalFrom(r), content.CreateInput{
		Title:      req.Title,
		Content:    req.Content,
		Language:   req.Language,
		CategoryID: req.CategoryID,
		IsFeatured: req.IsFeatured,
		IsTrending: req.IsTrending,
		IsBreaking: req.IsBreaking,
	})
	if err != nil {
		a.writeDomainError(w, r, err)
		return
	}
	w.Header().Set("Location", "/v1/articles/"+art.Slug)
	writeJSON(w, http.StatusCreated, art)
}

func (a *API) updateArticle(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req struct {
		Title      *string         `json:"title"`
		Content    *string         `json:"content"`
		Language   *string         `json:"language"`
		Slug       *string         `json:"slug"`
		CategoryID *string         `json:"category_id"`
		Status     *content.Status `json:"status"`
		IsFeatured *bool           `json:"is_featured"`
		IsTrending *bool           `json:"is_trending"`
		IsBreaking *bool           `json:"is_breaking"`
		Version    int64           `json:"version"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	art, err := a.content.Update(r.Context(), principalFrom(r),
		a.articleID(r, ps.ByName("slug")), content.UpdateInput{
			Title:      req.Title,
			Content:    req.Content,
			Language:   req.Language,
			Slug:       req.Slug,
			CategoryID: req.CategoryID,
			Status:     req.Status,
			IsFeatured: req.IsFeatured,
			IsTrending: req.IsTrending,
			IsBreaking: req.IsBreaking,
			Version:    req.Version,
		})
	if err != nil {
		a.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, art)
}

func (a *API) publishArticle(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	art, err := a.content.Publish(r.Context(), principalFrom(r), a.articleID(r, ps.ByName("slug")))
	if err != nil {
		a.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, art)
}

func (a *API) archiveArticle(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	art, err := a.content.Archive(r.Context(), principalFrom(r), a.articleID(r, ps.ByName("slug")))
	if err != nil {
		a.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, art)
}

func (a *API) deleteArticle(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	err := a.content.Delete(r.Context(), principalFrom(r), a.articleID(r, ps.ByName("slug")))
	if err != nil {
		a.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

func (a *API) listComments(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	comments, err := a.content.ListComments(r.Context(), principalFrom(r), ps.ByName("slug"))
	if err != nil {
		a.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"comments": comments})
}

func (a *API) createComment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req struct {
		AuthorName  string `json:"author_name"`
		AuthorEmail string `json:"author_email"`
		Body        string `json:"body"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	c, err := a.content.CreateComment(r.Context(), principalFrom(r), ps.ByName("slug"), content.CommentInput{
		AuthorName:  req.AuthorName,
		AuthorEmail: req.AuthorEmail,
		Body:        req.Body,
	})
	if err != nil {
		a.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}
