package content

import (
	"bytes"
	"context"
	"errors"
	"log"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"newsdesk.org/internal/activity"
	"newsdesk.org/internal/auth"
)

var (
	admin  = auth.Principal{ID: "u-admin", Name: "Root", Role: "admin"}
	editor = auth.Principal{ID: "u-editor", Name: "Ed", Role: "editor"}
	viewer = auth.Principal{ID: "u-viewer", Name: "Vi", Role: "viewer"}
)

// memStore is an in-memory Store for exercising the lifecycle manager.
type memStore struct {
	articles   map[string]Article
	comments   map[string][]Comment
	categories map[string]Category
}

func newMemStore() *memStore {
	return &memStore{
		articles:   map[string]Article{},
		comments:   map[string][]Comment{},
		categories: map[string]Category{},
	}
}

func (m *memStore) CreateArticle(_ context.Context, a Article) (Article, error) {
	m.articles[a.ID] = a
	return a, nil
}

func (m *memStore) GetArticleByID(_ context.Context, id string) (Article, error) {
	a, ok := m.articles[id]
	if !ok {
		return Article{}, ErrNotFound
	}
	return a, nil
}

func (m *memStore) GetArticleBySlug(_ context.Context, slug string) (Article, error) {
	for _, a := range m.articles {
		if a.Slug == slug {
			return a, nil
		}
	}
	return Article{}, ErrNotFound
}

func (m *memStore) UpdateArticle(_ context.Context, a Article, expectedVersion int64) (Article, error) {
	current, ok := m.articles[a.ID]
	if !ok {
		return Article{}, ErrNotFound
	}
	if current.Version != expectedVersion {
		return Article{}, ErrConflict
	}
	a.Version = expectedVersion + 1
	m.articles[a.ID] = a
	return a, nil
}

func (m *memStore) DeleteArticle(_ context.Context, id string) error {
	if _, ok := m.articles[id]; !ok {
		return ErrNotFound
	}
	delete(m.articles, id)
	return nil
}

func (m *memStore) ListArticles(_ context.Context, f ListFilter) ([]Article, int64, error) {
	var out []Article
	for _, a := range m.articles {
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (m *memStore) SlugTaken(_ context.Context, slug string) (bool, error) {
	for _, a := range m.articles {
		if a.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) CreateComment(_ context.Context, c Comment) (Comment, error) {
	m.comments[c.ArticleID] = append(m.comments[c.ArticleID], c)
	return c, nil
}

func (m *memStore) ListComments(_ context.Context, articleID string) ([]Comment, error) {
	return m.comments[articleID], nil
}

func (m *memStore) CreateCategory(_ context.Context, c Category) (Category, error) {
	m.categories[c.ID] = c
	return c, nil
}

func (m *memStore) GetCategory(_ context.Context, id string) (Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return Category{}, ErrNotFound
	}
	return c, nil
}

func (m *memStore) UpdateCategory(_ context.Context, c Category) (Category, error) {
	m.categories[c.ID] = c
	return c, nil
}

func (m *memStore) DeleteCategory(_ context.Context, id string) error {
	delete(m.categories, id)
	return nil
}

func (m *memStore) ListCategories(_ context.Context) ([]Category, error) {
	out := make([]Category, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, c)
	}
	return out, nil
}

// capturingRecorder collects entries the service emits.
type capturingRecorder struct {
	entries []activity.Entry
}

func (r *capturingRecorder) Record(_ context.Context, e activity.Entry) error {
	r.entries = append(r.entries, e)
	return nil
}

func newTestService(t *testing.T, opts ...Option) (*Service, *memStore, *capturingRecorder) {
	t.Helper()
	store := newMemStore()
	rec := &capturingRecorder{}
	svc, err := NewService(store, rec, opts...)
	require.NoError(t, err)
	return svc, store, rec
}

func requireConsistent(t *testing.T, a Article) {
	t.Helper()
	require.Equal(t, a.Status == StatusPublished, a.Published(),
		"published must mirror status after every lifecycle operation")
}

func TestCreateStartsAsDraft(t *testing.T) {
	svc, store, rec := newTestService(t)

	a, err := svc.Create(context.Background(), editor, CreateInput{Title: "Breaking News", Content: "body"})
	require.NoError(t, err)
	require.Equal(t, StatusDraft, a.Status)
	require.False(t, a.Published())
	require.Equal(t, "breaking-news", a.Slug)
	require.Equal(t, int64(1), a.Version)
	require.Equal(t, editor.ID, a.AuthorID)
	requireConsistent(t, a)

	require.Len(t, store.articles, 1)
	require.Len(t, rec.entries, 1)
	require.Equal(t, activity.ActionCreate, rec.entries[0].Action)
	require.Equal(t, "Article", rec.entries[0].Entity)
	require.Equal(t, a.ID, rec.entries[0].EntityID)
	require.Equal(t, editor.ID, rec.entries[0].UserID)
}

func TestCreateDeniedForViewer(t *testing.T) {
	svc, store, rec := newTestService(t)

	_, err := svc.Create(context.Background(), viewer, CreateInput{Title: "Nope"})
	require.ErrorIs(t, err, ErrForbidden)
	require.Empty(t, store.articles, "denied create must not mutate storage")
	require.Empty(t, rec.entries, "denied create must not be audit-logged")
}

func TestCreateRequiresTitle(t *testing.T) {
	svc, store, rec := newTestService(t)

	_, err := svc.Create(context.Background(), admin, CreateInput{Title: "   "})
	require.ErrorIs(t, err, ErrValidation)
	require.Empty(t, store.articles)
	require.Empty(t, rec.entries)
}

func TestCreateSuffixesTakenSlug(t *testing.T) {
	svc, _, _ := newTestService(t)

	first, err := svc.Create(context.Background(), editor, CreateInput{Title: "Same Title"})
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), editor, CreateInput{Title: "Same Title"})
	require.NoError(t, err)

	require.Equal(t, "same-title", first.Slug)
	require.Equal(t, "same-title-2", second.Slug)
}

func TestPublishDraft(t *testing.T) {
	svc, _, rec := newTestService(t)

	a, err := svc.Create(context.Background(), editor, CreateInput{Title: "X", Content: "Y"})
	require.NoError(t, err)

	published, err := svc.Publish(context.Background(), editor, a.ID)
	require.NoError(t, err)
	require.Equal(t, StatusPublished, published.Status)
	require.True(t, published.Published())
	require.NotEmpty(t, published.Slug)
	require.NotNil(t, published.PublishedAt)
	require.True(t, published.UpdatedAt.After(a.UpdatedAt) || published.UpdatedAt.Equal(a.UpdatedAt))
	requireConsistent(t, published)

	require.Len(t, rec.entries, 2)
	last := rec.entries[1]
	require.Equal(t, activity.ActionPublish, last.Action)
	require.Equal(t, "Article", last.Entity)
	require.Equal(t, a.ID, last.EntityID)
}

func TestPublishRequiresContent(t *testing.T) {
	svc, store, rec := newTestService(t)

	a, err := svc.Create(context.Background(), editor, CreateInput{Title: "No Body"})
	require.NoError(t, err)

	_, err = svc.Publish(context.Background(), editor, a.ID)
	require.ErrorIs(t, err, ErrValidation)
	require.Equal(t, StatusDraft, store.articles[a.ID].Status)
	require.Len(t, rec.entries, 1, "failed publish must not add an entry")
}

func TestPublishRejectsNonDraft(t *testing.T) {
	svc, _, _ := newTestService(t)

	a, err := svc.Create(context.Background(), editor, CreateInput{Title: "X", Content: "Y"})
	require.NoError(t, err)
	_, err = svc.Publish(context.Background(), editor, a.ID)
	require.NoError(t, err)

	_, err = svc.Publish(context.Background(), editor, a.ID)
	require.ErrorIs(t, err, ErrValidation)
}

func TestArchivePublished(t *testing.T) {
	svc, _, rec := newTestService(t)

	a, err := svc.Create(context.Background(), editor, CreateInput{Title: "X", Content: "Y"})
	require.NoError(t, err)
	_, err = svc.Publish(context.Background(), editor, a.ID)
	require.NoError(t, err)

	archived, err := svc.Archive(context.Background(), editor, a.ID)
	require.NoError(t, err)
	require.Equal(t, StatusArchived, archived.Status)
	require.False(t, archived.Published())
	require.Equal(t, a.Slug, archived.Slug, "archiving must not change the slug")
	requireConsistent(t, archived)
	require.Equal(t, activity.ActionArchive, rec.entries[len(rec.entries)-1].Action)
}

func TestDeleteAdminOnly(t *testing.T) {
	svc, store, rec := newTestService(t)

	a, err := svc.Create(context.Background(), editor, CreateInput{Title: "X", Content: "Y"})
	require.NoError(t, err)
	entriesBefore := len(rec.entries)

	err = svc.Delete(context.Background(), editor, a.ID)
	require.ErrorIs(t, err, ErrForbidden)
	require.Contains(t, store.articles, a.ID, "denied delete must leave the article")
	require.Len(t, rec.entries, entriesBefore, "denied delete must not be logged")

	err = svc.Delete(context.Background(), admin, a.ID)
	require.NoError(t, err)
	require.NotContains(t, store.articles, a.ID)

	last := rec.entries[len(rec.entries)-1]
	require.Equal(t, activity.ActionDelete, last.Action)
	snapshot, ok := last.Details["snapshot"].(map[string]any)
	require.True(t, ok, "delete entry must carry the pre-delete snapshot")
	require.Equal(t, a.ID, snapshot["id"])
	require.Equal(t, a.Title, snapshot["title"])
}

func TestUpdateStaleVersionConflicts(t *testing.T) {
	svc, _, _ := newTestService(t)

	a, err := svc.Create(context.Background(), editor, CreateInput{Title: "X", Content: "Y"})
	require.NoError(t, err)

	title := "First edit"
	_, err = svc.Update(context.Background(), editor, a.ID, UpdateInput{Title: &title, Version: a.Version})
	require.NoError(t, err)

	stale := "Second edit from a stale read"
	_, err = svc.Update(context.Background(), editor, a.ID, UpdateInput{Title: &stale, Version: a.Version})
	require.ErrorIs(t, err, ErrConflict)
}

func TestUpdateStatusKeepsConsistency(t *testing.T) {
	svc, _, rec := newTestService(t)

	a, err := svc.Create(context.Background(), editor, CreateInput{Title: "X", Content: "Y"})
	require.NoError(t, err)

	status := StatusPublished
	updated, err := svc.Update(context.Background(), editor, a.ID, UpdateInput{Status: &status, Version: a.Version})
	require.NoError(t, err)
	require.True(t, updated.Published())
	require.NotNil(t, updated.PublishedAt)
	requireConsistent(t, updated)

	status = StatusArchived
	archived, err := svc.Update(context.Background(), editor, updated.ID, UpdateInput{Status: &status, Version: updated.Version})
	require.NoError(t, err)
	require.False(t, archived.Published())
	requireConsistent(t, archived)

	last := rec.entries[len(rec.entries)-1]
	require.Equal(t, activity.ActionUpdate, last.Action)
	require.Equal(t, []string{"status"}, last.Details["changed"])
}

func TestUpdateSlugImmutableOncePublished(t *testing.T) {
	svc, _, _ := newTestService(t)

	a, err := svc.Create(context.Background(), editor, CreateInput{Title: "X", Content: "Y"})
	require.NoError(t, err)
	published, err := svc.Publish(context.Background(), editor, a.ID)
	require.NoError(t, err)

	slug := "new-slug"
	_, err = svc.Update(context.Background(), editor, published.ID, UpdateInput{Slug: &slug, Version: published.Version})
	require.ErrorIs(t, err, ErrValidation)
}

func TestUpdateNoChangesIsANoop(t *testing.T) {
	svc, _, rec := newTestService(t)

	a, err := svc.Create(context.Background(), editor, CreateInput{Title: "X", Content: "Y"})
	require.NoError(t, err)
	entries := len(rec.entries)

	got, err := svc.Update(context.Background(), editor, a.ID, UpdateInput{Version: a.Version})
	require.NoError(t, err)
	require.Equal(t, a.Version, got.Version)
	require.Len(t, rec.entries, entries, "a no-op update must not be logged")
}

func TestDraftsHiddenFromPublic(t *testing.T) {
	svc, _, _ := newTestService(t)

	a, err := svc.Create(context.Background(), editor, CreateInput{Title: "Secret Draft", Content: "Y"})
	require.NoError(t, err)

	_, err = svc.GetBySlug(context.Background(), auth.Principal{}, a.Slug)
	require.ErrorIs(t, err, ErrNotFound)

	got, err := svc.GetBySlug(context.Background(), editor, a.Slug)
	require.NoError(t, err)
	require.Equal(t, a.ID, got.ID)

	listed, total, err := svc.List(context.Background(), auth.Principal{}, ListFilter{})
	require.NoError(t, err)
	require.Empty(t, listed)
	require.Zero(t, total)
}

func TestAuditFailureDoesNotAbortMutation(t *testing.T) {
	store := newMemStore()
	failing := activity.NewRecorder(failingActivityStore{}, log.New(&bytes.Buffer{}, "", 0))
	svc, err := NewService(store, failing)
	require.NoError(t, err)

	a, err := svc.Create(context.Background(), editor, CreateInput{Title: "Still Created", Content: "Y"})
	require.NoError(t, err, "best-effort audit failure must not fail the write")
	require.Contains(t, store.articles, a.ID)
}

func TestDeniedAuditOption(t *testing.T) {
	svc, _, rec := newTestService(t, WithDeniedAudit())

	_, err := svc.Create(context.Background(), viewer, CreateInput{Title: "Nope"})
	require.ErrorIs(t, err, ErrForbidden)
	require.Len(t, rec.entries, 1)
	require.Equal(t, activity.ActionDenied, rec.entries[0].Action)
	require.Equal(t, "article.create", rec.entries[0].Details["attempted"])
}

func TestCommentsOnVisibleArticle(t *testing.T) {
	svc, _, rec := newTestService(t)

	a, err := svc.Create(context.Background(), editor, CreateInput{Title: "X", Content: "Y"})
	require.NoError(t, err)
	_, err = svc.Publish(context.Background(), editor, a.ID)
	require.NoError(t, err)
	entries := len(rec.entries)

	c, err := svc.CreateComment(context.Background(), auth.Principal{}, a.Slug, CommentInput{
		AuthorName: "Reader",
		Body:       "Nice piece",
	})
	require.NoError(t, err)
	require.Equal(t, a.ID, c.ArticleID)
	require.Len(t, rec.entries, entries, "public comments are not audited")

	comments, err := svc.ListComments(context.Background(), auth.Principal{}, a.Slug)
	require.NoError(t, err)
	require.Len(t, comments, 1)
}

func TestCommentOnDraftHiddenFromPublic(t *testing.T) {
	svc, _, _ := newTestService(t)

	a, err := svc.Create(context.Background(), editor, CreateInput{Title: "Draft", Content: "Y"})
	require.NoError(t, err)

	_, err = svc.CreateComment(context.Background(), auth.Principal{}, a.Slug, CommentInput{
		AuthorName: "Reader",
		Body:       "hello?",
	})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCategoryLifecycle(t *testing.T) {
	svc, store, rec := newTestService(t)

	c, err := svc.CreateCategory(context.Background(), editor, "World News")
	require.NoError(t, err)
	require.Equal(t, "world-news", c.Slug)

	_, err = svc.UpdateCategory(context.Background(), editor, c.ID, "Global News")
	require.NoError(t, err)

	err = svc.DeleteCategory(context.Background(), viewer, c.ID)
	require.ErrorIs(t, err, ErrForbidden)

	err = svc.DeleteCategory(context.Background(), admin, c.ID)
	require.NoError(t, err)
	require.Empty(t, store.categories)

	var actions []string
	for _, e := range rec.entries {
		require.Equal(t, "Category", e.Entity)
		actions = append(actions, e.Action)
	}
	require.Equal(t, []string{activity.ActionCreate, activity.ActionUpdate, activity.ActionDelete}, actions)
}

type failingActivityStore struct{}

func (failingActivityStore) InsertEntry(context.Context, activity.Entry) error {
	return errors.New("audit store down")
}

func (failingActivityStore) ListEntries(context.Context, activity.Query) ([]activity.Entry, int64, error) {
	return nil, 0, errors.New("audit store down")
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Breaking News":       "breaking-news",
		"  Hello,   World!  ": "hello-world",
		"C'est déjà l'été":    "c-est-d-j-l-t",
		"100% true":           "100-true",
		"---":                 "",
	}
	for input, want := range cases {
		require.Equal(t, want, Slugify(input), "Slugify(%q)", input)
	}
}
