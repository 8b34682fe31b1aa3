// Package authz holds the static role/action matrix gating every write.
// Authorization is decided here and nowhere else; handlers and services ask,
// they do not carry their own role conditionals.
package authz

import "strings"

// Action identifies an operation subject to the role matrix.
type Action string

const (
	ArticleCreate  Action = "article.create"
	ArticleUpdate  Action = "article.update"
	ArticlePublish Action = "article.publish"
	ArticleArchive Action = "article.archive"
	ArticleDelete  Action = "article.delete"
	ArticleRead    Action = "article.read"
	CommentCreate  Action = "comment.create"
	CategoryManage Action = "category.manage"
	MediaManage    Action = "media.manage"
	ActivityRead   Action = "activity.read"
	DonationCreate Action = "donation.create"
	DonationRead   Action = "donation.read"
	UserManage     Action = "user.manage"
)

// Known roles. RoleAnonymous is the empty role of an unauthenticated caller.
const (
	RoleAdmin     = "admin"
	RoleEditor    = "editor"
	RoleViewer    = "viewer"
	RoleAnonymous = ""
)

// rolePublic marks matrix entries open to everyone, anonymous included.
const rolePublic = "*"

// matrix is the complete policy. An action absent from the matrix is denied
// for every role: the gate fails closed, never open.
var matrix = map[Action][]string{
	ArticleCreate:  {RoleAdmin, RoleEditor},
	ArticleUpdate:  {RoleAdmin, RoleEditor},
	ArticlePublish: {RoleAdmin, RoleEditor},
	ArticleArchive: {RoleAdmin, RoleEditor},
	ArticleDelete:  {RoleAdmin},
	ArticleRead:    {rolePublic},
	CommentCreate:  {rolePublic},
	CategoryManage: {RoleAdmin, RoleEditor},
	MediaManage:    {RoleAdmin, RoleEditor},
	ActivityRead:   {RoleAdmin, RoleEditor, RoleViewer},
	DonationCreate: {rolePublic},
	DonationRead:   {RoleAdmin},
	UserManage:     {RoleAdmin},
}

// Allowed reports whether the role may perform the action. Unknown actions
// and unknown roles are denied.
func Allowed(role string, action Action) bool {
	allowed, ok := matrix[action]
	if !ok {
		return false
	}
	role = strings.TrimSpace(strings.ToLower(role))
	for _, r := range allowed {
		if r == rolePublic {
			return true
		}
		if role != RoleAnonymous && r == role {
			return true
		}
	}
	return false
}

// Actions returns every action the matrix declares a policy for.
func Actions() []Action {
	out := make([]Action, 0, len(matrix))
	for a := range matrix {
		out = append(out, a)
	}
	return out
}
