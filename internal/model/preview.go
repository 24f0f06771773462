package model

import "strconv"

const (
	PostStatusDraft   = "draft"
	PostStatusPublish = "publish"
)

// Preview identifies the post an editor asked to preview.
// It travels in a signed cookie between /api/preview and the post page.
type Preview struct {
	DatabaseID int    `json:"databaseId"`
	Slug       string `json:"slug"`
	Status     string `json:"status"`
}

// Matches reports whether the route parameter refers to the previewed post.
// Drafts have no stable slug yet and are addressed by database ID.
func (p *Preview) Matches(slugOrID string) bool {
	if p == nil {
		return false
	}
	if p.Slug != "" && p.Slug == slugOrID {
		return true
	}
	return p.DatabaseID != 0 && strconv.Itoa(p.DatabaseID) == slugOrID
}

func (p *Preview) IsDraft() bool {
	return p != nil && p.Status == PostStatusDraft
}

func (p *Preview) IsRevision() bool {
	return p != nil && p.Status == PostStatusPublish
}
