package model

import (
	"database/sql"
	"time"
)

// Post statuses
const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
	PostStatusArchived  = "archived"
)

// ValidPostStatus reports whether s is one of the known post statuses.
func ValidPostStatus(s string) bool {
	return s == PostStatusDraft || s == PostStatusPublished || s == PostStatusArchived
}

// Post represents a blog post.
//
// PublishedAt is a one-way latch: it is stamped the first time the post
// enters the published status and is never modified by later transitions.
type Post struct {
	ID          int64         `db:"id" json:"id"`
	Title       string        `db:"title" json:"title"`
	Slug        string        `db:"slug" json:"slug"`
	Body        string        `db:"body" json:"body"`
	Status      string        `db:"status" json:"status"`
	PublishedAt sql.NullTime  `db:"published_at" json:"published_at,omitempty"`
	AuthorID    int64         `db:"author_id" json:"author_id"`
	CategoryID  sql.NullInt64 `db:"category_id" json:"category_id,omitempty"`
	ViewCount   int64         `db:"view_count" json:"view_count"`
	LikeCount   int64         `db:"like_count" json:"like_count"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at"`
}

// IsPublished returns true if the post is published.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

// IsDraft returns true if the post is a draft.
func (p *Post) IsDraft() bool {
	return p.Status == PostStatusDraft
}
