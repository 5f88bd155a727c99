package model

import (
	"database/sql"
	"time"
)

// Comment represents a threaded comment on a post.
//
// ParentID, when valid, references another comment on the same post.
// Comments are always created unapproved and flip to approved only through
// an explicit approval action.
type Comment struct {
	ID          int64         `db:"id" json:"id"`
	PostID      int64         `db:"post_id" json:"post_id"`
	ParentID    sql.NullInt64 `db:"parent_id" json:"parent_id,omitempty"`
	AuthorName  string        `db:"author_name" json:"author_name"`
	AuthorEmail string        `db:"author_email" json:"author_email,omitempty"`
	Content     string        `db:"content" json:"content"`
	IsApproved  bool          `db:"is_approved" json:"is_approved"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at"`
}

// IsReply returns true if the comment is a reply to another comment.
func (c *Comment) IsReply() bool {
	return c.ParentID.Valid
}
