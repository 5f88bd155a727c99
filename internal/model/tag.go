package model

import "time"

// Tag represents a post tag. Name and slug are each globally unique.
type Tag struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Slug      string    `db:"slug" json:"slug"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// PostTag is a row in the post-tag junction table.
// The (PostID, TagID) pair is unique.
type PostTag struct {
	ID     int64 `db:"id" json:"id"`
	PostID int64 `db:"post_id" json:"post_id"`
	TagID  int64 `db:"tag_id" json:"tag_id"`
}
