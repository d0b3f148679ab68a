package models

import "time"

// Post is a blog entry. AuthorID and CreatedAt are fixed at creation; only
// the author may change the remaining fields or delete the post.
type Post struct {
	ID        string    `json:"id"`
	Category  string    `json:"category"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	AuthorID  string    `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// AuthorName is joined in for display; not a column of the posts table.
	AuthorName string `json:"author_name,omitempty"`
}
