package domain

import "time"

// Category groups posts. Managed by admins only.
type Category struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	Name        string    `json:"name" bson:"name"`
	Slug        string    `json:"slug" bson:"slug"`
	Description string    `json:"description" bson:"description"`
	Icon        string    `json:"icon,omitempty" bson:"icon,omitempty"`
	Color       string    `json:"color" bson:"color"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// Post is a forum thread. Likes holds the IDs of users who liked the post;
// counts are derived, never stored.
type Post struct {
	ID         string    `json:"id" bson:"_id,omitempty"`
	Title      string    `json:"title" bson:"title"`
	Slug       string    `json:"slug" bson:"slug"`
	Content    string    `json:"content" bson:"content"`
	AuthorID   string    `json:"author_id" bson:"author_id"`
	CategoryID string    `json:"category_id,omitempty" bson:"category_id,omitempty"`
	Likes      []string  `json:"-" bson:"likes,omitempty"`
	ViewsCount int64     `json:"views_count" bson:"views_count"`
	IsPinned   bool      `json:"is_pinned" bson:"is_pinned"`
	IsClosed   bool      `json:"is_closed" bson:"is_closed"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updated_at"`
}

// LikesCount returns the number of distinct users who liked the post.
func (p *Post) LikesCount() int { return len(p.Likes) }

// Comment is a reply on a post. ParentID is set when the comment replies to
// another comment (one level of threading, same as the original forum).
type Comment struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	PostID    string    `json:"post_id" bson:"post_id"`
	AuthorID  string    `json:"author_id" bson:"author_id"`
	Content   string    `json:"content" bson:"content"`
	ParentID  string    `json:"parent_id,omitempty" bson:"parent_id,omitempty"`
	Likes     []string  `json:"-" bson:"likes,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// LikesCount returns the number of distinct users who liked the comment.
func (c *Comment) LikesCount() int { return len(c.Likes) }

// IsReply reports whether the comment is nested under another comment.
func (c *Comment) IsReply() bool { return c.ParentID != "" }
