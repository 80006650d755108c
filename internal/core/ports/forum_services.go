package ports

import (
	"context"

	"github.com/forka/forum-backend/internal/core/domain"
)

// Actor identifies the authenticated caller of a content operation. Handlers
// build it from the JWT claims injected by the auth middleware.
type Actor struct {
	ID   string
	Role domain.Role
}

// CreatePostInput carries sanitized fields for a new post.
type CreatePostInput struct {
	Title      string
	Content    string
	CategoryID string
}

// UpdatePostInput uses pointers so partial updates are distinguishable from
// zero values. IsPinned/IsClosed are role-gated regardless of ownership.
type UpdatePostInput struct {
	Title      *string
	Content    *string
	CategoryID *string
	IsPinned   *bool
	IsClosed   *bool
}

// PostService implements the post lifecycle with policy enforcement.
type PostService interface {
	Create(ctx context.Context, actor Actor, in CreatePostInput) (*domain.Post, error)
	// Get returns the post and increments its view counter.
	Get(ctx context.Context, id string) (*domain.Post, error)
	List(ctx context.Context, filter ListPostsFilter) ([]*domain.Post, int64, error)
	Update(ctx context.Context, actor Actor, id string, in UpdatePostInput) (*domain.Post, error)
	Delete(ctx context.Context, actor Actor, id string) error
	// ToggleLike likes the post, or unlikes it when the actor already liked it.
	ToggleLike(ctx context.Context, actor Actor, id string) (*domain.Post, error)
}

// CreateCommentInput carries sanitized fields for a new comment.
type CreateCommentInput struct {
	Content  string
	ParentID string // optional: reply to another comment on the same post
}

// CommentService implements the comment lifecycle with policy enforcement.
type CommentService interface {
	Create(ctx context.Context, actor Actor, postID string, in CreateCommentInput) (*domain.Comment, error)
	ListByPost(ctx context.Context, postID string) ([]*domain.Comment, error)
	Update(ctx context.Context, actor Actor, id, content string) (*domain.Comment, error)
	Delete(ctx context.Context, actor Actor, id string) error
	ToggleLike(ctx context.Context, actor Actor, id string) (*domain.Comment, error)
}

// CategoryInput carries fields for creating or updating a category.
type CategoryInput struct {
	Name        string
	Description string
	Icon        string
	Color       string
}

// CategoryService implements category management (admin only; enforced by
// the RBAC middleware, re-checked here against the policy).
type CategoryService interface {
	Create(ctx context.Context, actor Actor, in CategoryInput) (*domain.Category, error)
	Get(ctx context.Context, idOrSlug string) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	Update(ctx context.Context, actor Actor, id string, in CategoryInput) (*domain.Category, error)
	Delete(ctx context.Context, actor Actor, id string) error
}

// NotificationEvent describes forum activity that may produce a notification.
type NotificationEvent struct {
	RecipientID    string
	SenderID       string
	SenderUsername string
	Type           domain.NotificationType
	PostID         string
	CommentID      string
	PostTitle      string
}

// NotificationPublisher accepts events for asynchronous delivery. The
// in-process dispatcher shards by recipient so one user's notifications are
// written in order.
type NotificationPublisher interface {
	Publish(event NotificationEvent)
}

// NotificationService processes events into inbox entries and serves reads.
type NotificationService interface {
	Process(ctx context.Context, event NotificationEvent) error
	List(ctx context.Context, recipientID string, unreadOnly bool, limit, offset int64) ([]*domain.Notification, int64, error)
	MarkRead(ctx context.Context, recipientID, id string) error
	MarkAllRead(ctx context.Context, recipientID string) error
}
