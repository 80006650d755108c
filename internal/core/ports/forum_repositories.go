package ports

import (
	"context"

	"github.com/forka/forum-backend/internal/core/domain"
)

// ListPostsFilter carries query parameters for listing posts. Results are
// ordered pinned-first, then newest-first.
type ListPostsFilter struct {
	CategoryID string // optional: filter by category
	AuthorID   string // optional: filter by author
	Search     string // optional: partial match on title
	Limit      int64  // capped at 100 by the service
	Offset     int64
}

// CategoryRepository persists post categories.
type CategoryRepository interface {
	// Create returns domain.ErrCategoryExists on a name/slug collision.
	Create(ctx context.Context, c *domain.Category) (*domain.Category, error)
	FindByID(ctx context.Context, id string) (*domain.Category, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	Update(ctx context.Context, c *domain.Category) error
	Delete(ctx context.Context, id string) error
}

// PostRepository persists forum posts.
type PostRepository interface {
	Create(ctx context.Context, p *domain.Post) (*domain.Post, error)
	FindByID(ctx context.Context, id string) (*domain.Post, error)
	List(ctx context.Context, filter ListPostsFilter) ([]*domain.Post, int64, error)
	Update(ctx context.Context, p *domain.Post) error
	Delete(ctx context.Context, id string) error

	// IncrementViews bumps views_count without touching updated_at.
	IncrementViews(ctx context.Context, id string) error

	// SetLike adds or removes userID from the like set and returns the
	// updated post.
	SetLike(ctx context.Context, postID, userID string, liked bool) (*domain.Post, error)

	// ClearCategory detaches all posts from a deleted category.
	ClearCategory(ctx context.Context, categoryID string) error
}

// CommentRepository persists post comments.
type CommentRepository interface {
	Create(ctx context.Context, c *domain.Comment) (*domain.Comment, error)
	FindByID(ctx context.Context, id string) (*domain.Comment, error)
	// ListByPost returns the post's comments oldest-first (threading is
	// reassembled client-side from parent_id).
	ListByPost(ctx context.Context, postID string) ([]*domain.Comment, error)
	Update(ctx context.Context, c *domain.Comment) error
	Delete(ctx context.Context, id string) error
	DeleteByPost(ctx context.Context, postID string) error
	SetLike(ctx context.Context, commentID, userID string, liked bool) (*domain.Comment, error)
}

// NotificationRepository persists per-user notifications.
type NotificationRepository interface {
	Insert(ctx context.Context, n *domain.Notification) error
	// ListByRecipient returns notifications newest-first plus the unread count.
	ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, limit, offset int64) ([]*domain.Notification, int64, error)
	// MarkRead flips is_read for one notification owned by recipientID.
	MarkRead(ctx context.Context, id, recipientID string) error
	MarkAllRead(ctx context.Context, recipientID string) error
}
