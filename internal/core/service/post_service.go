package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/forka/forum-backend/internal/core/domain"
	"github.com/forka/forum-backend/internal/core/ports"
)

const maxPageSize = 100

type postService struct {
	posts      ports.PostRepository
	comments   ports.CommentRepository
	categories ports.CategoryRepository
	notifier   ports.NotificationPublisher
	log        zerolog.Logger
}

// NewPostService returns a PostService enforcing the authorization policy.
func NewPostService(
	posts ports.PostRepository,
	comments ports.CommentRepository,
	categories ports.CategoryRepository,
	notifier ports.NotificationPublisher,
	log zerolog.Logger,
) ports.PostService {
	return &postService{posts: posts, comments: comments, categories: categories, notifier: notifier, log: log}
}

func (s *postService) Create(ctx context.Context, actor ports.Actor, in ports.CreatePostInput) (*domain.Post, error) {
	if !domain.Can(actor.Role, domain.ActionCreateContent, false) {
		return nil, domain.ErrForbidden
	}

	if in.CategoryID != "" {
		if _, err := s.categories.FindByID(ctx, in.CategoryID); err != nil {
			return nil, err
		}
	}

	title := Sanitize(in.Title)
	now := time.Now().UTC()
	post := &domain.Post{
		Title:      title,
		Slug:       slugWithSuffix(title),
		Content:    Sanitize(in.Content),
		AuthorID:   actor.ID,
		CategoryID: in.CategoryID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	created, err := s.posts.Create(ctx, post)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("post_id", created.ID).Str("author_id", actor.ID).Msg("post created")
	return created, nil
}

func (s *postService) Get(ctx context.Context, id string) (*domain.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.posts.IncrementViews(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("post_id", id).Msg("view counter update failed")
	} else {
		post.ViewsCount++
	}
	return post, nil
}

func (s *postService) List(ctx context.Context, filter ports.ListPostsFilter) ([]*domain.Post, int64, error) {
	if filter.Limit <= 0 || filter.Limit > maxPageSize {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.posts.List(ctx, filter)
}

func (s *postService) Update(ctx context.Context, actor ports.Actor, id string, in ports.UpdatePostInput) (*domain.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	owner := post.AuthorID == actor.ID

	// Pin/close are role-gated fields: ownership never grants them.
	if in.IsPinned != nil && !domain.Can(actor.Role, domain.ActionPinPost, owner) {
		return nil, domain.ErrForbidden
	}
	if in.IsClosed != nil && !domain.Can(actor.Role, domain.ActionClosePost, owner) {
		return nil, domain.ErrForbidden
	}
	contentEdit := in.Title != nil || in.Content != nil || in.CategoryID != nil
	if contentEdit && !domain.Can(actor.Role, domain.ActionEditContent, owner) {
		return nil, domain.ErrForbidden
	}

	if in.Title != nil {
		post.Title = Sanitize(*in.Title)
	}
	if in.Content != nil {
		post.Content = Sanitize(*in.Content)
	}
	if in.CategoryID != nil {
		if *in.CategoryID != "" {
			if _, err := s.categories.FindByID(ctx, *in.CategoryID); err != nil {
				return nil, err
			}
		}
		post.CategoryID = *in.CategoryID
	}
	if in.IsPinned != nil {
		post.IsPinned = *in.IsPinned
	}
	if in.IsClosed != nil {
		post.IsClosed = *in.IsClosed
	}
	post.UpdatedAt = time.Now().UTC()

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *postService) Delete(ctx context.Context, actor ports.Actor, id string) error {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !domain.Can(actor.Role, domain.ActionDeleteContent, post.AuthorID == actor.ID) {
		return domain.ErrForbidden
	}
	if err := s.comments.DeleteByPost(ctx, id); err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("post_id", id).Str("actor_id", actor.ID).Msg("post deleted")
	return nil
}

func (s *postService) ToggleLike(ctx context.Context, actor ports.Actor, id string) (*domain.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	liked := containsID(post.Likes, actor.ID)
	updated, err := s.posts.SetLike(ctx, id, actor.ID, !liked)
	if err != nil {
		return nil, err
	}

	if !liked && post.AuthorID != actor.ID {
		s.notifier.Publish(ports.NotificationEvent{
			RecipientID: post.AuthorID,
			SenderID:    actor.ID,
			Type:        domain.NotifyLikePost,
			PostID:      post.ID,
			PostTitle:   post.Title,
		})
	}
	return updated, nil
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// slugWithSuffix derives a URL slug from the title plus a short random
// suffix so two posts with the same title never collide.
func slugWithSuffix(title string) string {
	slug := slugify(title)
	if slug == "" {
		slug = "post"
	}
	return fmt.Sprintf("%s-%s", slug, randomSuffix())
}

func randomSuffix() string {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("%06x", time.Now().UnixNano()&0xFFFFFF)
	}
	return hex.EncodeToString(buf)
}
