package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/forka/forum-backend/internal/core/domain"
	"github.com/forka/forum-backend/internal/core/ports"
)

type commentService struct {
	comments ports.CommentRepository
	posts    ports.PostRepository
	notifier ports.NotificationPublisher
	log      zerolog.Logger
}

// NewCommentService returns a CommentService enforcing the authorization
// policy and the closed-post rule.
func NewCommentService(
	comments ports.CommentRepository,
	posts ports.PostRepository,
	notifier ports.NotificationPublisher,
	log zerolog.Logger,
) ports.CommentService {
	return &commentService{comments: comments, posts: posts, notifier: notifier, log: log}
}

func (s *commentService) Create(ctx context.Context, actor ports.Actor, postID string, in ports.CreateCommentInput) (*domain.Comment, error) {
	if !domain.Can(actor.Role, domain.ActionCreateContent, false) {
		return nil, domain.ErrForbidden
	}

	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.IsClosed {
		return nil, domain.ErrPostClosed
	}

	var parent *domain.Comment
	if in.ParentID != "" {
		parent, err = s.comments.FindByID(ctx, in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.PostID != postID {
			return nil, domain.ErrCommentNotFound
		}
	}

	now := time.Now().UTC()
	comment := &domain.Comment{
		PostID:    postID,
		AuthorID:  actor.ID,
		Content:   Sanitize(in.Content),
		ParentID:  in.ParentID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	created, err := s.comments.Create(ctx, comment)
	if err != nil {
		return nil, err
	}

	if parent != nil {
		s.notifier.Publish(ports.NotificationEvent{
			RecipientID: parent.AuthorID,
			SenderID:    actor.ID,
			Type:        domain.NotifyReply,
			PostID:      post.ID,
			CommentID:   created.ID,
			PostTitle:   post.Title,
		})
	} else {
		s.notifier.Publish(ports.NotificationEvent{
			RecipientID: post.AuthorID,
			SenderID:    actor.ID,
			Type:        domain.NotifyComment,
			PostID:      post.ID,
			CommentID:   created.ID,
			PostTitle:   post.Title,
		})
	}

	return created, nil
}

func (s *commentService) ListByPost(ctx context.Context, postID string) ([]*domain.Comment, error) {
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.comments.ListByPost(ctx, postID)
}

func (s *commentService) Update(ctx context.Context, actor ports.Actor, id, content string) (*domain.Comment, error) {
	comment, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.Can(actor.Role, domain.ActionEditContent, comment.AuthorID == actor.ID) {
		return nil, domain.ErrForbidden
	}

	comment.Content = Sanitize(content)
	comment.UpdatedAt = time.Now().UTC()
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *commentService) Delete(ctx context.Context, actor ports.Actor, id string) error {
	comment, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !domain.Can(actor.Role, domain.ActionDeleteContent, comment.AuthorID == actor.ID) {
		return domain.ErrForbidden
	}
	if err := s.comments.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("comment_id", id).Str("actor_id", actor.ID).Msg("comment deleted")
	return nil
}

func (s *commentService) ToggleLike(ctx context.Context, actor ports.Actor, id string) (*domain.Comment, error) {
	comment, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	liked := containsID(comment.Likes, actor.ID)
	updated, err := s.comments.SetLike(ctx, id, actor.ID, !liked)
	if err != nil {
		return nil, err
	}

	if !liked && comment.AuthorID != actor.ID {
		s.notifier.Publish(ports.NotificationEvent{
			RecipientID: comment.AuthorID,
			SenderID:    actor.ID,
			Type:        domain.NotifyLikeComment,
			PostID:      comment.PostID,
			CommentID:   comment.ID,
		})
	}
	return updated, nil
}
