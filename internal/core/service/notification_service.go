package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/forka/forum-backend/internal/core/domain"
	"github.com/forka/forum-backend/internal/core/ports"
)

type notificationService struct {
	repo  ports.NotificationRepository
	users ports.UserRepository
	log   zerolog.Logger
}

// NewNotificationService returns a NotificationService. Process is invoked
// by the dispatcher workers; the read methods serve the inbox endpoints.
func NewNotificationService(repo ports.NotificationRepository, users ports.UserRepository, log zerolog.Logger) ports.NotificationService {
	return &notificationService{repo: repo, users: users, log: log}
}

// Process turns a forum activity event into an inbox entry. Events where the
// actor is the recipient are dropped so users are never notified about their
// own activity.
func (s *notificationService) Process(ctx context.Context, event ports.NotificationEvent) error {
	if event.RecipientID == "" || event.RecipientID == event.SenderID {
		return nil
	}

	sender := event.SenderUsername
	if sender == "" {
		u, err := s.users.FindByID(ctx, event.SenderID)
		if err != nil {
			return fmt.Errorf("resolve notification sender: %w", err)
		}
		sender = u.Username
	}

	n := &domain.Notification{
		RecipientID: event.RecipientID,
		SenderID:    event.SenderID,
		Type:        event.Type,
		PostID:      event.PostID,
		CommentID:   event.CommentID,
		Message:     notificationMessage(event.Type, sender, event.PostTitle),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, n); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}

	s.log.Debug().
		Str("recipient_id", event.RecipientID).
		Str("type", string(event.Type)).
		Msg("notification created")
	return nil
}

func (s *notificationService) List(ctx context.Context, recipientID string, unreadOnly bool, limit, offset int64) ([]*domain.Notification, int64, error) {
	if limit <= 0 || limit > maxPageSize {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByRecipient(ctx, recipientID, unreadOnly, limit, offset)
}

func (s *notificationService) MarkRead(ctx context.Context, recipientID, id string) error {
	return s.repo.MarkRead(ctx, id, recipientID)
}

func (s *notificationService) MarkAllRead(ctx context.Context, recipientID string) error {
	return s.repo.MarkAllRead(ctx, recipientID)
}

func notificationMessage(t domain.NotificationType, sender, postTitle string) string {
	switch t {
	case domain.NotifyComment:
		return fmt.Sprintf("%s commented on your post %q", sender, postTitle)
	case domain.NotifyReply:
		return fmt.Sprintf("%s replied to your comment on %q", sender, postTitle)
	case domain.NotifyLikePost:
		return fmt.Sprintf("%s liked your post %q", sender, postTitle)
	case domain.NotifyLikeComment:
		return fmt.Sprintf("%s liked your comment", sender)
	default:
		return fmt.Sprintf("%s interacted with your content", sender)
	}
}
