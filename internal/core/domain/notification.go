package domain

import "time"

// NotificationType classifies what triggered a notification.
type NotificationType string

const (
	NotifyComment     NotificationType = "comment"
	NotifyReply       NotificationType = "reply"
	NotifyLikePost    NotificationType = "like_post"
	NotifyLikeComment NotificationType = "like_comment"
)

// Notification is a per-user inbox entry produced by forum activity.
// Self-notifications (sender == recipient) are never created.
type Notification struct {
	ID          string           `json:"id" bson:"_id,omitempty"`
	RecipientID string           `json:"recipient_id" bson:"recipient_id"`
	SenderID    string           `json:"sender_id" bson:"sender_id"`
	Type        NotificationType `json:"type" bson:"type"`
	PostID      string           `json:"post_id,omitempty" bson:"post_id,omitempty"`
	CommentID   string           `json:"comment_id,omitempty" bson:"comment_id,omitempty"`
	Message     string           `json:"message" bson:"message"`
	IsRead      bool             `json:"is_read" bson:"is_read"`
	CreatedAt   time.Time        `json:"created_at" bson:"created_at"`
}
