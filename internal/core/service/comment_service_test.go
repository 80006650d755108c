package service

import (
	"context"
	"errors"
	"testing"

	"github.com/forka/forum-backend/internal/core/domain"
	"github.com/forka/forum-backend/internal/core/ports"
	"github.com/forka/forum-backend/pkg/logger"
)

type commentFixture struct {
	svc      ports.CommentService
	comments *fakeCommentRepo
	posts    *fakePostRepo
	notifier *recordingNotifier
	post     *domain.Post
}

func newCommentFixture(t *testing.T) *commentFixture {
	t.Helper()
	logger.Init(logger.Options{Level: "error"})

	f := &commentFixture{
		comments: newFakeCommentRepo(),
		posts:    newFakePostRepo(),
		notifier: &recordingNotifier{},
	}
	f.svc = NewCommentService(f.comments, f.posts, f.notifier, logger.Get())

	post, err := f.posts.Create(context.Background(), &domain.Post{
		Title:    "thread",
		AuthorID: author.ID,
	})
	if err != nil {
		t.Fatalf("seed post: %v", err)
	}
	f.post = post
	return f
}

func TestCommentCreate_NotifiesPostAuthor(t *testing.T) {
	f := newCommentFixture(t)

	comment, err := f.svc.Create(context.Background(), other, f.post.ID, ports.CreateCommentInput{
		Content: "<i>nice</i> post",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if comment.Content != "nice post" {
		t.Fatalf("content not sanitized: %q", comment.Content)
	}
	if comment.IsReply() {
		t.Fatal("top-level comment must not be a reply")
	}

	if len(f.notifier.events) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(f.notifier.events))
	}
	ev := f.notifier.events[0]
	if ev.Type != domain.NotifyComment || ev.RecipientID != author.ID || ev.PostTitle != "thread" {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestCommentCreate_ReplyNotifiesParentAuthor(t *testing.T) {
	f := newCommentFixture(t)

	parent, err := f.svc.Create(context.Background(), other, f.post.ID, ports.CreateCommentInput{Content: "first"})
	if err != nil {
		t.Fatalf("parent: %v", err)
	}
	f.notifier.events = nil

	reply, err := f.svc.Create(context.Background(), mod, f.post.ID, ports.CreateCommentInput{
		Content:  "agreed",
		ParentID: parent.ID,
	})
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	if !reply.IsReply() {
		t.Fatal("reply must carry its parent id")
	}

	if len(f.notifier.events) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(f.notifier.events))
	}
	ev := f.notifier.events[0]
	if ev.Type != domain.NotifyReply || ev.RecipientID != other.ID {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestCommentCreate_ParentMustBelongToPost(t *testing.T) {
	f := newCommentFixture(t)
	stray, err := f.comments.Create(context.Background(), &domain.Comment{PostID: "another-post", AuthorID: other.ID})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, err = f.svc.Create(context.Background(), other, f.post.ID, ports.CreateCommentInput{
		Content:  "cross-post reply",
		ParentID: stray.ID,
	})
	if !errors.Is(err, domain.ErrCommentNotFound) {
		t.Fatalf("expected ErrCommentNotFound, got %v", err)
	}
}

func TestCommentCreate_ClosedPostRejected(t *testing.T) {
	f := newCommentFixture(t)
	f.posts.posts[f.post.ID].IsClosed = true

	_, err := f.svc.Create(context.Background(), other, f.post.ID, ports.CreateCommentInput{Content: "late"})
	if !errors.Is(err, domain.ErrPostClosed) {
		t.Fatalf("expected ErrPostClosed, got %v", err)
	}
}

func TestCommentUpdateDelete_PolicyGates(t *testing.T) {
	f := newCommentFixture(t)
	comment, err := f.svc.Create(context.Background(), other, f.post.ID, ports.CreateCommentInput{Content: "mine"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := f.svc.Update(context.Background(), author, comment.ID, "hijacked"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("non-owner edit should be forbidden, got %v", err)
	}
	updated, err := f.svc.Update(context.Background(), other, comment.ID, "edited")
	if err != nil {
		t.Fatalf("owner edit: %v", err)
	}
	if updated.Content != "edited" {
		t.Fatalf("content not updated: %q", updated.Content)
	}

	if err := f.svc.Delete(context.Background(), author, comment.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("non-owner delete should be forbidden, got %v", err)
	}
	if err := f.svc.Delete(context.Background(), mod, comment.ID); err != nil {
		t.Fatalf("moderator delete: %v", err)
	}
	if _, err := f.comments.FindByID(context.Background(), comment.ID); !errors.Is(err, domain.ErrCommentNotFound) {
		t.Fatal("comment should be gone")
	}
}

func TestCommentToggleLike(t *testing.T) {
	f := newCommentFixture(t)
	comment, err := f.svc.Create(context.Background(), other, f.post.ID, ports.CreateCommentInput{Content: "likeable"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	f.notifier.events = nil

	liked, err := f.svc.ToggleLike(context.Background(), author, comment.ID)
	if err != nil {
		t.Fatalf("like: %v", err)
	}
	if liked.LikesCount() != 1 {
		t.Fatalf("expected 1 like, got %d", liked.LikesCount())
	}
	if len(f.notifier.events) != 1 || f.notifier.events[0].Type != domain.NotifyLikeComment {
		t.Fatalf("unexpected events: %+v", f.notifier.events)
	}

	unliked, err := f.svc.ToggleLike(context.Background(), author, comment.ID)
	if err != nil {
		t.Fatalf("unlike: %v", err)
	}
	if unliked.LikesCount() != 0 {
		t.Fatalf("expected 0 likes, got %d", unliked.LikesCount())
	}
	if len(f.notifier.events) != 1 {
		t.Fatal("unlike must not notify")
	}
}

func TestCommentListByPost_UnknownPost(t *testing.T) {
	f := newCommentFixture(t)

	if _, err := f.svc.ListByPost(context.Background(), "missing"); !errors.Is(err, domain.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}
