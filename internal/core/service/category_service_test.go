package service

import (
	"context"
	"errors"
	"testing"

	"github.com/forka/forum-backend/internal/core/domain"
	"github.com/forka/forum-backend/internal/core/ports"
	"github.com/forka/forum-backend/pkg/logger"
)

type categoryFixture struct {
	svc   ports.CategoryService
	cats  *fakeCategoryRepo
	posts *fakePostRepo
}

func newCategoryFixture(t *testing.T) *categoryFixture {
	t.Helper()
	logger.Init(logger.Options{Level: "error"})

	f := &categoryFixture{
		cats:  newFakeCategoryRepo(),
		posts: newFakePostRepo(),
	}
	f.svc = NewCategoryService(f.cats, f.posts, logger.Get())
	return f
}

func TestCategoryCreate_AdminOnly(t *testing.T) {
	f := newCategoryFixture(t)

	for _, actor := range []ports.Actor{author, mod} {
		if _, err := f.svc.Create(context.Background(), actor, ports.CategoryInput{Name: "General"}); !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("%s should be forbidden, got %v", actor.Role, err)
		}
	}

	cat, err := f.svc.Create(context.Background(), admin, ports.CategoryInput{Name: "Exam Help"})
	if err != nil {
		t.Fatalf("admin create: %v", err)
	}
	if cat.Slug != "exam-help" {
		t.Fatalf("unexpected slug: %q", cat.Slug)
	}
	if cat.Color != defaultCategoryColor {
		t.Fatalf("expected default color, got %q", cat.Color)
	}

	if _, err := f.svc.Create(context.Background(), admin, ports.CategoryInput{Name: "Exam Help"}); !errors.Is(err, domain.ErrCategoryExists) {
		t.Fatalf("expected ErrCategoryExists, got %v", err)
	}
}

func TestCategoryGet_ByIDOrSlug(t *testing.T) {
	f := newCategoryFixture(t)
	cat, err := f.svc.Create(context.Background(), admin, ports.CategoryInput{Name: "Campus Life"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	byID, err := f.svc.Get(context.Background(), cat.ID)
	if err != nil || byID.Name != "Campus Life" {
		t.Fatalf("get by id: %v", err)
	}
	bySlug, err := f.svc.Get(context.Background(), "campus-life")
	if err != nil || bySlug.ID != cat.ID {
		t.Fatalf("get by slug: %v", err)
	}
	if _, err := f.svc.Get(context.Background(), "nope"); !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestCategoryUpdate_RenamesAndReslugs(t *testing.T) {
	f := newCategoryFixture(t)
	cat, err := f.svc.Create(context.Background(), admin, ports.CategoryInput{Name: "Old Name", Description: "keep me"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := f.svc.Update(context.Background(), admin, cat.ID, ports.CategoryInput{Name: "New Name", Color: "#FF0000"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "New Name" || updated.Slug != "new-name" {
		t.Fatalf("rename not applied: %+v", updated)
	}
	if updated.Description != "keep me" {
		t.Fatal("untouched fields must survive a partial update")
	}
	if updated.Color != "#FF0000" {
		t.Fatalf("color not applied: %q", updated.Color)
	}

	if _, err := f.svc.Update(context.Background(), mod, cat.ID, ports.CategoryInput{Name: "x"}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("moderator update should be forbidden, got %v", err)
	}
}

func TestCategoryDelete_DetachesPosts(t *testing.T) {
	f := newCategoryFixture(t)
	cat, err := f.svc.Create(context.Background(), admin, ports.CategoryInput{Name: "Doomed"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	post, err := f.posts.Create(context.Background(), &domain.Post{Title: "survivor", CategoryID: cat.ID})
	if err != nil {
		t.Fatalf("seed post: %v", err)
	}

	if err := f.svc.Delete(context.Background(), admin, cat.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.svc.Get(context.Background(), cat.ID); !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Fatal("category should be gone")
	}
	if got := f.posts.posts[post.ID].CategoryID; got != "" {
		t.Fatalf("post must be detached from the deleted category, still has %q", got)
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Hello World":      "hello-world",
		"  Exam   Help  ":  "exam-help",
		"C++ & Go!":        "c-go",
		"---":              "",
		"MixedCASE123":     "mixedcase123",
		"tabs\tand\nlines": "tabs-and-lines",
	}
	for in, want := range cases {
		if got := slugify(in); got != want {
			t.Errorf("slugify(%q) = %q, want %q", in, got, want)
		}
	}
}
