package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/forka/forum-backend/internal/core/domain"
	"github.com/forka/forum-backend/internal/core/ports"
)

const defaultCategoryColor = "#3B82F6"

type categoryService struct {
	categories ports.CategoryRepository
	posts      ports.PostRepository
	log        zerolog.Logger
}

// NewCategoryService returns a CategoryService. Mutations are admin-only;
// the RBAC middleware gates the routes and the service re-checks the policy.
func NewCategoryService(categories ports.CategoryRepository, posts ports.PostRepository, log zerolog.Logger) ports.CategoryService {
	return &categoryService{categories: categories, posts: posts, log: log}
}

func (s *categoryService) Create(ctx context.Context, actor ports.Actor, in ports.CategoryInput) (*domain.Category, error) {
	if !domain.Can(actor.Role, domain.ActionManageCategories, false) {
		return nil, domain.ErrForbidden
	}

	name := Sanitize(in.Name)
	color := Sanitize(in.Color)
	if color == "" {
		color = defaultCategoryColor
	}
	cat := &domain.Category{
		Name:        name,
		Slug:        slugify(name),
		Description: Sanitize(in.Description),
		Icon:        Sanitize(in.Icon),
		Color:       color,
		CreatedAt:   time.Now().UTC(),
	}

	created, err := s.categories.Create(ctx, cat)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("category", created.Name).Msg("category created")
	return created, nil
}

func (s *categoryService) Get(ctx context.Context, idOrSlug string) (*domain.Category, error) {
	cat, err := s.categories.FindByID(ctx, idOrSlug)
	if err == nil {
		return cat, nil
	}
	return s.categories.FindBySlug(ctx, idOrSlug)
}

func (s *categoryService) List(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.List(ctx)
}

func (s *categoryService) Update(ctx context.Context, actor ports.Actor, id string, in ports.CategoryInput) (*domain.Category, error) {
	if !domain.Can(actor.Role, domain.ActionManageCategories, false) {
		return nil, domain.ErrForbidden
	}

	cat, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if name := Sanitize(in.Name); name != "" && name != cat.Name {
		cat.Name = name
		cat.Slug = slugify(name)
	}
	if desc := Sanitize(in.Description); desc != "" {
		cat.Description = desc
	}
	if icon := Sanitize(in.Icon); icon != "" {
		cat.Icon = icon
	}
	if color := Sanitize(in.Color); color != "" {
		cat.Color = color
	}

	if err := s.categories.Update(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func (s *categoryService) Delete(ctx context.Context, actor ports.Actor, id string) error {
	if !domain.Can(actor.Role, domain.ActionManageCategories, false) {
		return domain.ErrForbidden
	}
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		return err
	}
	// Posts survive a category delete; they just lose the association.
	if err := s.posts.ClearCategory(ctx, id); err != nil {
		return err
	}
	return s.categories.Delete(ctx, id)
}

// slugify converts a name to a URL-safe slug.
func slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}
