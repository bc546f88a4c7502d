package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"cmsapi/internal/model"
	"cmsapi/internal/repository"
	"cmsapi/internal/slug"
)

// CategoryInput carries category fields. Nil pointers are left untouched on update.
type CategoryInput struct {
	Name        *string `json:"name"`
	Parent      *string `json:"parent"`
	Description *string `json:"description"`
}

// CategoryService defines category use cases.
type CategoryService interface {
	Create(ctx context.Context, in CategoryInput) (*model.CategoryView, error)
	List(ctx context.Context) ([]model.CategoryView, error)
	Get(ctx context.Context, id string) (*model.CategoryView, error)
	Update(ctx context.Context, id string, in CategoryInput) (*model.CategoryView, error)
	Delete(ctx context.Context, id string) error
}

type categoryService struct {
	repo repository.CategoryRepository
	now  func() time.Time
}

// NewCategoryService constructs a CategoryService.
func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

func (s *categoryService) Create(ctx context.Context, in CategoryInput) (*model.CategoryView, error) {
	name, catSlug, err := nameAndSlug(in.Name)
	if err != nil {
		return nil, err
	}
	if err := ensureSlugFree(ctx, s.repo, catSlug, ""); err != nil {
		return nil, err
	}

	now := s.now()
	cat := &model.Category{
		ID:        uuid.NewString(),
		Name:      name,
		Slug:      catSlug,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.Description != nil {
		cat.Description = strings.TrimSpace(*in.Description)
	}
	if err := s.setParent(ctx, cat, in.Parent); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, cat); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, invalid("ALREADY_EXISTS", "category already exists")
		}
		return nil, internal(err)
	}
	return s.view(ctx, cat)
}

func (s *categoryService) List(ctx context.Context) ([]model.CategoryView, error) {
	res, err := s.repo.List(ctx, repository.PageQuery{})
	if err != nil {
		return nil, internal(err)
	}

	var parentIDs []string
	for _, c := range res.Items {
		if c.Parent != nil {
			parentIDs = append(parentIDs, *c.Parent)
		}
	}
	parents := map[string]model.Category{}
	if len(parentIDs) > 0 {
		found, err := s.repo.FindByIDs(ctx, parentIDs)
		if err != nil {
			return nil, internal(err)
		}
		for _, p := range found {
			parents[p.ID] = p
		}
	}

	out := make([]model.CategoryView, 0, len(res.Items))
	for _, c := range res.Items {
		v := categoryView(c)
		if c.Parent != nil {
			if p, ok := parents[*c.Parent]; ok {
				v.Parent = &model.Ref{ID: p.ID, Name: p.Name, Slug: p.Slug}
			}
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *categoryService) Get(ctx context.Context, id string) (*model.CategoryView, error) {
	cat, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, cat)
}

func (s *categoryService) Update(ctx context.Context, id string, in CategoryInput) (*model.CategoryView, error) {
	cat, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name, catSlug, err := nameAndSlug(in.Name)
		if err != nil {
			return nil, err
		}
		if err := ensureSlugFree(ctx, s.repo, catSlug, cat.ID); err != nil {
			return nil, err
		}
		cat.Name, cat.Slug = name, catSlug
	}
	if in.Description != nil {
		cat.Description = strings.TrimSpace(*in.Description)
	}
	if err := s.setParent(ctx, cat, in.Parent); err != nil {
		return nil, err
	}
	cat.UpdatedAt = s.now()

	if err := s.repo.Replace(ctx, cat.ID, cat); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, notFound("CATEGORY_NOT_FOUND", "category not found")
		case errors.Is(err, repository.ErrDuplicate):
			return nil, invalid("ALREADY_EXISTS", "category already exists")
		}
		return nil, internal(err)
	}
	return s.view(ctx, cat)
}

func (s *categoryService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("CATEGORY_NOT_FOUND", "category not found")
		}
		return internal(err)
	}
	return nil
}

func (s *categoryService) find(ctx context.Context, id string) (*model.Category, error) {
	cat, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("CATEGORY_NOT_FOUND", "category not found")
		}
		return nil, internal(err)
	}
	return cat, nil
}

// setParent applies parent when given. An empty string clears it.
func (s *categoryService) setParent(ctx context.Context, cat *model.Category, parent *string) error {
	if parent == nil {
		return nil
	}
	id := strings.TrimSpace(*parent)
	if id == "" {
		cat.Parent = nil
		return nil
	}
	if id == cat.ID {
		return invalid("INVALID_PARENT", "a category cannot be its own parent")
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("PARENT_NOT_FOUND", "parent category not found")
		}
		return internal(err)
	}
	cat.Parent = &id
	return nil
}

func (s *categoryService) view(ctx context.Context, cat *model.Category) (*model.CategoryView, error) {
	v := categoryView(*cat)
	if cat.Parent != nil {
		p, err := s.repo.FindByID(ctx, *cat.Parent)
		switch {
		case err == nil:
			v.Parent = &model.Ref{ID: p.ID, Name: p.Name, Slug: p.Slug}
		case !errors.Is(err, repository.ErrNotFound):
			return nil, internal(err)
		}
	}
	return &v, nil
}

func categoryView(c model.Category) model.CategoryView {
	return model.CategoryView{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func nameAndSlug(name *string) (string, string, error) {
	if name == nil || strings.TrimSpace(*name) == "" {
		return "", "", invalid("NAME_REQUIRED", "name is required")
	}
	n := strings.TrimSpace(*name)
	s := slug.Make(n)
	if s == "" {
		return "", "", invalid("INVALID_NAME", "name must contain letters or digits")
	}
	return n, s, nil
}

// ensureSlugFree fails with ALREADY_EXISTS when another document than selfID owns candidate.
func ensureSlugFree[T repository.Document](ctx context.Context, repo repository.Store[T], candidate, selfID string) error {
	existing, err := repo.FindOneBy(ctx, "slug", candidate)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return internal(err)
	}
	if (*existing).DocumentID() == selfID {
		return nil
	}
	return invalid("ALREADY_EXISTS", "an entry with this name already exists")
}
