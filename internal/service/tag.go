package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"cmsapi/internal/model"
	"cmsapi/internal/repository"
)

// TagInput carries tag fields.
type TagInput struct {
	Name *string `json:"name"`
}

// TagService defines tag use cases.
type TagService interface {
	Create(ctx context.Context, in TagInput) (*model.Tag, error)
	List(ctx context.Context) ([]model.Tag, error)
	Get(ctx context.Context, id string) (*model.Tag, error)
	Update(ctx context.Context, id string, in TagInput) (*model.Tag, error)
	Delete(ctx context.Context, id string) error
}

type tagService struct {
	repo repository.TagRepository
	now  func() time.Time
}

// NewTagService constructs a TagService.
func NewTagService(repo repository.TagRepository) TagService {
	return &tagService{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

func (s *tagService) Create(ctx context.Context, in TagInput) (*model.Tag, error) {
	name, tagSlug, err := nameAndSlug(in.Name)
	if err != nil {
		return nil, err
	}
	if err := ensureSlugFree(ctx, s.repo, tagSlug, ""); err != nil {
		return nil, err
	}

	now := s.now()
	tag := &model.Tag{ID: uuid.NewString(), Name: name, Slug: tagSlug, CreatedAt: now, UpdatedAt: now}
	if err := s.repo.Create(ctx, tag); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, invalid("ALREADY_EXISTS", "tag already exists")
		}
		return nil, internal(err)
	}
	return tag, nil
}

func (s *tagService) List(ctx context.Context) ([]model.Tag, error) {
	res, err := s.repo.List(ctx, repository.PageQuery{})
	if err != nil {
		return nil, internal(err)
	}
	if res.Items == nil {
		return []model.Tag{}, nil
	}
	return res.Items, nil
}

func (s *tagService) Get(ctx context.Context, id string) (*model.Tag, error) {
	tag, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("TAG_NOT_FOUND", "tag not found")
		}
		return nil, internal(err)
	}
	return tag, nil
}

func (s *tagService) Update(ctx context.Context, id string, in TagInput) (*model.Tag, error) {
	tag, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name, tagSlug, err := nameAndSlug(in.Name)
		if err != nil {
			return nil, err
		}
		if err := ensureSlugFree(ctx, s.repo, tagSlug, tag.ID); err != nil {
			return nil, err
		}
		tag.Name, tag.Slug = name, tagSlug
	}
	tag.UpdatedAt = s.now()

	if err := s.repo.Replace(ctx, tag.ID, tag); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, notFound("TAG_NOT_FOUND", "tag not found")
		case errors.Is(err, repository.ErrDuplicate):
			return nil, invalid("ALREADY_EXISTS", "tag already exists")
		}
		return nil, internal(err)
	}
	return tag, nil
}

func (s *tagService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("TAG_NOT_FOUND", "tag not found")
		}
		return internal(err)
	}
	return nil
}
