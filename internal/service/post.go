package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"cmsapi/internal/media"
	"cmsapi/internal/model"
	"cmsapi/internal/repository"
	"cmsapi/internal/slug"
)

var tracer = otel.Tracer("cmsapi/internal/service")

// Upload is one binary part of a request. Reader is consumed once.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// CreatePostInput is a post creation request after transport decoding.
// Tags holds repeated form values; when nil, TagsRaw is parsed instead.
type CreatePostInput struct {
	AuthorID    string
	Title       string
	Summary     string
	Content     string
	Type        string
	Status      string
	CategoryID  string
	Tags        []string
	TagsRaw     string
	ScheduledAt string
	SEO         SEOFields
	SEORaw      string
	Thumbnail   *Upload
	Files       []Upload
}

// PostService defines the post use cases.
type PostService interface {
	// Create runs the full assembly workflow. On failure after the first upload, every file record and
	// object created by this call is removed before the error is returned.
	Create(ctx context.Context, in CreatePostInput) (*model.PostView, error)

	// Get returns a post with author, category, tags and files populated.
	Get(ctx context.Context, id string) (*model.PostView, error)
}

// PostStores groups the collections the post workflow reads and writes.
type PostStores struct {
	Posts      repository.PostRepository
	Files      repository.FileRepository
	Categories repository.CategoryRepository
	Tags       repository.TagRepository
	Users      repository.UserRepository
}

type postService struct {
	stores   PostStores
	slugs    *slug.Generator
	uploader *media.Uploader
	policy   *bluemonday.Policy
	maxFiles int
	log      *zap.Logger
	now      func() time.Time
}

// NewPostService constructs a PostService. maxFiles <= 0 disables the attachment count check.
func NewPostService(stores PostStores, uploader *media.Uploader, maxFiles int, log *zap.Logger) PostService {
	if log == nil {
		log = zap.NewNop()
	}
	return &postService{
		stores:   stores,
		slugs:    slug.NewGenerator(stores.Posts),
		uploader: uploader,
		policy:   bluemonday.UGCPolicy(),
		maxFiles: maxFiles,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// rollback accumulates the external state one Create call has produced.
type rollback struct {
	keys    []string
	fileIDs []string
	postID  string
}

func (s *postService) Create(ctx context.Context, in CreatePostInput) (_ *model.PostView, err error) {
	ctx, span := tracer.Start(ctx, "PostService.Create")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, invalid("TITLE_REQUIRED", "title is required")
	}
	content := s.policy.Sanitize(in.Content)
	if strings.TrimSpace(content) == "" {
		return nil, invalid("CONTENT_REQUIRED", "content is required")
	}

	postType := model.PostType(strings.TrimSpace(in.Type))
	if postType == "" {
		postType = model.PostTypePost
	}
	if !postType.Valid() {
		return nil, invalid("INVALID_TYPE", "type must be one of post, page, article, news, video")
	}
	status := model.PostStatus(strings.TrimSpace(in.Status))
	if status == "" {
		status = model.PostStatusDraft
	}
	if !status.Valid() {
		return nil, invalid("INVALID_STATUS", "status must be one of draft, published, scheduled")
	}

	var scheduledAt *time.Time
	if status == model.PostStatusScheduled {
		if strings.TrimSpace(in.ScheduledAt) == "" {
			return nil, invalid("SCHEDULED_AT_REQUIRED", "scheduledAt is required for scheduled posts")
		}
		t, ok := parseTime(in.ScheduledAt)
		if !ok {
			return nil, invalid("INVALID_SCHEDULED_AT", "scheduledAt is not a valid date")
		}
		scheduledAt = &t
	}

	if s.maxFiles > 0 && len(in.Files) > s.maxFiles {
		return nil, invalid("TOO_MANY_FILES", "too many attachments")
	}

	postSlug, err := s.slugs.Unique(ctx, title)
	if err != nil {
		if errors.Is(err, slug.ErrEmpty) {
			return nil, invalid("INVALID_TITLE", "title must contain letters or digits")
		}
		return nil, internal(err)
	}
	span.SetAttributes(attribute.String("post.slug", postSlug))

	tagIDs := ParseTags(in.Tags, in.TagsRaw)

	categoryID, err := s.resolveCategory(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}

	resolvedTags, err := s.resolveTags(ctx, tagIDs)
	if err != nil {
		return nil, internal(err)
	}

	seo := ParseSEO(in.SEO, in.SEORaw)

	// From here on every failure must undo what was created.
	var rb rollback
	view, err := s.assemble(ctx, in, &rb, assembled{
		title:       title,
		summary:     s.policy.Sanitize(in.Summary),
		content:     content,
		slug:        postSlug,
		postType:    postType,
		status:      status,
		scheduledAt: scheduledAt,
		categoryID:  categoryID,
		tagIDs:      resolvedTags,
		seo:         seo,
	})
	if err != nil {
		s.compensate(ctx, rb)
		return nil, internal(err)
	}

	s.log.Info("post_created",
		zap.String("post_id", view.ID),
		zap.String("slug", view.Slug),
		zap.Int("files", len(view.Files)),
	)
	return view, nil
}

// assembled holds the values computed before any external mutation.
type assembled struct {
	title       string
	summary     string
	content     string
	slug        string
	postType    model.PostType
	status      model.PostStatus
	scheduledAt *time.Time
	categoryID  *string
	tagIDs      []string
	seo         model.SEO
}

func (s *postService) assemble(ctx context.Context, in CreatePostInput, rb *rollback, a assembled) (*model.PostView, error) {
	var thumbnailURL *string
	if in.Thumbnail != nil {
		_, ext := media.SplitName(in.Thumbnail.Filename)
		key := media.ObjectKey("posts", "thumbnails", in.AuthorID, s.now(), a.slug, ext)
		url, err := s.uploader.Put(ctx, key, in.Thumbnail.Reader, in.Thumbnail.Size, in.Thumbnail.ContentType)
		if err != nil {
			return nil, err
		}
		rb.keys = append(rb.keys, key)
		thumbnailURL = &url
	}

	fileIDs := make([]string, 0, len(in.Files))
	for _, f := range in.Files {
		stem, ext := media.SplitName(f.Filename)
		key := media.ObjectKey("posts", "files", in.AuthorID, s.now(), stem, ext)
		url, err := s.uploader.Put(ctx, key, f.Reader, f.Size, f.ContentType)
		if err != nil {
			return nil, err
		}
		rb.keys = append(rb.keys, key)

		now := s.now()
		rec := &model.File{
			ID:        uuid.NewString(),
			User:      in.AuthorID,
			Type:      model.ClassifyMIME(f.ContentType),
			URL:       url,
			FileName:  f.Filename,
			MimeType:  f.ContentType,
			Size:      f.Size,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.stores.Files.Create(ctx, rec); err != nil {
			return nil, err
		}
		rb.fileIDs = append(rb.fileIDs, rec.ID)
		fileIDs = append(fileIDs, rec.ID)
	}

	now := s.now()
	post := &model.Post{
		ID:           uuid.NewString(),
		Author:       in.AuthorID,
		Title:        a.title,
		Slug:         a.slug,
		Summary:      a.summary,
		Content:      a.content,
		ThumbnailURL: thumbnailURL,
		Type:         a.postType,
		Status:       a.status,
		ScheduledAt:  a.scheduledAt,
		Category:     a.categoryID,
		Tags:         a.tagIDs,
		Files:        fileIDs,
		SEO:          a.seo,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if a.status == model.PostStatusPublished {
		post.PublishedAt = &now
	}
	if err := s.stores.Posts.Create(ctx, post); err != nil {
		return nil, err
	}
	rb.postID = post.ID

	stored, err := s.stores.Posts.FindByID(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, stored)
}

// compensate undoes rb. Failures are logged with the outcome and never returned.
func (s *postService) compensate(ctx context.Context, rb rollback) {
	// The request context may already be cancelled; cleanup must still run.
	ctx = context.WithoutCancel(ctx)

	out := media.Compensation{FileIDs: rb.fileIDs, PostID: rb.postID}
	if rb.postID != "" {
		if err := s.stores.Posts.Delete(ctx, rb.postID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			out.PostDeleteErr = err
		}
	}
	if len(rb.fileIDs) > 0 {
		out.FileDeleteErr = s.stores.Files.DeleteMany(ctx, rb.fileIDs)
	}
	out.Blobs = s.uploader.DeleteAll(ctx, rb.keys)

	if out.Failed() {
		s.log.Error("post_create_compensation_incomplete", out.Fields()...)
		return
	}
	s.log.Warn("post_create_compensated", out.Fields()...)
}

func (s *postService) resolveCategory(ctx context.Context, id string) (*string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, invalid("INVALID_CATEGORY", "category id is malformed")
	}
	cat, err := s.stores.Categories.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("CATEGORY_NOT_FOUND", "category not found")
		}
		return nil, internal(err)
	}
	return &cat.ID, nil
}

// resolveTags drops unknown ids and keeps the caller's order.
func (s *postService) resolveTags(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return []string{}, nil
	}
	found, err := s.stores.Tags.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(found))
	for _, t := range found {
		known[t.ID] = true
	}
	out := make([]string, 0, len(found))
	for _, id := range ids {
		if known[id] {
			out = append(out, id)
			delete(known, id)
		}
	}
	return out, nil
}

func (s *postService) Get(ctx context.Context, id string) (*model.PostView, error) {
	ctx, span := tracer.Start(ctx, "PostService.Get")
	defer span.End()

	if strings.TrimSpace(id) == "" {
		return nil, invalid("ID_REQUIRED", "id is required")
	}
	post, err := s.stores.Posts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("POST_NOT_FOUND", "post not found")
		}
		return nil, internal(err)
	}
	view, err := s.populate(ctx, post)
	if err != nil {
		return nil, internal(err)
	}
	return view, nil
}

// populate joins the references of post. Dangling references become null or are skipped.
func (s *postService) populate(ctx context.Context, post *model.Post) (*model.PostView, error) {
	view := &model.PostView{
		ID:           post.ID,
		Title:        post.Title,
		Slug:         post.Slug,
		Summary:      post.Summary,
		Content:      post.Content,
		ThumbnailURL: post.ThumbnailURL,
		Type:         post.Type,
		Status:       post.Status,
		ScheduledAt:  post.ScheduledAt,
		Tags:         []model.Ref{},
		Files:        []model.File{},
		Views:        post.Views,
		Reactions:    post.Reactions,
		SEO:          post.SEO,
		PublishedAt:  post.PublishedAt,
		CreatedAt:    post.CreatedAt,
		UpdatedAt:    post.UpdatedAt,
	}

	user, err := s.stores.Users.FindByID(ctx, post.Author)
	switch {
	case err == nil:
		view.Author = &model.AuthorSummary{ID: user.ID, Name: user.Name, Email: user.Email, AvatarURL: user.AvatarURL}
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	if post.Category != nil {
		cat, err := s.stores.Categories.FindByID(ctx, *post.Category)
		switch {
		case err == nil:
			view.Category = &model.Ref{ID: cat.ID, Name: cat.Name, Slug: cat.Slug}
		case !errors.Is(err, repository.ErrNotFound):
			return nil, err
		}
	}

	if len(post.Tags) > 0 {
		tags, err := s.stores.Tags.FindByIDs(ctx, post.Tags)
		if err != nil {
			return nil, err
		}
		byID := make(map[string]model.Tag, len(tags))
		for _, t := range tags {
			byID[t.ID] = t
		}
		for _, id := range post.Tags {
			if t, ok := byID[id]; ok {
				view.Tags = append(view.Tags, model.Ref{ID: t.ID, Name: t.Name, Slug: t.Slug})
			}
		}
	}

	if len(post.Files) > 0 {
		files, err := s.stores.Files.FindByIDs(ctx, post.Files)
		if err != nil {
			return nil, err
		}
		byID := make(map[string]model.File, len(files))
		for _, f := range files {
			byID[f.ID] = f
		}
		for _, id := range post.Files {
			if f, ok := byID[id]; ok {
				view.Files = append(view.Files, f)
			}
		}
	}

	return view, nil
}
