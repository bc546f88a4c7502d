package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"cmsapi/internal/http/middleware"
	"cmsapi/internal/service"
)

// createdResponse is the body of a successful create.
type createdResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// createPostJSON is the JSON variant of the create request. tags and seo keep their raw shape.
type createPostJSON struct {
	Title       string          `json:"title"`
	Summary     string          `json:"summary"`
	Content     string          `json:"content"`
	Type        string          `json:"type"`
	Status      string          `json:"status"`
	Category    string          `json:"category"`
	ScheduledAt string          `json:"scheduledAt"`
	Tags        json.RawMessage `json:"tags"`
	SEO         json.RawMessage `json:"seo"`
}

// CreatePost accepts multipart/form-data (with optional "thumbnail" and up to maxFiles "files")
// or a JSON body without binaries.
//
//	@Summary	Create a post
//	@Tags		posts
//	@Accept		multipart/form-data
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		title		formData	string	true	"Title"
//	@Param		content		formData	string	true	"Content (HTML)"
//	@Param		summary		formData	string	false	"Summary"
//	@Param		type		formData	string	false	"post|page|article|news|video"
//	@Param		status		formData	string	false	"draft|published|scheduled"
//	@Param		category	formData	string	false	"Category id"
//	@Param		tags		formData	string	false	"Tag ids: repeated, JSON array or comma separated"
//	@Param		scheduledAt	formData	string	false	"Required when status is scheduled"
//	@Param		seo			formData	string	false	"SEO JSON object"
//	@Param		thumbnail	formData	file	false	"Thumbnail image"
//	@Param		files		formData	file	false	"Attachments"
//	@Success	201	{object}	createdResponse
//	@Failure	400	{object}	errorPayload
//	@Failure	404	{object}	errorPayload
//	@Failure	500	{object}	errorPayload
//	@Router		/api/posts [post]
func CreatePost(svc service.PostService, maxFiles int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller := middleware.IdentityFrom(c)
		if caller == nil {
			return fiber.ErrUnauthorized
		}

		var (
			in  service.CreatePostInput
			err error
		)
		if strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEApplicationJSON) {
			in, err = decodePostJSON(c.Body())
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "malformed JSON body")
			}
		} else {
			form, err := c.MultipartForm()
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_FORM", "expected multipart/form-data")
			}
			thumbs, files := form.File["thumbnail"], form.File["files"]
			if len(thumbs) > 1 {
				return writeError(c, fiber.StatusBadRequest, "TOO_MANY_THUMBNAILS", "only one thumbnail is allowed")
			}
			if maxFiles > 0 && len(files) > maxFiles {
				return writeError(c, fiber.StatusBadRequest, "TOO_MANY_FILES", "too many attachments")
			}

			in = decodePostForm(form)
			closers, err := attachUploads(&in, thumbs, files)
			defer closeAll(closers)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
			}
		}
		in.AuthorID = caller.ID

		view, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(createdResponse{
			Success: true,
			Message: "Post created successfully",
			Data:    view,
		})
	}
}

// GetPost returns one populated post.
//
//	@Summary	Get a post
//	@Tags		posts
//	@Produce	json
//	@Param		id	path		string	true	"Post id"
//	@Success	200	{object}	model.PostView
//	@Failure	400	{object}	errorPayload
//	@Failure	404	{object}	errorPayload
//	@Router		/api/posts/{id} [get]
func GetPost(svc service.PostService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		view, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(view)
	}
}

func decodePostForm(form *multipart.Form) service.CreatePostInput {
	first := func(k string) string {
		if v := form.Value[k]; len(v) > 0 {
			return v[0]
		}
		return ""
	}

	in := service.CreatePostInput{
		Title:       first("title"),
		Summary:     first("summary"),
		Content:     first("content"),
		Type:        first("type"),
		Status:      first("status"),
		CategoryID:  first("category"),
		ScheduledAt: first("scheduledAt"),
		SEORaw:      first("seo"),
	}

	switch {
	case form.Value["tags[]"] != nil:
		in.Tags = form.Value["tags[]"]
	case len(form.Value["tags"]) > 1:
		in.Tags = form.Value["tags"]
	default:
		in.TagsRaw = first("tags")
	}

	for _, k := range []string{"seo[metaTitle]", "seo[metaDescription]", "seo[keywords]", "seo[keywords][]"} {
		if _, ok := form.Value[k]; ok {
			in.SEO.Set = true
		}
	}
	if in.SEO.Set {
		in.SEO.MetaTitle = first("seo[metaTitle]")
		in.SEO.MetaDescription = first("seo[metaDescription]")
		in.SEO.Keywords = append(append([]string{}, form.Value["seo[keywords]"]...), form.Value["seo[keywords][]"]...)
	}
	return in
}

func decodePostJSON(body []byte) (service.CreatePostInput, error) {
	var req createPostJSON
	if err := json.Unmarshal(body, &req); err != nil {
		return service.CreatePostInput{}, err
	}
	in := service.CreatePostInput{
		Title:       req.Title,
		Summary:     req.Summary,
		Content:     req.Content,
		Type:        req.Type,
		Status:      req.Status,
		CategoryID:  req.Category,
		ScheduledAt: req.ScheduledAt,
	}

	// tags: a JSON array is the literal list; a string goes through the flexible parser.
	switch tags := bytes.TrimSpace(req.Tags); {
	case len(tags) == 0 || bytes.Equal(tags, []byte("null")):
	case tags[0] == '[':
		var items []any
		if err := json.Unmarshal(tags, &items); err != nil {
			return service.CreatePostInput{}, err
		}
		in.Tags = []string{}
		for _, it := range items {
			if s, ok := it.(string); ok {
				in.Tags = append(in.Tags, s)
			}
		}
	default:
		var s string
		if err := json.Unmarshal(tags, &s); err == nil {
			in.TagsRaw = s
		}
	}

	// seo: an object is used as is; a string is parsed leniently by the service.
	switch seo := bytes.TrimSpace(req.SEO); {
	case len(seo) == 0:
	case seo[0] == '"':
		var s string
		if err := json.Unmarshal(seo, &s); err == nil {
			in.SEORaw = s
		}
	default:
		in.SEORaw = string(seo)
	}
	return in, nil
}

// attachUploads opens every part. The returned closers must be closed even on error.
func attachUploads(in *service.CreatePostInput, thumbs, files []*multipart.FileHeader) ([]io.Closer, error) {
	var closers []io.Closer
	open := func(fh *multipart.FileHeader) (service.Upload, error) {
		f, err := fh.Open()
		if err != nil {
			return service.Upload{}, err
		}
		closers = append(closers, f)
		return service.Upload{
			Filename:    fh.Filename,
			ContentType: partContentType(fh),
			Size:        fh.Size,
			Reader:      f,
		}, nil
	}

	if len(thumbs) == 1 {
		u, err := open(thumbs[0])
		if err != nil {
			return closers, err
		}
		in.Thumbnail = &u
	}
	for _, fh := range files {
		u, err := open(fh)
		if err != nil {
			return closers, err
		}
		in.Files = append(in.Files, u)
	}
	return closers, nil
}

func partContentType(fh *multipart.FileHeader) string {
	if ct := fh.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func closeAll(closers []io.Closer) {
	for _, c := range closers {
		_ = c.Close()
	}
}

func pathID(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}
