package handler

import (
	"github.com/gofiber/fiber/v2"

	"cmsapi/internal/service"
)

// ListCategories returns every category with its parent populated.
//
//	@Summary	List categories
//	@Tags		categories
//	@Produce	json
//	@Success	200	{array}	model.CategoryView
//	@Router		/api/categories [get]
func ListCategories(svc service.CategoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out, err := svc.List(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(out)
	}
}

// GetCategory returns one category.
//
//	@Summary	Get a category
//	@Tags		categories
//	@Produce	json
//	@Param		id	path		string	true	"Category id"
//	@Success	200	{object}	model.CategoryView
//	@Failure	404	{object}	errorPayload
//	@Router		/api/categories/{id} [get]
func GetCategory(svc service.CategoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		out, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(out)
	}
}

// CreateCategory creates a category. Admin only.
//
//	@Summary	Create a category
//	@Tags		categories
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		service.CategoryInput	true	"Category"
//	@Success	201		{object}	createdResponse
//	@Failure	400		{object}	errorPayload
//	@Router		/api/categories [post]
func CreateCategory(svc service.CategoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.CategoryInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "malformed request body")
		}
		out, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(createdResponse{Success: true, Message: "Category created", Data: out})
	}
}

// UpdateCategory applies a partial update. Admin only.
//
//	@Summary	Update a category
//	@Tags		categories
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string					true	"Category id"
//	@Param		body	body		service.CategoryInput	true	"Fields to change"
//	@Success	200		{object}	createdResponse
//	@Failure	404		{object}	errorPayload
//	@Router		/api/categories/{id} [put]
func UpdateCategory(svc service.CategoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var in service.CategoryInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "malformed request body")
		}
		out, err := svc.Update(c.UserContext(), id, in)
		if err != nil {
			return err
		}
		return c.JSON(createdResponse{Success: true, Message: "Category updated", Data: out})
	}
}

// DeleteCategory removes a category. Admin only.
//
//	@Summary	Delete a category
//	@Tags		categories
//	@Security	BearerAuth
//	@Param		id	path	string	true	"Category id"
//	@Success	204
//	@Failure	404	{object}	errorPayload
//	@Router		/api/categories/{id} [delete]
func DeleteCategory(svc service.CategoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ListTags returns every tag.
//
//	@Summary	List tags
//	@Tags		tags
//	@Produce	json
//	@Success	200	{array}	model.Tag
//	@Router		/api/tags [get]
func ListTags(svc service.TagService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out, err := svc.List(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(out)
	}
}

// GetTag returns one tag.
//
//	@Summary	Get a tag
//	@Tags		tags
//	@Produce	json
//	@Param		id	path		string	true	"Tag id"
//	@Success	200	{object}	model.Tag
//	@Failure	404	{object}	errorPayload
//	@Router		/api/tags/{id} [get]
func GetTag(svc service.TagService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		out, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(out)
	}
}

// CreateTag creates a tag. Admin only.
//
//	@Summary	Create a tag
//	@Tags		tags
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		service.TagInput	true	"Tag"
//	@Success	201		{object}	createdResponse
//	@Failure	400		{object}	errorPayload
//	@Router		/api/tags [post]
func CreateTag(svc service.TagService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.TagInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "malformed request body")
		}
		out, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(createdResponse{Success: true, Message: "Tag created", Data: out})
	}
}

// UpdateTag renames a tag. Admin only.
//
//	@Summary	Update a tag
//	@Tags		tags
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string				true	"Tag id"
//	@Param		body	body		service.TagInput	true	"Fields to change"
//	@Success	200		{object}	createdResponse
//	@Failure	404		{object}	errorPayload
//	@Router		/api/tags/{id} [put]
func UpdateTag(svc service.TagService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var in service.TagInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "malformed request body")
		}
		out, err := svc.Update(c.UserContext(), id, in)
		if err != nil {
			return err
		}
		return c.JSON(createdResponse{Success: true, Message: "Tag updated", Data: out})
	}
}

// DeleteTag removes a tag. Admin only.
//
//	@Summary	Delete a tag
//	@Tags		tags
//	@Security	BearerAuth
//	@Param		id	path	string	true	"Tag id"
//	@Success	204
//	@Failure	404	{object}	errorPayload
//	@Router		/api/tags/{id} [delete]
func DeleteTag(svc service.TagService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
