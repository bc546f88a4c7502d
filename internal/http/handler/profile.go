package handler

import (
	"github.com/gofiber/fiber/v2"

	"cmsapi/internal/http/middleware"
	"cmsapi/internal/service"
)

var profileFields = []string{"firstName", "lastName", "gender", "dob", "phone", "bio", "address", "academicTitle", "expertise"}

// GetMyProfile returns the caller's profile.
//
//	@Summary	Get own profile
//	@Tags		profiles
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	model.ProfileView
//	@Failure	404	{object}	errorPayload
//	@Router		/api/profiles/me [get]
func GetMyProfile(svc service.ProfileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller := middleware.IdentityFrom(c)
		if caller == nil {
			return fiber.ErrUnauthorized
		}
		out, err := svc.GetMine(c.UserContext(), caller.ID)
		if err != nil {
			return err
		}
		return c.JSON(out)
	}
}

// UpdateMyProfile updates the caller's profile from form fields or JSON, with an optional "avatar" file.
//
//	@Summary	Update own profile
//	@Tags		profiles
//	@Accept		multipart/form-data
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		avatar	formData	file	false	"Avatar image"
//	@Success	200		{object}	createdResponse
//	@Failure	400		{object}	errorPayload
//	@Router		/api/profiles/me [put]
func UpdateMyProfile(svc service.ProfileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller := middleware.IdentityFrom(c)
		if caller == nil {
			return fiber.ErrUnauthorized
		}

		var in service.ProfileUpdate
		if form, err := c.MultipartForm(); err == nil {
			values := map[string]*string{}
			for _, k := range profileFields {
				if v := form.Value[k]; len(v) > 0 {
					s := v[0]
					values[k] = &s
				}
			}
			in = profileUpdate(values)

			if fhs := form.File["avatar"]; len(fhs) > 0 {
				f, err := fhs[0].Open()
				if err != nil {
					return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
				}
				defer f.Close()
				in.Avatar = &service.Upload{
					Filename:    fhs[0].Filename,
					ContentType: partContentType(fhs[0]),
					Size:        fhs[0].Size,
					Reader:      f,
				}
			}
		} else {
			var body map[string]*string
			if err := c.BodyParser(&body); err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "malformed request body")
			}
			in = profileUpdate(body)
		}

		out, err := svc.UpdateMine(c.UserContext(), service.Caller{
			ID:    caller.ID,
			Name:  caller.Name,
			Email: caller.Email,
			Role:  caller.Role,
		}, in)
		if err != nil {
			return err
		}
		return c.JSON(createdResponse{Success: true, Message: "Profile updated successfully", Data: out})
	}
}

// profileUpdate keeps only the editable fields; unknown keys are ignored.
func profileUpdate(v map[string]*string) service.ProfileUpdate {
	return service.ProfileUpdate{
		FirstName:     v["firstName"],
		LastName:      v["lastName"],
		Gender:        v["gender"],
		DOB:           v["dob"],
		Phone:         v["phone"],
		Bio:           v["bio"],
		Address:       v["address"],
		AcademicTitle: v["academicTitle"],
		Expertise:     v["expertise"],
	}
}

// ListProfiles returns every profile. Admin only.
//
//	@Summary	List profiles
//	@Tags		profiles
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}	model.ProfileView
//	@Router		/api/profiles [get]
func ListProfiles(svc service.ProfileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out, err := svc.List(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(out)
	}
}

// GetProfile returns one profile. Admin only.
//
//	@Summary	Get a profile
//	@Tags		profiles
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Profile id"
//	@Success	200	{object}	model.ProfileView
//	@Failure	404	{object}	errorPayload
//	@Router		/api/profiles/{id} [get]
func GetProfile(svc service.ProfileService) fiber.Handler {
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

// DeleteProfile removes a profile. Admin only.
//
//	@Summary	Delete a profile
//	@Tags		profiles
//	@Security	BearerAuth
//	@Param		id	path	string	true	"Profile id"
//	@Success	204
//	@Failure	404	{object}	errorPayload
//	@Router		/api/profiles/{id} [delete]
func DeleteProfile(svc service.ProfileService) fiber.Handler {
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
