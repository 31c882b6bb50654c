package server

import (
	"gramly/internal/models"
	"gramly/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me. The user is always re-read from
// the store; the session carries nothing but the id.
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	user, err := s.profiles.GetUser(c.Context(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"user": user})
}

// UpdateMyProfile handles PUT /api/users/me. Accepts multipart form data so
// an avatar image can ride along with the text fields.
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	in := service.UpdateProfileInput{
		UserID:    currentUserID(c),
		Firstname: c.FormValue("firstname"),
		Lastname:  c.FormValue("lastname"),
		Bio:       c.FormValue("bio"),
		Gender:    c.FormValue("gender"),
	}

	if file, err := c.FormFile("avatar"); err == nil {
		src, err := file.Open()
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Unable to read uploaded file"))
		}
		defer func() { _ = src.Close() }()

		in.Avatar = src
		in.AvatarSize = file.Size
		in.ContentType = file.Header.Get("Content-Type")
	}

	user, err := s.profiles.UpdateProfile(c.Context(), in)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"user": user})
}

// GetUserProfile handles GET /api/users/:id
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	limit := c.QueryInt("posts", 10)
	user, err := s.profiles.ViewProfile(c.Context(), id, limit)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"user": user})
}

// GetUserPosts handles GET /api/users/:id/posts
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	p := parsePagination(c, 20)
	posts, err := s.feed.UserPosts(c.Context(), id, p.Limit, p.Offset, currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}
