package server

import (
	"errors"
	"io"

	"findtogether/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetPosts handles GET /api/posts
func (s *Server) GetPosts(c *fiber.Ctx) error {
	posts, err := s.postRepo.List(c.Context())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(posts)
}

// CreatePost handles POST /api/posts. The body is multipart form data with an
// optional "image" part; the image is only stored once the post validates.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	name := c.FormValue("name")
	features := c.FormValue("features")
	lastSeenTime := c.FormValue("lastSeenTime")
	rawLocation := c.FormValue("lastSeenLocation")

	if name == "" || lastSeenTime == "" || rawLocation == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Missing required fields"))
	}

	location, err := models.ParseLocation(rawLocation)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	imageName, err := s.saveUploadedImage(c)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	post := &models.Post{
		Name:             name,
		Features:         features,
		LastSeenTime:     lastSeenTime,
		LastSeenLocation: location,
		ImageName:        imageName,
		AuthorID:         user.ID,
		AuthorName:       user.DisplayName(),
	}
	if err := s.postRepo.Create(c.Context(), post); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// DeletePost handles DELETE /api/posts/:postId. Only the author may delete;
// attached reports are removed with the post.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	postID := c.Params("postId")

	post, err := s.postRepo.GetByID(c.Context(), postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Post", postID))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	if post.AuthorID != userID {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("You are not the author of this post"))
	}

	if err := s.postRepo.Delete(c.Context(), postID); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(fiber.Map{
		"message": "Post deleted successfully",
	})
}

// AppendReport handles POST /api/posts/:postId/reports. No authentication is
// required; when a valid token is presented and no author name is given, the
// account's display name is attributed.
func (s *Server) AppendReport(c *fiber.Ctx) error {
	postID := c.Params("postId")

	sightingTime := c.FormValue("time")
	description := c.FormValue("description")
	rawLocation := c.FormValue("location")
	authorName := c.FormValue("authorName")

	if sightingTime == "" || rawLocation == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Missing required fields"))
	}

	location, err := models.ParseLocation(rawLocation)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	if authorName == "" {
		if user, ok := s.optionalUser(c); ok {
			authorName = user.DisplayName()
		}
	}

	imageName, err := s.saveUploadedImage(c)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	report := &models.Report{
		Lat:         location.Lat,
		Lng:         location.Lng,
		Time:        sightingTime,
		Description: description,
		ImageName:   imageName,
		AuthorName:  authorName,
	}
	if err := s.postRepo.AppendReport(c.Context(), postID, report); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Post", postID))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.Status(fiber.StatusCreated).JSON(report)
}

// saveUploadedImage stores the optional "image" multipart part and returns
// its object name, or "" when no file was attached.
func (s *Server) saveUploadedImage(c *fiber.Ctx) (string, error) {
	file, err := c.FormFile("image")
	if err != nil {
		return "", nil
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer func() { _ = src.Close() }()

	content, err := io.ReadAll(src)
	if err != nil {
		return "", err
	}

	return s.store.Save(c.Context(), content, file.Header.Get("Content-Type"), file.Filename)
}
