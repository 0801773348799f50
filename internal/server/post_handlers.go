package server

import (
	"strconv"

	"github.com/minhhai1907/social-network-BE/internal/models"
	"github.com/minhhai1907/social-network-BE/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createPostBody struct {
	Title    string `json:"title" validate:"required,max=200"`
	Content  string `json:"content" validate:"required"`
	ImageURL string `json:"image_url" validate:"omitempty,url"`
}

type updatePostBody struct {
	Title    string `json:"title" validate:"max=200"`
	Content  string `json:"content"`
	ImageURL string `json:"image_url" validate:"omitempty,url"`
}

// CreatePost handles POST /api/posts
//
// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body createPostBody true "Post"
// @Success 201 {object} models.APIResponse{data=models.Post}
// @Failure 400 {object} models.APIResponse
// @Failure 401 {object} models.APIResponse
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	const category = "Create Post Error"
	var body createPostBody
	if err := bindBody(c, &body, category); err != nil {
		return nil
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		UserID:   callerID(c),
		Title:    body.Title,
		Content:  body.Content,
		ImageURL: body.ImageURL,
	})
	if err != nil {
		return models.RespondWithError(c, category, err)
	}
	return models.RespondWithData(c, fiber.StatusCreated, post, "Post created")
}

// GetPosts handles GET /api/posts
//
// @Summary List posts
// @Tags posts
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param author query int false "Author ID"
// @Param title query string false "Title contains"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Router /posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	const category = "Get Posts Error"
	filter := models.PostFilter{Title: c.Query("title")}
	if raw := c.Query("author"); raw != "" {
		authorID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || authorID == 0 {
			return models.RespondWithError(c, category, models.NewValidationError("Invalid Author"))
		}
		filter.AuthorID = uint(authorID)
	}

	page, err := s.postService.ListPosts(c.UserContext(), filter, c.QueryInt("page", 1), c.QueryInt("limit", s.defaultPageLimit()))
	if err != nil {
		return models.RespondWithError(c, category, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, page, "")
}

// GetPost handles GET /api/posts/:id
//
// @Summary Get a post with its newest comments
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} models.APIResponse{data=models.Post}
// @Failure 400 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	const category = "Get Post Error"
	postID, err := parseID(c, "id", category)
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.UserContext(), postID)
	if err != nil {
		return models.RespondWithError(c, category, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, post, "")
}

// UpdatePost handles PUT /api/posts/:id
//
// @Summary Update a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param body body updatePostBody true "Post fields"
// @Success 200 {object} models.APIResponse{data=models.Post}
// @Failure 400 {object} models.APIResponse
// @Failure 403 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /posts/{id} [put]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	const category = "Update Post Error"
	postID, err := parseID(c, "id", category)
	if err != nil {
		return nil
	}
	var body updatePostBody
	if err := bindBody(c, &body, category); err != nil {
		return nil
	}

	post, err := s.postService.UpdatePost(c.UserContext(), service.UpdatePostInput{
		UserID:   callerID(c),
		PostID:   postID,
		Title:    body.Title,
		Content:  body.Content,
		ImageURL: body.ImageURL,
	})
	if err != nil {
		return models.RespondWithError(c, category, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, post, "Post updated")
}

// DeletePost handles DELETE /api/posts/:id
//
// @Summary Delete a post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Failure 403 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /posts/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	const category = "Delete Post Error"
	postID, err := parseID(c, "id", category)
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.UserContext(), service.DeletePostInput{
		UserID: callerID(c),
		PostID: postID,
	}); err != nil {
		return models.RespondWithError(c, category, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, nil, "Post deleted")
}

// GetComments handles GET /api/posts/:id/comments
//
// @Summary List a post's comments
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /posts/{id}/comments [get]
func (s *Server) GetComments(c *fiber.Ctx) error {
	const category = "Get Comments Error"
	postID, err := parseID(c, "id", category)
	if err != nil {
		return nil
	}

	page, err := s.commentService.ListComments(c.UserContext(), postID,
		c.QueryInt("page", 1), c.QueryInt("limit", s.defaultPageLimit()))
	if err != nil {
		return models.RespondWithError(c, category, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, page, "")
}
