package server

import (
	"github.com/minhhai1907/social-network-BE/internal/models"
	"github.com/minhhai1907/social-network-BE/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createCommentBody struct {
	PostID  uint   `json:"post_id" validate:"required"`
	Content string `json:"content" validate:"required"`
}

type updateCommentBody struct {
	Content string `json:"content" validate:"required"`
}

// CreateComment handles POST /api/comments
//
// @Summary Comment on a post
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body createCommentBody true "Comment"
// @Success 201 {object} models.APIResponse{data=models.Comment}
// @Failure 400 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	const category = "Create Comment Error"
	var body createCommentBody
	if err := bindBody(c, &body, category); err != nil {
		return nil
	}

	comment, err := s.commentService.CreateComment(c.UserContext(), service.CreateCommentInput{
		UserID:  callerID(c),
		PostID:  body.PostID,
		Content: body.Content,
	})
	if err != nil {
		return models.RespondWithError(c, category, err)
	}
	return models.RespondWithData(c, fiber.StatusCreated, comment, "Comment created")
}

// UpdateComment handles PUT /api/comments/:id (author only)
//
// @Summary Edit a comment
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Param body body updateCommentBody true "Comment"
// @Success 200 {object} models.APIResponse{data=models.Comment}
// @Failure 400 {object} models.APIResponse
// @Failure 403 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /comments/{id} [put]
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	const category = "Update Comment Error"
	commentID, err := parseID(c, "id", category)
	if err != nil {
		return nil
	}
	var body updateCommentBody
	if err := bindBody(c, &body, category); err != nil {
		return nil
	}

	comment, err := s.commentService.UpdateComment(c.UserContext(), service.UpdateCommentInput{
		UserID:    callerID(c),
		CommentID: commentID,
		Content:   body.Content,
	})
	if err != nil {
		return models.RespondWithError(c, category, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, comment, "Comment updated")
}

// DeleteComment handles DELETE /api/comments/:id (author only)
//
// @Summary Delete a comment
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Success 200 {object} models.APIResponse{data=models.Comment}
// @Failure 400 {object} models.APIResponse
// @Failure 403 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /comments/{id} [delete]
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	const category = "Delete Comment Error"
	commentID, err := parseID(c, "id", category)
	if err != nil {
		return nil
	}

	comment, err := s.commentService.DeleteComment(c.UserContext(), service.DeleteCommentInput{
		UserID:    callerID(c),
		CommentID: commentID,
	})
	if err != nil {
		return models.RespondWithError(c, category, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, comment, "Comment deleted")
}
