package server

import (
	"github.com/minhhai1907/social-network-BE/internal/models"
	"github.com/minhhai1907/social-network-BE/internal/service"

	"github.com/gofiber/fiber/v2"
)

type reactionBody struct {
	TargetType string `json:"target_type" validate:"required,oneof=Post Comment"`
	TargetID   uint   `json:"target_id" validate:"required"`
	Emoji      string `json:"emoji" validate:"required,oneof=like dislike"`
}

// CreateReaction handles POST /api/reactions. Repeating the caller's current
// emoji withdraws it.
//
// @Summary React to a post or comment
// @Tags reactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body reactionBody true "Reaction"
// @Success 200 {object} models.APIResponse{data=service.ReactionResult}
// @Failure 400 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /reactions [post]
func (s *Server) CreateReaction(c *fiber.Ctx) error {
	const category = "Send Reaction Error"
	var body reactionBody
	if err := bindBody(c, &body, category); err != nil {
		return nil
	}

	result, err := s.reactionService.React(c.UserContext(), service.ReactInput{
		UserID: callerID(c),
		Target: models.ReactionTarget{Kind: models.TargetKind(body.TargetType), ID: body.TargetID},
		Emoji:  models.Emoji(body.Emoji),
	})
	if err != nil {
		return models.RespondWithError(c, category, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, result, "")
}
