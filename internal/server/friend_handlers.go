package server

import (
	"github.com/minhhai1907/social-network-BE/internal/models"
	"github.com/minhhai1907/social-network-BE/internal/service"

	"github.com/gofiber/fiber/v2"
)

type sendFriendRequestBody struct {
	To      uint   `json:"to" validate:"required"`
	Message string `json:"message" validate:"max=500"`
}

type reactFriendRequestBody struct {
	Status string `json:"status" validate:"required,oneof=accepted declined"`
}

// SendFriendRequest handles POST /api/friends/requests
//
// @Summary Send a friend request
// @Tags friends
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body sendFriendRequestBody true "Recipient"
// @Success 200 {object} models.APIResponse{data=models.Friendship}
// @Failure 400 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Failure 409 {object} models.APIResponse
// @Router /friends/requests [post]
func (s *Server) SendFriendRequest(c *fiber.Ctx) error {
	const category = "Send Friend Request Error"
	var body sendFriendRequestBody
	if err := bindBody(c, &body, category); err != nil {
		return nil
	}

	friendship, err := s.friendService.SendFriendRequest(c.UserContext(), callerID(c), service.SendFriendRequestInput{
		To:      body.To,
		Message: body.Message,
	})
	if err != nil {
		return models.RespondWithError(c, category, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, friendship, "Request has been sent")
}

// ReactFriendRequest handles PUT /api/friends/requests/:id
//
// @Summary Accept or decline a received friend request
// @Tags friends
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Requester ID"
// @Param body body reactFriendRequestBody true "Decision"
// @Success 200 {object} models.APIResponse{data=models.Friendship}
// @Failure 400 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Failure 422 {object} models.APIResponse
// @Router /friends/requests/{id} [put]
func (s *Server) ReactFriendRequest(c *fiber.Ctx) error {
	const category = "React Friend Request Error"
	requestID, err := parseID(c, "id", category)
	if err != nil {
		return nil
	}
	var body reactFriendRequestBody
	if err := bindBody(c, &body, category); err != nil {
		return nil
	}

	friendship, err := s.friendService.ReactFriendRequest(c.UserContext(), callerID(c), requestID,
		models.FriendshipStatus(body.Status))
	if err != nil {
		return models.RespondWithError(c, category, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, friendship, "Friend request "+body.Status)
}

// CancelFriendRequest handles DELETE /api/friends/requests/:id where :id is
// the recipient. Cancelling a request that does not exist succeeds.
//
// @Summary Cancel a sent friend request
// @Tags friends
// @Produce json
// @Security BearerAuth
// @Param id path int true "Recipient ID"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Router /friends/requests/{id} [delete]
func (s *Server) CancelFriendRequest(c *fiber.Ctx) error {
	const category = "Cancel Friend Request Error"
	targetID, err := parseID(c, "id", category)
	if err != nil {
		return nil
	}

	friendship, err := s.friendService.CancelFriendRequest(c.UserContext(), callerID(c), targetID)
	if err != nil {
		return models.RespondWithError(c, category, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, friendship, "Friend request has been cancelled")
}

// RemoveFriend handles DELETE /api/friends/:id
//
// @Summary Remove a friend
// @Tags friends
// @Produce json
// @Security BearerAuth
// @Param id path int true "Friend ID"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Router /friends/{id} [delete]
func (s *Server) RemoveFriend(c *fiber.Ctx) error {
	const category = "Remove Friend Error"
	targetID, err := parseID(c, "id", category)
	if err != nil {
		return nil
	}

	friendship, err := s.friendService.RemoveFriend(c.UserContext(), callerID(c), targetID)
	if err != nil {
		return models.RespondWithError(c, category, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, friendship, "Friend has been removed")
}

// GetFriends handles GET /api/friends
//
// @Summary List the caller's friends
// @Tags friends
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param name query string false "Name filter"
// @Success 200 {object} models.APIResponse
// @Failure 401 {object} models.APIResponse
// @Router /friends [get]
func (s *Server) GetFriends(c *fiber.Ctx) error {
	page, err := s.friendLists.ListFriends(c.UserContext(), callerID(c), s.parseListQuery(c))
	if err != nil {
		return models.RespondWithError(c, "Get Friend List Error", err)
	}
	return models.RespondWithData(c, fiber.StatusOK, page, "")
}

// GetIncomingRequests handles GET /api/friends/requests/incoming
//
// @Summary List received friend requests
// @Tags friends
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param name query string false "Name filter"
// @Success 200 {object} models.APIResponse
// @Failure 401 {object} models.APIResponse
// @Router /friends/requests/incoming [get]
func (s *Server) GetIncomingRequests(c *fiber.Ctx) error {
	page, err := s.friendLists.ListIncoming(c.UserContext(), callerID(c), s.parseListQuery(c))
	if err != nil {
		return models.RespondWithError(c, "Get Received Requests Error", err)
	}
	return models.RespondWithData(c, fiber.StatusOK, page, "")
}

// GetOutgoingRequests handles GET /api/friends/requests/outgoing
//
// @Summary List sent friend requests
// @Tags friends
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param name query string false "Name filter"
// @Success 200 {object} models.APIResponse
// @Failure 401 {object} models.APIResponse
// @Router /friends/requests/outgoing [get]
func (s *Server) GetOutgoingRequests(c *fiber.Ctx) error {
	page, err := s.friendLists.ListOutgoing(c.UserContext(), callerID(c), s.parseListQuery(c))
	if err != nil {
		return models.RespondWithError(c, "Get Sent Requests Error", err)
	}
	return models.RespondWithData(c, fiber.StatusOK, page, "")
}

// GetFriendshipStatus handles GET /api/friends/status/:id
//
// @Summary Get the friendship between the caller and a user
// @Tags friends
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Router /friends/status/{id} [get]
func (s *Server) GetFriendshipStatus(c *fiber.Ctx) error {
	const category = "Get Friendship Status Error"
	targetID, err := parseID(c, "id", category)
	if err != nil {
		return nil
	}

	view, err := s.friendService.GetFriendshipStatus(c.UserContext(), callerID(c), targetID)
	if err != nil {
		return models.RespondWithError(c, category, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, view, "")
}
