package server

import (
	"github.com/minhhai1907/social-network-BE/internal/models"
	"github.com/minhhai1907/social-network-BE/internal/service"

	"github.com/gofiber/fiber/v2"
)

type registerBody struct {
	Name     string `json:"name" validate:"required,max=60"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginBody struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updateProfileBody struct {
	Name      string `json:"name" validate:"max=60"`
	AvatarURL string `json:"avatar_url" validate:"omitempty,url"`
	CoverURL  string `json:"cover_url" validate:"omitempty,url"`
	AboutMe   string `json:"about_me" validate:"max=500"`
	City      string `json:"city"`
	Country   string `json:"country"`
	Company   string `json:"company"`
	JobTitle  string `json:"job_title"`
}

// Register handles POST /api/auth/register
//
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param body body registerBody true "Registration details"
// @Success 201 {object} models.APIResponse{data=service.AuthResult}
// @Failure 400 {object} models.APIResponse
// @Failure 409 {object} models.APIResponse
// @Router /auth/register [post]
func (s *Server) Register(c *fiber.Ctx) error {
	const category = "Register Error"
	var body registerBody
	if err := bindBody(c, &body, category); err != nil {
		return nil
	}

	result, err := s.userService.Register(c.UserContext(), service.RegisterInput{
		Name:     body.Name,
		Email:    body.Email,
		Password: body.Password,
	})
	if err != nil {
		return models.RespondWithError(c, category, err)
	}
	return models.RespondWithData(c, fiber.StatusCreated, result, "Create user successful")
}

// Login handles POST /api/auth/login
//
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param body body loginBody true "Credentials"
// @Success 200 {object} models.APIResponse{data=service.AuthResult}
// @Failure 400 {object} models.APIResponse
// @Failure 401 {object} models.APIResponse
// @Router /auth/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	const category = "Login Error"
	var body loginBody
	if err := bindBody(c, &body, category); err != nil {
		return nil
	}

	result, err := s.userService.Login(c.UserContext(), body.Email, body.Password)
	if err != nil {
		return models.RespondWithError(c, category, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, result, "Login successful")
}

// GetMyProfile handles GET /api/users/me
//
// @Summary Get the caller's profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=models.User}
// @Failure 401 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /users/me [get]
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	user, err := s.userService.GetUserByID(c.UserContext(), callerID(c))
	if err != nil {
		return models.RespondWithError(c, "Get Current User Error", err)
	}
	return models.RespondWithData(c, fiber.StatusOK, user, "")
}

// UpdateMyProfile handles PUT /api/users/me
//
// @Summary Update the caller's profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body updateProfileBody true "Profile fields"
// @Success 200 {object} models.APIResponse{data=models.User}
// @Failure 400 {object} models.APIResponse
// @Failure 401 {object} models.APIResponse
// @Router /users/me [put]
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	const category = "Update User Error"
	var body updateProfileBody
	if err := bindBody(c, &body, category); err != nil {
		return nil
	}

	user, err := s.userService.UpdateProfile(c.UserContext(), service.UpdateProfileInput{
		UserID:    callerID(c),
		Name:      body.Name,
		AvatarURL: body.AvatarURL,
		CoverURL:  body.CoverURL,
		AboutMe:   body.AboutMe,
		City:      body.City,
		Country:   body.Country,
		Company:   body.Company,
		JobTitle:  body.JobTitle,
	})
	if err != nil {
		return models.RespondWithError(c, category, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, user, "Update user successful")
}

// GetUserProfile handles GET /api/users/:id
//
// @Summary Get a user profile with the caller's friendship
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /users/{id} [get]
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	const category = "Get Single User Error"
	userID, err := parseID(c, "id", category)
	if err != nil {
		return nil
	}

	profile, err := s.userService.GetUserProfile(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithError(c, category, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, profile, "")
}

// GetAllUsers handles GET /api/users
//
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param name query string false "Name filter"
// @Success 200 {object} models.APIResponse
// @Failure 401 {object} models.APIResponse
// @Router /users [get]
func (s *Server) GetAllUsers(c *fiber.Ctx) error {
	page, err := s.userService.ListUsers(c.UserContext(), s.parseListQuery(c))
	if err != nil {
		return models.RespondWithError(c, "Get Users Error", err)
	}
	return models.RespondWithData(c, fiber.StatusOK, page, "")
}
