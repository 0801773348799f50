package server

import (
	"errors"
	"strings"
	"unicode"

	"github.com/minhhai1907/social-network-BE/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// errResponseWritten signals that a helper already committed the response.
// Handlers return nil when they see it.
var errResponseWritten = errors.New("response already written")

var validate = validator.New()

// callerID returns the authenticated user set by AuthRequired.
func callerID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userID").(uint)
	return id
}

// parseID extracts a route parameter as a positive uint. On failure it writes
// a 400 response and returns errResponseWritten.
func parseID(c *fiber.Ctx, param, category string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, category,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam turns a route param name into a label: "id" -> "ID",
// "userId" -> "user ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if strings.HasSuffix(param, "Id") {
		return strings.ToLower(strings.Join(splitCamel(param[:len(param)-2]), " ")) + " ID"
	}
	return param
}

func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	return append(words, s[start:])
}

// bindBody parses the JSON body into dst and runs its validate tags. On
// failure it writes a 400 response and returns errResponseWritten.
func bindBody(c *fiber.Ctx, dst interface{}, category string) error {
	if err := c.BodyParser(dst); err != nil {
		_ = models.RespondWithError(c, category, models.NewValidationError("Invalid request body"))
		return errResponseWritten
	}
	if err := validate.Struct(dst); err != nil {
		_ = models.RespondWithError(c, category, models.NewValidationError(validationMessage(err)))
		return errResponseWritten
	}
	return nil
}

// validationMessage reports the first failing field in a client-readable form.
func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "Invalid request body"
	}
	fe := fieldErrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return field + " must be one of: " + fe.Param()
	case "email":
		return field + " must be a valid email address"
	case "min":
		return field + " must be at least " + fe.Param() + " characters"
	case "max":
		return field + " must be at most " + fe.Param() + " characters"
	case "url":
		return field + " must be a valid URL"
	default:
		return field + " is invalid"
	}
}

// parseListQuery reads page, limit, sort and the user filters from the query
// string.
func (s *Server) parseListQuery(c *fiber.Ctx) models.ListQuery {
	return models.ListQuery{
		Page:  c.QueryInt("page", 1),
		Limit: c.QueryInt("limit", s.defaultPageLimit()),
		Sort:  c.Query("sort"),
		Filter: models.UserFilter{
			Name:    strings.TrimSpace(c.Query("name")),
			Email:   strings.TrimSpace(c.Query("email")),
			City:    strings.TrimSpace(c.Query("city")),
			Country: strings.TrimSpace(c.Query("country")),
		},
	}.Normalize()
}

func (s *Server) defaultPageLimit() int {
	if s.config != nil && s.config.DefaultPageLimit > 0 {
		return s.config.DefaultPageLimit
	}
	return models.DefaultPageLimit
}
