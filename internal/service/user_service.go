package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/minhhai1907/social-network-BE/internal/middleware"
	"github.com/minhhai1907/social-network-BE/internal/models"
	"github.com/minhhai1907/social-network-BE/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLen = 8
	maxNameLen     = 60
	maxAboutMeLen  = 500
)

type UserService struct {
	userRepo   repository.UserRepository
	friendRepo repository.FriendRepository
	jwtSecret  string
	tokenTTL   time.Duration
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type UpdateProfileInput struct {
	UserID    uint
	Name      string
	AvatarURL string
	CoverURL  string
	AboutMe   string
	City      string
	Country   string
	Company   string
	JobTitle  string
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// UserProfile is a user together with their accepted relationships.
type UserProfile struct {
	*models.User
	Friendships []FriendshipSummary `json:"friendships"`
}

// UserPage is one page of the user directory.
type UserPage struct {
	Users      []models.User `json:"users"`
	Total      int64         `json:"total"`
	TotalPages int           `json:"total_pages"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
}

func NewUserService(userRepo repository.UserRepository, friendRepo repository.FriendRepository, jwtSecret string, tokenTTL time.Duration) *UserService {
	return &UserService{
		userRepo:   userRepo,
		friendRepo: friendRepo,
		jwtSecret:  jwtSecret,
		tokenTTL:   tokenTTL,
	}
}

// Register creates an account and returns a signed token for it.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > maxNameLen {
		return nil, models.NewValidationError("Name is required (max 60 characters)")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, models.NewValidationError("Invalid email address")
	}
	if len(in.Password) < minPasswordLen {
		return nil, models.NewValidationError("Password must be at least 8 characters")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Name:     name,
		Email:    strings.TrimSpace(in.Email),
		Password: string(hashed),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return s.authenticate(user)
}

// Login checks the credentials and returns a signed token.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			return nil, models.NewValidationError("Invalid email or password")
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewValidationError("Invalid email or password")
	}
	return s.authenticate(user)
}

func (s *UserService) authenticate(user *models.User) (*AuthResult, error) {
	token, err := middleware.IssueToken(user.ID, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetUserProfile returns the user with the status and message of each of
// their accepted relationships.
func (s *UserService) GetUserProfile(ctx context.Context, id uint) (*UserProfile, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	records, err := s.friendRepo.ListByView(ctx, id, repository.ViewFriends)
	if err != nil {
		return nil, err
	}

	profile := &UserProfile{User: user, Friendships: make([]FriendshipSummary, 0, len(records))}
	for _, f := range records {
		profile.Friendships = append(profile.Friendships, FriendshipSummary{
			ID:        f.ID,
			From:      f.RequesterID,
			To:        f.AddresseeID,
			Status:    f.Status,
			Message:   f.Message,
			UpdatedAt: f.UpdatedAt,
		})
	}
	return profile, nil
}

func (s *UserService) ListUsers(ctx context.Context, q models.ListQuery) (*UserPage, error) {
	q = q.Normalize()
	users, total, err := s.userRepo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return &UserPage{
		Users:      users,
		Total:      total,
		TotalPages: models.TotalPages(total, q.Limit),
		Page:       q.Page,
		Limit:      q.Limit,
	}, nil
}

// UpdateProfile changes the non-empty profile fields of in.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		if len(name) > maxNameLen {
			return nil, models.NewValidationError("Name too long (max 60 characters)")
		}
		user.Name = name
	}
	if in.AboutMe != "" {
		if len(in.AboutMe) > maxAboutMeLen {
			return nil, models.NewValidationError("About me too long (max 500 characters)")
		}
		user.AboutMe = in.AboutMe
	}
	for _, field := range []struct {
		dst *string
		val string
	}{
		{&user.AvatarURL, in.AvatarURL},
		{&user.CoverURL, in.CoverURL},
		{&user.City, in.City},
		{&user.Country, in.Country},
		{&user.Company, in.Company},
		{&user.JobTitle, in.JobTitle},
	} {
		if v := strings.TrimSpace(field.val); v != "" {
			*field.dst = v
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
