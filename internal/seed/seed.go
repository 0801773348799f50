// Package seed populates a database with demo data. Every write goes through
// the services, so friend counts, comment counts and reaction tallies are built
// by the aggregate recalculator exactly as they are in production.
package seed

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/minhhai1907/social-network-BE/internal/models"
	"github.com/minhhai1907/social-network-BE/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// DefaultPassword is the password of every seeded account.
const DefaultPassword = "password123"

// Options controls the shape of the generated graph.
type Options struct {
	Users           int
	PostsPerUser    int
	CommentsPerPost int
	// FriendRatio is the probability that a pair of users has a relationship.
	FriendRatio float64
	// Seed makes the generated data reproducible when non-zero.
	Seed int64
}

// DefaultOptions returns a small, well-connected graph.
func DefaultOptions() Options {
	return Options{
		Users:           30,
		PostsPerUser:    3,
		CommentsPerPost: 4,
		FriendRatio:     0.3,
	}
}

// Summary counts what a Run created.
type Summary struct {
	Users     int
	Accepted  int
	Declined  int
	Pending   int
	Posts     int
	Comments  int
	Reactions int
}

// Services are the entry points the seeder writes through.
type Services struct {
	Users     *service.UserService
	Friends   *service.FriendService
	Posts     *service.PostService
	Comments  *service.CommentService
	Reactions *service.ReactionService
}

// Seeder generates users, relationships, posts, comments and reactions.
type Seeder struct {
	svc   Services
	opts  Options
	faker *gofakeit.Faker
}

// NewSeeder returns a Seeder writing through svc.
func NewSeeder(svc Services, opts Options) *Seeder {
	return &Seeder{svc: svc, opts: opts, faker: gofakeit.New(opts.Seed)}
}

// Run generates the whole graph.
func (s *Seeder) Run(ctx context.Context) (Summary, error) {
	var sum Summary

	users, err := s.seedUsers(ctx)
	if err != nil {
		return sum, err
	}
	sum.Users = len(users)
	log.Printf("Seeded %d users", len(users))

	if err := s.seedRelationships(ctx, users, &sum); err != nil {
		return sum, err
	}
	log.Printf("Seeded relationships: %d accepted, %d declined, %d pending", sum.Accepted, sum.Declined, sum.Pending)

	if err := s.seedContent(ctx, users, &sum); err != nil {
		return sum, err
	}
	log.Printf("Seeded %d posts, %d comments, %d reactions", sum.Posts, sum.Comments, sum.Reactions)
	return sum, nil
}

func (s *Seeder) seedUsers(ctx context.Context) ([]*models.User, error) {
	users := make([]*models.User, 0, s.opts.Users)
	for i := 0; i < s.opts.Users; i++ {
		first, last := s.faker.FirstName(), s.faker.LastName()
		email := fmt.Sprintf("%s.%s.%d@example.com", emailPart(first), emailPart(last), i)

		res, err := s.svc.Users.Register(ctx, service.RegisterInput{
			Name:     first + " " + last,
			Email:    email,
			Password: DefaultPassword,
		})
		if err != nil {
			return nil, fmt.Errorf("register %s: %w", email, err)
		}

		addr := s.faker.Address()
		user, err := s.svc.Users.UpdateProfile(ctx, service.UpdateProfileInput{
			UserID:    res.User.ID,
			AvatarURL: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", s.faker.UUID()),
			AboutMe:   s.faker.Sentence(12),
			City:      addr.City,
			Country:   addr.Country,
			Company:   s.faker.Company(),
			JobTitle:  s.faker.JobTitle(),
		})
		if err != nil {
			return nil, fmt.Errorf("profile %s: %w", email, err)
		}
		users = append(users, user)
	}
	return users, nil
}

func (s *Seeder) seedRelationships(ctx context.Context, users []*models.User, sum *Summary) error {
	for i := range users {
		for j := i + 1; j < len(users); j++ {
			if s.faker.Float64() >= s.opts.FriendRatio {
				continue
			}
			from, to := users[i], users[j]
			if s.faker.Bool() {
				from, to = to, from
			}

			req, err := s.svc.Friends.SendFriendRequest(ctx, from.ID, service.SendFriendRequestInput{
				To:      to.ID,
				Message: s.faker.Phrase(),
			})
			if err != nil {
				return fmt.Errorf("friend request %d -> %d: %w", from.ID, to.ID, err)
			}

			switch n := s.faker.Number(1, 10); {
			case n <= 6:
				if _, err := s.svc.Friends.ReactFriendRequest(ctx, to.ID, req.ID, models.FriendshipStatusAccepted); err != nil {
					return err
				}
				sum.Accepted++
			case n <= 8:
				if _, err := s.svc.Friends.ReactFriendRequest(ctx, to.ID, req.ID, models.FriendshipStatusDeclined); err != nil {
					return err
				}
				sum.Declined++
			default:
				sum.Pending++
			}
		}
	}
	return nil
}

func (s *Seeder) seedContent(ctx context.Context, users []*models.User, sum *Summary) error {
	if len(users) == 0 {
		return nil
	}
	for _, author := range users {
		for p := 0; p < s.opts.PostsPerUser; p++ {
			post, err := s.svc.Posts.CreatePost(ctx, service.CreatePostInput{
				UserID:   author.ID,
				Title:    strings.TrimSuffix(s.faker.Sentence(6), "."),
				Content:  s.faker.Paragraph(1, 3, 12, "\n"),
				ImageURL: fmt.Sprintf("https://picsum.photos/seed/%s/800/600", s.faker.UUID()),
			})
			if err != nil {
				return fmt.Errorf("post by %d: %w", author.ID, err)
			}
			sum.Posts++

			if err := s.react(ctx, users, models.PostTarget(post.ID), sum); err != nil {
				return err
			}

			for c := 0; c < s.opts.CommentsPerPost; c++ {
				commenter := users[s.faker.Number(0, len(users)-1)]
				comment, err := s.svc.Comments.CreateComment(ctx, service.CreateCommentInput{
					UserID:  commenter.ID,
					PostID:  post.ID,
					Content: s.faker.Sentence(10),
				})
				if err != nil {
					return fmt.Errorf("comment on %d: %w", post.ID, err)
				}
				sum.Comments++

				if err := s.react(ctx, users, models.CommentTarget(comment.ID), sum); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// react has a random subset of users react once on target.
func (s *Seeder) react(ctx context.Context, users []*models.User, target models.ReactionTarget, sum *Summary) error {
	order := indexes(len(users))
	s.faker.ShuffleInts(order)
	for _, idx := range order[:s.faker.Number(0, min(5, len(users)))] {
		emoji := models.EmojiLike
		if s.faker.Number(1, 4) == 1 {
			emoji = models.EmojiDislike
		}
		if _, err := s.svc.Reactions.React(ctx, service.ReactInput{
			UserID: users[idx].ID,
			Target: target,
			Emoji:  emoji,
		}); err != nil {
			return fmt.Errorf("reaction on %s: %w", target, err)
		}
		sum.Reactions++
	}
	return nil
}

func emailPart(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, strings.ToLower(s))
}

func indexes(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// ClearAll removes every seeded row, children first.
func ClearAll(db *gorm.DB) error {
	for _, model := range []interface{}{
		&models.Reaction{},
		&models.Comment{},
		&models.Post{},
		&models.Friendship{},
		&models.User{},
	} {
		if err := db.Unscoped().Where("1 = 1").Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	return nil
}
