package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/minhhai1907/social-network-BE/internal/cache"
	"github.com/minhhai1907/social-network-BE/internal/middleware"
	"github.com/minhhai1907/social-network-BE/internal/models"
	"github.com/minhhai1907/social-network-BE/internal/observability"
	"github.com/minhhai1907/social-network-BE/internal/repository"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// recountBatchSize is the number of ids RecountAll loads per page.
const recountBatchSize = 200

// recountConcurrency bounds the recomputes in flight at once.
const recountConcurrency = 8

// Recalculator rewrites denormalized counters from their source records.
// Mutating services call it after their primary write. Returned errors have
// already been logged; callers never fail a mutation because of them.
type Recalculator interface {
	RecountFriends(ctx context.Context, userIDs ...uint) error
	RecountComments(ctx context.Context, postID uint) error
	TallyReactions(ctx context.Context, target models.ReactionTarget) error
}

// AggregateService recomputes friend counts, comment counts and reaction
// tallies from scratch.
type AggregateService struct {
	repo repository.AggregateRepository
}

// NewAggregateService returns a new AggregateService.
func NewAggregateService(repo repository.AggregateRepository) *AggregateService {
	return &AggregateService{repo: repo}
}

// RecountFriends recomputes friend_count of every given user. Each user is
// recounted concurrently and every recount is attempted even if another fails.
func (s *AggregateService) RecountFriends(ctx context.Context, userIDs ...uint) error {
	var g errgroup.Group
	g.SetLimit(recountConcurrency)
	seen := make(map[uint]struct{}, len(userIDs))
	errs := make([]error, len(userIDs))
	for i, id := range userIDs {
		if _, dup := seen[id]; dup || id == 0 {
			continue
		}
		seen[id] = struct{}{}
		i, id := i, id
		g.Go(func() error {
			errs[i] = s.recountFriend(ctx, id)
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

func (s *AggregateService) recountFriend(ctx context.Context, userID uint) (err error) {
	ctx, finish := s.begin(ctx, "aggregate.friend_count", observability.AggregateFriendCount,
		attribute.Int64("user.id", int64(userID)))
	defer func() { finish(err) }()

	count, err := s.repo.CountAcceptedFriendships(ctx, userID)
	if err != nil {
		return err
	}
	if err = s.repo.SetFriendCount(ctx, userID, count); err != nil {
		return err
	}
	cache.InvalidateUser(ctx, userID)
	return nil
}

// RecountComments recomputes comment_count of a post.
func (s *AggregateService) RecountComments(ctx context.Context, postID uint) (err error) {
	ctx, finish := s.begin(ctx, "aggregate.comment_count", observability.AggregateCommentCount,
		attribute.Int64("post.id", int64(postID)))
	defer func() { finish(err) }()

	count, err := s.repo.CountComments(ctx, postID)
	if err != nil {
		return err
	}
	if err = s.repo.SetCommentCount(ctx, postID, count); err != nil {
		return err
	}
	cache.InvalidatePost(ctx, postID)
	return nil
}

// TallyReactions groups the reactions on target by emoji and writes the
// like/dislike pair onto the post or comment.
func (s *AggregateService) TallyReactions(ctx context.Context, target models.ReactionTarget) (err error) {
	ctx, finish := s.begin(ctx, "aggregate.reactions", observability.AggregateReactions,
		attribute.String("target.type", string(target.Kind)),
		attribute.Int64("target.id", int64(target.ID)))
	defer func() { finish(err) }()

	if !target.Kind.Valid() {
		return models.NewValidationError("unknown reaction target " + string(target.Kind))
	}
	counts, err := s.repo.CountReactions(ctx, target)
	if err != nil {
		return err
	}
	if err = s.repo.SetReactionCounts(ctx, target, counts); err != nil {
		return err
	}
	return s.invalidateTarget(ctx, target)
}

// invalidateTarget drops the cached post detail showing target. A post detail
// embeds its newest comments, so a comment tally invalidates its post too.
func (s *AggregateService) invalidateTarget(ctx context.Context, target models.ReactionTarget) error {
	postID := target.ID
	if target.Kind == models.TargetComment {
		var err error
		if postID, err = s.repo.CommentPostID(ctx, target.ID); err != nil {
			return err
		}
	}
	cache.InvalidatePost(ctx, postID)
	return nil
}

// begin opens a span and a metrics timer for one recompute. The returned func
// closes both and logs a failure.
func (s *AggregateService) begin(ctx context.Context, span, aggregate string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	ctx, endSpan := observability.StartSpan(ctx, span, attrs...)
	track := observability.TrackRecompute(aggregate)
	return ctx, func(err error) {
		endSpan(err)
		track(err)
		if err != nil {
			args := []any{slog.String("aggregate", aggregate), slog.String("error", err.Error())}
			for _, a := range attrs {
				args = append(args, slog.String(string(a.Key), a.Value.Emit()))
			}
			middleware.Logger.WarnContext(ctx, "Aggregate recompute failed", args...)
		}
	}
}

// RecountSummary reports how many entities a RecountAll sweep visited.
type RecountSummary struct {
	Users         int `json:"users"`
	Posts         int `json:"posts"`
	Comments      int `json:"comments"`
	FailedBatches int `json:"failed_batches"`
}

// RecountAll sweeps every user, post and comment and recomputes all of their
// counters. It stops early only when ctx is cancelled or an id page fails to load.
func (s *AggregateService) RecountAll(ctx context.Context) (RecountSummary, error) {
	var summary RecountSummary

	sweep := func(next func(context.Context, uint, int) ([]uint, error), visit func(ids []uint) error, visited *int) error {
		var after uint
		for {
			if err := ctx.Err(); err != nil {
				return err
			}
			ids, err := next(ctx, after, recountBatchSize)
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				return nil
			}
			if err := visit(ids); err != nil {
				summary.FailedBatches++
			}
			*visited += len(ids)
			after = ids[len(ids)-1]
		}
	}

	if err := sweep(s.repo.UserIDs, func(ids []uint) error {
		return s.RecountFriends(ctx, ids...)
	}, &summary.Users); err != nil {
		return summary, err
	}

	if err := sweep(s.repo.PostIDs, func(ids []uint) error {
		return forEach(ids, func(id uint) error {
			return errors.Join(s.RecountComments(ctx, id), s.TallyReactions(ctx, models.PostTarget(id)))
		})
	}, &summary.Posts); err != nil {
		return summary, err
	}

	if err := sweep(s.repo.CommentIDs, func(ids []uint) error {
		return forEach(ids, func(id uint) error {
			return s.TallyReactions(ctx, models.CommentTarget(id))
		})
	}, &summary.Comments); err != nil {
		return summary, err
	}

	middleware.Logger.InfoContext(ctx, "Aggregate sweep completed",
		slog.Int("users", summary.Users),
		slog.Int("posts", summary.Posts),
		slog.Int("comments", summary.Comments),
		slog.Int("failed_batches", summary.FailedBatches),
	)
	return summary, nil
}

func forEach(ids []uint, fn func(uint) error) error {
	var g errgroup.Group
	g.SetLimit(recountConcurrency)
	errs := make([]error, len(ids))
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			errs[i] = fn(id)
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}
