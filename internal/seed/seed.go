package seed

import (
	"context"
	"fmt"
	"log/slog"

	"sonic/internal/auth"
	"sonic/internal/middleware"
	"sonic/internal/models"
	"sonic/internal/repository"
	"sonic/internal/service"
)

// Options configuration for the seeder
type Options struct {
	NumUsers        int
	NumPosts        int
	CommentsPerPost int
	// LikeRate and JoinRate are the chance that a given user likes a post or joins a campaign.
	LikeRate float64
	JoinRate float64
	// FeaturedRate is the share of posts an admin features.
	FeaturedRate float64
}

// DefaultOptions returns a small but lively data set.
func DefaultOptions() Options {
	return Options{
		NumUsers:        20,
		NumPosts:        60,
		CommentsPerPost: 3,
		LikeRate:        0.2,
		JoinRate:        0.3,
		FeaturedRate:    0.1,
	}
}

// Summary counts what a seeding run created.
type Summary struct {
	Users    int
	Posts    int
	Comments int
	Likes    int
	Joins    int
	Featured int
}

// Seeder drives the services against a store.
type Seeder struct {
	users     repository.UserRepository
	auth      *service.AuthService
	profiles  *service.UserService
	posts     *service.PostService
	likes     *service.LikeService
	campaigns *service.CampaignService
	comments  *service.CommentService
	factory   *Factory
}

// NewSeeder wires the services over store. A non-zero randomSeed makes runs
// reproducible. hasher may use a low iteration count; the stored hash records
// it so logins still verify.
func NewSeeder(store *repository.Store, hasher auth.PasswordHasher, tokens service.TokenIssuer, randomSeed int64) *Seeder {
	return &Seeder{
		users:     store.Users,
		auth:      service.NewAuthService(store.Users, hasher, tokens),
		profiles:  service.NewUserService(store.Users),
		posts:     service.NewPostService(store.Posts, store.Likes, store.Participations),
		likes:     service.NewLikeService(store.Likes, store.Posts),
		campaigns: service.NewCampaignService(store.Posts, store.Participations),
		comments:  service.NewCommentService(store.Comments, store.Posts, store.Users),
		factory:   NewFactory(randomSeed),
	}
}

// Seed populates the store with generated users, posts and engagement.
func (s *Seeder) Seed(ctx context.Context, opts Options) (Summary, error) {
	var sum Summary
	middleware.Logger.Info("Starting database seeding",
		slog.Int("users", opts.NumUsers),
		slog.Int("posts", opts.NumPosts))

	userIDs := make([]string, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		in := s.factory.BuildUser()
		resp, err := s.auth.Register(ctx, in)
		if err != nil {
			return sum, fmt.Errorf("register %s: %w", in.Email, err)
		}
		if _, err := s.profiles.UpdateProfile(ctx, resp.UserID, s.factory.BuildProfile(in.DisplayName)); err != nil {
			return sum, fmt.Errorf("profile %s: %w", in.Email, err)
		}
		userIDs = append(userIDs, resp.UserID)
	}
	sum.Users = len(userIDs)
	if len(userIDs) == 0 {
		return sum, nil
	}

	for i := 0; i < opts.NumPosts; i++ {
		postType := s.factory.PostType()
		// Guarantee every type shows up in small data sets.
		if i < len(models.PostTypes) {
			postType = models.PostTypes[i]
		}
		authorID := userIDs[s.factory.Intn(len(userIDs))]
		post, err := s.posts.CreatePost(ctx, s.factory.BuildPost(postType), authorID)
		if err != nil {
			return sum, fmt.Errorf("create post: %w", err)
		}
		sum.Posts++

		if err := s.engage(ctx, post, userIDs, opts, &sum); err != nil {
			return sum, err
		}

		if s.factory.Chance(opts.FeaturedRate) {
			if err := s.posts.SetFeaturedStatus(ctx, post.ID, true); err != nil {
				return sum, fmt.Errorf("feature post: %w", err)
			}
			sum.Featured++
		}
	}

	middleware.Logger.Info("Database seeding completed",
		slog.Int("users", sum.Users),
		slog.Int("posts", sum.Posts),
		slog.Int("comments", sum.Comments),
		slog.Int("likes", sum.Likes),
		slog.Int("joins", sum.Joins))
	return sum, nil
}

func (s *Seeder) engage(ctx context.Context, post *service.PostResponse, userIDs []string, opts Options, sum *Summary) error {
	for i := 0; i < opts.CommentsPerPost; i++ {
		authorID := userIDs[s.factory.Intn(len(userIDs))]
		if _, err := s.comments.AddComment(ctx, post.ID, authorID, s.factory.BuildComment()); err != nil {
			return fmt.Errorf("add comment: %w", err)
		}
		sum.Comments++
	}

	// Each user is visited once so a toggle never undoes an earlier like.
	for _, userID := range userIDs {
		if s.factory.Chance(opts.LikeRate) {
			if _, err := s.likes.ToggleLike(ctx, post.ID, userID); err != nil {
				return fmt.Errorf("like post: %w", err)
			}
			sum.Likes++
		}
		if post.Type == models.PostTypeCampaign && s.factory.Chance(opts.JoinRate) {
			if _, err := s.campaigns.JoinCampaign(ctx, post.ID, userID); err != nil {
				return fmt.Errorf("join campaign: %w", err)
			}
			sum.Joins++
		}
	}
	return nil
}
