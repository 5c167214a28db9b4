// Command main seeds the configured store with demo data.
package main

import (
	"context"
	"flag"
	"log"

	"sonic/internal/auth"
	"sonic/internal/bootstrap"
	"sonic/internal/config"
	"sonic/internal/seed"

	"github.com/joho/godotenv"
)

func main() {
	defaults := seed.DefaultOptions()
	numUsers := flag.Int("users", defaults.NumUsers, "Number of users to create")
	numPosts := flag.Int("posts", defaults.NumPosts, "Number of posts to create")
	comments := flag.Int("comments", defaults.CommentsPerPost, "Comments per post")
	randomSeed := flag.Int64("seed", 0, "Random seed for reproducible data (0 = random)")
	fixtures := flag.String("fixtures", "", "Optional YAML fixtures file applied before the generated data")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production store")
	}

	ctx := context.Background()
	store, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to store: %v", err)
	}
	defer func() { _ = store.Close(ctx) }()

	tokens, err := auth.NewTokenIssuer(cfg)
	if err != nil {
		log.Fatalf("Failed to build token issuer: %v", err)
	}
	s := seed.NewSeeder(store, auth.NewPBKDF2Hasher(), tokens, *randomSeed)

	if *fixtures != "" {
		fx, err := seed.LoadFixtures(*fixtures)
		if err != nil {
			log.Fatalf("Failed to load fixtures: %v", err)
		}
		sum, err := s.ApplyFixtures(ctx, fx)
		if err != nil {
			log.Fatalf("Fixtures failed: %v", err)
		}
		log.Printf("Fixtures applied: %d users, %d posts", sum.Users, sum.Posts)
	}

	opts := defaults
	opts.NumUsers = *numUsers
	opts.NumPosts = *numPosts
	opts.CommentsPerPost = *comments

	sum, err := s.Seed(ctx, opts)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Printf("Seeded %d users, %d posts, %d comments, %d likes, %d joins (password %q)",
		sum.Users, sum.Posts, sum.Comments, sum.Likes, sum.Joins, seed.DemoPassword)
}
