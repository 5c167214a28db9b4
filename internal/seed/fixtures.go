package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"sonic/internal/models"
	"sonic/internal/repository"
	"sonic/internal/service"

	"gopkg.in/yaml.v3"
)

// Fixtures is a hand-written data set loaded from YAML.
//
//	users:
//	  - email: ada@example.com
//	    password: password123
//	    displayName: Ada
//	posts:
//	  - author: ada@example.com
//	    type: Campaign
//	    title: Plant 1000 trees
//	    body: Join us this spring.
//	    tags: [climate]
//	    campaignGoal: 1000 trees
//	    featured: true
type Fixtures struct {
	Users []FixtureUser `yaml:"users"`
	Posts []FixturePost `yaml:"posts"`
}

type FixtureUser struct {
	Email       string   `yaml:"email"`
	Password    string   `yaml:"password"`
	DisplayName string   `yaml:"displayName"`
	Bio         *string  `yaml:"bio"`
	Interests   []string `yaml:"interests"`
}

type FixturePost struct {
	Author       string   `yaml:"author"`
	Type         string   `yaml:"type"`
	Title        string   `yaml:"title"`
	Body         string   `yaml:"body"`
	Tags         []string `yaml:"tags"`
	ExternalLink *string  `yaml:"externalLink"`
	CampaignGoal *string  `yaml:"campaignGoal"`
	Featured     bool     `yaml:"featured"`
}

// LoadFixtures reads a fixtures file.
func LoadFixtures(path string) (*Fixtures, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	return ParseFixtures(raw)
}

// ParseFixtures decodes YAML fixtures and checks every post names a known type and author.
func ParseFixtures(raw []byte) (*Fixtures, error) {
	var fx Fixtures
	if err := yaml.Unmarshal(raw, &fx); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}

	known := make(map[string]bool, len(fx.Users))
	for _, u := range fx.Users {
		known[strings.ToLower(strings.TrimSpace(u.Email))] = true
	}
	for i, p := range fx.Posts {
		if _, ok := models.ParsePostType(p.Type); !ok {
			return nil, fmt.Errorf("post %d: unknown type %q", i, p.Type)
		}
		if !known[strings.ToLower(strings.TrimSpace(p.Author))] {
			return nil, fmt.Errorf("post %d: author %q is not a fixture user", i, p.Author)
		}
	}
	return &fx, nil
}

// ApplyFixtures creates the fixture users and posts. Users that already
// exist are reused so the file can be applied repeatedly.
func (s *Seeder) ApplyFixtures(ctx context.Context, fx *Fixtures) (Summary, error) {
	var sum Summary
	ids := make(map[string]string, len(fx.Users))

	for _, u := range fx.Users {
		email := strings.ToLower(strings.TrimSpace(u.Email))
		existing, err := s.users.GetByEmail(ctx, email)
		switch {
		case err == nil:
			ids[email] = existing.ID
			continue
		case !errors.Is(err, repository.ErrNotFound):
			return sum, fmt.Errorf("look up %s: %w", email, err)
		}

		password := u.Password
		if password == "" {
			password = DemoPassword
		}
		resp, err := s.auth.Register(ctx, service.RegisterInput{Email: email, Password: password, DisplayName: u.DisplayName})
		if err != nil {
			return sum, fmt.Errorf("register %s: %w", email, err)
		}
		if u.Bio != nil || len(u.Interests) > 0 {
			if _, err := s.profiles.UpdateProfile(ctx, resp.UserID, service.UpdateProfileInput{
				DisplayName: u.DisplayName,
				Bio:         u.Bio,
				Interests:   u.Interests,
			}); err != nil {
				return sum, fmt.Errorf("profile %s: %w", email, err)
			}
		}
		ids[email] = resp.UserID
		sum.Users++
	}

	for _, p := range fx.Posts {
		postType, _ := models.ParsePostType(p.Type)
		post, err := s.posts.CreatePost(ctx, service.CreatePostInput{
			Type:         postType,
			Title:        p.Title,
			Body:         p.Body,
			Tags:         p.Tags,
			ExternalLink: p.ExternalLink,
			CampaignGoal: p.CampaignGoal,
		}, ids[strings.ToLower(strings.TrimSpace(p.Author))])
		if err != nil {
			return sum, fmt.Errorf("create post %q: %w", p.Title, err)
		}
		sum.Posts++

		if p.Featured {
			if err := s.posts.SetFeaturedStatus(ctx, post.ID, true); err != nil {
				return sum, fmt.Errorf("feature post %q: %w", p.Title, err)
			}
			sum.Featured++
		}
	}
	return sum, nil
}
