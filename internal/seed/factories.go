// Package seed provides helpers to create demo data for local development.
// Everything is created through the services so domain rules hold for seeded rows too.
package seed

import (
	"fmt"
	"strings"

	"sonic/internal/models"
	"sonic/internal/service"

	"github.com/brianvoe/gofakeit/v6"
)

// DemoPassword is the password of every generated user.
const DemoPassword = "password123"

var topicTags = []string{
	"go", "ai", "llm", "devops", "cloud", "design", "frontend", "backend",
	"career", "startups", "security", "data", "community", "education", "climate",
}

// Factory builds service inputs populated with fake content.
type Factory struct {
	faker *gofakeit.Faker
	seq   int
}

// NewFactory returns a factory. A zero seed picks a random one.
func NewFactory(seed int64) *Factory {
	return &Factory{faker: gofakeit.New(seed)}
}

// BuildUser returns a registration with a unique example.com email.
func (f *Factory) BuildUser() service.RegisterInput {
	f.seq++
	first, last := f.faker.FirstName(), f.faker.LastName()
	return service.RegisterInput{
		Email:       fmt.Sprintf("%s.%s%d@example.com", strings.ToLower(first), strings.ToLower(last), f.seq),
		Password:    DemoPassword,
		DisplayName: first + " " + last,
	}
}

// BuildProfile returns a profile update with a bio, interests and avatar.
func (f *Factory) BuildProfile(displayName string) service.UpdateProfileInput {
	bio := f.faker.Sentence(12)
	jobRole := f.faker.JobTitle()
	avatar := fmt.Sprintf("https://i.pravatar.cc/150?u=%s", f.faker.UUID())
	return service.UpdateProfileInput{
		DisplayName: displayName,
		Bio:         &bio,
		JobRole:     &jobRole,
		Interests:   []string{f.faker.Hobby(), f.faker.Hobby()},
		AvatarURL:   &avatar,
	}
}

// BuildPost returns a post of the given type. Campaigns get a goal and
// guides and courses get an external link.
func (f *Factory) BuildPost(postType models.PostType) service.CreatePostInput {
	in := service.CreatePostInput{
		Type:  postType,
		Title: strings.TrimSuffix(f.faker.Sentence(f.faker.Number(3, 8)), "."),
		Body:  f.faker.Paragraph(1, 3, 12, "\n\n"),
		Tags:  f.tags(),
	}

	switch postType {
	case models.PostTypeCampaign:
		goal := fmt.Sprintf("Reach %d %s", f.faker.Number(10, 5000), f.faker.RandomString([]string{"volunteers", "signatures", "donors", "members"}))
		in.CampaignGoal = &goal
	case models.PostTypeModelGuide, models.PostTypeCourse, models.PostTypeNews:
		link := f.faker.URL()
		in.ExternalLink = &link
	}
	return in
}

// BuildComment returns a comment body.
func (f *Factory) BuildComment() string {
	return f.faker.Sentence(f.faker.Number(4, 18))
}

// PostType picks any post type.
func (f *Factory) PostType() models.PostType {
	return models.PostTypes[f.faker.Number(0, len(models.PostTypes)-1)]
}

// Chance reports true with probability p.
func (f *Factory) Chance(p float64) bool {
	return f.faker.Float64Range(0, 1) < p
}

// Intn returns a number in [0, n).
func (f *Factory) Intn(n int) int {
	if n <= 1 {
		return 0
	}
	return f.faker.Number(0, n-1)
}

func (f *Factory) tags() []string {
	n := f.faker.Number(0, 3)
	tags := make([]string, 0, n)
	for i := 0; i < n; i++ {
		tags = append(tags, topicTags[f.faker.Number(0, len(topicTags)-1)])
	}
	return tags
}
