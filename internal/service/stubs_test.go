package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"sonic/internal/auth"
	"sonic/internal/models"
	"sonic/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn        func(context.Context, *models.User) error
	updateFn        func(context.Context, *models.User) error
	getByIDFn       func(context.Context, string) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	getByIDsFn      func(context.Context, []string) ([]*models.User, error)
	existsByEmailFn func(context.Context, string) (bool, error)
}

func (s *userRepoStub) Create(ctx context.Context, u *models.User) error { return s.createFn(ctx, u) }
func (s *userRepoStub) Update(ctx context.Context, u *models.User) error { return s.updateFn(ctx, u) }
func (s *userRepoStub) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByIDs(ctx context.Context, ids []string) ([]*models.User, error) {
	return s.getByIDsFn(ctx, ids)
}
func (s *userRepoStub) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return s.existsByEmailFn(ctx, email)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn:        func(context.Context, *models.User) error { return nil },
		updateFn:        func(context.Context, *models.User) error { return nil },
		getByIDFn:       func(context.Context, string) (*models.User, error) { return nil, repository.ErrNotFound },
		getByEmailFn:    func(context.Context, string) (*models.User, error) { return nil, repository.ErrNotFound },
		getByIDsFn:      func(context.Context, []string) ([]*models.User, error) { return nil, nil },
		existsByEmailFn: func(context.Context, string) (bool, error) { return false, nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn  func(context.Context, *models.Post) error
	updateFn  func(context.Context, *models.Post) error
	getByIDFn func(context.Context, string) (*models.Post, error)
	queryFn   func(context.Context, repository.PostQuery) (models.Page[*models.Post], error)
}

func (s *postRepoStub) Create(ctx context.Context, p *models.Post) error { return s.createFn(ctx, p) }
func (s *postRepoStub) Update(ctx context.Context, p *models.Post) error { return s.updateFn(ctx, p) }
func (s *postRepoStub) GetByID(ctx context.Context, id string) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) Query(ctx context.Context, q repository.PostQuery) (models.Page[*models.Post], error) {
	return s.queryFn(ctx, q)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:  func(context.Context, *models.Post) error { return nil },
		updateFn:  func(context.Context, *models.Post) error { return nil },
		getByIDFn: func(context.Context, string) (*models.Post, error) { return nil, repository.ErrNotFound },
		queryFn: func(_ context.Context, q repository.PostQuery) (models.Page[*models.Post], error) {
			return models.NewPage[*models.Post](nil, q.Page, q.PageSize, 0), nil
		},
	}
}

// postRepoWith serves the given posts by id.
func postRepoWith(posts ...*models.Post) *postRepoStub {
	repo := noopPostRepo()
	byID := make(map[string]*models.Post, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
	}
	repo.getByIDFn = func(_ context.Context, id string) (*models.Post, error) {
		if p, ok := byID[id]; ok {
			return p, nil
		}
		return nil, repository.ErrNotFound
	}
	return repo
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn      func(context.Context, *models.Comment) error
	updateFn      func(context.Context, *models.Comment) error
	getByIDFn     func(context.Context, string) (*models.Comment, error)
	listForPostFn func(context.Context, string, int, int) (models.Page[*models.Comment], error)
}

func (s *commentRepoStub) Create(ctx context.Context, c *models.Comment) error {
	return s.createFn(ctx, c)
}
func (s *commentRepoStub) Update(ctx context.Context, c *models.Comment) error {
	return s.updateFn(ctx, c)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListForPost(ctx context.Context, postID string, page, pageSize int) (models.Page[*models.Comment], error) {
	return s.listForPostFn(ctx, postID, page, pageSize)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:  func(context.Context, *models.Comment) error { return nil },
		updateFn:  func(context.Context, *models.Comment) error { return nil },
		getByIDFn: func(context.Context, string) (*models.Comment, error) { return nil, repository.ErrNotFound },
		listForPostFn: func(_ context.Context, _ string, page, pageSize int) (models.Page[*models.Comment], error) {
			return models.NewPage[*models.Comment](nil, page, pageSize, 0), nil
		},
	}
}

// likeRepoStub keeps likes in memory so toggles can be observed.
type likeRepoStub struct {
	liked    map[string]bool
	toggleFn func(context.Context, *models.Like) (bool, error)
}

func newLikeRepoStub() *likeRepoStub {
	return &likeRepoStub{liked: map[string]bool{}}
}

func (s *likeRepoStub) key(postID, userID string) string { return postID + "/" + userID }

func (s *likeRepoStub) Toggle(ctx context.Context, l *models.Like) (bool, error) {
	if s.toggleFn != nil {
		return s.toggleFn(ctx, l)
	}
	k := s.key(l.PostID, l.UserID)
	if s.liked[k] {
		delete(s.liked, k)
		return false, nil
	}
	s.liked[k] = true
	return true, nil
}

func (s *likeRepoStub) Exists(_ context.Context, postID, userID string) (bool, error) {
	return s.liked[s.key(postID, userID)], nil
}

func (s *likeRepoStub) CountForPost(_ context.Context, postID string) (int64, error) {
	var n int64
	for k := range s.liked {
		if len(k) > len(postID) && k[:len(postID)+1] == postID+"/" {
			n++
		}
	}
	return n, nil
}

// participationRepoStub keeps participations in memory in join order.
type participationRepoStub struct {
	joined []*models.CampaignParticipation
	addFn  func(context.Context, *models.CampaignParticipation) (bool, error)
}

func (s *participationRepoStub) Add(ctx context.Context, p *models.CampaignParticipation) (bool, error) {
	if s.addFn != nil {
		return s.addFn(ctx, p)
	}
	if ok, _ := s.Exists(ctx, p.PostID, p.UserID); ok {
		return false, nil
	}
	s.joined = append(s.joined, p)
	return true, nil
}

func (s *participationRepoStub) Exists(_ context.Context, postID, userID string) (bool, error) {
	for _, p := range s.joined {
		if p.PostID == postID && p.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (s *participationRepoStub) CountForPost(_ context.Context, postID string) (int64, error) {
	var n int64
	for _, p := range s.joined {
		if p.PostID == postID {
			n++
		}
	}
	return n, nil
}

func (s *participationRepoStub) ListForPost(_ context.Context, postID string, page, pageSize int) (models.Page[*models.CampaignParticipation], error) {
	var items []*models.CampaignParticipation
	for _, p := range s.joined {
		if p.PostID == postID {
			items = append(items, p)
		}
	}
	total := int64(len(items))
	start := models.Offset(page, pageSize)
	if start > len(items) {
		start = len(items)
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return models.NewPage(items[start:end], page, pageSize, total), nil
}

type tokenIssuerStub struct {
	err error
}

func (s tokenIssuerStub) Issue(u *models.User) (auth.AccessToken, error) {
	if s.err != nil {
		return auth.AccessToken{}, s.err
	}
	return auth.AccessToken{Token: "token-for-" + u.ID, ExpiresAt: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)}, nil
}

// assertAppError asserts err is an AppError with the given status and code.
func assertAppError(t *testing.T, err error, status int, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, status, appErr.Status)
	assert.Equal(t, code, appErr.Code)
}

func strPtr(s string) *string { return &s }

func newTestPost(t *testing.T, postType models.PostType, author string) *models.Post {
	t.Helper()
	p, err := models.NewPost(postType, "Title", "Body", author, []string{"Go"}, nil, strPtr("goal"))
	require.NoError(t, err)
	return p
}
