package repository

import (
	"context"
	"regexp"
	"testing"

	"sonic/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every connection to :memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(PersistentModels()...))
	return db
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	return gormDB, mock
}

func TestGormStore_SQLite(t *testing.T) {
	runStoreSuite(t, NewGormStore(setupTestDB(t), "sqlite"))
}

func TestGormUserRepository_GetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGormUserRepository(db, "postgres")
	ctx := context.Background()

	tests := []struct {
		name          string
		userID        string
		mockBehavior  func()
		expectedName  string
		expectedError error
	}{
		{
			name:   "Success",
			userID: "u1",
			mockBehavior: func() {
				rows := sqlmock.NewRows([]string{"id", "email", "display_name", "interests", "role"}).
					AddRow("u1", "ada@sonic.dev", "Ada", []byte(`["go"]`), "User")
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE id = $1 ORDER BY "users"."id" LIMIT $2`)).
					WithArgs("u1", 1).
					WillReturnRows(rows)
			},
			expectedName: "Ada",
		},
		{
			name:   "Not Found",
			userID: "u2",
			mockBehavior: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE id = $1 ORDER BY "users"."id" LIMIT $2`)).
					WithArgs("u2", 1).
					WillReturnRows(sqlmock.NewRows([]string{"id"}))
			},
			expectedError: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockBehavior()
			user, err := repo.GetByID(ctx, tt.userID)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedName, user.DisplayName)
				assert.Equal(t, []string{"go"}, user.Interests)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGormUserRepository_ExistsByEmail(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGormUserRepository(db, "postgres")

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "users" WHERE email = $1`)).
		WithArgs("ada@sonic.dev").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.ExistsByEmail(context.Background(), " ADA@sonic.dev ")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormLikeRepository_ToggleRemovesExistingLike(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGormLikeRepository(db, "postgres")

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "likes" WHERE post_id = $1 AND user_id = $2`)).
		WithArgs("p1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	liked, err := repo.Toggle(context.Background(), &models.Like{ID: "l1", PostID: "p1", UserID: "u1"})
	require.NoError(t, err)
	assert.False(t, liked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, `%100\% go\_lang%`, likePattern("100% Go_Lang"))
	assert.Equal(t, `%a\\b%`, likePattern(`a\b`))
}
