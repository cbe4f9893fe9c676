package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"gatehouse/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

// setupSQLiteDB creates an in-memory database with real uniqueness constraints.
func setupSQLiteDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return db
}

func TestUserRepository_GetByEmail(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	tests := []struct {
		name          string
		email         string
		mockBehavior  func()
		expectedUser  *models.User
		expectedError bool
	}{
		{
			name:  "Success",
			email: "test@example.com",
			mockBehavior: func() {
				rows := sqlmock.NewRows([]string{"id", "username", "email", "password"}).
					AddRow(1, "testuser", "test@example.com", "$2a$12$hash")
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE email = $1 ORDER BY "users"."id" LIMIT $2`)).
					WithArgs("test@example.com", 1).
					WillReturnRows(rows)
			},
			expectedUser: &models.User{ID: 1, Username: "testuser", Email: "test@example.com"},
		},
		{
			name:  "Not Found Returns Nil Without Error",
			email: "missing@example.com",
			mockBehavior: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE email = $1 ORDER BY "users"."id" LIMIT $2`)).
					WithArgs("missing@example.com", 1).
					WillReturnError(gorm.ErrRecordNotFound)
			},
		},
		{
			name:  "Database Error",
			email: "test@example.com",
			mockBehavior: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE email = $1 ORDER BY "users"."id" LIMIT $2`)).
					WithArgs("test@example.com", 1).
					WillReturnError(errors.New("connection timeout"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockBehavior()
			user, err := repo.GetByEmail(ctx, tt.email)

			if tt.expectedError {
				assert.Error(t, err)
			} else if tt.expectedUser != nil {
				require.NoError(t, err)
				require.NotNil(t, user)
				assert.Equal(t, tt.expectedUser.Username, user.Username)
			} else {
				assert.NoError(t, err)
				assert.Nil(t, user)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByEmailOrUsername(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	t.Run("Match On Either Column", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "username", "email"}).
			AddRow(2, "alice", "alice@example.com")
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE email = $1 OR username = $2 ORDER BY "users"."id" LIMIT $3`)).
			WithArgs("alice@example.com", "alice", 1).
			WillReturnRows(rows)

		user, err := repo.GetByEmailOrUsername(ctx, "alice@example.com", "alice")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, uint(2), user.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("No Match", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE email = $1 OR username = $2 ORDER BY "users"."id" LIMIT $3`)).
			WithArgs("new@example.com", "newuser", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		user, err := repo.GetByEmailOrUsername(ctx, "new@example.com", "newuser")
		assert.NoError(t, err)
		assert.Nil(t, user)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Empty Arguments Rejected", func(t *testing.T) {
		_, err := repo.GetByEmailOrUsername(ctx, "", "alice")
		assert.Error(t, err)

		_, err = repo.GetByEmailOrUsername(ctx, "alice@example.com", "")
		assert.Error(t, err)
	})
}

func TestUserRepository_Create(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "$2a$12$notarealhashbutlongenough",
	}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotZero(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestUserRepository_CreateDuplicateIsAuthoritative(t *testing.T) {
	// The signup pre-check cannot prevent a concurrent insert; the store
	// constraint must be surfaced as the duplicate outcome.
	db := setupSQLiteDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	first := &models.User{Username: "bob", Email: "bob@example.com", Password: "$2a$12$hash"}
	require.NoError(t, repo.Create(ctx, first))

	t.Run("Duplicate Email", func(t *testing.T) {
		err := repo.Create(ctx, &models.User{Username: "robert", Email: "bob@example.com", Password: "$2a$12$hash"})
		require.Error(t, err)
		assert.True(t, models.IsDuplicate(err))
	})

	t.Run("Duplicate Username", func(t *testing.T) {
		err := repo.Create(ctx, &models.User{Username: "bob", Email: "other@example.com", Password: "$2a$12$hash"})
		require.Error(t, err)
		assert.True(t, models.IsDuplicate(err))
	})

	t.Run("Existing Row Unchanged", func(t *testing.T) {
		var got models.User
		require.NoError(t, db.First(&got, first.ID).Error)
		assert.Equal(t, "bob", got.Username)
		assert.Equal(t, "bob@example.com", got.Email)
	})
}

func TestUserRepository_GetByID(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	seeded := &models.User{
		Username: gofakeit.Username(),
		Email:    gofakeit.Email(),
		Password: "$2a$12$hash",
	}
	require.NoError(t, repo.Create(ctx, seeded))

	got, err := repo.GetByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, seeded.Username, got.Username)

	_, err = repo.GetByID(ctx, seeded.ID+1000)
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestIsUniqueConstraintError(t *testing.T) {
	assert.False(t, isUniqueConstraintError(nil))
	assert.False(t, isUniqueConstraintError(errors.New("connection refused")))
	assert.True(t, isUniqueConstraintError(gorm.ErrDuplicatedKey))
	assert.True(t, isUniqueConstraintError(errors.New(`ERROR: duplicate key value violates unique constraint "idx_users_email" (SQLSTATE 23505)`)))
	assert.True(t, isUniqueConstraintError(errors.New("UNIQUE constraint failed: users.email")))
}
