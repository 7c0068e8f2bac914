package repository

import (
	"context"
	"errors"
	"testing"

	"platebook/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestUserRepository_GetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "username", "email"}).
			AddRow(1, "testuser", "test@example.com")
		mock.ExpectQuery(`SELECT \* FROM "users" WHERE "users"\."id" = \$1`).
			WillReturnRows(rows)

		user, err := repo.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "testuser", user.Username)
	})

	t.Run("not found maps to NOT_FOUND", func(t *testing.T) {
		mock.ExpectQuery(`SELECT \* FROM "users" WHERE "users"\."id" = \$1`).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.GetByID(ctx, 99)
		require.Error(t, err)
		var appErr *models.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, "NOT_FOUND", appErr.Code)
	})

	t.Run("db failure maps to INTERNAL_ERROR", func(t *testing.T) {
		mock.ExpectQuery(`SELECT \* FROM "users" WHERE "users"\."id" = \$1`).
			WillReturnError(errors.New("connection refused"))

		_, err := repo.GetByID(ctx, 1)
		require.Error(t, err)
		var appErr *models.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, "INTERNAL_ERROR", appErr.Code)
	})
}

func TestUserRepository_GetByEmail(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "username", "email"}).
			AddRow(2, "alice", "a@x.com")
		mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
			WillReturnRows(rows)

		user, err := repo.GetByEmail(ctx, "a@x.com")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, uint(2), user.ID)
	})

	t.Run("absent yields nil without error", func(t *testing.T) {
		mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
			WillReturnError(gorm.ErrRecordNotFound)

		user, err := repo.GetByEmail(ctx, "nobody@x.com")
		require.NoError(t, err)
		assert.Nil(t, user)
	})
}

func TestUserRepository_GetByRefreshToken(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	t.Run("unknown token yields nil without error", func(t *testing.T) {
		mock.ExpectQuery(`SELECT \* FROM "users" WHERE refresh_token = \$1`).
			WillReturnError(gorm.ErrRecordNotFound)

		user, err := repo.GetByRefreshToken(ctx, "some-token")
		require.NoError(t, err)
		assert.Nil(t, user)
	})
}

func TestIsUniqueConstraintError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"postgres duplicate key", errors.New(`duplicate key value violates unique constraint "idx_users_email"`), true},
		{"postgres sqlstate", errors.New("ERROR: something (SQLSTATE 23505)"), true},
		{"sqlite unique", errors.New("UNIQUE constraint failed: users.email"), true},
		{"unrelated", errors.New("connection reset by peer"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUniqueConstraintError(tt.err))
		})
	}
}
