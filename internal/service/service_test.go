package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"platebook/internal/config"
	"platebook/internal/models"
	"platebook/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeMediaStore struct {
	uploads int
	deleted []string
	failUp  bool
}

func (m *fakeMediaStore) Upload(_ context.Context, folder string, _ []byte, _ string) (string, error) {
	if m.failUp {
		return "", errors.New("store unavailable")
	}
	m.uploads++
	return fmt.Sprintf("https://cdn.test/%s/u%d.webp", folder, m.uploads), nil
}

func (m *fakeMediaStore) Delete(_ context.Context, url string) error {
	m.deleted = append(m.deleted, url)
	return nil
}

func serviceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Recipe{}, &models.Comment{}))
	return db
}

func serviceTestConfig() *config.Config {
	return &config.Config{
		DefaultProfilePicture: "https://cdn.test/profile-pictures/default.jpg",
	}
}

func appErrCode(t *testing.T, err error) string {
	t.Helper()
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	return appErr.Code
}

func TestUserServiceRegister(t *testing.T) {
	db := serviceTestDB(t)
	cfg := serviceTestConfig()
	svc := NewUserService(repository.NewUserRepository(db), &fakeMediaStore{}, cfg)
	ctx := context.Background()

	t.Run("hashes password and assigns default picture", func(t *testing.T) {
		user, err := svc.Register(ctx, RegisterInput{
			Username: "alice", Email: "a@x.com", Password: "p1", FullName: "Alice",
		})
		require.NoError(t, err)
		assert.Equal(t, cfg.DefaultProfilePicture, user.ProfilePicture)
		assert.NotEqual(t, "p1", user.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("p1")))
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterInput{
			Username: "alice2", Email: "a@x.com", Password: "p1", FullName: "Alice Two",
		})
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", appErrCode(t, err))
	})

	t.Run("duplicate username", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterInput{
			Username: "alice", Email: "other@x.com", Password: "p1", FullName: "Other Alice",
		})
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", appErrCode(t, err))
	})

	t.Run("missing full name", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterInput{
			Username: "carol", Email: "c@x.com", Password: "p1",
		})
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", appErrCode(t, err))
	})
}

func TestUserServiceAuthenticate(t *testing.T) {
	db := serviceTestDB(t)
	svc := NewUserService(repository.NewUserRepository(db), &fakeMediaStore{}, serviceTestConfig())
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{
		Username: "alice", Email: "a@x.com", Password: "p1", FullName: "Alice",
	})
	require.NoError(t, err)

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "who@x.com", "p1")
		require.Error(t, err)
		assert.Equal(t, "Email salah", err.(*models.AppError).Message)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "a@x.com", "nope")
		require.Error(t, err)
		assert.Equal(t, "Password salah!", err.(*models.AppError).Message)
	})

	t.Run("success", func(t *testing.T) {
		user, err := svc.Authenticate(ctx, "a@x.com", "p1")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
	})
}

func TestUserServiceUpdateProfile(t *testing.T) {
	db := serviceTestDB(t)
	cfg := serviceTestConfig()
	media := &fakeMediaStore{}
	svc := NewUserService(repository.NewUserRepository(db), media, cfg)
	ctx := context.Background()

	alice, err := svc.Register(ctx, RegisterInput{
		Username: "alice", Email: "a@x.com", Password: "p1", FullName: "Alice",
	})
	require.NoError(t, err)

	t.Run("only the owner may edit", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, alice.ID+1, alice.ID, UpdateProfileInput{})
		require.Error(t, err)
		assert.Equal(t, "FORBIDDEN", appErrCode(t, err))
	})

	t.Run("new picture does not delete the shared default", func(t *testing.T) {
		updated, err := svc.UpdateProfile(ctx, alice.ID, alice.ID, UpdateProfileInput{
			Picture: &ProcessedImage{Content: []byte("img"), ContentType: "image/webp"},
		})
		require.NoError(t, err)
		assert.NotEqual(t, cfg.DefaultProfilePicture, updated.ProfilePicture)
		assert.NotContains(t, media.deleted, cfg.DefaultProfilePicture)
	})

	t.Run("replacing a custom picture deletes it", func(t *testing.T) {
		var before models.User
		require.NoError(t, db.First(&before, alice.ID).Error)

		_, err := svc.UpdateProfile(ctx, alice.ID, alice.ID, UpdateProfileInput{
			Picture: &ProcessedImage{Content: []byte("img2"), ContentType: "image/webp"},
		})
		require.NoError(t, err)
		assert.Contains(t, media.deleted, before.ProfilePicture)
	})

	t.Run("failed update keeps the current picture in the store", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterInput{
			Username: "bob", Email: "b@x.com", Password: "p2", FullName: "Bob",
		})
		require.NoError(t, err)

		var before models.User
		require.NoError(t, db.First(&before, alice.ID).Error)

		taken := "bob"
		_, err = svc.UpdateProfile(ctx, alice.ID, alice.ID, UpdateProfileInput{
			Username: &taken,
			Picture:  &ProcessedImage{Content: []byte("img3"), ContentType: "image/webp"},
		})
		require.Error(t, err)
		assert.NotContains(t, media.deleted, before.ProfilePicture)

		var after models.User
		require.NoError(t, db.First(&after, alice.ID).Error)
		assert.Equal(t, before.ProfilePicture, after.ProfilePicture)
	})

	t.Run("password change is re-hashed", func(t *testing.T) {
		newPassword := "p2"
		_, err := svc.UpdateProfile(ctx, alice.ID, alice.ID, UpdateProfileInput{
			Password: &newPassword,
		})
		require.NoError(t, err)

		_, err = svc.Authenticate(ctx, "a@x.com", "p2")
		assert.NoError(t, err)
		_, err = svc.Authenticate(ctx, "a@x.com", "p1")
		assert.Error(t, err)
	})
}

func TestRecipeServiceOwnership(t *testing.T) {
	db := serviceTestDB(t)
	media := &fakeMediaStore{}
	users := NewUserService(repository.NewUserRepository(db), media, serviceTestConfig())
	recipes := NewRecipeService(repository.NewRecipeRepository(db), media)
	ctx := context.Background()

	alice, err := users.Register(ctx, RegisterInput{Username: "alice", Email: "a@x.com", Password: "p1", FullName: "Alice"})
	require.NoError(t, err)
	bob, err := users.Register(ctx, RegisterInput{Username: "bob", Email: "b@x.com", Password: "p2", FullName: "Bob"})
	require.NoError(t, err)

	input := RecipeInput{
		Title: "Rendang", Description: "spiced beef", Ingredients: "beef", Instructions: "slow cook",
		Image: &ProcessedImage{Content: []byte("img"), ContentType: "image/webp"},
	}
	recipe, err := recipes.Create(ctx, alice.ID, input)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, recipe.UserID)

	t.Run("description is required on create", func(t *testing.T) {
		_, err := recipes.Create(ctx, alice.ID, RecipeInput{Title: "x", Ingredients: "y", Instructions: "z"})
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", appErrCode(t, err))
	})

	t.Run("image is optional on create", func(t *testing.T) {
		created, err := recipes.Create(ctx, alice.ID, RecipeInput{
			Title: "Lontong", Description: "rice cake", Ingredients: "rice", Instructions: "steam",
		})
		require.NoError(t, err)
		assert.Empty(t, created.ImageURL)
	})

	t.Run("failed upload aborts create", func(t *testing.T) {
		broken := NewRecipeService(repository.NewRecipeRepository(db), &fakeMediaStore{failUp: true})
		_, err := broken.Create(ctx, alice.ID, input)
		require.Error(t, err)
		assert.Equal(t, "INTERNAL_ERROR", appErrCode(t, err))
	})

	t.Run("non-owner update rejected", func(t *testing.T) {
		_, err := recipes.Update(ctx, bob.ID, recipe.ID, input)
		require.Error(t, err)
		assert.Equal(t, "FORBIDDEN", appErrCode(t, err))
	})

	t.Run("non-owner delete rejected and leaves the row", func(t *testing.T) {
		err := recipes.Delete(ctx, bob.ID, recipe.ID)
		require.Error(t, err)
		assert.Equal(t, "FORBIDDEN", appErrCode(t, err))

		var count int64
		db.Model(&models.Recipe{}).Where("id = ?", recipe.ID).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("empty fields keep stored values on update", func(t *testing.T) {
		updated, err := recipes.Update(ctx, alice.ID, recipe.ID, RecipeInput{Title: "Rendang Padang"})
		require.NoError(t, err)
		assert.Equal(t, "Rendang Padang", updated.Title)
		assert.Equal(t, "beef", updated.Ingredients)
		assert.Equal(t, "slow cook", updated.Instructions)
	})

	t.Run("owner delete removes row and image", func(t *testing.T) {
		require.NoError(t, recipes.Delete(ctx, alice.ID, recipe.ID))
		assert.Contains(t, media.deleted, recipe.ImageURL)

		_, err := recipes.GetByID(ctx, recipe.ID)
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", appErrCode(t, err))
	})
}

func TestCommentServiceOwnership(t *testing.T) {
	db := serviceTestDB(t)
	media := &fakeMediaStore{}
	users := NewUserService(repository.NewUserRepository(db), media, serviceTestConfig())
	recipes := NewRecipeService(repository.NewRecipeRepository(db), media)
	comments := NewCommentService(repository.NewCommentRepository(db), repository.NewRecipeRepository(db))
	ctx := context.Background()

	alice, err := users.Register(ctx, RegisterInput{Username: "alice", Email: "a@x.com", Password: "p1", FullName: "Alice"})
	require.NoError(t, err)
	bob, err := users.Register(ctx, RegisterInput{Username: "bob", Email: "b@x.com", Password: "p2", FullName: "Bob"})
	require.NoError(t, err)

	recipe, err := recipes.Create(ctx, alice.ID, RecipeInput{
		Title: "Soto", Description: "clear soup", Ingredients: "chicken", Instructions: "boil",
		Image: &ProcessedImage{Content: []byte("img"), ContentType: "image/webp"},
	})
	require.NoError(t, err)

	comment, err := comments.Create(ctx, bob.ID, recipe.ID, "tasty")
	require.NoError(t, err)

	t.Run("create on missing recipe", func(t *testing.T) {
		_, err := comments.Create(ctx, bob.ID, recipe.ID+100, "void")
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", appErrCode(t, err))
	})

	t.Run("recipe owner cannot edit another user's comment", func(t *testing.T) {
		_, err := comments.Update(ctx, alice.ID, comment.ID, "hijacked")
		require.Error(t, err)
		assert.Equal(t, "FORBIDDEN", appErrCode(t, err))
	})

	t.Run("author edits and deletes", func(t *testing.T) {
		updated, err := comments.Update(ctx, bob.ID, comment.ID, "very tasty")
		require.NoError(t, err)
		assert.Equal(t, "very tasty", updated.Content)

		require.NoError(t, comments.Delete(ctx, bob.ID, comment.ID))
		_, err = comments.GetByID(ctx, comment.ID)
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", appErrCode(t, err))
	})
}
