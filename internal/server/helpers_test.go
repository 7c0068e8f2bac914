package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"platebook/internal/config"
	"platebook/internal/database"
	"platebook/internal/models"
	"platebook/internal/repository"
	"platebook/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// stubMediaStore records uploads and deletes without touching S3.
type stubMediaStore struct {
	uploads int
	deleted []string
}

func (m *stubMediaStore) Upload(_ context.Context, folder string, _ []byte, _ string) (string, error) {
	m.uploads++
	return fmt.Sprintf("https://cdn.test/%s/upload-%d.webp", folder, m.uploads), nil
}

func (m *stubMediaStore) Delete(_ context.Context, url string) error {
	m.deleted = append(m.deleted, url)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Port:                  "0",
		Env:                   "test",
		AccessSecret:          "test-access-secret",
		RefreshSecret:         "test-refresh-secret",
		DefaultProfilePicture: "https://cdn.test/profile-pictures/default.jpg",
		ImageMaxUploadSizeMB:  10,
	}
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

// setupTestServer wires a full Server against in-memory SQLite and a
// stub media store, with all routes registered.
func setupTestServer(t *testing.T) (*Server, *fiber.App, *stubMediaStore) {
	t.Helper()
	db := setupTestDB(t)
	cfg := testConfig()
	media := &stubMediaStore{}

	userRepo := repository.NewUserRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	s := &Server{
		config:      cfg,
		db:          db,
		userRepo:    userRepo,
		recipeRepo:  recipeRepo,
		commentRepo: commentRepo,
		media:       media,
	}
	s.userService = service.NewUserService(userRepo, media, cfg)
	s.recipeService = service.NewRecipeService(recipeRepo, media)
	s.commentService = service.NewCommentService(commentRepo, recipeRepo)

	app := fiber.New(fiber.Config{BodyLimit: 20 * 1024 * 1024})
	s.SetupRoutes(app)
	return s, app, media
}

func createTestUser(t *testing.T, db *gorm.DB, username, email, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		Username:       username,
		Email:          email,
		Password:       string(hash),
		FullName:       username + " Test",
		ProfilePicture: "https://cdn.test/profile-pictures/default.jpg",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func loginAs(t *testing.T, s *Server, user *models.User) string {
	t.Helper()
	token, err := s.issueAccessToken(user, AccessTokenTTL)
	require.NoError(t, err)
	return token
}

func jsonRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// testJPEG returns a small encoded JPEG suitable for upload tests.
func testJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

// multipartRequest builds a multipart form request with text fields and
// an optional image file.
func multipartRequest(t *testing.T, method, path string, fields map[string]string, fileField string, fileContent []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileField != "" {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename="image.jpg"`, fileField))
		h.Set("Content-Type", "image/jpeg")
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(fileContent)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}
