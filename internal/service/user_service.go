package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"platebook/internal/config"
	"platebook/internal/middleware"
	"platebook/internal/models"
	"platebook/internal/repository"
	"platebook/internal/validation"
)

// RegisterInput is the payload for creating an account.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

// UpdateProfileInput carries the editable profile fields. Nil pointers
// mean "leave unchanged".
type UpdateProfileInput struct {
	Username *string
	Email    *string
	Password *string
	FullName *string
	Headline *string
	Picture  *ProcessedImage
}

// UserService implements account management business logic.
type UserService struct {
	users repository.UserRepository
	media MediaStore
	cfg   *config.Config
}

// NewUserService returns a UserService wired to its dependencies.
func NewUserService(users repository.UserRepository, media MediaStore, cfg *config.Config) *UserService {
	return &UserService{users: users, media: media, cfg: cfg}
}

// Register validates the input, rejects duplicate identities and
// creates the account with a hashed password and the default avatar.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)

	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if in.FullName == "" {
		return nil, models.NewValidationError("Full name is required")
	}

	existing, err := s.users.GetByEmailOrUsername(ctx, in.Email, in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewValidationError("Email or Username already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username:       in.Username,
		Email:          in.Email,
		Password:       string(hash),
		FullName:       in.FullName,
		ProfilePicture: s.cfg.DefaultProfilePicture,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate resolves email+password to an account. The two failure
// messages are part of the public API contract.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewValidationError("Email salah")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, models.NewValidationError("Password salah!")
		}
		return nil, models.NewInternalError(err)
	}
	return user, nil
}

// GetByID fetches a single account for public display, served through
// the cache.
func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.users.GetCached(ctx, id)
}

// List returns all accounts ordered by id.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx, 0, 0)
}

// UpdateProfile applies the given changes to the target account. Only
// the account owner may edit it. A new picture replaces the stored one
// and the previous object is removed unless it is the shared default.
func (s *UserService) UpdateProfile(ctx context.Context, callerID, targetID uint, in UpdateProfileInput) (*models.User, error) {
	if err := models.RequireOwner(targetID, callerID, "You can only edit your own profile"); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if err := validation.ValidateUsername(username); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Username = username
	}
	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if err := validation.ValidateEmail(email); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Email = email
	}
	if in.Password != nil {
		if err := validation.ValidatePassword(*in.Password); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		user.Password = string(hash)
	}
	if in.FullName != nil {
		user.FullName = strings.TrimSpace(*in.FullName)
	}
	if in.Headline != nil {
		user.Headline = strings.TrimSpace(*in.Headline)
	}

	var replaced string
	if in.Picture != nil {
		url, err := s.media.Upload(ctx, ProfilePictureFolder, in.Picture.Content, in.Picture.ContentType)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		old := user.ProfilePicture
		user.ProfilePicture = url
		if old != "" && old != s.cfg.DefaultProfilePicture {
			replaced = old
		}
	}

	if err := s.users.Update(ctx, user); err != nil {
		if in.Picture != nil {
			// best effort: do not strand the uploaded object
			if delErr := s.media.Delete(ctx, user.ProfilePicture); delErr != nil {
				middleware.Logger.WarnContext(ctx, "failed to remove orphaned profile picture",
					slog.String("url", user.ProfilePicture), slog.Any("error", delErr))
			}
		}
		return nil, err
	}

	// Only remove the old object once the row points at the new one.
	if replaced != "" {
		if err := s.media.Delete(ctx, replaced); err != nil {
			middleware.Logger.WarnContext(ctx, "failed to remove replaced profile picture",
				slog.String("url", replaced), slog.Any("error", err))
		}
	}
	return user, nil
}

// Delete removes the target account and everything it owns. Only the
// account owner may delete it.
func (s *UserService) Delete(ctx context.Context, callerID, targetID uint) error {
	if err := models.RequireOwner(targetID, callerID, "You can only delete your own profile"); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return err
	}

	if user.ProfilePicture != "" && user.ProfilePicture != s.cfg.DefaultProfilePicture {
		if err := s.media.Delete(ctx, user.ProfilePicture); err != nil {
			middleware.Logger.WarnContext(ctx, "failed to remove profile picture",
				slog.String("url", user.ProfilePicture), slog.Any("error", err))
		}
	}

	return s.users.Delete(ctx, targetID)
}
