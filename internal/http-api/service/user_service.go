package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"foodgram/internal/http-api/middleware/auth"
	"foodgram/internal/http-api/models"
	"foodgram/internal/http-api/repository"
	"foodgram/internal/logging"
	"foodgram/internal/storage"
)

const (
	MinPasswordLength = 8
	// "me" would shadow the /users/me/ route
	reservedUsername = "me"
	avatarPrefix     = "users"
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

type RegisterInput struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
	Password  string
}

// UserUpdate is an admin edit of a user. Nil fields are left unchanged.
type UserUpdate struct {
	Email     *string
	Username  *string
	FirstName *string
	LastName  *string
	Role      *string
}

type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*models.User, error)
	CreateAdmin(ctx context.Context, in RegisterInput) (*models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context, search string, page repository.Page) ([]models.User, int64, error)
	SetPassword(ctx context.Context, userID int64, currentPassword, newPassword string) error
	SetAvatar(ctx context.Context, userID int64, dataURI string) (*models.User, error)
	DeleteAvatar(ctx context.Context, userID int64) error
	Update(ctx context.Context, id int64, in UserUpdate) (*models.User, error)
	Delete(ctx context.Context, id int64) error
}

type userService struct {
	userRepo       repository.UserRepository
	store          storage.Store
	maxUploadBytes int64
}

func NewUserService(userRepo repository.UserRepository, store storage.Store, maxUploadBytes int64) UserService {
	return &userService{
		userRepo:       userRepo,
		store:          store,
		maxUploadBytes: maxUploadBytes,
	}
}

// ValidUsername reports whether name is allowed as a username.
func ValidUsername(name string) bool {
	return usernamePattern.MatchString(name) && !strings.EqualFold(name, reservedUsername)
}

func validatePassword(v *ValidationError, field, password string) {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		v.Add(field, "This password is too short. It must contain at least 8 characters.")
		return
	}
	if strings.IndexFunc(password, func(r rune) bool { return !unicode.IsDigit(r) }) < 0 {
		v.Add(field, "This password is entirely numeric.")
	}
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	return s.create(ctx, in, models.RoleUser)
}

func (s *userService) CreateAdmin(ctx context.Context, in RegisterInput) (*models.User, error) {
	return s.create(ctx, in, models.RoleAdmin)
}

func (s *userService) create(ctx context.Context, in RegisterInput, role string) (*models.User, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Username = strings.TrimSpace(in.Username)

	v := &ValidationError{}
	if in.Email == "" {
		v.Add("email", "This field is required.")
	}
	if !ValidUsername(in.Username) {
		v.Add("username", "Enter a valid username.")
	}
	validatePassword(v, "password", in.Password)
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	// uniqueness is also enforced by the database; these give field-level messages
	if _, err := s.userRepo.FindByEmail(ctx, in.Email); err == nil {
		v.Add("email", "A user with that email already exists.")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if _, err := s.userRepo.FindByUsername(ctx, in.Username); err == nil {
		v.Add("username", "A user with that username already exists.")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:     in.Email,
		Username:  in.Username,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Password:  hash,
		Role:      role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Get(ctx context.Context, id int64) (*models.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

func (s *userService) List(ctx context.Context, search string, page repository.Page) ([]models.User, int64, error) {
	return s.userRepo.List(ctx, search, page)
}

func (s *userService) SetPassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := auth.VerifyPassword(user.Password, currentPassword); err != nil {
		return fieldError("current_password", "Invalid password.")
	}

	v := &ValidationError{}
	validatePassword(v, "new_password", newPassword)
	if err := v.OrNil(); err != nil {
		return err
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(ctx, userID, hash)
}

// SetAvatar stores a base64 data-URI image and replaces the previous avatar.
func (s *userService) SetAvatar(ctx context.Context, userID int64, dataURI string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(dataURI) == "" {
		return nil, fieldError("avatar", "This field is required.")
	}

	key, err := storage.SaveDataURI(ctx, s.store, avatarPrefix, dataURI, s.maxUploadBytes)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidImage) || errors.Is(err, storage.ErrImageTooLarge) {
			return nil, fieldError("avatar", err.Error())
		}
		return nil, err
	}

	if err := s.userRepo.UpdateAvatar(ctx, userID, &key); err != nil {
		s.discard(ctx, key)
		return nil, err
	}
	if user.Avatar != nil {
		s.discard(ctx, *user.Avatar)
	}
	user.Avatar = &key
	return user, nil
}

func (s *userService) DeleteAvatar(ctx context.Context, userID int64) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Avatar == nil || *user.Avatar == "" {
		return ErrNoAvatar
	}
	if err := s.userRepo.UpdateAvatar(ctx, userID, nil); err != nil {
		return err
	}
	s.discard(ctx, *user.Avatar)
	return nil
}

// Update applies an admin edit. Email and username stay unique across users.
func (s *userService) Update(ctx context.Context, id int64, in UserUpdate) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	v := &ValidationError{}
	fields := make(map[string]any)

	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if email == "" {
			v.Add("email", "This field may not be blank.")
		} else if !strings.EqualFold(email, user.Email) {
			if other, err := s.userRepo.FindByEmail(ctx, email); err == nil && other.ID != id {
				v.Add("email", "A user with that email already exists.")
			} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return nil, err
			}
			fields["email"] = email
		}
	}
	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if !ValidUsername(username) {
			v.Add("username", "Enter a valid username.")
		} else if username != user.Username {
			if other, err := s.userRepo.FindByUsername(ctx, username); err == nil && other.ID != id {
				v.Add("username", "A user with that username already exists.")
			} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return nil, err
			}
			fields["username"] = username
		}
	}
	if in.FirstName != nil {
		fields["first_name"] = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		fields["last_name"] = strings.TrimSpace(*in.LastName)
	}
	if in.Role != nil {
		switch *in.Role {
		case models.RoleUser, models.RoleAdmin:
			fields["role"] = *in.Role
		default:
			v.Add("role", "Role must be user or admin.")
		}
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	if len(fields) == 0 {
		return user, nil
	}
	if err := s.userRepo.UpdateProfile(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.userRepo.FindByID(ctx, id)
}

// Delete removes the user with everything they own, then their stored images.
func (s *userService) Delete(ctx context.Context, id int64) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	images, err := s.userRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if user.Avatar != nil && *user.Avatar != "" {
		images = append(images, *user.Avatar)
	}
	for _, key := range images {
		s.discard(ctx, key)
	}
	return nil
}

func (s *userService) discard(ctx context.Context, key string) {
	if err := s.store.Delete(ctx, key); err != nil {
		logging.Warn().Err(err).Str("key", key).Msg("Failed to delete stored image")
	}
}
