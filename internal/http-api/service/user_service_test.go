package service

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"foodgram/internal/http-api/middleware/auth"
	"foodgram/internal/http-api/models"
	"foodgram/internal/http-api/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func validRegistration() RegisterInput {
	return RegisterInput{
		Email:     "cook@example.com",
		Username:  "cook",
		FirstName: "Jamie",
		LastName:  "Oliver",
		Password:  "password123",
	}
}

func TestRegister_Success(t *testing.T) {
	users := new(MockUserRepository)
	svc := NewUserService(users, newMemStore(), 0)
	ctx := context.Background()

	users.On("FindByEmail", ctx, "cook@example.com").Return(nil, repository.ErrNotFound)
	users.On("FindByUsername", ctx, "cook").Return(nil, repository.ErrNotFound)
	users.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(nil)

	user, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)
	assert.Equal(t, "cook", user.Username)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "password123", user.Password)
	assert.NoError(t, auth.VerifyPassword(user.Password, "password123"))
	users.AssertExpectations(t)
}

func TestRegister_DuplicateEmailAndUsername(t *testing.T) {
	users := new(MockUserRepository)
	svc := NewUserService(users, newMemStore(), 0)
	ctx := context.Background()

	users.On("FindByEmail", ctx, "cook@example.com").Return(&models.User{ID: 1}, nil)
	users.On("FindByUsername", ctx, "cook").Return(&models.User{ID: 1}, nil)

	_, err := svc.Register(ctx, validRegistration())
	require.ErrorIs(t, err, ErrValidation)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "username")
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_InvalidFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RegisterInput)
		field  string
	}{
		{"bad username", func(in *RegisterInput) { in.Username = "bad name!" }, "username"},
		{"reserved username", func(in *RegisterInput) { in.Username = "me" }, "username"},
		{"short password", func(in *RegisterInput) { in.Password = "short" }, "password"},
		{"numeric password", func(in *RegisterInput) { in.Password = "1234567890" }, "password"},
		{"missing email", func(in *RegisterInput) { in.Email = " " }, "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewUserService(new(MockUserRepository), newMemStore(), 0)
			in := validRegistration()
			tt.mutate(&in)

			_, err := svc.Register(context.Background(), in)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Contains(t, verr.Fields, tt.field)
		})
	}
}

func TestCreateAdmin(t *testing.T) {
	users := new(MockUserRepository)
	svc := NewUserService(users, newMemStore(), 0)
	ctx := context.Background()

	users.On("FindByEmail", ctx, mock.Anything).Return(nil, repository.ErrNotFound)
	users.On("FindByUsername", ctx, mock.Anything).Return(nil, repository.ErrNotFound)
	users.On("Create", ctx, mock.MatchedBy(func(u *models.User) bool { return u.Role == models.RoleAdmin })).Return(nil)

	user, err := svc.CreateAdmin(ctx, validRegistration())
	require.NoError(t, err)
	assert.True(t, user.IsAdmin())
}

func TestSetPassword(t *testing.T) {
	users := new(MockUserRepository)
	svc := NewUserService(users, newMemStore(), 0)
	ctx := context.Background()

	hash, err := auth.HashPassword("old-password")
	require.NoError(t, err)
	users.On("FindByID", ctx, int64(1)).Return(&models.User{ID: 1, Password: hash}, nil)
	users.On("UpdatePassword", ctx, int64(1), mock.AnythingOfType("string")).Return(nil)

	require.NoError(t, svc.SetPassword(ctx, 1, "old-password", "new-password"))
	users.AssertExpectations(t)
}

func TestSetPassword_WrongCurrent(t *testing.T) {
	users := new(MockUserRepository)
	svc := NewUserService(users, newMemStore(), 0)
	ctx := context.Background()

	hash, err := auth.HashPassword("old-password")
	require.NoError(t, err)
	users.On("FindByID", ctx, int64(1)).Return(&models.User{ID: 1, Password: hash}, nil)

	err = svc.SetPassword(ctx, 1, "guess", "new-password")
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "current_password")
	users.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
}

func avatarURI() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("png-bytes"))
}

func TestSetAvatar_ReplacesPrevious(t *testing.T) {
	users := new(MockUserRepository)
	store := newMemStore()
	svc := NewUserService(users, store, 0)
	ctx := context.Background()

	old := "users/old.png"
	require.NoError(t, store.Save(ctx, old, []byte("x"), "image/png"))
	users.On("FindByID", ctx, int64(1)).Return(&models.User{ID: 1, Avatar: &old}, nil)
	users.On("UpdateAvatar", ctx, int64(1), mock.AnythingOfType("*string")).Return(nil)

	user, err := svc.SetAvatar(ctx, 1, avatarURI())
	require.NoError(t, err)
	require.NotNil(t, user.Avatar)
	assert.True(t, store.has(*user.Avatar))
	assert.False(t, store.has(old))
}

func TestSetAvatar_Invalid(t *testing.T) {
	users := new(MockUserRepository)
	svc := NewUserService(users, newMemStore(), 0)
	ctx := context.Background()

	users.On("FindByID", ctx, int64(1)).Return(&models.User{ID: 1}, nil)

	for _, uri := range []string{"", "not-an-image"} {
		_, err := svc.SetAvatar(ctx, 1, uri)
		var verr *ValidationError
		require.True(t, errors.As(err, &verr), uri)
		assert.Contains(t, verr.Fields, "avatar")
	}
}

func TestDeleteAvatar(t *testing.T) {
	users := new(MockUserRepository)
	store := newMemStore()
	svc := NewUserService(users, store, 0)
	ctx := context.Background()

	key := "users/a.png"
	require.NoError(t, store.Save(ctx, key, []byte("x"), "image/png"))
	users.On("FindByID", ctx, int64(1)).Return(&models.User{ID: 1, Avatar: &key}, nil)
	users.On("FindByID", ctx, int64(2)).Return(&models.User{ID: 2}, nil)
	users.On("UpdateAvatar", ctx, int64(1), (*string)(nil)).Return(nil)

	require.NoError(t, svc.DeleteAvatar(ctx, 1))
	assert.False(t, store.has(key))

	assert.ErrorIs(t, svc.DeleteAvatar(ctx, 2), ErrNoAvatar)
}

func TestValidUsername(t *testing.T) {
	assert.True(t, ValidUsername("chef.bob+1@home-kitchen"))
	assert.False(t, ValidUsername("chef bob"))
	assert.False(t, ValidUsername("Me"))
	assert.False(t, ValidUsername(""))
}

func TestUserUpdate(t *testing.T) {
	users := new(MockUserRepository)
	svc := NewUserService(users, newMemStore(), 0)
	ctx := context.Background()

	role := models.RoleAdmin
	first := " Gordon "
	users.On("FindByID", ctx, int64(4)).Return(&models.User{ID: 4, Username: "cook", Email: "cook@example.com"}, nil).Once()
	users.On("UpdateProfile", ctx, int64(4), map[string]any{"role": models.RoleAdmin, "first_name": "Gordon"}).Return(nil)
	users.On("FindByID", ctx, int64(4)).Return(&models.User{ID: 4, Username: "cook", FirstName: "Gordon", Role: models.RoleAdmin}, nil).Once()

	user, err := svc.Update(ctx, 4, UserUpdate{FirstName: &first, Role: &role})
	require.NoError(t, err)
	assert.Equal(t, "Gordon", user.FirstName)
	assert.True(t, user.IsAdmin())
	users.AssertExpectations(t)
}

func TestUserUpdate_Validation(t *testing.T) {
	users := new(MockUserRepository)
	svc := NewUserService(users, newMemStore(), 0)
	ctx := context.Background()

	users.On("FindByID", ctx, int64(4)).Return(&models.User{ID: 4, Username: "cook", Email: "cook@example.com"}, nil)
	users.On("FindByUsername", ctx, "taken").Return(&models.User{ID: 9}, nil)

	role := "owner"
	taken := "taken"
	_, err := svc.Update(ctx, 4, UserUpdate{Username: &taken, Role: &role})

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "username")
	assert.Contains(t, verr.Fields, "role")
	users.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserUpdate_Unchanged(t *testing.T) {
	users := new(MockUserRepository)
	svc := NewUserService(users, newMemStore(), 0)
	ctx := context.Background()

	users.On("FindByID", ctx, int64(4)).Return(&models.User{ID: 4, Username: "cook", Email: "cook@example.com"}, nil)

	same := "cook"
	user, err := svc.Update(ctx, 4, UserUpdate{Username: &same})
	require.NoError(t, err)
	assert.Equal(t, "cook", user.Username)
	users.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserDelete_RemovesImages(t *testing.T) {
	users := new(MockUserRepository)
	store := newMemStore()
	svc := NewUserService(users, store, 0)
	ctx := context.Background()

	avatar := "users/a.png"
	recipeImage := "recipes/images/r.png"
	require.NoError(t, store.Save(ctx, avatar, []byte("a"), "image/png"))
	require.NoError(t, store.Save(ctx, recipeImage, []byte("r"), "image/png"))

	users.On("FindByID", ctx, int64(4)).Return(&models.User{ID: 4, Avatar: &avatar}, nil)
	users.On("FindByID", ctx, int64(5)).Return(nil, repository.ErrNotFound)
	users.On("Delete", ctx, int64(4)).Return([]string{recipeImage}, nil)

	require.NoError(t, svc.Delete(ctx, 4))
	assert.False(t, store.has(avatar))
	assert.False(t, store.has(recipeImage))

	assert.ErrorIs(t, svc.Delete(ctx, 5), ErrNotFound)
	users.AssertNotCalled(t, "Delete", ctx, int64(5))
}
