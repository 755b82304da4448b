package handler

import (
	"net/http"
	"testing"

	"foodgram/internal/http-api/models"
	"foodgram/internal/http-api/repository"
	"foodgram/internal/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func userRouter(mw ...gin.HandlerFunc) (*gin.Engine, *MockUserService, *MockSubscriptionService) {
	userService := new(MockUserService)
	subService := new(MockSubscriptionService)
	r, api := setupRouter(mw...)
	NewUserHandler(userService, subService, testMedia).RegisterRoutes(api.Group("/users"))
	return r, userService, subService
}

func TestRegister_Success(t *testing.T) {
	r, userService, _ := userRouter()

	in := service.RegisterInput{
		Email:     "cook@example.com",
		Username:  "cook",
		FirstName: "Ivan",
		LastName:  "Petrov",
		Password:  "long-password",
	}
	userService.On("Register", mock.Anything, in).Return(&models.User{
		ID: 1, Email: in.Email, Username: in.Username, FirstName: in.FirstName, LastName: in.LastName,
	}, nil)

	w := perform(r, http.MethodPost, "/api/users/", map[string]string{
		"email":      in.Email,
		"username":   in.Username,
		"first_name": in.FirstName,
		"last_name":  in.LastName,
		"password":   in.Password,
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(1), body["id"])
	assert.Equal(t, "cook", body["username"])
	assert.NotContains(t, body, "password")
	assert.NotContains(t, body, "is_subscribed")
}

func TestRegister_InvalidUsername(t *testing.T) {
	r, userService, _ := userRouter()

	w := perform(r, http.MethodPost, "/api/users/", map[string]string{
		"email":      "cook@example.com",
		"username":   "bad name!",
		"first_name": "Ivan",
		"last_name":  "Petrov",
		"password":   "long-password",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["fields"], "username")
	userService.AssertNotCalled(t, "Register")
}

func TestRegister_Duplicate(t *testing.T) {
	r, userService, _ := userRouter()

	userService.On("Register", mock.Anything, mock.Anything).
		Return(nil, &service.ValidationError{Fields: map[string]string{"email": "A user with that email already exists."}})

	w := perform(r, http.MethodPost, "/api/users/", map[string]string{
		"email":      "cook@example.com",
		"username":   "cook",
		"first_name": "Ivan",
		"last_name":  "Petrov",
		"password":   "long-password",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "A user with that email already exists.", decode(t, w)["fields"].(map[string]any)["email"])
}

func TestListUsers_Paginated(t *testing.T) {
	r, userService, subService := userRouter(withUser(9, models.RoleUser))

	users := []models.User{{ID: 1, Username: "a"}, {ID: 2, Username: "b"}}
	userService.On("List", mock.Anything, "", repository.NewPage(1, 2)).Return(users, int64(5), nil)
	subService.On("SubscribedTo", mock.Anything, int64(9), []int64{1, 2}).Return(map[int64]bool{2: true}, nil)

	w := perform(r, http.MethodGet, "/api/users/?limit=2", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(5), body["count"])
	assert.Nil(t, body["previous"])
	assert.Contains(t, body["next"], "page=2")
	results := body["results"].([]any)
	assert.Len(t, results, 2)
	assert.Equal(t, false, results[0].(map[string]any)["is_subscribed"])
	assert.Equal(t, true, results[1].(map[string]any)["is_subscribed"])
}

func TestGetUser_NotFound(t *testing.T) {
	r, userService, _ := userRouter()

	userService.On("Get", mock.Anything, int64(42)).Return(nil, service.ErrNotFound)

	assert.Equal(t, http.StatusNotFound, perform(r, http.MethodGet, "/api/users/42/", nil).Code)
	assert.Equal(t, http.StatusNotFound, perform(r, http.MethodGet, "/api/users/abc/", nil).Code)
}

func TestMe(t *testing.T) {
	r, userService, _ := userRouter()
	assert.Equal(t, http.StatusUnauthorized, perform(r, http.MethodGet, "/api/users/me/", nil).Code)

	r, userService, subService := userRouter(withUser(4, models.RoleUser))
	avatar := "users/a.png"
	userService.On("Get", mock.Anything, int64(4)).Return(&models.User{ID: 4, Username: "me4", Avatar: &avatar}, nil)
	subService.On("SubscribedTo", mock.Anything, int64(4), []int64{4}).Return(map[int64]bool{}, nil)

	w := perform(r, http.MethodGet, "/api/users/me/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "me4", body["username"])
	assert.Equal(t, "http://testserver/media/users/a.png", body["avatar"])
}

func TestSetPassword_WrongCurrent(t *testing.T) {
	r, userService, _ := userRouter(withUser(4, models.RoleUser))

	userService.On("SetPassword", mock.Anything, int64(4), "old", "new-password").
		Return(&service.ValidationError{Fields: map[string]string{"current_password": "Invalid password."}})

	w := perform(r, http.MethodPost, "/api/users/set_password/", map[string]string{
		"current_password": "old",
		"new_password":     "new-password",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAvatar(t *testing.T) {
	r, userService, _ := userRouter(withUser(4, models.RoleUser))

	key := "users/new.png"
	userService.On("SetAvatar", mock.Anything, int64(4), "data:image/png;base64,AAAA").
		Return(&models.User{ID: 4, Avatar: &key}, nil)
	userService.On("DeleteAvatar", mock.Anything, int64(4)).Return(service.ErrNoAvatar).Once()

	w := perform(r, http.MethodPut, "/api/users/me/avatar/", map[string]string{"avatar": "data:image/png;base64,AAAA"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://testserver/media/users/new.png", decode(t, w)["avatar"])

	w = perform(r, http.MethodPut, "/api/users/me/avatar/", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(r, http.MethodDelete, "/api/users/me/avatar/", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubscribe(t *testing.T) {
	r, _, subService := userRouter(withUser(4, models.RoleUser))

	feed := &service.AuthorFeed{
		Author:       models.User{ID: 7, Username: "chef"},
		Recipes:      []models.Recipe{{ID: 11, Name: "Soup", Image: "recipes/images/s.png", CookingTime: 30}},
		RecipesCount: 3,
	}
	subService.On("Subscribe", mock.Anything, int64(4), int64(7), 1).Return(feed, nil)
	subService.On("Subscribe", mock.Anything, int64(4), int64(4), 0).Return(nil, service.ErrSelfSubscription)
	subService.On("Unsubscribe", mock.Anything, int64(4), int64(7)).Return(service.ErrNotSubscribed)

	w := perform(r, http.MethodPost, "/api/users/7/subscribe/?recipes_limit=1", nil)
	assert.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["is_subscribed"])
	assert.Equal(t, float64(3), body["recipes_count"])
	assert.Len(t, body["recipes"], 1)

	w = perform(r, http.MethodPost, "/api/users/4/subscribe/", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(r, http.MethodDelete, "/api/users/7/subscribe/", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubscriptions(t *testing.T) {
	r, _, subService := userRouter(withUser(4, models.RoleUser))

	feeds := []service.AuthorFeed{{Author: models.User{ID: 7}, RecipesCount: 0}}
	subService.On("List", mock.Anything, int64(4), repository.NewPage(1, repository.DefaultPageSize), 2).Return(feeds, int64(1), nil)

	w := perform(r, http.MethodGet, "/api/users/subscriptions/?recipes_limit=2", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(1), body["count"])
	assert.Nil(t, body["next"])
}
