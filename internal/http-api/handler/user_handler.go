package handler

import (
	"context"
	"net/http"
	"time"

	"foodgram/internal/http-api/dto"
	"foodgram/internal/http-api/middleware"
	"foodgram/internal/http-api/models"
	"foodgram/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService         service.UserService
	subscriptionService service.SubscriptionService
	media               dto.MediaURLs
}

func NewUserHandler(userService service.UserService, subscriptionService service.SubscriptionService, media dto.MediaURLs) *UserHandler {
	return &UserHandler{
		userService:         userService,
		subscriptionService: subscriptionService,
		media:               media,
	}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.List)
	rg.POST("/", h.Register)
	rg.GET("/me/", middleware.RequireAuth(), h.Me)
	rg.POST("/set_password/", middleware.RequireAuth(), h.SetPassword)
	rg.PUT("/me/avatar/", middleware.RequireAuth(), h.SetAvatar)
	rg.DELETE("/me/avatar/", middleware.RequireAuth(), h.DeleteAvatar)
	rg.GET("/subscriptions/", middleware.RequireAuth(), h.Subscriptions)
	rg.GET("/:id/", h.Get)
	rg.POST("/:id/subscribe/", middleware.RequireAuth(), h.Subscribe)
	rg.DELETE("/:id/subscribe/", middleware.RequireAuth(), h.Unsubscribe)
}

// subscribedTo returns the caller's subscription marks for users; nil for anonymous callers.
func (h *UserHandler) subscribedTo(ctx context.Context, viewer int64, users ...models.User) (map[int64]bool, error) {
	if viewer == 0 || len(users) == 0 {
		return nil, nil
	}
	ids := make([]int64, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return h.subscriptionService.SubscribedTo(ctx, viewer, ids)
}

func (h *UserHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	page := pageFromQuery(c)
	users, total, err := h.userService.List(ctx, "", page)
	if err != nil {
		respondError(c, err)
		return
	}
	subscribed, err := h.subscribedTo(ctx, viewerID(c), users...)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPaginated(dto.FromModelsToUserResponses(users, subscribed, h.media), total, page, c.Request.URL))
}

func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	user, err := h.userService.Register(ctx, service.RegisterInput{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromModelToRegisterResponse(user))
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	h.render(c, id)
}

func (h *UserHandler) Me(c *gin.Context) {
	h.render(c, viewerID(c))
}

func (h *UserHandler) render(c *gin.Context, id int64) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	user, err := h.userService.Get(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	subscribed, err := h.subscribedTo(ctx, viewerID(c), *user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToUserResponse(user, subscribed[user.ID], h.media))
}

func (h *UserHandler) SetPassword(c *gin.Context) {
	var req dto.SetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.userService.SetPassword(ctx, viewerID(c), req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) SetAvatar(c *gin.Context) {
	var req dto.AvatarRequest
	if !bindJSON(c, &req) {
		return
	}

	// uploads can be slow on the S3 backend
	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	user, err := h.userService.SetAvatar(ctx, viewerID(c), req.Avatar)
	if err != nil {
		respondError(c, err)
		return
	}
	var avatar string
	if resp := dto.FromModelToUserResponse(user, false, h.media); resp.Avatar != nil {
		avatar = *resp.Avatar
	}
	c.JSON(http.StatusOK, dto.AvatarResponse{Avatar: avatar})
}

func (h *UserHandler) DeleteAvatar(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.userService.DeleteAvatar(ctx, viewerID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Subscriptions(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	page := pageFromQuery(c)
	feeds, total, err := h.subscriptionService.List(ctx, viewerID(c), page, recipesLimit(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPaginated(dto.FromAuthorFeeds(feeds, h.media), total, page, c.Request.URL))
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	feed, err := h.subscriptionService.Subscribe(ctx, viewerID(c), id, recipesLimit(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromAuthorFeed(feed, h.media))
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.subscriptionService.Unsubscribe(ctx, viewerID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
