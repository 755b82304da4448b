package handler

import (
	"context"
	"net/http"
	"time"

	"foodgram/internal/http-api/dto"
	"foodgram/internal/http-api/middleware"
	"foodgram/internal/http-api/models"
	"foodgram/internal/http-api/repository"
	"foodgram/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves the /admin surface. Every route requires the admin role.
type AdminHandler struct {
	adminService        service.AdminService
	userService         service.UserService
	tagService          service.TagService
	ingredientService   service.IngredientService
	subscriptionService service.SubscriptionService
}

type AdminServices struct {
	Admin         service.AdminService
	Users         service.UserService
	Tags          service.TagService
	Ingredients   service.IngredientService
	Subscriptions service.SubscriptionService
}

func NewAdminHandler(svc AdminServices) *AdminHandler {
	return &AdminHandler{
		adminService:        svc.Admin,
		userService:         svc.Users,
		tagService:          svc.Tags,
		ingredientService:   svc.Ingredients,
		subscriptionService: svc.Subscriptions,
	}
}

func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.Use(middleware.RequireAdmin())

	rg.GET("/users/", h.ListUsers)
	rg.PATCH("/users/:id/", h.UpdateUser)
	rg.DELETE("/users/:id/", h.DeleteUser)

	rg.POST("/tags/", h.CreateTag)
	rg.PATCH("/tags/:id/", h.UpdateTag)
	rg.DELETE("/tags/:id/", h.DeleteTag)

	rg.GET("/ingredients/", h.ListIngredients)
	rg.POST("/ingredients/", h.CreateIngredient)
	rg.PATCH("/ingredients/:id/", h.UpdateIngredient)
	rg.DELETE("/ingredients/:id/", h.DeleteIngredient)

	rg.GET("/recipes/", h.ListRecipes)
	rg.PATCH("/recipes/:id/", h.UpdateRecipe)
	rg.DELETE("/recipes/:id/", h.DeleteRecipe)

	rg.GET("/subscriptions/", h.ListSubscriptions)
	rg.DELETE("/subscriptions/:id/", h.DeleteSubscription)
	rg.GET("/favorites/", h.ListFavorites)
	rg.DELETE("/favorites/:id/", h.DeleteFavorite)
	rg.GET("/shopping-carts/", h.ListShoppingCarts)
	rg.DELETE("/shopping-carts/:id/", h.DeleteCartItem)
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	page := pageFromQuery(c)
	users, total, err := h.userService.List(ctx, c.Query("search"), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPaginated(dto.FromModelsToAdminUserResponses(users), total, page, c.Request.URL))
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.AdminUserUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	// an admin cannot lock themselves out
	if id == viewerID(c) && req.Role != nil && *req.Role != models.RoleAdmin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "you cannot remove your own admin role"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	user, err := h.userService.Update(ctx, id, req.ToUpdate())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToAdminUserResponse(user))
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if id == viewerID(c) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "you cannot delete your own account"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.userService.Delete(ctx, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AdminHandler) CreateTag(c *gin.Context) {
	var req dto.CreateTagRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	tag, err := h.tagService.Create(ctx, req.Name, req.Slug)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromModelToTagResponse(tag))
}

func (h *AdminHandler) UpdateTag(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateTagRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	tag, err := h.tagService.Update(ctx, id, req.Name, req.Slug)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToTagResponse(tag))
}

func (h *AdminHandler) DeleteTag(c *gin.Context) {
	h.delete(c, h.tagService.Delete)
}

func (h *AdminHandler) ListIngredients(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	list, err := h.ingredientService.List(ctx, repository.IngredientFilter{Search: c.Query("search")})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelsToIngredientResponses(list))
}

func (h *AdminHandler) CreateIngredient(c *gin.Context) {
	var req dto.CreateIngredientRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	ing, err := h.ingredientService.Create(ctx, req.Name, req.MeasurementUnit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromModelToIngredientResponse(ing))
}

func (h *AdminHandler) UpdateIngredient(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateIngredientRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	ing, err := h.ingredientService.Update(ctx, id, req.Name, req.MeasurementUnit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToIngredientResponse(ing))
}

func (h *AdminHandler) DeleteIngredient(c *gin.Context) {
	h.delete(c, h.ingredientService.Delete)
}

func (h *AdminHandler) delete(c *gin.Context, remove func(context.Context, int64) error) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := remove(ctx, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListRecipes handles GET /admin/recipes/?tag=<slug>&search=
func (h *AdminHandler) ListRecipes(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	page := pageFromQuery(c)
	rows, total, err := h.adminService.Recipes(ctx, c.Query("tag"), c.Query("search"), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPaginated(dto.FromAdminRecipes(rows), total, page, c.Request.URL))
}

// UpdateRecipe edits any recipe; the payload matches the author's PATCH.
func (h *AdminHandler) UpdateRecipe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.RecipeWriteRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	row, err := h.adminService.UpdateRecipe(ctx, id, req.ToInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromAdminRecipe(*row))
}

func (h *AdminHandler) DeleteRecipe(c *gin.Context) {
	h.delete(c, h.adminService.DeleteRecipe)
}

func (h *AdminHandler) DeleteSubscription(c *gin.Context) {
	h.delete(c, h.adminService.DeleteSubscription)
}

func (h *AdminHandler) DeleteFavorite(c *gin.Context) {
	h.delete(c, h.adminService.DeleteFavorite)
}

func (h *AdminHandler) DeleteCartItem(c *gin.Context) {
	h.delete(c, h.adminService.DeleteCartItem)
}

func (h *AdminHandler) ListSubscriptions(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	page := pageFromQuery(c)
	rows, total, err := h.subscriptionService.All(ctx, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPaginated(dto.FromSubscriptions(rows), total, page, c.Request.URL))
}

func (h *AdminHandler) ListFavorites(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	page := pageFromQuery(c)
	rows, total, err := h.adminService.Favorites(ctx, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPaginated(dto.FromUserRecipes(rows), total, page, c.Request.URL))
}

func (h *AdminHandler) ListShoppingCarts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	page := pageFromQuery(c)
	rows, total, err := h.adminService.ShoppingCarts(ctx, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPaginated(dto.FromUserRecipes(rows), total, page, c.Request.URL))
}
