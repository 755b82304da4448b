package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"foodgram/internal/http-api/dto"
	"foodgram/internal/http-api/middleware"
	"foodgram/internal/http-api/models"
	"foodgram/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

const shoppingListFilename = "shopping_cart.txt"

type RecipeHandler struct {
	recipeService       service.RecipeService
	subscriptionService service.SubscriptionService
	media               dto.MediaURLs
}

func NewRecipeHandler(recipeService service.RecipeService, subscriptionService service.SubscriptionService, media dto.MediaURLs) *RecipeHandler {
	return &RecipeHandler{
		recipeService:       recipeService,
		subscriptionService: subscriptionService,
		media:               media,
	}
}

func (h *RecipeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.List)
	rg.POST("/", middleware.RequireAuth(), h.Create)
	rg.GET("/download_shopping_cart/", middleware.RequireAuth(), h.DownloadShoppingCart)
	rg.GET("/:id/", h.Get)
	rg.PATCH("/:id/", middleware.RequireAuth(), h.Update)
	rg.PUT("/:id/", h.Replace)
	rg.DELETE("/:id/", middleware.RequireAuth(), h.Delete)
	rg.GET("/:id/get-link/", h.GetLink)
	rg.POST("/:id/favorite/", middleware.RequireAuth(), h.AddFavorite)
	rg.DELETE("/:id/favorite/", middleware.RequireAuth(), h.RemoveFavorite)
	rg.POST("/:id/shopping_cart/", middleware.RequireAuth(), h.AddToCart)
	rg.DELETE("/:id/shopping_cart/", middleware.RequireAuth(), h.RemoveFromCart)
}

// RegisterShortLinks mounts the /s/:code redirect outside the API prefix.
func (h *RecipeHandler) RegisterShortLinks(r gin.IRoutes) {
	r.GET("/s/:code", h.ResolveShortLink)
}

// view collects the viewer-dependent marks for recipes.
func (h *RecipeHandler) view(ctx context.Context, viewer int64, recipes ...models.Recipe) (dto.RecipeView, error) {
	view := dto.RecipeView{Media: h.media}
	if viewer == 0 || len(recipes) == 0 {
		return view, nil
	}

	recipeIDs := make([]int64, 0, len(recipes))
	authorIDs := make([]int64, 0, len(recipes))
	for _, r := range recipes {
		recipeIDs = append(recipeIDs, r.ID)
		authorIDs = append(authorIDs, r.AuthorID)
	}

	marks, err := h.recipeService.Marks(ctx, viewer, recipeIDs)
	if err != nil {
		return view, err
	}
	subscribed, err := h.subscriptionService.SubscribedTo(ctx, viewer, authorIDs)
	if err != nil {
		return view, err
	}
	view.Marks = marks
	view.Subscribed = subscribed
	return view, nil
}

// List handles GET /recipes/?tags=&author=&is_favorited=&is_in_shopping_cart=
func (h *RecipeHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	q := service.RecipeQuery{
		Tags:      c.QueryArray("tags"),
		Favorited: boolQuery(c, "is_favorited"),
		InCart:    boolQuery(c, "is_in_shopping_cart"),
		Search:    c.Query("name"),
	}
	if a := c.Query("author"); a != "" {
		authorID, err := strconv.ParseInt(a, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author"})
			return
		}
		q.AuthorID = authorID
	}

	page := pageFromQuery(c)
	viewer := viewerID(c)
	recipes, total, err := h.recipeService.List(ctx, viewer, q, page)
	if err != nil {
		respondError(c, err)
		return
	}
	view, err := h.view(ctx, viewer, recipes...)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPaginated(dto.FromModelsToRecipeResponses(recipes, view), total, page, c.Request.URL))
}

func (h *RecipeHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	recipe, err := h.recipeService.Get(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	h.render(ctx, c, http.StatusOK, recipe)
}

func (h *RecipeHandler) render(ctx context.Context, c *gin.Context, status int, recipe *models.Recipe) {
	view, err := h.view(ctx, viewerID(c), *recipe)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, dto.FromModelToRecipeResponse(recipe, view))
}

func (h *RecipeHandler) Create(c *gin.Context) {
	var req dto.RecipeWriteRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	recipe, err := h.recipeService.Create(ctx, viewerID(c), req.ToInput())
	if err != nil {
		respondError(c, err)
		return
	}
	h.render(ctx, c, http.StatusCreated, recipe)
}

// Update handles PATCH /recipes/:id/. Only the author may edit.
func (h *RecipeHandler) Update(c *gin.Context) {
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

	recipe, err := h.recipeService.Update(ctx, viewerID(c), id, req.ToInput())
	if err != nil {
		respondError(c, err)
		return
	}
	h.render(ctx, c, http.StatusOK, recipe)
}

// Replace rejects PUT; recipes are edited with PATCH.
func (h *RecipeHandler) Replace(c *gin.Context) {
	c.JSON(http.StatusForbidden, gin.H{"error": "full replacement is not allowed, use PATCH"})
}

func (h *RecipeHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.recipeService.Delete(ctx, viewerID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) AddFavorite(c *gin.Context) {
	h.addTo(c, h.recipeService.AddFavorite)
}

func (h *RecipeHandler) RemoveFavorite(c *gin.Context) {
	h.removeFrom(c, h.recipeService.RemoveFavorite)
}

func (h *RecipeHandler) AddToCart(c *gin.Context) {
	h.addTo(c, h.recipeService.AddToCart)
}

func (h *RecipeHandler) RemoveFromCart(c *gin.Context) {
	h.removeFrom(c, h.recipeService.RemoveFromCart)
}

func (h *RecipeHandler) addTo(c *gin.Context, add func(context.Context, int64, int64) (*models.Recipe, error)) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	recipe, err := add(ctx, viewerID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromModelToRecipeShortResponse(recipe, h.media))
}

func (h *RecipeHandler) removeFrom(c *gin.Context, remove func(context.Context, int64, int64) error) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := remove(ctx, viewerID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DownloadShoppingCart serves the aggregated shopping list as a text attachment.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	items, err := h.recipeService.ShoppingList(ctx, viewerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if len(items) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+shoppingListFilename+`"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(service.RenderShoppingList(items)))
}

// GetLink handles GET /recipes/:id/get-link/
func (h *RecipeHandler) GetLink(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	code, err := h.recipeService.ShortCode(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ShortLinkResponse{ShortLink: requestOrigin(c) + "/s/" + code})
}

// ResolveShortLink redirects /s/:code to the recipe page.
func (h *RecipeHandler) ResolveShortLink(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	id, err := h.recipeService.ResolveShortCode(ctx, c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/recipes/"+strconv.FormatInt(id, 10)+"/")
}

// requestOrigin is scheme://host of the current request, honouring proxy headers.
func requestOrigin(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	host := c.Request.Host
	if fwd := c.GetHeader("X-Forwarded-Host"); fwd != "" {
		host = fwd
	}
	return scheme + "://" + host
}
