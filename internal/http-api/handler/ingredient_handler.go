package handler

import (
	"context"
	"net/http"
	"time"

	"foodgram/internal/http-api/dto"
	"foodgram/internal/http-api/repository"
	"foodgram/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type IngredientHandler struct {
	ingredientService service.IngredientService
}

func NewIngredientHandler(ingredientService service.IngredientService) *IngredientHandler {
	return &IngredientHandler{ingredientService: ingredientService}
}

func (h *IngredientHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.List)
	rg.GET("/:id/", h.Get)
}

// List handles GET /ingredients/?name=<prefix>
func (h *IngredientHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	list, err := h.ingredientService.List(ctx, repository.IngredientFilter{NamePrefix: c.Query("name")})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelsToIngredientResponses(list))
}

func (h *IngredientHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	ing, err := h.ingredientService.Get(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToIngredientResponse(ing))
}
