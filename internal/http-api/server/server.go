package server

import (
	"net/http"
	"strings"

	"foodgram/internal/config"
	"foodgram/internal/http-api/dto"
	"foodgram/internal/http-api/handler"
	"foodgram/internal/http-api/middleware"
	"foodgram/internal/http-api/service"
	"foodgram/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services is everything the HTTP layer depends on.
type Services struct {
	Auth          service.AuthService
	Users         service.UserService
	Subscriptions service.SubscriptionService
	Tags          service.TagService
	Ingredients   service.IngredientService
	Recipes       service.RecipeService
	Admin         service.AdminService
}

// NewRouter builds the gin engine with middleware and every route mounted.
func NewRouter(cfg *config.Config, svc Services, media dto.MediaURLs) (*gin.Engine, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := handler.RegisterValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logging.Error().
			Interface("panic", recovered).
			Str("path", c.Request.URL.Path).
			Msg("Recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}))
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
	r.Use(middleware.Authenticate(svc.Auth))

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if cfg.PrometheusEnabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
	if cfg.StorageBackend == "local" && strings.HasPrefix(cfg.MediaURL, "/") {
		r.Static(strings.TrimSuffix(cfg.MediaURL, "/"), cfg.MediaRoot)
	}

	api := r.Group("/api")
	handler.NewAuthHandler(svc.Auth).RegisterRoutes(api.Group("/auth"))
	handler.NewUserHandler(svc.Users, svc.Subscriptions, media).RegisterRoutes(api.Group("/users"))
	handler.NewTagHandler(svc.Tags).RegisterRoutes(api.Group("/tags"))
	handler.NewIngredientHandler(svc.Ingredients).RegisterRoutes(api.Group("/ingredients"))

	recipes := handler.NewRecipeHandler(svc.Recipes, svc.Subscriptions, media)
	recipes.RegisterRoutes(api.Group("/recipes"))
	recipes.RegisterShortLinks(r)

	handler.NewAdminHandler(handler.AdminServices{
		Admin:         svc.Admin,
		Users:         svc.Users,
		Tags:          svc.Tags,
		Ingredients:   svc.Ingredients,
		Subscriptions: svc.Subscriptions,
	}).RegisterRoutes(api.Group("/admin"))

	return r, nil
}
