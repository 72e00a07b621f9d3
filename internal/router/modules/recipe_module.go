package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/recipebox/recipebox/internal/container"
	handlers "github.com/recipebox/recipebox/internal/interface/http"
	"github.com/recipebox/recipebox/internal/interface/middleware"
	"github.com/recipebox/recipebox/pkg/helpers"
)

// RecipeModule registers the recipe CRUD, image upload, and search routes.
// Everything here requires an authenticated owner.
type RecipeModule struct {
	Handler *handlers.RecipeHandler
	JWT     *helpers.JWTManager
}

func NewRecipeModule(h *handlers.RecipeHandler, jwt *helpers.JWTManager) *RecipeModule {
	return &RecipeModule{Handler: h, JWT: jwt}
}

func (m *RecipeModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/recipes")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByUserID(), nil))

	// Uploads are heavier; cap them separately.
	uploadLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByUserID(), nil)

	auth.GET("", m.Handler.List)
	auth.POST("", m.Handler.Create)
	auth.GET("/search", m.Handler.Search)
	auth.GET("/:id", m.Handler.Get)
	auth.PUT("/:id", m.Handler.Put)
	auth.PATCH("/:id", m.Handler.Patch)
	auth.DELETE("/:id", m.Handler.Delete)
	auth.POST("/:id/image", uploadLimiter, m.Handler.UploadImage)
}
