package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/recipebox/recipebox/internal/container"
	handlers "github.com/recipebox/recipebox/internal/interface/http"
	"github.com/recipebox/recipebox/internal/interface/middleware"
	"github.com/recipebox/recipebox/pkg/helpers"
)

// CatalogModule registers the tag and ingredient routes. Both namespaces
// share the handler and the same route shape.
type CatalogModule struct {
	Handler *handlers.CatalogHandler
	JWT     *helpers.JWTManager
}

func NewCatalogModule(h *handlers.CatalogHandler, jwt *helpers.JWTManager) *CatalogModule {
	return &CatalogModule{Handler: h, JWT: jwt}
}

func (m *CatalogModule) Register(rg *gin.RouterGroup) {
	limiter := middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByUserID(), nil)

	tags := rg.Group("/tags")
	tags.Use(middleware.Auth(container.GetRedis(), m.JWT), limiter)
	{
		tags.GET("", m.Handler.ListTags)
		tags.POST("", m.Handler.CreateTag)
		tags.PATCH("/:id", m.Handler.RenameTag)
		tags.DELETE("/:id", m.Handler.DeleteTag)
	}

	ingredients := rg.Group("/ingredients")
	ingredients.Use(middleware.Auth(container.GetRedis(), m.JWT), limiter)
	{
		ingredients.GET("", m.Handler.ListIngredients)
		ingredients.POST("", m.Handler.CreateIngredient)
		ingredients.PATCH("/:id", m.Handler.RenameIngredient)
		ingredients.DELETE("/:id", m.Handler.DeleteIngredient)
	}
}
