package router

import (
	"github.com/recipebox/recipebox/internal/application"
	"github.com/recipebox/recipebox/internal/container"
	pginfra "github.com/recipebox/recipebox/internal/infrastructure/postgres"
	handlers "github.com/recipebox/recipebox/internal/interface/http"
	"github.com/recipebox/recipebox/internal/router/modules"
)

// InitModules builds every feature module from container singletons and
// registers it with the router registry. Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()
	jwt := container.GetJWT()

	userRepo := pginfra.NewUserRepository(pool)
	userSvc := application.NewUserService(
		userRepo,
		jwt,
		container.GetRedis(),
		logger,
		container.GetRabbitPub(),
		cfg.MailSendEnabled,
	)
	userHandler := handlers.NewUserHandler(userSvc, jwt, logger, cfg.CookieDomain, cfg.CookieSecure)

	recipeRepo := pginfra.NewRecipeRepository(pool)
	recipeSvc := application.NewRecipeService(
		recipeRepo,
		container.GetGCS(),
		cfg.GCSBucket,
		container.GetES(),
		cfg.ESRecipesIndex,
		logger,
	)
	recipeHandler := handlers.NewRecipeHandler(recipeSvc, logger)

	catalogSvc := application.NewCatalogService(
		pginfra.NewTagRepository(pool),
		pginfra.NewIngredientRepository(pool),
		logger,
	)
	catalogHandler := handlers.NewCatalogHandler(catalogSvc, logger)

	r.Add(
		modules.NewUserModule(userHandler, jwt),
		modules.NewRecipeModule(recipeHandler, jwt),
		modules.NewCatalogModule(catalogHandler, jwt),
	)
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
