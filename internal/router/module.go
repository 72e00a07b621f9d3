package router

import "github.com/gin-gonic/gin"

// Module is one routable feature slice (users, recipes, catalog, debug).
// Each implementation attaches its own routes and per-route middleware.
type Module interface {
	Register(rg *gin.RouterGroup)
}
