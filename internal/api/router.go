package api

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/ndtollman/mainstay/internal/auth"
	"github.com/ndtollman/mainstay/internal/handlers"
	"github.com/ndtollman/mainstay/internal/middleware"
	"github.com/ndtollman/mainstay/internal/rbac"
)

// Dependencies carries the shared services the router wires into handlers.
type Dependencies struct {
	DB       *gorm.DB
	Sessions *auth.SessionService
	Resolver *rbac.Resolver

	MetricsEnabled bool
}

// NewRouter builds the gin engine with all routes registered. Every
// protected route is gated by the session middleware plus a permission
// requirement; handlers never re-check authorization.
func NewRouter(deps Dependencies) (*gin.Engine, error) {
	if deps.DB == nil || deps.Sessions == nil || deps.Resolver == nil {
		return nil, errors.New("api: db, session service, and resolver are required")
	}

	authHandler, err := handlers.NewAuthHandler(deps.DB, deps.Sessions)
	if err != nil {
		return nil, err
	}
	capHandler, err := handlers.NewCapabilityHandler(deps.DB, deps.Resolver)
	if err != nil {
		return nil, err
	}
	roleHandler, err := handlers.NewRoleHandler(deps.DB)
	if err != nil {
		return nil, err
	}
	userHandler, err := handlers.NewUserHandler(deps.DB)
	if err != nil {
		return nil, err
	}
	assetHandler, err := handlers.NewAssetHandler(deps.DB)
	if err != nil {
		return nil, err
	}
	workOrderHandler, err := handlers.NewWorkOrderHandler(deps.DB)
	if err != nil {
		return nil, err
	}
	siteHandler, err := handlers.NewSiteHandler(deps.DB)
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery())

	if deps.MetricsEnabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	r.GET("/api/health", handlers.Health(deps.DB))
	r.POST("/api/auth/login", authHandler.Login)

	api := r.Group("/api", middleware.Session(deps.Sessions))

	api.GET("/auth/me", authHandler.Me)

	perms := api.Group("/permissions")
	{
		perms.GET("/my", capHandler.My)
		perms.GET("/registry", middleware.RequirePermission(deps.Resolver, rbac.PermSystemAdmin), capHandler.Registry)
	}

	api.GET("/roles", middleware.RequirePermission(deps.Resolver, rbac.PermRolesRead), roleHandler.List)

	users := api.Group("/users")
	{
		users.GET("", middleware.RequirePermission(deps.Resolver, rbac.PermUsersRead), userHandler.List)
		users.POST("", middleware.RequirePermission(deps.Resolver, rbac.PermUsersWrite), userHandler.Create)
		users.DELETE("/:id", middleware.RequirePermission(deps.Resolver, rbac.PermUsersDelete), userHandler.Deactivate)
		users.GET("/:id/roles", middleware.RequirePermission(deps.Resolver, rbac.PermUsersRead), roleHandler.UserRoles)
		users.POST("/:id/roles", middleware.RequirePermission(deps.Resolver, rbac.PermUsersWrite), roleHandler.Grant)
		users.DELETE("/:id/roles/:role", middleware.RequirePermission(deps.Resolver, rbac.PermUsersWrite), roleHandler.Revoke)
	}

	assets := api.Group("/assets")
	{
		assets.GET("", middleware.RequirePermission(deps.Resolver, rbac.PermAssetsRead), assetHandler.List)
		assets.GET("/:id", middleware.RequirePermission(deps.Resolver, rbac.PermAssetsRead), assetHandler.Get)
		assets.POST("", middleware.RequirePermission(deps.Resolver, rbac.PermAssetsWrite), assetHandler.Create)
		assets.PATCH("/:id", middleware.RequirePermission(deps.Resolver, rbac.PermAssetsWrite), assetHandler.Update)
		assets.DELETE("/:id", middleware.RequirePermission(deps.Resolver, rbac.PermAssetsDelete), assetHandler.Delete)
	}

	orders := api.Group("/work-orders")
	{
		orders.GET("", middleware.RequirePermission(deps.Resolver, rbac.PermWorkOrdersRead), workOrderHandler.List)
		orders.POST("", middleware.RequirePermission(deps.Resolver, rbac.PermWorkOrdersWrite), workOrderHandler.Create)
		orders.PATCH("/:id/status", middleware.RequirePermission(deps.Resolver, rbac.PermWorkOrdersWrite), workOrderHandler.UpdateStatus)
		orders.POST("/:id/assign", middleware.RequirePermission(deps.Resolver, rbac.PermWorkOrdersAssign), workOrderHandler.Assign)
		orders.DELETE("/:id", middleware.RequirePermission(deps.Resolver, rbac.PermWorkOrdersDelete), workOrderHandler.Delete)
	}

	sites := api.Group("/sites")
	{
		sites.GET("", middleware.RequirePermission(deps.Resolver, rbac.PermSitesRead), siteHandler.List)
		sites.POST("", middleware.RequirePermission(deps.Resolver, rbac.PermSitesWrite), siteHandler.Create)
		sites.GET("/:id/buildings", middleware.RequirePermission(deps.Resolver, rbac.PermBuildingsRead), siteHandler.ListBuildings)
		sites.POST("/:id/buildings", middleware.RequirePermission(deps.Resolver, rbac.PermBuildingsWrite), siteHandler.CreateBuilding)
	}

	api.POST("/buildings/:id/rooms", middleware.RequirePermission(deps.Resolver, rbac.PermRoomsWrite), siteHandler.CreateRoom)

	return r, nil
}
