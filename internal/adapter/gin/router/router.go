package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"user-admin/internal/adapter/gin/docs"
	"user-admin/internal/adapter/gin/handler"
	"user-admin/internal/adapter/gin/middleware"
	"user-admin/internal/adapter/gin/view"
)

// OpenAPIPath serves the Users API document read by the Swagger UI.
const OpenAPIPath = "/openapi.json"

// SetupAdminRouter configures the router of the user admin screen
func SetupAdminRouter(
	adminHandler *handler.AdminHandler,
	rateLimiter *middleware.RateLimiter,
	session middleware.SessionConfig,
	log *zap.Logger,
) *gin.Engine {
	router := newEngine(log)
	router.SetHTMLTemplate(view.Templates())

	router.GET("/health", health("user-admin"))
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, handler.ScreenPath)
	})

	users := router.Group(handler.ScreenPath, middleware.Session(session))
	{
		users.GET("", adminHandler.Screen)

		// Every action reaches the Users API or the session store.
		actions := users.Group("", rateLimiter.Middleware())
		actions.POST("/load", adminHandler.Load)
		actions.POST("/page", adminHandler.Page)
		actions.POST("/select", adminHandler.Select)
		actions.POST("/delete/open", adminHandler.OpenDelete)
		actions.POST("/delete/choose", adminHandler.ChooseDelete)
		actions.POST("/create/open", adminHandler.OpenCreate)
		actions.POST("/create/field", adminHandler.ChangeField)
		actions.POST("/create/submit", adminHandler.SubmitCreate)
		actions.POST("/create/cancel", adminHandler.CancelCreate)
		actions.POST("/reset", adminHandler.Reset)
	}

	return router
}

// SetupUsersAPIRouter configures the router of the development Users API
func SetupUsersAPIRouter(userHandler *handler.UserHandler, log *zap.Logger) *gin.Engine {
	router := newEngine(log)
	router.Use(middleware.ForwardedSession())

	router.GET("/health", health("users-api"))

	router.GET(OpenAPIPath, func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", docs.OpenAPI)
	})
	router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL(OpenAPIPath))))

	api := router.Group("/api")
	{
		users := api.Group("/users")
		{
			users.POST("", userHandler.CreateUser)
			users.GET("", userHandler.ListUsers)
			users.GET("/:id", userHandler.GetUser)
			users.DELETE("/:id", userHandler.DeleteUser)
		}
	}

	return router
}

func newEngine(log *zap.Logger) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))

	return router
}

func health(service string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": service,
		})
	}
}
