package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/forka/forum-backend/docs"
	"github.com/forka/forum-backend/internal/api/handler"
	"github.com/forka/forum-backend/internal/api/middleware"
	"github.com/forka/forum-backend/internal/core/domain"
	"github.com/forka/forum-backend/internal/core/ports"
)

// Deps carries the wired services the router exposes. main builds them so it
// can also own the dispatcher lifecycle.
type Deps struct {
	Auth          ports.AuthService
	Posts         ports.PostService
	Comments      ports.CommentService
	Categories    ports.CategoryService
	Notifications ports.NotificationService
	Users         ports.UserService

	Limit     middleware.AllowFunc
	JWTSecret string

	Mongo *mongo.Database
	Redis *redis.Client
	Log   zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORS())
	e.Use(echomiddleware.Secure())
	e.Use(echoprometheus.NewMiddleware("forka"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth)
	postHandler := handler.NewPostHandler(d.Posts)
	commentHandler := handler.NewCommentHandler(d.Comments)
	categoryHandler := handler.NewCategoryHandler(d.Categories)
	notificationHandler := handler.NewNotificationHandler(d.Notifications)
	userHandler := handler.NewUserHandler(d.Users)

	authMW := middleware.Auth(d.JWTSecret)

	// --- Auth routes (public, rate limited per client IP) ---
	auth := e.Group("/api/auth")
	perHour := func(scope string, limit int64) echo.MiddlewareFunc {
		return middleware.RateLimit(d.Limit, scope, limit, time.Hour, d.Log)
	}

	auth.POST("/register", authHandler.Register, perHour("register", 3))
	auth.POST("/login", authHandler.Login,
		middleware.RateLimit(d.Limit, "login", 5, time.Minute, d.Log))
	auth.POST("/verify-email", authHandler.VerifyEmail, perHour("verify_email", 10))
	auth.POST("/resend-verification", authHandler.ResendVerification, perHour("resend_verification", 10))
	auth.POST("/forgot-password", authHandler.ForgotPassword, perHour("forgot_password", 10))
	auth.POST("/verify-reset-code", authHandler.VerifyResetCode, perHour("verify_reset_code", 10))
	auth.POST("/reset-password", authHandler.ResetPassword, perHour("reset_password", 10))
	auth.POST("/token/refresh", authHandler.Refresh)
	auth.POST("/logout", authHandler.Logout)

	// --- Authenticated API ---
	apiGroup := e.Group("/api", authMW)

	apiGroup.GET("/categories", categoryHandler.List)
	apiGroup.GET("/categories/:id", categoryHandler.Get)
	apiGroup.POST("/categories", categoryHandler.Create, middleware.RBAC(domain.ActionManageCategories))
	apiGroup.PUT("/categories/:id", categoryHandler.Update, middleware.RBAC(domain.ActionManageCategories))
	apiGroup.DELETE("/categories/:id", categoryHandler.Delete, middleware.RBAC(domain.ActionManageCategories))

	apiGroup.GET("/posts", postHandler.List)
	apiGroup.POST("/posts", postHandler.Create)
	apiGroup.GET("/posts/:id", postHandler.Get)
	apiGroup.PUT("/posts/:id", postHandler.Update)
	apiGroup.DELETE("/posts/:id", postHandler.Delete)
	apiGroup.POST("/posts/:id/like", postHandler.ToggleLike)
	apiGroup.GET("/posts/:id/comments", commentHandler.ListByPost)
	apiGroup.POST("/posts/:id/comments", commentHandler.Create)

	apiGroup.PUT("/comments/:id", commentHandler.Update)
	apiGroup.DELETE("/comments/:id", commentHandler.Delete)
	apiGroup.POST("/comments/:id/like", commentHandler.ToggleLike)

	apiGroup.GET("/notifications", notificationHandler.List)
	apiGroup.POST("/notifications/read-all", notificationHandler.MarkAllRead)
	apiGroup.POST("/notifications/:id/read", notificationHandler.MarkRead)

	apiGroup.GET("/users/me", userHandler.Me)
	apiGroup.PUT("/users/me", userHandler.UpdateMe)
	apiGroup.PUT("/users/me/password", userHandler.ChangePassword)
	apiGroup.GET("/users/:username", userHandler.GetByUsername)

	apiGroup.GET("/admin/users", userHandler.List, middleware.RBAC(domain.ActionManageUsers))
	apiGroup.PUT("/admin/users/:id/role", userHandler.UpdateRole, middleware.RBAC(domain.ActionManageUsers))

	// --- Ops surface ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Mongo, d.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
