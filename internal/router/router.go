package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/hubsync/backend/api/handler"
	"github.com/hubsync/backend/internal/middleware"
)

type Handlers struct {
	Auth     *apiHandler.AuthHandler
	Task     *apiHandler.TaskHandler
	Document *apiHandler.DocumentHandler
	Content  *apiHandler.ContentHandler
	Profile  *apiHandler.ProfileHandler
	Activity *apiHandler.ActivityHandler
	Sync     *apiHandler.SyncHandler
	Health   *apiHandler.HealthHandler
}

func New(handlers Handlers, auth func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/api/v1/auth/signup", handlers.Auth.SignUp)
	r.POST("/api/v1/auth/signin", handlers.Auth.SignIn)
	r.POST("/api/v1/auth/signout", handlers.Auth.SignOut)
	r.GET("/api/v1/auth/me", handlers.Auth.Me)

	// Protected routes
	r.GET("/api/v1/tasks", auth(handlers.Task.List))
	r.POST("/api/v1/tasks", auth(middleware.AdminOnly(handlers.Task.Create)))
	r.GET("/api/v1/tasks/{id}", auth(handlers.Task.Get))
	r.PUT("/api/v1/tasks/{id}", auth(handlers.Task.Update))
	r.POST("/api/v1/tasks/{id}/complete", auth(handlers.Task.Complete))
	r.DELETE("/api/v1/tasks/{id}", auth(middleware.AdminOnly(handlers.Task.Delete)))

	r.GET("/api/v1/documents", auth(handlers.Document.List))
	r.POST("/api/v1/documents", auth(handlers.Document.Submit))
	r.GET("/api/v1/documents/{id}", auth(handlers.Document.Get))
	r.PUT("/api/v1/documents/{id}", auth(handlers.Document.Update))
	r.POST("/api/v1/documents/{id}/review", auth(middleware.AdminOnly(handlers.Document.Review)))
	r.DELETE("/api/v1/documents/{id}", auth(middleware.AdminOnly(handlers.Document.Delete)))

	r.GET("/api/v1/content", handlers.Content.List)
	r.POST("/api/v1/content", auth(middleware.AdminOnly(handlers.Content.Publish)))
	r.PUT("/api/v1/content/{id}", auth(middleware.AdminOnly(handlers.Content.Update)))
	r.DELETE("/api/v1/content/{id}", auth(middleware.AdminOnly(handlers.Content.Archive)))

	r.GET("/api/v1/users", auth(middleware.AdminOnly(handlers.Profile.List)))
	r.GET("/api/v1/users/me", auth(handlers.Profile.Me))
	r.PUT("/api/v1/users/{email}", auth(middleware.AdminOnly(handlers.Profile.Update)))
	r.DELETE("/api/v1/users/{email}", auth(middleware.AdminOnly(handlers.Profile.Delete)))

	r.GET("/api/v1/activities/{feed}", auth(handlers.Activity.Feed))

	r.GET("/api/v1/sync/status", auth(handlers.Sync.Status))
	r.POST("/api/v1/sync/flush", auth(middleware.AdminOnly(handlers.Sync.Flush)))

	return r
}
