package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/grievance-service/internal/api/http/handlers"
	"github.com/spec-kit/grievance-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Grievances     *handlers.GrievancesHandler
	Admin          *handlers.AdminHandler
	Credits        *handlers.CreditsHandler
	Notifications  *handlers.NotificationsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)

	authenticated := authGroup.Group("", cfg.AuthMiddleware.Handle)
	authenticated.Get("/me", cfg.Users.Me)
	authenticated.Post("/password/change", cfg.Users.ChangePassword)

	// Blocked users keep read access; every write affordance sits behind
	// RequireUser which rejects them.
	user := app.Group("", cfg.AuthMiddleware.Handle)
	user.Get("/grievances", cfg.Grievances.List)
	user.Get("/grievances/:id", cfg.Grievances.Get)
	user.Get("/notifications", cfg.Notifications.List)
	user.Post("/notifications/:id/read", cfg.Notifications.MarkRead)

	userWrite := user.Group("", auth.RequireUser())
	userWrite.Post("/grievances", cfg.Grievances.Submit)
	userWrite.Post("/grievances/:id/comments", cfg.Grievances.AddComment)
	userWrite.Post("/grievances/:id/resubmit", cfg.Grievances.Resubmit)
	userWrite.Post("/credits/request", cfg.Credits.Request)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	admin.Get("/grievances", cfg.Admin.ListGrievances)
	admin.Post("/grievances/:id/start", cfg.Admin.StartProcessing)
	admin.Post("/grievances/:id/resolve", cfg.Admin.Resolve)
	admin.Post("/grievances/:id/assign", cfg.Admin.Assign)
	admin.Put("/grievances/:id/priority", cfg.Admin.EscalatePriority)
	admin.Delete("/grievances/:id", cfg.Admin.Remove)

	admin.Get("/credits/requests", cfg.Credits.ListPending)
	admin.Post("/credits/requests/:id/approve", cfg.Credits.Approve)
	admin.Post("/credits/requests/:id/reject", cfg.Credits.Reject)

	admin.Get("/users", cfg.Admin.ListUsers)
	admin.Post("/users/:id/warn", cfg.Admin.Warn)
	admin.Post("/users/:id/block", cfg.Admin.Block)
	admin.Post("/users/:id/unblock", cfg.Admin.Unblock)
	admin.Post("/users/:id/credits", cfg.Credits.Grant)
}
