package app

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/together/internal/apperror"
	"github.com/keyxmakerx/together/internal/middleware"
	"github.com/keyxmakerx/together/internal/plugins/admin"
	"github.com/keyxmakerx/together/internal/plugins/auth"
	"github.com/keyxmakerx/together/internal/plugins/content"
	"github.com/keyxmakerx/together/internal/plugins/dashboard"
	"github.com/keyxmakerx/together/internal/plugins/events"
	"github.com/keyxmakerx/together/internal/plugins/messages"
	"github.com/keyxmakerx/together/internal/templates/pages"
)

// healthTimeout bounds the store ping behind /healthz.
const healthTimeout = 2 * time.Second

// RegisterRoutes sets up all application routes. It registers public routes
// directly and delegates to each plugin's route registration function.
//
// This is the single place where all routes are aggregated. When a new
// plugin is added, its routes are registered here.
func (a *App) RegisterRoutes() {
	e := a.Echo

	// --- Services ---
	authService := auth.NewAuthService(a.Stores.Users, a.Tokens, a.Config.AllowAdminSignup)
	eventService := events.NewEventService(a.Stores.Events)
	messageService := messages.NewMessageService(a.Stores.Messages)
	contentService := content.NewContentService(a.Stores.Content)
	adminService := admin.NewAdminService(a.Stores.Users, eventService)
	dashboardService := dashboard.NewDashboardService(eventService, messageService, contentService)

	// --- Public Routes (no auth required) ---
	e.GET("/", a.landing)
	e.GET("/healthz", a.healthz)

	// auth plugin (public: signup, login; /me requires a token)
	auth.RegisterRoutes(e, auth.NewHandler(authService), authService)

	// content plugin (public catalogue)
	content.RegisterRoutes(e, content.NewHandler(contentService))

	// --- Admin Routes ---
	admin.RegisterRoutes(e, admin.NewHandler(adminService), authService)

	// --- Member Routes ---
	// Every route below requires a valid bearer token.
	member := e.Group("/member", auth.RequireAuth(authService))
	dashboard.RegisterRoutes(member, dashboard.NewHandler(dashboardService))
	events.RegisterRoutes(member, events.NewHandler(eventService))
	messages.RegisterRoutes(member, messages.NewHandler(messageService))
}

// landing serves <static dir>/landing.html when present, and the built-in
// landing page otherwise.
func (a *App) landing(c echo.Context) error {
	path := filepath.Join(a.Config.StaticDir, "landing.html")
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return c.File(path)
	}
	return middleware.Render(c, http.StatusOK, pages.Landing(pages.LandingData{
		SiteName:    "Together Culture",
		FrontendURL: a.Config.FrontendOrigin,
	}))
}

// healthz reports whether the store answers a ping.
func (a *App) healthz(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
	defer cancel()

	if err := a.Stores.Ping(ctx); err != nil {
		return apperror.NewUnavailable("store unreachable", err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
