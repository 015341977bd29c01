package routes

import (
	"time"

	"github.com/brahdyssey/itimeline-backend/internal/config"
	"github.com/brahdyssey/itimeline-backend/internal/handlers"
	"github.com/brahdyssey/itimeline-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	healthHandler *handlers.HealthHandler,
	reportHandler *handlers.ReportHandler,
	adminHandler *handlers.AdminHandler,
	memberHandler *handlers.MemberHandler,
	passportHandler *handlers.PassportHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Report submission. Anonymous is allowed, so the JWT is optional here;
	// a stricter limit keeps drive-by spam in check.
	submit := api.Group("/reports", middleware.JWTOptional(cfg))
	submit.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	submit.Post("/user", reportHandler.SubmitUser)

	api.Post("/timelines/:timeline_id/reports", middleware.JWTOptional(cfg), reportHandler.SubmitPost)

	// Timeline-scoped moderation (moderator or above, checked in the service)
	tl := api.Group("/timelines/:timeline_id", middleware.JWTProtected(cfg))
	tl.Get("/reports", reportHandler.List)
	tl.Get("/reports/:report_id", reportHandler.Get)
	tl.Post("/reports/:report_id/accept", reportHandler.Accept)
	tl.Post("/reports/:report_id/escalate", reportHandler.Escalate)
	tl.Post("/reports/:report_id/resolve", reportHandler.Resolve)

	// Membership management
	tl.Get("/members", memberHandler.List)
	tl.Post("/members", memberHandler.Add)
	tl.Delete("/members/:user_id", memberHandler.Remove)
	tl.Put("/members/:user_id/role", memberHandler.UpdateRole)
	tl.Put("/members/:user_id/block", memberHandler.SetBlocked)

	// Site-level queue (site admin required, checked in the service)
	admin := api.Group("/admin", middleware.JWTProtected(cfg))
	admin.Get("/reports", adminHandler.ListQueue)
	admin.Post("/reports/:report_id/accept", adminHandler.Accept)
	admin.Post("/reports/:report_id/resolve", adminHandler.Resolve)

	// Membership passport mirror
	passport := api.Group("/user/passport", middleware.JWTProtected(cfg))
	passport.Get("/", passportHandler.Get)
	passport.Post("/sync", passportHandler.Sync)
}
