package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cmsapi/internal/http/middleware"
	"cmsapi/internal/service"
)

// Deps groups what the HTTP layer needs.
type Deps struct {
	Pinger     Pinger
	Posts      service.PostService
	Categories service.CategoryService
	Tags       service.TagService
	Profiles   service.ProfileService
	JWTSecret  []byte
	MaxFiles   int
	// RateLimiter guards write routes; nil disables limiting.
	RateLimiter *middleware.RateLimiter
	// Gatherer backs /metrics; nil skips the endpoint.
	Gatherer prometheus.Gatherer
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/health", HealthCheck(d.Pinger))
	app.Get("/healthz", LivenessProbe())
	if d.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	limit := func(c *fiber.Ctx) error { return c.Next() }
	if d.RateLimiter != nil {
		limit = d.RateLimiter.Handler()
	}
	auth := middleware.Auth(d.JWTSecret)
	admin := middleware.RequireRole("admin")

	api := app.Group("/api")

	api.Post("/posts", limit, auth, CreatePost(d.Posts, d.MaxFiles))
	api.Get("/posts/:id", GetPost(d.Posts))

	api.Get("/categories", ListCategories(d.Categories))
	api.Post("/categories", limit, auth, admin, CreateCategory(d.Categories))
	api.Get("/categories/:id", GetCategory(d.Categories))
	api.Put("/categories/:id", limit, auth, admin, UpdateCategory(d.Categories))
	api.Delete("/categories/:id", limit, auth, admin, DeleteCategory(d.Categories))

	api.Get("/tags", ListTags(d.Tags))
	api.Post("/tags", limit, auth, admin, CreateTag(d.Tags))
	api.Get("/tags/:id", GetTag(d.Tags))
	api.Put("/tags/:id", limit, auth, admin, UpdateTag(d.Tags))
	api.Delete("/tags/:id", limit, auth, admin, DeleteTag(d.Tags))

	// /me is registered before /:id so the literal segment wins.
	api.Get("/profiles/me", auth, GetMyProfile(d.Profiles))
	api.Put("/profiles/me", limit, auth, UpdateMyProfile(d.Profiles))
	api.Get("/profiles", auth, admin, ListProfiles(d.Profiles))
	api.Get("/profiles/:id", auth, admin, GetProfile(d.Profiles))
	api.Delete("/profiles/:id", limit, auth, admin, DeleteProfile(d.Profiles))
}
