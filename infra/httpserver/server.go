package httpserver

import (
	"context"
	"errors"
	"time"

	"isletmenum/app/auth"
	"isletmenum/app/business"
	"isletmenum/app/menu"
	"isletmenum/internal/middleware"
	"isletmenum/pkg/apperror"
	"isletmenum/pkg/media"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
)

// bodyLimit leaves room for a maximum size image plus form fields.
const bodyLimit = 8 * 1024 * 1024

type MediaReader interface {
	Open(ctx context.Context, path string) (*media.Object, error)
}

// HealthCheck reports whether one dependency is usable.
type HealthCheck func(ctx context.Context) error

type Handlers struct {
	Login  *auth.LoginHandler
	Logout *auth.LogoutHandler
	Me     *auth.MeHandler

	CreateBusiness    *business.CreateBusinessHandler
	GetBusinesses     *business.GetBusinessesHandler
	GetUserBusinesses *business.GetUserBusinessesHandler
	GetBusiness       *business.GetBusinessHandler
	DeleteBusiness    *business.DeleteBusinessHandler

	CreateCategory *menu.CreateCategoryHandler
	GetCategories  *menu.GetCategoriesHandler
	CreateItem     *menu.CreateItemHandler
	GetItems       *menu.GetItemsHandler
}

type Authenticator interface {
	middleware.TokenValidator
	middleware.TokenIdentifier
}

type Options struct {
	Handlers      Handlers
	Authenticator Authenticator
	Media         MediaReader
	HealthChecks  map[string]HealthCheck
}

func NewApp(opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		IdleTimeout:  5 * time.Second,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		Concurrency:  256 * 1024,
		BodyLimit:    bodyLimit,
		ErrorHandler: writeError,
	})

	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(_ *fiber.Ctx, e interface{}) {
			zap.L().Error("Recovered from panic", zap.Any("panic", e), zap.Stack("stack"))
		},
	}))
	app.Use(requestid.New())
	app.Use(middleware.NewRequestLogger())

	app.Get("/healthz", healthz(opts.HealthChecks))
	if opts.Media != nil {
		app.Get("/media/*", serveMedia(opts.Media))
	}

	// Unversioned paths match the mobile client's URLs. Field names follow
	// the camelCase contract, not the client's current MenuId keys.
	registerRoutes(app, opts)
	registerRoutes(app.Group("/v1"), opts)

	return app
}

func registerRoutes(router fiber.Router, opts Options) {
	h := opts.Handlers
	requireAuth := middleware.NewAuthMiddleware(opts.Authenticator)
	requireToken := middleware.NewTokenMiddleware(opts.Authenticator)

	router.Post("/auth/login", handle[auth.LoginRequest, auth.LoginResponse](h.Login))
	router.Post("/auth/logout", requireToken, handle[auth.LogoutRequest, auth.LogoutResponse](h.Logout))
	router.Get("/auth/me", requireAuth, handle[auth.MeRequest, auth.MeResponse](h.Me))

	router.Post("/business/create", requireAuth, handle[business.CreateBusinessRequest, business.CreateBusinessResponse](h.CreateBusiness))
	router.Get("/business/all", requireAuth, handle[business.GetBusinessesRequest, business.GetBusinessesResponse](h.GetBusinesses))
	router.Get("/api/business/user", requireAuth, handle[business.GetUserBusinessesRequest, business.GetBusinessesResponse](h.GetUserBusinesses))
	router.Get("/business/:id<int>", requireAuth, handle[business.GetBusinessRequest, business.GetBusinessResponse](h.GetBusiness))
	router.Delete("/business/:id<int>", requireAuth, handle[business.DeleteBusinessRequest, business.DeleteBusinessResponse](h.DeleteBusiness))

	getCategories := handle[menu.GetCategoriesRequest, menu.GetCategoriesResponse](h.GetCategories)
	router.Post("/menu/category", requireAuth, handle[menu.CreateCategoryRequest, menu.CreateCategoryResponse](h.CreateCategory))
	router.Get("/menu/categories", requireAuth, getCategories)
	router.Post("/menu/categories", requireAuth, getCategories)
	router.Post("/menu/item", requireAuth, handle[menu.CreateItemRequest, menu.CreateItemResponse](h.CreateItem))
	router.Get("/menu/:menuId<int>/items", requireAuth, handle[menu.GetItemsRequest, menu.GetItemsResponse](h.GetItems))
}

func serveMedia(store MediaReader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		obj, err := store.Open(c.UserContext(), c.Params("*"))
		if err != nil {
			if errors.Is(err, media.ErrNotFound) {
				return apperror.NotFound("media.not_found", "Media not found", nil)
			}
			return apperror.Storage("media.read_failed", "Failed to read media", nil).WithCause(err)
		}

		c.Set(fiber.HeaderContentType, obj.ContentType)
		c.Set(fiber.HeaderCacheControl, "public, max-age=31536000, immutable")
		return c.Send(obj.Data)
	}
}

func healthz(checks map[string]HealthCheck) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		status := "ok"
		results := make(fiber.Map, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				zap.L().Warn("Health check failed", zap.String("check", name), zap.Error(err))
				results[name] = err.Error()
				status = "degraded"
				continue
			}
			results[name] = "ok"
		}

		code := fiber.StatusOK
		if status != "ok" {
			code = fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(fiber.Map{"status": status, "checks": results})
	}
}
