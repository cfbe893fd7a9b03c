package router

import (
	"context"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"eshop/internal/config"
	"eshop/internal/handler"
	"eshop/internal/middleware"
	"eshop/internal/model"
	"eshop/internal/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// healthTimeout bounds the database ping made by /health.
const healthTimeout = 2 * time.Second

// Handlers groups the resource handlers mounted under the API root.
type Handlers struct {
	Category *handler.CategoryHandler
	Product  *handler.ProductHandler
	User     *handler.UserHandler
	Order    *handler.OrderHandler
}

// Dependencies are the collaborators the router wires together.
type Dependencies struct {
	Handlers Handlers
	Verifier middleware.TokenVerifier
	Metrics  *middleware.Metrics
	Limiter  *middleware.RateLimiter
	// Ping reports database reachability for /health.
	Ping func(ctx context.Context) error
	// ServeUploads mounts the upload directory under the public path.
	ServeUploads bool
}

// New creates a new HTTP router with all routes and middleware configured.
func New(cfg *config.Config, deps Dependencies, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware order: Recovery -> RequestID -> Logging -> Metrics -> CORS
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(logger))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Instrument)
	}
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, r, model.NewNotFound("Route not found."), logger)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, http.StatusMethodNotAllowed, model.ErrorResponse{
			Message:       "method not allowed",
			Error:         &model.ErrorDetail{Code: "METHOD_NOT_ALLOWED"},
			CorrelationID: response.RequestID(r.Context()),
		})
	})

	// Health check endpoint (no authentication required)
	r.Get("/health", healthHandler(deps.Ping))
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	uploadsPath := "/" + strings.Trim(cfg.Storage.PublicPath, "/") + "/"
	apiURL := cfg.Server.APIURL

	r.Group(func(r chi.Router) {
		r.Use(middleware.Authorize(deps.Verifier, middleware.PublicRoutes(apiURL, uploadsPath), logger))

		if deps.ServeUploads {
			files := http.StripPrefix(uploadsPath, http.FileServer(noDirListing{http.Dir(cfg.Storage.UploadDir)}))
			r.Method(http.MethodGet, uploadsPath+"*", files)
		}

		r.Route(apiURL, func(r chi.Router) {
			mountCategories(r, deps.Handlers.Category)
			mountProducts(r, deps.Handlers.Product)
			mountUsers(r, deps.Handlers.User, deps.Limiter)
			mountOrders(r, deps.Handlers.Order)
		})
	})

	return r
}

func mountCategories(r chi.Router, h *handler.CategoryHandler) {
	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.GetAll)
		r.Post("/", h.Create)
		r.Get("/{id}", h.GetByID)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

func mountProducts(r chi.Router, h *handler.ProductHandler) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.GetAll)
		r.Post("/", h.Create)
		r.Get("/get/count", h.Count)
		r.Get("/get/featured", h.GetFeatured)
		r.Get("/get/featured/{count}", h.GetFeatured)
		r.Put("/gallery-images/{id}", h.UpdateGallery)
		r.Get("/{id}", h.GetByID)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

func mountUsers(r chi.Router, h *handler.UserHandler, limiter *middleware.RateLimiter) {
	r.Route("/users", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if limiter != nil {
				r.Use(limiter.Handler)
			}
			r.Post("/login", h.Login)
			r.Post("/register", h.Register)
		})

		r.Get("/", h.GetAll)
		r.Post("/", h.Create)
		r.Get("/get/count", h.Count)
		r.Get("/{id}", h.GetByID)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

func mountOrders(r chi.Router, h *handler.OrderHandler) {
	r.Route("/orders", func(r chi.Router) {
		r.Get("/", h.GetAll)
		r.Post("/", h.Create)
		r.Get("/get/totalsales", h.TotalSales)
		r.Get("/get/count", h.Count)
		r.Get("/get/userorders/{userId}", h.GetByUser)
		r.Get("/{id}", h.GetByID)
		r.Put("/{id}", h.UpdateStatus)
		r.Delete("/{id}", h.Delete)
	})
}

func healthHandler(ping func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
			defer cancel()
			if err := ping(ctx); err != nil {
				response.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy", "database": "unreachable"})
				return
			}
		}
		response.JSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	}
}

// noDirListing hides directory indexes of the upload directory.
type noDirListing struct {
	root http.FileSystem
}

func (n noDirListing) Open(name string) (http.File, error) {
	f, err := n.root.Open(name)
	if err != nil {
		return nil, err
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if stat.IsDir() {
		f.Close()
		return nil, fs.ErrNotExist
	}
	return f, nil
}
