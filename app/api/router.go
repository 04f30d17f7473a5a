package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/acme/inventory-service/app/categories"
	"github.com/acme/inventory-service/app/httpx"
	"github.com/acme/inventory-service/app/products"
)

// Router wires the resource handlers into a single HTTP surface.
type Router struct {
	categories *categories.CategoryHandler
	products   *products.ProductHandler
	db         *gorm.DB
	logger     *zap.Logger
}

func NewRouter(
	categoryHandler *categories.CategoryHandler,
	productHandler *products.ProductHandler,
	db *gorm.DB,
	logger *zap.Logger,
) *Router {
	return &Router{
		categories: categoryHandler,
		products:   productHandler,
		db:         db,
		logger:     logger,
	}
}

// Setup configures all routes and middleware.
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(RequestLogger(rt.logger))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	router.Get("/health", rt.healthCheck)

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/categories", func(r chi.Router) {
			r.Post("/", rt.categories.HandleCreate)
			r.Get("/", rt.categories.HandleGetAll)
			r.Get("/{id}", rt.categories.HandleGet)
			r.Put("/{id}", rt.categories.HandleUpdate)
			r.Delete("/{id}", rt.categories.HandleDelete)
		})

		r.Route("/products", func(r chi.Router) {
			r.Post("/", rt.products.HandleCreate)
			r.Get("/", rt.products.HandleList)
			r.Get("/{id}", rt.products.HandleGet)
			r.Put("/{id}", rt.products.HandleUpdate)
			r.Delete("/{id}", rt.products.HandleDelete)
		})
	})

	return router
}

func (rt *Router) healthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	sqlDB, err := rt.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		rt.logger.Warn("health check failed", zap.Error(err))
		httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
