package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/iselbouch1/bouchauto-showcase/docs"
	"github.com/iselbouch1/bouchauto-showcase/internal/http/handlers"
	"github.com/iselbouch1/bouchauto-showcase/internal/models"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

func NewRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Group(func(r chi.Router) {
		r.Use(RateLimitMiddleware)

		r.Post("/login", handlers.LoginHandler)

		r.Route("/api/v1", func(r chi.Router) {
			r.Get("/categories", handlers.GetCategoriesHandler)
			r.Get("/categories/{slug}", handlers.GetCategoryBySlugHandler)
			r.Get("/products", handlers.GetProductsHandler)
			r.Get("/products/tags", handlers.GetProductTagsHandler)
			r.Get("/products/{slug}", handlers.GetProductBySlugHandler)
			r.Get("/products/{id}/related", handlers.GetRelatedProductsHandler)

			r.Route("/admin", func(r chi.Router) {
				r.Use(AuthMiddleware)
				r.Use(RequireRole(models.RoleAdmin))

				r.Post("/categories", handlers.CreateCategoryHandler)
				r.Post("/products", handlers.CreateProductHandler)
				r.Post("/products/import", handlers.ImportProductsHandler)
				r.Get("/products/{id}", handlers.GetProductByIDHandler)
				r.Put("/products/{id}", handlers.UpdateProductHandler)
				r.Delete("/products/{id}", handlers.DeleteProductHandler)
				r.Get("/metrics", handlers.GetDashboardMetricsHandler)
			})
		})
	})

	return r
}
