package main

import (
	"net/http"

	"github.com/mytheresa/product-catalog/app/catalog"
	"github.com/mytheresa/product-catalog/app/categories"
	"github.com/mytheresa/product-catalog/logger"
	"go.uber.org/zap"
)

// newRouter wires every route behind the request logger.
func newRouter(svc *catalog.Service, photos *catalog.PhotoStore, forms *catalog.FormSession, log *zap.Logger, opts catalog.Options) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	catalog.NewCatalogHandler(svc, photos, forms, log, opts).RegisterRoutes(mux)
	categories.NewCategoryHandler(svc, log).RegisterRoutes(mux)

	return logger.RequestLogger(log)(mux)
}
