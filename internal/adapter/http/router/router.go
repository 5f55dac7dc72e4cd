package router

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouteRegistrar interface {
	RegisterRoutes(router *mux.Router)
}

// New assembles the HTTP surface. Health and metrics stay outside the auth
// boundary; everything else requires channel credentials.
func New(
	transactionController RouteRegistrar,
	accountController RouteRegistrar,
	userController RouteRegistrar,
	authMiddleware mux.MiddlewareFunc,
	metricsMiddleware mux.MiddlewareFunc,
) *mux.Router {
	router := mux.NewRouter()

	if metricsMiddleware != nil {
		router.Use(metricsMiddleware)
	}

	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := router.NewRoute().Subrouter()
	if authMiddleware != nil {
		api.Use(authMiddleware)
	}

	if transactionController != nil {
		transactionController.RegisterRoutes(api)
	}
	if accountController != nil {
		accountController.RegisterRoutes(api)
	}
	if userController != nil {
		userController.RegisterRoutes(api)
	}

	return router
}
